package library

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"library/internal/types"
)

// ErrConflict is returned by Save when a staged mutation no longer matches stored state:
// adding an id that already exists, or updating/deleting a row that is gone.
var ErrConflict = errors.New("staged change conflicts with stored data")

type Store interface {
	// Begin opens a unit of work. Staged mutations are invisible until Save succeeds.
	Begin() Repository
}

type Repository interface {
	AuthorExists(ctx context.Context, authorId uuid.UUID) (bool, error)
	GetAuthors(ctx context.Context) ([]*types.Author, error)
	// GetAuthor returns nil, nil when there is no such author
	GetAuthor(ctx context.Context, authorId uuid.UUID) (*types.Author, error)
	// AddAuthor stages the author, assigning a fresh id when Id is zero
	AddAuthor(author *types.Author)

	// GetBooksForAuthor orders books by title
	GetBooksForAuthor(ctx context.Context, authorId uuid.UUID) ([]*types.Book, error)
	// GetBookForAuthor returns nil, nil when the book is missing or belongs to someone else
	GetBookForAuthor(ctx context.Context, authorId, bookId uuid.UUID) (*types.Book, error)
	// AddBookForAuthor stages the book under authorId, assigning a fresh id when Id is zero
	AddBookForAuthor(authorId uuid.UUID, book *types.Book)
	UpdateBookForAuthor(book *types.Book)
	DeleteBook(book *types.Book)

	// Save commits every staged mutation atomically and clears the stage.
	Save(ctx context.Context) error
}
