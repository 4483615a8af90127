package library

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"

	"library/internal/types"
)

// MemoryStore keeps authors and books in process memory. It is used when no database is
// configured and by the handler tests.
type MemoryStore struct {
	mu      sync.RWMutex
	authors map[uuid.UUID]types.Author
	books   map[uuid.UUID]types.Book
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		authors: make(map[uuid.UUID]types.Author),
		books:   make(map[uuid.UUID]types.Book),
	}
}

func (s *MemoryStore) Begin() Repository {
	return &memoryRepo{store: s}
}

type memoryState struct {
	authors map[uuid.UUID]types.Author
	books   map[uuid.UUID]types.Book
}

type memoryOp func(st *memoryState) error

type memoryRepo struct {
	store  *MemoryStore
	staged []memoryOp
}

func (r *memoryRepo) AuthorExists(_ context.Context, authorId uuid.UUID) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	_, ok := r.store.authors[authorId]
	return ok, nil
}

func (r *memoryRepo) GetAuthors(_ context.Context) ([]*types.Author, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	ret := make([]*types.Author, 0, len(r.store.authors))
	for _, a := range r.store.authors {
		ret = append(ret, &a)
	}

	slices.SortFunc(ret, func(a, b *types.Author) int {
		return cmp.Or(
			cmp.Compare(a.FirstName, b.FirstName),
			cmp.Compare(a.LastName, b.LastName),
		)
	})

	return ret, nil
}

func (r *memoryRepo) GetAuthor(_ context.Context, authorId uuid.UUID) (*types.Author, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	a, ok := r.store.authors[authorId]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *memoryRepo) AddAuthor(author *types.Author) {
	if author.Id == uuid.Nil {
		author.Id = uuid.New()
	}
	a := *author

	r.staged = append(r.staged, func(st *memoryState) error {
		if _, ok := st.authors[a.Id]; ok {
			return fmt.Errorf("%w: author %s already exists", ErrConflict, a.Id)
		}
		st.authors[a.Id] = a
		return nil
	})
}

func (r *memoryRepo) GetBooksForAuthor(_ context.Context, authorId uuid.UUID) ([]*types.Book, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var ret []*types.Book
	for _, b := range r.store.books {
		if b.AuthorId == authorId {
			ret = append(ret, &b)
		}
	}

	slices.SortFunc(ret, func(a, b *types.Book) int {
		return cmp.Or(
			cmp.Compare(a.Title, b.Title),
			cmp.Compare(a.Id.String(), b.Id.String()),
		)
	})

	return ret, nil
}

func (r *memoryRepo) GetBookForAuthor(_ context.Context, authorId, bookId uuid.UUID) (*types.Book, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	b, ok := r.store.books[bookId]
	if !ok || b.AuthorId != authorId {
		return nil, nil
	}
	return &b, nil
}

func (r *memoryRepo) AddBookForAuthor(authorId uuid.UUID, book *types.Book) {
	if book.Id == uuid.Nil {
		book.Id = uuid.New()
	}
	book.AuthorId = authorId
	b := *book

	r.staged = append(r.staged, func(st *memoryState) error {
		if _, ok := st.authors[b.AuthorId]; !ok {
			return fmt.Errorf("%w: author %s does not exist", ErrConflict, b.AuthorId)
		}
		if _, ok := st.books[b.Id]; ok {
			return fmt.Errorf("%w: book %s already exists", ErrConflict, b.Id)
		}
		st.books[b.Id] = b
		return nil
	})
}

func (r *memoryRepo) UpdateBookForAuthor(book *types.Book) {
	b := *book

	r.staged = append(r.staged, func(st *memoryState) error {
		cur, ok := st.books[b.Id]
		if !ok {
			return fmt.Errorf("%w: book %s does not exist", ErrConflict, b.Id)
		}
		cur.Title = b.Title
		cur.Description = b.Description
		st.books[b.Id] = cur
		return nil
	})
}

func (r *memoryRepo) DeleteBook(book *types.Book) {
	id := book.Id

	r.staged = append(r.staged, func(st *memoryState) error {
		if _, ok := st.books[id]; !ok {
			return fmt.Errorf("%w: book %s does not exist", ErrConflict, id)
		}
		delete(st.books, id)
		return nil
	})
}

// Save applies the staged operations to a copy of the data and swaps it in only when all of
// them succeed.
func (r *memoryRepo) Save(ctx context.Context) error {
	staged := r.staged
	r.staged = nil

	if len(staged) == 0 {
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	st := &memoryState{
		authors: maps.Clone(r.store.authors),
		books:   maps.Clone(r.store.books),
	}

	for _, op := range staged {
		if err := op(st); err != nil {
			return err
		}
	}

	r.store.authors = st.authors
	r.store.books = st.books

	return nil
}
