package library

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library/internal/types"
)

func newAuthor(t *testing.T, s Store) *types.Author {
	t.Helper()

	repo := s.Begin()
	a := &types.Author{FirstName: "Ursula", LastName: "Le Guin", DateOfBirth: time.Date(1929, 10, 21, 0, 0, 0, 0, time.UTC)}
	repo.AddAuthor(a)
	require.NoError(t, repo.Save(context.Background()))
	require.NotEqual(t, uuid.Nil, a.Id)
	return a
}

func TestMemoryStoreStagesUntilSave(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	a := newAuthor(t, s)

	repo := s.Begin()
	b := &types.Book{Title: "The Dispossessed", Description: "An ambiguous utopia"}
	repo.AddBookForAuthor(a.Id, b)
	assert.NotEqual(t, uuid.Nil, b.Id)
	assert.Equal(t, a.Id, b.AuthorId)

	got, err := s.Begin().GetBookForAuthor(ctx, a.Id, b.Id)
	require.NoError(t, err)
	assert.Nil(t, got, "staged book must not be visible before Save")

	require.NoError(t, repo.Save(ctx))

	got, err = s.Begin().GetBookForAuthor(ctx, a.Id, b.Id)
	require.NoError(t, err)
	assert.Equal(t, b, got)
}

func TestMemoryStoreBookOwnership(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	a := newAuthor(t, s)
	other := newAuthor(t, s)

	repo := s.Begin()
	b := &types.Book{Title: "A Wizard of Earthsea", Description: "Ged"}
	repo.AddBookForAuthor(a.Id, b)
	require.NoError(t, repo.Save(ctx))

	got, err := repo.GetBookForAuthor(ctx, other.Id, b.Id)
	require.NoError(t, err)
	assert.Nil(t, got)

	books, err := repo.GetBooksForAuthor(ctx, other.Id)
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestMemoryStoreOrdersBooksByTitle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	a := newAuthor(t, s)

	repo := s.Begin()
	for _, title := range []string{"Tehanu", "Lavinia", "Always Coming Home"} {
		repo.AddBookForAuthor(a.Id, &types.Book{Title: title, Description: "-"})
	}
	require.NoError(t, repo.Save(ctx))

	books, err := repo.GetBooksForAuthor(ctx, a.Id)
	require.NoError(t, err)
	require.Len(t, books, 3)
	assert.Equal(t, "Always Coming Home", books[0].Title)
	assert.Equal(t, "Lavinia", books[1].Title)
	assert.Equal(t, "Tehanu", books[2].Title)
}

func TestMemoryStoreUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	a := newAuthor(t, s)

	repo := s.Begin()
	b := &types.Book{Title: "Old", Description: "Old description"}
	repo.AddBookForAuthor(a.Id, b)
	require.NoError(t, repo.Save(ctx))

	b.Title = "New"
	repo.UpdateBookForAuthor(b)
	require.NoError(t, repo.Save(ctx))

	got, err := repo.GetBookForAuthor(ctx, a.Id, b.Id)
	require.NoError(t, err)
	assert.Equal(t, "New", got.Title)

	repo.DeleteBook(b)
	require.NoError(t, repo.Save(ctx))

	got, err = repo.GetBookForAuthor(ctx, a.Id, b.Id)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStoreSaveIsAtomic(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	a := newAuthor(t, s)

	repo := s.Begin()
	repo.AddBookForAuthor(a.Id, &types.Book{Title: "Kept out", Description: "-"})
	repo.DeleteBook(&types.Book{Id: uuid.New()})

	err := repo.Save(ctx)
	assert.ErrorIs(t, err, ErrConflict)

	books, err := repo.GetBooksForAuthor(ctx, a.Id)
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestMemoryStoreConflicts(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	a := newAuthor(t, s)

	repo := s.Begin()
	repo.AddBookForAuthor(uuid.New(), &types.Book{Title: "Orphan", Description: "-"})
	assert.ErrorIs(t, repo.Save(ctx), ErrConflict)

	b := &types.Book{Title: "Dup", Description: "-"}
	repo.AddBookForAuthor(a.Id, b)
	require.NoError(t, repo.Save(ctx))
	repo.AddBookForAuthor(a.Id, &types.Book{Id: b.Id, Title: "Dup", Description: "-"})
	assert.ErrorIs(t, repo.Save(ctx), ErrConflict)

	repo.UpdateBookForAuthor(&types.Book{Id: uuid.New()})
	assert.ErrorIs(t, repo.Save(ctx), ErrConflict)
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, Seed(ctx, s))
	require.NoError(t, Seed(ctx, s), "seeding twice must be a no-op")

	authors, err := s.Begin().GetAuthors(ctx)
	require.NoError(t, err)
	require.Len(t, authors, len(sampleData))
	assert.Equal(t, "George", authors[0].FirstName)

	books, err := s.Begin().GetBooksForAuthor(ctx, sampleData[0].author.Id)
	require.NoError(t, err)
	assert.Len(t, books, 2)
}

func TestSaveHonoursCancelledContext(t *testing.T) {
	s := NewMemoryStore()
	repo := s.Begin()
	repo.AddAuthor(&types.Author{FirstName: "A"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, repo.Save(ctx), context.Canceled)
}
