package library

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"library/internal/types"
)

type seedAuthor struct {
	author types.Author
	books  []types.Book
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var sampleData = []seedAuthor{
	{
		author: types.Author{
			Id:          uuid.MustParse("25320c5e-f58a-4b1f-b63a-8ee07a840bdf"),
			FirstName:   "Stephen",
			LastName:    "King",
			DateOfBirth: date(1947, time.September, 21),
			Genre:       "Horror",
		},
		books: []types.Book{
			{
				Id:          uuid.MustParse("c7ba6add-09c4-45f8-8dd0-eaca221e5d93"),
				Title:       "The Shining",
				Description: "The Shining is a horror novel by American author Stephen King.",
			},
			{
				Id:          uuid.MustParse("a3749477-f823-4124-aa4a-fc9ad5e79cd6"),
				Title:       "Misery",
				Description: "Misery is a 1987 psychological horror novel by Stephen King.",
			},
		},
	},
	{
		author: types.Author{
			Id:          uuid.MustParse("76053df4-6687-4353-8937-b45556748abe"),
			FirstName:   "George",
			LastName:    "RR Martin",
			DateOfBirth: date(1948, time.September, 20),
			Genre:       "Fantasy",
		},
		books: []types.Book{
			{
				Id:          uuid.MustParse("447eb762-95e9-4c31-95e1-b20053fbe215"),
				Title:       "A Game of Thrones",
				Description: "A Game of Thrones is the first novel in A Song of Ice and Fire.",
			},
		},
	},
	{
		author: types.Author{
			Id:          uuid.MustParse("412c3012-d891-4f5e-9613-ff7aa63e6bb3"),
			FirstName:   "Neil",
			LastName:    "Gaiman",
			DateOfBirth: date(1960, time.November, 10),
			Genre:       "Fantasy",
		},
		books: []types.Book{
			{
				Id:          uuid.MustParse("9edf91ee-ab77-4521-a402-5f188bc0c577"),
				Title:       "American Gods",
				Description: "American Gods is a Hugo and Nebula Award-winning novel by English author Neil Gaiman.",
			},
		},
	},
}

// Seed stores the sample authors and their books in a single unit of work.
func Seed(ctx context.Context, store Store) error {
	repo := store.Begin()

	for _, sa := range sampleData {
		exists, err := repo.AuthorExists(ctx, sa.author.Id)
		if err != nil {
			return fmt.Errorf("seeding: %w", err)
		}
		if exists {
			continue
		}

		a := sa.author
		repo.AddAuthor(&a)
		for _, b := range sa.books {
			repo.AddBookForAuthor(a.Id, &b)
		}
	}

	if err := repo.Save(ctx); err != nil {
		return fmt.Errorf("seeding: %w", err)
	}

	return nil
}
