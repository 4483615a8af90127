package mapping

import (
	"fmt"
	"strings"
	"time"

	"library/internal/types"
)

const DateLayout = "2006-01-02"

func AuthorToDto(a *types.Author, now time.Time) types.AuthorDto {
	return types.AuthorDto{
		Id:    a.Id,
		Name:  strings.TrimSpace(a.FirstName + " " + a.LastName),
		Age:   Age(a.DateOfBirth, now),
		Genre: a.Genre,
	}
}

func AuthorsToDtos(authors []*types.Author, now time.Time) []types.AuthorDto {
	ret := make([]types.AuthorDto, 0, len(authors))
	for _, a := range authors {
		ret = append(ret, AuthorToDto(a, now))
	}

	return ret
}

// Age counts whole years between born and now; a birthday later in the current year
// has not been reached yet.
func Age(born, now time.Time) int {
	age := now.Year() - born.Year()
	if now.Before(born.AddDate(age, 0, 0)) {
		age--
	}

	return age
}

// AuthorFromCreation returns the author and the books nested in the payload, in payload order.
func AuthorFromCreation(dto *types.AuthorForCreation) (*types.Author, []*types.Book, error) {
	born, err := time.Parse(DateLayout, dto.DateOfBirth)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing date of birth: %w", err)
	}

	books := make([]*types.Book, 0, len(dto.Books))
	for i := range dto.Books {
		books = append(books, BookFromCreation(&dto.Books[i]))
	}

	return &types.Author{
		FirstName:   dto.FirstName,
		LastName:    dto.LastName,
		DateOfBirth: born,
		Genre:       dto.Genre,
	}, books, nil
}
