// Package mapping converts between wire DTOs and storage entities.
//
// Every conversion is a plain function, so the field rules live next to each other and can be
// tested without any registry or global configuration.
package mapping

import (
	"library/internal/types"
)

func BookToDto(b *types.Book) types.BookDto {
	return types.BookDto{
		Id:          b.Id,
		Title:       b.Title,
		Description: b.Description,
		AuthorId:    b.AuthorId,
	}
}

// BooksToDtos never returns nil so an empty collection encodes as [].
func BooksToDtos(books []*types.Book) []types.BookDto {
	ret := make([]types.BookDto, 0, len(books))
	for _, b := range books {
		ret = append(ret, BookToDto(b))
	}

	return ret
}

// BookFromCreation leaves Id and AuthorId zero, the repository fills them in.
func BookFromCreation(dto *types.BookForCreation) *types.Book {
	return &types.Book{
		Title:       dto.Title,
		Description: dto.Description,
	}
}

func BookFromUpdate(dto *types.BookForUpdate) *types.Book {
	b := &types.Book{}
	ApplyUpdate(dto, b)
	return b
}

// ApplyUpdate overwrites every mutable field of b with the value from dto.
// Id and AuthorId are never touched.
func ApplyUpdate(dto *types.BookForUpdate, b *types.Book) {
	b.Title = dto.Title
	b.Description = dto.Description
}

func BookToUpdate(b *types.Book) *types.BookForUpdate {
	return &types.BookForUpdate{
		Title:       b.Title,
		Description: b.Description,
	}
}
