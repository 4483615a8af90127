package types

import (
	"time"

	"github.com/google/uuid"
)

type Author struct {
	Id          uuid.UUID
	FirstName   string
	LastName    string
	DateOfBirth time.Time
	Genre       string
}

// Book belongs to exactly one author through AuthorId.
type Book struct {
	Id          uuid.UUID
	AuthorId    uuid.UUID
	Title       string
	Description string
}

type AuthorDto struct {
	Id    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Age   int       `json:"age"`
	Genre string    `json:"genre"`
}

type BookDto struct {
	Id          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	AuthorId    uuid.UUID `json:"authorId"`
}

type BookForCreation struct {
	Title       string `json:"title" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
}

// BookForUpdate is used both for PUT bodies and as the target of PATCH documents,
// so it is encoded without omitempty: every field is addressable by a patch path.
type BookForUpdate struct {
	Title       string `json:"title" validate:"required,max=100"`
	Description string `json:"description" validate:"required,max=500"`
}

type AuthorForCreation struct {
	FirstName   string            `json:"firstName" validate:"required,max=50"`
	LastName    string            `json:"lastName" validate:"required,max=50"`
	DateOfBirth string            `json:"dateOfBirth" validate:"required,date"`
	Genre       string            `json:"genre" validate:"max=50"`
	Books       []BookForCreation `json:"books" validate:"dive"`
}
