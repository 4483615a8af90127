package library

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"library/internal/types"
)

//go:embed schema.sql
var schema string

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// EnsureSchema creates the author and book tables when they are missing.
func EnsureSchema(ctx context.Context, pg *pgxpool.Pool) error {
	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}

		if _, err := pg.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}

	return nil
}

func NewPGXStore(pg *pgxpool.Pool, l *slog.Logger) Store {
	return &pgxStore{pg: pg, g: goqu.Dialect("postgres"), l: l}
}

type pgxStore struct {
	pg *pgxpool.Pool
	g  goqu.DialectWrapper
	l  *slog.Logger
}

func (s *pgxStore) Begin() Repository {
	return &pgxRepo{pgxStore: s}
}

type stagedOp func(ctx context.Context, tx pgx.Tx) error

type pgxRepo struct {
	*pgxStore
	staged []stagedOp
}

type pgxAuthor struct {
	Id          string    `db:"id"`
	FirstName   string    `db:"first_name"`
	LastName    string    `db:"last_name"`
	DateOfBirth time.Time `db:"date_of_birth"`
	Genre       string    `db:"genre"`
}

type pgxBook struct {
	Id          string `db:"id"`
	AuthorId    string `db:"author_id"`
	Title       string `db:"title"`
	Description string `db:"description"`
}

func (a *pgxAuthor) intoCommon(l *slog.Logger, ctx context.Context) *types.Author {
	id, err := uuid.Parse(a.Id)
	if err != nil {
		l.ErrorContext(ctx, "Failed to parse author id stored in DB ("+a.Id+"): "+err.Error())
	}

	return &types.Author{
		Id:          id,
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		DateOfBirth: a.DateOfBirth,
		Genre:       a.Genre,
	}
}

func (b *pgxBook) intoCommon(l *slog.Logger, ctx context.Context) *types.Book {
	id, err := uuid.Parse(b.Id)
	if err != nil {
		l.ErrorContext(ctx, "Failed to parse book id stored in DB ("+b.Id+"): "+err.Error())
	}

	authorId, err := uuid.Parse(b.AuthorId)
	if err != nil {
		l.ErrorContext(ctx, "Failed to parse author id of book "+b.Id+" stored in DB ("+b.AuthorId+"): "+err.Error())
	}

	return &types.Book{
		Id:          id,
		AuthorId:    authorId,
		Title:       b.Title,
		Description: b.Description,
	}
}

func (p *pgxRepo) AuthorExists(ctx context.Context, authorId uuid.UUID) (bool, error) {
	sql, params, err := p.g.From("author").
		Select(goqu.L("1")).
		Where(goqu.C("id").Eq(authorId.String())).
		Limit(1).
		ToSQL()
	if err != nil {
		return false, err
	}

	var one int
	err = pgxscan.Get(ctx, p.pg, &one, sql, params...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

func (p *pgxRepo) GetAuthors(ctx context.Context) ([]*types.Author, error) {
	sql, params, err := p.g.From("author").
		Order(goqu.C("first_name").Asc(), goqu.C("last_name").Asc()).
		ToSQL()
	if err != nil {
		return nil, err
	}

	var rows []pgxAuthor

	err = pgxscan.Select(ctx, p.pg, &rows, sql, params...)
	if err != nil {
		return nil, err
	}

	ret := make([]*types.Author, 0, len(rows))
	for _, row := range rows {
		ret = append(ret, row.intoCommon(p.l, ctx))
	}

	return ret, nil
}

func (p *pgxRepo) GetAuthor(ctx context.Context, authorId uuid.UUID) (*types.Author, error) {
	sql, params, err := p.g.From("author").
		Where(goqu.C("id").Eq(authorId.String())).
		ToSQL()
	if err != nil {
		return nil, err
	}

	var row pgxAuthor

	err = pgxscan.Get(ctx, p.pg, &row, sql, params...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = nil
		}
		return nil, err
	}

	return row.intoCommon(p.l, ctx), nil
}

func (p *pgxRepo) AddAuthor(author *types.Author) {
	if author.Id == uuid.Nil {
		author.Id = uuid.New()
	}

	row := pgxAuthor{
		Id:          author.Id.String(),
		FirstName:   author.FirstName,
		LastName:    author.LastName,
		DateOfBirth: author.DateOfBirth,
		Genre:       author.Genre,
	}

	p.staged = append(p.staged, func(ctx context.Context, tx pgx.Tx) error {
		return p.exec(ctx, tx, p.g.Insert("author").Rows(row), false)
	})
}

func (p *pgxRepo) GetBooksForAuthor(ctx context.Context, authorId uuid.UUID) ([]*types.Book, error) {
	sql, params, err := p.g.From("book").
		Where(goqu.C("author_id").Eq(authorId.String())).
		Order(goqu.C("title").Asc(), goqu.C("id").Asc()).
		ToSQL()
	if err != nil {
		return nil, err
	}

	var rows []pgxBook

	err = pgxscan.Select(ctx, p.pg, &rows, sql, params...)
	if err != nil {
		return nil, err
	}

	ret := make([]*types.Book, 0, len(rows))
	for _, row := range rows {
		ret = append(ret, row.intoCommon(p.l, ctx))
	}

	return ret, nil
}

func (p *pgxRepo) GetBookForAuthor(ctx context.Context, authorId, bookId uuid.UUID) (*types.Book, error) {
	sql, params, err := p.g.From("book").
		Where(
			goqu.C("id").Eq(bookId.String()),
			goqu.C("author_id").Eq(authorId.String()),
		).
		ToSQL()
	if err != nil {
		return nil, err
	}

	var row pgxBook

	err = pgxscan.Get(ctx, p.pg, &row, sql, params...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = nil
		}
		return nil, err
	}

	return row.intoCommon(p.l, ctx), nil
}

func (p *pgxRepo) AddBookForAuthor(authorId uuid.UUID, book *types.Book) {
	if book.Id == uuid.Nil {
		book.Id = uuid.New()
	}
	book.AuthorId = authorId

	row := pgxBook{
		Id:          book.Id.String(),
		AuthorId:    authorId.String(),
		Title:       book.Title,
		Description: book.Description,
	}

	p.staged = append(p.staged, func(ctx context.Context, tx pgx.Tx) error {
		return p.exec(ctx, tx, p.g.Insert("book").Rows(row), false)
	})
}

func (p *pgxRepo) UpdateBookForAuthor(book *types.Book) {
	id := book.Id.String()
	record := goqu.Record{
		"title":       book.Title,
		"description": book.Description,
	}

	p.staged = append(p.staged, func(ctx context.Context, tx pgx.Tx) error {
		return p.exec(ctx, tx, p.g.Update("book").Set(record).Where(goqu.C("id").Eq(id)), true)
	})
}

func (p *pgxRepo) DeleteBook(book *types.Book) {
	id := book.Id.String()

	p.staged = append(p.staged, func(ctx context.Context, tx pgx.Tx) error {
		return p.exec(ctx, tx, p.g.Delete("book").Where(goqu.C("id").Eq(id)), true)
	})
}

func (p *pgxRepo) Save(ctx context.Context) error {
	staged := p.staged
	p.staged = nil

	if len(staged) == 0 {
		return nil
	}

	tx, err := p.pg.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, op := range staged {
		if err = op(ctx, tx); err != nil {
			return err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

type toSQLer interface {
	ToSQL() (string, []any, error)
}

// exec runs a staged statement; mustAffect turns "no rows touched" into ErrConflict.
func (p *pgxRepo) exec(ctx context.Context, tx pgx.Tx, q toSQLer, mustAffect bool) error {
	sql, params, err := q.ToSQL()
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, sql, params...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) &&
			(pgErr.Code == pgUniqueViolation || pgErr.Code == pgForeignKeyViolation) {
			return fmt.Errorf("%w: %s", ErrConflict, pgErr.Detail)
		}
		return err
	}

	if mustAffect && tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: no rows affected", ErrConflict)
	}

	return nil
}
