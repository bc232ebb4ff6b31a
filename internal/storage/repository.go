package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/goliatone/go-skillsnap/repositorycache"
	"github.com/uptrace/bun"
)

// Record is a bun model usable by Repository.
type Record[T any] interface {
	*T
	repositorycache.Entity
	// OrderColumn names the natural key lists are sorted by.
	OrderColumn() string
}

// Repository implements repositorycache.Repository for one bun model.
type Repository[T any, PT Record[T]] struct {
	db bun.IDB
}

// NewRepository returns a Repository bound to db.
func NewRepository[T any, PT Record[T]](db bun.IDB) *Repository[T, PT] {
	return &Repository[T, PT]{db: db}
}

// FindByOwner returns userID's rows ordered by the natural key, then id.
func (r *Repository[T, PT]) FindByOwner(ctx context.Context, userID int64) ([]T, error) {
	records := make([]T, 0)
	order := PT(new(T)).OrderColumn()

	err := r.db.NewSelect().
		Model(&records).
		Where("portfolio_user_id = ?", userID).
		OrderExpr("? ASC, id ASC", bun.Ident(order)).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("find by owner: %w", err)
	}
	return records, nil
}

// FindByID returns the row with id or repositorycache.ErrNotFound.
func (r *Repository[T, PT]) FindByID(ctx context.Context, id int64) (T, error) {
	var record T
	PT(&record).SetRecordID(id)

	err := r.db.NewSelect().
		Model(PT(&record)).
		WherePK().
		Scan(ctx)
	if err != nil {
		var zero T
		if errors.Is(err, sql.ErrNoRows) {
			return zero, repositorycache.ErrNotFound
		}
		return zero, fmt.Errorf("find by id %d: %w", id, err)
	}
	return record, nil
}

// Insert stores record with a generated id and revision 1.
func (r *Repository[T, PT]) Insert(ctx context.Context, record T) (T, error) {
	PT(&record).SetRecordID(0)
	PT(&record).SetRecordRevision(1)

	if _, err := r.db.NewInsert().Model(PT(&record)).Exec(ctx); err != nil {
		var zero T
		return zero, fmt.Errorf("insert: %w", err)
	}
	return record, nil
}

// UpdateExisting overwrites the row if its revision still equals record's and
// bumps it. Zero affected rows means another writer got there first.
func (r *Repository[T, PT]) UpdateExisting(ctx context.Context, record T) (T, error) {
	var zero T
	expected := PT(&record).RecordRevision()
	PT(&record).SetRecordRevision(expected + 1)

	res, err := r.db.NewUpdate().
		Model(PT(&record)).
		WherePK().
		Where("revision = ?", expected).
		Exec(ctx)
	if err != nil {
		return zero, fmt.Errorf("update %d: %w", PT(&record).RecordID(), err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return zero, fmt.Errorf("update %d: %w", PT(&record).RecordID(), err)
	}
	if n == 0 {
		return zero, repositorycache.ErrConflict
	}
	return record, nil
}

// Delete removes the row with id or returns repositorycache.ErrNotFound.
func (r *Repository[T, PT]) Delete(ctx context.Context, id int64) error {
	var record T
	PT(&record).SetRecordID(id)

	res, err := r.db.NewDelete().
		Model(PT(&record)).
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete %d: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %d: %w", id, err)
	}
	if n == 0 {
		return repositorycache.ErrNotFound
	}
	return nil
}
