package records

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// readRetryDelay is the pause before the single retry of an idempotent read.
const readRetryDelay = 150 * time.Millisecond

// Repository is the generic CRUD engine. One instance per entity, configured
// by its Descriptor. All values travel as query parameters; column and table
// names come only from descriptors.
type Repository[T any] struct {
	db   *gorm.DB
	desc Descriptor[T]
	log  zerolog.Logger
}

func NewRepository[T any](db *gorm.DB, desc Descriptor[T], log zerolog.Logger) *Repository[T] {
	return &Repository[T]{db: db, desc: desc, log: log.With().Str("entity", desc.Name).Logger()}
}

// List returns all rows ordered by primary key. Filters must name whitelisted
// fields; unknown fields fail with ValidationError.
func (r *Repository[T]) List(ctx context.Context, filters map[string]string) ([]T, error) {
	columns := make(map[string]string, len(filters))
	for field, value := range filters {
		column, ok := r.desc.Filters[field]
		if !ok {
			return nil, &ValidationError{Field: field, Reason: "not a filterable field"}
		}
		columns[column] = value
	}

	var rows []T
	err := withReadRetry(ctx, func() error {
		q := r.db.WithContext(ctx).Order(r.desc.PK)
		for column, value := range columns {
			q = q.Where(column+" = ?", value)
		}
		rows = rows[:0]
		return q.Find(&rows).Error
	})
	if err != nil {
		return nil, &DatabaseError{Op: "list " + r.desc.Name, Err: err}
	}
	return rows, nil
}

// Create validates the row, resolves every declared foreign key, and inserts.
// The store assigns the primary key.
func (r *Repository[T]) Create(ctx context.Context, row *T) (uint, error) {
	if err := r.validate(row); err != nil {
		return 0, err
	}
	if err := r.checkReferences(ctx, row); err != nil {
		return 0, err
	}

	r.desc.SetPK(row, 0)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return 0, &DatabaseError{Op: "create " + r.desc.Name, Err: err}
	}
	return r.desc.PKValue(row), nil
}

// Read fetches one row by primary key.
func (r *Repository[T]) Read(ctx context.Context, id uint) (*T, error) {
	var row T
	err := withReadRetry(ctx, func() error {
		return r.db.WithContext(ctx).First(&row, r.desc.PK+" = ?", id).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &DatabaseError{Op: "read " + r.desc.Name, Err: err}
	}
	return &row, nil
}

// Update replaces every configured field of the row; there are no
// partial-field semantics. The primary key itself never changes.
func (r *Repository[T]) Update(ctx context.Context, id uint, row *T) error {
	if err := r.validate(row); err != nil {
		return err
	}
	if err := r.checkReferences(ctx, row); err != nil {
		return err
	}

	r.desc.SetPK(row, id)
	res := r.db.WithContext(ctx).
		Model(row).
		Where(r.desc.PK+" = ?", id).
		Select("*").
		Omit(r.desc.PK).
		Updates(row)
	if res.Error != nil {
		return &DatabaseError{Op: "update " + r.desc.Name, Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes one row by primary key. Rows still referenced by dependents
// are not deleted; the caller gets a ReferentialIntegrityError naming the
// dependent column instead of a dangling reference.
func (r *Repository[T]) Delete(ctx context.Context, id uint) error {
	for _, dep := range r.desc.Dependents {
		n, err := r.count(ctx, dep.Table, dep.Column, id)
		if err != nil {
			return &DatabaseError{Op: "delete " + r.desc.Name, Err: err}
		}
		if n > 0 {
			r.log.Debug().Uint("id", id).Str("dependent", dep.Table).Msg("delete blocked by dependents")
			return &ReferentialIntegrityError{Field: dep.Column, Table: dep.Table}
		}
	}

	var row T
	res := r.db.WithContext(ctx).Where(r.desc.PK+" = ?", id).Delete(&row)
	if res.Error != nil {
		return &DatabaseError{Op: "delete " + r.desc.Name, Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository[T]) validate(row *T) error {
	if r.desc.Validate == nil {
		return nil
	}
	return r.desc.Validate(row)
}

// checkReferences verifies each declared foreign key against its referenced
// table. The check and the subsequent write are separate statements, so the
// store's own constraints remain the last line of defense against races.
func (r *Repository[T]) checkReferences(ctx context.Context, row *T) error {
	for _, ref := range r.desc.References {
		id := ref.Value(row)
		n, err := r.count(ctx, ref.Table, ref.Column, id)
		if err != nil {
			return &DatabaseError{Op: "reference check " + r.desc.Name, Err: err}
		}
		if n == 0 {
			r.log.Debug().Str("field", ref.Field).Uint("id", id).Msg("reference check failed")
			return &ReferentialIntegrityError{Field: ref.Field, Table: ref.Table}
		}
	}
	return nil
}

func (r *Repository[T]) count(ctx context.Context, table, column string, id uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Table(table).Where(fmt.Sprintf("%s = ?", column), id).Count(&n).Error
	return n, err
}

// withReadRetry runs an idempotent read, retrying once after a short pause on
// transient failure. Lookup misses and cancelled contexts are terminal.
// Writes never go through here.
func withReadRetry(ctx context.Context, op func() error) error {
	err := op()
	if err == nil || errors.Is(err, gorm.ErrRecordNotFound) || ctx.Err() != nil {
		return err
	}

	select {
	case <-time.After(readRetryDelay):
	case <-ctx.Done():
		return ctx.Err()
	}
	return op()
}
