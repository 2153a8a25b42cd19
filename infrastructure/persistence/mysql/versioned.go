package mysql

import (
	"context"
	"errors"

	"ddd-course/domain/shared"
	"ddd-course/infrastructure/persistence"

	"gorm.io/gorm"
)

// dbFromContext returns the transaction from context if available, otherwise the default db
func dbFromContext(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx
	}
	return db.WithContext(ctx)
}

// inTransaction runs fn in the UoW transaction from context, or in its own one
func inTransaction(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return fn(tx)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// writeRoot inserts or updates the aggregate row guarded by its version.
// row must be a pointer to the PO with every column filled from the aggregate.
func writeRoot(tx *gorm.DB, entity string, agg shared.Versioned, row any) error {
	id := agg.ID().String()
	expected := agg.PersistedVersion()

	if expected == 0 {
		stored, err := storedVersion(tx, row, id)
		if err != nil {
			return err
		}
		if stored != 0 {
			return shared.NewConcurrencyConflictError(entity, agg.ID(), expected, stored)
		}
		return tx.Create(row).Error
	}

	// Optimistic lock: update only if version matches
	result := tx.Model(row).
		Where("version = ?", expected).
		Select("*").
		Omit("id", "created_at").
		Updates(row)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		stored, err := storedVersion(tx, row, id)
		if err != nil {
			return err
		}
		return shared.NewConcurrencyConflictError(entity, agg.ID(), expected, stored)
	}
	return nil
}

// storedVersion 0 when the row does not exist
func storedVersion(tx *gorm.DB, model any, id string) (int, error) {
	var versions []int
	if err := tx.Session(&gorm.Session{NewDB: true}).
		Model(model).
		Where("id = ?", id).
		Pluck("version", &versions).Error; err != nil {
		return 0, err
	}
	if len(versions) == 0 {
		return 0, nil
	}
	return versions[0], nil
}

// replaceChildren swaps the child rows of one aggregate (delete then insert)
func replaceChildren[C any](tx *gorm.DB, parentColumn, parentID string, children []C) error {
	var model C
	if err := tx.Where(parentColumn+" = ?", parentID).Delete(&model).Error; err != nil {
		return err
	}
	if len(children) == 0 {
		return nil
	}
	return tx.Create(&children).Error
}

// notFound maps gorm.ErrRecordNotFound to the domain error
func notFound(err error, entity string, id shared.ID) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.NewNotFoundError(entity, id)
	}
	return err
}
