package core

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

const saveBatchSize = 200

// GormStore keeps a collection in one table. SaveAll replaces the table contents in a transaction.
type GormStore[T any] struct {
	db    *gorm.DB
	order string
}

func NewGormStore[T any](db *gorm.DB, order string) *GormStore[T] {
	return &GormStore[T]{db: db, order: order}
}

func (s *GormStore[T]) Load(ctx context.Context) ([]T, error) {
	items := []T{}
	q := s.db.WithContext(ctx)
	if s.order != "" {
		q = q.Order(s.order)
	}
	if err := q.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to load %T rows: %w", *new(T), err)
	}
	return items, nil
}

func (s *GormStore[T]) SaveAll(ctx context.Context, items []T) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(new(T)).Error; err != nil {
			return fmt.Errorf("failed to clear %T rows: %w", *new(T), err)
		}
		if len(items) == 0 {
			return nil
		}
		rows := append([]T(nil), items...)
		if err := tx.CreateInBatches(&rows, saveBatchSize).Error; err != nil {
			return fmt.Errorf("failed to insert %T rows: %w", *new(T), err)
		}
		return nil
	})
}
