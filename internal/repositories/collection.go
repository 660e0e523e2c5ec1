package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateKey   = errors.New("duplicate key")
)

// Query narrows a Find. Where and Args follow gorm's placeholder syntax.
type Query struct {
	Where string
	Args  []interface{}
	Order string
}

// Collection is a keyed record table. The table name comes from
// configuration because the external workflow writes into the same tables.
type Collection[T any] struct {
	db    *gorm.DB
	table string
	key   string
}

func NewCollection[T any](db *gorm.DB, table, key string) *Collection[T] {
	return &Collection[T]{db: db, table: table, key: key}
}

func (c *Collection[T]) scoped(ctx context.Context) *gorm.DB {
	return c.db.WithContext(ctx).Table(c.table)
}

func (c *Collection[T]) byKey() string {
	return c.key + " = ?"
}

func (c *Collection[T]) Get(ctx context.Context, key interface{}) (*T, error) {
	return c.FindOne(ctx, Query{Where: c.byKey(), Args: []interface{}{key}})
}

// FindOne returns the first row matching q, or ErrRecordNotFound.
func (c *Collection[T]) FindOne(ctx context.Context, q Query) (*T, error) {
	tx := c.scoped(ctx)
	if q.Where != "" {
		tx = tx.Where(q.Where, q.Args...)
	}
	if q.Order != "" {
		tx = tx.Order(q.Order)
	}

	var record T
	if err := tx.Take(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get %s record: %w", c.table, err)
	}

	return &record, nil
}

func (c *Collection[T]) Find(ctx context.Context, q Query) ([]T, error) {
	tx := c.scoped(ctx)
	if q.Where != "" {
		tx = tx.Where(q.Where, q.Args...)
	}
	if q.Order != "" {
		tx = tx.Order(q.Order)
	}

	records := []T{}
	if err := tx.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to find %s records: %w", c.table, err)
	}

	return records, nil
}

// Distinct returns the sorted distinct values of column among matching rows.
func (c *Collection[T]) Distinct(ctx context.Context, column string, q Query) ([]string, error) {
	tx := c.scoped(ctx)
	if q.Where != "" {
		tx = tx.Where(q.Where, q.Args...)
	}

	values := []string{}
	if err := tx.Distinct(column).Order(column).Pluck(column, &values).Error; err != nil {
		return nil, fmt.Errorf("failed to list %s.%s: %w", c.table, column, err)
	}

	return values, nil
}

func (c *Collection[T]) Insert(ctx context.Context, record *T) error {
	if err := c.scoped(ctx).Create(record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("failed to insert %s record: %w", c.table, err)
	}

	return nil
}

// Upsert inserts records. A row colliding on the conflict columns gets only
// the update columns overwritten; the rest keep their stored values.
func (c *Collection[T]) Upsert(ctx context.Context, records []T, conflict, update []string) error {
	if len(records) == 0 {
		return nil
	}

	columns := make([]clause.Column, 0, len(conflict))
	for _, name := range conflict {
		columns = append(columns, clause.Column{Name: name})
	}

	err := c.scoped(ctx).
		Clauses(clause.OnConflict{
			Columns:   columns,
			DoUpdates: clause.AssignmentColumns(update),
		}).
		Create(&records).Error
	if err != nil {
		return fmt.Errorf("failed to upsert %s records: %w", c.table, err)
	}

	return nil
}

// UpdateByKey applies fields to the row identified by key and stamps updated_at.
func (c *Collection[T]) UpdateByKey(ctx context.Context, key interface{}, fields map[string]interface{}) error {
	affected, err := c.UpdateWhere(ctx, Query{Where: c.byKey(), Args: []interface{}{key}}, fields)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrRecordNotFound
	}

	return nil
}

// UpdateWhere applies fields to every matching row and reports how many matched.
func (c *Collection[T]) UpdateWhere(ctx context.Context, q Query, fields map[string]interface{}) (int64, error) {
	updates := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		updates[k] = v
	}
	updates["updated_at"] = time.Now()

	result := c.scoped(ctx).Where(q.Where, q.Args...).Updates(updates)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to update %s records: %w", c.table, result.Error)
	}

	return result.RowsAffected, nil
}

func (c *Collection[T]) DeleteByKey(ctx context.Context, key interface{}) error {
	var record T
	result := c.scoped(ctx).Where(c.byKey(), key).Delete(&record)
	if result.Error != nil {
		return fmt.Errorf("failed to delete %s record: %w", c.table, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}

	return nil
}
