// file: store/collection.go
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"founders-fest/models"

	"gorm.io/gorm"
)

// Direction is the way an item moves within its list.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// ParseDirection accepts "up" or "down".
func ParseDirection(v string) (Direction, bool) {
	switch Direction(v) {
	case Up, Down:
		return Direction(v), true
	}
	return "", false
}

// Collection is an ordered, admin-editable content list stored in one table.
// P must be *T; the constraint lets the generic code reach the embedded OrderedItem.
type Collection[T any, P interface {
	*T
	models.Orderable
}] struct {
	db       *gorm.DB
	table    string
	fields   map[string]bool
	defaults func() T
	scoped   bool
	year     *int
}

// NewCollection binds a content model to table. fields are the JSON names an
// update may write; defaults builds the payload for a new item.
func NewCollection[T any, P interface {
	*T
	models.Orderable
}](db *gorm.DB, table string, fields []string, defaults func() T, scoped bool) *Collection[T, P] {
	allowed := make(map[string]bool, len(fields))
	for _, f := range fields {
		allowed[f] = true
	}
	if defaults == nil {
		defaults = func() T {
			var zero T
			return zero
		}
	}
	return &Collection[T, P]{db: db, table: table, fields: allowed, defaults: defaults, scoped: scoped}
}

// Table returns the backing table name.
func (c *Collection[T, P]) Table() string { return c.table }

// IsScoped reports whether the collection is partitioned by year.
func (c *Collection[T, P]) IsScoped() bool { return c.scoped }

// Scoped returns a copy restricted to one year. It is a no-op for unscoped collections.
func (c *Collection[T, P]) Scoped(year int) *Collection[T, P] {
	if !c.scoped {
		return c
	}
	cp := *c
	cp.year = &year
	return &cp
}

func (c *Collection[T, P]) query(ctx context.Context) (*gorm.DB, error) {
	q := c.db.WithContext(ctx).Table(c.table)
	if c.scoped {
		if c.year == nil {
			return nil, ErrScopeRequired
		}
		q = q.Where("year = ?", *c.year)
	}
	return q, nil
}

// List returns every item in the scope sorted ascending by order.
// Rows are fetched by id and sorted stably, so equal orders keep insertion order.
func (c *Collection[T, P]) List(ctx context.Context) ([]T, error) {
	q, err := c.query(ctx)
	if err != nil {
		return nil, err
	}
	var items []T
	if err := q.Order("id").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", c.table, err)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return P(&items[i]).Ordered().SortOrder < P(&items[j]).Ordered().SortOrder
	})
	return items, nil
}

// ListVisible is List without hidden items, as served to the public site.
func (c *Collection[T, P]) ListVisible(ctx context.Context) ([]T, error) {
	items, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	visible := items[:0]
	for i := range items {
		if P(&items[i]).Ordered().Visible {
			visible = append(visible, items[i])
		}
	}
	return visible, nil
}

// Add inserts a visible item at the end of the list. overrides may set any
// editable field on top of the defaults.
func (c *Collection[T, P]) Add(ctx context.Context, overrides map[string]any) (*T, error) {
	items, err := c.List(ctx)
	if err != nil {
		return nil, err
	}

	item := c.defaults()
	p := P(&item)
	if len(overrides) > 0 {
		if _, err := c.editable(overrides); err != nil {
			return nil, err
		}
		if err := decodeInto(overrides, p); err != nil {
			return nil, err
		}
	}
	if c.scoped {
		if err := decodeInto(map[string]any{"year": *c.year}, p); err != nil {
			return nil, err
		}
	}

	o := p.Ordered()
	o.ID = 0
	o.SortOrder = len(items)
	o.Visible = true

	if err := c.db.WithContext(ctx).Table(c.table).Create(p).Error; err != nil {
		return nil, fmt.Errorf("add to %s: %w", c.table, err)
	}
	return &item, nil
}

// Update writes the editable subset of fields to item id.
func (c *Collection[T, P]) Update(ctx context.Context, id uint, fields map[string]any) error {
	cols, err := c.editable(fields)
	if err != nil {
		return err
	}
	var probe T
	if err := decodeInto(cols, P(&probe)); err != nil {
		return err
	}
	cols["updated_at"] = time.Now()

	res := c.db.WithContext(ctx).Table(c.table).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return fmt.Errorf("update %s/%d: %w", c.table, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ToggleVisible flips the visible flag of item id in a single statement.
func (c *Collection[T, P]) ToggleVisible(ctx context.Context, id uint) error {
	res := c.db.WithContext(ctx).Table(c.table).Where("id = ?", id).
		Updates(map[string]any{"visible": gorm.Expr("NOT visible"), "updated_at": time.Now()})
	if res.Error != nil {
		return fmt.Errorf("toggle %s/%d: %w", c.table, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Remove permanently deletes item id. Remaining orders are left as they are.
func (c *Collection[T, P]) Remove(ctx context.Context, id uint) error {
	res := c.db.WithContext(ctx).Table(c.table).Where("id = ?", id).Delete(P(new(T)))
	if res.Error != nil {
		return fmt.Errorf("remove %s/%d: %w", c.table, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Move swaps the order of item id with its neighbour in the sorted list.
// Moving the first item up or the last item down does nothing. Both writes
// happen in one transaction and only apply if neither row changed since the
// list was read; otherwise ErrConcurrentEdit is returned and nothing changes.
func (c *Collection[T, P]) Move(ctx context.Context, id uint, dir Direction) error {
	items, err := c.List(ctx)
	if err != nil {
		return err
	}

	idx := -1
	for i := range items {
		if P(&items[i]).Ordered().ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotFound
	}

	other := idx - 1
	if dir == Down {
		other = idx + 1
	}
	if other < 0 || other >= len(items) {
		return nil
	}

	a := P(&items[idx]).Ordered()
	b := P(&items[other]).Ordered()
	now := time.Now()

	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		swaps := []struct {
			id       uint
			from, to int
		}{
			{a.ID, a.SortOrder, b.SortOrder},
			{b.ID, b.SortOrder, a.SortOrder},
		}
		for _, s := range swaps {
			res := tx.Table(c.table).
				Where("id = ? AND sort_order = ?", s.id, s.from).
				Updates(map[string]any{"sort_order": s.to, "updated_at": now})
			if res.Error != nil {
				return fmt.Errorf("move %s/%d: %w", c.table, s.id, res.Error)
			}
			if res.RowsAffected != 1 {
				return ErrConcurrentEdit
			}
		}
		return nil
	})
}

// editable keeps the whitelisted keys of fields.
func (c *Collection[T, P]) editable(fields map[string]any) (map[string]any, error) {
	cols := make(map[string]any, len(fields))
	for k, v := range fields {
		if c.fields[k] {
			cols[k] = v
		}
	}
	if len(cols) == 0 {
		return nil, ErrNoEditableFields
	}
	return cols, nil
}

// decodeInto applies a JSON-shaped map to dst, rejecting mistyped values.
func decodeInto(fields map[string]any, dst any) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return fmt.Errorf("%w: %s", ErrInvalidValue, typeErr.Field)
		}
		return fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	return nil
}
