// file: store/collection_test.go
//go:build unit
// +build unit

package store

import (
	"context"
	"testing"

	"founders-fest/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBenefits(t *testing.T) *Collection[models.Benefit, *models.Benefit] {
	db := OpenTestDB(t)
	return NewCollection[models.Benefit](db, "participate_benefits",
		[]string{"title", "description", "icon"},
		func() models.Benefit { return models.Benefit{Title: "New benefit", Description: "Description"} },
		false)
}

func titles(items []models.Benefit) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Title
	}
	return out
}

func addTitled(t *testing.T, c *Collection[models.Benefit, *models.Benefit], title string) *models.Benefit {
	item, err := c.Add(context.Background(), map[string]any{"title": title})
	require.NoError(t, err)
	return item
}

func TestCollectionAdd_AppendsVisibleWithDefaults(t *testing.T) {
	c := newBenefits(t)
	ctx := context.Background()

	first, err := c.Add(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, "New benefit", first.Title)
	assert.Equal(t, "Description", first.Description)
	assert.True(t, first.Visible)
	assert.Equal(t, 0, first.SortOrder)
	assert.NotZero(t, first.ID)

	second := addTitled(t, c, "Networking")
	assert.Equal(t, 1, second.SortOrder, "new item order equals list length")
	assert.Equal(t, "Description", second.Description, "defaults fill fields not overridden")
}

func TestCollectionAdd_IgnoresOrderAndIDOverrides(t *testing.T) {
	c := newBenefits(t)
	item, err := c.Add(context.Background(), map[string]any{"title": "x", "order": 99, "id": 42, "visible": false})
	require.NoError(t, err)
	assert.Equal(t, 0, item.SortOrder)
	assert.True(t, item.Visible)
	assert.NotEqual(t, uint(42), item.ID)
}

func TestCollectionList_SortsStablyByOrder(t *testing.T) {
	c := newBenefits(t)
	ctx := context.Background()
	a := addTitled(t, c, "A")
	addTitled(t, c, "B")
	addTitled(t, c, "C")

	// give A the same order as C; ties keep id order
	require.NoError(t, c.db.Table(c.table).Where("id = ?", a.ID).Update("sort_order", 2).Error)

	items, err := c.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A", "C"}, titles(items))
}

func TestCollectionMove_ReordersAndRoundTrips(t *testing.T) {
	c := newBenefits(t)
	ctx := context.Background()
	addTitled(t, c, "A")
	addTitled(t, c, "B")
	cItem := addTitled(t, c, "C")

	require.NoError(t, c.Move(ctx, cItem.ID, Up))
	require.NoError(t, c.Move(ctx, cItem.ID, Up))
	items, err := c.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "A", "B"}, titles(items))

	require.NoError(t, c.Move(ctx, cItem.ID, Down))
	require.NoError(t, c.Move(ctx, cItem.ID, Up))
	items, err = c.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "A", "B"}, titles(items), "up then down restores order")
}

func TestCollectionMove_EdgesAreNoOps(t *testing.T) {
	c := newBenefits(t)
	ctx := context.Background()
	a := addTitled(t, c, "A")
	b := addTitled(t, c, "B")

	require.NoError(t, c.Move(ctx, a.ID, Up))
	require.NoError(t, c.Move(ctx, b.ID, Down))

	items, err := c.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, titles(items))
	assert.Equal(t, 0, items[0].SortOrder)
	assert.Equal(t, 1, items[1].SortOrder)
}

func TestCollectionMove_UnknownID(t *testing.T) {
	c := newBenefits(t)
	addTitled(t, c, "A")
	assert.ErrorIs(t, c.Move(context.Background(), 999, Up), ErrNotFound)
}

func TestCollectionToggleVisible_TwiceRestores(t *testing.T) {
	c := newBenefits(t)
	ctx := context.Background()
	item := addTitled(t, c, "A")

	require.NoError(t, c.ToggleVisible(ctx, item.ID))
	items, _ := c.List(ctx)
	assert.False(t, items[0].Visible)

	visible, err := c.ListVisible(ctx)
	require.NoError(t, err)
	assert.Empty(t, visible)

	require.NoError(t, c.ToggleVisible(ctx, item.ID))
	items, _ = c.List(ctx)
	assert.True(t, items[0].Visible)

	assert.ErrorIs(t, c.ToggleVisible(ctx, 999), ErrNotFound)
}

func TestCollectionUpdate(t *testing.T) {
	c := newBenefits(t)
	ctx := context.Background()
	item := addTitled(t, c, "A")

	require.NoError(t, c.Update(ctx, item.ID, map[string]any{"title": "Renamed", "sort_order": 50}))
	items, _ := c.List(ctx)
	assert.Equal(t, "Renamed", items[0].Title)
	assert.Equal(t, 0, items[0].SortOrder, "non-editable columns are ignored")

	assert.ErrorIs(t, c.Update(ctx, item.ID, map[string]any{"order": 3}), ErrNoEditableFields)
	assert.ErrorIs(t, c.Update(ctx, item.ID, map[string]any{}), ErrNoEditableFields)
	assert.ErrorIs(t, c.Update(ctx, item.ID, map[string]any{"title": 12}), ErrInvalidValue)
	assert.ErrorIs(t, c.Update(ctx, 999, map[string]any{"title": "x"}), ErrNotFound)
}

func TestCollectionRemove_LeavesGaps(t *testing.T) {
	c := newBenefits(t)
	ctx := context.Background()
	addTitled(t, c, "A")
	b := addTitled(t, c, "B")
	addTitled(t, c, "C")

	require.NoError(t, c.Remove(ctx, b.ID))
	assert.ErrorIs(t, c.Remove(ctx, b.ID), ErrNotFound)

	items, _ := c.List(ctx)
	assert.Equal(t, []string{"A", "C"}, titles(items))
	assert.Equal(t, 2, items[1].SortOrder)

	d := addTitled(t, c, "D")
	assert.Equal(t, 2, d.SortOrder, "order after a removal equals the current length")
}

func TestCollectionScoped_PartitionsByYear(t *testing.T) {
	db := OpenTestDB(t)
	c := NewCollection[models.Partner](db, "partners_gov", partnerFields, newPartner, true)
	ctx := context.Background()

	_, err := c.List(ctx)
	assert.ErrorIs(t, err, ErrScopeRequired)

	y23, y24 := c.Scoped(2023), c.Scoped(2024)
	_, err = y23.Add(ctx, map[string]any{"name": "Gov A"})
	require.NoError(t, err)
	first24, err := y24.Add(ctx, map[string]any{"name": "Gov B", "year": 1999})
	require.NoError(t, err)
	assert.Equal(t, 2024, first24.Year, "scope wins over payload year")
	assert.Equal(t, 0, first24.SortOrder, "order counts the scoped list only")

	list23, err := y23.List(ctx)
	require.NoError(t, err)
	require.Len(t, list23, 1)
	assert.Equal(t, "Gov A", list23[0].Name)
}

func TestCollectionMove_ConcurrentEditRollsBack(t *testing.T) {
	db, mock := OpenMockDB(t)
	c := NewCollection[models.WhyParagraph](db, "participate_why_paragraphs", []string{"text"}, nil, false)

	rows := sqlmock.NewRows([]string{"id", "sort_order", "visible", "text"}).
		AddRow(1, 0, true, "first").
		AddRow(2, 1, true, "second")
	mock.ExpectQuery(`SELECT \* FROM "participate_why_paragraphs"`).WillReturnRows(rows)
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "participate_why_paragraphs"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "participate_why_paragraphs"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := c.Move(context.Background(), 2, Up)
	assert.ErrorIs(t, err, ErrConcurrentEdit)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestParseDirection(t *testing.T) {
	d, ok := ParseDirection("up")
	assert.True(t, ok)
	assert.Equal(t, Up, d)
	_, ok = ParseDirection("sideways")
	assert.False(t, ok)
}

func TestCollectionsRegistry(t *testing.T) {
	r := NewCollections(OpenTestDB(t))
	ctx := context.Background()

	assert.Len(t, r.Names(), len(collectionDefs))
	_, ok := r.Get("nope")
	assert.False(t, ok)

	team, ok := r.Get("team")
	require.True(t, ok)
	assert.False(t, team.IsScoped())
	added, err := team.Add(ctx, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, "New Member", added.(*models.TeamMember).Name)

	metrics, ok := r.Get("about-metrics")
	require.True(t, ok)
	assert.True(t, metrics.IsScoped())
	_, err = metrics.Add(ctx, 2024, map[string]any{"title": "Attendees", "value": "5000+"})
	require.NoError(t, err)
	list, err := metrics.List(ctx, 2024)
	require.NoError(t, err)
	assert.Len(t, list.([]models.AboutMetric), 1)
}
