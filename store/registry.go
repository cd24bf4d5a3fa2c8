// file: store/registry.go
package store

import (
	"context"
	"sort"

	"founders-fest/models"

	"gorm.io/gorm"
)

// Editor is the type-erased view of a Collection used by HTTP handlers and the seeder.
// year is ignored by unscoped collections.
type Editor interface {
	Name() string
	Table() string
	IsScoped() bool
	List(ctx context.Context, year int) (any, error)
	ListVisible(ctx context.Context, year int) (any, error)
	Len(ctx context.Context, year int) (int, error)
	Add(ctx context.Context, year int, overrides map[string]any) (any, error)
	Update(ctx context.Context, id uint, fields map[string]any) error
	ToggleVisible(ctx context.Context, id uint) error
	Remove(ctx context.Context, id uint) error
	Move(ctx context.Context, year int, id uint, dir Direction) error
}

type editor[T any, P interface {
	*T
	models.Orderable
}] struct {
	name string
	c    *Collection[T, P]
}

func (e editor[T, P]) Name() string   { return e.name }
func (e editor[T, P]) Table() string  { return e.c.Table() }
func (e editor[T, P]) IsScoped() bool { return e.c.IsScoped() }

func (e editor[T, P]) List(ctx context.Context, year int) (any, error) {
	return e.c.Scoped(year).List(ctx)
}

func (e editor[T, P]) ListVisible(ctx context.Context, year int) (any, error) {
	return e.c.Scoped(year).ListVisible(ctx)
}

func (e editor[T, P]) Len(ctx context.Context, year int) (int, error) {
	items, err := e.c.Scoped(year).List(ctx)
	return len(items), err
}

func (e editor[T, P]) Add(ctx context.Context, year int, overrides map[string]any) (any, error) {
	return e.c.Scoped(year).Add(ctx, overrides)
}

func (e editor[T, P]) Update(ctx context.Context, id uint, fields map[string]any) error {
	return e.c.Update(ctx, id, fields)
}

func (e editor[T, P]) ToggleVisible(ctx context.Context, id uint) error {
	return e.c.ToggleVisible(ctx, id)
}

func (e editor[T, P]) Remove(ctx context.Context, id uint) error {
	return e.c.Remove(ctx, id)
}

func (e editor[T, P]) Move(ctx context.Context, year int, id uint, dir Direction) error {
	return e.c.Scoped(year).Move(ctx, id, dir)
}

type collectionDef struct {
	name  string
	table string
	model func() any
	build func(db *gorm.DB) Editor
}

func define[T any, P interface {
	*T
	models.Orderable
}](name, table string, scoped bool, fields []string, defaults func() T) collectionDef {
	return collectionDef{
		name:  name,
		table: table,
		model: func() any { return P(new(T)) },
		build: func(db *gorm.DB) Editor {
			return editor[T, P]{name: name, c: NewCollection[T, P](db, table, fields, defaults, scoped)}
		},
	}
}

var partnerFields = []string{"year", "name", "logo", "designation"}

func newPartner() models.Partner { return models.Partner{Name: "New"} }

// collectionDefs lists every content collection the admin can edit.
var collectionDefs = []collectionDef{
	define("about-metrics", "about_metrics", true, []string{"year", "title", "value"},
		func() models.AboutMetric { return models.AboutMetric{Title: "Metric", Value: "0"} }),
	define("about-images", "about_images", true, []string{"year", "url", "alt"},
		func() models.AboutImage { return models.AboutImage{} }),
	define("why-bullets", "participate_why_bullets", false, []string{"text", "icon"},
		func() models.WhyBullet { return models.WhyBullet{Text: "New point"} }),
	define("why-paragraphs", "participate_why_paragraphs", false, []string{"text"},
		func() models.WhyParagraph { return models.WhyParagraph{Text: "New paragraph"} }),
	define("benefits", "participate_benefits", false, []string{"title", "description", "icon"},
		func() models.Benefit { return models.Benefit{Title: "New benefit", Description: "Description"} }),
	define("complimentary", "participate_complementary", false, []string{"title", "icon"},
		func() models.Complimentary { return models.Complimentary{Title: "New item"} }),
	define("partners-gov", "partners_gov", true, partnerFields, newPartner),
	define("partners-sponsors", "partners_sponsors", true, partnerFields, newPartner),
	define("partners-influencers", "partners_influencers", true, partnerFields, newPartner),
	define("award-winners", "awards_winners", false, []string{"name", "title", "image"},
		func() models.AwardWinner { return models.AwardWinner{Name: "New Winner", Title: "Award Title"} }),
	define("award-categories", "award_categories", false, []string{"name"},
		func() models.AwardCategory { return models.AwardCategory{Name: "New Category"} }),
	define("team", "team_members", false, []string{"name", "designation", "responsibility", "image", "social_url"},
		func() models.TeamMember { return models.TeamMember{Name: "New Member", Designation: "Role"} }),
}

// Collections resolves collection names to editors.
type Collections struct {
	editors map[string]Editor
}

// NewCollections builds an editor for every registered collection.
func NewCollections(db *gorm.DB) *Collections {
	r := &Collections{editors: make(map[string]Editor, len(collectionDefs))}
	for _, def := range collectionDefs {
		r.editors[def.name] = def.build(db)
	}
	return r
}

// Get returns the editor registered under name.
func (r *Collections) Get(name string) (Editor, bool) {
	e, ok := r.editors[name]
	return e, ok
}

// Names lists registered collection names alphabetically.
func (r *Collections) Names() []string {
	names := make([]string, 0, len(r.editors))
	for n := range r.editors {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
