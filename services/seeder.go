// file: services/seeder.go
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"founders-fest/logger"
	"founders-fest/models"
	"founders-fest/store"

	"gopkg.in/yaml.v3"
)

// SeedFile is the YAML layout accepted by the seed command.
//
//	home:
//	  video_url: https://...
//	collections:
//	  benefits:
//	    - title: Networking
//	  partners-gov:
//	    - year: 2025
//	      name: Ministry of IT
//	awards_content:
//	  headline: Startup Awards
type SeedFile struct {
	Home          *models.HomeSettings        `yaml:"home"`
	About         []models.AboutSection       `yaml:"about"`
	Email         []models.EmailSettings      `yaml:"email"`
	Collections   map[string][]map[string]any `yaml:"collections"`
	AwardsContent map[string]string           `yaml:"awards_content"`
	ContactInfo   map[string]string           `yaml:"contact_info"`
}

// CollectionSource resolves collection names to editors.
type CollectionSource interface {
	Get(name string) (store.Editor, bool)
}

// SettingsWriter is the subset of store.Settings the seeder writes through.
type SettingsWriter interface {
	InsertHomeSettings(ctx context.Context, hs models.HomeSettings) error
	InsertAboutSection(ctx context.Context, as models.AboutSection) error
	InsertEmailSettings(ctx context.Context, es models.EmailSettings) error
	InsertValue(ctx context.Context, table, key, value string) error
}

// SeedReport counts what a seed run wrote.
type SeedReport struct {
	Items int
	// Skipped labels lists and settings rows that already existed.
	Skipped  []string
	Settings int
}

// Seeder loads initial site content. Lists that already hold items and settings
// rows that already exist are left alone, so the command can be re-run safely.
type Seeder struct {
	collections CollectionSource
	settings    SettingsWriter
}

// NewSeeder returns a Seeder writing through collections and settings.
func NewSeeder(collections CollectionSource, settings SettingsWriter) *Seeder {
	return &Seeder{collections: collections, settings: settings}
}

// ParseSeedFile decodes a seed document. Unknown top-level keys are rejected.
func ParseSeedFile(r io.Reader) (*SeedFile, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f SeedFile
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &f, nil
}

// Seed writes f. Collection names are processed alphabetically.
func (s *Seeder) Seed(ctx context.Context, f *SeedFile) (SeedReport, error) {
	var rep SeedReport

	names := make([]string, 0, len(f.Collections))
	for name := range f.Collections {
		if _, ok := s.collections.Get(name); !ok {
			return rep, fmt.Errorf("seed: unknown collection %q", name)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ed, _ := s.collections.Get(name)
		groups, order, err := groupByYear(ed, f.Collections[name])
		if err != nil {
			return rep, fmt.Errorf("seed %s: %w", name, err)
		}
		for _, year := range order {
			n, err := ed.Len(ctx, year)
			if err != nil {
				return rep, fmt.Errorf("seed %s: %w", name, err)
			}
			if n > 0 {
				label := name
				if ed.IsScoped() {
					label = fmt.Sprintf("%s/%d", name, year)
				}
				rep.Skipped = append(rep.Skipped, label)
				logger.Info.Printf("[Seed] %s already has %d items, skipping", label, n)
				continue
			}
			for _, item := range groups[year] {
				if _, err := ed.Add(ctx, year, item); err != nil {
					return rep, fmt.Errorf("seed %s: %w", name, err)
				}
				rep.Items++
			}
		}
	}

	// settings rows an admin may already have edited are left untouched
	settle := func(label string, err error) error {
		if errors.Is(err, store.ErrDuplicateKey) {
			rep.Skipped = append(rep.Skipped, label)
			logger.Info.Printf("[Seed] %s already set, skipping", label)
			return nil
		}
		if err != nil {
			return err
		}
		rep.Settings++
		return nil
	}
	if f.Home != nil {
		if err := settle("home", s.settings.InsertHomeSettings(ctx, *f.Home)); err != nil {
			return rep, err
		}
	}
	for _, as := range f.About {
		if err := settle(fmt.Sprintf("about/%d", as.Year), s.settings.InsertAboutSection(ctx, as)); err != nil {
			return rep, err
		}
	}
	for _, es := range f.Email {
		if es.Key == "" {
			return rep, fmt.Errorf("seed email: key is required")
		}
		if err := settle("email/"+es.Key, s.settings.InsertEmailSettings(ctx, es)); err != nil {
			return rep, err
		}
	}

	kv := []struct {
		table  string
		values map[string]string
	}{
		{models.AwardsContentTable, f.AwardsContent},
		{models.ContactInfoTable, f.ContactInfo},
	}
	for _, t := range kv {
		keys := make([]string, 0, len(t.values))
		for k := range t.values {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := settle(t.table+"/"+k, s.settings.InsertValue(ctx, t.table, k, t.values[k])); err != nil {
				return rep, err
			}
		}
	}

	logger.Info.Printf("[Seed] wrote %d items and %d settings", rep.Items, rep.Settings)
	return rep, nil
}

// groupByYear splits items of a scoped collection by their year key, keeping
// first-seen year order. Unscoped collections use a single group.
func groupByYear(ed store.Editor, items []map[string]any) (map[int][]map[string]any, []int, error) {
	groups := make(map[int][]map[string]any)
	var order []int
	for i, item := range items {
		year := 0
		if ed.IsScoped() {
			y, ok := item["year"].(int)
			if !ok {
				return nil, nil, fmt.Errorf("item %d: integer year is required", i)
			}
			year = y
		}
		if _, seen := groups[year]; !seen {
			order = append(order, year)
		}
		groups[year] = append(groups[year], item)
	}
	return groups, order, nil
}
