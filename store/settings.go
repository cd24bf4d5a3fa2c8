// file: store/settings.go
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"founders-fest/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Settings reads and upserts singleton and key/value configuration rows.
type Settings struct {
	db *gorm.DB
}

// NewSettings returns a Settings repository on db.
func NewSettings(db *gorm.DB) *Settings { return &Settings{db: db} }

// HomeSettings returns the landing page settings, or zero values when unset.
func (s *Settings) HomeSettings(ctx context.Context) (models.HomeSettings, error) {
	out := models.HomeSettings{ID: models.HomeSettingsID}
	err := s.db.WithContext(ctx).Where("id = ?", models.HomeSettingsID).First(&out).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return out, fmt.Errorf("load home settings: %w", err)
	}
	return out, nil
}

// SaveHomeSettings upserts the single home settings row.
func (s *Settings) SaveHomeSettings(ctx context.Context, hs models.HomeSettings) (models.HomeSettings, error) {
	hs.ID = models.HomeSettingsID
	hs.UpdatedAt = time.Now()
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&hs).Error
	if err != nil {
		return hs, fmt.Errorf("save home settings: %w", err)
	}
	return hs, nil
}

// AboutSection returns the about page settings for year, or defaults when unset.
func (s *Settings) AboutSection(ctx context.Context, year int) (models.AboutSection, error) {
	out := models.DefaultAboutSection(year)
	var row models.AboutSection
	err := s.db.WithContext(ctx).Where("year = ?", year).First(&row).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return out, nil
	case err != nil:
		return out, fmt.Errorf("load about section %d: %w", year, err)
	}
	return row, nil
}

// ErrRotationSpeed is returned for a rotation speed outside the allowed range.
var ErrRotationSpeed = fmt.Errorf("rotation speed must be between %d and %d seconds",
	models.MinRotationSpeed, models.MaxRotationSpeed)

// SaveAboutSection upserts the about page settings keyed by year.
func (s *Settings) SaveAboutSection(ctx context.Context, as models.AboutSection) (models.AboutSection, error) {
	if as.RotationSpeed < models.MinRotationSpeed || as.RotationSpeed > models.MaxRotationSpeed {
		return as, ErrRotationSpeed
	}
	as.UpdatedAt = time.Now()
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "year"}},
		UpdateAll: true,
	}).Create(&as).Error
	if err != nil {
		return as, fmt.Errorf("save about section %d: %w", as.Year, err)
	}
	return as, nil
}

// EmailSettings returns the template stored under key. The ticket template
// falls back to its defaults when no row exists.
func (s *Settings) EmailSettings(ctx context.Context, key string) (models.EmailSettings, error) {
	var row models.EmailSettings
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&row).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if key == models.TicketEmailKey {
			return models.DefaultTicketEmail(), nil
		}
		return models.EmailSettings{Key: key}, nil
	case err != nil:
		return row, fmt.Errorf("load email settings %q: %w", key, err)
	}
	return row, nil
}

// SaveEmailSettings upserts a template by key.
func (s *Settings) SaveEmailSettings(ctx context.Context, es models.EmailSettings) (models.EmailSettings, error) {
	es.UpdatedAt = time.Now()
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		UpdateAll: true,
	}).Create(&es).Error
	if err != nil {
		return es, fmt.Errorf("save email settings %q: %w", es.Key, err)
	}
	return es, nil
}

// ----------------------- insert-only writes -----------------------

// InsertHomeSettings stores hs only when no home settings row exists yet.
func (s *Settings) InsertHomeSettings(ctx context.Context, hs models.HomeSettings) error {
	hs.ID = models.HomeSettingsID
	hs.UpdatedAt = time.Now()
	return s.insertOnce(ctx, &hs, "home settings")
}

// InsertAboutSection stores as only when its year has no row yet.
func (s *Settings) InsertAboutSection(ctx context.Context, as models.AboutSection) error {
	if as.RotationSpeed < models.MinRotationSpeed || as.RotationSpeed > models.MaxRotationSpeed {
		return ErrRotationSpeed
	}
	as.UpdatedAt = time.Now()
	return s.insertOnce(ctx, &as, fmt.Sprintf("about section %d", as.Year))
}

// InsertEmailSettings stores es only when its key has no row yet.
func (s *Settings) InsertEmailSettings(ctx context.Context, es models.EmailSettings) error {
	es.UpdatedAt = time.Now()
	return s.insertOnce(ctx, &es, fmt.Sprintf("email settings %q", es.Key))
}

// insertOnce creates row, failing with ErrDuplicateKey when its primary key exists.
func (s *Settings) insertOnce(ctx context.Context, row any, what string) error {
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(row)
	if res.Error != nil {
		return fmt.Errorf("insert %s: %w", what, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrDuplicateKey
	}
	return nil
}

// ----------------------- key/value tables -----------------------

// ErrDuplicateKey is returned by InsertValue when the key already exists.
var ErrDuplicateKey = errors.New("key already exists")

// Values lists every row of a key/value table ordered by key.
func (s *Settings) Values(ctx context.Context, table string) ([]models.KeyValue, error) {
	var rows []models.KeyValue
	if err := s.db.WithContext(ctx).Table(table).Order("key").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	return rows, nil
}

// Value returns one key from a key/value table.
func (s *Settings) Value(ctx context.Context, table, key string) (models.KeyValue, error) {
	var row models.KeyValue
	err := s.db.WithContext(ctx).Table(table).Where("key = ?", key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return row, ErrNotFound
	}
	if err != nil {
		return row, fmt.Errorf("load %s/%s: %w", table, key, err)
	}
	return row, nil
}

// PutValue upserts key in a key/value table.
func (s *Settings) PutValue(ctx context.Context, table, key, value string) error {
	row := models.KeyValue{Key: key, Value: value, UpdatedAt: time.Now()}
	err := s.db.WithContext(ctx).Table(table).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", table, key, err)
	}
	return nil
}

// InsertValue adds a new key, failing with ErrDuplicateKey if it exists.
func (s *Settings) InsertValue(ctx context.Context, table, key, value string) error {
	row := models.KeyValue{Key: key, Value: value, UpdatedAt: time.Now()}
	res := s.db.WithContext(ctx).Table(table).
		Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if res.Error != nil {
		return fmt.Errorf("insert %s/%s: %w", table, key, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrDuplicateKey
	}
	return nil
}

// DeleteValue removes key from a key/value table.
func (s *Settings) DeleteValue(ctx context.Context, table, key string) error {
	res := s.db.WithContext(ctx).Table(table).Where("key = ?", key).Delete(&models.KeyValue{})
	if res.Error != nil {
		return fmt.Errorf("delete %s/%s: %w", table, key, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
