// file: store/queue.go
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"founders-fest/models"

	"gorm.io/gorm"
)

// StatusHook runs after a status change has been stored. Its error is not
// returned to the caller; hooks log their own failures.
type StatusHook[T any] func(ctx context.Context, record *T, from, to models.Status)

// Queue is the review queue for one kind of public submission.
type Queue[T any, P interface {
	*T
	models.Reviewable
}] struct {
	db     *gorm.DB
	kind   string
	header []string
	hooks  []StatusHook[T]
}

// NewQueue binds a submission model to the database. kind names the entity
// in URLs and export filenames; header is its CSV header row.
func NewQueue[T any, P interface {
	*T
	models.Reviewable
}](db *gorm.DB, kind string, header []string) *Queue[T, P] {
	return &Queue[T, P]{db: db, kind: kind, header: header}
}

// Kind returns the entity name.
func (q *Queue[T, P]) Kind() string { return q.kind }

// Header returns the CSV header row.
func (q *Queue[T, P]) Header() []string { return q.header }

// OnStatusChange registers a hook that runs after every successful SetStatus.
func (q *Queue[T, P]) OnStatusChange(h StatusHook[T]) {
	q.hooks = append(q.hooks, h)
}

// Create stores a new submission as pending with a server-side timestamp.
func (q *Queue[T, P]) Create(ctx context.Context, record *T) error {
	sub := P(record).Review()
	now := time.Now().UTC()
	sub.ID = 0
	sub.Status = models.StatusPending
	sub.CreatedAt = now
	sub.UpdatedAt = now
	if err := q.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("create %s: %w", q.kind, err)
	}
	return nil
}

// List returns submissions matching filter, newest first.
func (q *Queue[T, P]) List(ctx context.Context, filter models.Filter) ([]T, error) {
	tx := q.db.WithContext(ctx).Model(P(new(T)))
	if filter != "" && filter != models.FilterAll {
		tx = tx.Where("status = ?", string(filter))
	}
	var rows []T
	if err := tx.Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", q.kind, err)
	}
	return rows, nil
}

// Get reads one submission without modifying it.
func (q *Queue[T, P]) Get(ctx context.Context, id uint) (*T, error) {
	var row T
	err := q.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%d: %w", q.kind, id, err)
	}
	return &row, nil
}

// SetStatus moves submission id to status. Any transition is allowed,
// including re-applying the current status. Registered hooks run afterwards.
func (q *Queue[T, P]) SetStatus(ctx context.Context, id uint, status models.Status) (*T, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	before, err := q.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	from := P(before).Review().Status

	res := q.db.WithContext(ctx).Model(P(new(T))).Where("id = ?", id).
		Updates(map[string]any{"status": string(status), "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return nil, fmt.Errorf("set status %s/%d: %w", q.kind, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	after, err := q.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, h := range q.hooks {
		h(ctx, after, from, status)
	}
	return after, nil
}

// Records returns the CSV rows for filter in listing order.
func (q *Queue[T, P]) Records(ctx context.Context, filter models.Filter) ([][]string, error) {
	rows, err := q.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([][]string, len(rows))
	for i := range rows {
		out[i] = P(&rows[i]).CSVRecord()
	}
	return out, nil
}

// Counts returns the number of submissions per status plus the total under "all".
func (q *Queue[T, P]) Counts(ctx context.Context) (map[models.Filter]int64, error) {
	var groups []struct {
		Status string
		N      int64
	}
	err := q.db.WithContext(ctx).Model(P(new(T))).
		Select("status, count(*) as n").Group("status").Scan(&groups).Error
	if err != nil {
		return nil, fmt.Errorf("count %s: %w", q.kind, err)
	}
	counts := map[models.Filter]int64{
		models.FilterAll:                     0,
		models.Filter(models.StatusPending):  0,
		models.Filter(models.StatusApproved): 0,
		models.Filter(models.StatusRejected): 0,
	}
	for _, g := range groups {
		counts[models.Filter(g.Status)] += g.N
		counts[models.FilterAll] += g.N
	}
	return counts, nil
}

// Reviewer is the type-erased view of a Queue used by HTTP handlers.
type Reviewer interface {
	Kind() string
	Header() []string
	List(ctx context.Context, filter models.Filter) (any, error)
	Get(ctx context.Context, id uint) (any, error)
	SetStatus(ctx context.Context, id uint, status models.Status) (any, error)
	Records(ctx context.Context, filter models.Filter) ([][]string, error)
	Counts(ctx context.Context) (map[models.Filter]int64, error)
}

type reviewer[T any, P interface {
	*T
	models.Reviewable
}] struct {
	*Queue[T, P]
}

func (r reviewer[T, P]) List(ctx context.Context, filter models.Filter) (any, error) {
	return r.Queue.List(ctx, filter)
}

func (r reviewer[T, P]) Get(ctx context.Context, id uint) (any, error) {
	return r.Queue.Get(ctx, id)
}

func (r reviewer[T, P]) SetStatus(ctx context.Context, id uint, status models.Status) (any, error) {
	return r.Queue.SetStatus(ctx, id, status)
}

// AsReviewer erases the queue's type parameters.
func AsReviewer[T any, P interface {
	*T
	models.Reviewable
}](q *Queue[T, P]) Reviewer {
	return reviewer[T, P]{q}
}

// Submission entity names as used in URLs and export filenames.
const (
	KindAttendees        = "attendees"
	KindStallBookings    = "stall-bookings"
	KindAwardNominations = "award-nominations"
)

// Queues groups the three review queues.
type Queues struct {
	Attendees        *Queue[models.Attendee, *models.Attendee]
	StallBookings    *Queue[models.StallBooking, *models.StallBooking]
	AwardNominations *Queue[models.AwardNomination, *models.AwardNomination]
}

// NewQueues builds every review queue on db.
func NewQueues(db *gorm.DB) *Queues {
	return &Queues{
		Attendees:        NewQueue[models.Attendee](db, KindAttendees, models.AttendeeCSVHeader),
		StallBookings:    NewQueue[models.StallBooking](db, KindStallBookings, models.StallBookingCSVHeader),
		AwardNominations: NewQueue[models.AwardNomination](db, KindAwardNominations, models.AwardNominationCSVHeader),
	}
}

// Reviewer looks up a queue by kind.
func (q *Queues) Reviewer(kind string) (Reviewer, bool) {
	switch kind {
	case KindAttendees:
		return AsReviewer(q.Attendees), true
	case KindStallBookings:
		return AsReviewer(q.StallBookings), true
	case KindAwardNominations:
		return AsReviewer(q.AwardNominations), true
	}
	return nil, false
}
