package conflict

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	bookingRepo "gymflow/database/repository/booking"
	scheduleRepo "gymflow/database/repository/schedule"
	"gymflow/models"
)

// DateWindow bounds a commitment fetch. Empty bounds mean unbounded on that
// side. Date strings are "YYYY-MM-DD", inclusive, and compare
// lexicographically.
type DateWindow struct {
	From string
	To   string
}

func (w DateWindow) containsDate(date string) bool {
	if w.From != "" && date < w.From {
		return false
	}
	if w.To != "" && date > w.To {
		return false
	}
	return true
}

func (w DateWindow) intersects(from, to string) bool {
	if w.To != "" && from > w.To {
		return false
	}
	if w.From != "" && to < w.From {
		return false
	}
	return true
}

// CommitmentSet is a read-only snapshot of one owner's active commitments.
type CommitmentSet struct {
	Schedules []models.RecurringSchedule `json:"schedules"`
	Bookings  []models.SessionBooking    `json:"bookings"`
}

// ExcludeSchedule returns a copy without the given schedule id. Used when
// re-checking an edited schedule against the rest of the calendar.
func (cs CommitmentSet) ExcludeSchedule(id string) CommitmentSet {
	out := CommitmentSet{Bookings: cs.Bookings}
	for _, s := range cs.Schedules {
		if s.ID != id {
			out.Schedules = append(out.Schedules, s)
		}
	}
	return out
}

// CommitmentProvider fetches the active commitments of a trainer or room.
// Implementations may pre-filter coarsely by the window; the engine
// re-validates precisely.
type CommitmentProvider interface {
	FetchActive(ctx context.Context, ownerID string, kind models.OwnerKind, window DateWindow) (CommitmentSet, error)
}

// SnapshotInvalidator drops any cached view of an owner's commitments.
type SnapshotInvalidator interface {
	Invalidate(ctx context.Context, ownerID string, kind models.OwnerKind)
}

// RepoCommitmentProvider serves commitments from the Mongo repositories.
// With a Cache client set, the owner's full active set is kept as a
// short-TTL Redis JSON snapshot and windowed fetches are filtered from it in
// memory. Write paths use a provider with Cache nil so the locked re-check
// always reads fresh.
type RepoCommitmentProvider struct {
	Schedules scheduleRepo.ScheduleRepository
	Bookings  bookingRepo.BookingRepository
	Cache     *redis.Client
	CacheTTL  time.Duration
	Logger    *zap.Logger
}

func snapshotKey(ownerID string, kind models.OwnerKind) string {
	return fmt.Sprintf("commitments:%s:%s", kind, ownerID)
}

func (p *RepoCommitmentProvider) FetchActive(ctx context.Context, ownerID string, kind models.OwnerKind, window DateWindow) (CommitmentSet, error) {
	if p.Cache == nil {
		return p.fetchFromRepos(ctx, ownerID, kind, window)
	}

	if set, ok := p.cachedSnapshot(ctx, ownerID, kind); ok {
		return filterWindow(set, window), nil
	}

	full, err := p.fetchFromRepos(ctx, ownerID, kind, DateWindow{})
	if err != nil {
		return CommitmentSet{}, err
	}
	p.storeSnapshot(ctx, ownerID, kind, full)
	return filterWindow(full, window), nil
}

// Invalidate drops the owner's cached snapshot after a write.
func (p *RepoCommitmentProvider) Invalidate(ctx context.Context, ownerID string, kind models.OwnerKind) {
	if p.Cache == nil {
		return
	}
	if err := p.Cache.Del(ctx, snapshotKey(ownerID, kind)).Err(); err != nil && p.Logger != nil {
		p.Logger.Warn("commitment snapshot invalidation failed",
			zap.String("ownerId", ownerID), zap.Error(err))
	}
}

func (p *RepoCommitmentProvider) fetchFromRepos(ctx context.Context, ownerID string, kind models.OwnerKind, window DateWindow) (CommitmentSet, error) {
	schedules, err := p.Schedules.GetActiveByOwner(ctx, ownerID, kind, window.From, window.To)
	if err != nil {
		return CommitmentSet{}, &ProviderUnavailableError{Err: err}
	}
	bookings, err := p.Bookings.GetActiveByOwner(ctx, ownerID, kind, window.From, window.To)
	if err != nil {
		return CommitmentSet{}, &ProviderUnavailableError{Err: err}
	}
	return CommitmentSet{Schedules: schedules, Bookings: bookings}, nil
}

func (p *RepoCommitmentProvider) cachedSnapshot(ctx context.Context, ownerID string, kind models.OwnerKind) (CommitmentSet, bool) {
	raw, err := p.Cache.Get(ctx, snapshotKey(ownerID, kind)).Result()
	if err != nil {
		if err != redis.Nil && p.Logger != nil {
			p.Logger.Warn("commitment snapshot cache read failed",
				zap.String("ownerId", ownerID), zap.Error(err))
		}
		return CommitmentSet{}, false
	}
	var set CommitmentSet
	if err := json.Unmarshal([]byte(raw), &set); err != nil {
		// Corrupt entry: ignore it and rebuild from the repositories.
		return CommitmentSet{}, false
	}
	return set, true
}

func (p *RepoCommitmentProvider) storeSnapshot(ctx context.Context, ownerID string, kind models.OwnerKind, set CommitmentSet) {
	data, err := json.Marshal(set)
	if err != nil {
		return
	}
	ttl := p.CacheTTL
	if ttl == 0 {
		ttl = 30 * time.Second
	}
	if err := p.Cache.Set(ctx, snapshotKey(ownerID, kind), data, ttl).Err(); err != nil && p.Logger != nil {
		p.Logger.Warn("commitment snapshot cache write failed",
			zap.String("ownerId", ownerID), zap.Error(err))
	}
}

func filterWindow(set CommitmentSet, window DateWindow) CommitmentSet {
	if window.From == "" && window.To == "" {
		return set
	}
	var out CommitmentSet
	for _, s := range set.Schedules {
		if window.intersects(s.ValidFrom, s.ValidTo) {
			out.Schedules = append(out.Schedules, s)
		}
	}
	for _, b := range set.Bookings {
		if window.containsDate(b.Date) {
			out.Bookings = append(out.Bookings, b)
		}
	}
	return out
}
