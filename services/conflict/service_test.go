package conflict

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"gymflow/models"
)

// ── test doubles ──

type mockProvider struct {
	set   CommitmentSet
	err   error
	calls int
}

func (m *mockProvider) FetchActive(_ context.Context, _ string, _ models.OwnerKind, window DateWindow) (CommitmentSet, error) {
	m.calls++
	if m.err != nil {
		return CommitmentSet{}, &ProviderUnavailableError{Err: m.err}
	}
	return filterWindow(m.set, window), nil
}

type mockScheduleRepo struct {
	byID       map[string]*models.RecurringSchedule
	created    []*models.RecurringSchedule
	statuses   map[string]string
	superseded []string
}

func newMockScheduleRepo() *mockScheduleRepo {
	return &mockScheduleRepo{byID: make(map[string]*models.RecurringSchedule), statuses: make(map[string]string)}
}

func (m *mockScheduleRepo) Create(_ context.Context, s *models.RecurringSchedule) error {
	if s.ID == "" {
		s.ID = "generated"
	}
	m.created = append(m.created, s)
	m.byID[s.ID] = s
	return nil
}

func (m *mockScheduleRepo) GetByID(_ context.Context, id string) (*models.RecurringSchedule, error) {
	s, ok := m.byID[id]
	if !ok {
		return nil, errors.New("schedule not found")
	}
	return s, nil
}

func (m *mockScheduleRepo) GetActiveByOwner(_ context.Context, _ string, _ models.OwnerKind, _, _ string) ([]models.RecurringSchedule, error) {
	var out []models.RecurringSchedule
	for _, s := range m.byID {
		if s.Status == models.StatusActive {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *mockScheduleRepo) ListByOwner(_ context.Context, _ string, _ models.OwnerKind) ([]models.RecurringSchedule, error) {
	var out []models.RecurringSchedule
	for _, s := range m.byID {
		out = append(out, *s)
	}
	return out, nil
}

func (m *mockScheduleRepo) UpdateStatus(_ context.Context, id, status string) error {
	m.statuses[id] = status
	if s, ok := m.byID[id]; ok {
		s.Status = status
	}
	return nil
}

func (m *mockScheduleRepo) Supersede(_ context.Context, oldID string, replacement *models.RecurringSchedule) error {
	m.superseded = append(m.superseded, oldID)
	replacement.ID = oldID + "-v2"
	m.byID[replacement.ID] = replacement
	if s, ok := m.byID[oldID]; ok {
		s.Status = models.StatusSuperseded
	}
	return nil
}

func (m *mockScheduleRepo) EnsureIndexes() error { return nil }

type mockBookingRepo struct {
	byID     map[string]*models.SessionBooking
	created  []*models.SessionBooking
	statuses map[string]string
}

func newMockBookingRepo() *mockBookingRepo {
	return &mockBookingRepo{byID: make(map[string]*models.SessionBooking), statuses: make(map[string]string)}
}

func (m *mockBookingRepo) Create(_ context.Context, b *models.SessionBooking) error {
	if b.ID == "" {
		b.ID = "generated"
	}
	m.created = append(m.created, b)
	m.byID[b.ID] = b
	return nil
}

func (m *mockBookingRepo) GetByID(_ context.Context, id string) (*models.SessionBooking, error) {
	b, ok := m.byID[id]
	if !ok {
		return nil, errors.New("booking not found")
	}
	return b, nil
}

func (m *mockBookingRepo) GetActiveByOwner(_ context.Context, _ string, _ models.OwnerKind, _, _ string) ([]models.SessionBooking, error) {
	var out []models.SessionBooking
	for _, b := range m.byID {
		if b.Status == models.StatusActive {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *mockBookingRepo) ListByOwner(_ context.Context, _ string, _ models.OwnerKind) ([]models.SessionBooking, error) {
	var out []models.SessionBooking
	for _, b := range m.byID {
		out = append(out, *b)
	}
	return out, nil
}

func (m *mockBookingRepo) UpdateStatus(_ context.Context, id, status string) error {
	m.statuses[id] = status
	if b, ok := m.byID[id]; ok {
		b.Status = status
	}
	return nil
}

func (m *mockBookingRepo) ExpirePast(_ context.Context, cutoff string) (int64, error) {
	var n int64
	for _, b := range m.byID {
		if b.Status == models.StatusActive && b.Date < cutoff {
			b.Status = models.StatusExpired
			n++
		}
	}
	return n, nil
}

func (m *mockBookingRepo) EnsureIndexes() error { return nil }

type stubLocker struct {
	busy     bool
	acquired int
	released int
}

func (l *stubLocker) Acquire(_ context.Context, _ string, _ models.OwnerKind) (func(), error) {
	if l.busy {
		return nil, ErrOwnerBusy
	}
	l.acquired++
	return func() { l.released++ }, nil
}

type recordingInvalidator struct {
	calls int
}

func (r *recordingInvalidator) Invalidate(_ context.Context, _ string, _ models.OwnerKind) {
	r.calls++
}

func newTestService(provider *mockProvider) (*DefaultConflictService, *mockScheduleRepo, *mockBookingRepo, *stubLocker, *recordingInvalidator) {
	schedules := newMockScheduleRepo()
	bookings := newMockBookingRepo()
	locker := &stubLocker{}
	inv := &recordingInvalidator{}
	svc := &DefaultConflictService{
		Engine:    NewEngine(zap.NewNop()),
		Provider:  provider,
		Fresh:     provider,
		Snapshots: inv,
		Schedules: schedules,
		Bookings:  bookings,
		Locker:    locker,
		Logger:    zap.NewNop(),
	}
	return svc, schedules, bookings, locker, inv
}

func mondayYogaSet() CommitmentSet {
	return CommitmentSet{Schedules: []models.RecurringSchedule{
		weeklySchedule("yoga", time.Monday, 360, 450, "2024-12-20", "2025-03-20"), // Mon 06:00-07:30
	}}
}

// ── CheckCandidate ──

func TestCheckCandidateMissingTimeSkipsProvider(t *testing.T) {
	provider := &mockProvider{set: mondayYogaSet()}
	svc, _, _, _, _ := newTestService(provider)

	_, err := svc.CheckCandidate(context.Background(), models.ConflictCheckRequest{
		OwnerID:   "trainer-1",
		OwnerKind: "trainer",
		Session:   &models.SessionBookingInput{Date: "2025-01-06", EndTime: "08:00"},
	})
	if !IsValidation(err) {
		t.Fatalf("err = %v, want validation error", err)
	}
	var ve *ValidationError
	errors.As(err, &ve)
	if ve.Field != "startTime" {
		t.Errorf("field = %q, want startTime", ve.Field)
	}
	if provider.calls != 0 {
		t.Errorf("provider called %d times on invalid input, want 0", provider.calls)
	}
}

func TestCheckCandidateRejectsUnknownOwnerKind(t *testing.T) {
	provider := &mockProvider{}
	svc, _, _, _, _ := newTestService(provider)

	_, err := svc.CheckCandidate(context.Background(), models.ConflictCheckRequest{
		OwnerID:   "x",
		OwnerKind: "equipment",
		Session:   &models.SessionBookingInput{Date: "2025-01-06", StartTime: "06:00", EndTime: "07:00"},
	})
	if !IsValidation(err) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if provider.calls != 0 {
		t.Errorf("provider called on invalid owner kind")
	}
}

func TestCheckCandidateRequiresExactlyOneCandidate(t *testing.T) {
	provider := &mockProvider{}
	svc, _, _, _, _ := newTestService(provider)

	if _, err := svc.CheckCandidate(context.Background(), models.ConflictCheckRequest{
		OwnerID: "trainer-1", OwnerKind: "trainer",
	}); !IsValidation(err) {
		t.Errorf("empty candidate: err = %v, want validation error", err)
	}

	if _, err := svc.CheckCandidate(context.Background(), models.ConflictCheckRequest{
		OwnerID:   "trainer-1",
		OwnerKind: "trainer",
		Recurring: &models.RecurringScheduleInput{},
		Session:   &models.SessionBookingInput{},
	}); !IsValidation(err) {
		t.Errorf("both candidates: err = %v, want validation error", err)
	}
}

func TestCheckCandidateProviderFailureIsNotNoConflict(t *testing.T) {
	provider := &mockProvider{err: errors.New("mongo timeout")}
	svc, _, _, _, _ := newTestService(provider)

	_, err := svc.CheckCandidate(context.Background(), models.ConflictCheckRequest{
		OwnerID:   "trainer-1",
		OwnerKind: "trainer",
		Session:   &models.SessionBookingInput{Date: "2025-01-06", StartTime: "06:00", EndTime: "07:00"},
	})
	if !IsProviderUnavailable(err) {
		t.Fatalf("err = %v, want provider unavailable", err)
	}
}

func TestCheckCandidateReportsFormattedConflict(t *testing.T) {
	provider := &mockProvider{set: mondayYogaSet()}
	svc, _, _, _, _ := newTestService(provider)

	resp, err := svc.CheckCandidate(context.Background(), models.ConflictCheckRequest{
		OwnerID:   "trainer-1",
		OwnerKind: "trainer",
		Recurring: &models.RecurringScheduleInput{
			Slots:     []models.SlotInput{{DayOfWeek: 1, StartTime: "06:30", EndTime: "08:00"}},
			ValidFrom: "2024-12-20",
			ValidTo:   "2025-03-20",
		},
	})
	if err != nil {
		t.Fatalf("CheckCandidate: %v", err)
	}
	if !resp.HasConflict || len(resp.Conflicts) != 1 {
		t.Fatalf("resp = %+v, want exactly one conflict", resp)
	}
	c := resp.Conflicts[0]
	if c.OverlapStart != "06:30" || c.OverlapEnd != "07:30" {
		t.Errorf("overlap %s-%s, want 06:30-07:30", c.OverlapStart, c.OverlapEnd)
	}
	if c.ConflictingRef != "schedule:yoga" {
		t.Errorf("conflictingRef = %q, want schedule:yoga", c.ConflictingRef)
	}
	if c.Weekday != int(time.Monday) {
		t.Errorf("weekday = %d, want %d", c.Weekday, int(time.Monday))
	}
}

// ── write flows ──

func TestCreateBookingConflictDoesNotPersist(t *testing.T) {
	provider := &mockProvider{set: mondayYogaSet()}
	svc, _, bookings, locker, inv := newTestService(provider)

	booking, conflicts, err := svc.CreateBooking(context.Background(), "trainer-1", "trainer", models.SessionBookingInput{
		Date: "2025-01-06", StartTime: "06:30", EndTime: "07:00",
	})
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if booking != nil {
		t.Error("booking returned despite conflict")
	}
	if len(conflicts) != 1 {
		t.Fatalf("got %d conflicts, want 1", len(conflicts))
	}
	if len(bookings.created) != 0 {
		t.Error("conflicting booking was persisted")
	}
	if inv.calls != 0 {
		t.Error("snapshot invalidated without a write")
	}
	if locker.acquired != 1 || locker.released != 1 {
		t.Errorf("lock acquired/released = %d/%d, want 1/1", locker.acquired, locker.released)
	}
}

func TestCreateBookingPersistsWhenClear(t *testing.T) {
	provider := &mockProvider{set: mondayYogaSet()}
	svc, _, bookings, locker, inv := newTestService(provider)

	booking, conflicts, err := svc.CreateBooking(context.Background(), "trainer-1", "trainer", models.SessionBookingInput{
		Date: "2025-01-06", StartTime: "08:00", EndTime: "09:00",
	})
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if len(conflicts) != 0 {
		t.Fatalf("unexpected conflicts: %v", conflicts)
	}
	if booking == nil || booking.Status != models.StatusActive {
		t.Fatalf("booking = %+v, want an active booking", booking)
	}
	if len(bookings.created) != 1 {
		t.Fatalf("created %d bookings, want 1", len(bookings.created))
	}
	if inv.calls != 1 {
		t.Errorf("snapshot invalidations = %d, want 1", inv.calls)
	}
	if locker.acquired != 1 || locker.released != 1 {
		t.Errorf("lock acquired/released = %d/%d, want 1/1", locker.acquired, locker.released)
	}
}

func TestCreateScheduleOwnerBusy(t *testing.T) {
	provider := &mockProvider{}
	svc, schedules, _, locker, _ := newTestService(provider)
	locker.busy = true

	_, _, err := svc.CreateSchedule(context.Background(), "trainer-1", "trainer", models.RecurringScheduleInput{
		Slots:     []models.SlotInput{{DayOfWeek: 1, StartTime: "06:00", EndTime: "07:00"}},
		ValidFrom: "2025-01-01",
		ValidTo:   "2025-03-31",
	})
	if !errors.Is(err, ErrOwnerBusy) {
		t.Fatalf("err = %v, want ErrOwnerBusy", err)
	}
	if len(schedules.created) != 0 {
		t.Error("schedule persisted despite busy owner")
	}
}

func TestUpdateScheduleWindowDoesNotConflictWithItself(t *testing.T) {
	provider := &mockProvider{}
	svc, schedules, _, _, inv := newTestService(provider)

	current := weeklySchedule("yoga", time.Monday, 360, 450, "2025-01-01", "2025-03-31")
	schedules.byID["yoga"] = &current
	provider.set = CommitmentSet{Schedules: []models.RecurringSchedule{current}}

	replacement, conflicts, err := svc.UpdateScheduleWindow(context.Background(), "yoga", "2025-02-01", "2025-04-30")
	if err != nil {
		t.Fatalf("UpdateScheduleWindow: %v", err)
	}
	if len(conflicts) != 0 {
		t.Fatalf("schedule conflicted with its own previous version: %v", conflicts)
	}
	if replacement == nil || replacement.ValidFrom != "2025-02-01" || replacement.ValidTo != "2025-04-30" {
		t.Fatalf("replacement = %+v, want updated window", replacement)
	}
	if len(schedules.superseded) != 1 || schedules.superseded[0] != "yoga" {
		t.Errorf("superseded = %v, want [yoga]", schedules.superseded)
	}
	if inv.calls != 1 {
		t.Errorf("snapshot invalidations = %d, want 1", inv.calls)
	}
}

func TestCancelBookingInvalidatesSnapshot(t *testing.T) {
	provider := &mockProvider{}
	svc, _, bookings, _, inv := newTestService(provider)

	bookings.byID["b1"] = &models.SessionBooking{
		ID: "b1", OwnerID: "room-9", OwnerKind: models.OwnerRoom,
		Date: "2025-01-06", Interval: models.TimeInterval{Start: 360, End: 420},
		Status: models.StatusActive,
	}

	if err := svc.CancelBooking(context.Background(), "b1"); err != nil {
		t.Fatalf("CancelBooking: %v", err)
	}
	if bookings.statuses["b1"] != models.StatusCancelled {
		t.Errorf("status = %q, want cancelled", bookings.statuses["b1"])
	}
	if inv.calls != 1 {
		t.Errorf("snapshot invalidations = %d, want 1", inv.calls)
	}
}

// ── availability ──

func TestDayAvailability(t *testing.T) {
	provider := &mockProvider{set: CommitmentSet{
		Schedules: []models.RecurringSchedule{
			weeklySchedule("yoga", time.Monday, 360, 450, "2025-01-01", "2025-03-31"), // 06:00-07:30
		},
		Bookings: []models.SessionBooking{
			{ID: "b1", Date: "2025-01-06", Interval: models.TimeInterval{Start: 600, End: 660}, Status: models.StatusActive}, // 10:00-11:00
		},
	}}
	svc, _, _, _, _ := newTestService(provider)

	gaps, err := svc.DayAvailability(context.Background(), "trainer-1", "trainer", "2025-01-06")
	if err != nil {
		t.Fatalf("DayAvailability: %v", err)
	}
	want := []models.TimeInterval{
		{Start: 0, End: 360},
		{Start: 450, End: 600},
		{Start: 660, End: 1440},
	}
	if len(gaps) != len(want) {
		t.Fatalf("gaps = %v, want %v", gaps, want)
	}
	for i := range want {
		if gaps[i] != want[i] {
			t.Errorf("gap[%d] = %v, want %v", i, gaps[i], want[i])
		}
	}
}

func TestFreeGapsMergesOverlappingBusyIntervals(t *testing.T) {
	busy := []models.TimeInterval{
		{Start: 600, End: 720},
		{Start: 660, End: 780}, // overlaps the previous interval
		{Start: 60, End: 120},
	}
	gaps := freeGaps(busy)
	want := []models.TimeInterval{
		{Start: 0, End: 60},
		{Start: 120, End: 600},
		{Start: 780, End: 1440},
	}
	if len(gaps) != len(want) {
		t.Fatalf("gaps = %v, want %v", gaps, want)
	}
	for i := range want {
		if gaps[i] != want[i] {
			t.Errorf("gap[%d] = %v, want %v", i, gaps[i], want[i])
		}
	}
}
