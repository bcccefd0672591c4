package conflict

import (
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"

	"gymflow/models"
)

func weeklySchedule(id string, day time.Weekday, start, end int, validFrom, validTo string) models.RecurringSchedule {
	return models.RecurringSchedule{
		ID:        id,
		OwnerID:   "trainer-1",
		OwnerKind: models.OwnerTrainer,
		Slots: []models.WeeklySlot{
			{DayOfWeek: day, Interval: models.TimeInterval{Start: start, End: end}},
		},
		ValidFrom: validFrom,
		ValidTo:   validTo,
		Status:    models.StatusActive,
	}
}

func TestEngineDisjointValidityWindowsDoNotConflict(t *testing.T) {
	engine := NewEngine(zap.NewNop())

	// Same weekday and time, but the schedules never run concurrently.
	existing := weeklySchedule("winter", time.Monday, 360, 420, "2025-01-01", "2025-03-31")
	candidate := weeklySchedule("summer", time.Monday, 360, 420, "2025-07-01", "2025-09-30")

	conflicts := engine.Check(
		Candidate{Schedule: &candidate},
		CommitmentSet{Schedules: []models.RecurringSchedule{existing}},
	)
	if len(conflicts) != 0 {
		t.Fatalf("disjoint validity windows produced conflicts: %v", conflicts)
	}
}

func TestEngineOverlappingWindowsReportClampedInterval(t *testing.T) {
	engine := NewEngine(zap.NewNop())

	// Mon 06:00-07:30 vs candidate Mon 06:30-08:00, same window.
	existing := weeklySchedule("morning", time.Monday, 360, 450, "2024-12-20", "2025-03-20")
	candidate := weeklySchedule("cand", time.Monday, 390, 480, "2024-12-20", "2025-03-20")

	conflicts := engine.Check(
		Candidate{Schedule: &candidate},
		CommitmentSet{Schedules: []models.RecurringSchedule{existing}},
	)
	if len(conflicts) != 1 {
		t.Fatalf("got %d conflicts, want 1", len(conflicts))
	}
	c := conflicts[0]
	if c.Ref.ID != "morning" || c.Ref.Kind != models.CommitmentSchedule {
		t.Errorf("conflict ref = %+v, want schedule morning", c.Ref)
	}
	if c.Day != time.Monday {
		t.Errorf("conflict day = %v, want Monday", c.Day)
	}
	want := models.TimeInterval{Start: 390, End: 450} // 06:30-07:30
	if c.Overlap != want {
		t.Errorf("overlap = %v, want %v", c.Overlap, want)
	}
}

func TestEngineExactDuplicateSlotConflicts(t *testing.T) {
	engine := NewEngine(zap.NewNop())

	existing := weeklySchedule("spin", time.Friday, 1080, 1140, "2025-01-01", "2025-06-30")
	duplicate := existing
	duplicate.ID = "spin-copy"

	conflicts := engine.Check(
		Candidate{Schedule: &duplicate},
		CommitmentSet{Schedules: []models.RecurringSchedule{existing}},
	)
	if len(conflicts) != 1 {
		t.Fatalf("exact duplicate slot reported %d conflicts, want 1", len(conflicts))
	}
	if conflicts[0].Overlap != (models.TimeInterval{Start: 1080, End: 1140}) {
		t.Errorf("overlap = %v, want the full slot", conflicts[0].Overlap)
	}
}

func TestEngineBookingOutsideValidityWindow(t *testing.T) {
	engine := NewEngine(zap.NewNop())

	existing := weeklySchedule("yoga", time.Monday, 360, 420, "2025-01-01", "2025-03-31")
	booking := models.SessionBooking{
		ID:        "makeup-1",
		OwnerID:   "trainer-1",
		OwnerKind: models.OwnerTrainer,
		Date:      "2025-07-07", // a Monday, but months after the schedule ends
		Interval:  models.TimeInterval{Start: 360, End: 420},
		Status:    models.StatusActive,
	}

	conflicts := engine.Check(
		Candidate{Booking: &booking},
		CommitmentSet{Schedules: []models.RecurringSchedule{existing}},
	)
	if len(conflicts) != 0 {
		t.Fatalf("booking outside the validity window conflicted: %v", conflicts)
	}
}

func TestEngineBookingInsideValidityWindow(t *testing.T) {
	engine := NewEngine(zap.NewNop())

	existing := weeklySchedule("yoga", time.Monday, 360, 420, "2025-01-01", "2025-03-31")
	booking := models.SessionBooking{
		ID:        "makeup-2",
		OwnerID:   "trainer-1",
		OwnerKind: models.OwnerTrainer,
		Date:      "2025-01-06", // a Monday inside the window
		Interval:  models.TimeInterval{Start: 390, End: 450},
		Status:    models.StatusActive,
	}

	conflicts := engine.Check(
		Candidate{Booking: &booking},
		CommitmentSet{Schedules: []models.RecurringSchedule{existing}},
	)
	if len(conflicts) != 1 {
		t.Fatalf("got %d conflicts, want 1", len(conflicts))
	}
	if conflicts[0].Day != time.Monday {
		t.Errorf("conflict day = %v, want Monday", conflicts[0].Day)
	}
	want := models.TimeInterval{Start: 390, End: 420}
	if conflicts[0].Overlap != want {
		t.Errorf("overlap = %v, want %v", conflicts[0].Overlap, want)
	}
}

func TestEngineIgnoresNonActiveCommitments(t *testing.T) {
	engine := NewEngine(zap.NewNop())

	cancelled := weeklySchedule("old", time.Monday, 360, 420, "2025-01-01", "2025-03-31")
	cancelled.Status = models.StatusCancelled
	completed := weeklySchedule("done", time.Monday, 360, 420, "2025-01-01", "2025-03-31")
	completed.Status = models.StatusCompleted
	expiredBooking := models.SessionBooking{
		ID: "b1", Date: "2025-01-06",
		Interval: models.TimeInterval{Start: 360, End: 420},
		Status:   models.StatusExpired,
	}

	candidate := weeklySchedule("new", time.Monday, 360, 420, "2025-01-01", "2025-03-31")
	conflicts := engine.Check(
		Candidate{Schedule: &candidate},
		CommitmentSet{
			Schedules: []models.RecurringSchedule{cancelled, completed},
			Bookings:  []models.SessionBooking{expiredBooking},
		},
	)
	if len(conflicts) != 0 {
		t.Fatalf("non-active commitments produced conflicts: %v", conflicts)
	}
}

func TestEngineTouchingTimesDoNotConflict(t *testing.T) {
	engine := NewEngine(zap.NewNop())

	existing := weeklySchedule("early", time.Monday, 540, 600, "2025-01-01", "2025-03-31") // 09:00-10:00
	candidate := weeklySchedule("late", time.Monday, 600, 660, "2025-01-01", "2025-03-31") // 10:00-11:00

	conflicts := engine.Check(
		Candidate{Schedule: &candidate},
		CommitmentSet{Schedules: []models.RecurringSchedule{existing}},
	)
	if len(conflicts) != 0 {
		t.Fatalf("back-to-back slots conflicted: %v", conflicts)
	}
}

func TestEngineCheckIsIdempotent(t *testing.T) {
	engine := NewEngine(zap.NewNop())

	existing := CommitmentSet{Schedules: []models.RecurringSchedule{
		weeklySchedule("a", time.Monday, 360, 450, "2025-01-01", "2025-03-31"),
		weeklySchedule("b", time.Wednesday, 540, 600, "2025-01-01", "2025-03-31"),
	}}
	candidate := weeklySchedule("cand", time.Monday, 390, 480, "2025-01-01", "2025-03-31")

	first := engine.Check(Candidate{Schedule: &candidate}, existing)
	second := engine.Check(Candidate{Schedule: &candidate}, existing)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated checks differ: %v vs %v", first, second)
	}
	if len(first) != 1 {
		t.Errorf("got %d conflicts, want 1", len(first))
	}
}
