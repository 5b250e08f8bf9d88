package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "github.com/coursebridge/coursebridge-backend/internal/pkg/errors"
	"github.com/coursebridge/coursebridge-backend/internal/repos"
)

func newTrackerFixture(t *testing.T) (*gorm.DB, *fakeClock, TrackerService, ProgressService) {
	t.Helper()
	db := testDB(t)
	log := testLogger(t)
	clock := newFakeClock()

	itemRepo := repos.NewContentItemRepo(db, log)
	accessRepo := repos.NewContentAccessRepo(db, log)
	progressRepo := repos.NewContentProgressRepo(db, log)

	progress := NewProgressService(db, log, clock, itemRepo, accessRepo, progressRepo, NoopNotifier{})
	tracker := NewTrackerService(db, log, clock, itemRepo, accessRepo, progress)
	return db, clock, tracker, progress
}

func TestTrackCountsEveryCall(t *testing.T) {
	db, clock, tracker, _ := newTrackerFixture(t)
	ctx := context.Background()
	course := seedCourse(t, db, clock)
	item := seedItem(t, db, clock, course.ID, nil)
	student := uuid.New()

	first := clock.Now()
	rec, err := tracker.Track(ctx, nil, course.ID, item.ID, student, "Dana")
	if err != nil {
		t.Fatalf("first Track: %v", err)
	}
	if rec.AccessCount != 1 {
		t.Fatalf("access_count after first track = %d, want 1", rec.AccessCount)
	}
	if !rec.FirstAccessedAt.Equal(first) || !rec.LastAccessedAt.Equal(first) {
		t.Fatalf("first/last accessed not stamped with current instant")
	}

	clock.Advance(time.Minute)
	if _, err := tracker.Track(ctx, nil, course.ID, item.ID, student, "Dana"); err != nil {
		t.Fatalf("second Track: %v", err)
	}
	clock.Advance(time.Minute)
	third := clock.Now()
	rec, err = tracker.Track(ctx, nil, course.ID, item.ID, student, "Dana")
	if err != nil {
		t.Fatalf("third Track: %v", err)
	}
	if rec.AccessCount != 3 {
		t.Fatalf("access_count after three tracks = %d, want 3", rec.AccessCount)
	}
	if !rec.FirstAccessedAt.Equal(first) {
		t.Fatalf("first_accessed_at moved: got %v, want %v", rec.FirstAccessedAt, first)
	}
	if !rec.LastAccessedAt.Equal(third) {
		t.Fatalf("last_accessed_at = %v, want %v", rec.LastAccessedAt, third)
	}

	stored, err := tracker.GetForStudent(ctx, nil, item.ID, student)
	if err != nil {
		t.Fatalf("GetForStudent: %v", err)
	}
	if stored.AccessCount != 3 {
		t.Fatalf("stored access_count = %d, want 3", stored.AccessCount)
	}
}

func TestTrackUnknownItem(t *testing.T) {
	db, clock, tracker, _ := newTrackerFixture(t)
	course := seedCourse(t, db, clock)

	_, err := tracker.Track(context.Background(), nil, course.ID, uuid.New(), uuid.New(), "Dana")
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("Track on unknown item: err=%v, want ErrNotFound", err)
	}
}

func TestUpdateAccessCompletionIsOneWay(t *testing.T) {
	db, clock, tracker, _ := newTrackerFixture(t)
	ctx := context.Background()
	course := seedCourse(t, db, clock)
	item := seedItem(t, db, clock, course.ID, nil)
	student := uuid.New()

	if _, err := tracker.Track(ctx, nil, course.ID, item.ID, student, "Dana"); err != nil {
		t.Fatalf("Track: %v", err)
	}

	done := true
	rec, err := tracker.UpdateAccess(ctx, nil, course.ID, item.ID, student, UpdateAccessInput{IsCompleted: &done})
	if err != nil {
		t.Fatalf("UpdateAccess complete: %v", err)
	}
	if !rec.IsCompleted || rec.CompletedAt == nil {
		t.Fatalf("completion not stamped: is_completed=%v completed_at=%v", rec.IsCompleted, rec.CompletedAt)
	}
	stamp := *rec.CompletedAt

	clock.Advance(time.Hour)
	notDone := false
	rec, err = tracker.UpdateAccess(ctx, nil, course.ID, item.ID, student, UpdateAccessInput{IsCompleted: &notDone})
	if err != nil {
		t.Fatalf("UpdateAccess uncomplete attempt: %v", err)
	}
	if !rec.IsCompleted {
		t.Fatalf("completion regressed on is_completed=false patch")
	}

	clock.Advance(time.Hour)
	rec, err = tracker.UpdateAccess(ctx, nil, course.ID, item.ID, student, UpdateAccessInput{IsCompleted: &done})
	if err != nil {
		t.Fatalf("UpdateAccess re-complete: %v", err)
	}
	if rec.CompletedAt == nil || !rec.CompletedAt.Equal(stamp) {
		t.Fatalf("completed_at moved on re-completion: got %v, want %v", rec.CompletedAt, stamp)
	}
}

func TestUpdateAccessAccumulatesTimeSpent(t *testing.T) {
	db, clock, tracker, _ := newTrackerFixture(t)
	ctx := context.Background()
	course := seedCourse(t, db, clock)
	item := seedItem(t, db, clock, course.ID, nil)
	student := uuid.New()

	if _, err := tracker.Track(ctx, nil, course.ID, item.ID, student, "Dana"); err != nil {
		t.Fatalf("Track: %v", err)
	}

	thirty := 30
	if _, err := tracker.UpdateAccess(ctx, nil, course.ID, item.ID, student, UpdateAccessInput{TimeSpent: &thirty}); err != nil {
		t.Fatalf("first time patch: %v", err)
	}
	fortyFive := 45
	rec, err := tracker.UpdateAccess(ctx, nil, course.ID, item.ID, student, UpdateAccessInput{TimeSpent: &fortyFive})
	if err != nil {
		t.Fatalf("second time patch: %v", err)
	}
	if rec.TotalTimeSpent != 75 {
		t.Fatalf("total_time_spent = %d, want 75", rec.TotalTimeSpent)
	}
}

func TestUpdateAccessDownloadCounter(t *testing.T) {
	db, clock, tracker, _ := newTrackerFixture(t)
	ctx := context.Background()
	course := seedCourse(t, db, clock)
	item := seedItem(t, db, clock, course.ID, nil)
	student := uuid.New()

	if _, err := tracker.Track(ctx, nil, course.ID, item.ID, student, "Dana"); err != nil {
		t.Fatalf("Track: %v", err)
	}

	rec, err := tracker.UpdateAccess(ctx, nil, course.ID, item.ID, student, UpdateAccessInput{Downloaded: true})
	if err != nil {
		t.Fatalf("download patch: %v", err)
	}
	if rec.DownloadCount != 1 || rec.LastDownloadAt == nil {
		t.Fatalf("download not counted: count=%d last=%v", rec.DownloadCount, rec.LastDownloadAt)
	}
}

func TestUpdateAccessValidation(t *testing.T) {
	db, clock, tracker, _ := newTrackerFixture(t)
	ctx := context.Background()
	course := seedCourse(t, db, clock)
	item := seedItem(t, db, clock, course.ID, nil)
	student := uuid.New()

	if _, err := tracker.Track(ctx, nil, course.ID, item.ID, student, "Dana"); err != nil {
		t.Fatalf("Track: %v", err)
	}

	over := 101
	if _, err := tracker.UpdateAccess(ctx, nil, course.ID, item.ID, student, UpdateAccessInput{CompletionPercentage: &over}); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("percentage 101: err=%v, want ErrInvalidArgument", err)
	}
	negative := -5
	if _, err := tracker.UpdateAccess(ctx, nil, course.ID, item.ID, student, UpdateAccessInput{TimeSpent: &negative}); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("negative time: err=%v, want ErrInvalidArgument", err)
	}
}

func TestUpdateAccessWithoutRecord(t *testing.T) {
	db, clock, tracker, _ := newTrackerFixture(t)
	course := seedCourse(t, db, clock)
	item := seedItem(t, db, clock, course.ID, nil)

	done := true
	_, err := tracker.UpdateAccess(context.Background(), nil, course.ID, item.ID, uuid.New(), UpdateAccessInput{IsCompleted: &done})
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("UpdateAccess without record: err=%v, want ErrNotFound", err)
	}
}

func TestGetForStudentMissing(t *testing.T) {
	db, clock, tracker, _ := newTrackerFixture(t)
	course := seedCourse(t, db, clock)
	item := seedItem(t, db, clock, course.ID, nil)

	_, err := tracker.GetForStudent(context.Background(), nil, item.ID, uuid.New())
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("GetForStudent missing: err=%v, want ErrNotFound", err)
	}
}

func TestGetAllForItem(t *testing.T) {
	db, clock, tracker, _ := newTrackerFixture(t)
	ctx := context.Background()
	course := seedCourse(t, db, clock)
	item := seedItem(t, db, clock, course.ID, nil)

	for _, name := range []string{"Dana", "Eli", "Frida"} {
		if _, err := tracker.Track(ctx, nil, course.ID, item.ID, uuid.New(), name); err != nil {
			t.Fatalf("Track for %s: %v", name, err)
		}
	}

	records, err := tracker.GetAllForItem(ctx, nil, item.ID)
	if err != nil {
		t.Fatalf("GetAllForItem: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d access records, want 3", len(records))
	}
}
