package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coursebridge/coursebridge-backend/internal/repos"
	"github.com/coursebridge/coursebridge-backend/internal/types"
)

func newProgressFixture(t *testing.T, notifier ProgressNotifier) (*gorm.DB, *fakeClock, ProgressService) {
	t.Helper()
	db := testDB(t)
	log := testLogger(t)
	clock := newFakeClock()

	itemRepo := repos.NewContentItemRepo(db, log)
	accessRepo := repos.NewContentAccessRepo(db, log)
	progressRepo := repos.NewContentProgressRepo(db, log)

	progress := NewProgressService(db, log, clock, itemRepo, accessRepo, progressRepo, notifier)
	return db, clock, progress
}

func seedAccess(t *testing.T, db *gorm.DB, clock Clock, courseID, contentID, studentID uuid.UUID, mutate func(*types.ContentAccess)) *types.ContentAccess {
	t.Helper()
	rec := &types.ContentAccess{
		ID:              uuid.New(),
		CourseID:        courseID,
		ContentID:       contentID,
		StudentID:       studentID,
		FirstAccessedAt: clock.Now(),
		LastAccessedAt:  clock.Now(),
		AccessCount:     1,
	}
	if mutate != nil {
		mutate(rec)
	}
	if err := db.Create(rec).Error; err != nil {
		t.Fatalf("seed access: %v", err)
	}
	return rec
}

func TestRecomputeCountsOnlyVisibleItems(t *testing.T) {
	db, clock, progress := newProgressFixture(t, NoopNotifier{})
	ctx := context.Background()
	course := seedCourse(t, db, clock)
	student := uuid.New()

	done := seedItem(t, db, clock, course.ID, func(i *types.ContentItem) { i.Title = "Done"; i.Order = 0 })
	started := seedItem(t, db, clock, course.ID, func(i *types.ContentItem) { i.Title = "Started"; i.Order = 1 })
	seedItem(t, db, clock, course.ID, func(i *types.ContentItem) { i.Title = "Untouched"; i.Order = 2 })
	hidden := seedItem(t, db, clock, course.ID, func(i *types.ContentItem) {
		i.Title = "Hidden"
		i.VisibleToStudents = false
	})

	now := clock.Now()
	seedAccess(t, db, clock, course.ID, done.ID, student, func(a *types.ContentAccess) {
		a.IsCompleted = true
		a.CompletedAt = &now
		a.CompletionPercentage = 100
	})
	clock.Advance(time.Minute)
	latest := clock.Now()
	seedAccess(t, db, clock, course.ID, started.ID, student, func(a *types.ContentAccess) {
		a.CompletionPercentage = 40
	})
	// Hidden items never count, even with an access record.
	seedAccess(t, db, clock, course.ID, hidden.ID, student, func(a *types.ContentAccess) {
		a.IsCompleted = true
		a.CompletedAt = &now
	})

	summary, err := progress.Recompute(ctx, nil, course.ID, student)
	if err != nil {
		t.Fatalf("Recompute: %v", err)
	}
	if summary.TotalContentItems != 3 {
		t.Fatalf("total_content_items = %d, want 3", summary.TotalContentItems)
	}
	if summary.CompletedItems != 1 || summary.InProgressItems != 1 {
		t.Fatalf("completed=%d in_progress=%d, want 1/1", summary.CompletedItems, summary.InProgressItems)
	}
	if summary.CompletionPercentage != 33 {
		t.Fatalf("completion_percentage = %d, want 33", summary.CompletionPercentage)
	}
	if summary.LastAccessedContentID == nil || *summary.LastAccessedContentID != started.ID {
		t.Fatalf("last_accessed_content_id = %v, want %s", summary.LastAccessedContentID, started.ID)
	}
	if summary.LastAccessedAt == nil || !summary.LastAccessedAt.Equal(latest) {
		t.Fatalf("last_accessed_at = %v, want %v", summary.LastAccessedAt, latest)
	}
}

func TestRecomputeEmptyCourse(t *testing.T) {
	db, clock, progress := newProgressFixture(t, NoopNotifier{})
	course := seedCourse(t, db, clock)

	summary, err := progress.Recompute(context.Background(), nil, course.ID, uuid.New())
	if err != nil {
		t.Fatalf("Recompute: %v", err)
	}
	if summary.TotalContentItems != 0 || summary.CompletionPercentage != 0 {
		t.Fatalf("empty course summary = %+v, want all zeros", summary)
	}
	if summary.LastAccessedAt != nil {
		t.Fatalf("last_accessed_at = %v, want nil", summary.LastAccessedAt)
	}
}

func TestRecomputeReplacesPreviousRow(t *testing.T) {
	db, clock, progress := newProgressFixture(t, NoopNotifier{})
	ctx := context.Background()
	course := seedCourse(t, db, clock)
	student := uuid.New()
	item := seedItem(t, db, clock, course.ID, nil)

	if _, err := progress.Recompute(ctx, nil, course.ID, student); err != nil {
		t.Fatalf("first Recompute: %v", err)
	}
	now := clock.Now()
	seedAccess(t, db, clock, course.ID, item.ID, student, func(a *types.ContentAccess) {
		a.IsCompleted = true
		a.CompletedAt = &now
	})
	if _, err := progress.Recompute(ctx, nil, course.ID, student); err != nil {
		t.Fatalf("second Recompute: %v", err)
	}

	var count int64
	if err := db.Model(&types.ContentProgress{}).
		Where("course_id = ? AND student_id = ?", course.ID, student).
		Count(&count).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if count != 1 {
		t.Fatalf("progress rows = %d, want exactly 1", count)
	}

	stored, err := progress.Get(ctx, nil, course.ID, student)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.CompletedItems != 1 || stored.CompletionPercentage != 100 {
		t.Fatalf("stored summary = %+v, want completed=1 pct=100", stored)
	}
}

func TestGetMaterializesLazily(t *testing.T) {
	db, clock, progress := newProgressFixture(t, NoopNotifier{})
	ctx := context.Background()
	course := seedCourse(t, db, clock)
	student := uuid.New()
	seedItem(t, db, clock, course.ID, nil)

	summary, err := progress.Get(ctx, nil, course.ID, student)
	if err != nil {
		t.Fatalf("first Get: %v", err)
	}
	if summary.TotalContentItems != 1 {
		t.Fatalf("total_content_items = %d, want 1", summary.TotalContentItems)
	}

	var count int64
	if err := db.Model(&types.ContentProgress{}).Count(&count).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if count != 1 {
		t.Fatalf("Get did not materialize a row: count=%d", count)
	}

	// Second read serves the cached row; no recompute, so the stamp
	// stays put even after the clock moves.
	clock.Advance(time.Hour)
	cached, err := progress.Get(ctx, nil, course.ID, student)
	if err != nil {
		t.Fatalf("second Get: %v", err)
	}
	if !cached.ComputedAt.Equal(summary.ComputedAt) {
		t.Fatalf("cached read recomputed: %v vs %v", cached.ComputedAt, summary.ComputedAt)
	}
}

func TestRecomputePublishesEvent(t *testing.T) {
	notifier := &recordingNotifier{}
	db, clock, progress := newProgressFixture(t, notifier)
	course := seedCourse(t, db, clock)
	seedItem(t, db, clock, course.ID, nil)

	if _, err := progress.Recompute(context.Background(), nil, course.ID, uuid.New()); err != nil {
		t.Fatalf("Recompute: %v", err)
	}
	if len(notifier.events) != 1 {
		t.Fatalf("published %d events, want 1", len(notifier.events))
	}
	if notifier.events[0].CourseID != course.ID {
		t.Fatalf("event course_id = %s, want %s", notifier.events[0].CourseID, course.ID)
	}
}
