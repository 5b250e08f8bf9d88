package services

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/coursebridge/coursebridge-backend/internal/logger"
	"github.com/coursebridge/coursebridge-backend/internal/types"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&types.User{},
		&types.Course{},
		&types.CourseEnrollment{},
		&types.ContentItem{},
		&types.ContentAccess{},
		&types.ContentProgress{},
	); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// fakeClock hands out a fixed instant and can be stepped forward to
// make timestamp assertions deterministic.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// fakeBucket records saves and deletes in memory; failSave/failDelete
// simulate an unreachable object store.
type fakeBucket struct {
	saved      map[string]string
	deleted    []string
	failSave   bool
	failDelete bool
}

func newFakeBucket() *fakeBucket {
	return &fakeBucket{saved: map[string]string{}}
}

func (b *fakeBucket) SaveObject(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	if b.failSave {
		return "", fmt.Errorf("object store unavailable")
	}
	b.saved[key] = contentType
	return "https://cdn.test/" + key, nil
}

func (b *fakeBucket) DeleteObject(ctx context.Context, key string) error {
	if b.failDelete {
		return fmt.Errorf("object store unavailable")
	}
	b.deleted = append(b.deleted, key)
	return nil
}

func (b *fakeBucket) PublicURL(key string) string { return "https://cdn.test/" + key }

// recordingNotifier captures every published summary.
type recordingNotifier struct {
	events []*types.ContentProgress
}

func (n *recordingNotifier) ProgressUpdated(_ context.Context, progress *types.ContentProgress) error {
	n.events = append(n.events, progress)
	return nil
}

func seedCourse(t *testing.T, db *gorm.DB, clock Clock) *types.Course {
	t.Helper()
	owner := &types.User{ID: uuid.New(), Email: fmt.Sprintf("owner-%s@test.local", uuid.New()), DisplayName: "Owner", CreatedAt: clock.Now(), UpdatedAt: clock.Now()}
	if err := db.Create(owner).Error; err != nil {
		t.Fatalf("seed owner: %v", err)
	}
	course := &types.Course{ID: uuid.New(), OwnerID: owner.ID, Title: "Intro to Networks", CreatedAt: clock.Now(), UpdatedAt: clock.Now()}
	if err := db.Create(course).Error; err != nil {
		t.Fatalf("seed course: %v", err)
	}
	return course
}

func seedItem(t *testing.T, db *gorm.DB, clock Clock, courseID uuid.UUID, mutate func(*types.ContentItem)) *types.ContentItem {
	t.Helper()
	item := &types.ContentItem{
		ID:                uuid.New(),
		CourseID:          courseID,
		Type:              types.ContentTypeText,
		Title:             "Reading",
		TextContent:       "body",
		Status:            types.ContentStatusPublished,
		VisibleToStudents: true,
		CreatedBy:         uuid.New(),
		CreatedAt:         clock.Now(),
		UpdatedAt:         clock.Now(),
	}
	if mutate != nil {
		mutate(item)
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("seed item: %v", err)
	}
	return item
}
