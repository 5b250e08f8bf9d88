package services

import (
  "context"

  redisclient "github.com/coursebridge/coursebridge-backend/internal/clients/redis"
  "github.com/coursebridge/coursebridge-backend/internal/types"
)

// ProgressNotifier fans a freshly recomputed summary out to interested
// listeners. Publishing is best-effort; the aggregator logs failures
// and moves on.
type ProgressNotifier interface {
  ProgressUpdated(ctx context.Context, progress *types.ContentProgress) error
}

// BusNotifier publishes over the Redis progress bus.
type BusNotifier struct {
  Bus redisclient.ProgressBus
}

func (n *BusNotifier) ProgressUpdated(ctx context.Context, progress *types.ContentProgress) error {
  if n == nil || n.Bus == nil || progress == nil {
    return nil
  }
  return n.Bus.Publish(ctx, redisclient.ProgressEvent{
    CourseID:             progress.CourseID,
    StudentID:            progress.StudentID,
    TotalContentItems:    progress.TotalContentItems,
    CompletedItems:       progress.CompletedItems,
    InProgressItems:      progress.InProgressItems,
    CompletionPercentage: progress.CompletionPercentage,
    LastAccessedAt:       progress.LastAccessedAt,
    ComputedAt:           progress.ComputedAt,
  })
}

// NoopNotifier is used when no Redis address is configured.
type NoopNotifier struct{}

func (NoopNotifier) ProgressUpdated(context.Context, *types.ContentProgress) error { return nil }
