package http

import (
	"context"
	"sync"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/shelfgraph/internal/importers"
	"github.com/mrlokans/shelfgraph/internal/scheduler"
)

type stubSync struct {
	mu          sync.Mutex
	result      importers.SyncResult
	err         error
	status      scheduler.SyncStatus
	runs        int
	reschedules int
}

func (s *stubSync) RunNow(ctx context.Context) (importers.SyncResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs++
	if s.err != nil {
		s.status.Status = scheduler.StateError
		s.status.Message = "Sync failed: " + s.err.Error()
		return importers.SyncResult{}, s.err
	}
	s.status.Status = scheduler.StateIdle
	s.status.Message = s.result.Message()
	return s.result, nil
}

func (s *stubSync) Status() scheduler.SyncStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *stubSync) Reschedule() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reschedules++
	return nil
}

type stubQueue struct {
	enqueued []backlite.Task
	status   backlite.TaskStatus
	err      error
}

func (q *stubQueue) Enqueue(task backlite.Task) (string, error) {
	if q.err != nil {
		return "", q.err
	}
	q.enqueued = append(q.enqueued, task)
	return "task-1", nil
}

func (q *stubQueue) Status(ctx context.Context, taskID string) (backlite.TaskStatus, error) {
	return q.status, q.err
}
