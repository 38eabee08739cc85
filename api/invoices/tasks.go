package invoices

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"
)

// Task states mirror what the import-status endpoint reports.
const (
	TaskPending = "PENDING"
	TaskSuccess = "SUCCESS"
	TaskFailure = "FAILURE"
)

// TaskResult is a snapshot of one background import.
type TaskResult struct {
	Status string        `json:"status"`
	Result *ImportResult `json:"result,omitempty"`
	Error  string        `json:"error,omitempty"`
}

// TaskRunner runs invoice imports in the background and keeps their
// results around for polling. Results live for the process lifetime.
type TaskRunner struct {
	tasks sync.Map
}

func NewTaskRunner() *TaskRunner { return &TaskRunner{} }

// Submit starts the import in a goroutine and returns the task id to poll.
// The request context ends with the upload, so the task runs detached.
func (tr *TaskRunner) Submit(imp *Importer, data []byte, filename string) string {
	id := uuid.NewString()
	tr.tasks.Store(id, &TaskResult{Status: TaskPending})
	go func() {
		res, err := imp.Import(context.Background(), data, filename)
		if err != nil {
			log.Printf("[ERROR] invoice import task %s: %v", id, err)
			tr.tasks.Store(id, &TaskResult{Status: TaskFailure, Error: err.Error()})
			return
		}
		tr.tasks.Store(id, &TaskResult{Status: TaskSuccess, Result: res})
	}()
	return id
}

// Status returns the task snapshot, or false for an unknown id.
func (tr *TaskRunner) Status(id string) (*TaskResult, bool) {
	v, ok := tr.tasks.Load(id)
	if !ok {
		return nil, false
	}
	return v.(*TaskResult), true
}
