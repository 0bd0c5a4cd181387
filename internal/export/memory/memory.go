// Package memory is an in-process RowAppender used by tests and local
// runs without Google credentials.
package memory

import (
	"context"
	"fmt"
	"sync"

	"masareef/internal/export"
)

type Journal struct {
	mu   sync.Mutex
	rows []export.Row
}

var _ export.RowAppender = (*Journal)(nil)

func New() *Journal {
	return &Journal{}
}

// AppendRow stores the row and returns a synthetic reference.
func (j *Journal) AppendRow(_ context.Context, r export.Row) (string, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.rows = append(j.rows, r)
	return fmt.Sprintf("mem:%d", len(j.rows)), nil
}

// Rows returns a copy of everything appended so far.
func (j *Journal) Rows() []export.Row {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]export.Row(nil), j.rows...)
}
