// Package testutil holds small helpers shared by the sweep and app tests:
// a thread-safe log buffer, plan-file scratch dirs, and recording handlers.
package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// WritePlanDir writes the given plan files into a fresh temp directory and
// returns its path.
func WritePlanDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	}
	return dir
}

// Recorder collects the order in which handlers completed.
type Recorder struct {
	mu        sync.Mutex
	completed []string
}

// Handler returns a sweep handler that sleeps for delay and then records
// the service name.
func (r *Recorder) Handler(delay time.Duration) func(ctx context.Context, service string) error {
	return func(ctx context.Context, service string) error {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		r.mu.Lock()
		defer r.mu.Unlock()
		r.completed = append(r.completed, service)
		return nil
	}
}

// Completed returns a copy of the completion order so far.
func (r *Recorder) Completed() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.completed))
	copy(out, r.completed)
	return out
}
