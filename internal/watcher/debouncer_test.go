package watcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receiveBatch(t *testing.T, ch <-chan []FileEvent, timeout time.Duration) []FileEvent {
	t.Helper()
	select {
	case batch, ok := <-ch:
		require.True(t, ok, "channel closed")
		return batch
	case <-time.After(timeout):
		t.Fatal("timed out waiting for batch")
		return nil
	}
}

func TestCoalesce(t *testing.T) {
	tests := []struct {
		name  string
		first Operation
		next  Operation
		want  Operation
		keep  bool
	}{
		{"create then modify", OpCreate, OpModify, OpCreate, true},
		{"create then delete", OpCreate, OpDelete, 0, false},
		{"delete then create", OpDelete, OpCreate, OpModify, true},
		{"modify then delete", OpModify, OpDelete, OpDelete, true},
		{"modify then modify", OpModify, OpModify, OpModify, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, keep := coalesce(tt.first, tt.next)
			assert.Equal(t, tt.keep, keep)
			if keep {
				assert.Equal(t, tt.want, op)
			}
		})
	}
}

func TestDebouncer_CoalescesBurst(t *testing.T) {
	// Given: a debouncer with a short window
	d := NewDebouncer(20 * time.Millisecond)
	defer d.Stop()

	// When: several writes to one file arrive together
	for i := 0; i < 5; i++ {
		d.Add(FileEvent{Path: "/data/a.fa", Operation: OpModify})
	}
	d.Add(FileEvent{Path: "/data/b.fa", Operation: OpCreate})

	// Then: one batch holds one event per path, sorted by path
	batch := receiveBatch(t, d.Output(), time.Second)
	require.Len(t, batch, 2)
	assert.Equal(t, "/data/a.fa", batch[0].Path)
	assert.Equal(t, OpModify, batch[0].Operation)
	assert.Equal(t, OpCreate, batch[1].Operation)
}

func TestDebouncer_CancelledEventsProduceNothing(t *testing.T) {
	// Given: a file created and deleted inside one window
	d := NewDebouncer(20 * time.Millisecond)
	defer d.Stop()
	d.Add(FileEvent{Path: "/tmp/x", Operation: OpCreate})
	d.Add(FileEvent{Path: "/tmp/x", Operation: OpDelete})

	// Then: no batch is emitted
	select {
	case batch := <-d.Output():
		t.Fatalf("unexpected batch %v", batch)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestDebouncer_StopClosesOutput(t *testing.T) {
	d := NewDebouncer(time.Hour)
	d.Add(FileEvent{Path: "/tmp/x", Operation: OpModify})

	d.Stop()
	d.Stop()

	_, ok := <-d.Output()
	assert.False(t, ok)

	// Adds after stop are ignored
	d.Add(FileEvent{Path: "/tmp/y", Operation: OpModify})
}
