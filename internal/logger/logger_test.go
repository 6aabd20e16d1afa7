package logger

import (
	"bytes"
	"log"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureStdLog redirects the standard logger into a buffer for one test.
func captureStdLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	flags := log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetFlags(flags)
	})
	return &buf
}

func TestEnvLogger_Levels(t *testing.T) {
	tests := []struct {
		name  string
		debug string
		emit  func(Logger)
		want  string
	}{
		{
			name:  "debug hidden without NETMON_DEBUG",
			debug: "",
			emit:  func(l Logger) { l.Debug("GET /api/hosts -> %d", 200) },
			want:  "",
		},
		{
			name:  "debug shown with NETMON_DEBUG",
			debug: "1",
			emit:  func(l Logger) { l.Debug("GET /api/hosts -> %d", 200) },
			want:  "[api] GET /api/hosts -> 200\n",
		},
		{
			name:  "info always shown",
			debug: "",
			emit:  func(l Logger) { l.Info("tracking %d host(s)", 3) },
			want:  "[api] tracking 3 host(s)\n",
		},
		{
			name:  "warn is tagged",
			debug: "",
			emit:  func(l Logger) { l.Warn("history for %s unavailable", "10.0.0.5") },
			want:  "[api] WARN: history for 10.0.0.5 unavailable\n",
		},
		{
			name:  "error is tagged",
			debug: "",
			emit:  func(l Logger) { l.Error("rescan failed: %s", "timeout") },
			want:  "[api] ERROR: rescan failed: timeout\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureStdLog(t)
			t.Setenv(DebugEnv, tt.debug)

			tt.emit(NewEnvLogger("[api]"))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestNoopLogger(t *testing.T) {
	buf := captureStdLog(t)

	l := Noop()
	l.Debug("tick")
	l.Info("tick")
	l.Warn("tick")
	l.Error("tick")

	assert.Empty(t, buf.String())
}

func TestBufferLogger_RecordsLevelsInOrder(t *testing.T) {
	l := NewBufferLogger()
	l.Debug("poll %d", 1)
	l.Warn("snapshot for %s failed", "10.0.0.9")

	assert.Equal(t, []LogMessage{
		{Level: "debug", Message: "poll 1"},
		{Level: "warn", Message: "snapshot for 10.0.0.9 failed"},
	}, l.Entries())
	assert.True(t, l.HasLevel("warn"))
	assert.False(t, l.HasLevel("error"))

	l.Clear()
	assert.Empty(t, l.Entries())
	assert.False(t, l.HasLevel("warn"))
}

func TestBufferLogger_EntriesIsACopy(t *testing.T) {
	l := NewBufferLogger()
	l.Info("first")

	entries := l.Entries()
	entries[0].Message = "changed"

	assert.Equal(t, "first", l.Entries()[0].Message)
}

func TestBufferLogger_ConcurrentWrites(t *testing.T) {
	l := NewBufferLogger()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			l.Debug("poller %d", n)
		}(i)
	}
	wg.Wait()
	assert.Len(t, l.Entries(), 8)
}

func TestSetDefault(t *testing.T) {
	original := Default()
	t.Cleanup(func() { SetDefault(original) })

	require.NotNil(t, original)

	buf := NewBufferLogger()
	SetDefault(buf)
	Default().Info("from the default logger")

	assert.Same(t, buf, Default())
	assert.Equal(t, []LogMessage{{Level: "info", Message: "from the default logger"}}, buf.Entries())
}

func TestLoggerImplementations(t *testing.T) {
	var _ Logger = NewEnvLogger("")
	var _ Logger = Noop()
	var _ Logger = NewBufferLogger()
	var _ Logger = NewZerolog(&bytes.Buffer{}, "debug", "")
	var _ Logger = NewConsole(&bytes.Buffer{}, "debug", "")
}
