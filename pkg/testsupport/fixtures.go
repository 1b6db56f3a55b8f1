package testsupport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formmigrate/pkg/model"
)

// MustReadFixture reads a fixture file and returns its content as a string.
func MustReadFixture(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return string(data)
}

// MustLoadJSON decodes a JSON fixture into out.
func MustLoadJSON(t *testing.T, path string, out any) {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		t.Fatalf("unmarshal fixture %s: %v", path, err)
	}
}

// WriteGolden writes value as indented JSON when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, append(payload, '\n'), 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}

// AssertJSONGolden compares the JSON encoding of got against the golden file
// structurally, so formatting and key order in the golden do not matter.
func AssertJSONGolden(t *testing.T, path string, got any) {
	t.Helper()

	WriteGolden(t, path, got)

	raw, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("marshal value: %v", err)
	}
	var gotValue any
	if err := json.Unmarshal(raw, &gotValue); err != nil {
		t.Fatalf("decode value: %v", err)
	}
	var wantValue any
	MustLoadJSON(t, path, &wantValue)

	if diff := cmp.Diff(wantValue, gotValue); diff != "" {
		t.Fatalf("golden mismatch for %s (-want +got):\n%s", path, diff)
	}
}

// JSONRoundTrip returns the generic JSON representation of value, which is
// what downstream consumers of the block map see.
func JSONRoundTrip(t *testing.T, value any) any {
	t.Helper()

	raw, err := json.Marshal(value)
	if err != nil {
		t.Fatalf("marshal value: %v", err)
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode value: %v", err)
	}
	return out
}

// SequentialIDs returns a deterministic id generator yielding prefix-1,
// prefix-2, and so on.
func SequentialIDs(prefix string) func() string {
	var (
		mu   sync.Mutex
		next int
	)
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		next++
		return fmt.Sprintf("%s-%d", prefix, next)
	}
}

// StubConverter is an in-memory HTML conversion service. Each call yields one
// slate block holding the submitted HTML unless Responses maps the input to
// explicit blocks.
type StubConverter struct {
	mu        sync.Mutex
	Calls     []string
	Responses map[string][]model.Block
	Err       error
}

// Convert implements richtext.Converter.
func (s *StubConverter) Convert(_ context.Context, html string) ([]model.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Calls = append(s.Calls, html)
	if s.Err != nil {
		return nil, s.Err
	}
	if blocks, ok := s.Responses[html]; ok {
		return blocks, nil
	}
	return []model.Block{
		{"@type": "slate", "plaintext": html},
	}, nil
}

// LogRecorder captures structured log output for assertions.
type LogRecorder struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// Write implements io.Writer.
func (r *LogRecorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.Write(p)
}

// String returns everything logged so far.
func (r *LogRecorder) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.String()
}

// Contains reports whether any log line contains fragment.
func (r *LogRecorder) Contains(fragment string) bool {
	return strings.Contains(r.String(), fragment)
}

// NewLogger returns a debug-level text logger writing into a LogRecorder.
func NewLogger() (*slog.Logger, *LogRecorder) {
	rec := &LogRecorder{}
	handler := slog.NewTextHandler(rec, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(handler), rec
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
