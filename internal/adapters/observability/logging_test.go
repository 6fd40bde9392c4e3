package observability

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLoggerTagsService(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, "production", "seed")
	l.Info().Msg("migrated")
	l.Debug().Msg("hidden")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("want one line at info level, got %q", buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatal(err)
	}
	for k, want := range map[string]string{"app": "everjourney", "service": "seed", "env": "production", "message": "migrated"} {
		if entry[k] != want {
			t.Errorf("%s = %v, want %q", k, entry[k], want)
		}
	}
	if _, ok := entry["time"]; !ok {
		t.Error("missing timestamp")
	}
}

func TestLoggerDevConsole(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, "dev", "web")
	l.Debug().Msg("listening")

	out := buf.String()
	if !strings.Contains(out, "listening") || !strings.Contains(out, "service=web") {
		t.Fatalf("console output = %q", out)
	}
	if strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Fatal("dev logger should not emit JSON")
	}
}
