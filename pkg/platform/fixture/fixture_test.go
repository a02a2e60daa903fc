package fixture

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-drift/calendar-events/pkg/platform"
)

const sample = `
channels:
  CalendarEvents:
    getCalendarPermissions:
      result: denied
    findById:
      result: null
    findCalendars:
      result:
        - id: "1"
          title: Work
    uriForCalendar:
      raw: '"content://com.android.calendar/events"'
    removeEvent:
      error:
        code: E_PERMISSION
        message: calendar access denied
`

func TestParseAndInvoke(t *testing.T) {
	b, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	tests := []struct {
		method string
		want   string
	}{
		{"getCalendarPermissions", `"denied"`},
		{"findById", `null`},
		{"findCalendars", `[{"id":"1","title":"Work"}]`},
		{"uriForCalendar", `"content://com.android.calendar/events"`},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			got, err := b.InvokeMethod("CalendarEvents", tt.method, []byte("null"))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("reply = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestInvokeError(t *testing.T) {
	b, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	_, err = b.InvokeMethod("CalendarEvents", "removeEvent", []byte(`["evt-99"]`))
	var chErr *platform.ChannelError
	if !errors.As(err, &chErr) {
		t.Fatalf("expected ChannelError, got %v", err)
	}
	if chErr.Code != "E_PERMISSION" || chErr.Message != "calendar access denied" {
		t.Errorf("unexpected error %+v", chErr)
	}
}

func TestInvokeUnknownMethod(t *testing.T) {
	b := New(File{})

	_, err := b.InvokeMethod("CalendarEvents", "saveEvent", nil)
	if !errors.Is(err, platform.ErrMethodNotFound) {
		t.Errorf("expected ErrMethodNotFound, got %v", err)
	}
}

func TestCallsRecorded(t *testing.T) {
	b := New(File{})
	b.Set("CalendarEvents", "saveEvent", Reply{Result: "evt-99"})

	args := []byte(`["Lunch",{"startDate":"2024-01-01T12:00:00Z"}]`)
	if _, err := b.InvokeMethod("CalendarEvents", "saveEvent", args); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	args[0] = 'X'

	calls := b.Calls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(calls))
	}
	if calls[0].Method != "saveEvent" || calls[0].Channel != "CalendarEvents" {
		t.Errorf("unexpected call %+v", calls[0])
	}
	if string(calls[0].Args) != `["Lunch",{"startDate":"2024-01-01T12:00:00Z"}]` {
		t.Errorf("recorded args = %s", calls[0].Args)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "calendar.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}

	b, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := b.InvokeMethod("CalendarEvents", "getCalendarPermissions", nil); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParseInvalid(t *testing.T) {
	if _, err := Parse([]byte("channels: [")); err == nil {
		t.Error("expected parse error")
	}
}
