package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-drift/calendar-events/pkg/errors"
	"github.com/go-drift/calendar-events/pkg/platform"
)

const testFixtures = `
channels:
  CalendarEvents:
    getCalendarPermissions:
      result: denied
    requestCalendarPermissions:
      result: authorized
    findCalendars:
      raw: '[{"id":"1","title":"Work","allowsModifications":true}]'
    uriForCalendar:
      result: content://com.android.calendar/events
    openEventInCalendar:
      result: null
    findById:
      result: null
    findAllEvents:
      raw: '[{"id":"evt-1","title":"Standup","startDate":"2024-01-02T09:00:00.000Z"}]'
    saveEvent:
      result: evt-99
    removeEvent:
      error:
        code: E_PERMISSION
        message: calendar access denied
  RNCalendarEvents:
    getCalendarPermissions:
      result: authorized
`

// runCLI executes the CLI in a temporary project and returns its output.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, _, err := runCLIWithStderr(t, args...)
	return out, err
}

// runCLIWithStderr is runCLI that also returns what was written to stderr.
func runCLIWithStderr(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "calendar.fixtures.yaml"), []byte(testFixtures), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/planner\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	wd, wdErr := os.Getwd()
	if wdErr != nil {
		t.Fatal(wdErr)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	var out, errOut bytes.Buffer
	oldStdout, oldStderr := stdout, stderr
	stdout, stderr = &out, &errOut
	oldHandler := errors.DefaultHandler
	t.Cleanup(func() {
		stdout, stderr = oldStdout, oldStderr
		errors.SetHandler(oldHandler)
		platform.ResetForTest()
	})

	err := Execute(args)
	return out.String(), errOut.String(), err
}

func TestCommands(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"status", []string{"status"}, "\"denied\"\n"},
		{"missing event", []string{"event", "evt-42"}, "null\n"},
		{"save", []string{"save", "Lunch", `{"startDate":"2024-01-01T12:00:00Z"}`}, "\"evt-99\"\n"},
		{"events", []string{"events", "2024-01-01", "2024-02-01"}, `[{"id":"evt-1","title":"Standup","startDate":"2024-01-02T09:00:00.000Z"}]` + "\n"},
		{"channel flag", []string{"--channel", "RNCalendarEvents", "status"}, "\"authorized\"\n"},
		{"channel flag with equals", []string{"--channel=RNCalendarEvents", "status"}, "\"authorized\"\n"},
		{"channel flag after command", []string{"status", "--channel", "RNCalendarEvents"}, "\"authorized\"\n"},
		{"authorize", []string{"authorize"}, "\"authorized\"\n"},
		{"calendars", []string{"calendars"}, `[{"id":"1","title":"Work","allowsModifications":true}]` + "\n"},
		{"uri", []string{"uri"}, "\"content://com.android.calendar/events\"\n"},
		{"open", []string{"open", "evt-1"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := runCLI(t, tt.args...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEventsICS(t *testing.T) {
	got, err := runCLI(t, "events", "2024-01-01", "2024-02-01", "--ics")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"BEGIN:VCALENDAR", "PRODID:-//example.com/planner//calbridge//EN", "UID:evt-1", "SUMMARY:Standup"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestOpenReportsNativeFailure(t *testing.T) {
	out, errOut, err := runCLIWithStderr(t, "open", "evt-1", "--channel", "RNCalendarEvents")
	if err != nil {
		t.Fatalf("open should not fail the command, got %v", err)
	}
	if out != "" {
		t.Errorf("stdout = %q, want empty", out)
	}
	if !strings.Contains(errOut, "[calendar error] calendar.OpenEventInCalendar:") {
		t.Errorf("stderr = %q, want a logged open failure", errOut)
	}
}

func TestOpenVerboseIncludesStackTrace(t *testing.T) {
	_, errOut, err := runCLIWithStderr(t, "--verbose", "open", "evt-1", "--channel=RNCalendarEvents")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"method=openEventInCalendar", "Stack trace:"} {
		if !strings.Contains(errOut, want) {
			t.Errorf("stderr = %q, want it to contain %q", errOut, want)
		}
	}
}

func TestNativeErrorReturned(t *testing.T) {
	_, err := runCLI(t, "remove", "evt-99")
	if err == nil || err.Error() != "E_PERMISSION: calendar access denied" {
		t.Errorf("err = %v, want the native error", err)
	}
}

func TestUsageErrors(t *testing.T) {
	tests := [][]string{
		{"status", "extra"},
		{"event"},
		{"events", "2024-01-01"},
		{"save"},
		{"save", "Lunch", "{not json"},
		{"open"},
		{"nope"},
		{"--bogus", "status"},
		{"--fixtures"},
		{"status", "--channel"},
	}
	for _, args := range tests {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			if _, err := runCLI(t, args...); err == nil {
				t.Errorf("expected error for %v", args)
			}
		})
	}
}

func TestMissingFixtures(t *testing.T) {
	if _, err := runCLI(t, "--fixtures", "missing.yaml", "status"); err == nil {
		t.Error("expected error for missing fixture file")
	}
}

func TestHelpAndVersion(t *testing.T) {
	got, err := runCLI(t, "--help")
	if err != nil || !strings.Contains(got, "Commands:") {
		t.Errorf("help output = %q, err = %v", got, err)
	}

	got, err = runCLI(t, "version")
	if err != nil || !strings.HasPrefix(got, "calbridge version "+Version) {
		t.Errorf("version output = %q, err = %v", got, err)
	}

	got, err = runCLI(t, "event", "--help")
	if err != nil || !strings.Contains(got, "calbridge event <id>") {
		t.Errorf("command help output = %q, err = %v", got, err)
	}
}
