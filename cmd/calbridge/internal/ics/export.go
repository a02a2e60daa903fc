// Package ics converts a findAllEvents reply into an iCalendar document.
package ics

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
)

// Options controls the generated calendar.
type Options struct {
	// ProdID is written as the PRODID property. Required.
	ProdID string
	// Name, when set, is written as X-WR-CALNAME.
	Name string
	// Now stamps DTSTAMP. Nil means time.Now.
	Now func() time.Time
}

// record holds the event fields the native calendar module is known to send.
// Anything else in the reply is ignored.
type record struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	AllDay      bool   `json:"allDay"`
	Location    string `json:"location"`
	Notes       string `json:"notes"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// Result is the outcome of an export.
type Result struct {
	Calendar *ical.Calendar
	// Skipped counts records dropped because their start date did not parse.
	Skipped int
}

// Export builds a calendar from data, a JSON array of event records.
func Export(data []byte, opts Options) (*Result, error) {
	if opts.ProdID == "" {
		return nil, fmt.Errorf("ics: missing PRODID")
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	var records []record
	if len(data) > 0 && string(data) != "null" {
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("ics: events reply is not a list of events: %w", err)
		}
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, opts.ProdID)
	if opts.Name != "" {
		// SetText would tag this non-standard property with VALUE=TEXT.
		name := ical.NewProp("X-WR-CALNAME")
		name.Value = opts.Name
		cal.Props.Set(name)
	}

	res := &Result{Calendar: cal}
	stamp := now().UTC()
	for _, rec := range records {
		event, ok := buildEvent(rec, stamp)
		if !ok {
			res.Skipped++
			continue
		}
		cal.Children = append(cal.Children, event.Component)
	}
	return res, nil
}

// Encode writes cal in iCalendar format.
func Encode(w io.Writer, cal *ical.Calendar) error {
	return ical.NewEncoder(w).Encode(cal)
}

func buildEvent(rec record, stamp time.Time) (*ical.Event, bool) {
	start, ok := parseDate(rec.StartDate)
	if !ok {
		return nil, false
	}

	uid := strings.TrimSpace(rec.ID)
	if uid == "" {
		uid = uuid.New().String()
	}

	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, uid)
	event.Props.SetDateTime(ical.PropDateTimeStamp, stamp)
	setTime(event, ical.PropDateTimeStart, start, rec.AllDay)
	if end, ok := parseDate(rec.EndDate); ok {
		setTime(event, ical.PropDateTimeEnd, end, rec.AllDay)
	}
	if rec.Title != "" {
		event.Props.SetText(ical.PropSummary, rec.Title)
	}
	if rec.Location != "" {
		event.Props.SetText(ical.PropLocation, rec.Location)
	}
	// Android sends description, iOS sends notes.
	if desc := firstNonEmpty(rec.Description, rec.Notes); desc != "" {
		event.Props.SetText(ical.PropDescription, desc)
	}
	if rec.URL != "" {
		if u, err := url.Parse(rec.URL); err == nil && u.Scheme != "" {
			event.Props.SetURI(ical.PropURL, u)
		}
	}
	return event, true
}

func setTime(event *ical.Event, name string, t time.Time, allDay bool) {
	if allDay {
		event.Props.SetDate(name, t)
		return
	}
	event.Props.SetDateTime(name, t.UTC())
}

// parseDate accepts RFC 3339 timestamps, with or without fractional seconds,
// and plain dates.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
