// Package calendar exposes device calendar access (permissions, event CRUD,
// calendar listing) to Go application code.
//
// A Bridge forwards every call to a Provider, the native calendar
// implementation supplied by the host. Arguments, results and errors cross
// the Bridge unchanged: payloads such as event records, calendar records and
// permission states are opaque values owned by the Provider.
package calendar

import (
	"context"

	"github.com/go-drift/calendar-events/pkg/errors"
)

// Provider is the native calendar implementation a Bridge forwards to.
//
// Every method except OpenEventInCalendar blocks until the native side
// responds. Values are opaque: the Provider defines their shape.
type Provider interface {
	AuthorizationStatus(ctx context.Context) (any, error)
	FetchAllEvents(ctx context.Context, startDate, endDate any) (any, error)
	FindCalendars(ctx context.Context) (any, error)
	FindEventByID(ctx context.Context, id any) (any, error)
	AuthorizeEventStore(ctx context.Context) (any, error)
	SaveEvent(ctx context.Context, title string, details any) (any, error)
	RemoveEvent(ctx context.Context, id any) (any, error)
	URIForCalendar(ctx context.Context) (any, error)

	// OpenEventInCalendar shows the event in the system calendar app.
	// It has no result and no error.
	OpenEventInCalendar(eventID any)
}

// result hands a provider reply to the caller. A failed call yields only its
// error, never a partial value.
func result(v any, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Bridge is the application-facing entry point for calendar operations.
// It holds no state besides its Provider and is safe for concurrent use;
// concurrent calls do not wait on each other.
//
// Context usage: ctx is handed to the Provider as is. The Bridge never
// cancels, times out or retries a call.
type Bridge struct {
	provider Provider
}

// New returns a Bridge forwarding to p.
func New(p Provider) *Bridge {
	return &Bridge{provider: p}
}

// AuthorizationStatus returns the current calendar permission state.
func (b *Bridge) AuthorizationStatus(ctx context.Context) (any, error) {
	return result(b.provider.AuthorizationStatus(ctx))
}

// FetchAllEvents returns the events between startDate and endDate.
func (b *Bridge) FetchAllEvents(ctx context.Context, startDate, endDate any) (any, error) {
	return result(b.provider.FetchAllEvents(ctx, startDate, endDate))
}

// FindCalendars returns the calendars available on the device.
func (b *Bridge) FindCalendars(ctx context.Context) (any, error) {
	return result(b.provider.FindCalendars(ctx))
}

// FindEventByID returns the event with the given id. A missing event is
// whatever the Provider reports, typically a nil result with a nil error.
func (b *Bridge) FindEventByID(ctx context.Context, id any) (any, error) {
	return result(b.provider.FindEventByID(ctx, id))
}

// AuthorizeEventStore prompts the user for calendar access and returns the
// resulting permission state.
func (b *Bridge) AuthorizeEventStore(ctx context.Context) (any, error) {
	return result(b.provider.AuthorizeEventStore(ctx))
}

// SaveEvent creates or updates an event and returns its identifier.
func (b *Bridge) SaveEvent(ctx context.Context, title string, details any) (any, error) {
	return result(b.provider.SaveEvent(ctx, title, details))
}

// RemoveEvent deletes the event with the given id.
func (b *Bridge) RemoveEvent(ctx context.Context, id any) (any, error) {
	return result(b.provider.RemoveEvent(ctx, id))
}

// URIForCalendar returns the native calendar URI.
func (b *Bridge) URIForCalendar(ctx context.Context) (any, error) {
	return result(b.provider.URIForCalendar(ctx))
}

// OpenEventInCalendar asks the system calendar app to show eventID and
// returns immediately. The Provider runs on its own goroutine.
func (b *Bridge) OpenEventInCalendar(eventID any) {
	go func() {
		defer errors.Recover("calendar.OpenEventInCalendar")
		b.provider.OpenEventInCalendar(eventID)
	}()
}
