package calendar

import (
	"context"
	stderrors "errors"

	"github.com/go-drift/calendar-events/pkg/errors"
	"github.com/go-drift/calendar-events/pkg/platform"
)

// DefaultChannelName is the name the native calendar module registers under.
const DefaultChannelName = "CalendarEvents"

// Native method names on the calendar channel.
const (
	methodGetPermissions     = "getCalendarPermissions"
	methodFindAllEvents      = "findAllEvents"
	methodFindCalendars      = "findCalendars"
	methodFindByID           = "findById"
	methodRequestPermissions = "requestCalendarPermissions"
	methodSaveEvent          = "saveEvent"
	methodRemoveEvent        = "removeEvent"
	methodURIForCalendar     = "uriForCalendar"
	methodOpenEvent          = "openEventInCalendar"
)

// NativeProvider is a Provider backed by the native calendar module on a
// platform method channel. Arguments are sent as a positional JSON array.
// Replies come back as json.RawMessage holding the native bytes unchanged,
// or nil when the native side replied null.
type NativeProvider struct {
	channel *platform.MethodChannel
}

// NewNativeProvider resolves the method channel registered under name
// (DefaultChannelName if empty) and returns a provider using it.
func NewNativeProvider(name string) *NativeProvider {
	if name == "" {
		name = DefaultChannelName
	}
	return &NativeProvider{
		channel: platform.Channel(name).WithCodec(platform.RawCodec{}),
	}
}

// ChannelName returns the name of the underlying method channel.
func (p *NativeProvider) ChannelName() string {
	return p.channel.Name()
}

func (p *NativeProvider) invoke(method string, args ...any) (any, error) {
	if args == nil {
		args = []any{}
	}
	return p.channel.Invoke(method, args)
}

// AuthorizationStatus calls getCalendarPermissions.
func (p *NativeProvider) AuthorizationStatus(ctx context.Context) (any, error) {
	return p.invoke(methodGetPermissions)
}

// FetchAllEvents calls findAllEvents.
func (p *NativeProvider) FetchAllEvents(ctx context.Context, startDate, endDate any) (any, error) {
	return p.invoke(methodFindAllEvents, startDate, endDate)
}

// FindCalendars calls findCalendars.
func (p *NativeProvider) FindCalendars(ctx context.Context) (any, error) {
	return p.invoke(methodFindCalendars)
}

// FindEventByID calls findById.
func (p *NativeProvider) FindEventByID(ctx context.Context, id any) (any, error) {
	return p.invoke(methodFindByID, id)
}

// AuthorizeEventStore calls requestCalendarPermissions.
func (p *NativeProvider) AuthorizeEventStore(ctx context.Context) (any, error) {
	return p.invoke(methodRequestPermissions)
}

// SaveEvent calls saveEvent.
func (p *NativeProvider) SaveEvent(ctx context.Context, title string, details any) (any, error) {
	return p.invoke(methodSaveEvent, title, details)
}

// RemoveEvent calls removeEvent.
func (p *NativeProvider) RemoveEvent(ctx context.Context, id any) (any, error) {
	return p.invoke(methodRemoveEvent, id)
}

// URIForCalendar calls uriForCalendar.
func (p *NativeProvider) URIForCalendar(ctx context.Context) (any, error) {
	return p.invoke(methodURIForCalendar)
}

// OpenEventInCalendar calls openEventInCalendar. There is no caller to hand
// a failure to, so failures go to the errors handler.
func (p *NativeProvider) OpenEventInCalendar(eventID any) {
	if _, err := p.invoke(methodOpenEvent, eventID); err != nil {
		kind := errors.KindPlatform
		var codecErr *platform.CodecError
		if stderrors.As(err, &codecErr) {
			kind = errors.KindCodec
		}
		errors.Report(&errors.BridgeError{
			Op:         "calendar.OpenEventInCalendar",
			Kind:       kind,
			Channel:    p.channel.Name(),
			Method:     methodOpenEvent,
			Err:        err,
			StackTrace: errors.CaptureStack(),
		})
	}
}
