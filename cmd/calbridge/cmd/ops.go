package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-drift/calendar-events/cmd/calbridge/internal/config"
	"github.com/go-drift/calendar-events/cmd/calbridge/internal/ics"
	"github.com/go-drift/calendar-events/pkg/calendar"
	"github.com/go-drift/calendar-events/pkg/platform"
	"github.com/go-drift/calendar-events/pkg/platform/fixture"
)

func init() {
	RegisterCommand(&Command{
		Name:  "status",
		Short: "Show the calendar permission state",
		Long:  "Print the current calendar permission state reported by the native side.",
		Usage: "calbridge status",
		Run:   noArgs("status", (*calendar.Bridge).AuthorizationStatus),
	})
	RegisterCommand(&Command{
		Name:  "authorize",
		Short: "Request calendar access",
		Long:  "Ask the native side to prompt for calendar access and print the resulting state.",
		Usage: "calbridge authorize",
		Run:   noArgs("authorize", (*calendar.Bridge).AuthorizeEventStore),
	})
	RegisterCommand(&Command{
		Name:  "calendars",
		Short: "List calendars",
		Long:  "Print the calendars reported by the native side.",
		Usage: "calbridge calendars",
		Run:   noArgs("calendars", (*calendar.Bridge).FindCalendars),
	})
	RegisterCommand(&Command{
		Name:  "uri",
		Short: "Show the native calendar URI",
		Long:  "Print the calendar URI reported by the native side.",
		Usage: "calbridge uri",
		Run:   noArgs("uri", (*calendar.Bridge).URIForCalendar),
	})
	RegisterCommand(&Command{
		Name:  "events",
		Short: "List events in a date range",
		Long: `Print the events between two dates.

Dates are passed to the native side as given. With --ics the reply is
converted to an iCalendar document instead of printed verbatim.`,
		Usage: "calbridge events <start> <end> [--ics]",
		Run:   runEvents,
	})
	RegisterCommand(&Command{
		Name:  "event",
		Short: "Show one event",
		Long:  "Print the event with the given id, or null if the native side has none.",
		Usage: "calbridge event <id>",
		Run: oneArg("event", func(b *calendar.Bridge, ctx context.Context, id string) (any, error) {
			return b.FindEventByID(ctx, id)
		}),
	})
	RegisterCommand(&Command{
		Name:  "save",
		Short: "Save an event",
		Long: `Save an event and print its id.

details is a JSON object passed to the native side byte for byte.`,
		Usage: "calbridge save <title> [details-json]",
		Run:   runSave,
	})
	RegisterCommand(&Command{
		Name:  "remove",
		Short: "Remove an event",
		Long:  "Remove the event with the given id and print the native reply.",
		Usage: "calbridge remove <id>",
		Run: oneArg("remove", func(b *calendar.Bridge, ctx context.Context, id string) (any, error) {
			return b.RemoveEvent(ctx, id)
		}),
	})
	RegisterCommand(&Command{
		Name:  "open",
		Short: "Open an event in the calendar app",
		Long:  "Ask the native side to show the event. Failures are logged to stderr.",
		Usage: "calbridge open <id>",
		Run:   runOpen,
	})
}

// session is a bridge wired to the fixture host named by the settings.
type session struct {
	settings *config.Resolved
	provider *calendar.NativeProvider
	bridge   *calendar.Bridge
}

func openSession() (*session, error) {
	s, err := resolveSettings()
	if err != nil {
		return nil, err
	}
	host, err := fixture.Load(s.Fixtures)
	if err != nil {
		return nil, err
	}
	platform.SetNativeBridge(host)

	provider := calendar.NewNativeProvider(s.Channel)
	return &session{
		settings: s,
		provider: provider,
		bridge:   calendar.New(provider),
	}, nil
}

func noArgs(name string, op func(*calendar.Bridge, context.Context) (any, error)) func([]string) error {
	return func(args []string) error {
		if len(args) != 0 {
			return fmt.Errorf("%s takes no arguments", name)
		}
		s, err := openSession()
		if err != nil {
			return err
		}
		result, err := op(s.bridge, context.Background())
		if err != nil {
			return err
		}
		return printReply(result)
	}
}

func oneArg(name string, op func(*calendar.Bridge, context.Context, string) (any, error)) func([]string) error {
	return func(args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("%s requires exactly one id\n\nUsage: calbridge %s <id>", name, name)
		}
		s, err := openSession()
		if err != nil {
			return err
		}
		result, err := op(s.bridge, context.Background(), args[0])
		if err != nil {
			return err
		}
		return printReply(result)
	}
}

func runEvents(args []string) error {
	asICS := false
	var dates []string
	for _, arg := range args {
		if arg == "--ics" {
			asICS = true
			continue
		}
		dates = append(dates, arg)
	}
	if len(dates) != 2 {
		return fmt.Errorf("start and end dates are required\n\nUsage: calbridge events <start> <end> [--ics]")
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	result, err := s.bridge.FetchAllEvents(context.Background(), dates[0], dates[1])
	if err != nil {
		return err
	}
	if !asICS {
		return printReply(result)
	}

	raw, err := replyBytes(result)
	if err != nil {
		return err
	}
	exported, err := ics.Export(raw, ics.Options{
		ProdID: s.settings.ProdID,
		Name:   s.settings.CalendarName,
	})
	if err != nil {
		return err
	}
	if exported.Skipped > 0 {
		fmt.Fprintf(stderr, "Warning: skipped %d event(s) without a usable start date\n", exported.Skipped)
	}
	return ics.Encode(stdout, exported.Calendar)
}

func runSave(args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("title is required\n\nUsage: calbridge save <title> [details-json]")
	}

	var details any
	if len(args) == 2 {
		if !json.Valid([]byte(args[1])) {
			return fmt.Errorf("details must be valid JSON")
		}
		details = json.RawMessage(args[1])
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	result, err := s.bridge.SaveEvent(context.Background(), args[0], details)
	if err != nil {
		return err
	}
	return printReply(result)
}

// runOpen calls the provider directly rather than through the bridge: the
// bridge returns before the native call finishes, and the process would exit
// before it ran.
func runOpen(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("open requires exactly one id\n\nUsage: calbridge open <id>")
	}
	s, err := openSession()
	if err != nil {
		return err
	}
	s.provider.OpenEventInCalendar(args[0])
	return nil
}

func replyBytes(result any) ([]byte, error) {
	switch v := result.(type) {
	case nil:
		return []byte("null"), nil
	case json.RawMessage:
		return v, nil
	default:
		return json.Marshal(v)
	}
}

func printReply(result any) error {
	data, err := replyBytes(result)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(stdout, "%s\n", data)
	return err
}
