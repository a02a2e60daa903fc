// Package cmd implements the calbridge CLI commands.
//
// A root command dispatches to one subcommand per bridge operation.
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-drift/calendar-events/cmd/calbridge/internal/config"
	"github.com/go-drift/calendar-events/pkg/errors"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

// Command represents a CLI command.
type Command struct {
	Name  string
	Short string
	Long  string
	Usage string
	Run   func(args []string) error
}

var rootCmd = &Command{
	Name:  "calbridge",
	Short: "calbridge - exercise the calendar bridge without a device",
	Long: `calbridge calls calendar bridge operations against a fixture file that
stands in for the native calendar module, and prints each reply exactly
as the native side produced it.

Use "calbridge <command> --help" for more information about a command.`,
	Usage: "calbridge [flags] <command> [args]",
}

// Commands registered with the CLI, in registration order.
var (
	commands    = make(map[string]*Command)
	commandList []*Command
)

// RegisterCommand adds a command to the CLI.
func RegisterCommand(cmd *Command) {
	commands[cmd.Name] = cmd
	commandList = append(commandList, cmd)
}

// globalOptions holds flag overrides for values from calbridge.yaml.
type globalOptions struct {
	fixtures string
	channel  string
	verbose  bool
}

var (
	opts     globalOptions
	settings *config.Resolved

	// stdout receives command output and stderr receives warnings and
	// logged failures. Tests replace both.
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// Execute runs the CLI with the given arguments.
func Execute(args []string) error {
	opts = globalOptions{}
	settings = nil

	if len(args) == 0 {
		printHelp()
		return nil
	}

	// Global flags are accepted anywhere on the line. Other flags before the
	// command name are errors; after it they belong to the command.
	var filteredArgs []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--verbose":
			opts.verbose = true
		case arg == "--fixtures" || arg == "--channel":
			if i+1 >= len(args) {
				return fmt.Errorf("%s requires a value", arg)
			}
			setOption(arg, args[i+1])
			i++
		case strings.HasPrefix(arg, "--fixtures=") || strings.HasPrefix(arg, "--channel="):
			name, value, _ := strings.Cut(arg, "=")
			setOption(name, value)
		case len(filteredArgs) > 0:
			filteredArgs = append(filteredArgs, arg)
		case arg == "-h" || arg == "--help" || arg == "help":
			printHelp()
			return nil
		case arg == "-v" || arg == "--version" || arg == "version":
			fmt.Fprintf(stdout, "calbridge version %s (built %s)\n", Version, BuildTime)
			return nil
		case strings.HasPrefix(arg, "-"):
			return fmt.Errorf("unknown flag %q", arg)
		default:
			filteredArgs = append(filteredArgs, arg)
		}
	}
	args = filteredArgs

	if len(args) == 0 {
		printHelp()
		return nil
	}

	errors.SetHandler(&errors.LogHandler{Verbose: opts.verbose, Out: stderr})

	cmdName := args[0]
	cmd, ok := commands[cmdName]
	if !ok {
		fmt.Fprintf(stderr, "Error: unknown command %q\n\n", cmdName)
		printHelp()
		return fmt.Errorf("unknown command: %s", cmdName)
	}

	cmdArgs := args[1:]
	for _, arg := range cmdArgs {
		if arg == "-h" || arg == "--help" {
			printCommandHelp(cmd)
			return nil
		}
	}

	return cmd.Run(cmdArgs)
}

func setOption(name, value string) {
	switch name {
	case "--fixtures":
		opts.fixtures = value
	case "--channel":
		opts.channel = value
	}
}

// resolveSettings loads calbridge.yaml from the project root and applies the
// command-line overrides.
func resolveSettings() (*config.Resolved, error) {
	if settings != nil {
		return settings, nil
	}
	root, err := config.FindProjectRoot()
	if err != nil {
		return nil, err
	}
	resolved, err := config.Resolve(root)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if opts.fixtures != "" {
		resolved.Fixtures = opts.fixtures
	}
	if opts.channel != "" {
		resolved.Channel = opts.channel
	}
	settings = resolved
	return settings, nil
}

func printHelp() {
	w := stdout
	fmt.Fprintln(w, rootCmd.Long)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintf(w, "  %s\n", rootCmd.Usage)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, sub := range commandList {
		fmt.Fprintf(w, "  %-12s %s\n", sub.Name, sub.Short)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags (accepted before or after the command):")
	fmt.Fprintln(w, "  -h, --help           Show help for a command")
	fmt.Fprintln(w, "  -v, --version        Show version information")
	fmt.Fprintln(w, "  --fixtures FILE      Fixture file (default: calendar.fixtures.yaml)")
	fmt.Fprintln(w, "  --channel NAME       Native channel name (default: CalendarEvents)")
	fmt.Fprintln(w, "  --verbose            Log native failures with stack traces")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  calbridge status")
	fmt.Fprintln(w, "  calbridge status --channel RNCalendarEvents")
	fmt.Fprintln(w, "  calbridge events 2024-01-01T00:00:00Z 2024-02-01T00:00:00Z --ics")
	fmt.Fprintln(w, `  calbridge save Lunch '{"startDate":"2024-01-01T12:00:00Z"}'`)
}

func printCommandHelp(cmd *Command) {
	w := stdout
	fmt.Fprintln(w, cmd.Long)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintf(w, "  %s\n", cmd.Usage)
}
