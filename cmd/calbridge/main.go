// Command calbridge drives the calendar bridge from the command line against
// a fixture-backed native host, printing each native reply as received.
package main

import (
	"fmt"
	"os"

	"github.com/go-drift/calendar-events/cmd/calbridge/cmd"
)

func main() {
	if err := cmd.Execute(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
