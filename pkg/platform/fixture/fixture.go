// Package fixture provides a NativeBridge that answers method calls from a
// YAML file instead of a device. It backs tests and the calbridge CLI.
//
// A fixture file maps channel and method names to canned replies:
//
//	channels:
//	  CalendarEvents:
//	    getCalendarPermissions:
//	      result: authorized
//	    removeEvent:
//	      error: {code: E_PERMISSION, message: calendar access denied}
package fixture

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/go-drift/calendar-events/pkg/platform"
)

// File is the decoded form of a fixture file.
type File struct {
	Channels map[string]map[string]Reply `yaml:"channels"`
}

// Reply is the canned answer for one method.
type Reply struct {
	// Result is encoded with the platform JSON codec and returned as the reply.
	Result any `yaml:"result"`
	// Raw, when set, is returned verbatim instead of Result.
	Raw string `yaml:"raw,omitempty"`
	// Error, when set, is returned instead of any reply.
	Error *platform.ChannelError `yaml:"error,omitempty"`
}

// Call records one method call that reached the bridge.
type Call struct {
	Channel string
	Method  string
	Args    []byte
}

// Bridge is a platform.NativeBridge serving replies from a File.
// It is safe for concurrent use.
type Bridge struct {
	mu      sync.Mutex
	replies map[string]map[string]Reply
	calls   []Call
}

// New creates a bridge serving the replies in f.
func New(f File) *Bridge {
	b := &Bridge{replies: make(map[string]map[string]Reply)}
	for channel, methods := range f.Channels {
		for method, reply := range methods {
			b.Set(channel, method, reply)
		}
	}
	return b
}

// Parse decodes a YAML fixture document.
func Parse(data []byte) (*Bridge, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}
	return New(f), nil
}

// Load reads and decodes the fixture file at path.
func Load(path string) (*Bridge, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures: %w", err)
	}
	b, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// Set installs or replaces the reply for channel/method.
func (b *Bridge) Set(channel, method string, reply Reply) {
	b.mu.Lock()
	defer b.mu.Unlock()
	methods := b.replies[channel]
	if methods == nil {
		methods = make(map[string]Reply)
		b.replies[channel] = methods
	}
	methods[method] = reply
}

// InvokeMethod records the call and returns the canned reply.
func (b *Bridge) InvokeMethod(channel, method string, args []byte) ([]byte, error) {
	b.mu.Lock()
	b.calls = append(b.calls, Call{Channel: channel, Method: method, Args: append([]byte(nil), args...)})
	reply, ok := b.replies[channel][method]
	b.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", platform.ErrMethodNotFound, channel, method)
	}
	if reply.Error != nil {
		return nil, reply.Error
	}
	if reply.Raw != "" {
		return []byte(reply.Raw), nil
	}
	return platform.DefaultCodec.Encode(reply.Result)
}

// Calls returns a copy of the calls received so far, in arrival order.
func (b *Bridge) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Call(nil), b.calls...)
}
