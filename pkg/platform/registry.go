package platform

import (
	"sort"
	"sync"
)

// channelRegistry manages all registered method channels.
type channelRegistry struct {
	methodChannels map[string]*MethodChannel
	mu             sync.RWMutex
}

var registry = &channelRegistry{
	methodChannels: make(map[string]*MethodChannel),
}

func (r *channelRegistry) register(name string, ch *MethodChannel) {
	r.mu.Lock()
	r.methodChannels[name] = ch
	r.mu.Unlock()
}

func (r *channelRegistry) get(name string) *MethodChannel {
	r.mu.RLock()
	ch := r.methodChannels[name]
	r.mu.RUnlock()
	return ch
}

// getOrCreate returns the channel registered under name, creating it with the
// default codec if there is none.
func (r *channelRegistry) getOrCreate(name string) *MethodChannel {
	if ch := r.get(name); ch != nil {
		return ch
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if ch, ok := r.methodChannels[name]; ok {
		return ch
	}
	ch := &MethodChannel{name: name, codec: DefaultCodec}
	r.methodChannels[name] = ch
	return ch
}

func (r *channelRegistry) reset() {
	r.mu.Lock()
	r.methodChannels = make(map[string]*MethodChannel)
	r.mu.Unlock()
}

// Channel returns the method channel registered under name, registering a new
// one on first use. Later calls with the same name return the same handle.
func Channel(name string) *MethodChannel {
	return registry.getOrCreate(name)
}

// Channels returns the names of all registered method channels, sorted.
func Channels() []string {
	registry.mu.RLock()
	names := make([]string, 0, len(registry.methodChannels))
	for name := range registry.methodChannels {
		names = append(names, name)
	}
	registry.mu.RUnlock()
	sort.Strings(names)
	return names
}

// NativeBridge defines the interface for calling native platform code.
type NativeBridge interface {
	// InvokeMethod calls a method on the native side. args and the returned
	// reply are encoded with the calling channel's codec.
	InvokeMethod(channel, method string, args []byte) ([]byte, error)
}

var (
	bridgeMu     sync.RWMutex
	nativeBridge NativeBridge
)

// SetNativeBridge sets the native bridge implementation.
// The host application calls this once during initialization.
func SetNativeBridge(bridge NativeBridge) {
	bridgeMu.Lock()
	nativeBridge = bridge
	bridgeMu.Unlock()
}

func currentBridge() NativeBridge {
	bridgeMu.RLock()
	defer bridgeMu.RUnlock()
	return nativeBridge
}

// invokeNative calls a method on the native side.
func invokeNative(channel, method string, args any, codec MessageCodec) (any, error) {
	bridge := currentBridge()
	if bridge == nil {
		return nil, ErrPlatformUnavailable
	}

	argsData, err := codec.Encode(args)
	if err != nil {
		return nil, &CodecError{Op: "encode", Channel: channel, Method: method, Err: err}
	}

	resultData, err := bridge.InvokeMethod(channel, method, argsData)
	if err != nil {
		return nil, err
	}

	result, err := codec.Decode(resultData)
	if err != nil {
		return nil, &CodecError{Op: "decode", Channel: channel, Method: method, Err: err}
	}
	return result, nil
}

// ResetForTest clears the native bridge and the channel registry.
// This should only be called from tests.
func ResetForTest() {
	SetNativeBridge(nil)
	registry.reset()
}
