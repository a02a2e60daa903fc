package platform

// MethodChannel calls named methods on the native side.
type MethodChannel struct {
	name  string
	codec MessageCodec
}

// NewMethodChannel creates a method channel with the given name and registers
// it, replacing any channel previously registered under that name.
func NewMethodChannel(name string) *MethodChannel {
	ch := &MethodChannel{
		name:  name,
		codec: DefaultCodec,
	}
	registry.register(name, ch)
	return ch
}

// Name returns the channel name.
func (c *MethodChannel) Name() string {
	return c.name
}

// Codec returns the codec used to encode arguments and decode replies.
func (c *MethodChannel) Codec() MessageCodec {
	return c.codec
}

// WithCodec returns a handle to the same native channel that encodes and
// decodes with codec. The returned handle is not registered.
func (c *MethodChannel) WithCodec(codec MessageCodec) *MethodChannel {
	if codec == nil {
		codec = DefaultCodec
	}
	return &MethodChannel{name: c.name, codec: codec}
}

// Invoke calls a method on the native side and returns the decoded reply.
// It blocks until the native side responds. Errors returned by the native
// bridge are passed back unchanged.
func (c *MethodChannel) Invoke(method string, args any) (any, error) {
	return invokeNative(c.name, method, args, c.codec)
}
