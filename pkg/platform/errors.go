package platform

import "errors"

// Standard errors for platform channel operations.
var (
	// ErrMethodNotFound indicates the method is not implemented on the native side.
	ErrMethodNotFound = errors.New("method not implemented")

	// ErrPlatformUnavailable indicates no native bridge is installed.
	ErrPlatformUnavailable = errors.New("platform feature unavailable")
)

// ChannelError represents an error returned from native code.
type ChannelError struct {
	Code    string `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
	Details any    `json:"details,omitempty" yaml:"details,omitempty"`
}

func (e *ChannelError) Error() string {
	if e.Message != "" {
		return e.Code + ": " + e.Message
	}
	return e.Code
}

// NewChannelError creates a new ChannelError with the given code and message.
func NewChannelError(code, message string) *ChannelError {
	return &ChannelError{Code: code, Message: message}
}

// NewChannelErrorWithDetails creates a new ChannelError with additional details.
func NewChannelErrorWithDetails(code, message string, details any) *ChannelError {
	return &ChannelError{Code: code, Message: message, Details: details}
}

// CodecError reports arguments that could not be encoded or a native reply
// that could not be decoded. Errors from the native side are never wrapped
// in a CodecError.
type CodecError struct {
	// Op is "encode" or "decode".
	Op      string
	Channel string
	Method  string
	Err     error
}

func (e *CodecError) Error() string {
	return "platform: " + e.Op + " " + e.Channel + "/" + e.Method + ": " + e.Err.Error()
}

func (e *CodecError) Unwrap() error {
	return e.Err
}
