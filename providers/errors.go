package providers

import "fmt"

type ErrorKind string

const (
	KindTransport         ErrorKind = "transport"
	KindHTTP              ErrorKind = "httpError"
	KindMalformedResponse ErrorKind = "malformedResponse"
	KindProviderError     ErrorKind = "providerError"
)

// CallError describes a failed aggregator call. StatusCode is zero when no
// HTTP response was received.
type CallError struct {
	Kind       ErrorKind
	Endpoint   string
	StatusCode int
	Message    string
	Err        error
}

func (e *CallError) Error() string {
	if e.Endpoint == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s %s: %s", e.Endpoint, e.Kind, e.Message)
}

func (e *CallError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match on kind: errors.Is(err, &CallError{Kind: KindTransport}).
func (e *CallError) Is(target error) bool {
	t, ok := target.(*CallError)
	if !ok {
		return false
	}
	return t.Kind == "" || t.Kind == e.Kind
}
