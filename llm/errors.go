package llm

import "fmt"

// TransportError is returned when the request could not be sent or the
// response body could not be read.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("completion request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ResponseFormatError is returned when the endpoint answered with a body that
// is not a chat completion. Body holds the raw response text.
type ResponseFormatError struct {
	Status int
	Body   string
	Err    error
}

func (e *ResponseFormatError) Error() string {
	return fmt.Sprintf("unexpected completion response (status %d): %v", e.Status, e.Err)
}

func (e *ResponseFormatError) Unwrap() error {
	return e.Err
}
