package application

import (
	"errors"
	"fmt"
)

// ProcessorError is returned by the processor client when the external API
// rejects or fails a request. Code carries the processor's machine-readable
// error name, StatusCode the HTTP status of the response.
type ProcessorError struct {
	Code       string
	Message    string
	StatusCode int
}

func (e *ProcessorError) Error() string {
	return fmt.Sprintf("processor error %s (%d): %s", e.Code, e.StatusCode, e.Message)
}

func IsProcessorError(err error) (*ProcessorError, bool) {
	var procErr *ProcessorError
	ok := errors.As(err, &procErr)
	return procErr, ok
}
