package storyboard

import (
	"errors"
	"fmt"
)

// ErrOracleUnavailable wraps provider/transport failures. The caller may
// retry, or re-invoke with a different provider chain.
var ErrOracleUnavailable = errors.New("storyboard oracle unavailable")

// MalformedResponseError is a hard failure: the oracle returned JSON that
// violates the storyboard contract. There is no partial repair; the caller
// regenerates or gives up.
type MalformedResponseError struct {
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return "malformed oracle response: " + e.Reason
}

func malformedf(format string, args ...any) error {
	return &MalformedResponseError{Reason: fmt.Sprintf(format, args...)}
}

// IsMalformed reports whether err is a contract violation (as opposed to an
// availability problem).
func IsMalformed(err error) bool {
	var m *MalformedResponseError
	return errors.As(err, &m)
}
