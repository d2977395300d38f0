package lumasonic

import (
	"errors"
	"fmt"
)

// ConnectivityError reports a call that never produced a usable HTTP response:
// a network failure or a non-2xx status.
type ConnectivityError struct {
	Op         string
	StatusCode int // zero when the request itself failed
	Err        error
}

func (e *ConnectivityError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: http status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

// ApplicationError reports a well-formed HTTP exchange whose payload signals
// failure (success=false) or cannot be decoded.
type ApplicationError struct {
	Op        string
	Malformed bool
	Err       error
}

func (e *ApplicationError) Error() string {
	if e.Malformed {
		return fmt.Sprintf("%s: malformed response: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: player reported failure", e.Op)
}

func (e *ApplicationError) Unwrap() error { return e.Err }

// IsConnectivity reports whether err carries a *ConnectivityError.
func IsConnectivity(err error) bool {
	var target *ConnectivityError
	return errors.As(err, &target)
}

// IsApplication reports whether err carries an *ApplicationError.
func IsApplication(err error) bool {
	var target *ApplicationError
	return errors.As(err, &target)
}
