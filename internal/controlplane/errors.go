package controlplane

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// StatusError is returned when the control plane answers with a non-2xx
// status. Anything else coming out of a client call is a transport failure.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	msg := strings.TrimSpace(e.Body)
	if msg == "" {
		msg = http.StatusText(e.Code)
	}
	return fmt.Sprintf("control plane: %d: %s", e.Code, msg)
}

// IsAuthFailure reports whether the control plane rejected the caller's
// credentials or token.
func IsAuthFailure(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code == http.StatusUnauthorized || se.Code == http.StatusForbidden
	}
	return false
}

// IsValidation reports whether the control plane rejected the request payload,
// for example a malformed bind address.
func IsValidation(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code == http.StatusBadRequest || se.Code == http.StatusUnprocessableEntity
	}
	return false
}
