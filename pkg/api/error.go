package api

import (
	"fmt"
	"net/http"
	"strings"
)

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	ErrSuccess Err = iota
	ErrSerialization
	ErrClient
	ErrServer
	ErrTimeout
	ErrInvalidAPIKey
	ErrUnsupportedLocation
	ErrQuotaExceeded
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Err classifies everything that can go wrong when talking to the service
type Err int

// ServerError is a service error body which could be parsed. It carries the
// wire code, status and message, and classifies itself as one of the Err
// sentinels for use with errors.Is. Every ServerError matches ErrServer.
type ServerError struct {
	Code    int    `json:"code"`
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (e Err) Error() string {
	switch e {
	case ErrSuccess:
		return "success"
	case ErrSerialization:
		return "serialization error"
	case ErrClient:
		return "client error"
	case ErrServer:
		return "server error"
	case ErrTimeout:
		return "request timed out"
	case ErrInvalidAPIKey:
		return "invalid api key"
	case ErrUnsupportedLocation:
		return "user location not supported"
	case ErrQuotaExceeded:
		return "quota exceeded"
	}
	return fmt.Sprintf("error code %d", int(e))
}

func (e Err) With(args ...interface{}) error {
	return fmt.Errorf("%w: %s", e, fmt.Sprint(args...))
}

func (e Err) Withf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", e, fmt.Sprintf(format, args...))
}

func (e *ServerError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("%s (%d): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("server error %d: %s", e.Code, e.Message)
}

func (e *ServerError) Is(target error) bool {
	if target == ErrServer {
		return true
	}
	return target == e.sentinel()
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// sentinel maps the wire status and message onto a typed sentinel
func (e *ServerError) sentinel() error {
	switch {
	case e.Status == "UNAUTHENTICATED",
		e.Code == http.StatusUnauthorized,
		e.Code == http.StatusForbidden,
		strings.Contains(e.Message, "API key not valid"):
		return ErrInvalidAPIKey
	case strings.Contains(e.Message, "User location is not supported"):
		return ErrUnsupportedLocation
	case e.Status == "RESOURCE_EXHAUSTED", e.Code == http.StatusTooManyRequests:
		return ErrQuotaExceeded
	}
	return ErrServer
}
