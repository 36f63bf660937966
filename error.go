package gemini

import (
	// Packages
	api "github.com/mutablelogic/go-gemini/pkg/api"
)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

// Errors returned by the client, aliased from the api package so that
// callers can match them with errors.Is without a second import
var (
	ErrSerialization       = api.ErrSerialization
	ErrClient              = api.ErrClient
	ErrServer              = api.ErrServer
	ErrTimeout             = api.ErrTimeout
	ErrInvalidAPIKey       = api.ErrInvalidAPIKey
	ErrUnsupportedLocation = api.ErrUnsupportedLocation
	ErrQuotaExceeded       = api.ErrQuotaExceeded
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// ServerError carries the code, status and message of a service error
// response. Retrieve it from a returned error with errors.As.
type ServerError = api.ServerError
