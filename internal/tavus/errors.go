package tavus

import (
	"errors"
	"fmt"
	"strings"
)

type Kind string

const (
	KindConfiguration Kind = "configuration"
	KindTransport     Kind = "transport"
	KindAPI           Kind = "api"
	KindParse         Kind = "parse"
	KindUnknown       Kind = "unknown"
)

// ConfigError reports settings that must be present before a request can
// be built. It is returned before any network I/O.
type ConfigError struct {
	Missing []string
}

func (e *ConfigError) Error() string {
	return "tavus configuration missing: " + strings.Join(e.Missing, ", ")
}

type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("tavus request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// APIError is a non-2xx answer from the API.
type APIError struct {
	HTTPStatus int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Code
	}
	if msg == "" {
		msg = "unknown error"
	}
	return fmt.Sprintf("Error %d: %s", e.HTTPStatus, msg)
}

// ParseError means the response body could not be understood. HTTPStatus is
// the status of the response that carried it.
type ParseError struct {
	HTTPStatus int
	Err        error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("tavus response (status %d) unreadable: %v", e.HTTPStatus, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// KindOf classifies an error returned by Client.CreateConversation.
func KindOf(err error) Kind {
	var (
		cfgErr   *ConfigError
		transErr *TransportError
		apiErr   *APIError
		parseErr *ParseError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &cfgErr):
		return KindConfiguration
	case errors.As(err, &apiErr):
		return KindAPI
	case errors.As(err, &parseErr):
		return KindParse
	case errors.As(err, &transErr):
		return KindTransport
	default:
		return KindUnknown
	}
}

// HTTPStatusOf returns the upstream status carried by err, or 0.
func HTTPStatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatus
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return parseErr.HTTPStatus
	}
	return 0
}
