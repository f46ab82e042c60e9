package model

import (
	"errors"
	"fmt"
	"net/http"
)

type FetchErrorKind int

const (
	// FetchErrorNetwork means no response was obtained at all
	FetchErrorNetwork FetchErrorKind = iota
	FetchErrorHTTP
	FetchErrorDecode
)

func (k FetchErrorKind) String() string {
	switch k {
	case FetchErrorNetwork:
		return "network"
	case FetchErrorHTTP:
		return "http"
	case FetchErrorDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// FetchError is returned by the project fetcher. Message is what the user sees.
type FetchError struct {
	Kind    FetchErrorKind
	Status  int
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	return e.Message
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func NewNetworkError(err error) *FetchError {
	return &FetchError{
		Kind:    FetchErrorNetwork,
		Message: "Network error: unable to reach the GitHub API.",
		Err:     err,
	}
}

func NewDecodeError(err error) *FetchError {
	return &FetchError{
		Kind:    FetchErrorDecode,
		Message: "Unable to decode the GitHub API response.",
		Err:     err,
	}
}

// NewHTTPError builds the message for a non-success status. 403 and 404 get
// dedicated messages, the username is only used by the latter.
func NewHTTPError(status int, username string, err error) *FetchError {
	var message string

	switch status {
	case http.StatusForbidden:
		message = "GitHub API rate limit exceeded. Please try again later."
	case http.StatusNotFound:
		message = fmt.Sprintf("User %q not found.", username)
	default:
		message = fmt.Sprintf("HTTP Error: %d", status)
	}

	return &FetchError{
		Kind:    FetchErrorHTTP,
		Status:  status,
		Message: message,
		Err:     err,
	}
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewAPIError maps a fetch failure to the JSON error body and the status the
// API answers with
func NewAPIError(errReason error) (int, APIError) {
	var fetchErr *FetchError
	if !errors.As(errReason, &fetchErr) {
		return http.StatusInternalServerError, APIError{
			Code:    "GENERIC_ERROR",
			Message: "internal server error. contact our support with the reason code for assistance",
		}
	}

	switch fetchErr.Kind {
	case FetchErrorHTTP:
		switch fetchErr.Status {
		case http.StatusForbidden:
			return http.StatusTooManyRequests, APIError{Code: "RATE_LIMIT_REACHED", Message: fetchErr.Message}
		case http.StatusNotFound:
			return http.StatusNotFound, APIError{Code: "USER_NOT_FOUND", Message: fetchErr.Message}
		default:
			return http.StatusBadGateway, APIError{Code: "HTTP_ERROR", Message: fetchErr.Message}
		}

	case FetchErrorDecode:
		return http.StatusBadGateway, APIError{Code: "DECODE_ERROR", Message: fetchErr.Message}

	default:
		return http.StatusBadGateway, APIError{Code: "NETWORK_ERROR", Message: fetchErr.Message}
	}
}
