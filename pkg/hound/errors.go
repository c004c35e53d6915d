package hound

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Error codes as constants
const (
	ErrCodeConfigInvalid     = "CONFIG_INVALID"
	ErrCodeInvalidClientKey  = "INVALID_CLIENT_KEY"
	ErrCodeCredentials       = "CREDENTIALS_ERROR"
	ErrCodeTransport         = "TRANSPORT_ERROR"
	ErrCodeRequestBuild      = "REQUEST_BUILD_ERROR"
	ErrCodeJSONEncode        = "JSON_ENCODE_ERROR"
	ErrCodeResponseRead      = "RESPONSE_READ_ERROR"
	ErrCodeAudioDevice       = "AUDIO_DEVICE_ERROR"
	ErrCodeAudioEncode       = "AUDIO_ENCODE_ERROR"
	ErrCodeIdentityGenerator = "IDENTITY_ERROR"
)

// HoundError is the SDK's general error: a message, a machine readable code
// and optional details. Error returns the bare message.
type HoundError struct {
	Message   string
	Code      string
	Timestamp time.Time
	Details   map[string]interface{}
	err       error
}

func NewHoundError(message, code string) *HoundError {
	return &HoundError{
		Message:   message,
		Code:      code,
		Timestamp: time.Now(),
	}
}

func (e *HoundError) Error() string {
	return e.Message
}

func (e *HoundError) Unwrap() error {
	return e.err
}

// AddDetail attaches a key/value pair to the error and returns it for chaining.
func (e *HoundError) AddDetail(key string, value interface{}) *HoundError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

func (e *HoundError) GetDetail(key string) (interface{}, bool) {
	if e.Details == nil {
		return nil, false
	}
	value, exists := e.Details[key]
	return value, exists
}

// WrapError converts err into a HoundError with the given code, keeping err
// reachable through errors.Is and errors.As.
func WrapError(err error, code string) *HoundError {
	if err == nil {
		return nil
	}
	hErr := NewHoundError(err.Error(), code)
	hErr.err = err
	return hErr
}

func NewConfigError(message string) *HoundError {
	return NewHoundError(message, ErrCodeConfigInvalid)
}

func NewCredentialsError(message string) *HoundError {
	return NewHoundError(message, ErrCodeCredentials)
}

func NewAudioError(message string) *HoundError {
	return NewHoundError(message, ErrCodeAudioDevice)
}

// IsErrorCode reports whether err is a HoundError carrying code.
func IsErrorCode(err error, code string) bool {
	var hErr *HoundError
	if errors.As(err, &hErr) {
		return hErr.Code == code
	}
	return false
}

// ValidationError reports a RequestInfo field that is unknown, has the wrong
// kind, or fails its validity check. It is raised before any network I/O.
type ValidationError struct {
	Field  string
	Value  interface{}
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid request info field %q: %s", e.Field, e.Reason)
}

// IsValidationError reports whether err is or wraps a *ValidationError.
func IsValidationError(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

// APIError is returned when the service answers with a JSON body carrying an
// ErrorMessage field. Error returns that message verbatim.
type APIError struct {
	Message    string
	StatusCode int
}

func (e *APIError) Error() string {
	return e.Message
}

// IsAPIError reports whether err is or wraps an *APIError.
func IsAPIError(err error) bool {
	var aErr *APIError
	return errors.As(err, &aErr)
}

// HTTPError is returned for non-2xx responses that do not carry an
// ErrorMessage.
type HTTPError struct {
	StatusCode int
	Status     string
	Body       []byte
}

func (e *HTTPError) Error() string {
	var sb strings.Builder
	sb.WriteString("hound: unexpected status ")
	sb.WriteString(e.Status)
	if len(e.Body) > 0 {
		body := string(e.Body)
		if len(body) > 256 {
			body = body[:256] + "..."
		}
		sb.WriteString(": ")
		sb.WriteString(body)
	}
	return sb.String()
}

// AsHTTPError extracts *HTTPError from an error.
func AsHTTPError(err error) (*HTTPError, bool) {
	var e *HTTPError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
