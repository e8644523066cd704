package providers

import (
	"context"
	"time"
)

// Fetcher queries a single provider. Implementations never return an error:
// every failure is reported through the returned Outcome.
type Fetcher interface {
	Fetch(ctx context.Context, desc Descriptor, query string) Outcome
}

// Descriptor identifies one external search endpoint.
type Descriptor struct {
	// Key is unique within a registry (e.g. "heimuer")
	Key string `json:"key" yaml:"-"`

	// Name is the human-readable display name
	Name string `json:"name" yaml:"name"`

	// Endpoint is the URL template. A "{query}" placeholder is substituted with the
	// encoded query; without one, "wd=<query>" is appended.
	Endpoint string `json:"api" yaml:"api"`
}

// Record is one normalized search hit: the fields of a decoded <video> node plus
// the provenance keys added by the client.
type Record map[string]any

const (
	// FieldSource holds the provider key on every record.
	FieldSource = "source"

	// FieldSourceName holds the provider display name on every record.
	FieldSourceName = "source_name"
)

// Source returns the provider key a record was tagged with.
func (r Record) Source() string {
	s, _ := r[FieldSource].(string)
	return s
}

// FailureReason classifies why a provider contributed nothing.
type FailureReason string

const (
	FailureNone      FailureReason = ""
	FailureRejected  FailureReason = "provider rejected request"
	FailureTimeout   FailureReason = "timeout"
	FailureMalformed FailureReason = "malformed payload"
	FailureNetwork   FailureReason = "network error"
)

// Outcome is the settled result of querying one provider.
type Outcome struct {
	Provider Descriptor
	Records  []Record

	// Failed is false for both "hits" and "valid empty response".
	Failed bool
	Reason FailureReason

	// StatusCode is the HTTP status when a response was received
	StatusCode int

	// Err is the underlying cause of a failure, kept for logging only
	Err error

	Duration time.Duration
}

// Status is the metric label for the outcome: "ok", "empty" or the failure reason.
func (o Outcome) Status() string {
	switch {
	case o.Failed:
		return string(o.Reason)
	case len(o.Records) == 0:
		return "empty"
	default:
		return "ok"
	}
}

// Succeeded builds a success outcome.
func Succeeded(desc Descriptor, records []Record) Outcome {
	if records == nil {
		records = []Record{}
	}
	return Outcome{Provider: desc, Records: records}
}

// Failure builds a failed outcome with no records.
func Failure(desc Descriptor, reason FailureReason) Outcome {
	return Outcome{Provider: desc, Records: []Record{}, Failed: true, Reason: reason}
}

// FailureFrom builds a failed outcome from a ProviderError.
func FailureFrom(desc Descriptor, err *ProviderError) Outcome {
	out := Failure(desc, err.Reason)
	out.StatusCode = err.StatusCode
	out.Err = err
	return out
}

// ProviderError represents an error from a provider
type ProviderError struct {
	// Provider that generated the error
	Provider string

	// Reason is the outcome classification for this error
	Reason FailureReason

	// StatusCode is the HTTP status code (if applicable)
	StatusCode int

	// Cause is the underlying error
	Cause error
}

// Error implements the error interface
func (e *ProviderError) Error() string {
	msg := e.Provider + ": " + string(e.Reason)
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap implements error unwrapping
func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// NewProviderError creates a new provider error
func NewProviderError(provider string, reason FailureReason, statusCode int, cause error) *ProviderError {
	return &ProviderError{
		Provider:   provider,
		Reason:     reason,
		StatusCode: statusCode,
		Cause:      cause,
	}
}
