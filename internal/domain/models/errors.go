package models

import (
	"errors"
	"fmt"
)

// FailureKind classifies domain failures so callers can tell retryable
// conditions apart from fatal ones.
type FailureKind string

const (
	KindDataUnavailable  FailureKind = "DATA_UNAVAILABLE"
	KindModelUnavailable FailureKind = "MODEL_UNAVAILABLE"
	KindFeatureUndefined FailureKind = "FEATURE_UNDEFINED"
	KindUpstreamTimeout  FailureKind = "UPSTREAM_TIMEOUT"
	KindTrainingAborted  FailureKind = "TRAINING_ABORTED"
)

// DomainError is a typed failure carrying its classification.
type DomainError struct {
	Kind FailureKind
	Msg  string
	Err  error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *DomainError) Unwrap() error { return e.Err }

// Is matches against another DomainError by kind, so sentinel comparisons
// like errors.Is(err, ErrModelUnavailable) work on wrapped instances.
func (e *DomainError) Is(target error) bool {
	var de *DomainError
	if errors.As(target, &de) {
		return e.Kind == de.Kind
	}
	return false
}

// Sentinels for errors.Is checks.
var (
	ErrDataUnavailable  = &DomainError{Kind: KindDataUnavailable, Msg: "no price history available"}
	ErrModelUnavailable = &DomainError{Kind: KindModelUnavailable, Msg: "volatility model not loaded"}
	ErrFeatureUndefined = &DomainError{Kind: KindFeatureUndefined, Msg: "not enough historical data"}
	ErrUpstreamTimeout  = &DomainError{Kind: KindUpstreamTimeout, Msg: "upstream call timed out"}
	ErrTrainingAborted  = &DomainError{Kind: KindTrainingAborted, Msg: "training aborted"}
)

// DataUnavailable builds a typed failure for missing/insufficient history.
func DataUnavailable(msg string, args ...interface{}) *DomainError {
	return &DomainError{Kind: KindDataUnavailable, Msg: fmt.Sprintf(msg, args...)}
}

// ModelUnavailable builds a typed failure for a missing/corrupt artifact.
func ModelUnavailable(err error) *DomainError {
	return &DomainError{Kind: KindModelUnavailable, Msg: "volatility model not loaded", Err: err}
}

// FeatureUndefined builds a typed failure for short trailing windows.
func FeatureUndefined(msg string, args ...interface{}) *DomainError {
	return &DomainError{Kind: KindFeatureUndefined, Msg: fmt.Sprintf(msg, args...)}
}

// UpstreamTimeout wraps a deadline failure from an external collaborator.
func UpstreamTimeout(op string, err error) *DomainError {
	return &DomainError{Kind: KindUpstreamTimeout, Msg: op, Err: err}
}

// TrainingAborted builds a typed failure for an unusable training input.
func TrainingAborted(msg string, args ...interface{}) *DomainError {
	return &DomainError{Kind: KindTrainingAborted, Msg: fmt.Sprintf(msg, args...)}
}

// KindOf extracts the failure kind, or "" for untyped errors.
func KindOf(err error) FailureKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}
