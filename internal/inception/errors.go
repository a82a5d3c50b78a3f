package inception

import (
	"errors"
	"fmt"
)

// PluginName identifies errors raised by this package.
const PluginName = "inception"

// Kind classifies a PipelineError.
type Kind int

const (
	// KindUnexpected covers failures of the file source, the pre-processing
	// stage, I/O and anything else not classified below.
	KindUnexpected Kind = iota
	// KindConfiguration is a missing or invalid option.
	KindConfiguration
	// KindIndicatorNotFound means the target lacks the indicator string.
	KindIndicatorNotFound
	// KindAttributeResolution means a derived attribute failed.
	KindAttributeResolution
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindIndicatorNotFound:
		return "indicator_not_found"
	case KindAttributeResolution:
		return "attribute_resolution"
	default:
		return "unexpected"
	}
}

// Sentinels for errors.Is. A *PipelineError matches the sentinel of its Kind.
var (
	ErrConfiguration       = errors.New("configuration error")
	ErrIndicatorNotFound   = errors.New("indicator not found")
	ErrAttributeResolution = errors.New("attribute resolution error")
	ErrUnexpected          = errors.New("unexpected pipeline error")
)

// PipelineError is the single error type returned by a Pipeline.
type PipelineError struct {
	Plugin  string
	Kind    Kind
	State   State
	Field   string // option or attribute name, when one is at fault
	Message string
	Err     error
}

func (e *PipelineError) Error() string {
	plugin := e.Plugin
	if plugin == "" {
		plugin = PluginName
	}
	return plugin + ": " + e.Message
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel matching e's Kind.
func (e *PipelineError) Is(target error) bool {
	switch target {
	case ErrConfiguration:
		return e.Kind == KindConfiguration
	case ErrIndicatorNotFound:
		return e.Kind == KindIndicatorNotFound
	case ErrAttributeResolution:
		return e.Kind == KindAttributeResolution
	case ErrUnexpected:
		return e.Kind == KindUnexpected
	}
	return false
}

// Report wraps err into a *PipelineError. An error that already is (or
// wraps) a *PipelineError is returned as that error with the plugin tag set;
// anything else becomes a KindUnexpected error keeping err's message.
// Report(nil) returns nil.
func Report(err error) *PipelineError {
	if err == nil {
		return nil
	}
	var pe *PipelineError
	if errors.As(err, &pe) {
		if pe.Plugin == "" {
			pe.Plugin = PluginName
		}
		return pe
	}
	return &PipelineError{
		Plugin:  PluginName,
		Kind:    KindUnexpected,
		Message: err.Error(),
		Err:     err,
	}
}

func configError(field, format string, args ...any) *PipelineError {
	return &PipelineError{
		Plugin:  PluginName,
		Kind:    KindConfiguration,
		State:   StateValidating,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	}
}
