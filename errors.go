package timings

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrInvalidTag indicates a struct tag has an invalid format or value.
	ErrInvalidTag = errors.New("invalid tag")

	// ErrUnresolvedCallback indicates a callback reference names nothing registered.
	ErrUnresolvedCallback = errors.New("unresolved callback")

	// ErrUnknownType indicates a type name or Go type is not registered.
	ErrUnknownType = errors.New("unknown type")

	// ErrTagConflict indicates a class tag is already assigned to another type.
	ErrTagConflict = errors.New("class tag conflict")

	// ErrDuplicateType indicates a type or type name was registered twice.
	ErrDuplicateType = errors.New("duplicate type")

	// ErrDuplicateCallback indicates a callback name was registered twice.
	ErrDuplicateCallback = errors.New("duplicate callback")

	// ErrSealed indicates the registry no longer accepts registrations.
	ErrSealed = errors.New("registry sealed")

	// ErrMissingParent indicates an @key field was materialized without a parent context.
	ErrMissingParent = errors.New("missing parent context")

	// ErrCallback indicates a registered callback returned an error.
	ErrCallback = errors.New("callback failed")

	// ErrInit indicates a post-construction hook rejected an instance.
	ErrInit = errors.New("init failed")

	// ErrDecode indicates a decoder failed to decode input data.
	ErrDecode = errors.New("decode failed")
)

// ConfigError represents a registration error.
// It wraps a sentinel error with the type, field and reference involved.
type ConfigError struct {
	Err   error  // Underlying sentinel error (ErrInvalidTag, ErrUnresolvedCallback, etc.)
	Type  string // Registered type name
	Field string // Field name that triggered the error
	Ref   string // Offending tag value or callback reference
}

func (e *ConfigError) Error() string {
	switch {
	case e.Field != "" && e.Ref != "":
		return fmt.Sprintf("%s %q (field %s.%s)", e.Err.Error(), e.Ref, e.Type, e.Field)
	case e.Ref != "" && e.Type != "":
		return fmt.Sprintf("%s %q (type %s)", e.Err.Error(), e.Ref, e.Type)
	case e.Ref != "":
		return fmt.Sprintf("%s %q", e.Err.Error(), e.Ref)
	case e.Field != "":
		return fmt.Sprintf("%s (field %s.%s)", e.Err.Error(), e.Type, e.Field)
	case e.Type != "":
		return fmt.Sprintf("%s (type %s)", e.Err.Error(), e.Type)
	}
	return e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// MaterializeError represents a failure while populating an instance.
// Data-shape problems never produce one; only contract violations and
// failing callbacks or hooks do.
type MaterializeError struct {
	Err   error  // Underlying sentinel error (ErrMissingParent, ErrCallback, ErrInit)
	Type  string // Type being materialized
	Path  string // Context path of the failing field
	Cause error  // Original error from the callback or hook
}

func (e *MaterializeError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Type, e.Err.Error())
	if e.Path != "" {
		msg = fmt.Sprintf("%s at %s: %s", e.Type, e.Path, e.Err.Error())
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *MaterializeError) Unwrap() error {
	return e.Err
}

// DecodeError represents a decoder failure.
type DecodeError struct {
	ContentType string // Decoder content type
	Cause       error  // Original error from the decoder
}

func (e *DecodeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s %s: %v", ErrDecode.Error(), e.ContentType, e.Cause)
	}
	return fmt.Sprintf("%s %s", ErrDecode.Error(), e.ContentType)
}

func (e *DecodeError) Unwrap() error {
	return ErrDecode
}

// newConfigError creates a ConfigError for registration failures.
func newConfigError(sentinel error, typeName, field, ref string) error {
	return &ConfigError{
		Err:   sentinel,
		Type:  typeName,
		Field: field,
		Ref:   ref,
	}
}

// newMaterializeError creates a MaterializeError for failures during Create.
func newMaterializeError(sentinel error, typeName string, c *Context, cause error) error {
	return &MaterializeError{
		Err:   sentinel,
		Type:  typeName,
		Path:  c.Path(),
		Cause: cause,
	}
}
