package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for broad classification.
var (
	ErrConfigShape       = errors.New("invalid config shape")
	ErrInvalidPattern    = errors.New("invalid content pattern")
	ErrNoMatch           = errors.New("pattern matched no files")
	ErrNotFound          = errors.New("not found")
	ErrUnsupportedFormat = errors.New("unsupported config format")
)

// ConfigShapeError reports a configuration value of the wrong shape. It is fatal.
type ConfigShapeError struct {
	// Path is the configuration path, e.g. "theme.extend.fontFamily.sans".
	Path string
	Msg  string
	Err  error
}

// NewShapeError builds a ConfigShapeError with a formatted message.
func NewShapeError(path, format string, args ...any) *ConfigShapeError {
	return &ConfigShapeError{Path: path, Msg: fmt.Sprintf(format, args...)}
}

func (e *ConfigShapeError) Error() string {
	base := "invalid config"
	if e.Path != "" {
		base += fmt.Sprintf(" at %s", e.Path)
	}
	if e.Msg != "" {
		base += ": " + e.Msg
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *ConfigShapeError) Unwrap() error {
	return e.Err
}

func (e *ConfigShapeError) Is(target error) bool {
	return target == ErrConfigShape
}

// InvalidPatternError reports a syntactically malformed content glob. It is fatal.
type InvalidPatternError struct {
	Path    string
	Pattern string
	Err     error
}

func (e *InvalidPatternError) Error() string {
	msg := fmt.Sprintf("invalid content pattern at %s: %q", e.Path, e.Pattern)
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *InvalidPatternError) Unwrap() error {
	return e.Err
}

func (e *InvalidPatternError) Is(target error) bool {
	return target == ErrInvalidPattern
}

// NoMatchWarning reports a content pattern that matched no files.
// It is recoverable: the build continues with an empty contribution.
type NoMatchWarning struct {
	Path    string
	Pattern string
}

func (w NoMatchWarning) Error() string {
	return fmt.Sprintf("content pattern at %s matched no files: %q", w.Path, w.Pattern)
}

func (w NoMatchWarning) Is(target error) bool {
	return target == ErrNoMatch
}

// ErrorKind is a coarse-grained categorization for I/O errors.
type ErrorKind string

const (
	KindNotFound      ErrorKind = "not_found"
	KindInvalidConfig ErrorKind = "invalid_config"
	KindUnsupported   ErrorKind = "unsupported"
)

// OpError wraps an underlying error with operation context and a kind.
type OpError struct {
	Op   string
	Kind ErrorKind
	Path string
	Err  error
}

func (e *OpError) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Path != "" {
		base += fmt.Sprintf(" (path=%s)", e.Path)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *OpError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsKind classifies an error by its OpError kind.
func IsKind(err error, kind ErrorKind) bool {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind == kind
	}
	return false
}

// IsFatal reports whether err should abort the current build cycle.
// NoMatchWarning is the only recoverable error.
func IsFatal(err error) bool {
	return err != nil && !errors.Is(err, ErrNoMatch)
}
