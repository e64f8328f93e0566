package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorCode identifies a class of failure independently of its message
type ErrorCode string

const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Configuration and registry errors
	ErrConfigLoad                 ErrorCode = "CONFIG_LOAD"
	ErrConfigSave                 ErrorCode = "CONFIG_SAVE"
	ErrUnsupportedConfigVersion   ErrorCode = "UNSUPPORTED_CONFIG_VERSION"
	ErrRegistryLoad               ErrorCode = "REGISTRY_LOAD"
	ErrRegistrySave               ErrorCode = "REGISTRY_SAVE"
	ErrUnsupportedRegistryVersion ErrorCode = "UNSUPPORTED_REGISTRY_VERSION"

	// Template errors
	ErrTemplateNotFound    ErrorCode = "TEMPLATE_NOT_FOUND"
	ErrTemplateExists      ErrorCode = "TEMPLATE_EXISTS"
	ErrTemplatePathMissing ErrorCode = "TEMPLATE_PATH_MISSING"

	// Materialization preconditions
	ErrDangerousTarget         ErrorCode = "DANGEROUS_TARGET"
	ErrTargetNotEmpty          ErrorCode = "TARGET_NOT_EMPTY"
	ErrFilesWouldBeOverwritten ErrorCode = "FILES_WOULD_BE_OVERWRITTEN"
	ErrInvalidExcludePattern   ErrorCode = "INVALID_EXCLUDE_PATTERN"
	ErrSymlinkUnsupported      ErrorCode = "SYMLINK_UNSUPPORTED"
	ErrAborted                 ErrorCode = "ABORTED"

	// External processes
	ErrGitIdentityMissing ErrorCode = "GIT_IDENTITY_MISSING"
	ErrGitCommand         ErrorCode = "GIT_COMMAND"
	ErrHookFailed         ErrorCode = "HOOK_FAILED"

	// FileSystem errors
	ErrFileAccess    ErrorCode = "FILE_ACCESS"
	ErrFileWrite     ErrorCode = "FILE_WRITE"
	ErrSymlinkCreate ErrorCode = "SYMLINK_CREATE"
	ErrDirCreate     ErrorCode = "DIR_CREATE"
)

// TemplativeError is a structured error with a stable code and optional details
type TemplativeError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error renders the message followed by the wrapped cause, if any
func (e *TemplativeError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Wrapped)
	}
	return e.Message
}

// Unwrap implements the errors.Unwrap interface
func (e *TemplativeError) Unwrap() error {
	return e.Wrapped
}

// Is matches any TemplativeError carrying the same code
func (e *TemplativeError) Is(target error) bool {
	var targetErr *TemplativeError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new TemplativeError with the given code and message
func New(code ErrorCode, message string) *TemplativeError {
	return &TemplativeError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new TemplativeError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *TemplativeError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error; a nil err yields nil
func Wrap(err error, code ErrorCode, message string) *TemplativeError {
	if err == nil {
		return nil
	}
	e := New(code, message)
	e.Wrapped = err
	return e
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *TemplativeError {
	if err == nil {
		return nil
	}
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// WithDetail adds a detail to the error
func (e *TemplativeError) WithDetail(key string, value interface{}) *TemplativeError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if any error in the chain has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var tErr *TemplativeError
	for err != nil {
		if errors.As(err, &tErr) {
			if tErr.Code == code {
				return true
			}
			err = tErr.Wrapped
			continue
		}
		return false
	}
	return false
}

// GetErrorCode returns the outermost error code, or ErrUnknown
func GetErrorCode(err error) ErrorCode {
	var tErr *TemplativeError
	if errors.As(err, &tErr) {
		return tErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details of the outermost TemplativeError
func GetErrorDetails(err error) map[string]interface{} {
	var tErr *TemplativeError
	if errors.As(err, &tErr) {
		return tErr.Details
	}
	return nil
}

// DangerousTarget reports a refusal to materialize into path
func DangerousTarget(path string) *TemplativeError {
	return Newf(ErrDangerousTarget, "refusing to operate on %s", path).
		WithDetail("path", path)
}

// TargetNotEmpty reports a Strict-mode target that already has entries
func TargetNotEmpty(path string) *TemplativeError {
	return Newf(ErrTargetNotEmpty,
		"target directory is not empty: %s (use --write-mode to merge into it)", path).
		WithDetail("path", path)
}

// FilesWouldBeOverwritten lists every destination path that collides.
// The list is sorted so the message is stable.
func FilesWouldBeOverwritten(paths []string) *TemplativeError {
	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)
	return Newf(ErrFilesWouldBeOverwritten,
		"%d file(s) would be overwritten:\n  %s", len(sorted), strings.Join(sorted, "\n  ")).
		WithDetail("paths", sorted)
}

// CollidingPaths extracts the path list carried by FilesWouldBeOverwritten
func CollidingPaths(err error) []string {
	var tErr *TemplativeError
	for err != nil && errors.As(err, &tErr) {
		if tErr.Code == ErrFilesWouldBeOverwritten {
			paths, _ := tErr.Details["paths"].([]string)
			return paths
		}
		err = tErr.Wrapped
	}
	return nil
}

// TemplateNotFound reports a registry miss
func TemplateNotFound(name string) *TemplativeError {
	return Newf(ErrTemplateNotFound, "template not found: %s", name).
		WithDetail("name", name)
}

// TemplateExists reports a duplicate template name
func TemplateExists(name string) *TemplativeError {
	return Newf(ErrTemplateExists, "template name already exists: %s", name).
		WithDetail("name", name)
}

// TemplatePathMissing reports a template source that is not a readable directory
func TemplatePathMissing(path string) *TemplativeError {
	return Newf(ErrTemplatePathMissing, "template path missing or unreadable: %s", path).
		WithDetail("path", path)
}

// Chain flattens the cause chain of err, outermost first.
// Messages of wrapping errors are trimmed so that each cause appears once.
func Chain(err error) []string {
	var chain []string
	for err != nil {
		var msg string
		var next error
		if tErr, ok := err.(*TemplativeError); ok {
			msg, next = tErr.Message, tErr.Wrapped
		} else {
			next = errors.Unwrap(err)
			msg = err.Error()
			if next != nil {
				msg = strings.TrimSuffix(msg, ": "+next.Error())
			}
		}
		chain = append(chain, msg)
		err = next
	}
	return chain
}
