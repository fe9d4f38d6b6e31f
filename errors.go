// Package springforge turns structural class-diagram descriptions into
// complete, packaged Spring Boot backend projects.
package springforge

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the failure kinds of the generation pipeline.
var (
	// ErrMalformedDiagram indicates a diagram that fails structural validation.
	ErrMalformedDiagram = errors.New("springforge: malformed diagram")
	// ErrUnmappableRelationship indicates a relationship referencing a missing class.
	ErrUnmappableRelationship = errors.New("springforge: unmappable relationship")
	// ErrTemplateRender indicates a template resolution or execution failure.
	ErrTemplateRender = errors.New("springforge: template render failed")
	// ErrPackaging indicates a filesystem or archive-creation failure.
	ErrPackaging = errors.New("springforge: packaging failed")
	// ErrInvalidConfig indicates a generation configuration error.
	ErrInvalidConfig = errors.New("springforge: invalid configuration")
)

// DiagramError represents a structural validation error in the raw diagram.
// The parse aborts on the first such error; no partial model is produced.
type DiagramError struct {
	ClassID string // Offending class id, if known.
	Class   string // Offending class name, if known.
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *DiagramError) Error() string {
	var b strings.Builder
	b.WriteString("springforge: malformed diagram")
	if e.ClassID != "" {
		b.WriteString(" (class id ")
		b.WriteString(e.ClassID)
		b.WriteString(")")
	}
	if e.Class != "" {
		b.WriteString(" class ")
		b.WriteString(e.Class)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *DiagramError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for DiagramError.
func (e *DiagramError) Is(target error) bool {
	return target == ErrMalformedDiagram
}

// NewDiagramError creates a new DiagramError.
func NewDiagramError(classID, className, message string, cause error) *DiagramError {
	return &DiagramError{
		ClassID: classID,
		Class:   className,
		Message: message,
		Cause:   cause,
	}
}

// RelationshipError represents a relationship that cannot be mapped, usually
// because one of its ends references a class id absent from the diagram.
type RelationshipError struct {
	RelationshipID string
	SourceID       string
	TargetID       string
	Message        string
}

// Error implements the error interface.
func (e *RelationshipError) Error() string {
	var b strings.Builder
	b.WriteString("springforge: unmappable relationship")
	if e.RelationshipID != "" {
		b.WriteString(" ")
		b.WriteString(e.RelationshipID)
	}
	if e.SourceID != "" || e.TargetID != "" {
		fmt.Fprintf(&b, " (%s -> %s)", e.SourceID, e.TargetID)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Is reports whether the target matches the sentinel error for RelationshipError.
func (e *RelationshipError) Is(target error) bool {
	return target == ErrUnmappableRelationship
}

// NewRelationshipError creates a new RelationshipError.
func NewRelationshipError(relID, sourceID, targetID, message string) *RelationshipError {
	return &RelationshipError{
		RelationshipID: relID,
		SourceID:       sourceID,
		TargetID:       targetID,
		Message:        message,
	}
}

// RenderError represents a template resolution or execution failure. It always
// carries the template name so the failing artifact kind can be identified.
type RenderError struct {
	Template string
	Message  string
	Cause    error
}

// Error implements the error interface.
func (e *RenderError) Error() string {
	var b strings.Builder
	b.WriteString("springforge: render error")
	if e.Template != "" {
		b.WriteString(" in template ")
		b.WriteString(e.Template)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *RenderError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for RenderError.
func (e *RenderError) Is(target error) bool {
	return target == ErrTemplateRender
}

// NewRenderError creates a new RenderError.
func NewRenderError(template, message string, cause error) *RenderError {
	return &RenderError{
		Template: template,
		Message:  message,
		Cause:    cause,
	}
}

// PackagingError represents a filesystem or archive-creation failure. It is
// fatal to the whole request; partial workspace files are left for inspection.
type PackagingError struct {
	Path    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *PackagingError) Error() string {
	var b strings.Builder
	b.WriteString("springforge: packaging error")
	if e.Path != "" {
		b.WriteString(" (path: ")
		b.WriteString(e.Path)
		b.WriteString(")")
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *PackagingError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for PackagingError.
func (e *PackagingError) Is(target error) bool {
	return target == ErrPackaging
}

// NewPackagingError creates a new PackagingError.
func NewPackagingError(path, message string, cause error) *PackagingError {
	return &PackagingError{
		Path:    path,
		Message: message,
		Cause:   cause,
	}
}

// ConfigError represents a generation configuration error. It is raised
// before any workspace is created, so there is nothing to clean up.
type ConfigError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("springforge: config error for %q (value: %v): %s", e.Field, e.Value, e.Message)
	}
	return fmt.Sprintf("springforge: config error for %q: %s", e.Field, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field string, value any, message string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// IsDiagramError reports whether the error is a DiagramError.
func IsDiagramError(err error) bool {
	var de *DiagramError
	return errors.As(err, &de)
}

// IsRelationshipError reports whether the error is a RelationshipError.
func IsRelationshipError(err error) bool {
	var re *RelationshipError
	return errors.As(err, &re)
}

// IsRenderError reports whether the error is a RenderError.
func IsRenderError(err error) bool {
	var re *RenderError
	return errors.As(err, &re)
}

// IsPackagingError reports whether the error is a PackagingError.
func IsPackagingError(err error) bool {
	var pe *PackagingError
	return errors.As(err, &pe)
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
