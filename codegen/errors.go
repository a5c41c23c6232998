package codegen

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSchemaShape indicates a type or reference that violates the introspection model.
	ErrSchemaShape = errors.New("gqlbuilder: malformed schema")
	// ErrUnsupportedKind indicates a type kind the generator does not bind.
	ErrUnsupportedKind = errors.New("gqlbuilder: unsupported type kind")
	// ErrNameCollision indicates two schema names mapping to one Go identifier.
	ErrNameCollision = errors.New("gqlbuilder: name collision")
)

// SchemaError reports a schema the generator refuses to render.
type SchemaError struct {
	Type    string // schema type name, if known
	Field   string // field, argument or enum value, if applicable
	Message string
	Kind    error // ErrSchemaShape or ErrUnsupportedKind
	Cause   error
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("gqlbuilder: schema error")
	if e.Type != "" {
		b.WriteString(" on type ")
		b.WriteString(e.Type)
	}
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
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

// Is reports whether target is the sentinel classifying e.
func (e *SchemaError) Is(target error) bool {
	return target == e.Kind
}

func (e *SchemaError) Unwrap() error {
	return e.Cause
}

func shapeError(typeName, field, format string, args ...any) *SchemaError {
	return &SchemaError{
		Type:    typeName,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
		Kind:    ErrSchemaShape,
	}
}

// withLocation fills in the type and field of a SchemaError raised without them.
func withLocation(err error, typeName, field string) error {
	var se *SchemaError
	if errors.As(err, &se) {
		if se.Type == "" {
			se.Type = typeName
		}
		if se.Field == "" {
			se.Field = field
		}
	}
	return err
}

// CollisionError reports two schema names normalizing to the same identifier.
type CollisionError struct {
	Scope      string // "package" or the Go type owning the members
	Identifier string
	First      string
	Second     string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("gqlbuilder: name collision in %s: %q and %q both map to %s", e.Scope, e.First, e.Second, e.Identifier)
}

func (e *CollisionError) Is(target error) bool {
	return target == ErrNameCollision
}
