package codegen

import (
	"fmt"
	"go/token"
	"maps"
	"path"
	"slices"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/Yamashou/gqlbuilder/introspection"
)

// builtinScalars maps the GraphQL built-in scalars to Go types.
var builtinScalars = map[string]string{
	"String":  "string",
	"Int":     "int32",
	"Float":   "float64",
	"Boolean": "bool",
	"ID":      "string",
}

// TypeExpr is a resolved Go type. Nullability stays explicit so callers can
// tell a required value from an optional one before it is rendered.
type TypeExpr struct {
	// Kind is the kind of the named type, or LIST.
	Kind introspection.TypeKind
	// Name is the Go identifier of a named type; empty for lists.
	Name string
	// Qual is the import path of a bound scalar living outside the generated package.
	Qual     string
	Elem     *TypeExpr
	Nullable bool
}

func (e TypeExpr) IsList() bool {
	return e.Elem != nil
}

// Code renders the expression: nullable named types become pointers, lists
// become slices and a nullable list becomes a pointer to a slice.
func (e TypeExpr) Code() *jen.Statement {
	var s *jen.Statement
	switch {
	case e.Elem != nil:
		s = jen.Index().Add(e.Elem.Code())
	case e.Qual != "":
		s = jen.Qual(e.Qual, e.Name)
	default:
		s = jen.Id(e.Name)
	}
	if e.Nullable {
		return jen.Op("*").Add(s)
	}
	return s
}

// String returns the Go notation of the expression, e.g. *[]*string.
func (e TypeExpr) String() string {
	var b strings.Builder
	if e.Nullable {
		b.WriteString("*")
	}
	switch {
	case e.Elem != nil:
		b.WriteString("[]")
		b.WriteString(e.Elem.String())
	case e.Qual != "":
		b.WriteString(path.Base(e.Qual))
		b.WriteString(".")
		b.WriteString(e.Name)
	default:
		b.WriteString(e.Name)
	}
	return b.String()
}

// Resolver maps schema type references to Go type expressions. It only ever
// looks at names, never at the referenced definitions, so references between
// object types may form arbitrary cycles.
type Resolver struct {
	scalars map[string]TypeExpr
}

// NewResolver returns a resolver knowing the built-in scalars plus bindings,
// which map a scalar name to a Go type: "string", "time.Time" or
// "github.com/shopspring/decimal.Decimal".
func NewResolver(bindings map[string]string) (*Resolver, error) {
	r := &Resolver{scalars: make(map[string]TypeExpr, len(builtinScalars)+len(bindings))}
	for name, goType := range builtinScalars {
		r.scalars[name] = TypeExpr{Kind: introspection.TypeKindScalar, Name: goType}
	}
	for _, name := range slices.Sorted(maps.Keys(bindings)) {
		expr, err := parseBinding(bindings[name])
		if err != nil {
			return nil, fmt.Errorf("scalar %s: %w", name, err)
		}
		r.scalars[name] = expr
	}
	return r, nil
}

func parseBinding(goType string) (TypeExpr, error) {
	goType = strings.TrimSpace(goType)
	expr := TypeExpr{Kind: introspection.TypeKindScalar, Name: goType}
	if i := strings.LastIndex(goType, "."); i >= 0 {
		expr.Qual, expr.Name = goType[:i], goType[i+1:]
		if expr.Qual == "" {
			return TypeExpr{}, fmt.Errorf("invalid Go type %q", goType)
		}
	}
	if !token.IsIdentifier(expr.Name) {
		return TypeExpr{}, fmt.Errorf("invalid Go type %q", goType)
	}
	return expr, nil
}

// IsBound reports whether the scalar maps to an existing Go type rather than a
// generated newtype.
func (r *Resolver) IsBound(scalar string) bool {
	_, ok := r.scalars[scalar]
	return ok
}

// Resolve maps ref to a Go type expression. Named types are nullable unless a
// NON_NULL wrapper says otherwise.
func (r *Resolver) Resolve(ref *introspection.TypeRef) (TypeExpr, error) {
	if ref == nil {
		return TypeExpr{}, shapeError("", "", "missing type reference")
	}

	switch ref.Kind {
	case introspection.TypeKindNonNull:
		if ref.OfType == nil {
			return TypeExpr{}, shapeError("", "", "NON_NULL reference without ofType")
		}
		if ref.OfType.Kind == introspection.TypeKindNonNull {
			return TypeExpr{}, shapeError("", "", "NON_NULL wrapping NON_NULL in %s", ref)
		}
		inner, err := r.Resolve(ref.OfType)
		if err != nil {
			return TypeExpr{}, err
		}
		inner.Nullable = false
		return inner, nil
	case introspection.TypeKindList:
		if ref.OfType == nil {
			return TypeExpr{}, shapeError("", "", "LIST reference without ofType")
		}
		elem, err := r.Resolve(ref.OfType)
		if err != nil {
			return TypeExpr{}, err
		}
		return TypeExpr{Kind: introspection.TypeKindList, Elem: &elem, Nullable: true}, nil
	case introspection.TypeKindScalar, introspection.TypeKindObject,
		introspection.TypeKindEnum, introspection.TypeKindInputObject:
		name := ref.TypeName()
		if name == "" {
			return TypeExpr{}, shapeError("", "", "%s reference without name", ref.Kind)
		}
		if ref.OfType != nil {
			return TypeExpr{}, shapeError("", "", "%s reference to %s carries ofType", ref.Kind, name)
		}
		if ref.Kind == introspection.TypeKindScalar {
			if bound, ok := r.scalars[name]; ok {
				bound.Nullable = true
				return bound, nil
			}
		}
		return TypeExpr{Kind: ref.Kind, Name: TypeIdentifier(name), Nullable: true}, nil
	case introspection.TypeKindInterface, introspection.TypeKindUnion:
		return TypeExpr{}, &SchemaError{
			Message: fmt.Sprintf("%s reference to %s is not supported", ref.Kind, ref.TypeName()),
			Kind:    ErrUnsupportedKind,
		}
	default:
		return TypeExpr{}, shapeError("", "", "unknown type kind %q in reference %s", ref.Kind, ref)
	}
}
