package codegen

import (
	"errors"
	"fmt"
	"go/token"

	"github.com/Yamashou/gqlbuilder/introspection"
)

const (
	DefaultPackage     = "gen"
	DefaultFilename    = "bindings_gen.go"
	DefaultRuntimePath = "github.com/Yamashou/gqlbuilder/querybuilder"
)

// Options configures a generation run. Zero values fall back to the defaults.
type Options struct {
	// Package is the name of the generated package.
	Package string
	// Filename is the name the output is formatted as.
	Filename string
	// RuntimePath is the import path of the querybuilder runtime.
	RuntimePath string
	// Scalars binds scalar names to existing Go types, e.g. DateTime: time.Time.
	Scalars map[string]string
	// QualifyArgs prefixes argument holders with their owner type name.
	QualifyArgs bool
}

func (o Options) withDefaults() Options {
	if o.Package == "" {
		o.Package = DefaultPackage
	}
	if o.Filename == "" {
		o.Filename = DefaultFilename
	}
	if o.RuntimePath == "" {
		o.RuntimePath = DefaultRuntimePath
	}
	return o
}

type generator struct {
	opts       Options
	resolver   *Resolver
	// roots maps root operation type names to their operation keywords, in
	// query, mutation, subscription order.
	roots      map[string][]string
	types      *namespace
	// sharedArgs holds the field identifiers taking arguments on more than one
	// object type. Their holders are always qualified with the owner.
	sharedArgs map[string]bool
	handlers   []handler
}

// Generate renders the Go bindings of schema. It either returns the whole
// formatted file or an error and no output.
func Generate(schema *introspection.Schema, opts Options) ([]byte, error) {
	if schema == nil {
		return nil, errors.New("gqlbuilder: nil schema")
	}
	opts = opts.withDefaults()
	if !token.IsIdentifier(opts.Package) {
		return nil, fmt.Errorf("gqlbuilder: invalid package name %q", opts.Package)
	}

	resolver, err := NewResolver(opts.Scalars)
	if err != nil {
		return nil, fmt.Errorf("gqlbuilder: %w", err)
	}

	g := &generator{
		opts:     opts,
		resolver: resolver,
		roots:    make(map[string][]string),
		types:    newNamespace("package " + opts.Package),
	}
	g.sharedArgs = sharedArgs(schema.Types)
	for _, root := range schema.RootOperations() {
		g.roots[root.TypeName] = append(g.roots[root.TypeName], root.Operation)
	}
	g.handlers = []handler{
		&objectHandler{g: g},
		&inputObjectHandler{g: g},
		&enumHandler{g: g},
		&scalarHandler{g: g},
	}

	fragments, err := g.render(schema.Types)
	if err != nil {
		return nil, err
	}
	return newEmitter(opts).emit(fragments)
}

func (g *generator) render(types introspection.FullTypes) ([]*Fragment, error) {
	fragments := make([]*Fragment, 0, len(types))
	for _, t := range types {
		if t == nil {
			return nil, shapeError("", "", "nil type")
		}
		name := t.TypeName()
		if name == "" {
			return nil, shapeError("", "", "%s type without name", t.Kind)
		}
		if introspection.IsIntrospectionName(name) {
			continue
		}

		h, err := g.dispatch(t)
		if err != nil {
			return nil, err
		}
		frag, err := h.render(t)
		if err != nil {
			return nil, withLocation(err, name, "")
		}
		fragments = append(fragments, frag)
	}
	return fragments, nil
}

func (g *generator) dispatch(t *introspection.FullType) (handler, error) {
	for _, h := range g.handlers {
		if h.predicate(t) {
			return h, nil
		}
	}
	switch t.Kind {
	case introspection.TypeKindInterface, introspection.TypeKindUnion:
		return nil, &SchemaError{
			Type:    t.TypeName(),
			Message: fmt.Sprintf("%s types are not supported", t.Kind),
			Kind:    ErrUnsupportedKind,
		}
	default:
		return nil, shapeError(t.TypeName(), "", "cannot render type of kind %q", t.Kind)
	}
}

// sharedArgs finds the fields with arguments declared by several object types,
// e.g. Container.file(path) and Directory.file(path).
func sharedArgs(types introspection.FullTypes) map[string]bool {
	owners := make(map[string]int)
	for _, t := range types {
		if t == nil || t.Kind != introspection.TypeKindObject || introspection.IsIntrospectionName(t.TypeName()) {
			continue
		}
		seen := make(map[string]bool)
		for _, field := range t.Fields {
			if field == nil || len(field.Args) == 0 {
				continue
			}
			ident := TypeIdentifier(field.Name)
			if !seen[ident] {
				seen[ident] = true
				owners[ident]++
			}
		}
	}

	shared := make(map[string]bool)
	for ident, n := range owners {
		if n > 1 {
			shared[ident] = true
		}
	}
	return shared
}
