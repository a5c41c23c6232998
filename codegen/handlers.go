package codegen

import (
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/Yamashou/gqlbuilder/introspection"
)

// Fragment holds the declarations rendered for one schema type, in the order
// they are emitted. Types that need no Go declaration yield an empty fragment.
type Fragment struct {
	Name  string
	Decls []jen.Code
}

type handler interface {
	predicate(t *introspection.FullType) bool
	render(t *introspection.FullType) (*Fragment, error)
}

type objectHandler struct{ g *generator }

func (h *objectHandler) predicate(t *introspection.FullType) bool {
	return t.Kind == introspection.TypeKindObject
}

// render emits the argument holders, the struct, a constructor for root
// operation types and one accessor per field.
func (h *objectHandler) render(t *introspection.FullType) (*Fragment, error) {
	g := h.g
	name := TypeIdentifier(t.TypeName())
	if err := g.types.declare(name, t.TypeName()); err != nil {
		return nil, err
	}

	members := newNamespace(name)
	var holders, accessors []jen.Code
	for _, field := range t.Fields {
		if field == nil {
			return nil, shapeError(t.TypeName(), "", "nil field")
		}
		rf, err := g.renderField(t, name, field, members)
		if err != nil {
			return nil, err
		}
		if rf.holder != nil {
			holders = append(holders, rf.holder)
		}
		accessors = append(accessors, rf.accessor)
	}

	frag := &Fragment{Name: t.TypeName()}
	frag.Decls = append(frag.Decls, holders...)
	frag.Decls = append(frag.Decls, docComment(t.DescriptionText()).Type().Id(name).Struct(
		jen.Id("conn").Qual(g.opts.RuntimePath, "ConnectParams"),
		jen.Id("proc").Op("*").Qual("os", "Process"),
		jen.Id("selection").Op("*").Qual(g.opts.RuntimePath, "Selection"),
	))

	// a type rooting several operations gets one constructor per operation;
	// the first keeps the plain New<Type> name
	for i, op := range g.roots[t.TypeName()] {
		ctor := "New" + name
		if i > 0 {
			ctor += TypeIdentifier(op)
		}
		decl, err := h.constructor(t.TypeName(), name, ctor, op)
		if err != nil {
			return nil, err
		}
		frag.Decls = append(frag.Decls, decl)
	}

	frag.Decls = append(frag.Decls, accessors...)
	return frag, nil
}

func (h *objectHandler) constructor(typeName, name, ctor, op string) (jen.Code, error) {
	g := h.g
	if err := g.types.declare(ctor, op+" constructor of "+typeName); err != nil {
		return nil, err
	}

	doc := docComment(fmt.Sprintf("%s returns the %s root with an empty selection.", ctor, op))
	return doc.Func().Id(ctor).Params(
		jen.Id("conn").Qual(g.opts.RuntimePath, "ConnectParams"),
		jen.Id("proc").Op("*").Qual("os", "Process"),
	).Op("*").Id(name).Block(
		jen.Return(jen.Op("&").Id(name).Values(jen.Dict{
			jen.Id("conn"):      jen.Id("conn"),
			jen.Id("proc"):      jen.Id("proc"),
			jen.Id("selection"): jen.Qual(g.opts.RuntimePath, "Root").Call(jen.Lit(op)),
		})),
	), nil
}

type inputObjectHandler struct{ g *generator }

func (h *inputObjectHandler) predicate(t *introspection.FullType) bool {
	return t.Kind == introspection.TypeKindInputObject
}

func (h *inputObjectHandler) render(t *introspection.FullType) (*Fragment, error) {
	g := h.g
	name := TypeIdentifier(t.TypeName())
	if err := g.types.declare(name, t.TypeName()); err != nil {
		return nil, err
	}

	members := newNamespace(name)
	fields := make([]jen.Code, 0, len(t.InputFields))
	for _, in := range t.InputFields {
		if in == nil {
			return nil, shapeError(t.TypeName(), "", "nil input field")
		}
		member, err := g.renderInputValue(t.TypeName(), in, members)
		if err != nil {
			return nil, err
		}
		fields = append(fields, member)
	}

	return &Fragment{
		Name:  t.TypeName(),
		Decls: []jen.Code{docComment(t.DescriptionText()).Type().Id(name).Struct(fields...)},
	}, nil
}

type enumHandler struct{ g *generator }

func (h *enumHandler) predicate(t *introspection.FullType) bool {
	return t.Kind == introspection.TypeKindEnum
}

// render emits a string newtype, one constant per value and a MarshalGQL
// method writing the bare literal into argument lists.
func (h *enumHandler) render(t *introspection.FullType) (*Fragment, error) {
	g := h.g
	name := TypeIdentifier(t.TypeName())
	if err := g.types.declare(name, t.TypeName()); err != nil {
		return nil, err
	}

	defs := make([]jen.Code, 0, len(t.EnumValues))
	for _, v := range t.EnumValues {
		if v == nil || v.Name == "" {
			return nil, shapeError(t.TypeName(), "", "enum value without name")
		}
		ident := EnumValueIdentifier(t.TypeName(), v.Name)
		if err := g.types.declare(ident, t.TypeName()+"."+v.Name); err != nil {
			return nil, err
		}
		doc := docComment(deref(v.Description), deprecationNotice(v.IsDeprecated, v.DeprecationReason))
		defs = append(defs, doc.Id(ident).Id(name).Op("=").Lit(v.Name))
	}

	frag := &Fragment{Name: t.TypeName()}
	frag.Decls = append(frag.Decls, docComment(t.DescriptionText()).Type().Id(name).String())
	if len(defs) > 0 {
		frag.Decls = append(frag.Decls, jen.Const().Defs(defs...))
	}
	frag.Decls = append(frag.Decls, jen.Func().Params(jen.Id("e").Id(name)).Id("MarshalGQL").Params(
		jen.Id("w").Qual("io", "Writer"),
	).Block(
		jen.Qual("io", "WriteString").Call(jen.Id("w"), jen.String().Call(jen.Id("e"))),
	))
	return frag, nil
}

type scalarHandler struct{ g *generator }

func (h *scalarHandler) predicate(t *introspection.FullType) bool {
	return t.Kind == introspection.TypeKindScalar
}

// render emits a string newtype for custom scalars. Built-in and bound scalars
// map to existing Go types.
func (h *scalarHandler) render(t *introspection.FullType) (*Fragment, error) {
	g := h.g
	frag := &Fragment{Name: t.TypeName()}
	if g.resolver.IsBound(t.TypeName()) {
		return frag, nil
	}

	name := TypeIdentifier(t.TypeName())
	if err := g.types.declare(name, t.TypeName()); err != nil {
		return nil, err
	}
	frag.Decls = append(frag.Decls, docComment(t.DescriptionText()).Type().Id(name).String())
	return frag, nil
}
