package codegen

import (
	"fmt"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/Yamashou/gqlbuilder/introspection"
)

// renderedField is the output of one object field: its accessor method and,
// when the field takes arguments, the holder type passed to it.
type renderedField struct {
	holder   jen.Code
	accessor jen.Code
}

// splitArgs partitions args into required (NON_NULL) and optional ones. Both
// keep the declaration order.
func splitArgs(args []*introspection.InputValue) (required, optional []*introspection.InputValue) {
	for _, arg := range args {
		if arg.Type.IsNonNull() {
			required = append(required, arg)
		} else {
			optional = append(optional, arg)
		}
	}
	return required, optional
}

func (g *generator) argsHolderName(owner, field string) string {
	if g.opts.QualifyArgs || g.sharedArgs[TypeIdentifier(field)] {
		return TypeIdentifier(owner) + TypeIdentifier(field) + "Args"
	}
	return TypeIdentifier(field) + "Args"
}

// renderField renders the accessor of field on the object owner. The accessor
// extends the selection with the field and returns a new instance of the
// field's type carrying the same connection and process.
func (g *generator) renderField(owner *introspection.FullType, ownerIdent string, field *introspection.FieldValue, members *namespace) (*renderedField, error) {
	ownerName := owner.TypeName()
	if field.Name == "" {
		return nil, shapeError(ownerName, "", "field without name")
	}

	method := MemberIdentifier(field.Name)
	if err := members.declare(method, field.Name); err != nil {
		return nil, err
	}

	out, err := g.resolver.Resolve(&field.Type)
	if err != nil {
		return nil, withLocation(err, ownerName, field.Name)
	}

	rf := &renderedField{}
	var params []jen.Code
	body := []jen.Code{
		jen.Id("q").Op(":=").Id("r").Dot("selection").Dot("Select").Call(jen.Lit(field.Name)),
	}

	if len(field.Args) > 0 {
		holder := g.argsHolderName(ownerName, field.Name)
		if err := g.types.declare(holder, fmt.Sprintf("arguments of %s.%s", ownerName, field.Name)); err != nil {
			return nil, err
		}
		rf.holder, err = g.renderArgsHolder(ownerName, holder, field)
		if err != nil {
			return nil, err
		}
		params = append(params, jen.Id("args").Op("*").Id(holder))
		body = append(body, jen.Id("q").Dot("Args").Call(jen.Id("args")))
	}

	var result jen.Code
	if out.Kind == introspection.TypeKindObject && !out.IsList() {
		result = jen.Op("*").Id(out.Name)
		body = append(body, jen.Return(jen.Op("&").Id(out.Name).Values(g.handles(false))))
	} else {
		result = jen.Op("*").Add(g.leaf(out))
		body = append(body, jen.Return(jen.Op("&").Add(g.leaf(out)).Values(g.handles(true))))
	}

	doc := docComment(deref(field.Description), deprecationNotice(field.IsDeprecated, field.DeprecationReason))
	rf.accessor = doc.Func().Params(jen.Id("r").Op("*").Id(ownerIdent)).Id(method).Params(params...).Add(result).Block(body...)

	return rf, nil
}

func (g *generator) leaf(out TypeExpr) *jen.Statement {
	return jen.Qual(g.opts.RuntimePath, "Leaf").Types(out.Code())
}

// handles propagates the receiver's connection and process and installs the
// extended selection q. Leaf exposes them as exported fields.
func (g *generator) handles(exported bool) jen.Dict {
	conn, proc, selection := "conn", "proc", "selection"
	if exported {
		conn, proc, selection = "Conn", "Proc", "Selection"
	}
	return jen.Dict{
		jen.Id(conn):      jen.Id("r").Dot("conn"),
		jen.Id(proc):      jen.Id("r").Dot("proc"),
		jen.Id(selection): jen.Id("q"),
	}
}

// renderArgsHolder renders the struct carrying the arguments of field, one
// member per argument in declaration order. Required members hold the value
// itself, optional ones a pointer.
func (g *generator) renderArgsHolder(owner, holder string, field *introspection.FieldValue) (jen.Code, error) {
	members := newNamespace(holder)
	fields := make([]jen.Code, 0, len(field.Args))
	for _, arg := range field.Args {
		if arg == nil {
			return nil, shapeError(owner, field.Name, "nil argument")
		}
		member, err := g.renderInputValue(owner+"."+field.Name, arg, members)
		if err != nil {
			return nil, err
		}
		fields = append(fields, member)
	}

	required, _ := splitArgs(field.Args)
	var notice string
	if len(required) > 0 {
		names := make([]string, 0, len(required))
		for _, arg := range required {
			names = append(names, MemberIdentifier(arg.Name))
		}
		notice = "Required: " + strings.Join(names, ", ") + "."
	}

	doc := docComment(fmt.Sprintf("%s holds the arguments of %s.%s.", holder, owner, field.Name), notice)
	return doc.Type().Id(holder).Struct(fields...), nil
}

// renderInputValue renders an argument or input field as a struct member. The
// json tag keeps the schema name for the runtime, which skips empty optional
// members.
func (g *generator) renderInputValue(owner string, in *introspection.InputValue, members *namespace) (jen.Code, error) {
	if in.Name == "" {
		return nil, shapeError(owner, "", "input value without name")
	}
	name := MemberIdentifier(in.Name)
	if err := members.declare(name, in.Name); err != nil {
		return nil, err
	}

	expr, err := g.resolver.Resolve(&in.Type)
	if err != nil {
		return nil, withLocation(err, owner, in.Name)
	}

	tag := in.Name
	if expr.Nullable {
		tag += ",omitempty"
	}

	doc := docComment(deref(in.Description), defaultNotice(in.DefaultValue))
	return doc.Id(name).Add(expr.Code()).Tag(map[string]string{"json": tag}), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
