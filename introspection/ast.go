package introspection

import (
	"cmp"
	"slices"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
)

const defaultDeprecationReason = "No longer supported"

// FromAST converts a schema loaded from SDL into the introspection model, so
// that SDL files and introspection results feed the generator the same way.
//
// Types are ordered built-ins first and then by source file and position, which
// keeps the declaration order of the SDL and makes the result deterministic.
func FromAST(schema *ast.Schema) *Schema {
	defs := make([]*ast.Definition, 0, len(schema.Types))
	for _, def := range schema.Types {
		defs = append(defs, def)
	}
	slices.SortFunc(defs, compareDefinitions)

	c := &astConverter{schema: schema}
	s := &Schema{
		QueryType:        rootTypeName(schema.Query),
		MutationType:     rootTypeName(schema.Mutation),
		SubscriptionType: rootTypeName(schema.Subscription),
		Types:            make(FullTypes, 0, len(defs)),
	}
	for _, def := range defs {
		s.Types = append(s.Types, c.fullType(def))
	}

	names := make([]string, 0, len(schema.Directives))
	for name := range schema.Directives {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		s.Directives = append(s.Directives, c.directive(schema.Directives[name]))
	}

	return s
}

func compareDefinitions(a, b *ast.Definition) int {
	if a.BuiltIn != b.BuiltIn {
		if a.BuiltIn {
			return -1
		}
		return 1
	}
	if a.Position != nil && b.Position != nil {
		if c := cmp.Compare(sourceName(a.Position), sourceName(b.Position)); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Position.Start, b.Position.Start); c != 0 {
			return c
		}
	}
	return strings.Compare(a.Name, b.Name)
}

func sourceName(pos *ast.Position) string {
	if pos.Src == nil {
		return ""
	}
	return pos.Src.Name
}

func rootTypeName(def *ast.Definition) *TypeName {
	if def == nil {
		return nil
	}
	name := def.Name
	return &TypeName{Name: &name}
}

type astConverter struct {
	schema *ast.Schema
}

func (c *astConverter) fullType(def *ast.Definition) *FullType {
	t := &FullType{
		Kind:        TypeKind(def.Kind),
		Name:        ptr(def.Name),
		Description: optional(def.Description),
	}

	switch def.Kind {
	case ast.Object, ast.Interface:
		t.Fields = make([]*FieldValue, 0, len(def.Fields))
		for _, field := range def.Fields {
			// gqlparser injects __schema and __type into the query type
			if IsIntrospectionName(field.Name) {
				continue
			}
			t.Fields = append(t.Fields, c.field(field))
		}
		for _, name := range def.Interfaces {
			t.Interfaces = append(t.Interfaces, c.namedRef(name))
		}
	case ast.InputObject:
		t.InputFields = make([]*InputValue, 0, len(def.Fields))
		for _, field := range def.Fields {
			t.InputFields = append(t.InputFields, &InputValue{
				Name:         field.Name,
				Description:  optional(field.Description),
				Type:         c.typeRef(field.Type),
				DefaultValue: literal(field.DefaultValue),
			})
		}
	case ast.Enum:
		t.EnumValues = make([]*EnumValue, 0, len(def.EnumValues))
		for _, value := range def.EnumValues {
			reason, deprecated := deprecation(value.Directives)
			t.EnumValues = append(t.EnumValues, &EnumValue{
				Name:              value.Name,
				Description:       optional(value.Description),
				IsDeprecated:      deprecated,
				DeprecationReason: reason,
			})
		}
	case ast.Union:
		for _, name := range def.Types {
			t.PossibleTypes = append(t.PossibleTypes, c.namedRef(name))
		}
	}

	return t
}

func (c *astConverter) field(field *ast.FieldDefinition) *FieldValue {
	reason, deprecated := deprecation(field.Directives)
	f := &FieldValue{
		Name:              field.Name,
		Description:       optional(field.Description),
		Type:              c.typeRef(field.Type),
		IsDeprecated:      deprecated,
		DeprecationReason: reason,
		Args:              make([]*InputValue, 0, len(field.Arguments)),
	}
	for _, arg := range field.Arguments {
		f.Args = append(f.Args, c.inputValue(arg))
	}
	return f
}

func (c *astConverter) inputValue(arg *ast.ArgumentDefinition) *InputValue {
	return &InputValue{
		Name:         arg.Name,
		Description:  optional(arg.Description),
		Type:         c.typeRef(arg.Type),
		DefaultValue: literal(arg.DefaultValue),
	}
}

func (c *astConverter) directive(dir *ast.DirectiveDefinition) *DirectiveType {
	d := &DirectiveType{
		Name:        dir.Name,
		Description: optional(dir.Description),
	}
	for _, loc := range dir.Locations {
		d.Locations = append(d.Locations, string(loc))
	}
	for _, arg := range dir.Arguments {
		d.Args = append(d.Args, c.inputValue(arg))
	}
	return d
}

func (c *astConverter) typeRef(t *ast.Type) TypeRef {
	var ref TypeRef
	if t.Elem != nil {
		elem := c.typeRef(t.Elem)
		ref = TypeRef{Kind: TypeKindList, OfType: &elem}
	} else {
		ref = *c.namedRef(t.NamedType)
	}

	if t.NonNull {
		return TypeRef{Kind: TypeKindNonNull, OfType: &ref}
	}
	return ref
}

// namedRef leaves Kind empty for names the schema does not declare.
func (c *astConverter) namedRef(name string) *TypeRef {
	ref := &TypeRef{Name: ptr(name)}
	if def, ok := c.schema.Types[name]; ok {
		ref.Kind = TypeKind(def.Kind)
	}
	return ref
}

func deprecation(directives ast.DirectiveList) (*string, bool) {
	d := directives.ForName("deprecated")
	if d == nil {
		return nil, false
	}
	if arg := d.Arguments.ForName("reason"); arg != nil && arg.Value != nil {
		return ptr(arg.Value.Raw), true
	}
	return ptr(defaultDeprecationReason), true
}

func literal(v *ast.Value) *string {
	if v == nil {
		return nil
	}
	return ptr(v.String())
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func ptr(s string) *string {
	return &s
}
