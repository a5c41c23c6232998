package introspection

import "strings"

type TypeKind string

const (
	TypeKindScalar      TypeKind = "SCALAR"
	TypeKindObject      TypeKind = "OBJECT"
	TypeKindInterface   TypeKind = "INTERFACE"
	TypeKindUnion       TypeKind = "UNION"
	TypeKindEnum        TypeKind = "ENUM"
	TypeKindInputObject TypeKind = "INPUT_OBJECT"
	TypeKindList        TypeKind = "LIST"
	TypeKindNonNull     TypeKind = "NON_NULL"
)

// Valid reports whether k is one of the kinds defined by the introspection system.
func (k TypeKind) Valid() bool {
	switch k {
	case TypeKindScalar, TypeKindObject, TypeKindInterface, TypeKindUnion,
		TypeKindEnum, TypeKindInputObject, TypeKindList, TypeKindNonNull:
		return true
	}
	return false
}

// IsWrapper reports whether k wraps another type reference instead of naming one.
func (k TypeKind) IsWrapper() bool {
	return k == TypeKindList || k == TypeKindNonNull
}

type FullTypes []*FullType

func (fs FullTypes) NameMap() map[string]*FullType {
	typeMap := make(map[string]*FullType)
	for _, typ := range fs {
		if typ.Name == nil {
			continue
		}
		typeMap[*typ.Name] = typ
	}

	return typeMap
}

type FullType struct {
	Kind          TypeKind      `json:"kind"`
	Name          *string       `json:"name"`
	Description   *string       `json:"description"`
	Fields        []*FieldValue `json:"fields"`
	InputFields   []*InputValue `json:"inputFields"`
	Interfaces    []*TypeRef    `json:"interfaces"`
	EnumValues    []*EnumValue  `json:"enumValues"`
	PossibleTypes []*TypeRef    `json:"possibleTypes"`
}

func (t *FullType) TypeName() string {
	return deref(t.Name)
}

func (t *FullType) DescriptionText() string {
	return deref(t.Description)
}

type FieldValue struct {
	Type              TypeRef       `json:"type"`
	Description       *string       `json:"description"`
	DeprecationReason *string       `json:"deprecationReason"`
	Name              string        `json:"name"`
	Args              []*InputValue `json:"args"`
	IsDeprecated      bool          `json:"isDeprecated"`
}

type InputValue struct {
	Type         TypeRef `json:"type"`
	Description  *string `json:"description"`
	DefaultValue *string `json:"defaultValue"`
	Name         string  `json:"name"`
}

type EnumValue struct {
	Description       *string `json:"description"`
	DeprecationReason *string `json:"deprecationReason"`
	Name              string  `json:"name"`
	IsDeprecated      bool    `json:"isDeprecated"`
}

type TypeRef struct {
	Name   *string  `json:"name"`
	OfType *TypeRef `json:"ofType"`
	Kind   TypeKind `json:"kind"`
}

func (r *TypeRef) TypeName() string {
	return deref(r.Name)
}

func (r *TypeRef) IsNonNull() bool {
	return r != nil && r.Kind == TypeKindNonNull
}

// NamedType unwraps LIST and NON_NULL until it reaches the named type.
// It returns nil when the chain is broken.
func (r *TypeRef) NamedType() *TypeRef {
	for r != nil && r.Kind.IsWrapper() {
		r = r.OfType
	}
	return r
}

// String renders the reference in GraphQL notation, e.g. [String!]!.
func (r *TypeRef) String() string {
	if r == nil {
		return ""
	}
	switch r.Kind {
	case TypeKindNonNull:
		return r.OfType.String() + "!"
	case TypeKindList:
		return "[" + r.OfType.String() + "]"
	default:
		return r.TypeName()
	}
}

type TypeName struct {
	Name *string `json:"name"`
}

type Schema struct {
	QueryType        *TypeName        `json:"queryType"`
	MutationType     *TypeName        `json:"mutationType"`
	SubscriptionType *TypeName        `json:"subscriptionType"`
	Types            FullTypes        `json:"types"`
	Directives       []*DirectiveType `json:"directives"`
}

// RootOperation pairs an operation keyword with the type it is rooted at.
type RootOperation struct {
	Operation string
	TypeName  string
}

// RootOperations returns the root operation types declared by the schema,
// in query, mutation, subscription order.
func (s *Schema) RootOperations() []RootOperation {
	var roots []RootOperation
	for _, r := range []struct {
		op  string
		ref *TypeName
	}{
		{"query", s.QueryType},
		{"mutation", s.MutationType},
		{"subscription", s.SubscriptionType},
	} {
		if r.ref == nil || deref(r.ref.Name) == "" {
			continue
		}
		roots = append(roots, RootOperation{Operation: r.op, TypeName: *r.ref.Name})
	}
	return roots
}

type Query struct {
	Schema Schema `json:"__schema"`
}

type DirectiveType struct {
	Name        string        `json:"name"`
	Description *string       `json:"description"`
	Locations   []string      `json:"locations"`
	Args        []*InputValue `json:"args"`
}

// IsIntrospectionName reports whether name belongs to the reserved introspection namespace.
func IsIntrospectionName(name string) bool {
	return strings.HasPrefix(name, "__")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
