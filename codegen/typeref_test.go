package codegen

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Yamashou/gqlbuilder/introspection"
)

func named(kind introspection.TypeKind, name string) *introspection.TypeRef {
	return &introspection.TypeRef{Kind: kind, Name: &name}
}

func nonNull(of *introspection.TypeRef) *introspection.TypeRef {
	return &introspection.TypeRef{Kind: introspection.TypeKindNonNull, OfType: of}
}

func list(of *introspection.TypeRef) *introspection.TypeRef {
	return &introspection.TypeRef{Kind: introspection.TypeKindList, OfType: of}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	r, err := NewResolver(map[string]string{
		"DateTime": "time.Time",
		"Decimal":  "github.com/shopspring/decimal.Decimal",
		"JSON":     "string",
	})
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}

	scalar := func(name string) *introspection.TypeRef { return named(introspection.TypeKindScalar, name) }

	tests := []struct {
		name string
		ref  *introspection.TypeRef
		want string
	}{
		{name: "nullable string", ref: scalar("String"), want: "*string"},
		{name: "required string", ref: nonNull(scalar("String")), want: "string"},
		{name: "int", ref: nonNull(scalar("Int")), want: "int32"},
		{name: "float", ref: scalar("Float"), want: "*float64"},
		{name: "boolean", ref: nonNull(scalar("Boolean")), want: "bool"},
		{name: "id", ref: nonNull(scalar("ID")), want: "string"},
		{name: "custom scalar", ref: scalar("CacheID"), want: "*CacheID"},
		{name: "bound scalar", ref: nonNull(scalar("DateTime")), want: "time.Time"},
		{name: "bound scalar full path", ref: scalar("Decimal"), want: "*decimal.Decimal"},
		{name: "bound builtin type", ref: nonNull(scalar("JSON")), want: "string"},
		{name: "object", ref: nonNull(named(introspection.TypeKindObject, "Container")), want: "Container"},
		{name: "enum", ref: named(introspection.TypeKindEnum, "Platform"), want: "*Platform"},
		{name: "input", ref: named(introspection.TypeKindInputObject, "ExecOpts"), want: "*ExecOpts"},
		{name: "[String]", ref: list(scalar("String")), want: "*[]*string"},
		{name: "[String!]", ref: list(nonNull(scalar("String"))), want: "*[]string"},
		{name: "[String]!", ref: nonNull(list(scalar("String"))), want: "[]*string"},
		{name: "[String!]!", ref: nonNull(list(nonNull(scalar("String")))), want: "[]string"},
		{name: "[[Int!]!]", ref: list(nonNull(list(nonNull(scalar("Int"))))), want: "*[][]int32"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := r.Resolve(tt.ref)
			if err != nil {
				t.Fatalf("Resolve(%s) error = %v", tt.ref, err)
			}
			if got.String() != tt.want {
				t.Errorf("Resolve(%s) = %s, want %s", tt.ref, got, tt.want)
			}
		})
	}
}

func TestResolve_Expr(t *testing.T) {
	t.Parallel()

	r, err := NewResolver(nil)
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}

	got, err := r.Resolve(list(nonNull(named(introspection.TypeKindEnum, "Platform"))))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	want := TypeExpr{
		Kind:     introspection.TypeKindList,
		Elem:     &TypeExpr{Kind: introspection.TypeKindEnum, Name: "Platform"},
		Nullable: true,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Resolve() mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_Errors(t *testing.T) {
	t.Parallel()

	r, err := NewResolver(nil)
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}

	tests := []struct {
		name string
		ref  *introspection.TypeRef
		want error
	}{
		{name: "nil", ref: nil, want: ErrSchemaShape},
		{name: "list without ofType", ref: list(nil), want: ErrSchemaShape},
		{name: "non null without ofType", ref: nonNull(nil), want: ErrSchemaShape},
		{name: "double non null", ref: nonNull(nonNull(named(introspection.TypeKindScalar, "String"))), want: ErrSchemaShape},
		{name: "named without name", ref: &introspection.TypeRef{Kind: introspection.TypeKindObject}, want: ErrSchemaShape},
		{
			name: "named with ofType",
			ref: &introspection.TypeRef{
				Kind:   introspection.TypeKindObject,
				Name:   named(introspection.TypeKindObject, "A").Name,
				OfType: named(introspection.TypeKindObject, "B"),
			},
			want: ErrSchemaShape,
		},
		{name: "interface", ref: named(introspection.TypeKindInterface, "Node"), want: ErrUnsupportedKind},
		{name: "union", ref: nonNull(named(introspection.TypeKindUnion, "Result")), want: ErrUnsupportedKind},
		{name: "unknown kind", ref: named("WIDGET", "Thing"), want: ErrSchemaShape},
		{name: "missing kind", ref: &introspection.TypeRef{}, want: ErrSchemaShape},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := r.Resolve(tt.ref)
			if !errors.Is(err, tt.want) {
				t.Errorf("Resolve() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNewResolver_InvalidBinding(t *testing.T) {
	t.Parallel()

	for _, goType := range []string{"", ".Time", "time.", "map[string]any"} {
		if _, err := NewResolver(map[string]string{"DateTime": goType}); err == nil {
			t.Errorf("NewResolver(%q) expected error", goType)
		}
	}
}

func TestResolver_IsBound(t *testing.T) {
	t.Parallel()

	r, err := NewResolver(map[string]string{"DateTime": "time.Time"})
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}
	for name, want := range map[string]bool{"String": true, "ID": true, "DateTime": true, "CacheID": false} {
		if got := r.IsBound(name); got != want {
			t.Errorf("IsBound(%q) = %v, want %v", name, got, want)
		}
	}
}
