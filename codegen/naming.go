package codegen

import (
	"strings"
	"unicode"

	"github.com/99designs/gqlgen/codegen/templates"
)

// TypeIdentifier maps a schema type name to its Go type name.
func TypeIdentifier(name string) string {
	return templates.ToGo(name)
}

// MemberIdentifier maps a field, argument or input field name to the exported
// Go name of the generated method or struct member.
func MemberIdentifier(name string) string {
	return templates.ToGo(name)
}

// EnumValueIdentifier names the constant of an enum value: Platform + LINUX_AMD64
// becomes PlatformLinuxAmd64.
func EnumValueIdentifier(enum, value string) string {
	if isScreamingCase(value) {
		value = strings.ToLower(value)
	}
	return TypeIdentifier(enum) + templates.ToGo(value)
}

func isScreamingCase(s string) bool {
	hasUpper := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasUpper = true
		}
	}
	return hasUpper
}

// namespace records which schema name claimed each identifier of one Go scope.
type namespace struct {
	scope string
	names map[string]string
}

func newNamespace(scope string) *namespace {
	return &namespace{scope: scope, names: make(map[string]string)}
}

// declare claims ident for source. Declaring the same pair twice is allowed.
func (n *namespace) declare(ident, source string) error {
	if prev, ok := n.names[ident]; ok && prev != source {
		return &CollisionError{Scope: n.scope, Identifier: ident, First: prev, Second: source}
	}
	n.names[ident] = source
	return nil
}
