// Package querybuilder accumulates GraphQL selections for the generated
// bindings and renders them as query documents.
package querybuilder

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptySelection is returned when building a document that selects no field.
var ErrEmptySelection = errors.New("querybuilder: empty selection")

// Selection is one field of a query chain. Every Select returns a new
// Selection pointing at its parent, so chains sharing a prefix never
// interfere with each other.
type Selection struct {
	name string
	// args is the rendered argument list; argsErr is reported by Build.
	args    string
	argsErr error
	prev    *Selection
}

// Root returns the empty selection of an operation: query, mutation or subscription.
func Root(operation string) *Selection {
	return &Selection{name: operation}
}

// Select returns a new selection of the field name nested in s.
func (s *Selection) Select(name string) *Selection {
	return &Selection{name: name, prev: s}
}

// Args attaches the arguments of the selected field. v is a struct, a pointer
// to one or a map with string keys; a nil pointer selects no arguments. The
// values are rendered immediately, so later changes to v do not affect s.
func (s *Selection) Args(v any) *Selection {
	if v == nil {
		s.args, s.argsErr = "", nil
		return s
	}
	s.args, s.argsErr = renderArguments(v)
	return s
}

// Operation returns the operation the chain is rooted at.
func (s *Selection) Operation() string {
	for s.prev != nil {
		s = s.prev
	}
	return s.name
}

// Path returns the selected field names from the root down to s.
func (s *Selection) Path() []string {
	chain := s.chain()
	path := make([]string, 0, len(chain)-1)
	for _, sel := range chain[1:] {
		path = append(path, sel.name)
	}
	return path
}

// chain returns the selections from the root down to s.
func (s *Selection) chain() []*Selection {
	var chain []*Selection
	for sel := s; sel != nil; sel = sel.prev {
		chain = append(chain, sel)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// Build renders the document selecting s, e.g. query{container(id:"x"){id}}.
func (s *Selection) Build() (string, error) {
	chain := s.chain()
	if len(chain) < 2 {
		return "", ErrEmptySelection
	}

	var b strings.Builder
	b.WriteString(chain[0].name)
	for _, sel := range chain[1:] {
		b.WriteByte('{')
		b.WriteString(sel.name)
		if sel.argsErr != nil {
			return "", fmt.Errorf("querybuilder: arguments of %s: %w", sel.name, sel.argsErr)
		}
		if sel.args != "" {
			b.WriteByte('(')
			b.WriteString(sel.args)
			b.WriteByte(')')
		}
	}
	b.WriteString(strings.Repeat("}", len(chain)-1))

	return b.String(), nil
}
