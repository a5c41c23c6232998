package querybuilder

import (
	"fmt"
	"os"
)

// ConnectParams locates the engine session serving the generated API.
type ConnectParams struct {
	Port         int
	SessionToken string
}

// URL returns the GraphQL endpoint of the session.
func (p ConnectParams) URL() string {
	return fmt.Sprintf("http://127.0.0.1:%d/query", p.Port)
}

// Leaf is the end of a selection chain: a scalar, an enum or a list. It
// carries what is needed to execute the query, which is left to the caller.
type Leaf[T any] struct {
	Conn      ConnectParams
	Proc      *os.Process
	Selection *Selection
}

// Query renders the document selecting the leaf.
func (l *Leaf[T]) Query() (string, error) {
	if l.Selection == nil {
		return "", ErrEmptySelection
	}
	return l.Selection.Build()
}
