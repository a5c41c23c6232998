package codegen

import (
	"bytes"
	"fmt"

	"github.com/dave/jennifer/jen"
	"golang.org/x/tools/imports"
)

const headerComment = "Code generated by gqlbuilder. DO NOT EDIT."

type emitter struct {
	opts Options
}

func newEmitter(opts Options) *emitter {
	return &emitter{opts: opts}
}

func (e *emitter) newFile() *jen.File {
	f := jen.NewFile(e.opts.Package)
	f.HeaderComment(headerComment)
	f.ImportName(e.opts.RuntimePath, "querybuilder")
	return f
}

// emit assembles the fragments in order into one formatted source file.
// jennifer collects the imports and separates declarations by one blank line.
func (e *emitter) emit(fragments []*Fragment) ([]byte, error) {
	f := e.newFile()
	for _, frag := range fragments {
		for _, decl := range frag.Decls {
			f.Add(decl)
			f.Line()
		}
	}

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", e.opts.Filename, err)
	}

	formatted, err := imports.Process(e.opts.Filename, buf.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("format %s: %w", e.opts.Filename, err)
	}

	if bytes.Contains(formatted, []byte("\n\n\n")) {
		return nil, fmt.Errorf("format %s: consecutive blank lines in output", e.opts.Filename)
	}
	return formatted, nil
}
