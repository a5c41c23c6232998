package codegen

import (
	"strings"

	"github.com/dave/jennifer/jen"
)

// docLines splits a description into comment lines, dropping trailing blank lines.
func docLines(description string) []string {
	description = strings.ReplaceAll(description, "\r\n", "\n")
	description = strings.TrimRight(description, "\n \t")
	if description == "" {
		return nil
	}
	lines := strings.Split(description, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	return lines
}

// docComment renders one // line per description line followed by the
// optional paragraphs, e.g. a "Deprecated:" notice. The result is empty when
// there is nothing to say and can be chained onto the declaration it documents.
func docComment(description string, paragraphs ...string) *jen.Statement {
	var blocks [][]string
	if lines := docLines(description); len(lines) > 0 {
		blocks = append(blocks, lines)
	}
	for _, p := range paragraphs {
		if lines := docLines(p); len(lines) > 0 {
			blocks = append(blocks, lines)
		}
	}

	s := jen.Null()
	for i, block := range blocks {
		if i > 0 {
			s.Comment("//").Line()
		}
		for _, line := range block {
			if line == "" {
				s.Comment("//").Line()
				continue
			}
			// a leading "//" disables jennifer's own comment formatting, so
			// every line is emitted verbatim
			s.Comment("// " + line).Line()
		}
	}
	return s
}

func deprecationNotice(deprecated bool, reason *string) string {
	if !deprecated {
		return ""
	}
	if reason == nil || strings.TrimSpace(*reason) == "" {
		return "Deprecated: no longer supported."
	}
	return "Deprecated: " + strings.TrimSpace(*reason)
}

func defaultNotice(defaultValue *string) string {
	if defaultValue == nil {
		return ""
	}
	return "Defaults to " + *defaultValue + "."
}
