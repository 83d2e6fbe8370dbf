package manifest

import (
	"regexp"
	"strings"
)

// Document is a lossless, editable view of a TOML manifest. It keeps the
// original text byte-for-byte and supports exactly one mutation: setting
// the path value of a dependency, declared either as an inline table under
// [dependencies] or as an expanded [dependencies.<name>] table. Everything
// the editor does not touch survives verbatim, including comments,
// whitespace, and key order.
type Document struct {
	lines []string
}

var tableHeaderRe = regexp.MustCompile(`^\s*\[([^\]]+)\]\s*(#.*)?$`)

// ParseDocument splits manifest text into an editable document. The text
// is assumed to be valid TOML; validity is established by the schema parse
// performed alongside.
func ParseDocument(text string) *Document {
	return &Document{lines: strings.Split(text, "\n")}
}

// String reassembles the document text.
func (d *Document) String() string {
	return strings.Join(d.lines, "\n")
}

// SetDependencyPath replaces (or inserts) the path value of the named
// dependency, whether declared inline under [dependencies] or as an
// expanded [dependencies.<name>] table. Returns true when an entry was
// rewritten.
func (d *Document) SetDependencyPath(name, path string) bool {
	inDeps := false
	inDepTable := false
	entryRe := inlineEntryRe(name)

	for i, line := range d.lines {
		if m := tableHeaderRe.FindStringSubmatch(line); m != nil {
			header := strings.TrimSpace(m[1])
			inDeps = header == "dependencies"
			inDepTable = header == "dependencies."+name ||
				header == `dependencies."`+name+`"`
			continue
		}

		if inDepTable {
			if m := tablePathKeyRe.FindStringSubmatchIndex(line); m != nil {
				d.lines[i] = line[:m[4]] + quoteTOMLString(path) + line[m[5]:]
				return true
			}
			continue
		}
		if !inDeps {
			continue
		}
		m := entryRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		// m[1] = prefix up to '{', m[2] = inline table body, m[3] = suffix from '}'
		d.lines[i] = m[1] + setInlinePath(m[2], path) + m[3]
		return true
	}
	return false
}

// tablePathKeyRe matches a `path = "..."` assignment inside an expanded
// dependency table, with the quoted value captured.
var tablePathKeyRe = regexp.MustCompile(`^(\s*path\s*=\s*)("(?:[^"\\]|\\.)*"|'[^']*')`)

// inlineEntryRe matches `name = { ... }` with the body captured. The key
// may be bare or quoted.
func inlineEntryRe(name string) *regexp.Regexp {
	quoted := regexp.QuoteMeta(name)
	return regexp.MustCompile(`^(\s*(?:` + quoted + `|"` + quoted + `")\s*=\s*\{)([^}]*)(\}\s*(?:#.*)?)$`)
}

var inlinePathRe = regexp.MustCompile(`(^|,)(\s*path\s*=\s*)("(?:[^"\\]|\\.)*"|'[^']*')`)

// setInlinePath rewrites the path value inside an inline table body,
// appending one when absent.
func setInlinePath(body, path string) string {
	value := quoteTOMLString(path)
	if m := inlinePathRe.FindStringSubmatchIndex(body); m != nil {
		// Splice over the quoted value (submatch 3) so the replacement is
		// taken literally even when the path contains regexp metatext.
		return body[:m[6]] + value + body[m[7]:]
	}
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return " path = " + value + " "
	}
	return strings.TrimRight(body, " \t") + ", path = " + value + " "
}

// quoteTOMLString renders a TOML basic string.
func quoteTOMLString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
