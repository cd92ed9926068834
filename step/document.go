package step

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

type Entity struct {
	ID   int
	Type string
	Args []string
}

// Arg returns the i-th argument token or "$" if there is none.
func (e *Entity) Arg(i int) string {
	if i < 0 || i >= len(e.Args) {
		return "$"
	}
	return e.Args[i]
}

func (e *Entity) String() string {
	return FormatRef(e.ID) + "=" + e.Type + "(" + strings.Join(e.Args, ",") + ")"
}

type Header struct {
	Description         []string
	ImplementationLevel string
	Name                string
	TimeStamp           string
	Author              []string
	Organization        []string
	PreprocessorVersion string
	OriginatingSystem   string
	Authorization       string
	Schemas             []string
}

// Diagnostic describes a statement that was skipped.
type Diagnostic struct {
	Index     int
	Statement string
	Reason    string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("statement %d: %s: %s", d.Index, d.Reason, d.Statement)
}

type Document struct {
	HeaderText  string
	Header      Header
	Entities    []*Entity
	Diagnostics []Diagnostic

	byID map[int]*Entity
}

// Entity returns the entity with the given id or nil.
func (d *Document) Entity(id int) *Entity {
	return d.byID[id]
}

func (d *Document) EntityMap() map[int]*Entity {
	return d.byID
}

// TypeCounts returns the number of entities per type tag.
func (d *Document) TypeCounts() map[string]int {
	counts := map[string]int{}
	for _, e := range d.Entities {
		counts[e.Type]++
	}
	return counts
}

// Dump writes a summary of the document.
func (d *Document) Dump(w io.Writer) {
	fmt.Fprintf(w, "Schemas: %v\n", d.Header.Schemas)
	if d.Header.Name != "" {
		fmt.Fprintf(w, "Name: %v\n", d.Header.Name)
	}
	if d.Header.OriginatingSystem != "" {
		fmt.Fprintf(w, "OriginatingSystem: %v\n", d.Header.OriginatingSystem)
	}
	fmt.Fprintf(w, "Entities: %d\n", len(d.Entities))
	counts := d.TypeCounts()
	var types []string
	for t := range counts {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		fmt.Fprintf(w, "  %-40s %d\n", t, counts[t])
	}
	for _, diag := range d.Diagnostics {
		fmt.Fprintf(w, "WARN: %v\n", diag)
	}
}

var (
	entityRe = regexp.MustCompile(`(?s)^#(\d+)\s*=\s*([A-Za-z][A-Za-z0-9_]*)\s*\((.*)\)$`)
	recordRe = regexp.MustCompile(`(?s)^([A-Za-z][A-Za-z0-9_]*)\s*\((.*)\)$`)
)

const maxExcerpt = 80

func excerpt(s string) string {
	if len(s) > maxExcerpt {
		return s[:maxExcerpt] + "..."
	}
	return s
}

// Parse parses physical file text. It never fails: statements that are not
// entity instances or known header records are reported in Diagnostics.
func Parse(text string) *Document {
	doc := &Document{byID: map[int]*Entity{}}
	var headerStmts []string
	inHeader := false
	for i, stmt := range SplitStatements(text) {
		if m := entityRe.FindStringSubmatch(stmt); m != nil {
			id, err := strconv.Atoi(m[1])
			if err != nil {
				doc.Diagnostics = append(doc.Diagnostics, Diagnostic{i, excerpt(stmt), "invalid id"})
				continue
			}
			if _, exists := doc.byID[id]; exists {
				doc.Diagnostics = append(doc.Diagnostics, Diagnostic{i, excerpt(stmt), "duplicate id"})
				continue
			}
			e := &Entity{ID: id, Type: strings.ToUpper(m[2]), Args: SplitArgs(m[3])}
			doc.Entities = append(doc.Entities, e)
			doc.byID[id] = e
			continue
		}

		keyword := strings.ToUpper(stmt)
		var args []string
		if m := recordRe.FindStringSubmatch(stmt); m != nil {
			keyword = strings.ToUpper(m[1])
			args = SplitArgs(m[2])
		}
		switch keyword {
		case "ISO-10303-21", "END-ISO-10303-21":
		case "HEADER":
			inHeader = true
		case "DATA":
			inHeader = false
		case "ENDSEC":
			inHeader = false
		default:
			if inHeader {
				headerStmts = append(headerStmts, stmt)
				doc.Header.setRecord(keyword, args)
			} else {
				doc.Diagnostics = append(doc.Diagnostics, Diagnostic{i, excerpt(stmt), "not an entity instance"})
			}
		}
	}
	if len(headerStmts) > 0 {
		doc.HeaderText = strings.Join(headerStmts, ";\n") + ";"
	}
	return doc
}

func (h *Header) setRecord(keyword string, args []string) {
	switch keyword {
	case "FILE_DESCRIPTION":
		h.Description = unquoteAll(args, 0)
		h.ImplementationLevel = Unquote(argAt(args, 1), "")
	case "FILE_NAME":
		h.Name = Unquote(argAt(args, 0), "")
		h.TimeStamp = Unquote(argAt(args, 1), "")
		h.Author = unquoteAll(args, 2)
		h.Organization = unquoteAll(args, 3)
		h.PreprocessorVersion = Unquote(argAt(args, 4), "")
		h.OriginatingSystem = Unquote(argAt(args, 5), "")
		h.Authorization = Unquote(argAt(args, 6), "")
	case "FILE_SCHEMA":
		h.Schemas = unquoteAll(args, 0)
	}
}

func argAt(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return "$"
}

// unquoteAll accepts both a list of literals and a bare literal.
func unquoteAll(args []string, i int) []string {
	tok := argAt(args, i)
	items := ParseList(tok)
	if items == nil {
		items = []string{tok}
	}
	var values []string
	for _, item := range items {
		if v := Unquote(item, ""); v != "" {
			values = append(values, v)
		}
	}
	return values
}
