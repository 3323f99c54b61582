package docstore

import "strings"

// ClauseKind discriminates filter clause types.
type ClauseKind int

const (
	// KindContains matches when any of Fields contains Needle as a
	// case-insensitive substring.
	KindContains ClauseKind = iota

	// KindIn matches when the Field array intersects Values.
	KindIn
)

// Clause is a single filter condition.
type Clause struct {
	Kind   ClauseKind
	Fields []string // Contains: candidate fields, OR across them
	Needle string   // Contains: substring to look for
	Field  string   // In: the array field
	Values []string // In: OR across values
}

// Filter is an engine-independent description of which documents match.
// Clauses AND together; a zero Filter matches everything. Engines with a
// native query language translate the clauses, the memory engine
// evaluates them directly via Matches.
type Filter struct {
	clauses []Clause
}

// Contains appends a case-insensitive substring clause over fields.
func (f Filter) Contains(needle string, fields ...string) Filter {
	f.clauses = append(f.clauses, Clause{Kind: KindContains, Fields: fields, Needle: needle})
	return f
}

// In appends an array-membership clause: field must contain at least one
// of values.
func (f Filter) In(field string, values ...string) Filter {
	f.clauses = append(f.clauses, Clause{Kind: KindIn, Field: field, Values: values})
	return f
}

// Empty reports whether the filter matches all documents.
func (f Filter) Empty() bool { return len(f.clauses) == 0 }

// Clauses returns the conditions in the order they were added.
func (f Filter) Clauses() []Clause { return f.clauses }

// Matches evaluates the filter against a document.
func (f Filter) Matches(d Document) bool {
	for _, c := range f.clauses {
		if !c.matches(d) {
			return false
		}
	}
	return true
}

func (c Clause) matches(d Document) bool {
	switch c.Kind {
	case KindContains:
		needle := strings.ToLower(c.Needle)
		for _, field := range c.Fields {
			if strings.Contains(strings.ToLower(d.String(field)), needle) {
				return true
			}
		}
		return false
	case KindIn:
		have := d.Strings(c.Field)
		for _, want := range c.Values {
			for _, got := range have {
				if got == want {
					return true
				}
			}
		}
		return false
	}
	return false
}
