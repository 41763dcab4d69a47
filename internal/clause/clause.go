// Package clause holds the catalog of contract clauses the checks
// are grouped by. The catalog is written in CUE and compiled with the
// CUE Go API at first use.
package clause

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

//go:embed catalog.cue
var catalogSource []byte

// Clause is one catalog entry.
type Clause struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Summary    string   `json:"summary,omitempty"`
	Operations []string `json:"operations,omitempty"`
}

// Catalog is an immutable set of clauses.
type Catalog struct {
	byID map[string]Clause
	ids  []string
}

// CompileError reports an invalid catalog.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Compile(catalogSource, "catalog.cue")
	})
	return defaultCatalog, defaultErr
}

// Compile builds a catalog from CUE source.
//
// Compilation steps:
// 1. Compile the source and unify it with the #Clause schema it declares
// 2. Require every field to be concrete
// 3. Decode each entry of the clause struct
func Compile(src []byte, filename string) (*Catalog, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	clauses := v.LookupPath(cue.ParsePath("clause"))
	if !clauses.Exists() {
		return nil, &CompileError{Field: "clause", Message: "clause struct is required", Pos: v.Pos()}
	}
	if err := clauses.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	iter, err := clauses.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	c := &Catalog{byID: make(map[string]Clause)}
	for iter.Next() {
		id := iter.Selector().Unquoted()
		var entry Clause
		if err := iter.Value().Decode(&entry); err != nil {
			return nil, formatCUEError(err)
		}
		entry.ID = id
		c.byID[id] = entry
		c.ids = append(c.ids, id)
	}
	if len(c.ids) == 0 {
		return nil, &CompileError{Field: "clause", Message: "at least one clause is required", Pos: clauses.Pos()}
	}
	sort.Slice(c.ids, func(i, j int) bool { return Compare(c.ids[i], c.ids[j]) < 0 })
	return c, nil
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	if positions := errors.Positions(first); len(positions) > 0 {
		return &CompileError{Field: "cue", Message: first.Error(), Pos: positions[0]}
	}
	return err
}

// Lookup returns the clause with id.
func (c *Catalog) Lookup(id string) (Clause, bool) {
	cl, ok := c.byID[id]
	return cl, ok
}

// Title returns the title of id, or id itself when it is not cataloged.
func (c *Catalog) Title(id string) string {
	if cl, ok := c.byID[id]; ok {
		return cl.Title
	}
	return id
}

// All returns the clauses in clause order.
func (c *Catalog) All() []Clause {
	out := make([]Clause, len(c.ids))
	for i, id := range c.ids {
		out[i] = c.byID[id]
	}
	return out
}

// Missing returns the ids that are not cataloged, in clause order and
// without duplicates.
func (c *Catalog) Missing(ids []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, id := range ids {
		if _, ok := c.byID[id]; !ok && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return Compare(out[i], out[j]) < 0 })
	return out
}

// Compare orders dotted clause numbers numerically, so that 4.2.10
// sorts after 4.2.9.
func Compare(a, b string) int {
	pa, pb := split(a), split(b)
	for i := 0; i < len(pa) && i < len(pb); i++ {
		if pa[i] != pb[i] {
			if pa[i] < pb[i] {
				return -1
			}
			return 1
		}
	}
	return len(pa) - len(pb)
}

func split(c string) []int {
	var parts []int
	n, digits := 0, false
	for _, r := range c {
		if r >= '0' && r <= '9' {
			n = n*10 + int(r-'0')
			digits = true
			continue
		}
		if digits {
			parts = append(parts, n)
		}
		n, digits = 0, false
	}
	if digits {
		parts = append(parts, n)
	}
	return parts
}
