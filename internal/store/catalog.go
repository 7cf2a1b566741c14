package store

import (
	"fmt"
	"strings"

	"demonlist/ent/schema"

	"entgo.io/ent"
)

// collections binds each ent schema to the table that stores it.
var collections = []struct {
	table  string
	schema ent.Interface
}{
	{"users", schema.User{}},
	{"levels", schema.Level{}},
	{"records", schema.Record{}},
}

// Index is one entry of the index contract.
type Index struct {
	Table   string
	Columns []string
	Unique  bool
	// Sparse restricts a unique index to rows where the column is present.
	Sparse bool
}

// Name is the index name, following PostgreSQL's own key/idx convention.
func (i Index) Name() string {
	suffix := "idx"
	if i.Unique {
		suffix = "key"
	}
	return fmt.Sprintf("%s_%s_%s", i.Table, strings.Join(i.Columns, "_"), suffix)
}

// DDL renders the CREATE INDEX statement understood by both dialects.
func (i Index) DDL() string {
	var b strings.Builder
	b.WriteString("CREATE ")
	if i.Unique {
		b.WriteString("UNIQUE ")
	}
	fmt.Fprintf(&b, "INDEX IF NOT EXISTS %s ON %s (%s)", i.Name(), i.Table, strings.Join(i.Columns, ", "))
	if i.Sparse {
		conds := make([]string, len(i.Columns))
		for n, c := range i.Columns {
			conds[n] = c + " IS NOT NULL"
		}
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conds, " AND "))
	}
	return b.String()
}

// Indexes derives the index contract from the ent schema: a unique index for
// every unique field (sparse when the field is optional) followed by the
// declared secondary indexes.
func Indexes() []Index {
	var out []Index
	for _, c := range collections {
		for _, f := range c.schema.Fields() {
			d := f.Descriptor()
			if !d.Unique || d.Name == "id" {
				continue
			}
			out = append(out, Index{
				Table:   c.table,
				Columns: []string{d.Name},
				Unique:  true,
				Sparse:  d.Optional,
			})
		}
		for _, idx := range c.schema.Indexes() {
			d := idx.Descriptor()
			out = append(out, Index{
				Table:   c.table,
				Columns: append([]string(nil), d.Fields...),
				Unique:  d.Unique,
			})
		}
	}
	return out
}

// indexByName finds the catalog entry behind a constraint name reported by
// the database.
func indexByName(name string) (Index, bool) {
	for _, idx := range Indexes() {
		if idx.Name() == name {
			return idx, true
		}
	}
	return Index{}, false
}
