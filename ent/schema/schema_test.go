package schema

import (
	"testing"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
)

func fieldByName(t *testing.T, s ent.Interface, name string) *field.Descriptor {
	t.Helper()
	for _, f := range s.Fields() {
		if d := f.Descriptor(); d.Name == name {
			return d
		}
	}
	t.Fatalf("field %q not declared", name)
	return nil
}

func TestUserUniqueness(t *testing.T) {
	for _, name := range []string{"username", "email"} {
		d := fieldByName(t, User{}, name)
		if !d.Unique || d.Optional {
			t.Errorf("%s: expected required unique field, got unique=%v optional=%v", name, d.Unique, d.Optional)
		}
	}

	g := fieldByName(t, User{}, "google_id")
	if !g.Unique || !g.Optional || !g.Nillable {
		t.Errorf("google_id: expected sparse unique (unique, optional, nillable), got %+v", g)
	}

	if p := fieldByName(t, User{}, "password_hash"); !p.Sensitive {
		t.Error("password_hash must be marked sensitive")
	}
}

func TestSecondaryIndexes(t *testing.T) {
	tests := []struct {
		schema ent.Interface
		want   []string
	}{
		{Level{}, []string{"position", "is_legacy"}},
		{Record{}, []string{"user_id", "level_id", "status"}},
	}

	for _, tt := range tests {
		var got []string
		for _, idx := range tt.schema.Indexes() {
			d := idx.Descriptor()
			if d.Unique {
				t.Errorf("index on %v must not be unique", d.Fields)
			}
			got = append(got, d.Fields...)
		}
		if len(got) != len(tt.want) {
			t.Fatalf("expected indexes %v, got %v", tt.want, got)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("index %d: expected %q, got %q", i, tt.want[i], got[i])
			}
		}
	}
}

func TestLevelPositionNotUnique(t *testing.T) {
	if d := fieldByName(t, Level{}, "position"); d.Unique {
		t.Error("position must not carry a unique constraint")
	}
}

func TestRecordStatusValues(t *testing.T) {
	d := fieldByName(t, Record{}, "status")
	var got []string
	for _, e := range d.Enums {
		got = append(got, e.V)
	}
	want := []string{"pending", "approved", "rejected"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("enum %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}
