package tdms

import (
	"errors"
	"testing"
)

func TestParseObjectPath(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		want    parsedPath
		wantErr bool
	}{
		{name: "root", input: "/", want: parsedPath{kind: pathRoot}},
		{name: "group", input: "/'Measurements'", want: parsedPath{kind: pathGroup, group: "Measurements"}},
		{
			name:  "channel",
			input: "/'Measurements'/'Voltage'",
			want:  parsedPath{kind: pathChannel, group: "Measurements", channel: "Voltage"},
		},
		{
			name:  "escaped quote in group name",
			input: "/'It''s a group'",
			want:  parsedPath{kind: pathGroup, group: "It's a group"},
		},
		{
			name:  "escaped quote in channel name",
			input: "/'Group'/'Chan''nel'",
			want:  parsedPath{kind: pathChannel, group: "Group", channel: "Chan'nel"},
		},
		{name: "missing leading slash", input: "'Group'", wantErr: true},
		{name: "unterminated component", input: "/'Group", wantErr: true},
		{name: "missing quote", input: "/Group", wantErr: true},
		{name: "too many components", input: "/'A'/'B'/'C'", wantErr: true},
		{name: "missing separator", input: "/'A'X'B'", wantErr: true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := parseObjectPath(c.input)
			if c.wantErr {
				if err == nil {
					t.Fatalf("expected error, got none")
				}
				if !errors.Is(err, ErrInvalidPath) {
					t.Fatalf("expected errors.Is(err, ErrInvalidPath) to hold, got %v", err)
				}
				if !errors.Is(err, ErrInvalidFileFormat) {
					t.Fatalf("expected errors.Is(err, ErrInvalidFileFormat) to hold, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != c.want {
				t.Fatalf("expected %+v, got %+v", c.want, got)
			}
		})
	}
}

func TestPathRegistryInternAssignsDenseIDs(t *testing.T) {
	r := newPathRegistry()

	if r.len() != 1 {
		t.Fatalf("expected registry to start with just the root, got len %d", r.len())
	}

	groupID, err := r.intern("/'Measurements'")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if groupID != 1 {
		t.Fatalf("expected group id 1, got %d", groupID)
	}

	chanID, err := r.intern("/'Measurements'/'Voltage'")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if chanID != 2 {
		t.Fatalf("expected channel id 2, got %d", chanID)
	}

	// Re-interning the same path returns the same id, without growing the
	// registry.
	again, err := r.intern("/'Measurements'/'Voltage'")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again != chanID {
		t.Fatalf("expected re-intern to return %d, got %d", chanID, again)
	}
	if r.len() != 3 {
		t.Fatalf("expected registry len 3, got %d", r.len())
	}
}

func TestPathRegistryInternsParentGroupImplicitly(t *testing.T) {
	r := newPathRegistry()

	chanID, err := r.intern("/'Orphan Group'/'Channel'")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	groupID, ok := r.idOf("/'Orphan Group'")
	if !ok {
		t.Fatalf("expected parent group to have been implicitly interned")
	}
	if groupID >= chanID {
		t.Fatalf("expected group id (%d) to be assigned before channel id (%d)", groupID, chanID)
	}
}
