package todo

import (
	"errors"
	"testing"
)

func TestParseRecords(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []Record
		wantErr bool
		field   string
	}{
		{
			name:  "valid",
			input: `[{"id":0,"completed":false,"text":"A"},{"id":1,"completed":true,"text":"B"}]`,
			want:  []Record{{ID: 0, Text: "A"}, {ID: 1, Completed: true, Text: "B"}},
		},
		{name: "empty array", input: `[]`, want: []Record{}},
		{name: "not an array", input: `{"id":1}`, wantErr: true},
		{name: "null", input: `null`, wantErr: true},
		{name: "garbage", input: `Loading`, wantErr: true},
		{name: "missing id", input: `[{"completed":true,"text":"x"}]`, wantErr: true, field: "id"},
		{name: "missing completed", input: `[{"id":1,"text":"x"}]`, wantErr: true, field: "completed"},
		{name: "missing text", input: `[{"id":1,"completed":false}]`, wantErr: true, field: "text"},
		{name: "wrong id type", input: `[{"id":"1","completed":false,"text":"x"}]`, wantErr: true},
		{name: "fractional id", input: `[{"id":1.5,"completed":false,"text":"x"}]`, wantErr: true},
		{name: "duplicate id", input: `[{"id":1,"completed":false,"text":"x"},{"id":1,"completed":true,"text":"y"}]`, wantErr: true, field: "id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRecords([]byte(tt.input))
			if tt.wantErr {
				var perr *ParseError
				if !errors.As(err, &perr) {
					t.Fatalf("expected *ParseError, got %v", err)
				}
				if tt.field != "" && perr.Field != tt.field {
					t.Errorf("expected field %q, got %q", tt.field, perr.Field)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d records, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("record %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestRemaining(t *testing.T) {
	recs := []Record{{ID: 1}, {ID: 2, Completed: true}, {ID: 3}}
	if n := Remaining(recs); n != 2 {
		t.Errorf("Remaining() = %d, want 2", n)
	}
}

func TestHeadline(t *testing.T) {
	tests := map[int]string{
		0: "All done, enjoy the day!",
		1: "Just one more item",
		2: "2 things left to do",
		8: "8 things left to do",
	}
	for n, want := range tests {
		if got := Headline(n); got != want {
			t.Errorf("Headline(%d) = %q, want %q", n, got, want)
		}
	}
}
