package todo

import (
	"encoding/json"
	"fmt"
)

// Record is one to-do as served by the remote source.
type Record struct {
	ID        int64  `json:"id"`
	Completed bool   `json:"completed"`
	Text      string `json:"text"`
}

// wireRecord detects missing fields; a nil pointer means the key was absent
// or null.
type wireRecord struct {
	ID        *int64  `json:"id"`
	Completed *bool   `json:"completed"`
	Text      *string `json:"text"`
}

// ParseRecords decodes a JSON array of records. Every element must carry
// id, completed and text with the right types, and ids must be unique.
func ParseRecords(data []byte) ([]Record, error) {
	var wire []wireRecord
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, &ParseError{Index: -1, Err: err}
	}
	if wire == nil {
		return nil, &ParseError{Index: -1, Err: fmt.Errorf("expected a JSON array, got null")}
	}

	records := make([]Record, 0, len(wire))
	seen := make(map[int64]struct{}, len(wire))
	for i, w := range wire {
		switch {
		case w.ID == nil:
			return nil, &ParseError{Index: i, Field: "id", Err: errMissingField}
		case w.Completed == nil:
			return nil, &ParseError{Index: i, Field: "completed", Err: errMissingField}
		case w.Text == nil:
			return nil, &ParseError{Index: i, Field: "text", Err: errMissingField}
		}
		if _, dup := seen[*w.ID]; dup {
			return nil, &ParseError{Index: i, Field: "id", Err: fmt.Errorf("duplicate id %d", *w.ID)}
		}
		seen[*w.ID] = struct{}{}

		records = append(records, Record{ID: *w.ID, Completed: *w.Completed, Text: *w.Text})
	}
	return records, nil
}

// Remaining counts records that are not completed.
func Remaining(records []Record) int {
	n := 0
	for _, r := range records {
		if !r.Completed {
			n++
		}
	}
	return n
}
