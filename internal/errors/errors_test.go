package errors

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{name: "config error", code: "T101", wantMsg: "Invalid configuration file", wantCat: CategoryConfig},
		{name: "cli error", code: "T140", wantMsg: "Server failed", wantCat: CategoryCLI},
		{name: "storage error", code: "T160", wantMsg: "Database unavailable", wantCat: CategoryStorage},
		{name: "unknown error code", code: "T999", wantMsg: "Unknown error", wantCat: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestErrorString(t *testing.T) {
	err := New("T102")
	if got, want := err.Error(), "T102: Invalid configuration value"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	cause := stderrors.New("unexpected EOF")
	wrapped := New("T101").Wrap(cause)
	if !strings.HasSuffix(wrapped.Error(), ": unexpected EOF") {
		t.Errorf("Error() = %q, expected cause suffix", wrapped.Error())
	}
	if !stderrors.Is(wrapped, cause) {
		t.Error("expected errors.Is to find the cause")
	}

	plain := Newf(CategoryCLI, "port %d in use", 8080)
	if plain.Error() != "port 8080 in use" {
		t.Errorf("Error() = %q", plain.Error())
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "T140") != nil {
		t.Error("expected nil for nil error")
	}

	orig := New("T160")
	if FromError(orig, "T140") != orig {
		t.Error("expected *Error to pass through")
	}

	cause := stderrors.New("boom")
	got := FromError(cause, "T140")
	if got.Code != "T140" || got.Wrapped != cause {
		t.Errorf("unexpected %+v", got)
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("T102").
		WithFile("todoview.json").
		WithDetailf("toggle.method %q is not supported", "DELETE").
		WithSuggestion("Use GET or POST")

	out := err.Format()
	for _, want := range []string{
		"ERROR T102: Invalid configuration value",
		"todoview.json",
		`toggle.method "DELETE" is not supported`,
		"Hint: Use GET or POST",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q:\n%s", want, out)
		}
	}
}

func TestFormatJSON(t *testing.T) {
	err := New("T160").Wrap(stderrors.New("disk full"))

	var decoded map[string]string
	if jerr := json.Unmarshal([]byte(err.FormatJSON()), &decoded); jerr != nil {
		t.Fatalf("FormatJSON produced invalid JSON: %v", jerr)
	}
	if decoded["code"] != "T160" || decoded["category"] != "storage" || decoded["cause"] != "disk full" {
		t.Errorf("unexpected JSON %v", decoded)
	}
}

func TestFprint(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var buf bytes.Buffer
	Fprint(&buf, stderrors.New("plain failure"))
	if !strings.Contains(buf.String(), "ERROR: plain failure") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestFprintJSON(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     string
		category string
		message  string
	}{
		{name: "coded", err: New("T141").WithDetail("--port 70000 is out of range"), code: "T141", category: "cli", message: "Invalid flag"},
		{name: "plain", err: stderrors.New("accept failed"), category: "cli", message: "accept failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			FprintJSON(&buf, tt.err)

			out := buf.String()
			if strings.Count(out, "\n") != 1 || !strings.HasSuffix(out, "\n") {
				t.Errorf("expected a single line, got %q", out)
			}
			var decoded map[string]string
			if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
				t.Fatalf("invalid JSON %q: %v", out, err)
			}
			if decoded["code"] != tt.code || decoded["category"] != tt.category || decoded["message"] != tt.message {
				t.Errorf("unexpected JSON %v", decoded)
			}
		})
	}
}

func TestRegistryCodesAreCategorised(t *testing.T) {
	for _, code := range GetAllCodes() {
		tmpl, ok := GetTemplate(code)
		if !ok || tmpl.Category == "" || tmpl.Message == "" {
			t.Errorf("code %s has incomplete template %+v", code, tmpl)
		}
	}
}
