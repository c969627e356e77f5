package validate

import (
	"testing"

	"github.com/tgshelf/tgshelf/internal/model"
)

func TestPhone(t *testing.T) {
	valid := []string{"+15551230000", "15551230000", "442071234567"}
	for _, v := range valid {
		if err := Phone(v); err != nil {
			t.Fatalf("Phone(%q) = %v, want nil", v, err)
		}
	}
	invalid := []string{"", "+", "555-123", "abc", "+1 555", "5+5"}
	for _, v := range invalid {
		err := Phone(v)
		if err == nil {
			t.Fatalf("Phone(%q) = nil, want error", v)
		}
		if !model.IsValidationError(err) {
			t.Fatalf("Phone(%q) error is not a ValidationError: %v", v, err)
		}
	}
}

func TestCode(t *testing.T) {
	if err := Code("12345"); err != nil {
		t.Fatalf("Code: %v", err)
	}
	for _, v := range []string{"", "12a45", "one"} {
		if Code(v) == nil {
			t.Fatalf("Code(%q) = nil, want error", v)
		}
	}
}

func TestUploadName(t *testing.T) {
	if err := UploadName("notes.txt"); err != nil {
		t.Fatal(err)
	}
	if err := UploadName(""); err != nil {
		t.Fatal("empty override is allowed")
	}
	if UploadName("../etc/passwd") == nil {
		t.Fatal("path separators must be rejected")
	}
}
