package analysis

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestStorageError(t *testing.T) {
	cause := errors.New("disk full")
	err := NewStorageError("sqlite", "store", cause)

	want := "storage error [backend=sqlite, operation=store]: disk full"
	if err.Error() != want {
		t.Errorf("Expected %q, got %q", want, err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("Expected StorageError to unwrap to cause")
	}
}

func TestQueryError(t *testing.T) {
	err := fmt.Errorf("parse: %w", NewQueryError("start_date", "must be ISO 8601"))
	if !IsQueryError(err) {
		t.Fatal("Expected wrapped QueryError to be detected")
	}

	var qe *QueryError
	errors.As(err, &qe)
	if qe.Error() != "start_date must be ISO 8601" {
		t.Errorf("Unexpected message: %q", qe.Error())
	}

	if msg := NewQueryError("", "Invalid pagination parameters").Error(); msg != "Invalid pagination parameters" {
		t.Errorf("Expected bare message, got %q", msg)
	}
	if IsQueryError(errors.New("other")) {
		t.Error("Plain error must not be a QueryError")
	}
}

func TestRetentionAndExportErrors(t *testing.T) {
	cause := errors.New("locked")

	rerr := NewRetentionError(30, cause)
	if !strings.Contains(rerr.Error(), "retention_days=30") || !errors.Is(rerr, cause) {
		t.Errorf("Unexpected retention error: %v", rerr)
	}

	eerr := NewExportError("csv", 12, cause)
	if !strings.Contains(eerr.Error(), "format=csv, record_count=12") || !errors.Is(eerr, cause) {
		t.Errorf("Unexpected export error: %v", eerr)
	}
}
