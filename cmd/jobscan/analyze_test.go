package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mercator-hq/jobscan/pkg/analysis"
	"mercator-hq/jobscan/pkg/cli"
)

const scamPosting = "Registration fee required. Contact on WhatsApp only."

func resetAnalyzeFlags() {
	analyzeFlags.file = ""
	analyzeFlags.output = "text"
	analyzeFlags.save = false
}

func TestReadPosting(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "posting.txt")
	if err := os.WriteFile(file, []byte("from file"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		stdin   string
		args    []string
		file    string
		want    string
		wantErr bool
	}{
		{name: "argument", args: []string{"from arg"}, want: "from arg"},
		{name: "file", file: file, want: "from file"},
		{name: "stdin", stdin: "from stdin\n", want: "from stdin\n"},
		{name: "argument and file", args: []string{"x"}, file: file, wantErr: true},
		{name: "missing file", file: filepath.Join(dir, "nope.txt"), wantErr: true},
		{name: "blank", args: []string{"  \n\t"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readPosting(strings.NewReader(tt.stdin), tt.args, tt.file)
			if (err != nil) != tt.wantErr {
				t.Fatalf("readPosting() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("readPosting() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAnalyzeText(t *testing.T) {
	resetAnalyzeFlags()

	cmd, out := testCommand("")
	if err := runAnalyze(cmd, []string{scamPosting}); err != nil {
		t.Fatalf("runAnalyze() failed: %v", err)
	}

	want := "Risk score: 50\n" +
		"Risk level: MEDIUM\n" +
		"Reasons:\n" +
		"  - Mentions registration fee\n" +
		"  - WhatsApp-only hiring or contact\n"
	if out.String() != want {
		t.Errorf("output =\n%s\nwant\n%s", out.String(), want)
	}
}

func TestAnalyzeJSONFromStdin(t *testing.T) {
	resetAnalyzeFlags()
	analyzeFlags.output = "json"

	cmd, out := testCommand("Senior Go engineer, hybrid, apply via careers page.")
	if err := runAnalyze(cmd, nil); err != nil {
		t.Fatalf("runAnalyze() failed: %v", err)
	}

	var got struct {
		RiskScore int      `json:"risk_score"`
		RiskLevel string   `json:"risk_level"`
		Reasons   []string `json:"reasons"`
		ID        *int64   `json:"id"`
	}
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", out.String(), err)
	}
	if got.RiskScore != 0 || got.RiskLevel != "LOW" {
		t.Errorf("verdict = %d/%s, want 0/LOW", got.RiskScore, got.RiskLevel)
	}
	if len(got.Reasons) != 1 || got.Reasons[0] != "No scam indicators detected" {
		t.Errorf("reasons = %v", got.Reasons)
	}
	if got.ID != nil {
		t.Errorf("id = %d, want omitted when not saved", *got.ID)
	}
}

func TestAnalyzeRejectsUnknownOutput(t *testing.T) {
	resetAnalyzeFlags()
	analyzeFlags.output = "csv"

	cmd, _ := testCommand("")
	err := runAnalyze(cmd, []string{scamPosting})

	var usage *cli.UsageError
	if !errors.As(err, &usage) {
		t.Errorf("err = %v, want *cli.UsageError", err)
	}
}

func TestAnalyzeSave(t *testing.T) {
	store := useTempStore(t)
	resetAnalyzeFlags()
	analyzeFlags.save = true
	t.Cleanup(resetAnalyzeFlags)

	cmd, out := testCommand("")
	if err := runAnalyze(cmd, []string{scamPosting}); err != nil {
		t.Fatalf("runAnalyze() failed: %v", err)
	}
	if !strings.Contains(out.String(), "Saved as: #1") {
		t.Errorf("output missing saved id:\n%s", out.String())
	}

	records, err := store.Query(context.Background(), &analysis.Query{Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("stored %d records, want 1", len(records))
	}
	if records[0].JobDescription != scamPosting || records[0].RiskScore != 50 || records[0].RiskLevel != "MEDIUM" {
		t.Errorf("stored record = %+v", records[0])
	}
}
