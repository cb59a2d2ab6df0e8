package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yungbote/mindtrack-backend/internal/wellness"
)

func TestRunBareCheckIn(t *testing.T) {
	var out bytes.Buffer
	in := `{"mood":4,"stress":2,"sleep":4,"energy":8,"social":4,"timestamp":"2024-04-02T08:00:00Z"}`
	if err := run(strings.NewReader(in), &out, false); err != nil {
		t.Fatalf("run: %v", err)
	}
	var got wellness.Insights
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if got.Score != 80 || got.Band != wellness.BandThriving {
		t.Fatalf("got score=%d band=%s", got.Score, got.Band)
	}
	if got.TrendAvailable {
		t.Fatalf("trend should be unavailable without history")
	}
}

func TestRunWithHistory(t *testing.T) {
	var out bytes.Buffer
	in := `{
		"check_in": {"mood":4,"stress":2,"sleep":4,"energy":8,"social":4,"timestamp":"2024-04-02T08:00:00Z"},
		"history": [{"mood":3,"stress":5,"sleepQuality":3,"energy":5,"socialConnection":3,"timestamp":"2024-04-01T08:00:00Z"}]
	}`
	if err := run(strings.NewReader(in), &out, true); err != nil {
		t.Fatalf("run: %v", err)
	}
	var got wellness.Insights
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if len(got.Trend) != 2 || got.ScoreChange == nil || *got.ScoreChange != 25 {
		t.Fatalf("unexpected trend output: %+v", got)
	}
}

func TestRunRejectsInvalidHistory(t *testing.T) {
	in := `{"check_in": {"mood":4,"stress":2,"sleep":4,"energy":8,"social":4,"timestamp":"2024-04-02T08:00:00Z"},
		"history": [{"mood":9,"stress":2,"sleep":4,"energy":8,"social":4,"timestamp":"2024-04-01T08:00:00Z"}]}`
	err := run(strings.NewReader(in), &bytes.Buffer{}, false)
	if !errors.Is(err, wellness.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRunRejectsEmptyInput(t *testing.T) {
	if err := run(strings.NewReader("  \n"), &bytes.Buffer{}, false); err == nil {
		t.Fatalf("expected error for empty input")
	}
}

func TestEvaluateExitCodes(t *testing.T) {
	t.Setenv("LOG_MODE", "test")
	valid := `{"mood":3,"stress":5,"sleep":3,"energy":5,"social":3,"timestamp":"2024-04-02"}`

	path := filepath.Join(t.TempDir(), "checkin.json")
	if err := os.WriteFile(path, []byte(valid), 0o600); err != nil {
		t.Fatalf("write input: %v", err)
	}

	cases := []struct {
		name  string
		args  []string
		stdin string
		want  int
	}{
		{"stdin", nil, valid, 0},
		{"file", []string{"-in", path, "-compact"}, "", 0},
		{"missing file", []string{"-in", filepath.Join(t.TempDir(), "nope.json")}, "", 1},
		{"unknown flag", []string{"-bogus"}, "", 1},
		{"out of range", nil, `{"mood":9,"stress":5,"sleep":3,"energy":5,"social":3,"timestamp":"2024-04-02"}`, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var out, errOut bytes.Buffer
			if got := evaluate(tc.args, strings.NewReader(tc.stdin), &out, &errOut); got != tc.want {
				t.Fatalf("exit code: want=%d got=%d stderr=%s", tc.want, got, errOut.String())
			}
			if tc.want == 0 && !json.Valid(out.Bytes()) {
				t.Fatalf("output is not JSON: %s", out.String())
			}
		})
	}
}
