// Command evaluate derives insights for a single check-in without a
// database. Input is either a bare check-in object or
// {"check_in": {...}, "history": [...]}, read from -in or stdin.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/yungbote/mindtrack-backend/internal/platform/logger"
	"github.com/yungbote/mindtrack-backend/internal/wellness"
)

type envelope struct {
	CheckIn *wellness.RawCheckIn  `json:"check_in"`
	History []wellness.RawCheckIn `json:"history"`
}

func main() {
	os.Exit(evaluate(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// evaluate returns the process exit code: 0 on success, 1 for setup
// failures, 2 when the input cannot be evaluated. Deferred cleanup runs
// before main exits.
func evaluate(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("evaluate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	in := fs.String("in", "", "path to input JSON (default stdin)")
	compact := fs.Bool("compact", false, "print single-line JSON")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	log, err := logger.New(os.Getenv("LOG_MODE"))
	if err != nil {
		fmt.Fprintf(stderr, "init logger: %v\n", err)
		return 1
	}
	defer log.Sync()

	src := stdin
	if *in != "" {
		f, err := os.Open(*in)
		if err != nil {
			log.Error("Open input", "path", *in, "error", err)
			return 1
		}
		defer f.Close()
		src = f
	}

	if err := run(src, stdout, !*compact); err != nil {
		log.Error("Evaluate failed", "error", err)
		return 2
	}
	return 0
}

func run(r io.Reader, w io.Writer, indent bool) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	current, history, err := parseInput(raw)
	if err != nil {
		return err
	}
	insights, err := wellness.DeriveInsights(current, history)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(insights)
}

func parseInput(raw []byte) (wellness.RawCheckIn, []wellness.RawCheckIn, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return wellness.RawCheckIn{}, nil, fmt.Errorf("empty input")
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return wellness.RawCheckIn{}, nil, fmt.Errorf("decode input: %w", err)
	}
	if env.CheckIn != nil {
		return *env.CheckIn, env.History, nil
	}
	var single wellness.RawCheckIn
	if err := json.Unmarshal(raw, &single); err != nil {
		return wellness.RawCheckIn{}, nil, fmt.Errorf("decode check-in: %w", err)
	}
	return single, nil, nil
}
