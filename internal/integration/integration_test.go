// internal/integration/integration_test.go
package integration

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"rnaroc/internal/app"
	"rnaroc/internal/runsapp"
	"rnaroc/pkg/api"
)

const (
	profilePath   = "testdata/stemloops_profile.txt"
	structurePath = "testdata/stemloops.dbn"
	goldenPath    = "testdata/stemloops_pad12.golden"
)

func write(t *testing.T, fn, data string) string {
	t.Helper()
	if err := os.WriteFile(fn, []byte(data), 0o644); err != nil {
		t.Fatalf("write %s: %v", fn, err)
	}
	return fn
}

func run(t *testing.T, argv ...string) (string, string, int) {
	t.Helper()
	var out, errBuf bytes.Buffer
	code := app.Run(argv, &out, &errBuf)
	return out.String(), errBuf.String(), code
}

func TestGoldenText(t *testing.T) {
	out, stderr, code := run(t, "--profile", profilePath, "--structure", structurePath, "--pad", "12")
	if code != 0 {
		t.Fatalf("exit %d, err=%s", code, stderr)
	}
	if stderr != "" {
		t.Errorf("unexpected warnings: %s", stderr)
	}
	if os.Getenv("UPDATE_GOLDEN") == "1" {
		write(t, goldenPath, out)
	}
	want, err := os.ReadFile(goldenPath)
	if err != nil {
		t.Fatal(err)
	}
	if out != string(want) {
		t.Fatalf("text output differs from %s\n--- got ---\n%s", goldenPath, out)
	}
}

// A single-group normalization divides every value by one positive factor,
// which leaves every window's ranking and so every AUROC unchanged.
func TestBoxplotNormalizationKeepsScores(t *testing.T) {
	out, stderr, code := run(t, "--profile", profilePath, "--structure", structurePath, "--pad", "12", "--normalize", "boxplot")
	if code != 0 {
		t.Fatalf("exit %d, err=%s", code, stderr)
	}
	want, err := os.ReadFile(goldenPath)
	if err != nil {
		t.Fatal(err)
	}
	if out != string(want) {
		t.Fatalf("boxplot-normalized output differs from %s\n%s", goldenPath, out)
	}
}

func TestGzipProfileMatchesPlain(t *testing.T) {
	raw, err := os.ReadFile(profilePath)
	if err != nil {
		t.Fatal(err)
	}
	gz := filepath.Join(t.TempDir(), "stemloops_profile.txt.gz")
	fh, err := os.Create(gz)
	if err != nil {
		t.Fatal(err)
	}
	zw := gzip.NewWriter(fh)
	_, _ = zw.Write(raw)
	_ = zw.Close()
	_ = fh.Close()

	plain, _, _ := run(t, "-p", profilePath, "-s", structurePath, "--pad", "12")
	zipped, stderr, code := run(t, "-p", gz, "-s", structurePath, "--pad", "12")
	if code != 0 {
		t.Fatalf("exit %d, err=%s", code, stderr)
	}
	if plain != zipped {
		t.Fatal("gzip profile changed the output")
	}
}

func TestJSONRegion(t *testing.T) {
	out, stderr, code := run(t, "-p", profilePath, "-s", structurePath, "--pad", "12", "--region", "30-40", "-o", "json")
	if code != 0 {
		t.Fatalf("exit %d, err=%s", code, stderr)
	}
	var got []api.EvaluationV1
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(got) != 1 {
		t.Fatalf("want 1 evaluation, got %d", len(got))
	}
	e := got[0]
	if e.Sample != "stemloops" || e.Length != 100 || e.Window != 25 || e.Defined != 65 {
		t.Errorf("header fields: %+v", e)
	}
	if e.Start != 30 || e.End != 40 || len(e.Scores) != 11 || len(e.Sequence) != 11 {
		t.Fatalf("region: start=%d end=%d scores=%d seq=%q", e.Start, e.End, len(e.Scores), e.Sequence)
	}
	if e.Median == nil || fmt.Sprintf("%.4f", *e.Median) != "0.9286" {
		t.Errorf("median=%v", e.Median)
	}
	for k, s := range e.Scores {
		pos := 30 + k
		switch {
		case pos <= 35 && (s == nil || fmt.Sprintf("%.4f", *s) != "0.9286"):
			t.Errorf("position %d: %v", pos, s)
		case pos > 35 && s != nil:
			t.Errorf("position %d should be null, got %v", pos, *s)
		}
	}
}

func manifest(t *testing.T, names ...string) string {
	t.Helper()
	abs := func(p string) string {
		a, err := filepath.Abs(p)
		if err != nil {
			t.Fatal(err)
		}
		return a
	}
	var b strings.Builder
	for _, n := range names {
		fmt.Fprintf(&b, "%s\t%s\t%s\n", n, abs(profilePath), abs(structurePath))
	}
	return write(t, filepath.Join(t.TempDir(), "samples.tsv"), b.String())
}

func TestParallelMatchesSerial(t *testing.T) {
	m := manifest(t, "d", "b", "a", "c", "e", "f")
	runWith := func(threads int) string {
		out, stderr, code := run(t, "--samples", m, "--pad", "12", "--threads", fmt.Sprint(threads), "--output", "json", "--sort")
		if code != 0 {
			t.Fatalf("exit %d err %s", code, stderr)
		}
		return out
	}
	serial := runWith(1)
	parallel := runWith(4)
	if serial != parallel {
		t.Fatalf("parallel output differs from serial\nserial: %s\nparallel:%s", serial, parallel)
	}
	var got []api.EvaluationV1
	if err := json.Unmarshal([]byte(serial), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 6 || got[0].Sample != "a" || got[5].Sample != "f" {
		t.Errorf("want 6 evaluations sorted by name, got %d", len(got))
	}
}

func TestInlineSpecsJSONL(t *testing.T) {
	out, stderr, code := run(t, "--pad", "12", "-o", "jsonl", "--sort",
		"x="+profilePath+":"+structurePath,
		"y="+profilePath+":"+structurePath,
	)
	if code != 0 {
		t.Fatalf("exit %d err %s", code, stderr)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 || !strings.Contains(lines[0], `"sample":"x"`) || !strings.Contains(lines[1], `"sample":"y"`) {
		t.Fatalf("jsonl:\n%s", out)
	}
}

func TestNoDataExitCode(t *testing.T) {
	out, stderr, code := run(t, "-p", profilePath, "-s", structurePath, "--pad", "60", "--no-data-exit-code", "1")
	if code != 1 {
		t.Fatalf("want exit 1, got %d", code)
	}
	if !strings.Contains(out, "defined=0/100 median=nan") {
		t.Errorf("summary missing:\n%s", out)
	}
	if !strings.Contains(stderr, "WARN: sample stemloops: no window") {
		t.Errorf("stderr=%q", stderr)
	}
}

func TestShortProfileWarns(t *testing.T) {
	raw, err := os.ReadFile(profilePath)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.SplitAfter(string(raw), "\n")
	short := write(t, filepath.Join(t.TempDir(), "short.txt"), strings.Join(lines[:81], ""))

	out, stderr, code := run(t, "-p", short, "-s", structurePath, "--pad", "12", "--no-header")
	if code != 0 {
		t.Fatalf("exit %d err %s", code, stderr)
	}
	if !strings.Contains(stderr, "profile covers 80 of 100 positions") {
		t.Errorf("stderr=%q", stderr)
	}
	if !strings.HasSuffix(out, "stemloops\t100\tU\tnan\n") {
		t.Errorf("tail of output:\n%s", out[len(out)-80:])
	}

	_, stderr, _ = run(t, "-q", "-p", short, "-s", structurePath, "--pad", "12")
	if stderr != "" {
		t.Errorf("--quiet still warned: %q", stderr)
	}
}

func TestInputErrorsExit2(t *testing.T) {
	cases := map[string][]string{
		"missing profile":   {"-p", "nope.txt", "-s", structurePath},
		"unknown structure": {"-p", profilePath, "-s", "testdata/stemloops.xyz"},
		"wrong column":      {"-p", profilePath, "-s", structurePath, "--column", "Reactivity"},
		"bad normalize":     {"-p", profilePath, "-s", structurePath, "--normalize", "zscore"},
		"bad flag":          {"--bogus"},
	}
	for name, argv := range cases {
		t.Run(name, func(t *testing.T) {
			if _, _, code := run(t, argv...); code != 2 {
				t.Fatalf("want exit 2, got %d", code)
			}
		})
	}
}

func TestHelpAndVersion(t *testing.T) {
	out, _, code := run(t, "--help")
	if code != 0 || !strings.Contains(out, "Usage:") || !strings.Contains(out, "--pad int") {
		t.Errorf("help exit=%d:\n%s", code, out)
	}
	out, _, code = run(t, "--version")
	if code != 0 || !strings.HasPrefix(out, "rnaroc version ") {
		t.Errorf("version exit=%d out=%q", code, out)
	}
	out, _, code = run(t, "--examples")
	if code != 0 || !strings.Contains(out, "rnaroc --samples") {
		t.Errorf("examples exit=%d out=%q", code, out)
	}
}

func TestDatabaseRoundTrip(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")
	out, stderr, code := run(t, "-p", profilePath, "-s", structurePath, "--pad", "12", "--db", db, "-o", "jsonl")
	if code != 0 {
		t.Fatalf("exit %d err %s", code, stderr)
	}
	var e api.EvaluationV1
	if err := json.Unmarshal([]byte(out), &e); err != nil {
		t.Fatal(err)
	}
	if e.RunID == "" {
		t.Fatal("jsonl record has no run_id")
	}

	var shown, errBuf bytes.Buffer
	if code := runsapp.Run([]string{"--db", db, "--show", e.RunID}, &shown, &errBuf); code != 0 {
		t.Fatalf("rnaroc-runs exit %d: %s", code, errBuf.String())
	}
	want, err := os.ReadFile(goldenPath)
	if err != nil {
		t.Fatal(err)
	}
	if shown.String() != string(want) {
		t.Errorf("stored run prints differently:\n%s", shown.String())
	}
}

func TestCancelledExit130(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := manifest(t, "a", "b", "c", "d")
	code := app.RunContext(ctx, []string{"--samples", m, "--pad", "12"}, io.Discard, io.Discard)
	if code != 130 {
		t.Fatalf("expected exit 130 on cancel, got %d", code)
	}
}
