package sample

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"rnaroc-core/auroc"
	"rnaroc-core/profile"
)

func write(t *testing.T, dir, name, data string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(data), 0o644); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
	return p
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	m := write(t, dir, "samples.tsv", `# name profile structure [pad]
wt    wt_profile.txt    wt.ct
mut   /abs/mut.map      mut.dbn   25
`)
	list, err := LoadManifest(m)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("want 2 samples, got %d", len(list))
	}
	if list[0].Profile != filepath.Join(dir, "wt_profile.txt") || list[0].Pad != -1 {
		t.Errorf("first sample %+v", list[0])
	}
	if list[1].Profile != "/abs/mut.map" || list[1].Pad != 25 {
		t.Errorf("second sample %+v", list[1])
	}
}

func TestLoadManifest_Errors(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"too few":   "a b\n",
		"bad pad":   "a b c x\n",
		"neg pad":   "a b c -2\n",
		"duplicate": "a b c\na d e\n",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			m := write(t, dir, strings.ReplaceAll(name, " ", "_")+".tsv", data)
			if _, err := LoadManifest(m); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoad_AlignsProfileAndStructure(t *testing.T) {
	dir := t.TempDir()
	prof := write(t, dir, "p.txt", "Nucleotide\tSequence\tNorm_profile\n1\tG\t0.1\n2\tG\t0.2\n3\tA\t1.1\n")
	st := write(t, dir, "s.dbn", ">hp\nGGAAACC\n((...))\n")

	in, err := Load(Sample{Name: "x", Profile: prof, Structure: st, Pad: -1}, ReadOptions{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(in.Signal) != 7 || len(in.Labels) != 7 {
		t.Fatalf("signal %d labels %d", len(in.Signal), len(in.Labels))
	}
	if in.Signal[2] != 1.1 || !math.IsNaN(in.Signal[6]) {
		t.Errorf("signal=%v", in.Signal)
	}
	if in.Labels[0] != auroc.Paired || in.Labels[3] != auroc.Unpaired {
		t.Errorf("labels=%v", in.Labels)
	}
	if len(in.Warnings) != 1 || !strings.Contains(in.Warnings[0], "3 of 7") {
		t.Errorf("warnings=%v", in.Warnings)
	}
}

func TestLoad_ProfileLongerThanStructure(t *testing.T) {
	dir := t.TempDir()
	prof := write(t, dir, "p.map", "1 0.1 0 G\n2 0.1 0 G\n3 0.1 0 A\n")
	st := write(t, dir, "s.dbn", "GG\n..\n")
	if _, err := Load(Sample{Name: "x", Profile: prof, Structure: st}, ReadOptions{}); err == nil {
		t.Fatalf("expected length error")
	}
}

func TestLoad_SequenceMismatchWarns(t *testing.T) {
	dir := t.TempDir()
	prof := write(t, dir, "p.map", "1 0.1 0 G\n2 0.1 0 T\n3 0.1 0 C\n")
	st := write(t, dir, "s.dbn", "GUA\n...\n")
	in, err := Load(Sample{Profile: prof, Structure: st}, ReadOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if in.Name != "s" {
		t.Errorf("name should fall back to the structure name, got %q", in.Name)
	}
	if !hasWarning(in.Warnings, "differ at 1 positions") {
		t.Errorf("warnings=%v", in.Warnings)
	}
}

func hasWarning(ws []string, sub string) bool {
	for _, w := range ws {
		if strings.Contains(w, sub) {
			return true
		}
	}
	return false
}

func TestLoad_UnpairedStructureWarns(t *testing.T) {
	dir := t.TempDir()
	prof := write(t, dir, "p.map", "1 0.1 0 G\n2 0.2 0 G\n3 0.3 0 A\n")
	in, err := Load(Sample{Name: "x", Profile: prof, Structure: write(t, dir, "open.dbn", "GGA\n...\n")}, ReadOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if !hasWarning(in.Warnings, "structure has no base pairs") {
		t.Errorf("warnings=%v", in.Warnings)
	}
	in, err = Load(Sample{Name: "x", Profile: prof, Structure: write(t, dir, "hp.dbn", "GGAAACC\n((...))\n")}, ReadOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if hasWarning(in.Warnings, "no base pairs") {
		t.Errorf("paired structure warned: %v", in.Warnings)
	}
}

func TestLoad_AllMissingWarns(t *testing.T) {
	dir := t.TempDir()
	prof := write(t, dir, "p.map", "1 -999 0 G\n2 -999 0 G\n")
	st := write(t, dir, "s.dbn", "GG\n..\n")
	in, err := Load(Sample{Name: "x", Profile: prof, Structure: st}, ReadOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if !hasWarning(in.Warnings, "every profile position is missing") {
		t.Errorf("warnings=%v", in.Warnings)
	}
}

func TestLoad_NormalizesRawColumn(t *testing.T) {
	dir := t.TempDir()
	var b strings.Builder
	b.WriteString("Nucleotide\tSequence\tReactivity_profile\n")
	for i := 1; i <= 20; i++ {
		fmt.Fprintf(&b, "%d\tA\t%d\n", i, i)
	}
	prof := write(t, dir, "p.txt", b.String())
	st := write(t, dir, "s.dbn", strings.Repeat("A", 20)+"\n"+strings.Repeat(".", 20)+"\n")

	in, err := Load(Sample{Name: "x", Profile: prof, Structure: st},
		ReadOptions{Column: "Reactivity_profile", Normalize: profile.Percentiles})
	if err != nil {
		t.Fatal(err)
	}
	// The 90th-99th percentile band of 1..20 holds only 19.
	if math.Abs(in.Signal[18]-1) > 1e-12 || math.Abs(in.Signal[0]-1.0/19) > 1e-12 {
		t.Errorf("signal=%v", in.Signal)
	}
}
