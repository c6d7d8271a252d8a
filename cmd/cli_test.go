package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

const gamesCSV = `id,rated,turns,victory_status,winner,increment_code,white_id,white_rating,black_id,black_rating,opening_name
a1,TRUE,13,outoftime,white,15+2,bourgris,1500,a-00,1191,Slav Defense: Exchange Variation
a2,TRUE,16,resign,black,5+10,a-00,1322,skinnerua,1261,Nimzowitsch Defense: Kennedy Variation
a3,TRUE,61,mate,white,5+10,ischia,1496,a-00,1500,King's Pawn Game: Leonardis Variation
a4,TRUE,61,mate,white,20+0,daniamurashov,1439,adivanov2009,1454,Queen's Pawn Game: Zukertort Variation
a5,TRUE,95,mate,white,30+3,nik221107,1523,adivanov2009,1469,Philidor Defense
a6,TRUE,5,draw,draw,10+0,trelynn17,1250,franklin14532,1002,Sicilian Defense: Mongoose Variation
a7,TRUE,33,resign,white,bad,bourgris,1520,vladimir-kramnik-1,1423,Slav Defense: Exchange Variation
`

// resetFlags restores defaults so flags from an earlier invocation do not leak.
func resetFlags(fs *pflag.FlagSet) {
	fs.VisitAll(func(fl *pflag.Flag) {
		_ = fl.Value.Set(fl.DefValue)
		fl.Changed = false
	})
}

// runCmd executes the root command with args and returns its stdout.
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	for _, fs := range []*pflag.FlagSet{rootCmd.PersistentFlags(), reportCmd.Flags(), summaryCmd.Flags()} {
		resetFlags(fs)
	}
	cfg = nil
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// isolate points HOME at a temp dir and writes the sample games file there.
func isolate(t *testing.T) (home, data string) {
	t.Helper()
	home = t.TempDir()
	t.Setenv("HOME", home)
	data = filepath.Join(home, "games.csv")
	if err := os.WriteFile(data, []byte(gamesCSV), 0o644); err != nil {
		t.Fatalf("write games: %v", err)
	}
	return home, data
}

func TestCLI_ReportWritesPages(t *testing.T) {
	home, data := isolate(t)
	outDir := filepath.Join(home, "out")

	out, err := runCmd(t, "report", data, "-o", outDir, "--prefix", "chess_", "--dpi", "72", "--quiet")
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	for i := 1; i <= 3; i++ {
		p := filepath.Join(outDir, "chess_"+string(rune('0'+i))+".png")
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("missing page %s: %v", p, err)
		}
		if !strings.Contains(out, p) {
			t.Errorf("output does not list %s:\n%s", p, out)
		}
	}
	if !strings.Contains(out, "Pages saved: [") {
		t.Errorf("missing pages line:\n%s", out)
	}
	if strings.Contains(out, "[DATASET SUMMARY]") {
		t.Errorf("--quiet should suppress the summary:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(outDir, "report.json")); err != nil {
		t.Fatalf("manifest missing: %v", err)
	}
}

func TestCLI_ReportExpandsHomeInPaths(t *testing.T) {
	home, data := isolate(t)

	out, err := runCmd(t, "report", data, "-o", "~/pages", "--dpi", "72", "--quiet",
		"--xlsx", "~/tables.xlsx", "--summary", "~/summary.md")
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	for _, p := range []string{
		filepath.Join(home, "pages", "report_page1.png"),
		filepath.Join(home, "pages", "report.json"),
		filepath.Join(home, "tables.xlsx"),
		filepath.Join(home, "summary.md"),
	} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("expected %s: %v", p, err)
		}
	}
	if strings.Contains(out, "~/") {
		t.Errorf("output still shows unexpanded paths:\n%s", out)
	}
}

func TestCLI_ReportRejectsInvalidOverrides(t *testing.T) {
	home, data := isolate(t)
	if _, err := runCmd(t, "report", data, "-o", home, "--dpi", "10"); err == nil || !strings.Contains(err.Error(), "dpi") {
		t.Fatalf("expected dpi validation error, got %v", err)
	}
	if _, err := runCmd(t, "report", data, "-o", home, "--delimiter", "x"); err == nil {
		t.Fatal("expected delimiter error")
	}
}

func TestCLI_ReportMissingColumns(t *testing.T) {
	home, _ := isolate(t)
	bad := filepath.Join(home, "bad.csv")
	if err := os.WriteFile(bad, []byte("white_id,black_id\na,b\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := runCmd(t, "report", bad, "-o", filepath.Join(home, "out"))
	if err == nil || !strings.Contains(err.Error(), "opening_name") {
		t.Fatalf("expected missing column error, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(home, "out")); !os.IsNotExist(statErr) {
		t.Fatalf("no output should be written on fatal error")
	}
}

func TestCLI_SummaryToStdoutAndFile(t *testing.T) {
	home, data := isolate(t)

	out, err := runCmd(t, "summary", data, "--top", "2")
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	for _, want := range []string{"[DATASET SUMMARY]", "[TOP PLAYERS]", "[TOP OPENINGS]", "bourgris", "Slav Defense: Exchange Variation"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}

	dest := filepath.Join(home, "summary.md")
	out, err = runCmd(t, "summary", data, "--output", dest)
	if err != nil {
		t.Fatalf("summary --output failed: %v", err)
	}
	if !strings.Contains(out, "Wrote summary") {
		t.Errorf("unexpected output: %s", out)
	}
	b, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	if !strings.HasPrefix(string(b), "[DATASET SUMMARY]") {
		t.Errorf("unexpected summary file:\n%s", b)
	}
}

func TestCLI_ConfigSetAndShow(t *testing.T) {
	home, _ := isolate(t)

	if _, err := runCmd(t, "config", "set", "dpi", "200"); err != nil {
		t.Fatalf("config set: %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, ".chessreport", "config.yaml")); err != nil {
		t.Fatalf("config not saved: %v", err)
	}
	out, err := runCmd(t, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "dpi: 200") {
		t.Errorf("saved value not shown:\n%s", out)
	}

	if _, err := runCmd(t, "config", "set", "dpi", "abc"); err == nil {
		t.Error("expected error for non-integer dpi")
	}
	if _, err := runCmd(t, "config", "set", "outlier_low", "0.99"); err == nil {
		t.Error("expected error for outlier_low >= outlier_high")
	}
	if _, err := runCmd(t, "config", "set", "colour", "red"); err == nil {
		t.Error("expected error for unknown key")
	}
}
