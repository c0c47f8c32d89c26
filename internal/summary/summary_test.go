package summary_test

import (
	"context"
	"os/exec"
	"strings"
	"testing"

	"github.com/fakeyudi/revpane/internal/gitx"
	"github.com/fakeyudi/revpane/internal/summary"
)

// newCollector wires a Collector to canned numstat/name-status output.
func newCollector(numstat, nameStatus string) *summary.Collector {
	return &summary.Collector{
		Provider: &gitx.Provider{
			WorkDir: "/repo",
			Runner: func(workDir string, args ...string) (string, error) {
				for _, a := range args {
					if a == "--numstat" {
						return numstat, nil
					}
					if a == "--name-status" {
						return nameStatus, nil
					}
				}
				return "", nil
			},
		},
	}
}

// TestCollectJoinsStatAndStatus verifies the two-query join keyed by
// exact path, including all four status classifications.
func TestCollectJoinsStatAndStatus(t *testing.T) {
	numstat := strings.Join([]string{
		"10\t2\tpkg/api.go",
		"55\t0\tpkg/new.go",
		"0\t34\tpkg/old.go",
		"3\t3\tdocs/renamed.md",
	}, "\n")
	nameStatus := strings.Join([]string{
		"M\tpkg/api.go",
		"A\tpkg/new.go",
		"D\tpkg/old.go",
		"R100\tdocs/original.md\tdocs/renamed.md",
	}, "\n")

	records := newCollector(numstat, nameStatus).Collect(context.Background(), "main")
	if len(records) != 4 {
		t.Fatalf("expected 4 records, got %d", len(records))
	}

	want := []summary.ChangeRecord{
		{Path: "pkg/api.go", Status: summary.StatusModified, Additions: 10, Deletions: 2},
		{Path: "pkg/new.go", Status: summary.StatusAdded, Additions: 55},
		{Path: "pkg/old.go", Status: summary.StatusDeleted, Deletions: 34},
		{Path: "docs/renamed.md", Status: summary.StatusRenamed, Additions: 3, Deletions: 3},
	}
	for i, w := range want {
		if records[i] != w {
			t.Errorf("record %d: got %+v, want %+v", i, records[i], w)
		}
	}
}

// TestCollectBinaryCounts verifies "-" numstat fields map to zero
// counts rather than a parse failure.
func TestCollectBinaryCounts(t *testing.T) {
	records := newCollector("-\t-\tbinary.png", "M\tbinary.png").Collect(context.Background(), "main")
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	r := records[0]
	if r.Additions != 0 || r.Deletions != 0 {
		t.Errorf("binary file counts: got +%d/-%d, want 0/0", r.Additions, r.Deletions)
	}
	if r.Path != "binary.png" {
		t.Errorf("expected path binary.png, got %q", r.Path)
	}
}

// TestCollectStatusDefaultsToModified verifies a path present only in
// numstat still produces a record.
func TestCollectStatusDefaultsToModified(t *testing.T) {
	records := newCollector("1\t1\tonly-in-stat.go", "").Collect(context.Background(), "main")
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Status != summary.StatusModified {
		t.Errorf("expected modified fallback, got %q", records[0].Status)
	}
}

// TestCollectRenameScoreIgnored verifies that any similarity score
// after R is ignored and the final path segment wins.
func TestCollectRenameScoreIgnored(t *testing.T) {
	records := newCollector(
		"2\t2\tnew/name.go",
		"R087\told/name.go\tnew/name.go",
	).Collect(context.Background(), "main")
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Status != summary.StatusRenamed {
		t.Errorf("expected renamed, got %q", records[0].Status)
	}
	if records[0].Path != "new/name.go" {
		t.Errorf("rename record must carry the final path, got %q", records[0].Path)
	}
}

// TestCollectProviderFailureFailsSoft verifies that a failing provider
// yields an empty summary, never an error or panic.
func TestCollectProviderFailureFailsSoft(t *testing.T) {
	exitErr := exec.Command("sh", "-c", "exit 128").Run()
	if exitErr == nil {
		t.Fatal("expected nonzero exit error")
	}

	c := &summary.Collector{
		Provider: &gitx.Provider{
			Runner: func(workDir string, args ...string) (string, error) {
				return "", exitErr
			},
		},
	}
	records := c.Collect(context.Background(), "no-such-ref")
	if len(records) != 0 {
		t.Errorf("expected empty summary on provider failure, got %d records", len(records))
	}
}

// TestCollectPreservesNumstatOrder verifies display order matches the
// numstat query, not the status query.
func TestCollectPreservesNumstatOrder(t *testing.T) {
	numstat := "1\t0\tz.go\n2\t0\ta.go\n3\t0\tm.go"
	nameStatus := "A\ta.go\nM\tm.go\nM\tz.go"

	records := newCollector(numstat, nameStatus).Collect(context.Background(), "main")
	got := make([]string, len(records))
	for i, r := range records {
		got[i] = r.Path
	}
	want := "z.go,a.go,m.go"
	if strings.Join(got, ",") != want {
		t.Errorf("order: got %s, want %s", strings.Join(got, ","), want)
	}
}
