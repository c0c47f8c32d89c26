// Package summary reconciles git numstat and name-status output into
// per-file change records for a review panel.
package summary

import (
	"context"
	"strconv"
	"strings"

	"github.com/fakeyudi/revpane/internal/gitx"
)

// Status classifies what happened to a file between the base reference
// and the working state.
type Status string

const (
	StatusAdded    Status = "added"
	StatusModified Status = "modified"
	StatusDeleted  Status = "deleted"
	StatusRenamed  Status = "renamed"
)

// ChangeRecord describes one changed file. Path is unique within a
// single collection. Additions/Deletions are 0 for binary files.
type ChangeRecord struct {
	Path      string
	Status    Status
	Additions int
	Deletions int
}

// Collector produces change records against a base reference.
type Collector struct {
	Provider *gitx.Provider
}

// Collect returns one ChangeRecord per changed file, in numstat order.
//
// It fails soft: if the provider errors (git missing, bad ref, not a
// repository) it returns an empty slice so the host can still render
// an empty state instead of crashing.
func (c *Collector) Collect(ctx context.Context, base string) []ChangeRecord {
	numstat, err := c.Provider.Numstat(ctx, base)
	if err != nil {
		return nil
	}
	nameStatus, err := c.Provider.NameStatus(ctx, base)
	if err != nil {
		// Numeric stats alone still make a usable summary; every path
		// falls back to modified below.
		nameStatus = ""
	}

	statusByPath := parseNameStatus(nameStatus)

	var records []ChangeRecord
	for _, line := range strings.Split(numstat, "\n") {
		rec, ok := parseNumstatLine(line)
		if !ok {
			continue
		}
		// Paths that only appear in numstat (or whose spelling differs
		// between the two queries) default to modified. That is an
		// accepted imprecision, not a defect.
		rec.Status = StatusModified
		if s, ok := statusByPath[rec.Path]; ok {
			rec.Status = s
		}
		records = append(records, rec)
	}
	return records
}

// parseNumstatLine parses one "additions<TAB>deletions<TAB>path" triple.
// A "-" count means a binary file and maps to 0 rather than a parse
// failure.
func parseNumstatLine(line string) (ChangeRecord, bool) {
	fields := strings.SplitN(strings.TrimRight(line, "\r"), "\t", 3)
	if len(fields) != 3 || fields[2] == "" {
		return ChangeRecord{}, false
	}
	return ChangeRecord{
		Path:      fields[2],
		Additions: parseCount(fields[0]),
		Deletions: parseCount(fields[1]),
	}, true
}

func parseCount(s string) int {
	if s == "-" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// parseNameStatus parses "letter<TAB>path[<TAB>newPath]" tuples into a
// path→status map. Only the first character of the status field
// matters: anything after an R is a similarity score (R100, R087) and
// is ignored. For renames the effective path is the last field, the
// post-rename name.
func parseNameStatus(out string) map[string]Status {
	statuses := make(map[string]Status)
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Split(strings.TrimRight(line, "\r"), "\t")
		if len(fields) < 2 || fields[0] == "" {
			continue
		}
		path := fields[len(fields)-1]
		if path == "" {
			continue
		}
		switch fields[0][0] {
		case 'A':
			statuses[path] = StatusAdded
		case 'D':
			statuses[path] = StatusDeleted
		case 'R':
			statuses[path] = StatusRenamed
		default:
			statuses[path] = StatusModified
		}
	}
	return statuses
}
