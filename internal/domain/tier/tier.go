// Package tier defines the flair tier table and score-to-tier resolution.
package tier

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Karma cutoffs for the standard tier table.
//
//nolint:gochecknoglobals // fixed table defined at process start
var defaultCutoffs = []int{500, 1000, 3000, 5000, 10000, 20000}

// Threshold is a single row of the tier table: the minimum karma required
// for a flair class. The class string encodes the cutoff so the numeric
// rank of an assigned flair can always be recovered with ParseClassKarma.
type Threshold struct {
	MinKarma int
	Class    string
}

// Table is an immutable list of thresholds sorted by MinKarma descending.
type Table struct {
	thresholds []Threshold
}

// Option applies a configuration option to the Table.
type Option func(*Table)

// WithCutoffs replaces the default karma cutoffs. Non-positive cutoffs
// are ignored.
func WithCutoffs(cutoffs []int) Option {
	return func(t *Table) {
		kept := make([]Threshold, 0, len(cutoffs))
		for _, c := range cutoffs {
			if c > 0 {
				kept = append(kept, Threshold{MinKarma: c, Class: ClassFor(c)})
			}
		}
		if len(kept) > 0 {
			t.thresholds = kept
		}
	}
}

// NewTable builds a tier table from the default cutoffs unless overridden
// by options. The table is sorted descending once at construction; Resolve
// relies on that order.
func NewTable(opts ...Option) *Table {
	t := &Table{}
	thresholds := make([]Threshold, 0, len(defaultCutoffs))
	for _, c := range defaultCutoffs {
		thresholds = append(thresholds, Threshold{MinKarma: c, Class: ClassFor(c)})
	}
	t.thresholds = thresholds

	for _, opt := range opts {
		opt(t)
	}

	sort.Slice(t.thresholds, func(i, j int) bool {
		return t.thresholds[i].MinKarma > t.thresholds[j].MinKarma
	})
	return t
}

// Resolve returns the threshold with the largest MinKarma not exceeding
// score. The second return is false when score is below every threshold,
// which includes all negative scores.
func (t *Table) Resolve(score int) (Threshold, bool) {
	for _, th := range t.thresholds {
		if score >= th.MinKarma {
			return th, true
		}
	}
	return Threshold{}, false
}

// Thresholds returns a copy of the table rows, highest cutoff first.
func (t *Table) Thresholds() []Threshold {
	out := make([]Threshold, len(t.thresholds))
	copy(out, t.thresholds)
	return out
}

// ClassFor derives the flair class for a karma cutoff.
func ClassFor(cutoff int) string {
	return fmt.Sprintf("over-%d-karma", cutoff)
}

// ParseClassKarma recovers the numeric cutoff embedded in a flair class
// string, e.g. "over-1000-karma" -> 1000.
func ParseClassKarma(class string) (int, error) {
	parts := strings.Split(class, "-")
	if len(parts) < 2 {
		return 0, fmt.Errorf("%w: %q", ErrUnparseableClass, class)
	}
	n, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnparseableClass, class)
	}
	return n, nil
}
