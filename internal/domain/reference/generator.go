// Package reference generates human-readable claim reference numbers.
package reference

import (
	"fmt"
	"math/rand"
	"regexp"
	"time"
)

// DefaultPrefix matches the reference prefix used on existing claims.
const DefaultPrefix = "CLM"

var referencePattern = regexp.MustCompile(`^[A-Z]+-\d{4}-\d{5}$`)

// Generator produces candidate reference numbers in the form
// PREFIX-YYYY-NNNNN. Candidates are random, so uniqueness is guaranteed by
// the unique index on claims.reference_number; callers retry generation when
// the insert hits the index.
type Generator struct {
	prefix string
	now    func() time.Time
}

// NewGenerator creates a generator with the given prefix. An empty prefix
// falls back to DefaultPrefix.
func NewGenerator(prefix string) *Generator {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Generator{prefix: prefix, now: time.Now}
}

// Next returns a new candidate reference number scoped to the current year.
func (g *Generator) Next() string {
	year := g.now().Year()
	return fmt.Sprintf("%s-%d-%05d", g.prefix, year, rand.Intn(99999)+1)
}

// Valid reports whether s matches the reference number format.
func Valid(s string) bool {
	return referencePattern.MatchString(s)
}
