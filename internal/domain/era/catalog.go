// Package era draws the tiered era bands and owns the period catalog.
package era

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/okian/epochline/internal/domain/model"
)

//go:embed eras.yaml
var defaultCatalog []byte

// ErrInvalidCatalog is returned when a catalog breaks the tier rules.
var ErrInvalidCatalog = errors.New("invalid era catalog")

// Catalog is the static list of era periods.
type Catalog struct {
	Periods []model.Period `yaml:"periods" json:"periods"`
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Catalog{}, err
	}
	return c, nil
}

// Load reads a catalog file.
func Load(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Default returns the built-in catalog.
func Default() Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(err)
	}
	return c
}

// Validate checks every period and the tier-0 sequence. Tier 0 must be
// contiguous and non-overlapping; overlay tiers are unconstrained.
func (c Catalog) Validate() error {
	if len(c.Periods) == 0 {
		return fmt.Errorf("%w: no periods", ErrInvalidCatalog)
	}
	var problems []string
	for i, p := range c.Periods {
		switch {
		case strings.TrimSpace(p.Name) == "":
			problems = append(problems, fmt.Sprintf("period %d: empty name", i))
		case p.StartYear >= p.EndYear:
			problems = append(problems, fmt.Sprintf("%s: start %d is not before end %d", p.Name, p.StartYear, p.EndYear))
		case p.Tier < 0:
			problems = append(problems, fmt.Sprintf("%s: negative tier %d", p.Name, p.Tier))
		}
	}
	base := c.Tier(0)
	if len(base) == 0 {
		problems = append(problems, "tier 0 is empty")
	}
	for i := 1; i < len(base); i++ {
		prev, cur := base[i-1], base[i]
		switch {
		case cur.StartYear < prev.EndYear:
			problems = append(problems, fmt.Sprintf("%s overlaps %s", cur.Name, prev.Name))
		case cur.StartYear > prev.EndYear:
			problems = append(problems, fmt.Sprintf("gap between %s and %s", prev.Name, cur.Name))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidCatalog, strings.Join(problems, "; "))
	}
	return nil
}

// Tier returns the periods of one tier ordered by start year.
func (c Catalog) Tier(tier int) []model.Period {
	var out []model.Period
	for _, p := range c.Periods {
		if p.Tier == tier {
			out = append(out, p)
		}
	}
	slices.SortStableFunc(out, func(a, b model.Period) int { return a.StartYear - b.StartYear })
	return out
}

// Tiers returns the number of tiers in use.
func (c Catalog) Tiers() int {
	n := 0
	for _, p := range c.Periods {
		n = max(n, p.Tier+1)
	}
	return n
}

// Coverage returns the span covered by tier 0.
func (c Catalog) Coverage() (start, end int, ok bool) {
	base := c.Tier(0)
	if len(base) == 0 {
		return 0, 0, false
	}
	return base[0].StartYear, base[len(base)-1].EndYear, true
}

// Covers reports whether tier 0 spans [minYear, maxYear].
func (c Catalog) Covers(minYear, maxYear int) bool {
	start, end, ok := c.Coverage()
	return ok && start <= minYear && end >= maxYear
}
