package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is wrapped by every TestConfig validation failure.
var ErrInvalidConfig = errors.New("invalid test config")

// ScoringType selects how item values are reduced into subscale and total scores.
type ScoringType string

const (
	ScoringSum     ScoringType = "sum"
	ScoringAverage ScoringType = "average"
)

// ValidScoringTypes enumerates all recognized scoring types.
var ValidScoringTypes = []ScoringType{ScoringSum, ScoringAverage}

// Comparator is the relational operator of a recommendation condition.
type Comparator string

const (
	ComparatorLT  Comparator = "<"
	ComparatorLTE Comparator = "<="
	ComparatorGT  Comparator = ">"
	ComparatorGTE Comparator = ">="
)

// comparatorAliases maps the word forms accepted in definition files.
var comparatorAliases = map[string]Comparator{
	"<": ComparatorLT, "lt": ComparatorLT,
	"<=": ComparatorLTE, "lte": ComparatorLTE,
	">": ComparatorGT, "gt": ComparatorGT,
	">=": ComparatorGTE, "gte": ComparatorGTE,
}

// ParseComparator normalizes a comparator or its word alias.
func ParseComparator(s string) (Comparator, bool) {
	c, ok := comparatorAliases[s]
	return c, ok
}

// Holds reports whether "value <op> threshold" is true.
// Unknown comparators never hold.
func (c Comparator) Holds(value, threshold float64) bool {
	switch c {
	case ComparatorLT:
		return value < threshold
	case ComparatorLTE:
		return value <= threshold
	case ComparatorGT:
		return value > threshold
	case ComparatorGTE:
		return value >= threshold
	default:
		return false
	}
}

// TargetTotal is the condition target that refers to the total score.
const TargetTotal = "total"

// TestConfig is the declarative definition of one psychometric test.
// It is never mutated once handed to a Registry.
type TestConfig struct {
	ID                    string               `yaml:"id"                      json:"id"`
	Title                 string               `yaml:"title"                   json:"title"`
	ScaleMin              float64              `yaml:"scale_min"               json:"scale_min"`
	ScaleMax              float64              `yaml:"scale_max"               json:"scale_max"`
	ScoringType           ScoringType          `yaml:"scoring_type"            json:"scoring_type"`
	ReverseItems          []int                `yaml:"reverse_items"           json:"reverse_items,omitempty"`
	Subscales             []SubscaleConfig     `yaml:"subscales"               json:"subscales"`
	Cutoffs               []CutoffBand         `yaml:"cutoffs"                 json:"cutoffs"`
	InterpretationByLevel map[string]string    `yaml:"interpretation_by_level" json:"interpretation_by_level,omitempty"`
	Recommendations       []RecommendationRule `yaml:"recommendations"         json:"recommendations,omitempty"`
}

// SubscaleConfig groups question ids into one named sub-score.
type SubscaleConfig struct {
	ID    string `yaml:"id"    json:"id"`
	Label string `yaml:"label" json:"label"`
	Items []int  `yaml:"items" json:"items"`
}

// CutoffBand is a closed interval [Min, Max] labeled with a level id.
type CutoffBand struct {
	ID    string  `yaml:"id"    json:"id"`
	Label string  `yaml:"label" json:"label"`
	Min   float64 `yaml:"min"   json:"min"`
	Max   float64 `yaml:"max"   json:"max"`
}

// Contains reports whether v lies inside the closed band.
func (b CutoffBand) Contains(v float64) bool {
	return v >= b.Min && v <= b.Max
}

// RecommendationRule fires when every condition holds.
type RecommendationRule struct {
	Conditions     []Condition `yaml:"conditions"      json:"conditions"`
	RecommendTests []string    `yaml:"recommend_tests" json:"recommend_tests"`
	Message        string      `yaml:"message"         json:"message,omitempty"`
}

// Condition compares the total or a subscale score against a literal.
type Condition struct {
	Target     string     `yaml:"target"     json:"target"`
	Comparator Comparator `yaml:"comparator" json:"comparator"`
	Value      float64    `yaml:"value"      json:"value"`
}

// IsReverse reports whether questionID is reverse-coded.
func (c TestConfig) IsReverse(questionID int) bool {
	for _, id := range c.ReverseItems {
		if id == questionID {
			return true
		}
	}
	return false
}

// UniqueItems returns the deduplicated union of all subscale items
// in subscale declaration order.
func (c TestConfig) UniqueItems() []int {
	seen := make(map[int]bool)
	var items []int
	for _, s := range c.Subscales {
		for _, q := range s.Items {
			if seen[q] {
				continue
			}
			seen[q] = true
			items = append(items, q)
		}
	}
	return items
}

// OwningSubscale returns the id of the first subscale that lists questionID.
func (c TestConfig) OwningSubscale(questionID int) string {
	for _, s := range c.Subscales {
		for _, q := range s.Items {
			if q == questionID {
				return s.ID
			}
		}
	}
	return ""
}

// Validate checks the config for invalid values and returns a descriptive error.
func (c TestConfig) Validate() error {
	if err := c.validate(); err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidConfig, c.ID, err)
	}
	return nil
}

func (c TestConfig) validate() error {
	// 1. identity
	if c.ID == "" {
		return errors.New("id must not be empty")
	}

	// 2. scoring type must be known
	if !isValidScoringType(c.ScoringType) {
		return fmt.Errorf("unknown scoring_type %q (valid: sum, average)", c.ScoringType)
	}

	// 3. scale bounds
	if c.ScaleMin >= c.ScaleMax {
		return fmt.Errorf("scale_min (%g) must be below scale_max (%g)", c.ScaleMin, c.ScaleMax)
	}

	// 4. subscales need ids, unique, with at least one item
	if len(c.Subscales) == 0 {
		return errors.New("at least one subscale is required")
	}
	subscaleIDs := make(map[string]bool, len(c.Subscales))
	for i, s := range c.Subscales {
		if s.ID == "" {
			return fmt.Errorf("subscales[%d].id must not be empty", i)
		}
		if s.ID == TargetTotal {
			return fmt.Errorf("subscales[%d].id %q is reserved", i, TargetTotal)
		}
		if subscaleIDs[s.ID] {
			return fmt.Errorf("duplicate subscale id %q", s.ID)
		}
		subscaleIDs[s.ID] = true
		if len(s.Items) == 0 {
			return fmt.Errorf("subscale %q has no items", s.ID)
		}
	}

	// 5. cutoffs must be well-formed; overlap is legal, order decides
	for i, b := range c.Cutoffs {
		if b.ID == "" {
			return fmt.Errorf("cutoffs[%d].id must not be empty", i)
		}
		if b.Min > b.Max {
			return fmt.Errorf("cutoff %q has min %g above max %g", b.ID, b.Min, b.Max)
		}
	}

	// 6. interpretations must name a declared level
	for level := range c.InterpretationByLevel {
		if !c.hasLevel(level) {
			return fmt.Errorf("interpretation for unknown level %q", level)
		}
	}

	// 7. recommendation rules
	for i, r := range c.Recommendations {
		if len(r.RecommendTests) == 0 && r.Message == "" {
			return fmt.Errorf("recommendations[%d] recommends nothing", i)
		}
		for j, cond := range r.Conditions {
			if _, ok := ParseComparator(string(cond.Comparator)); !ok {
				return fmt.Errorf("recommendations[%d].conditions[%d]: unknown comparator %q", i, j, cond.Comparator)
			}
			if cond.Target == "" {
				return fmt.Errorf("recommendations[%d].conditions[%d]: target must not be empty", i, j)
			}
		}
	}

	return nil
}

// Normalize rewrites comparator aliases to their symbolic form.
// It returns a copy; the receiver is left untouched.
func (c TestConfig) Normalize() TestConfig {
	out := c.clone()
	for i := range out.Recommendations {
		for j := range out.Recommendations[i].Conditions {
			cond := &out.Recommendations[i].Conditions[j]
			if norm, ok := ParseComparator(string(cond.Comparator)); ok {
				cond.Comparator = norm
			}
		}
	}
	return out
}

func (c TestConfig) hasLevel(id string) bool {
	for _, b := range c.Cutoffs {
		if b.ID == id {
			return true
		}
	}
	return false
}

// clone deep-copies every slice and map so the registry owns its data.
func (c TestConfig) clone() TestConfig {
	out := c
	out.ReverseItems = append([]int(nil), c.ReverseItems...)

	out.Subscales = make([]SubscaleConfig, len(c.Subscales))
	for i, s := range c.Subscales {
		s.Items = append([]int(nil), s.Items...)
		out.Subscales[i] = s
	}

	out.Cutoffs = append([]CutoffBand(nil), c.Cutoffs...)

	if c.InterpretationByLevel != nil {
		out.InterpretationByLevel = make(map[string]string, len(c.InterpretationByLevel))
		for k, v := range c.InterpretationByLevel {
			out.InterpretationByLevel[k] = v
		}
	}

	out.Recommendations = make([]RecommendationRule, len(c.Recommendations))
	for i, r := range c.Recommendations {
		r.Conditions = append([]Condition(nil), r.Conditions...)
		r.RecommendTests = append([]string(nil), r.RecommendTests...)
		out.Recommendations[i] = r
	}
	return out
}

func isValidScoringType(t ScoringType) bool {
	for _, v := range ValidScoringTypes {
		if t == v {
			return true
		}
	}
	return false
}
