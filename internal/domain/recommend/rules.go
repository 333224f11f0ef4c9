package recommend

import (
	"fmt"
	"sort"
)

// RuleItem is one suggested test in a signature rule list.
type RuleItem struct {
	TestID  string `yaml:"test_id" json:"testId"`
	Message string `yaml:"message" json:"message"`
}

// SignatureRules maps each family's codes to an ordered list of suggestions.
type SignatureRules struct {
	Personality map[string][]RuleItem `yaml:"personality" json:"personality"`
	Vocational  map[string][]RuleItem `yaml:"vocational"  json:"vocational"`
	Attachment  map[string][]RuleItem `yaml:"attachment"  json:"attachment"`
	Learning    map[string][]RuleItem `yaml:"learning"    json:"learning"`
}

// For returns the suggestions configured for code within family.
func (r SignatureRules) For(family Family, code string) []RuleItem {
	return r.table(family)[code]
}

func (r SignatureRules) table(family Family) map[string][]RuleItem {
	switch family {
	case FamilyPersonality:
		return r.Personality
	case FamilyVocational:
		return r.Vocational
	case FamilyAttachment:
		return r.Attachment
	case FamilyLearning:
		return r.Learning
	default:
		return nil
	}
}

// Validate rejects codes that no history record could ever produce.
func (r SignatureRules) Validate() error {
	for code := range r.Personality {
		if !isPersonalityCode(code) {
			return fmt.Errorf("personality: invalid code %q", code)
		}
	}
	checks := []struct {
		name  string
		table map[string][]RuleItem
		codes []string
	}{
		{"vocational", r.Vocational, vocationalCodes},
		{"attachment", r.Attachment, attachmentStyles},
		{"learning", r.Learning, learningStyles},
	}
	for _, c := range checks {
		for code := range c.table {
			if !contains(c.codes, code) {
				return fmt.Errorf("%s: invalid code %q (valid: %v)", c.name, code, c.codes)
			}
		}
	}
	return nil
}

// Merge returns r with every code present in override replaced.
func (r SignatureRules) Merge(override SignatureRules) SignatureRules {
	out := r.Clone()
	for _, f := range Families {
		dst := out.table(f)
		for code, items := range override.table(f) {
			dst[code] = append([]RuleItem(nil), items...)
		}
	}
	return out
}

// Codes returns the configured codes of a family in sorted order.
func (r SignatureRules) Codes(family Family) []string {
	var codes []string
	for code := range r.table(family) {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Clone deep-copies the tables.
func (r SignatureRules) Clone() SignatureRules {
	return SignatureRules{
		Personality: cloneTable(r.Personality),
		Vocational:  cloneTable(r.Vocational),
		Attachment:  cloneTable(r.Attachment),
		Learning:    cloneTable(r.Learning),
	}
}

func cloneTable(t map[string][]RuleItem) map[string][]RuleItem {
	out := make(map[string][]RuleItem, len(t))
	for k, v := range t {
		out[k] = append([]RuleItem(nil), v...)
	}
	return out
}

func isPersonalityCode(code string) bool {
	if len(code) != len(personalityAxes) {
		return false
	}
	for i, axis := range personalityAxes {
		c := code[i : i+1]
		if c != axis.first && c != axis.other {
			return false
		}
	}
	return true
}
