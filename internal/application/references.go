package application

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/testology/psyengine/internal/domain"
	"github.com/testology/psyengine/internal/domain/recommend"
)

// ErrUnresolvedReference is returned when a recommendation names a test
// that has no definition.
var ErrUnresolvedReference = errors.New("recommendation names an unknown test")

// UnresolvedReferences lists every test id named by a definition's
// recommend_tests or by a signature rule that reg does not contain.
// Each entry reads "<where>: <test id>"; the list is sorted.
func UnresolvedReferences(reg *domain.Registry, rules recommend.SignatureRules) []string {
	var out []string
	for _, id := range reg.IDs() {
		cfg, _ := reg.Lookup(id)
		for i, r := range cfg.Recommendations {
			for _, target := range r.RecommendTests {
				if _, ok := reg.Lookup(target); !ok {
					out = append(out, fmt.Sprintf("%s recommendations[%d]: %s", id, i, target))
				}
			}
		}
	}
	for _, f := range recommend.Families {
		for _, code := range rules.Codes(f) {
			for _, item := range rules.For(f, code) {
				if item.TestID == "" {
					continue
				}
				if _, ok := reg.Lookup(item.TestID); !ok {
					out = append(out, fmt.Sprintf("%s rule %s: %s", f, code, item.TestID))
				}
			}
		}
	}
	sort.Strings(out)
	return out
}

// CheckReferences wraps UnresolvedReferences into a single error.
func CheckReferences(reg *domain.Registry, rules recommend.SignatureRules) error {
	missing := UnresolvedReferences(reg, rules)
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnresolvedReference, strings.Join(missing, "; "))
}
