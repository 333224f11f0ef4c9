package scoring

import "github.com/testology/psyengine/internal/domain"

// evaluateRecommendations runs the rules in declaration order against
// unrounded scores. A rule fires only when every condition holds; a
// condition on an unknown or missing subscale never holds.
func evaluateRecommendations(rules []domain.RecommendationRule, total *float64, subscales map[string]*float64) ([]string, []string) {
	tests := []string{}
	messages := []string{}
	seen := make(map[string]bool)

	for _, rule := range rules {
		if !ruleHolds(rule, total, subscales) {
			continue
		}
		for _, id := range rule.RecommendTests {
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			tests = append(tests, id)
		}
		if rule.Message != "" {
			messages = append(messages, rule.Message)
		}
	}
	return tests, messages
}

func ruleHolds(rule domain.RecommendationRule, total *float64, subscales map[string]*float64) bool {
	for _, cond := range rule.Conditions {
		var value *float64
		if cond.Target == domain.TargetTotal {
			value = total
		} else {
			value = subscales[cond.Target]
		}
		if value == nil {
			return false
		}
		if !cond.Comparator.Holds(*value, cond.Value) {
			return false
		}
	}
	return true
}
