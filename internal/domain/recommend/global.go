package recommend

import (
	"fmt"
	"sort"
	"strings"

	"github.com/testology/psyengine/internal/domain"
)

// Test ids the cross-test rules refer to.
const (
	testAnxiety          = "GAD7"
	testDepression       = "PHQ9"
	testStress           = "PSS10"
	testSleep            = "PSQI"
	testLifeSatisfaction = "SWLS"
	testLifestyle        = "LifestyleHarmony"
	testWorkLife         = "WorkLifeBalance"
)

// Thresholds on the latest stress and sleep totals.
const (
	stressHighThreshold   = 27
	sleepPoorThreshold    = 8
	mentalCoverageMinimum = 2
)

const sourceCoverageGap = "Cross: Mental vs Lifestyle"

const (
	reasonAnxietyStress  = "Your GAD-7 anxiety score was moderate or higher; a stress test gives a clearer picture of the overall pressure in your life."
	reasonDepressionSWLS = "Your PHQ-9 showed low mood or reduced interest; a life satisfaction test shows which areas of life need the most attention."
	reasonCoverageGap    = "So far you have focused on mental health; this test gives a broader view of your lifestyle balance (sleep, nutrition, activity, work)."
	reasonStressWorkLife = "Your PSS-10 stress level is high; a work-life balance test helps you see whether work pressure or imbalance is behind it."
	reasonSleepLifestyle = "Your PSQI sleep quality is poor; a lifestyle test helps you see whether stress, nutrition or activity affect your sleep."
)

var (
	mentalHealthTests = []string{"GAD7", "PHQ9", "HADS", "BAI", "DepressionBDI", "PSS10"}
	lifestyleTests    = []string{"LifestyleHarmony", "PSQI", "LifestyleSleepQuality", "PhysicalActivity", "WorkLifeBalance"}
)

// familyBands assigns each signature family its priority band.
var familyBands = map[Family]int{
	FamilyPersonality: BandPersonality,
	FamilyVocational:  BandVocational,
	FamilyAttachment:  BandAttachment,
	FamilyLearning:    BandLearningStyle,
}

// DefaultLimit is the number of recommendations returned when the caller
// has no preference.
const DefaultLimit = 6

// Payload is the outcome of Build.
type Payload struct {
	Items      []domain.GlobalRecommendationItem `json:"items"`
	Signatures []Signature                       `json:"signatures,omitempty"`
	Skipped    []SkippedFamily                   `json:"skipped,omitempty"`
}

// SkippedFamily reports a signature family whose record exists but could
// not produce a signature.
type SkippedFamily struct {
	Family Family `json:"family"`
	Reason string `json:"reason"`
}

// Recommender ranks next tests from a user's history. It is immutable and
// safe for concurrent use.
type Recommender struct {
	rules SignatureRules
}

// New returns a recommender using a private copy of rules.
func New(rules SignatureRules) *Recommender {
	return &Recommender{rules: rules.Clone()}
}

// Build derives signatures and screening signals from history and returns
// at most limit recommendations, most important first.
func (r *Recommender) Build(history []domain.HistoryRecord, limit int) Payload {
	h := newHistoryIndex(history)
	var (
		candidates []domain.GlobalRecommendationItem
		payload    Payload
	)

	// signature families
	for _, family := range Families {
		rec, ok := h.latest(string(family))
		if !ok {
			continue
		}
		snap := ParseSnapshot(rec.Subscales)
		if snap.Status != SnapshotOK {
			reason := "snapshot " + snap.Status.String()
			if snap.Err != nil {
				reason = snap.Err.Error()
			}
			payload.Skipped = append(payload.Skipped, SkippedFamily{Family: family, Reason: reason})
			continue
		}
		code, err := family.derive(snap)
		if err != nil {
			payload.Skipped = append(payload.Skipped, SkippedFamily{Family: family, Reason: err.Error()})
			continue
		}
		payload.Signatures = append(payload.Signatures, Signature{Family: family, Code: code, TestID: rec.TestID})

		source := fmt.Sprintf("%s (%s)", family, code)
		for i, item := range r.rules.For(family, code) {
			if item.TestID == "" || h.has(item.TestID) {
				continue
			}
			candidates = append(candidates, domain.GlobalRecommendationItem{
				TestID:   item.TestID,
				Reason:   item.Message,
				Source:   source,
				Priority: familyBands[family] + i,
			})
		}
	}

	// screening
	anxiety := AnxietySeverity(h.latestScore(testAnxiety))
	if anxiety >= SeverityModerate && !h.has(testStress) {
		candidates = append(candidates, domain.GlobalRecommendationItem{
			TestID: testStress, Reason: reasonAnxietyStress, Source: testAnxiety, Priority: BandAnxietyStress,
		})
	}
	depression := DepressionSeverity(h.latestScore(testDepression))
	if depression >= SeverityModerate && !h.has(testLifeSatisfaction) {
		candidates = append(candidates, domain.GlobalRecommendationItem{
			TestID: testLifeSatisfaction, Reason: reasonDepressionSWLS, Source: testDepression, Priority: BandDepressionSatisfaction,
		})
	}

	// coverage gap
	if h.count(mentalHealthTests) >= mentalCoverageMinimum && h.count(lifestyleTests) == 0 && !h.has(testLifestyle) {
		candidates = append(candidates, domain.GlobalRecommendationItem{
			TestID: testLifestyle, Reason: reasonCoverageGap, Source: sourceCoverageGap, Priority: BandCoverageGap,
		})
	}

	// thresholds
	if domain.Deref(h.latestScore(testStress), 0) >= stressHighThreshold && !h.has(testWorkLife) {
		candidates = append(candidates, domain.GlobalRecommendationItem{
			TestID: testWorkLife, Reason: reasonStressWorkLife, Source: testStress, Priority: BandStressWorkLife,
		})
	}
	if domain.Deref(h.latestScore(testSleep), 0) >= sleepPoorThreshold && !h.has(testLifestyle) {
		candidates = append(candidates, domain.GlobalRecommendationItem{
			TestID: testLifestyle, Reason: reasonSleepLifestyle, Source: testSleep, Priority: BandSleepLifestyle,
		})
	}

	payload.Items = rank(candidates, limit)
	return payload
}

// rank keeps the lowest priority per test id, orders ascending and
// truncates. Equal priorities keep their first-seen order.
func rank(candidates []domain.GlobalRecommendationItem, limit int) []domain.GlobalRecommendationItem {
	items := []domain.GlobalRecommendationItem{}
	pos := make(map[string]int)
	for _, c := range candidates {
		if i, ok := pos[c.TestID]; ok {
			if c.Priority < items[i].Priority {
				items[i] = c
			}
			continue
		}
		pos[c.TestID] = len(items)
		items = append(items, c)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Priority < items[j].Priority
	})

	if limit <= 0 {
		return []domain.GlobalRecommendationItem{}
	}
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

// historyIndex answers lookups against a user's records by normalized id.
type historyIndex struct {
	records []domain.HistoryRecord
	taken   map[string]bool
}

func newHistoryIndex(records []domain.HistoryRecord) historyIndex {
	h := historyIndex{records: records, taken: make(map[string]bool, len(records))}
	for _, r := range records {
		if id := r.NormalizedTestID(); id != "" {
			h.taken[id] = true
		}
	}
	return h
}

func (h historyIndex) has(testID string) bool {
	return h.taken[strings.ToLower(testID)]
}

// latest returns the most recent record for testID; the earliest record
// in history wins a tie on CreatedAt.
func (h historyIndex) latest(testID string) (domain.HistoryRecord, bool) {
	want := strings.ToLower(testID)
	var (
		best  domain.HistoryRecord
		found bool
	)
	for _, r := range h.records {
		if r.NormalizedTestID() != want {
			continue
		}
		if !found || r.CreatedAt.After(best.CreatedAt) {
			best, found = r, true
		}
	}
	return best, found
}

func (h historyIndex) latestScore(testID string) *float64 {
	r, ok := h.latest(testID)
	if !ok {
		return nil
	}
	return r.Score
}

// count returns how many records belong to any of testIDs.
func (h historyIndex) count(testIDs []string) int {
	want := make(map[string]bool, len(testIDs))
	for _, id := range testIDs {
		want[strings.ToLower(id)] = true
	}
	n := 0
	for _, r := range h.records {
		if want[r.NormalizedTestID()] {
			n++
		}
	}
	return n
}
