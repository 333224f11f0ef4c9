package recommend

import (
	"errors"
	"strings"
)

// Family names a typed signature family. The value doubles as the test id
// whose history records the family is derived from.
type Family string

const (
	FamilyPersonality Family = "MBTI"
	FamilyVocational  Family = "RIASEC"
	FamilyAttachment  Family = "Attachment"
	FamilyLearning    Family = "LearningStyle"
)

// Families lists the signature families in evaluation order.
var Families = []Family{FamilyPersonality, FamilyVocational, FamilyAttachment, FamilyLearning}

// Signature is a categorical code derived from one history record.
type Signature struct {
	Family Family `json:"family"`
	Code   string `json:"code"`
	TestID string `json:"testId"`
}

// personalityMidpoint splits each personality axis; scores at or above it
// pick the first pole.
const personalityMidpoint = 3

// personalityAxes pairs each axis id with its two poles.
var personalityAxes = []struct {
	id           string
	first, other string
}{
	{"EI", "E", "I"},
	{"SN", "S", "N"},
	{"TF", "T", "F"},
	{"JP", "J", "P"},
}

var (
	vocationalCodes  = []string{"R", "I", "A", "S", "E", "C"}
	attachmentStyles = []string{"secure", "anxious", "avoidant", "fearful"}
	learningStyles   = []string{"visual", "auditory", "kinesthetic", "reading_writing"}
)

var errIncomplete = errors.New("subscales do not determine a signature")

// derive computes the family's code from an OK snapshot.
func (f Family) derive(s Snapshot) (string, error) {
	switch f {
	case FamilyPersonality:
		return personalityCode(s)
	case FamilyVocational:
		return dominant(s, vocationalCodes)
	case FamilyAttachment:
		return dominant(s, attachmentStyles)
	case FamilyLearning:
		return dominant(s, learningStyles)
	default:
		return "", errIncomplete
	}
}

func personalityCode(s Snapshot) (string, error) {
	var b strings.Builder
	for _, axis := range personalityAxes {
		e, ok := s.Find(axis.id)
		if !ok {
			return "", errIncomplete
		}
		if e.Score >= personalityMidpoint {
			b.WriteString(axis.first)
		} else {
			b.WriteString(axis.other)
		}
	}
	return b.String(), nil
}

// dominant returns the candidate with the highest score. Ties go to the
// entry that appears first in the snapshot.
func dominant(s Snapshot, candidates []string) (string, error) {
	var (
		best  SubscaleEntry
		found bool
	)
	for _, e := range s.Entries {
		if !contains(candidates, e.ID) {
			continue
		}
		if !found || e.Score > best.Score {
			best, found = e, true
		}
	}
	if !found {
		return "", errIncomplete
	}
	return best.ID, nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
