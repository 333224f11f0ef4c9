package recommend

// Priority bands. Lower is more important; signature families add the
// index of the suggestion within their rule list to the band.
const (
	BandAnxietyStress          = 5
	BandDepressionSatisfaction = 6
	BandStressWorkLife         = 7
	BandSleepLifestyle         = 8
	BandPersonality            = 10
	BandCoverageGap            = 15
	BandVocational             = 20
	BandAttachment             = 30
	BandLearningStyle          = 40
)
