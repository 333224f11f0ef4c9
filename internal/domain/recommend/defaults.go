package recommend

// DefaultRules returns the built-in signature tables. Each call returns a
// fresh copy.
func DefaultRules() SignatureRules {
	analysts := []RuleItem{
		{TestID: "RIASEC", Message: "Analytical types benefit from mapping their interests to concrete career paths."},
		{TestID: "Creativity", Message: "Your preference for ideas over routine suggests checking your creative thinking profile."},
		{TestID: "EQ", Message: "Pairing strong reasoning with emotional awareness rounds out your profile."},
	}
	diplomats := []RuleItem{
		{TestID: "EQ", Message: "Value-driven types often rely on emotional insight; an EQ profile makes it measurable."},
		{TestID: "Attachment", Message: "Close relationships matter a lot to your type; your attachment style adds context."},
		{TestID: "SWLS", Message: "Checking overall life satisfaction helps you see whether your values are being met."},
	}
	sentinels := []RuleItem{
		{TestID: "WorkLifeBalance", Message: "Dependable types tend to take on too much; check how work and life are balanced."},
		{TestID: "PSS10", Message: "A stress check helps you notice pressure before it builds up."},
		{TestID: "RIASEC", Message: "Your interest profile shows which structured roles fit you best."},
	}
	explorers := []RuleItem{
		{TestID: "FocusAttention", Message: "Action-oriented types often switch focus quickly; see how your attention holds up."},
		{TestID: "LearningStyle", Message: "Knowing how you learn best helps you pick up new skills faster."},
		{TestID: "Creativity", Message: "Hands-on types are often more creative than they think."},
	}

	personality := make(map[string][]RuleItem, 16)
	for _, code := range []string{"INTJ", "INTP", "ENTJ", "ENTP"} {
		personality[code] = append([]RuleItem(nil), analysts...)
	}
	for _, code := range []string{"INFJ", "INFP", "ENFJ", "ENFP"} {
		personality[code] = append([]RuleItem(nil), diplomats...)
	}
	for _, code := range []string{"ISTJ", "ISFJ", "ESTJ", "ESFJ"} {
		personality[code] = append([]RuleItem(nil), sentinels...)
	}
	for _, code := range []string{"ISTP", "ISFP", "ESTP", "ESFP"} {
		personality[code] = append([]RuleItem(nil), explorers...)
	}

	return SignatureRules{
		Personality: personality,
		Vocational: map[string][]RuleItem{
			"R": {
				{TestID: "PhysicalActivity", Message: "Practical interests go well with an active lifestyle; check your activity level."},
				{TestID: "LearningStyle", Message: "Hands-on learners gain from knowing their preferred learning channel."},
			},
			"I": {
				{TestID: "Creativity", Message: "Investigative interests often come with original thinking."},
				{TestID: "FocusAttention", Message: "Research-heavy work depends on sustained attention."},
			},
			"A": {
				{TestID: "Creativity", Message: "Artistic interests make a creativity profile especially informative."},
				{TestID: "PANAS", Message: "Creative work is closely tied to mood; see your positive and negative affect."},
			},
			"S": {
				{TestID: "EQ", Message: "Social interests rely on emotional intelligence."},
				{TestID: "Attachment", Message: "How you bond with others shapes how you help them."},
			},
			"E": {
				{TestID: "Rosenberg", Message: "Enterprising roles draw on self-esteem; check where yours stands."},
				{TestID: "PSS10", Message: "Leadership roles come with pressure; a stress check is worthwhile."},
			},
			"C": {
				{TestID: "WorkLifeBalance", Message: "Detail-oriented workers benefit from checking their work-life balance."},
				{TestID: "FocusAttention", Message: "Conventional tasks reward steady focus."},
			},
		},
		Attachment: map[string][]RuleItem{
			"secure": {
				{TestID: "SWLS", Message: "A secure style often goes with life satisfaction; see how yours looks overall."},
			},
			"anxious": {
				{TestID: "GAD7", Message: "Relationship worry can spill over into general anxiety."},
				{TestID: "Rosenberg", Message: "Anxious attachment is often linked to self-esteem."},
			},
			"avoidant": {
				{TestID: "EQ", Message: "Recognising and naming emotions is a useful next step for avoidant styles."},
				{TestID: "PANAS", Message: "An affect check shows which emotions you experience most."},
			},
			"fearful": {
				{TestID: "PHQ9", Message: "Fearful attachment is associated with low mood; a short screening can help."},
				{TestID: "GAD7", Message: "A short anxiety screening adds useful context."},
			},
		},
		Learning: map[string][]RuleItem{
			"visual": {
				{TestID: "Creativity", Message: "Visual learners often think in images and patterns."},
			},
			"auditory": {
				{TestID: "FocusAttention", Message: "Listening-based learning depends on sustained attention."},
			},
			"kinesthetic": {
				{TestID: "PhysicalActivity", Message: "Learning by doing pairs naturally with an active lifestyle."},
			},
			"reading_writing": {
				{TestID: "FocusAttention", Message: "Reading-heavy study rewards steady concentration."},
			},
		},
	}
}
