package integrity

// Denylists holds the team-language phrase lists and forbidden field names
// the validator matches against. They are plain configuration data so the
// lists can be tested and extended independently of the matching logic.
type Denylists struct {
	// ObjectivePhrases are matched case-insensitively as substrings of an
	// objective description; a match is a blocking error.
	ObjectivePhrases []string

	// AssessmentFields are field names that must never appear on an
	// assessment candidate; presence of any is a blocking error.
	AssessmentFields []string

	// FrameworkFields are field names forbidden at the competency framework
	// level and within each competency area or criteria entry.
	FrameworkFields []string

	// ArtifactPhrases are matched against artifact titles and descriptions;
	// a match is an advisory warning, not an error.
	ArtifactPhrases []string
}

// DefaultDenylists returns the fixed lists the platform ships with.
func DefaultDenylists() Denylists {
	return Denylists{
		ObjectivePhrases: []string{
			"team grade",
			"team score",
			"group grade",
			"collective assessment",
		},
		AssessmentFields: []string{
			"team_grade",
			"team_score",
			"group_grade",
			"group_score",
			"team_assessment",
			"group_assessment",
			"team_competency",
			"group_competency",
			"collective_grade",
			"shared_grade",
		},
		FrameworkFields: []string{
			"team_competencies",
			"group_competencies",
			"team_criteria",
			"group_criteria",
			"team_weight",
			"group_weight",
		},
		ArtifactPhrases: []string{
			"team project",
			"group work",
			"collective",
			"shared",
		},
	}
}
