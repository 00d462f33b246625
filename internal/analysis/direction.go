package analysis

// Direction is a coarse study field derived from the subject id.
type Direction string

// Study directions
const (
	DirectionHumanities        Direction = "Humanities"
	DirectionMathematical      Direction = "Mathematical"
	DirectionNatural           Direction = "Natural"
	DirectionSocial            Direction = "Social"
	DirectionIntegrated        Direction = "Integrated"
	DirectionTechnological     Direction = "Technological"
	DirectionCreative          Direction = "Creative"
	DirectionPhysicalEducation Direction = "PhysicalEducation"
	DirectionOther             Direction = "Other"
)

var subjectDirections = map[int64]Direction{
	1: DirectionHumanities, 2: DirectionHumanities, 3: DirectionHumanities,
	4: DirectionHumanities, 5: DirectionHumanities, 6: DirectionHumanities,

	7: DirectionMathematical, 8: DirectionMathematical, 9: DirectionMathematical,
	21: DirectionMathematical,

	10: DirectionNatural, 11: DirectionNatural, 12: DirectionNatural, 13: DirectionNatural,
	14: DirectionNatural, 15: DirectionNatural, 16: DirectionNatural,

	17: DirectionSocial, 18: DirectionSocial, 19: DirectionSocial, 20: DirectionSocial,
	31: DirectionSocial, 32: DirectionSocial,

	22: DirectionIntegrated,

	23: DirectionTechnological, 24: DirectionTechnological,

	25: DirectionCreative, 26: DirectionCreative, 27: DirectionCreative,

	28: DirectionPhysicalEducation, 29: DirectionPhysicalEducation, 30: DirectionPhysicalEducation,
}

var careerSuggestions = map[Direction]string{
	DirectionMathematical:      "engineering, programming, data analysis, financial analytics",
	DirectionNatural:           "medicine, biology, ecology, laboratory and scientific research",
	DirectionHumanities:        "journalism, philology, law, translation, pedagogy",
	DirectionSocial:            "law, political science, sociology, management, public administration",
	DirectionTechnological:     "engineering, robotics, manufacturing technologies",
	DirectionCreative:          "design, art, music, creative industries",
	DirectionPhysicalEducation: "sports, physical rehabilitation, coaching",
	DirectionIntegrated:        "interdisciplinary fields, STEAM projects, educational technologies",
	DirectionOther:             "individually tailored interdisciplinary educational paths",
}

// DetectDirection maps a subject id to its direction, Other when unmapped.
func DetectDirection(subjectID int64) Direction {
	if d, ok := subjectDirections[subjectID]; ok {
		return d
	}
	return DirectionOther
}

// CareerSuggestion returns the career paths suggested for a direction
func (d Direction) CareerSuggestion() string {
	if s, ok := careerSuggestions[d]; ok {
		return s
	}
	return careerSuggestions[DirectionOther]
}

func (d Direction) String() string {
	return string(d)
}
