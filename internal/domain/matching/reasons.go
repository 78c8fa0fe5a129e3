package matching

const (
	ReasonStrongSpecialty      = "strong specialty match"
	ReasonPartialSpecialty     = "partial specialty match"
	ReasonFullyQualified       = "fully qualified"
	ReasonExtensiveCareer      = "extensive career experience"
	ReasonCareerMet            = "meets career expectations"
	ReasonStrongEvaluation     = "strong evaluation history"
	ReasonImmediatelyAvailable = "immediately available"
	ReasonHighAvailability     = "high availability"

	bestFactorPrefix = "best factor: "
)

type factor struct {
	name  string
	value float64
}

// Reasons lists the notable parts of a breakdown in a fixed order. It never
// returns an empty list: without a notable part it names the strongest factor.
func Reasons(b MatchScoreBreakdown) []string {
	out := make([]string, 0, 5)

	switch {
	case b.Specialty >= 80:
		out = append(out, ReasonStrongSpecialty)
	case b.Specialty >= 60:
		out = append(out, ReasonPartialSpecialty)
	}

	if b.Qualification >= 100 {
		out = append(out, ReasonFullyQualified)
	}

	switch {
	case b.Career >= 90:
		out = append(out, ReasonExtensiveCareer)
	case b.Career >= 70:
		out = append(out, ReasonCareerMet)
	}

	if b.Evaluation >= 80 {
		out = append(out, ReasonStrongEvaluation)
	}

	switch {
	case b.Availability >= 100:
		out = append(out, ReasonImmediatelyAvailable)
	case b.Availability >= 80:
		out = append(out, ReasonHighAvailability)
	}

	if len(out) > 0 {
		return out
	}

	factors := []factor{
		{name: "specialty", value: b.Specialty},
		{name: "qualification", value: b.Qualification},
		{name: "career", value: b.Career},
		{name: "evaluation", value: b.Evaluation},
		{name: "availability", value: b.Availability},
	}
	best := factors[0]
	for _, f := range factors[1:] {
		if f.value > best.value {
			best = f
		}
	}
	return []string{bestFactorPrefix + best.name}
}
