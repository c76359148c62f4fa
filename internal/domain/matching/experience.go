package matching

import (
	"regexp"
	"strconv"
)

const DefaultExperienceYears = 2

var yearsPattern = regexp.MustCompile(`(?i)\b(\d{1,2})\s*\+?\s*(?:years?|yrs?)\b`)

// ExperienceYears pulls the first "<N> years" / "<N>+ years" phrase out of
// text. Text without one yields DefaultExperienceYears.
func ExperienceYears(text string) int {
	m := yearsPattern.FindStringSubmatch(text)
	if m == nil {
		return DefaultExperienceYears
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return DefaultExperienceYears
	}
	return n
}
