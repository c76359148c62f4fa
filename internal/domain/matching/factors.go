package matching

import "strings"

const (
	NeutralSalaryScore   = 75.0
	NeutralLocationScore = 80.0

	salaryFloor         = 50.0
	salaryToleranceRate = 0.10

	locationMismatchScore = 60.0

	experienceIdealMin = 3
	experienceIdealMax = 10
	experienceFloor    = 70.0
	experienceBase     = 50.0
	experienceDecay    = 5.0
)

// SalaryScore is 100 inside [min,max]. Outside the range it falls linearly
// to 50 across a band of 10% of the nearest bound and stays at 50 beyond it.
// A missing bound or candidate figure is neutral.
func SalaryScore(lo, hi, candidate *float64) float64 {
	if lo == nil || hi == nil || candidate == nil {
		return NeutralSalaryScore
	}
	c := *candidate
	if c >= *lo && c <= *hi {
		return 100
	}

	var gap, bound float64
	if c < *lo {
		gap, bound = *lo-c, *lo
	} else {
		gap, bound = c-*hi, *hi
	}
	band := salaryToleranceRate * bound
	if band <= 0 {
		return salaryFloor
	}
	score := 100 - (100-salaryFloor)*gap/band
	if score < salaryFloor {
		return salaryFloor
	}
	return score
}

func ExperienceScore(years int) float64 {
	switch {
	case years < 0:
		return experienceBase
	case years < experienceIdealMin:
		return experienceBase + float64(years)*(100-experienceBase)/experienceIdealMin
	case years <= experienceIdealMax:
		return 100
	default:
		score := 100 - experienceDecay*float64(years-experienceIdealMax)
		if score < experienceFloor {
			return experienceFloor
		}
		return score
	}
}

// LocationScore compares case-insensitively; containment either way counts
// as a match ("Berlin" vs "Berlin, Germany").
func LocationScore(candidate, required string) float64 {
	c := strings.ToLower(strings.TrimSpace(candidate))
	r := strings.ToLower(strings.TrimSpace(required))
	if c == "" || r == "" {
		return NeutralLocationScore
	}
	if strings.Contains(c, r) || strings.Contains(r, c) {
		return 100
	}
	return locationMismatchScore
}
