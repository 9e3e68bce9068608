// Package risk computes a complaint's risk score, risk level, priority and
// target role from the weight tables in config. Everything here is a pure
// function of the complaint and the clock: no storage, no network, safe to
// re-run at any time.
package risk

import (
	"time"

	"complainthub/backend/internal/config"
	"complainthub/backend/internal/models"
)

// Score returns the 0..100 risk score: category base weight, plus an age term
// capped at config.AgeRiskCap, plus a bonus when the submitter had more than
// config.SessionCountCutoff sessions.
func Score(c *models.Complaint, now time.Time) int {
	score := config.CategoryRiskWeights[c.Category]

	age := c.AgeDays(now) * config.AgeRiskPerDay
	if age > config.AgeRiskCap {
		age = config.AgeRiskCap
	}
	score += age

	if c.SessionCount != nil && *c.SessionCount > config.SessionCountCutoff {
		score += config.SessionCountBonus
	}

	if score > config.MaxRiskScore {
		score = config.MaxRiskScore
	}
	if score < 0 {
		score = 0
	}
	return score
}

// LevelFor buckets a risk score into the five risk levels. Thresholds are
// monotonic and non-overlapping.
func LevelFor(score int) models.RiskLevel {
	switch {
	case score >= config.RiskCriticalMin:
		return models.RiskCritical
	case score >= config.RiskHighMin:
		return models.RiskHigh
	case score >= config.RiskMediumMin:
		return models.RiskMedium
	case score >= config.RiskLowMin:
		return models.RiskLow
	default:
		return models.RiskNormal
	}
}

// RequiresIntervention reports whether a complaint needs a human in the loop:
// behavioral category, high risk score, or simply sitting around too long.
// Any one condition is sufficient.
func RequiresIntervention(c *models.Complaint, now time.Time) bool {
	if c.Category == models.CategoryBehavioral {
		return true
	}
	if Score(c, now) > config.InterventionRiskScore {
		return true
	}
	return c.AgeDays(now) > config.InterventionAgeDays
}

// PriorityFor accumulates the priority score and maps it to the four-level
// priority scale. The top bucket folds into URGENT: the complaint model only
// exposes LOW/MEDIUM/HIGH/URGENT.
func PriorityFor(c *models.Complaint, now time.Time) models.Priority {
	score := Score(c, now)

	total := config.CategoryPriorityWeights[c.Category]
	total += score / 10
	total += config.RiskLevelWeights[LevelFor(score)]

	switch age := c.AgeDays(now); {
	case age > config.InterventionAgeDays:
		total += config.PriorityAgeBonusOld
	case age > 3:
		total += config.PriorityAgeBonusRecent
	}

	if RequiresIntervention(c, now) {
		total += config.PriorityInterventionBump
	}

	switch {
	case total >= config.PriorityUrgentMin:
		return models.PriorityUrgent
	case total >= config.PriorityHighMin:
		return models.PriorityHigh
	case total >= config.PriorityMediumMin:
		return models.PriorityMedium
	default:
		return models.PriorityLow
	}
}

// TargetRole returns the role group responsible for a category.
func TargetRole(category models.Category) models.Role {
	return config.TargetRoleByCategory[category]
}

// Apply writes target role (if unset), risk score, risk level, intervention
// flag and priority onto the complaint, in that order. Idempotent: running it
// twice on unchanged input yields the same fields, so listing and audit flows
// may re-run it freely.
func Apply(c *models.Complaint, now time.Time) {
	if c.TargetRole == "" {
		c.TargetRole = TargetRole(c.Category)
	}
	c.RiskScore = Score(c, now)
	c.RiskLevel = LevelFor(c.RiskScore)
	c.RequiresIntervention = RequiresIntervention(c, now)
	c.Priority = PriorityFor(c, now)
}
