package config

import (
	"time"

	"complainthub/backend/internal/models"
)

const (
	// Risk score
	AgeRiskPerDay       = 5
	AgeRiskCap          = 30
	SessionCountCutoff  = 3
	SessionCountBonus   = 20
	MaxRiskScore        = 100

	// Risk level thresholds (inclusive lower bounds)
	RiskCriticalMin = 80
	RiskHighMin     = 60
	RiskMediumMin   = 40
	RiskLowMin      = 20

	// Intervention
	InterventionRiskScore = 70
	InterventionAgeDays   = 7

	// Priority score
	PriorityAgeBonusOld      = 3 // age > 7 days
	PriorityAgeBonusRecent   = 2 // age > 3 days
	PriorityInterventionBump = 5
	PriorityUrgentMin        = 15
	PriorityHighMin          = 10
	PriorityMediumMin        = 5

	// Escalation sweep
	SweepInterval = 5 * time.Minute
)

// CategoryRiskWeights is the per-category base contribution to the risk score.
var CategoryRiskWeights = map[models.Category]int{
	models.CategoryBehavioral:     40,
	models.CategoryPedagogical:    30,
	models.CategoryAdministrative: 25,
	models.CategoryTechnical:      20,
	models.CategoryOther:          15,
}

// CategoryPriorityWeights feeds the (independent) priority formula.
var CategoryPriorityWeights = map[models.Category]int{
	models.CategoryBehavioral:     8,
	models.CategoryPedagogical:    6,
	models.CategoryAdministrative: 5,
	models.CategoryTechnical:      4,
	models.CategoryOther:          2,
}

// RiskLevelWeights feeds the priority formula with the level bucket.
var RiskLevelWeights = map[models.RiskLevel]int{
	models.RiskCritical: 10,
	models.RiskHigh:     7,
	models.RiskMedium:   5,
	models.RiskLow:      3,
	models.RiskNormal:   1,
}

// TargetRoleByCategory routes a complaint to the responsible role group.
var TargetRoleByCategory = map[models.Category]models.Role{
	models.CategoryPedagogical:    models.RoleTutor,
	models.CategoryBehavioral:     models.RoleAcademicOffice,
	models.CategoryAdministrative: models.RoleAcademicOffice,
	models.CategoryTechnical:      models.RoleSupport,
	models.CategoryOther:          models.RoleSupport,
}

// EscalationDeadlines maps priority to the maximum time a complaint may sit
// in OPEN before the sweeper forces it to IN_PROGRESS. LOW is absent on
// purpose: low-priority complaints never auto-escalate.
var EscalationDeadlines = map[models.Priority]time.Duration{
	models.PriorityUrgent: 24 * time.Hour,
	models.PriorityHigh:   3 * 24 * time.Hour,
	models.PriorityMedium: 7 * 24 * time.Hour,
}
