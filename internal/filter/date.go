package filter

import (
	"go-jobfinder-automation/internal/models"
	"go-jobfinder-automation/internal/parser"
)

// CheckRecency rejects jobs posted more than maxDaysOld days ago.
// Unknown ages pass, and maxDaysOld <= 0 turns the check off.
func CheckRecency(job models.Job, maxDaysOld int) Decision {
	if maxDaysOld <= 0 {
		return accept()
	}
	days, ok := parser.DaysAgo(job)
	if !ok || days <= maxDaysOld {
		return accept()
	}
	return reject(RuleRecency, "Too old: %d days ago", days)
}

// CheckSalary rejects jobs whose top of band is below minSalary.
// Jobs without a parsed salary pass.
func CheckSalary(job models.Job, minSalary float64) Decision {
	if minSalary <= 0 || job.Salary == nil {
		return accept()
	}
	if job.Salary.Max < minSalary {
		return reject(RuleSalary, "Salary below minimum: %.0f < %.0f", job.Salary.Max, minSalary)
	}
	return accept()
}
