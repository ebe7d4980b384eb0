package types

import "time"

const (
	ValidationStatusPass    = "PASS"
	ValidationStatusWarning = "WARNING"
	ValidationStatusFail    = "FAIL"
)

const (
	IssueSeverityCritical = "CRITICAL"
	IssueSeverityError    = "ERROR"
	IssueSeverityWarning  = "WARNING"
	IssueSeverityInfo     = "INFO"
)

// Validation results are ephemeral: recomputed per call, cached briefly for
// history reads, never persisted as a first-class entity.
type ValidationSummary struct {
	TotalIssues    int `json:"totalIssues"`
	CriticalIssues int `json:"criticalIssues"`
	Errors         int `json:"errors"`
	Warnings       int `json:"warnings"`
	Info           int `json:"info"`
}

type ValidationIssue struct {
	ID             string `json:"id"`
	Severity       string `json:"severity"`
	Category       string `json:"category"`
	Message        string `json:"message"`
	Context        string `json:"context,omitempty"`
	Recommendation string `json:"recommendation,omitempty"`
	Reference      string `json:"reference,omitempty"`
}

type ValidationRecommendation struct {
	Priority string `json:"priority"`
	Category string `json:"category"`
	Message  string `json:"message"`
	Action   string `json:"action,omitempty"`
}

type ValidationMetadata struct {
	ValidationDate  time.Time `json:"validationDate"`
	ValidationTool  string    `json:"validationTool"`
	ValidationRules []string  `json:"validationRules"`
	TargetAgency    string    `json:"targetAgency"`
	Standard        string    `json:"standard"`
}

type ValidationResult struct {
	Status          string                     `json:"status"`
	Summary         ValidationSummary          `json:"summary"`
	Issues          []ValidationIssue          `json:"issues"`
	Recommendations []ValidationRecommendation `json:"recommendations"`
	Metadata        ValidationMetadata         `json:"metadata"`
}

// DeriveValidationStatus maps summary counts to the overall status. Critical
// issues and errors always dominate warnings.
func DeriveValidationStatus(s ValidationSummary) string {
	switch {
	case s.CriticalIssues > 0 || s.Errors > 0:
		return ValidationStatusFail
	case s.Warnings > 0:
		return ValidationStatusWarning
	default:
		return ValidationStatusPass
	}
}
