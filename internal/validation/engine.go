package validation

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clinovara/tmf-backend/internal/logger"
	"github.com/clinovara/tmf-backend/internal/types"
)

// Request describes one document to validate.
type Request struct {
	DocumentID   uuid.UUID
	DocumentName string
	FileName     string
	FileSize     int64
	Standard     string
	TargetAgency string
}

// PackageSummary aggregates document results for a package run.
type PackageSummary struct {
	TotalDocuments     int `json:"totalDocuments"`
	ValidatedDocuments int `json:"validatedDocuments"`
	FailedDocuments    int `json:"failedDocuments"`
	TotalIssues        int `json:"totalIssues"`
	CriticalIssues     int `json:"criticalIssues"`
	Errors             int `json:"errors"`
	Warnings           int `json:"warnings"`
}

type PackageResult struct {
	Status          string                           `json:"status"`
	Summary         PackageSummary                   `json:"summary"`
	DocumentResults []*types.ValidationResult        `json:"documentResults"`
	Ready           bool                             `json:"ready"`
	Recommendations []types.ValidationRecommendation `json:"recommendations"`
}

// Validator runs regulatory validation against documents and packages.
type Validator interface {
	ValidateDocument(ctx context.Context, req Request) (*types.ValidationResult, error)
	ValidatePackage(ctx context.Context, reqs []Request, targetAgency string) (*PackageResult, error)
}

// mockEngine produces plausible validation results without calling a real
// validation backend. Results are deterministic for a given rand source, so
// tests can seed it and assert exact output.
type mockEngine struct {
	mu  sync.Mutex
	rng *rand.Rand
	log *logger.Logger
	now func() time.Time
}

func NewMockEngine(rng *rand.Rand, log *logger.Logger) Validator {
	return &mockEngine{
		rng: rng,
		log: log.With("service", "ValidationEngine"),
		now: time.Now,
	}
}

func (e *mockEngine) ValidateDocument(ctx context.Context, req Request) (*types.ValidationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	standard := req.Standard
	if standard == "" {
		standard = StandardECTD
	}
	country := CountryOfAgency(req.TargetAgency)
	rules := RulesFor(country, standard)

	e.mu.Lock()
	issues := e.generateIssues(req, standard)
	e.mu.Unlock()

	summary := summarize(issues)
	result := &types.ValidationResult{
		Status:          types.DeriveValidationStatus(summary),
		Summary:         summary,
		Issues:          issues,
		Recommendations: recommend(summary),
		Metadata: types.ValidationMetadata{
			ValidationDate:  e.now().UTC(),
			ValidationTool:  "Enhanced Validator (LORENZ-compatible)",
			ValidationRules: rules.Rules,
			TargetAgency:    req.TargetAgency,
			Standard:        standard,
		},
	}
	e.log.Info("Validated document",
		"documentId", req.DocumentID,
		"standard", standard,
		"status", result.Status,
		"issues", summary.TotalIssues)
	return result, nil
}

func (e *mockEngine) ValidatePackage(ctx context.Context, reqs []Request, targetAgency string) (*PackageResult, error) {
	if len(reqs) == 0 {
		return nil, fmt.Errorf("package has no documents to validate")
	}
	out := &PackageResult{}
	for _, req := range reqs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		req.TargetAgency = targetAgency
		res, err := e.ValidateDocument(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("failed to validate document %s: %w", req.DocumentID, err)
		}
		out.DocumentResults = append(out.DocumentResults, res)
		out.Summary.TotalIssues += res.Summary.TotalIssues
		out.Summary.CriticalIssues += res.Summary.CriticalIssues
		out.Summary.Errors += res.Summary.Errors
		out.Summary.Warnings += res.Summary.Warnings
		if res.Status == types.ValidationStatusFail {
			out.Summary.FailedDocuments++
		}
	}
	out.Summary.TotalDocuments = len(reqs)
	out.Summary.ValidatedDocuments = len(reqs)
	out.Status = types.DeriveValidationStatus(types.ValidationSummary{
		CriticalIssues: out.Summary.CriticalIssues,
		Errors:         out.Summary.Errors,
		Warnings:       out.Summary.Warnings,
	})
	out.Ready = out.Status == types.ValidationStatusPass
	out.Recommendations = recommend(types.ValidationSummary{
		TotalIssues:    out.Summary.TotalIssues,
		CriticalIssues: out.Summary.CriticalIssues,
		Errors:         out.Summary.Errors,
		Warnings:       out.Summary.Warnings,
	})
	return out, nil
}

// generateIssues mirrors what a real validator would flag for the standard,
// plus findings driven by document characteristics. The rand source only
// decides whether the informational finding shows up.
func (e *mockEngine) generateIssues(req Request, standard string) []types.ValidationIssue {
	issues := append([]types.ValidationIssue(nil), baseIssues[standard]...)
	if len(issues) == 0 {
		issues = append(issues, baseIssues[StandardECTD]...)
	}

	if req.FileSize > 5_000_000 {
		issues = append(issues, types.ValidationIssue{
			ID:             "SIZE-001",
			Severity:       types.IssueSeverityWarning,
			Category:       "Performance",
			Message:        "Large file size may impact processing time",
			Context:        "File size exceeds 5MB",
			Recommendation: "Consider file compression or splitting",
			Reference:      "eCTD 4.0 Specification, Section 2.1",
		})
	}
	if strings.Contains(strings.ToLower(req.DocumentName), "protocol") {
		issues = append(issues, types.ValidationIssue{
			ID:             "PROT-001",
			Severity:       types.IssueSeverityError,
			Category:       "Protocol",
			Message:        "Missing primary endpoint definition",
			Context:        "Protocol must define primary endpoint",
			Recommendation: "Add clear primary endpoint definition",
			Reference:      "ICH E3, Section 7.2",
		})
	}
	if e.rng.Intn(2) == 0 {
		issues = append(issues, types.ValidationIssue{
			ID:             "META-001",
			Severity:       types.IssueSeverityInfo,
			Category:       "Metadata",
			Message:        "Document metadata could be enriched",
			Context:        "Optional study metadata fields are empty",
			Recommendation: "Populate optional metadata for better traceability",
			Reference:      "eCTD 4.0 Specification, Section 3.2",
		})
	}
	return issues
}

var baseIssues = map[string][]types.ValidationIssue{
	StandardECTD: {
		{
			ID:             "ECTD-001",
			Severity:       types.IssueSeverityError,
			Category:       "Document Structure",
			Message:        "Missing required section: Study Objectives",
			Context:        "eCTD 4.0 requires Study Objectives section",
			Recommendation: "Add Study Objectives section to the document",
			Reference:      "eCTD 4.0 Specification, Section 4.2.1",
		},
		{
			ID:             "ECTD-002",
			Severity:       types.IssueSeverityWarning,
			Category:       "Content",
			Message:        "Inconsistent date format detected",
			Context:        "Dates should be in ISO 8601 format (YYYY-MM-DD)",
			Recommendation: "Standardize all dates to ISO 8601 format",
			Reference:      "eCTD 4.0 Specification, Section 3.1.4",
		},
	},
	StandardSDTM: {
		{
			ID:             "SDTM-001",
			Severity:       types.IssueSeverityCritical,
			Category:       "Data Structure",
			Message:        "Missing required variable USUBJID in dataset",
			Context:        "USUBJID is required for all SDTM datasets",
			Recommendation: "Add USUBJID variable to the dataset",
			Reference:      "SDTM IG v3.4, Section 2.2.1",
		},
		{
			ID:             "SDTM-002",
			Severity:       types.IssueSeverityError,
			Category:       "Data Quality",
			Message:        "Invalid value in SEX variable",
			Context:        "SEX must be M, F, or U",
			Recommendation: "Correct SEX values to valid codes",
			Reference:      "SDTM IG v3.4, Section 4.1.4.4",
		},
	},
	StandardADaM: {
		{
			ID:             "ADAM-001",
			Severity:       types.IssueSeverityWarning,
			Category:       "Analysis",
			Message:        "Missing analysis flag variable",
			Context:        "Analysis flags help identify analysis population",
			Recommendation: "Add analysis flag variables as needed",
			Reference:      "ADaM IG v1.1, Section 4.1.1",
		},
	},
}

func summarize(issues []types.ValidationIssue) types.ValidationSummary {
	s := types.ValidationSummary{TotalIssues: len(issues)}
	for _, issue := range issues {
		switch issue.Severity {
		case types.IssueSeverityCritical:
			s.CriticalIssues++
		case types.IssueSeverityError:
			s.Errors++
		case types.IssueSeverityWarning:
			s.Warnings++
		case types.IssueSeverityInfo:
			s.Info++
		}
	}
	return s
}

func recommend(s types.ValidationSummary) []types.ValidationRecommendation {
	var recs []types.ValidationRecommendation
	if s.CriticalIssues > 0 {
		recs = append(recs, types.ValidationRecommendation{
			Priority: "HIGH",
			Category: "Critical Issues",
			Message:  fmt.Sprintf("Address %d critical validation issues before submission", s.CriticalIssues),
			Action:   "Review and fix all critical issues",
		})
	}
	if s.Errors > 0 {
		recs = append(recs, types.ValidationRecommendation{
			Priority: "HIGH",
			Category: "Errors",
			Message:  fmt.Sprintf("Fix %d validation errors", s.Errors),
			Action:   "Correct all validation errors",
		})
	}
	if s.Warnings > 0 {
		recs = append(recs, types.ValidationRecommendation{
			Priority: "MEDIUM",
			Category: "Warnings",
			Message:  fmt.Sprintf("Review %d validation warnings", s.Warnings),
			Action:   "Address warnings as appropriate",
		})
	}
	if s.TotalIssues == 0 {
		recs = append(recs, types.ValidationRecommendation{
			Priority: "LOW",
			Category: "Submission Ready",
			Message:  "Document meets all validation requirements",
			Action:   "Proceed with submission process",
		})
	}
	return recs
}
