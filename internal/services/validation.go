package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clinovara/tmf-backend/internal/logger"
	"github.com/clinovara/tmf-backend/internal/repos"
	"github.com/clinovara/tmf-backend/internal/types"
	"github.com/clinovara/tmf-backend/internal/validation"
)

type ValidationService interface {
	ValidateDocument(ctx context.Context, documentID uuid.UUID, standard, targetAgency string) (*types.ValidationResult, error)
	GetHistory(ctx context.Context, documentID uuid.UUID) ([]types.ValidationResult, error)
	ValidatePackage(ctx context.Context, pkgID uuid.UUID, targetAgency string) (*validation.PackageResult, error)
}

type validationService struct {
	log          *logger.Logger
	engine       validation.Validator
	history      validation.HistoryStore
	documentRepo repos.DocumentRepo
	packageRepo  repos.RegulatoryPackageRepo
}

func NewValidationService(
	log *logger.Logger,
	engine validation.Validator,
	history validation.HistoryStore,
	documentRepo repos.DocumentRepo,
	packageRepo repos.RegulatoryPackageRepo,
) ValidationService {
	serviceLog := log.With("service", "ValidationService")
	return &validationService{
		log:          serviceLog,
		engine:       engine,
		history:      history,
		documentRepo: documentRepo,
		packageRepo:  packageRepo,
	}
}

func (vs *validationService) ValidateDocument(ctx context.Context, documentID uuid.UUID, standard, targetAgency string) (*types.ValidationResult, error) {
	documents, err := vs.documentRepo.GetByIDs(ctx, nil, []uuid.UUID{documentID})
	if err != nil {
		return nil, fmt.Errorf("Failed to get document: %w", err)
	}
	if len(documents) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	doc := documents[0]

	result, err := vs.engine.ValidateDocument(ctx, validation.Request{
		DocumentID:   doc.ID,
		DocumentName: doc.DocumentTitle,
		FileName:     doc.FileName,
		FileSize:     doc.FileSize,
		Standard:     standard,
		TargetAgency: targetAgency,
	})
	if err != nil {
		return nil, fmt.Errorf("Failed to validate document: %w", err)
	}

	if err := vs.history.Append(ctx, doc.ID, result); err != nil {
		// History is advisory; the validation result still stands.
		vs.log.Warn("Failed to record validation history", "documentId", doc.ID, "error", err)
	}
	return result, nil
}

func (vs *validationService) GetHistory(ctx context.Context, documentID uuid.UUID) ([]types.ValidationResult, error) {
	return vs.history.List(ctx, documentID)
}

func (vs *validationService) ValidatePackage(ctx context.Context, pkgID uuid.UUID, targetAgency string) (*validation.PackageResult, error) {
	pkgs, err := vs.packageRepo.GetByIDs(ctx, nil, []uuid.UUID{pkgID})
	if err != nil {
		return nil, fmt.Errorf("Failed to get package: %w", err)
	}
	if len(pkgs) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	pkg := pkgs[0]
	if len(pkg.Documents) == 0 {
		return nil, fmt.Errorf("package %s has no documents to validate", pkgID)
	}

	reqs := make([]validation.Request, 0, len(pkg.Documents))
	for _, doc := range pkg.Documents {
		reqs = append(reqs, validation.Request{
			DocumentID:   doc.ID,
			DocumentName: doc.DocumentTitle,
			FileName:     doc.FileName,
			FileSize:     doc.FileSize,
			Standard:     validation.StandardECTD,
			TargetAgency: targetAgency,
		})
	}
	result, err := vs.engine.ValidatePackage(ctx, reqs, targetAgency)
	if err != nil {
		return nil, fmt.Errorf("Failed to validate package: %w", err)
	}

	for i, docResult := range result.DocumentResults {
		if err := vs.history.Append(ctx, reqs[i].DocumentID, docResult); err != nil {
			vs.log.Warn("Failed to record validation history", "documentId", reqs[i].DocumentID, "error", err)
		}
	}
	return result, nil
}
