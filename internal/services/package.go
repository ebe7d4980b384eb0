package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/clinovara/tmf-backend/internal/logger"
	"github.com/clinovara/tmf-backend/internal/repos"
	"github.com/clinovara/tmf-backend/internal/types"
	"github.com/clinovara/tmf-backend/internal/wizard"
)

const submitCopyConcurrency = 4

type CreatePackageInput struct {
	Country   string
	FlagCode  string
	Type      string
	Priority  string
	CreatedBy uuid.UUID
}

type UpdatePackageInput struct {
	Country  *string
	FlagCode *string
	Type     *string
	Priority *string
	Status   *string
}

type PackageService interface {
	CreatePackage(ctx context.Context, input CreatePackageInput) (*types.RegulatoryPackage, error)
	GetPackage(ctx context.Context, pkgID uuid.UUID) (*types.RegulatoryPackage, error)
	GetPackages(ctx context.Context) ([]*types.RegulatoryPackage, error)
	UpdatePackage(ctx context.Context, pkgID uuid.UUID, input UpdatePackageInput, userID uuid.UUID) (*types.RegulatoryPackage, error)
	AddDocuments(ctx context.Context, pkgID uuid.UUID, documentIDs []uuid.UUID, userID uuid.UUID) (*types.RegulatoryPackage, error)
	RemoveDocument(ctx context.Context, pkgID, documentID uuid.UUID) error
	SubmitPackage(ctx context.Context, pkgID uuid.UUID, userID uuid.UUID) (*types.RegulatoryPackage, error)
	DeletePackage(ctx context.Context, pkgID uuid.UUID) error
}

type packageService struct {
	db           *gorm.DB
	log          *logger.Logger
	packageRepo  repos.RegulatoryPackageRepo
	documentRepo repos.DocumentRepo
	bucket       BucketService
}

func NewPackageService(
	db *gorm.DB,
	log *logger.Logger,
	packageRepo repos.RegulatoryPackageRepo,
	documentRepo repos.DocumentRepo,
	bucket BucketService,
) PackageService {
	serviceLog := log.With("service", "PackageService")
	return &packageService{
		db:           db,
		log:          serviceLog,
		packageRepo:  packageRepo,
		documentRepo: documentRepo,
		bucket:       bucket,
	}
}

func (ps *packageService) CreatePackage(ctx context.Context, input CreatePackageInput) (*types.RegulatoryPackage, error) {
	if input.Country == "" {
		return nil, fmt.Errorf("country is required")
	}
	trail, err := json.Marshal([]types.AuditEntry{{
		Action:    types.AuditActionCreated,
		UserID:    input.CreatedBy,
		Timestamp: time.Now().UTC(),
	}})
	if err != nil {
		return nil, fmt.Errorf("Failed to build audit trail: %w", err)
	}
	pkg := &types.RegulatoryPackage{
		ID:         uuid.New(),
		Country:    input.Country,
		FlagCode:   input.FlagCode,
		Type:       input.Type,
		Status:     types.PackageStatusDraft,
		Priority:   input.Priority,
		AuditTrail: trail,
		CreatedBy:  input.CreatedBy,
	}
	created, err := ps.packageRepo.Create(ctx, nil, []*types.RegulatoryPackage{pkg})
	if err != nil {
		return nil, fmt.Errorf("Failed to create package: %w", err)
	}
	ps.log.Info("Created regulatory package", "packageId", created[0].ID, "country", created[0].Country)
	return created[0], nil
}

func (ps *packageService) GetPackage(ctx context.Context, pkgID uuid.UUID) (*types.RegulatoryPackage, error) {
	pkgs, err := ps.packageRepo.GetByIDs(ctx, nil, []uuid.UUID{pkgID})
	if err != nil {
		return nil, fmt.Errorf("Failed to get package: %w", err)
	}
	if len(pkgs) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return pkgs[0], nil
}

func (ps *packageService) GetPackages(ctx context.Context) ([]*types.RegulatoryPackage, error) {
	return ps.packageRepo.GetAll(ctx, nil)
}

func (ps *packageService) UpdatePackage(ctx context.Context, pkgID uuid.UUID, input UpdatePackageInput, userID uuid.UUID) (*types.RegulatoryPackage, error) {
	err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pkgs, err := ps.packageRepo.GetByIDs(ctx, tx, []uuid.UUID{pkgID})
		if err != nil {
			return fmt.Errorf("Failed to get package: %w", err)
		}
		if len(pkgs) == 0 {
			return gorm.ErrRecordNotFound
		}
		pkg := pkgs[0]
		if pkg.Status == types.PackageStatusSubmitted {
			return fmt.Errorf("package %s is already submitted", pkgID)
		}
		if input.Country != nil {
			pkg.Country = *input.Country
		}
		if input.FlagCode != nil {
			pkg.FlagCode = *input.FlagCode
		}
		if input.Type != nil {
			pkg.Type = *input.Type
		}
		if input.Priority != nil {
			pkg.Priority = *input.Priority
		}
		if input.Status != nil {
			// Submission happens through SubmitPackage only.
			switch *input.Status {
			case types.PackageStatusDraft, types.PackageStatusInReview,
				types.PackageStatusApproved, types.PackageStatusRejected:
			default:
				return fmt.Errorf("invalid package status %q", *input.Status)
			}
			pkg.Status = *input.Status
		}
		if _, err := ps.packageRepo.Update(ctx, tx, pkg); err != nil {
			return fmt.Errorf("Failed to update package: %w", err)
		}
		return ps.packageRepo.AppendAudit(ctx, tx, pkgID, types.AuditEntry{
			Action:    types.AuditActionUpdated,
			UserID:    userID,
			Timestamp: time.Now().UTC(),
		})
	})
	if err != nil {
		return nil, err
	}
	return ps.GetPackage(ctx, pkgID)
}

func (ps *packageService) AddDocuments(ctx context.Context, pkgID uuid.UUID, documentIDs []uuid.UUID, userID uuid.UUID) (*types.RegulatoryPackage, error) {
	if len(documentIDs) == 0 {
		return ps.GetPackage(ctx, pkgID)
	}
	err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pkgs, err := ps.packageRepo.GetByIDs(ctx, tx, []uuid.UUID{pkgID})
		if err != nil {
			return fmt.Errorf("Failed to get package: %w", err)
		}
		if len(pkgs) == 0 {
			return gorm.ErrRecordNotFound
		}
		if pkgs[0].Status == types.PackageStatusSubmitted {
			return fmt.Errorf("package %s is already submitted", pkgID)
		}
		documents, err := ps.documentRepo.GetByIDs(ctx, tx, documentIDs)
		if err != nil {
			return fmt.Errorf("Failed to get documents: %w", err)
		}
		if len(documents) != len(documentIDs) {
			return fmt.Errorf("one or more documents do not exist")
		}
		if err := ps.packageRepo.AddDocuments(ctx, tx, pkgID, documentIDs); err != nil {
			return fmt.Errorf("Failed to add documents to package: %w", err)
		}
		return ps.packageRepo.AppendAudit(ctx, tx, pkgID, types.AuditEntry{
			Action:    types.AuditActionDocumentsAdded,
			Detail:    fmt.Sprintf("%d document(s) added", len(documentIDs)),
			UserID:    userID,
			Timestamp: time.Now().UTC(),
		})
	})
	if err != nil {
		return nil, err
	}
	return ps.GetPackage(ctx, pkgID)
}

func (ps *packageService) RemoveDocument(ctx context.Context, pkgID, documentID uuid.UUID) error {
	if err := ps.packageRepo.RemoveDocument(ctx, nil, pkgID, documentID); err != nil {
		return fmt.Errorf("Failed to remove document from package: %w", err)
	}
	return nil
}

// SubmitPackage freezes the package: status flips to SUBMITTED, the audit
// trail records the submission, and every member document's file is copied
// under an immutable submissions/ prefix.
func (ps *packageService) SubmitPackage(ctx context.Context, pkgID uuid.UUID, userID uuid.UUID) (*types.RegulatoryPackage, error) {
	var pkg *types.RegulatoryPackage
	err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pkgs, err := ps.packageRepo.GetByIDs(ctx, tx, []uuid.UUID{pkgID})
		if err != nil {
			return fmt.Errorf("Failed to get package: %w", err)
		}
		if len(pkgs) == 0 {
			return gorm.ErrRecordNotFound
		}
		pkg = pkgs[0]
		if pkg.Status == types.PackageStatusSubmitted {
			return fmt.Errorf("package %s is already submitted", pkgID)
		}
		if len(pkg.Documents) == 0 {
			return fmt.Errorf("package %s has no documents", pkgID)
		}
		if err := ps.packageRepo.UpdateStatus(ctx, tx, pkgID, types.PackageStatusSubmitted); err != nil {
			return fmt.Errorf("Failed to update package status: %w", err)
		}
		return ps.packageRepo.AppendAudit(ctx, tx, pkgID, types.AuditEntry{
			Action:    "submitted",
			Detail:    fmt.Sprintf("%d document(s) submitted", len(pkg.Documents)),
			UserID:    userID,
			Timestamp: time.Now().UTC(),
		})
	})
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(submitCopyConcurrency)
	for _, doc := range pkg.Documents {
		if doc.StorageKey == "" {
			continue
		}
		srcKey := doc.StorageKey
		dstKey := fmt.Sprintf("submissions/%s/%s", pkgID, doc.FileName)
		g.Go(func() error {
			return ps.bucket.CopyFile(gctx, srcKey, dstKey)
		})
	}
	if err := g.Wait(); err != nil {
		// Submission state already landed; the copies are retryable.
		ps.log.Error("Failed to archive submitted files", "packageId", pkgID, "error", err)
	}

	ps.log.Info("Submitted regulatory package", "packageId", pkgID, "documents", len(pkg.Documents))
	return ps.GetPackage(ctx, pkgID)
}

func (ps *packageService) DeletePackage(ctx context.Context, pkgID uuid.UUID) error {
	if err := ps.packageRepo.SoftDeleteByIDs(ctx, nil, []uuid.UUID{pkgID}); err != nil {
		return fmt.Errorf("Failed to delete package: %w", err)
	}
	return nil
}

// PackageSubmitter turns a completed wizard run into documents plus a draft
// package, then submits it. Per-slot progress is reported back through
// onProgress.
type PackageSubmitter struct {
	db           *gorm.DB
	log          *logger.Logger
	packages     PackageService
	documentRepo repos.DocumentRepo
	packageRepo  repos.RegulatoryPackageRepo
	bucket       BucketService
	userID       uuid.UUID
	country      string
}

func NewPackageSubmitter(
	db *gorm.DB,
	log *logger.Logger,
	packages PackageService,
	documentRepo repos.DocumentRepo,
	packageRepo repos.RegulatoryPackageRepo,
	bucket BucketService,
	userID uuid.UUID,
	country string,
) *PackageSubmitter {
	return &PackageSubmitter{
		db:           db,
		log:          log.With("service", "PackageSubmitter"),
		packages:     packages,
		documentRepo: documentRepo,
		packageRepo:  packageRepo,
		bucket:       bucket,
		userID:       userID,
		country:      country,
	}
}

func (s *PackageSubmitter) Submit(ctx context.Context, target wizard.Target, slots []*wizard.Slot, onProgress func(slot string, p wizard.Progress)) (uuid.UUID, error) {
	pkg, err := s.packages.CreatePackage(ctx, CreatePackageInput{
		Country:   s.country,
		Type:      "Wizard Submission",
		CreatedBy: s.userID,
	})
	if err != nil {
		return uuid.Nil, err
	}

	var documentIDs []uuid.UUID
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, slot := range slots {
			if slot.File == nil {
				continue
			}
			onProgress(slot.Name, wizard.ProgressUploading)

			documentID := uuid.New()
			dstKey := fmt.Sprintf("documents/%s/%s", documentID, slot.File.Name)
			if err := s.bucket.CopyFile(ctx, slot.File.StorageKey, dstKey); err != nil {
				return fmt.Errorf("Failed to store %q: %w", slot.Name, err)
			}
			doc := &types.Document{
				ID:              documentID,
				DocumentTitle:   slot.Name,
				Version:         "1.0",
				Status:          types.DocumentStatusDraft,
				DocumentType:    types.DocumentTypeRegulatoryDocument,
				ZoneNumber:      target.ZoneNumber,
				ZoneName:        target.ZoneName,
				SectionNumber:   target.SectionNumber,
				SectionName:     target.SectionName,
				ArtifactNumber:  target.ArtifactNumber,
				ArtifactName:    target.ArtifactName,
				SubArtifactName: target.SubArtifactName,
				Mandatory:       slot.Mandatory,
				FileName:        slot.File.Name,
				FileSize:        slot.File.Size,
				StorageKey:      dstKey,
				FileURL:         s.bucket.GetPublicURL(dstKey),
				TMFReference:    target.ArtifactNumber,
				UploadedBy:      s.userID,
				UploadDate:      time.Now().UTC(),
			}
			if _, err := s.documentRepo.Create(ctx, tx, []*types.Document{doc}); err != nil {
				return fmt.Errorf("Failed to create document for %q: %w", slot.Name, err)
			}
			documentIDs = append(documentIDs, documentID)
			onProgress(slot.Name, wizard.ProgressComplete)
		}
		if len(documentIDs) == 0 {
			return fmt.Errorf("no attachments to submit")
		}
		return s.packageRepo.AddDocuments(ctx, tx, pkg.ID, documentIDs)
	})
	if err != nil {
		return uuid.Nil, err
	}

	if _, err := s.packages.SubmitPackage(ctx, pkg.ID, s.userID); err != nil {
		return uuid.Nil, err
	}
	return pkg.ID, nil
}
