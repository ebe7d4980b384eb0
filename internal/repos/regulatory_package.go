package repos

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clinovara/tmf-backend/internal/logger"
	"github.com/clinovara/tmf-backend/internal/types"
)

type RegulatoryPackageRepo interface {
	Create(ctx context.Context, tx *gorm.DB, pkgs []*types.RegulatoryPackage) ([]*types.RegulatoryPackage, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, pkgIDs []uuid.UUID) ([]*types.RegulatoryPackage, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*types.RegulatoryPackage, error)
	Update(ctx context.Context, tx *gorm.DB, pkg *types.RegulatoryPackage) (*types.RegulatoryPackage, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, pkgID uuid.UUID, status string) error
	AddDocuments(ctx context.Context, tx *gorm.DB, pkgID uuid.UUID, documentIDs []uuid.UUID) error
	RemoveDocument(ctx context.Context, tx *gorm.DB, pkgID, documentID uuid.UUID) error
	AppendAudit(ctx context.Context, tx *gorm.DB, pkgID uuid.UUID, entry types.AuditEntry) error
	SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, pkgIDs []uuid.UUID) error
}

type regulatoryPackageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRegulatoryPackageRepo(db *gorm.DB, baseLog *logger.Logger) RegulatoryPackageRepo {
	repoLog := baseLog.With("repo", "RegulatoryPackageRepo")
	return &regulatoryPackageRepo{db: db, log: repoLog}
}

func (rpr *regulatoryPackageRepo) Create(ctx context.Context, tx *gorm.DB, pkgs []*types.RegulatoryPackage) ([]*types.RegulatoryPackage, error) {
	transaction := tx
	if transaction == nil {
		transaction = rpr.db
	}

	if len(pkgs) == 0 {
		return []*types.RegulatoryPackage{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&pkgs).Error; err != nil {
		return nil, err
	}

	return pkgs, nil
}

func (rpr *regulatoryPackageRepo) GetByIDs(ctx context.Context, tx *gorm.DB, pkgIDs []uuid.UUID) ([]*types.RegulatoryPackage, error) {
	transaction := tx
	if transaction == nil {
		transaction = rpr.db
	}

	var results []*types.RegulatoryPackage

	if len(pkgIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Preload("Documents").
		Where("id IN ?", pkgIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (rpr *regulatoryPackageRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.RegulatoryPackage, error) {
	transaction := tx
	if transaction == nil {
		transaction = rpr.db
	}

	var results []*types.RegulatoryPackage

	if err := transaction.WithContext(ctx).
		Preload("Documents").
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (rpr *regulatoryPackageRepo) Update(ctx context.Context, tx *gorm.DB, pkg *types.RegulatoryPackage) (*types.RegulatoryPackage, error) {
	transaction := tx
	if transaction == nil {
		transaction = rpr.db
	}

	if err := transaction.WithContext(ctx).Save(pkg).Error; err != nil {
		return nil, err
	}

	return pkg, nil
}

func (rpr *regulatoryPackageRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, pkgID uuid.UUID, status string) error {
	transaction := tx
	if transaction == nil {
		transaction = rpr.db
	}

	if err := transaction.WithContext(ctx).
		Model(&types.RegulatoryPackage{}).
		Where("id = ?", pkgID).
		Update("status", status).Error; err != nil {
		return err
	}

	return nil
}

func (rpr *regulatoryPackageRepo) AddDocuments(ctx context.Context, tx *gorm.DB, pkgID uuid.UUID, documentIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = rpr.db
	}

	if len(documentIDs) == 0 {
		return nil
	}

	rows := make([]*types.PackageDocument, 0, len(documentIDs))
	for _, docID := range documentIDs {
		rows = append(rows, &types.PackageDocument{PackageID: pkgID, DocumentID: docID})
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return err
	}

	return nil
}

func (rpr *regulatoryPackageRepo) RemoveDocument(ctx context.Context, tx *gorm.DB, pkgID, documentID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = rpr.db
	}

	if err := transaction.WithContext(ctx).
		Where("package_id = ? AND document_id = ?", pkgID, documentID).
		Delete(&types.PackageDocument{}).Error; err != nil {
		return err
	}

	return nil
}

// AppendAudit reads the current trail, appends the entry and writes the
// whole array back. Callers needing atomicity run it inside a transaction.
func (rpr *regulatoryPackageRepo) AppendAudit(ctx context.Context, tx *gorm.DB, pkgID uuid.UUID, entry types.AuditEntry) error {
	transaction := tx
	if transaction == nil {
		transaction = rpr.db
	}

	var pkg types.RegulatoryPackage
	if err := transaction.WithContext(ctx).
		Where("id = ?", pkgID).
		First(&pkg).Error; err != nil {
		return err
	}

	var trail []types.AuditEntry
	if len(pkg.AuditTrail) > 0 {
		if err := json.Unmarshal(pkg.AuditTrail, &trail); err != nil {
			return fmt.Errorf("corrupt audit trail on package %s: %w", pkgID, err)
		}
	}
	trail = append(trail, entry)

	raw, err := json.Marshal(trail)
	if err != nil {
		return err
	}

	if err := transaction.WithContext(ctx).
		Model(&types.RegulatoryPackage{}).
		Where("id = ?", pkgID).
		Update("audit_trail", raw).Error; err != nil {
		return err
	}

	return nil
}

func (rpr *regulatoryPackageRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, pkgIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = rpr.db
	}

	if len(pkgIDs) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", pkgIDs).
		Delete(&types.RegulatoryPackage{}).Error; err != nil {
		return err
	}

	return nil
}
