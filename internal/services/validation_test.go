package services

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clinovara/tmf-backend/internal/logger"
	"github.com/clinovara/tmf-backend/internal/repos"
	"github.com/clinovara/tmf-backend/internal/types"
	"github.com/clinovara/tmf-backend/internal/validation"
)

type fakeDocumentRepo struct {
	repos.DocumentRepo
	docs map[uuid.UUID]*types.Document
}

func (f *fakeDocumentRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Document, error) {
	var out []*types.Document
	for _, id := range ids {
		if doc, ok := f.docs[id]; ok {
			out = append(out, doc)
		}
	}
	return out, nil
}

type fakePackageRepo struct {
	repos.RegulatoryPackageRepo
	pkgs map[uuid.UUID]*types.RegulatoryPackage
}

func (f *fakePackageRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.RegulatoryPackage, error) {
	var out []*types.RegulatoryPackage
	for _, id := range ids {
		if pkg, ok := f.pkgs[id]; ok {
			out = append(out, pkg)
		}
	}
	return out, nil
}

type fakeHistory struct {
	appends map[uuid.UUID]int
	failing bool
}

func (f *fakeHistory) Append(ctx context.Context, documentID uuid.UUID, res *types.ValidationResult) error {
	if f.failing {
		return errors.New("redis unavailable")
	}
	if f.appends == nil {
		f.appends = map[uuid.UUID]int{}
	}
	f.appends[documentID]++
	return nil
}

func (f *fakeHistory) List(ctx context.Context, documentID uuid.UUID) ([]types.ValidationResult, error) {
	return nil, nil
}

func testValidationService(t *testing.T, docs map[uuid.UUID]*types.Document, pkgs map[uuid.UUID]*types.RegulatoryPackage, history *fakeHistory) ValidationService {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	engine := validation.NewMockEngine(rand.New(rand.NewSource(7)), log)
	return NewValidationService(log, engine, history, &fakeDocumentRepo{docs: docs}, &fakePackageRepo{pkgs: pkgs})
}

func TestValidateDocumentRecordsHistory(t *testing.T) {
	ctx := context.Background()
	docID := uuid.New()
	docs := map[uuid.UUID]*types.Document{
		docID: {ID: docID, DocumentTitle: "Clinical Study Protocol", FileName: "protocol.pdf", FileSize: 1 << 20},
	}
	history := &fakeHistory{}
	svc := testValidationService(t, docs, nil, history)

	res, err := svc.ValidateDocument(ctx, docID, validation.StandardECTD, "FDA")
	if err != nil {
		t.Fatalf("ValidateDocument: %v", err)
	}
	if res.Status == "" {
		t.Fatal("expected a validation status")
	}
	if history.appends[docID] != 1 {
		t.Fatalf("expected 1 history append, got %d", history.appends[docID])
	}
}

func TestValidateDocumentSurvivesHistoryFailure(t *testing.T) {
	ctx := context.Background()
	docID := uuid.New()
	docs := map[uuid.UUID]*types.Document{
		docID: {ID: docID, DocumentTitle: "Investigator Brochure", FileName: "ib.pdf", FileSize: 2 << 20},
	}
	svc := testValidationService(t, docs, nil, &fakeHistory{failing: true})

	res, err := svc.ValidateDocument(ctx, docID, validation.StandardECTD, "EMA")
	if err != nil {
		t.Fatalf("ValidateDocument: %v", err)
	}
	if res == nil {
		t.Fatal("expected a result despite history failure")
	}
}

func TestValidateDocumentUnknownID(t *testing.T) {
	svc := testValidationService(t, nil, nil, &fakeHistory{})
	_, err := svc.ValidateDocument(context.Background(), uuid.New(), validation.StandardECTD, "FDA")
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestValidatePackageAppendsPerDocument(t *testing.T) {
	ctx := context.Background()
	docA := &types.Document{ID: uuid.New(), DocumentTitle: "Cover Letter", FileName: "cover.pdf", FileSize: 1 << 18}
	docB := &types.Document{ID: uuid.New(), DocumentTitle: "Statistical Analysis Plan", FileName: "sap.pdf", FileSize: 1 << 19}
	pkgID := uuid.New()
	pkgs := map[uuid.UUID]*types.RegulatoryPackage{
		pkgID: {ID: pkgID, Country: "USA", Documents: []*types.Document{docA, docB}},
	}
	history := &fakeHistory{}
	svc := testValidationService(t, nil, pkgs, history)

	res, err := svc.ValidatePackage(ctx, pkgID, "FDA")
	if err != nil {
		t.Fatalf("ValidatePackage: %v", err)
	}
	if res.Summary.TotalDocuments != 2 {
		t.Fatalf("expected 2 documents in summary, got %d", res.Summary.TotalDocuments)
	}
	if history.appends[docA.ID] != 1 || history.appends[docB.ID] != 1 {
		t.Fatalf("expected one history append per document, got %v", history.appends)
	}
}

func TestValidatePackageEmpty(t *testing.T) {
	pkgID := uuid.New()
	pkgs := map[uuid.UUID]*types.RegulatoryPackage{
		pkgID: {ID: pkgID, Country: "USA"},
	}
	svc := testValidationService(t, nil, pkgs, &fakeHistory{})
	if _, err := svc.ValidatePackage(context.Background(), pkgID, "FDA"); err == nil {
		t.Fatal("expected error for package without documents")
	}
}
