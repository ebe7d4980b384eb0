package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clinovara/tmf-backend/internal/types"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  "pw",
		FirstName: "A",
		LastName:  "B",
		Role:      types.UserRoleManager,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedZone(tb testing.TB, ctx context.Context, tx *gorm.DB, number, name string) *types.Zone {
	tb.Helper()
	z := &types.Zone{
		ID:         uuid.New(),
		ZoneNumber: number,
		ZoneName:   name,
	}
	if err := tx.WithContext(ctx).Create(z).Error; err != nil {
		tb.Fatalf("seed zone: %v", err)
	}
	return z
}

func SeedSection(tb testing.TB, ctx context.Context, tx *gorm.DB, zoneID uuid.UUID, number, name string) *types.Section {
	tb.Helper()
	s := &types.Section{
		ID:            uuid.New(),
		SectionNumber: number,
		SectionName:   name,
		ZoneID:        zoneID,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed section: %v", err)
	}
	return s
}

func SeedArtifact(tb testing.TB, ctx context.Context, tx *gorm.DB, sectionID uuid.UUID, number, name string, mandatory bool) *types.Artifact {
	tb.Helper()
	a := &types.Artifact{
		ID:             uuid.New(),
		ArtifactNumber: number,
		ArtifactName:   name,
		Mandatory:      mandatory,
		SectionID:      sectionID,
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed artifact: %v", err)
	}
	return a
}

func SeedSubArtifact(tb testing.TB, ctx context.Context, tx *gorm.DB, artifactID uuid.UUID, name string) *types.SubArtifact {
	tb.Helper()
	sa := &types.SubArtifact{
		ID:         uuid.New(),
		Name:       name,
		ArtifactID: artifactID,
	}
	if err := tx.WithContext(ctx).Create(sa).Error; err != nil {
		tb.Fatalf("seed sub-artifact: %v", err)
	}
	return sa
}

func SeedDocument(tb testing.TB, ctx context.Context, tx *gorm.DB, uploadedBy uuid.UUID, title string) *types.Document {
	tb.Helper()
	d := &types.Document{
		ID:             uuid.New(),
		DocumentTitle:  title,
		Version:        "1.0",
		Status:         types.DocumentStatusDraft,
		DocumentType:   types.DocumentTypeOther,
		ZoneNumber:     "01",
		ZoneName:       "Trial Management",
		SectionNumber:  "01.01",
		SectionName:    "Trial Oversight",
		ArtifactNumber: "01.01.02",
		ArtifactName:   "Trial Management Plan",
		FileName:       "doc.pdf",
		FileSize:       1024,
		FileFormat:     "application/pdf",
		UploadedBy:     uploadedBy,
		UploadDate:     time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(d).Error; err != nil {
		tb.Fatalf("seed document: %v", err)
	}
	return d
}

func SeedPackage(tb testing.TB, ctx context.Context, tx *gorm.DB, createdBy uuid.UUID, country string) *types.RegulatoryPackage {
	tb.Helper()
	p := &types.RegulatoryPackage{
		ID:        uuid.New(),
		Country:   country,
		Status:    types.PackageStatusDraft,
		CreatedBy: createdBy,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed package: %v", err)
	}
	return p
}
