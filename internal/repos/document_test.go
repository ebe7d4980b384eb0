package repos

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/clinovara/tmf-backend/internal/repos/testutil"
	"github.com/clinovara/tmf-backend/internal/types"
)

func TestDocumentRepoListFilters(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewDocumentRepo(db, testutil.Logger(t))
	ctx := context.Background()

	u := testutil.SeedUser(t, ctx, tx, "docrepo@example.com")
	d1 := testutil.SeedDocument(t, ctx, tx, u.ID, "Trial Management Plan v1")
	d2 := testutil.SeedDocument(t, ctx, tx, u.ID, "Quality Plan v1")

	d2.Status = types.DocumentStatusApproved
	d2.SectionNumber = "01.01"
	if _, err := repo.Update(ctx, tx, d2); err != nil {
		t.Fatalf("Update: %v", err)
	}

	approved, err := repo.List(ctx, tx, DocumentFilter{Status: types.DocumentStatusApproved})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(approved) != 1 || approved[0].ID != d2.ID {
		t.Fatalf("List approved: unexpected result: %+v", approved)
	}

	bySection, err := repo.List(ctx, tx, DocumentFilter{SectionNumber: "01.01"})
	if err != nil {
		t.Fatalf("List by section: %v", err)
	}
	if len(bySection) != 2 {
		t.Fatalf("List by section: expected 2, got %d", len(bySection))
	}

	if err := repo.UpdateStatusByIDs(ctx, tx, []uuid.UUID{d1.ID}, types.DocumentStatusInReview); err != nil {
		t.Fatalf("UpdateStatusByIDs: %v", err)
	}
	got, err := repo.GetByIDs(ctx, tx, []uuid.UUID{d1.ID})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(got) != 1 || got[0].Status != types.DocumentStatusInReview {
		t.Fatalf("status update not visible: %+v", got)
	}
}

func TestDocumentRepoSoftDelete(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewDocumentRepo(db, testutil.Logger(t))
	ctx := context.Background()

	u := testutil.SeedUser(t, ctx, tx, "docdelete@example.com")
	d := testutil.SeedDocument(t, ctx, tx, u.ID, "To Be Archived")

	if err := repo.SoftDeleteByIDs(ctx, tx, []uuid.UUID{d.ID}); err != nil {
		t.Fatalf("SoftDeleteByIDs: %v", err)
	}
	got, err := repo.GetByIDs(ctx, tx, []uuid.UUID{d.ID})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("soft-deleted document still visible: %+v", got)
	}

	var count int64
	if err := tx.WithContext(ctx).Unscoped().
		Model(&types.Document{}).
		Where("id = ?", d.ID).
		Count(&count).Error; err != nil {
		t.Fatalf("unscoped count: %v", err)
	}
	if count != 1 {
		t.Fatalf("document row hard deleted")
	}
}

func TestRegulatoryPackageRepoMembershipAndAudit(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewRegulatoryPackageRepo(db, testutil.Logger(t))
	docRepo := NewDocumentRepo(db, testutil.Logger(t))
	ctx := context.Background()

	u := testutil.SeedUser(t, ctx, tx, "pkgrepo@example.com")
	p := testutil.SeedPackage(t, ctx, tx, u.ID, "USA")
	d1 := testutil.SeedDocument(t, ctx, tx, u.ID, "Protocol")
	d2 := testutil.SeedDocument(t, ctx, tx, u.ID, "Investigator Brochure")

	if err := repo.AddDocuments(ctx, tx, p.ID, []uuid.UUID{d1.ID, d2.ID}); err != nil {
		t.Fatalf("AddDocuments: %v", err)
	}
	got, err := repo.GetByIDs(ctx, tx, []uuid.UUID{p.ID})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(got) != 1 || len(got[0].Documents) != 2 {
		t.Fatalf("expected 2 member documents: %+v", got)
	}

	if err := repo.RemoveDocument(ctx, tx, p.ID, d1.ID); err != nil {
		t.Fatalf("RemoveDocument: %v", err)
	}
	got, err = repo.GetByIDs(ctx, tx, []uuid.UUID{p.ID})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(got[0].Documents) != 1 || got[0].Documents[0].ID != d2.ID {
		t.Fatalf("membership after removal: %+v", got[0].Documents)
	}

	// Removing membership must not delete the document itself.
	docs, err := docRepo.GetByIDs(ctx, tx, []uuid.UUID{d1.ID})
	if err != nil {
		t.Fatalf("document GetByIDs: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("document deleted along with membership")
	}

	for _, entry := range []types.AuditEntry{
		{Action: types.AuditActionCreated, UserID: u.ID, Timestamp: time.Now().UTC()},
		{Action: types.AuditActionDocumentsAdded, Detail: "2 documents", UserID: u.ID, Timestamp: time.Now().UTC()},
	} {
		if err := repo.AppendAudit(ctx, tx, p.ID, entry); err != nil {
			t.Fatalf("AppendAudit: %v", err)
		}
	}
	got, err = repo.GetByIDs(ctx, tx, []uuid.UUID{p.ID})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	var trail []types.AuditEntry
	if err := json.Unmarshal(got[0].AuditTrail, &trail); err != nil {
		t.Fatalf("unmarshal audit trail: %v", err)
	}
	if len(trail) != 2 || trail[0].Action != types.AuditActionCreated || trail[1].Action != types.AuditActionDocumentsAdded {
		t.Fatalf("audit trail order: %+v", trail)
	}

	if err := repo.UpdateStatus(ctx, tx, p.ID, types.PackageStatusSubmitted); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	got, err = repo.GetByIDs(ctx, tx, []uuid.UUID{p.ID})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if got[0].Status != types.PackageStatusSubmitted {
		t.Fatalf("status: %s", got[0].Status)
	}
}
