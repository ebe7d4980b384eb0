package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/clinovara/tmf-backend/internal/repos/testutil"
)

func TestZoneRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewZoneRepo(db, testutil.Logger(t))
	ctx := context.Background()

	z1 := testutil.SeedZone(t, ctx, tx, "01", "Trial Management")
	z2 := testutil.SeedZone(t, ctx, tx, "02", "Central Trial Documents")

	all, err := repo.GetAll(ctx, tx)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(all) != 2 || all[0].ZoneNumber != "01" || all[1].ZoneNumber != "02" {
		t.Fatalf("GetAll: expected zones ordered by number, got %+v", all)
	}

	byNumber, err := repo.GetByNumbers(ctx, tx, []string{"02"})
	if err != nil {
		t.Fatalf("GetByNumbers: %v", err)
	}
	if len(byNumber) != 1 || byNumber[0].ID != z2.ID {
		t.Fatalf("GetByNumbers: unexpected result: %+v", byNumber)
	}

	z1.ZoneDescription = "updated"
	if _, err := repo.Update(ctx, tx, z1); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := repo.GetByIDs(ctx, tx, []uuid.UUID{z1.ID})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(got) != 1 || got[0].ZoneDescription != "updated" {
		t.Fatalf("GetByIDs after update: %+v", got)
	}
}

func TestSectionRepoScopesByZone(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewSectionRepo(db, testutil.Logger(t))
	ctx := context.Background()

	z1 := testutil.SeedZone(t, ctx, tx, "01", "Trial Management")
	z2 := testutil.SeedZone(t, ctx, tx, "02", "Central Trial Documents")
	s1 := testutil.SeedSection(t, ctx, tx, z1.ID, "01.01", "Trial Oversight")
	testutil.SeedSection(t, ctx, tx, z1.ID, "01.02", "Trial Team")
	testutil.SeedSection(t, ctx, tx, z2.ID, "02.01", "Product and Trial Documentation")

	byZone, err := repo.GetByZoneIDs(ctx, tx, []uuid.UUID{z1.ID})
	if err != nil {
		t.Fatalf("GetByZoneIDs: %v", err)
	}
	if len(byZone) != 2 || byZone[0].SectionNumber != "01.01" {
		t.Fatalf("GetByZoneIDs: unexpected result: %+v", byZone)
	}

	byNumber, err := repo.GetByNumbers(ctx, tx, []string{"01.01"})
	if err != nil {
		t.Fatalf("GetByNumbers: %v", err)
	}
	if len(byNumber) != 1 || byNumber[0].ID != s1.ID {
		t.Fatalf("GetByNumbers: unexpected result: %+v", byNumber)
	}
}

func TestArtifactRepoMandatoryFilter(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewArtifactRepo(db, testutil.Logger(t))
	ctx := context.Background()

	z := testutil.SeedZone(t, ctx, tx, "01", "Trial Management")
	s := testutil.SeedSection(t, ctx, tx, z.ID, "01.01", "Trial Oversight")
	a1 := testutil.SeedArtifact(t, ctx, tx, s.ID, "01.01.01", "Trial Master File Plan", true)
	testutil.SeedArtifact(t, ctx, tx, s.ID, "01.01.02", "Trial Management Plan", false)

	bySection, err := repo.GetBySectionIDs(ctx, tx, []uuid.UUID{s.ID})
	if err != nil {
		t.Fatalf("GetBySectionIDs: %v", err)
	}
	if len(bySection) != 2 {
		t.Fatalf("GetBySectionIDs: expected 2 artifacts, got %d", len(bySection))
	}

	mandatory, err := repo.GetMandatoryBySectionIDs(ctx, tx, []uuid.UUID{s.ID})
	if err != nil {
		t.Fatalf("GetMandatoryBySectionIDs: %v", err)
	}
	if len(mandatory) != 1 || mandatory[0].ID != a1.ID {
		t.Fatalf("GetMandatoryBySectionIDs: unexpected result: %+v", mandatory)
	}
}

func TestSubArtifactRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewSubArtifactRepo(db, testutil.Logger(t))
	ctx := context.Background()

	z := testutil.SeedZone(t, ctx, tx, "01", "Trial Management")
	s := testutil.SeedSection(t, ctx, tx, z.ID, "01.01", "Trial Oversight")
	a := testutil.SeedArtifact(t, ctx, tx, s.ID, "01.01.02", "Trial Management Plan", false)
	testutil.SeedSubArtifact(t, ctx, tx, a.ID, "Project Management Plan")
	testutil.SeedSubArtifact(t, ctx, tx, a.ID, "Communication Plan")

	byArtifact, err := repo.GetByArtifactIDs(ctx, tx, []uuid.UUID{a.ID})
	if err != nil {
		t.Fatalf("GetByArtifactIDs: %v", err)
	}
	if len(byArtifact) != 2 || byArtifact[0].Name != "Communication Plan" {
		t.Fatalf("GetByArtifactIDs: expected name-ordered sub-artifacts, got %+v", byArtifact)
	}
}
