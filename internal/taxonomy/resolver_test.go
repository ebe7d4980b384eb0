package taxonomy

import (
	"errors"
	"testing"
)

func testResolver(t *testing.T) *Resolver {
	t.Helper()
	return NewResolver(MustLoad())
}

func TestApplySectionNumberDerivesName(t *testing.T) {
	r := testResolver(t)
	f := &FormFields{}

	if err := r.ApplySectionNumber(f, "01.01"); err != nil {
		t.Fatalf("ApplySectionNumber: %v", err)
	}
	if f.SectionName != "Trial Oversight" {
		t.Fatalf("section name: want=%q got=%q", "Trial Oversight", f.SectionName)
	}
}

func TestApplyUnknownCodeLeavesFieldsUntouched(t *testing.T) {
	r := testResolver(t)
	f := &FormFields{SectionNumber: "01.01", SectionName: "Trial Oversight"}

	err := r.ApplySectionNumber(f, "77.77")
	if !errors.Is(err, ErrUnknownCode) {
		t.Fatalf("expected ErrUnknownCode, got %v", err)
	}
	if f.SectionNumber != "01.01" || f.SectionName != "Trial Oversight" {
		t.Fatalf("fields changed on unknown code: %+v", f)
	}
}

func TestApplyArtifactNumberClearsSubArtifact(t *testing.T) {
	r := testResolver(t)
	f := &FormFields{}

	if err := r.ApplyArtifactNumber(f, "01.01.02"); err != nil {
		t.Fatalf("ApplyArtifactNumber: %v", err)
	}
	if err := r.ApplySubArtifactName(f, "Project Management Plan"); err != nil {
		t.Fatalf("ApplySubArtifactName: %v", err)
	}
	if f.SubArtifactName != "Project Management Plan" {
		t.Fatalf("sub-artifact not applied: %+v", f)
	}

	if err := r.ApplyArtifactNumber(f, "01.01.03"); err != nil {
		t.Fatalf("ApplyArtifactNumber: %v", err)
	}
	if f.ArtifactName != "Quality Plan" {
		t.Fatalf("artifact name: want=%q got=%q", "Quality Plan", f.ArtifactName)
	}
	if f.SubArtifactName != "" {
		t.Fatalf("sub-artifact should clear on artifact change, got %q", f.SubArtifactName)
	}
}

func TestApplyArtifactNumberIdempotent(t *testing.T) {
	r := testResolver(t)
	f := &FormFields{}

	if err := r.ApplyArtifactNumber(f, "01.01.02"); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	once := *f
	if err := r.ApplyArtifactNumber(f, "01.01.02"); err != nil {
		t.Fatalf("second apply: %v", err)
	}
	if *f != once {
		t.Fatalf("resolver not idempotent: first=%+v second=%+v", once, *f)
	}
}

func TestApplySubArtifactRejectsForeignName(t *testing.T) {
	r := testResolver(t)
	f := &FormFields{}

	if err := r.ApplyArtifactNumber(f, "01.01.03"); err != nil {
		t.Fatalf("ApplyArtifactNumber: %v", err)
	}
	err := r.ApplySubArtifactName(f, "Project Management Plan")
	if !errors.Is(err, ErrUnknownCode) {
		t.Fatalf("expected ErrUnknownCode for foreign sub-artifact, got %v", err)
	}
	if f.SubArtifactName != "" {
		t.Fatalf("sub-artifact should stay empty, got %q", f.SubArtifactName)
	}
}
