package wizard

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
)

type fakeSubmitter struct {
	calls    int
	failOnce bool
	lastID   uuid.UUID
}

func (f *fakeSubmitter) Submit(ctx context.Context, target Target, slots []*Slot, onProgress func(string, Progress)) (uuid.UUID, error) {
	f.calls++
	for _, slot := range slots {
		onProgress(slot.Name, ProgressUploading)
	}
	if f.failOnce {
		f.failOnce = false
		return uuid.Nil, fmt.Errorf("bucket write failed")
	}
	for _, slot := range slots {
		onProgress(slot.Name, ProgressComplete)
	}
	f.lastID = uuid.New()
	return f.lastID, nil
}

func testSpecs() []SlotSpec {
	return []SlotSpec{
		{Name: "Clinical Study Protocol", Mandatory: true},
		{Name: "Investigator Brochure", Mandatory: true},
		{Name: "Cover Letter", Mandatory: false},
	}
}

func testTarget() Target {
	return Target{
		ZoneNumber:     "01",
		ZoneName:       "Trial Management",
		SectionNumber:  "01.01",
		SectionName:    "Trial Oversight",
		ArtifactNumber: "01.01.02",
		ArtifactName:   "Trial Management Plan",
	}
}

func pdf(name string) FileMeta {
	return FileMeta{Name: name, Size: 1 << 20, ContentType: "application/pdf"}
}

func TestNextBlockedOnIncompleteTarget(t *testing.T) {
	w, err := New(&fakeSubmitter{}, testSpecs())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if w.Step() != StepTarget {
		t.Fatalf("initial step: %s", w.Step())
	}
	if err := w.Next(); err == nil {
		t.Fatalf("expected Next to fail with no target")
	}

	partial := testTarget()
	partial.ArtifactNumber = ""
	if err := w.SetTarget(partial); err != nil {
		t.Fatalf("SetTarget: %v", err)
	}
	if err := w.Next(); err == nil {
		t.Fatalf("expected Next to fail without an artifact")
	}
	if w.Step() != StepTarget {
		t.Fatalf("step moved despite incomplete target: %s", w.Step())
	}

	if err := w.SetTarget(testTarget()); err != nil {
		t.Fatalf("SetTarget: %v", err)
	}
	if err := w.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if w.Step() != StepAttach {
		t.Fatalf("step after Next: %s", w.Step())
	}
}

func TestFileGuard(t *testing.T) {
	w, err := New(&fakeSubmitter{}, testSpecs())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.SetTarget(testTarget()); err != nil {
		t.Fatalf("SetTarget: %v", err)
	}
	if err := w.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}

	big := FileMeta{Name: "scan.pdf", Size: MaxFileSize + 1, ContentType: "application/pdf"}
	if err := w.Attach("Clinical Study Protocol", big); !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("want ErrFileTooLarge, got %v", err)
	}
	exe := FileMeta{Name: "setup.exe", Size: 1024, ContentType: "application/octet-stream"}
	if err := w.Attach("Clinical Study Protocol", exe); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("want ErrUnsupportedFormat, got %v", err)
	}

	docx := FileMeta{
		Name:        "protocol.docx",
		Size:        2 << 20,
		ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}
	if err := w.Attach("Clinical Study Protocol", docx); err != nil {
		t.Fatalf("Attach docx: %v", err)
	}
}

func TestNextBlockedUntilMandatoryAttached(t *testing.T) {
	w, err := New(&fakeSubmitter{}, testSpecs())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.SetTarget(testTarget()); err != nil {
		t.Fatalf("SetTarget: %v", err)
	}
	if err := w.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}

	if err := w.Attach("Clinical Study Protocol", pdf("protocol.pdf")); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if err := w.Next(); err == nil {
		t.Fatalf("expected Next to fail with Investigator Brochure missing")
	}
	if w.Step() != StepAttach {
		t.Fatalf("step moved with mandatory slot empty: %s", w.Step())
	}

	if err := w.Attach("Investigator Brochure", pdf("ib.pdf")); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	// The optional Cover Letter stays empty.
	if err := w.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if w.Step() != StepReview {
		t.Fatalf("step after Next: %s", w.Step())
	}
}

func TestBackPreservesAttachments(t *testing.T) {
	w, err := New(&fakeSubmitter{}, testSpecs())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.SetTarget(testTarget()); err != nil {
		t.Fatalf("SetTarget: %v", err)
	}
	if err := w.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if err := w.Attach("Clinical Study Protocol", pdf("protocol.pdf")); err != nil {
		t.Fatalf("Attach: %v", err)
	}

	if err := w.Back(); err != nil {
		t.Fatalf("Back: %v", err)
	}
	if w.Step() != StepTarget {
		t.Fatalf("step after Back: %s", w.Step())
	}
	if err := w.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}

	for _, slot := range w.Slots() {
		if slot.Name == "Clinical Study Protocol" && slot.File == nil {
			t.Fatalf("attachment lost across Back/Next")
		}
	}
}

func TestSubmitFailureKeepsReviewAndRetrySucceeds(t *testing.T) {
	sub := &fakeSubmitter{failOnce: true}
	w, err := New(sub, testSpecs())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.SetTarget(testTarget()); err != nil {
		t.Fatalf("SetTarget: %v", err)
	}
	if err := w.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if err := w.Attach("Clinical Study Protocol", pdf("protocol.pdf")); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if err := w.Attach("Investigator Brochure", pdf("ib.pdf")); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if err := w.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}

	ctx := context.Background()
	if _, err := w.Submit(ctx); err == nil {
		t.Fatalf("expected first Submit to fail")
	}
	if w.Step() != StepReview {
		t.Fatalf("step after failed submit: %s", w.Step())
	}
	failed := 0
	for _, slot := range w.Slots() {
		if slot.Progress == ProgressFailed {
			if slot.Err == "" {
				t.Fatalf("failed slot %q has no error message", slot.Name)
			}
			failed++
		}
	}
	if failed == 0 {
		t.Fatalf("no slot marked failed after failed submit")
	}

	id, err := w.Submit(ctx)
	if err != nil {
		t.Fatalf("retry Submit: %v", err)
	}
	if id != sub.lastID || id == uuid.Nil {
		t.Fatalf("package id: want=%s got=%s", sub.lastID, id)
	}
	if w.Step() != StepSubmitted {
		t.Fatalf("step after retry: %s", w.Step())
	}
	for _, slot := range w.Slots() {
		if slot.File != nil {
			if slot.Progress != ProgressComplete {
				t.Fatalf("slot %q progress after success: %s", slot.Name, slot.Progress)
			}
			if slot.Err != "" {
				t.Fatalf("slot %q still carries error %q after retry", slot.Name, slot.Err)
			}
		}
	}
	if sub.calls != 2 {
		t.Fatalf("submitter calls: want=2 got=%d", sub.calls)
	}
}

func TestResetClearsEverything(t *testing.T) {
	sub := &fakeSubmitter{}
	w, err := New(sub, testSpecs())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.SetTarget(testTarget()); err != nil {
		t.Fatalf("SetTarget: %v", err)
	}
	if err := w.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if err := w.Attach("Clinical Study Protocol", pdf("protocol.pdf")); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if err := w.Attach("Investigator Brochure", pdf("ib.pdf")); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if err := w.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if _, err := w.Submit(context.Background()); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if err := w.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if w.Step() != StepTarget {
		t.Fatalf("step after Reset: %s", w.Step())
	}
	if w.Target() != (Target{}) {
		t.Fatalf("target survived Reset: %+v", w.Target())
	}
	if w.PackageID() != uuid.Nil {
		t.Fatalf("package id survived Reset")
	}
	for _, slot := range w.Slots() {
		if slot.File != nil || slot.Progress != ProgressPending || slot.Err != "" {
			t.Fatalf("slot %q not cleared by Reset: %+v", slot.Name, slot)
		}
	}
}

func TestSetMethodDropsAttachedFile(t *testing.T) {
	w, err := New(&fakeSubmitter{}, testSpecs())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.SetTarget(testTarget()); err != nil {
		t.Fatalf("SetTarget: %v", err)
	}
	if err := w.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if err := w.Attach("Cover Letter", pdf("cover.pdf")); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if err := w.SetMethod("Cover Letter", MethodGenerate); err != nil {
		t.Fatalf("SetMethod: %v", err)
	}
	for _, slot := range w.Slots() {
		if slot.Name == "Cover Letter" && slot.File != nil {
			t.Fatalf("file survived method change")
		}
	}
	if err := w.SetMethod("Cover Letter", "email"); err == nil {
		t.Fatalf("expected unknown method rejection")
	}
}
