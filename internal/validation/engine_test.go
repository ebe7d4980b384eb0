package validation

import (
	"context"
	"math/rand"
	"reflect"
	"testing"

	"github.com/google/uuid"

	"github.com/clinovara/tmf-backend/internal/logger"
	"github.com/clinovara/tmf-backend/internal/types"
)

func testEngine(t *testing.T, seed int64) Validator {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return NewMockEngine(rand.New(rand.NewSource(seed)), log)
}

func TestStatusConsistentWithSummary(t *testing.T) {
	ctx := context.Background()
	for seed := int64(0); seed < 20; seed++ {
		e := testEngine(t, seed)
		res, err := e.ValidateDocument(ctx, Request{
			DocumentID:   uuid.New(),
			DocumentName: "Statistical Analysis Plan",
			FileName:     "sap.pdf",
			FileSize:     1 << 20,
			Standard:     StandardECTD,
			TargetAgency: "FDA",
		})
		if err != nil {
			t.Fatalf("seed %d: ValidateDocument: %v", seed, err)
		}
		if got := types.DeriveValidationStatus(res.Summary); got != res.Status {
			t.Fatalf("seed %d: status %s does not match summary %+v", seed, res.Status, res.Summary)
		}
		if got := summarize(res.Issues); got != res.Summary {
			t.Fatalf("seed %d: summary %+v does not match issues %+v", seed, res.Summary, got)
		}
	}
}

func TestDeterministicUnderSeed(t *testing.T) {
	ctx := context.Background()
	req := Request{
		DocumentID:   uuid.MustParse("b9f6d44e-9f3e-4b0a-8a6e-5b2f2f6d9c11"),
		DocumentName: "Clinical Study Protocol",
		FileName:     "protocol.pdf",
		FileSize:     6_000_000,
		Standard:     StandardSDTM,
		TargetAgency: "PMDA",
	}

	a, err := testEngine(t, 42).ValidateDocument(ctx, req)
	if err != nil {
		t.Fatalf("ValidateDocument: %v", err)
	}
	b, err := testEngine(t, 42).ValidateDocument(ctx, req)
	if err != nil {
		t.Fatalf("ValidateDocument: %v", err)
	}
	if !reflect.DeepEqual(a.Issues, b.Issues) || a.Status != b.Status || a.Summary != b.Summary {
		t.Fatalf("same seed produced different results:\n%+v\n%+v", a, b)
	}
}

func TestDocumentCharacteristicsAddIssues(t *testing.T) {
	ctx := context.Background()
	res, err := testEngine(t, 7).ValidateDocument(ctx, Request{
		DocumentID:   uuid.New(),
		DocumentName: "Clinical Study Protocol v2",
		FileName:     "protocol.pdf",
		FileSize:     10_000_000,
		Standard:     StandardECTD,
		TargetAgency: "FDA",
	})
	if err != nil {
		t.Fatalf("ValidateDocument: %v", err)
	}
	var sawSize, sawProtocol bool
	for _, issue := range res.Issues {
		switch issue.ID {
		case "SIZE-001":
			sawSize = true
		case "PROT-001":
			sawProtocol = true
		}
	}
	if !sawSize {
		t.Fatalf("large file did not raise SIZE-001: %+v", res.Issues)
	}
	if !sawProtocol {
		t.Fatalf("protocol document did not raise PROT-001: %+v", res.Issues)
	}
	if res.Status != types.ValidationStatusFail {
		t.Fatalf("protocol error should fail the document, got %s", res.Status)
	}
}

func TestSDTMCriticalFails(t *testing.T) {
	res, err := testEngine(t, 1).ValidateDocument(context.Background(), Request{
		DocumentID:   uuid.New(),
		DocumentName: "Demographics Dataset",
		FileName:     "dm.xpt.pdf",
		FileSize:     1024,
		Standard:     StandardSDTM,
		TargetAgency: "FDA",
	})
	if err != nil {
		t.Fatalf("ValidateDocument: %v", err)
	}
	if res.Summary.CriticalIssues == 0 {
		t.Fatalf("SDTM base issues should include a critical finding: %+v", res.Summary)
	}
	if res.Status != types.ValidationStatusFail {
		t.Fatalf("critical issue must fail validation, got %s", res.Status)
	}
}

func TestUnknownAgencyFallsBackToUSRules(t *testing.T) {
	res, err := testEngine(t, 3).ValidateDocument(context.Background(), Request{
		DocumentID:   uuid.New(),
		DocumentName: "Cover Letter",
		FileName:     "cover.pdf",
		FileSize:     1024,
		Standard:     StandardECTD,
		TargetAgency: "SwissMedic",
	})
	if err != nil {
		t.Fatalf("ValidateDocument: %v", err)
	}
	want := RulesFor("USA", StandardECTD).Rules
	if !reflect.DeepEqual(res.Metadata.ValidationRules, want) {
		t.Fatalf("rules: want=%v got=%v", want, res.Metadata.ValidationRules)
	}
}

func TestPackageAggregation(t *testing.T) {
	e := testEngine(t, 9)
	reqs := []Request{
		{DocumentID: uuid.New(), DocumentName: "Clinical Study Protocol", FileName: "protocol.pdf", FileSize: 1024, Standard: StandardECTD},
		{DocumentID: uuid.New(), DocumentName: "Investigator Brochure", FileName: "ib.pdf", FileSize: 2048, Standard: StandardECTD},
	}
	res, err := e.ValidatePackage(context.Background(), reqs, "MHRA")
	if err != nil {
		t.Fatalf("ValidatePackage: %v", err)
	}
	if res.Summary.TotalDocuments != 2 || res.Summary.ValidatedDocuments != 2 {
		t.Fatalf("document counts: %+v", res.Summary)
	}
	var issues, criticals, errors, warnings, failed int
	for _, dr := range res.DocumentResults {
		issues += dr.Summary.TotalIssues
		criticals += dr.Summary.CriticalIssues
		errors += dr.Summary.Errors
		warnings += dr.Summary.Warnings
		if dr.Status == types.ValidationStatusFail {
			failed++
		}
	}
	if res.Summary.TotalIssues != issues || res.Summary.CriticalIssues != criticals ||
		res.Summary.Errors != errors || res.Summary.Warnings != warnings ||
		res.Summary.FailedDocuments != failed {
		t.Fatalf("aggregate mismatch: %+v", res.Summary)
	}
	if res.Ready != (res.Status == types.ValidationStatusPass) {
		t.Fatalf("readiness %v inconsistent with status %s", res.Ready, res.Status)
	}
}

func TestPackageRequiresDocuments(t *testing.T) {
	if _, err := testEngine(t, 0).ValidatePackage(context.Background(), nil, "FDA"); err == nil {
		t.Fatalf("expected error for empty package")
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := testEngine(t, 0).ValidateDocument(ctx, Request{DocumentID: uuid.New()}); err == nil {
		t.Fatalf("expected context error")
	}
}
