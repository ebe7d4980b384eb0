package selection

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
)

type fakeLoader struct {
	mu           sync.Mutex
	sections     map[uuid.UUID][]Node
	artifacts    map[uuid.UUID][]Node
	subArtifacts map[uuid.UUID][]Node
	sectionCalls int32
	failNext     bool
}

func newFakeLoader() *fakeLoader {
	return &fakeLoader{
		sections:     make(map[uuid.UUID][]Node),
		artifacts:    make(map[uuid.UUID][]Node),
		subArtifacts: make(map[uuid.UUID][]Node),
	}
}

func (f *fakeLoader) Sections(ctx context.Context, zoneID uuid.UUID) ([]Node, error) {
	atomic.AddInt32(&f.sectionCalls, 1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext {
		f.failNext = false
		return nil, fmt.Errorf("backend unavailable")
	}
	return f.sections[zoneID], nil
}

func (f *fakeLoader) Artifacts(ctx context.Context, sectionID uuid.UUID) ([]Node, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext {
		f.failNext = false
		return nil, fmt.Errorf("backend unavailable")
	}
	return f.artifacts[sectionID], nil
}

func (f *fakeLoader) SubArtifacts(ctx context.Context, artifactID uuid.UUID) ([]Node, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.subArtifacts[artifactID], nil
}

func seedHierarchy(f *fakeLoader) (zone, section, artifact, sub Node) {
	zone = Node{ID: uuid.New(), Number: "01", Name: "Trial Management"}
	section = Node{ID: uuid.New(), Number: "01.01", Name: "Trial Oversight"}
	artifact = Node{ID: uuid.New(), Number: "01.01.02", Name: "Trial Management Plan"}
	sub = Node{ID: uuid.New(), Name: "Project Management Plan"}
	f.sections[zone.ID] = []Node{section}
	f.artifacts[section.ID] = []Node{artifact}
	f.subArtifacts[artifact.ID] = []Node{sub}
	return
}

func TestSelectionWalkToTerminalState(t *testing.T) {
	loader := newFakeLoader()
	zone, section, artifact, sub := seedHierarchy(loader)

	m, err := NewMachine(loader)
	if err != nil {
		t.Fatalf("NewMachine: %v", err)
	}
	if m.State() != StateNone {
		t.Fatalf("initial state: want=%s got=%s", StateNone, m.State())
	}

	ctx := context.Background()
	if _, err := m.SelectZone(ctx, zone); err != nil {
		t.Fatalf("SelectZone: %v", err)
	}
	if _, err := m.SelectSection(ctx, section); err != nil {
		t.Fatalf("SelectSection: %v", err)
	}
	if _, err := m.SelectArtifact(ctx, artifact); err != nil {
		t.Fatalf("SelectArtifact: %v", err)
	}
	if err := m.SelectSubArtifact(sub); err != nil {
		t.Fatalf("SelectSubArtifact: %v", err)
	}

	if m.State() != StateSubArtifact {
		t.Fatalf("terminal state: want=%s got=%s", StateSubArtifact, m.State())
	}
	sel := m.Selection()
	if sel.Zone.ID != zone.ID || sel.Section.ID != section.ID || sel.Artifact.ID != artifact.ID || sel.SubArtifact.ID != sub.ID {
		t.Fatalf("selection mismatch: %+v", sel)
	}
}

func TestZoneChangeClearsDescendants(t *testing.T) {
	loader := newFakeLoader()
	zone, section, artifact, sub := seedHierarchy(loader)
	otherZone := Node{ID: uuid.New(), Number: "02", Name: "Central Trial Documents"}
	loader.sections[otherZone.ID] = []Node{}

	m, err := NewMachine(loader)
	if err != nil {
		t.Fatalf("NewMachine: %v", err)
	}
	ctx := context.Background()
	if _, err := m.SelectZone(ctx, zone); err != nil {
		t.Fatalf("SelectZone: %v", err)
	}
	if _, err := m.SelectSection(ctx, section); err != nil {
		t.Fatalf("SelectSection: %v", err)
	}
	if _, err := m.SelectArtifact(ctx, artifact); err != nil {
		t.Fatalf("SelectArtifact: %v", err)
	}
	if err := m.SelectSubArtifact(sub); err != nil {
		t.Fatalf("SelectSubArtifact: %v", err)
	}

	if _, err := m.SelectZone(ctx, otherZone); err != nil {
		t.Fatalf("SelectZone (other): %v", err)
	}
	sel := m.Selection()
	if sel.Zone.ID != otherZone.ID {
		t.Fatalf("zone not switched: %+v", sel)
	}
	if sel.Section != nil || sel.Artifact != nil || sel.SubArtifact != nil {
		t.Fatalf("descendant selections survived zone change: %+v", sel)
	}
	if m.State() != StateZone {
		t.Fatalf("state after zone change: want=%s got=%s", StateZone, m.State())
	}
}

func TestSectionForeignToZoneRejected(t *testing.T) {
	loader := newFakeLoader()
	zone, _, _, _ := seedHierarchy(loader)
	foreign := Node{ID: uuid.New(), Number: "02.01", Name: "Product and Trial Documentation"}

	m, err := NewMachine(loader)
	if err != nil {
		t.Fatalf("NewMachine: %v", err)
	}
	ctx := context.Background()
	if _, err := m.SelectZone(ctx, zone); err != nil {
		t.Fatalf("SelectZone: %v", err)
	}
	if _, err := m.SelectSection(ctx, foreign); err == nil {
		t.Fatalf("expected rejection of section outside selected zone")
	}
	if m.State() != StateZone {
		t.Fatalf("state moved on rejected selection: %s", m.State())
	}
}

func TestFailedLoadKeepsPreviousState(t *testing.T) {
	loader := newFakeLoader()
	zone, section, _, _ := seedHierarchy(loader)

	m, err := NewMachine(loader)
	if err != nil {
		t.Fatalf("NewMachine: %v", err)
	}
	ctx := context.Background()
	if _, err := m.SelectZone(ctx, zone); err != nil {
		t.Fatalf("SelectZone: %v", err)
	}

	loader.mu.Lock()
	loader.failNext = true
	loader.mu.Unlock()

	if _, err := m.SelectSection(ctx, section); err == nil {
		t.Fatalf("expected load failure")
	}
	if m.State() != StateZone {
		t.Fatalf("state advanced despite failed load: %s", m.State())
	}
	if m.Loading("artifacts") {
		t.Fatalf("loading flag stuck after failure")
	}
	if m.Selection().Section != nil {
		t.Fatalf("section selection set despite failed load")
	}

	// Manual retry succeeds once the backend recovers.
	if _, err := m.SelectSection(ctx, section); err != nil {
		t.Fatalf("retry SelectSection: %v", err)
	}
	if m.State() != StateSection {
		t.Fatalf("state after retry: want=%s got=%s", StateSection, m.State())
	}
}

func TestRepeatedZoneSelectionHitsCache(t *testing.T) {
	loader := newFakeLoader()
	zone, _, _, _ := seedHierarchy(loader)

	m, err := NewMachine(loader)
	if err != nil {
		t.Fatalf("NewMachine: %v", err)
	}
	ctx := context.Background()
	if _, err := m.SelectZone(ctx, zone); err != nil {
		t.Fatalf("SelectZone: %v", err)
	}
	if _, err := m.SelectZone(ctx, zone); err != nil {
		t.Fatalf("SelectZone again: %v", err)
	}
	if calls := atomic.LoadInt32(&loader.sectionCalls); calls != 1 {
		t.Fatalf("section load calls: want=1 got=%d", calls)
	}
}

func TestConcurrentSiblingLoadsResolveIndependently(t *testing.T) {
	loader := newFakeLoader()
	zoneA := Node{ID: uuid.New(), Number: "01", Name: "Trial Management"}
	zoneB := Node{ID: uuid.New(), Number: "02", Name: "Central Trial Documents"}
	secA := Node{ID: uuid.New(), Number: "01.01", Name: "Trial Oversight"}
	secB := Node{ID: uuid.New(), Number: "02.01", Name: "Product and Trial Documentation"}
	loader.sections[zoneA.ID] = []Node{secA}
	loader.sections[zoneB.ID] = []Node{secB}

	m, err := NewMachine(loader)
	if err != nil {
		t.Fatalf("NewMachine: %v", err)
	}
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	go func() { defer wg.Done(); _, errs[0] = m.SelectZone(ctx, zoneA) }()
	go func() { defer wg.Done(); _, errs[1] = m.SelectZone(ctx, zoneB) }()
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("concurrent SelectZone %d: %v", i, err)
		}
	}
	// Whichever settled last won; either way the machine holds one coherent zone.
	sel := m.Selection()
	if sel.Zone == nil || (sel.Zone.ID != zoneA.ID && sel.Zone.ID != zoneB.ID) {
		t.Fatalf("no coherent zone selection after concurrent selects: %+v", sel)
	}
}
