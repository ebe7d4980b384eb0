// Package selection implements the cascading zone/section/artifact/
// sub-artifact picker as an explicit state machine: children load lazily
// from a collaborator, ancestor changes invalidate every descendant
// selection, and repeated expansion of the same node is a cache hit.
package selection

import (
	"context"
	"fmt"
	"sync"

	"github.com/anggasct/fluo"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

const (
	StateNone        = "none"
	StateZone        = "zone_selected"
	StateSection     = "section_selected"
	StateArtifact    = "artifact_selected"
	StateSubArtifact = "sub_artifact_selected"
)

const (
	eventSelectZone        = "select_zone"
	eventSelectSection     = "select_section"
	eventSelectArtifact    = "select_artifact"
	eventSelectSubArtifact = "select_sub_artifact"
)

// Node is one selectable entry at any hierarchy level.
type Node struct {
	ID     uuid.UUID `json:"id"`
	Number string    `json:"number,omitempty"`
	Name   string    `json:"name"`
}

// ChildLoader fetches the children of a hierarchy node from the backend.
type ChildLoader interface {
	Sections(ctx context.Context, zoneID uuid.UUID) ([]Node, error)
	Artifacts(ctx context.Context, sectionID uuid.UUID) ([]Node, error)
	SubArtifacts(ctx context.Context, artifactID uuid.UUID) ([]Node, error)
}

// Snapshot holds the ids chosen at all levels up to the current state.
type Snapshot struct {
	Zone        *Node `json:"zone,omitempty"`
	Section     *Node `json:"section,omitempty"`
	Artifact    *Node `json:"artifact,omitempty"`
	SubArtifact *Node `json:"sub_artifact,omitempty"`
}

// Machine tracks one picker instance. Loads are keyed by parent id so that
// concurrent expansion of sibling nodes resolves independently; a failed
// load keeps the machine at the previous confirmed state.
type Machine struct {
	mu     sync.Mutex
	fsm    fluo.Machine
	loader ChildLoader
	group  singleflight.Group

	sel          Snapshot
	sections     map[uuid.UUID][]Node
	artifacts    map[uuid.UUID][]Node
	subArtifacts map[uuid.UUID][]Node
	loading      map[string]bool
}

func NewMachine(loader ChildLoader) (*Machine, error) {
	m := &Machine{
		loader:       loader,
		sections:     make(map[uuid.UUID][]Node),
		artifacts:    make(map[uuid.UUID][]Node),
		subArtifacts: make(map[uuid.UUID][]Node),
		loading:      make(map[string]bool),
	}

	b := fluo.NewMachine()
	b.State(StateNone).Initial()
	// A zone can be (re)selected from any state.
	for _, from := range []string{StateNone, StateZone, StateSection, StateArtifact, StateSubArtifact} {
		b.State(from).To(StateZone).On(eventSelectZone)
	}
	// Each deeper level requires its parent level to be confirmed.
	for _, from := range []string{StateZone, StateSection, StateArtifact, StateSubArtifact} {
		b.State(from).To(StateSection).On(eventSelectSection)
	}
	for _, from := range []string{StateSection, StateArtifact, StateSubArtifact} {
		b.State(from).To(StateArtifact).On(eventSelectArtifact)
	}
	for _, from := range []string{StateArtifact, StateSubArtifact} {
		b.State(from).To(StateSubArtifact).On(eventSelectSubArtifact)
	}

	instance := b.Build().CreateInstance()
	if err := instance.Start(); err != nil {
		return nil, fmt.Errorf("start selection machine: %w", err)
	}
	m.fsm = instance
	return m, nil
}

// State returns the current FSM state name.
func (m *Machine) State() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fsm.CurrentState()
}

// Selection returns the confirmed ids at each level.
func (m *Machine) Selection() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sel
}

// Loading reports whether a child load for the given level is in flight.
func (m *Machine) Loading(level string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading[level]
}

// SelectZone confirms a zone and loads its sections. Selecting a different
// zone clears the section/artifact/sub-artifact selections and the child
// caches hanging off the previous zone.
func (m *Machine) SelectZone(ctx context.Context, zone Node) ([]Node, error) {
	children, err := m.loadChildren(ctx, "sections", zone.ID, func(ctx context.Context) ([]Node, error) {
		return m.loader.Sections(ctx, zone.ID)
	})
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if res := m.fsm.SendEvent(eventSelectZone, zone); !res.Success() {
		return nil, fmt.Errorf("select zone: %s", res.RejectionReason)
	}
	if m.sel.Zone != nil && m.sel.Zone.ID != zone.ID {
		delete(m.sections, m.sel.Zone.ID)
		m.artifacts = make(map[uuid.UUID][]Node)
		m.subArtifacts = make(map[uuid.UUID][]Node)
	}
	z := zone
	m.sel = Snapshot{Zone: &z}
	m.sections[zone.ID] = children
	return children, nil
}

// SelectSection confirms a section belonging to the selected zone and loads
// its artifacts. Artifact and sub-artifact selections clear.
func (m *Machine) SelectSection(ctx context.Context, section Node) ([]Node, error) {
	m.mu.Lock()
	if m.sel.Zone == nil {
		m.mu.Unlock()
		return nil, fmt.Errorf("no zone selected")
	}
	if !contains(m.sections[m.sel.Zone.ID], section.ID) {
		m.mu.Unlock()
		return nil, fmt.Errorf("section %s does not belong to zone %s", section.ID, m.sel.Zone.ID)
	}
	m.mu.Unlock()

	children, err := m.loadChildren(ctx, "artifacts", section.ID, func(ctx context.Context) ([]Node, error) {
		return m.loader.Artifacts(ctx, section.ID)
	})
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if res := m.fsm.SendEvent(eventSelectSection, section); !res.Success() {
		return nil, fmt.Errorf("select section: %s", res.RejectionReason)
	}
	s := section
	m.sel.Section = &s
	m.sel.Artifact = nil
	m.sel.SubArtifact = nil
	m.artifacts[section.ID] = children
	return children, nil
}

// SelectArtifact confirms an artifact belonging to the selected section and
// loads its sub-artifacts. The sub-artifact selection clears.
func (m *Machine) SelectArtifact(ctx context.Context, artifact Node) ([]Node, error) {
	m.mu.Lock()
	if m.sel.Section == nil {
		m.mu.Unlock()
		return nil, fmt.Errorf("no section selected")
	}
	if !contains(m.artifacts[m.sel.Section.ID], artifact.ID) {
		m.mu.Unlock()
		return nil, fmt.Errorf("artifact %s does not belong to section %s", artifact.ID, m.sel.Section.ID)
	}
	m.mu.Unlock()

	children, err := m.loadChildren(ctx, "sub_artifacts", artifact.ID, func(ctx context.Context) ([]Node, error) {
		return m.loader.SubArtifacts(ctx, artifact.ID)
	})
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if res := m.fsm.SendEvent(eventSelectArtifact, artifact); !res.Success() {
		return nil, fmt.Errorf("select artifact: %s", res.RejectionReason)
	}
	a := artifact
	m.sel.Artifact = &a
	m.sel.SubArtifact = nil
	m.subArtifacts[artifact.ID] = children
	return children, nil
}

// SelectSubArtifact confirms the terminal level. No further loads happen.
func (m *Machine) SelectSubArtifact(subArtifact Node) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sel.Artifact == nil {
		return fmt.Errorf("no artifact selected")
	}
	if !contains(m.subArtifacts[m.sel.Artifact.ID], subArtifact.ID) {
		return fmt.Errorf("sub-artifact %s does not belong to artifact %s", subArtifact.ID, m.sel.Artifact.ID)
	}
	if res := m.fsm.SendEvent(eventSelectSubArtifact, subArtifact); !res.Success() {
		return fmt.Errorf("select sub-artifact: %s", res.RejectionReason)
	}
	sa := subArtifact
	m.sel.SubArtifact = &sa
	return nil
}

// loadChildren serves a cached child list when present and otherwise loads
// it once per parent key, collapsing concurrent requests for the same key.
func (m *Machine) loadChildren(ctx context.Context, level string, parentID uuid.UUID, load func(context.Context) ([]Node, error)) ([]Node, error) {
	m.mu.Lock()
	if cached, ok := m.cacheFor(level)[parentID]; ok {
		m.mu.Unlock()
		return cached, nil
	}
	m.loading[level] = true
	m.mu.Unlock()

	key := level + ":" + parentID.String()
	v, err, _ := m.group.Do(key, func() (interface{}, error) {
		return load(ctx)
	})

	m.mu.Lock()
	m.loading[level] = false
	m.mu.Unlock()

	if err != nil {
		return nil, fmt.Errorf("load %s of %s: %w", level, parentID, err)
	}
	return v.([]Node), nil
}

func (m *Machine) cacheFor(level string) map[uuid.UUID][]Node {
	switch level {
	case "sections":
		return m.sections
	case "artifacts":
		return m.artifacts
	default:
		return m.subArtifacts
	}
}

func contains(nodes []Node, id uuid.UUID) bool {
	for _, n := range nodes {
		if n.ID == id {
			return true
		}
	}
	return false
}
