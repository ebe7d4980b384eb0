package wizard

import (
	"context"
	"fmt"
	"sync"

	"github.com/anggasct/fluo"
	"github.com/google/uuid"
)

const (
	StepTarget    = "target"
	StepAttach    = "attach"
	StepReview    = "review"
	StepSubmitted = "submitted"
)

const (
	eventNext   = "next"
	eventBack   = "back"
	eventSubmit = "submit"
)

// Target is where the submitted documents land in the filing hierarchy.
type Target struct {
	ZoneNumber      string `json:"zoneNumber"`
	ZoneName        string `json:"zoneName"`
	SectionNumber   string `json:"sectionNumber"`
	SectionName     string `json:"sectionName"`
	ArtifactNumber  string `json:"artifactNumber"`
	ArtifactName    string `json:"artifactName"`
	SubArtifactName string `json:"subArtifactName,omitempty"`
}

// Complete reports whether the target pins down a concrete artifact.
func (t Target) Complete() bool {
	return t.ZoneNumber != "" && t.SectionNumber != "" && t.ArtifactNumber != ""
}

// Submitter persists a finished package. Implementations upload every
// attached file and report per-slot progress through onProgress; a returned
// error leaves the package unsubmitted.
type Submitter interface {
	Submit(ctx context.Context, target Target, slots []*Slot, onProgress func(slot string, p Progress)) (uuid.UUID, error)
}

// Wizard drives the three-step submission flow: pick a filing target, attach
// documents into the declared slots, review and submit. Steps only advance
// when the current step's gate holds, and Back never loses attached state.
type Wizard struct {
	mu        sync.Mutex
	fsm       fluo.Machine
	submitter Submitter

	target    Target
	slots     map[string]*Slot
	slotOrder []string
	packageID uuid.UUID
}

func New(submitter Submitter, specs []SlotSpec) (*Wizard, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("wizard needs at least one document slot")
	}
	w := &Wizard{
		submitter: submitter,
		slots:     make(map[string]*Slot, len(specs)),
	}
	for _, spec := range specs {
		if spec.Name == "" {
			return nil, fmt.Errorf("slot with empty name")
		}
		if _, dup := w.slots[spec.Name]; dup {
			return nil, fmt.Errorf("duplicate slot %q", spec.Name)
		}
		w.slots[spec.Name] = &Slot{
			Name:      spec.Name,
			Mandatory: spec.Mandatory,
			Method:    MethodUpload,
			Progress:  ProgressPending,
		}
		w.slotOrder = append(w.slotOrder, spec.Name)
	}

	b := fluo.NewMachine()
	b.State(StepTarget).Initial()
	b.State(StepTarget).To(StepAttach).On(eventNext).When(func(fluo.Context) bool {
		return w.target.Complete()
	})
	b.State(StepAttach).To(StepReview).On(eventNext).When(func(fluo.Context) bool {
		return w.allMandatoryAttached()
	})
	b.State(StepAttach).To(StepTarget).On(eventBack)
	b.State(StepReview).To(StepAttach).On(eventBack)
	b.State(StepReview).To(StepSubmitted).On(eventSubmit)
	b.State(StepSubmitted).Final()

	w.fsm = b.Build().CreateInstance()
	if err := w.fsm.Start(); err != nil {
		return nil, fmt.Errorf("failed to start wizard machine: %w", err)
	}
	return w, nil
}

// Step returns the current wizard step.
func (w *Wizard) Step() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fsm.CurrentState()
}

// Target returns the currently chosen filing target.
func (w *Wizard) Target() Target {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.target
}

// PackageID is set once submission succeeds.
func (w *Wizard) PackageID() uuid.UUID {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.packageID
}

// SetTarget records the filing target. Only allowed on the target step.
func (w *Wizard) SetTarget(t Target) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if s := w.fsm.CurrentState(); s != StepTarget {
		return fmt.Errorf("cannot change target on step %q", s)
	}
	w.target = t
	return nil
}

// Next advances one step if the current step's gate holds.
func (w *Wizard) Next() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	res := w.fsm.SendEvent(eventNext, nil)
	if !res.StateChanged {
		switch res.PreviousState {
		case StepTarget:
			return fmt.Errorf("target incomplete: zone, section and artifact are required")
		case StepAttach:
			return fmt.Errorf("mandatory documents missing: %v", w.missingMandatory())
		default:
			return fmt.Errorf("cannot advance from step %q", res.PreviousState)
		}
	}
	return nil
}

// Back returns to the previous step. Attachments and the target survive.
func (w *Wizard) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	res := w.fsm.SendEvent(eventBack, nil)
	if !res.StateChanged {
		return fmt.Errorf("cannot go back from step %q", res.PreviousState)
	}
	return nil
}

// SetMethod switches how a slot's document will be acquired. Changing the
// method drops any file already attached to the slot.
func (w *Wizard) SetMethod(name string, m AcquisitionMethod) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch m {
	case MethodUpload, MethodImport, MethodGenerate:
	default:
		return fmt.Errorf("unknown acquisition method %q", m)
	}
	slot, ok := w.slots[name]
	if !ok {
		return fmt.Errorf("unknown slot %q", name)
	}
	if slot.Method != m {
		slot.Method = m
		slot.File = nil
		slot.Progress = ProgressPending
		slot.Err = ""
	}
	return nil
}

// Attach puts a file into a slot after the size/format guard passes.
// Re-attaching replaces the previous file and clears any earlier failure.
func (w *Wizard) Attach(name string, f FileMeta) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if s := w.fsm.CurrentState(); s != StepAttach {
		return fmt.Errorf("cannot attach on step %q", s)
	}
	slot, ok := w.slots[name]
	if !ok {
		return fmt.Errorf("unknown slot %q", name)
	}
	if err := CheckFile(f); err != nil {
		return err
	}
	file := f
	slot.File = &file
	slot.Progress = ProgressPending
	slot.Err = ""
	return nil
}

// Detach clears a slot.
func (w *Wizard) Detach(name string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if s := w.fsm.CurrentState(); s != StepAttach {
		return fmt.Errorf("cannot detach on step %q", s)
	}
	slot, ok := w.slots[name]
	if !ok {
		return fmt.Errorf("unknown slot %q", name)
	}
	slot.File = nil
	slot.Progress = ProgressPending
	slot.Err = ""
	return nil
}

// Slots returns a snapshot of every slot in declaration order.
func (w *Wizard) Slots() []Slot {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]Slot, 0, len(w.slotOrder))
	for _, name := range w.slotOrder {
		s := *w.slots[name]
		if s.File != nil {
			f := *s.File
			s.File = &f
		}
		out = append(out, s)
	}
	return out
}

// AllMandatoryAttached reports whether every mandatory slot holds a file.
func (w *Wizard) AllMandatoryAttached() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.allMandatoryAttached()
}

func (w *Wizard) allMandatoryAttached() bool {
	for _, slot := range w.slots {
		if slot.Mandatory && !slot.attached() {
			return false
		}
	}
	return true
}

func (w *Wizard) missingMandatory() []string {
	var missing []string
	for _, name := range w.slotOrder {
		if slot := w.slots[name]; slot.Mandatory && !slot.attached() {
			missing = append(missing, name)
		}
	}
	return missing
}

// Submit hands the package to the Submitter from the review step. Per-slot
// progress lands on the slots as the Submitter reports it. A failed submit
// keeps the wizard on review with the failed slots marked, so a retry only
// needs to call Submit again.
func (w *Wizard) Submit(ctx context.Context) (uuid.UUID, error) {
	w.mu.Lock()
	if s := w.fsm.CurrentState(); s != StepReview {
		w.mu.Unlock()
		return uuid.Nil, fmt.Errorf("cannot submit on step %q", s)
	}
	if w.submitter == nil {
		w.mu.Unlock()
		return uuid.Nil, fmt.Errorf("no submitter configured")
	}
	target := w.target
	attached := make([]*Slot, 0, len(w.slotOrder))
	for _, name := range w.slotOrder {
		if slot := w.slots[name]; slot.attached() {
			// A fresh attempt clears failures from the previous one.
			slot.Err = ""
			slot.Progress = ProgressPending
			attached = append(attached, slot)
		}
	}
	w.mu.Unlock()

	onProgress := func(name string, p Progress) {
		w.mu.Lock()
		defer w.mu.Unlock()
		if slot, ok := w.slots[name]; ok {
			slot.Progress = p
		}
	}

	id, err := w.submitter.Submit(ctx, target, attached, onProgress)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		for _, slot := range w.slots {
			if slot.attached() && slot.Progress != ProgressComplete {
				slot.Progress = ProgressFailed
				slot.Err = err.Error()
			}
		}
		return uuid.Nil, fmt.Errorf("failed to submit package: %w", err)
	}
	w.packageID = id
	if res := w.fsm.SendEvent(eventSubmit, nil); !res.StateChanged {
		return uuid.Nil, fmt.Errorf("wizard refused submit transition: %s", res.RejectionReason)
	}
	return id, nil
}

// Reset returns the wizard to the target step with empty slots, ready for
// the next package.
func (w *Wizard) Reset() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.fsm.Reset(); err != nil {
		return fmt.Errorf("failed to reset wizard machine: %w", err)
	}
	if err := w.fsm.Start(); err != nil {
		return fmt.Errorf("failed to restart wizard machine: %w", err)
	}
	w.target = Target{}
	w.packageID = uuid.Nil
	for _, slot := range w.slots {
		slot.Method = MethodUpload
		slot.File = nil
		slot.Progress = ProgressPending
		slot.Err = ""
	}
	return nil
}
