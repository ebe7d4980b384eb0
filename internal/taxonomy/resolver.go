package taxonomy

import (
	"errors"
	"fmt"
)

// ErrUnknownCode reports a code with no entry in the tables. The original
// console silently left stale form values on a miss; here the miss is
// surfaced and the caller decides how to present it.
var ErrUnknownCode = errors.New("unknown taxonomy code")

// FormFields mirrors the hierarchy portion of the document form: the dotted
// codes the user types plus the display names derived from them.
type FormFields struct {
	ZoneNumber      string `json:"zone_number"`
	ZoneName        string `json:"zone_name"`
	SectionNumber   string `json:"section_number"`
	SectionName     string `json:"section_name"`
	ArtifactNumber  string `json:"artifact_number"`
	ArtifactName    string `json:"artifact_name"`
	SubArtifactName string `json:"sub_artifact_name"`
}

// Resolver keeps derived display fields consistent with a selected code.
// All operations are synchronous lookups against the injected tables;
// applying the same code twice yields the same fields.
type Resolver struct {
	tables *Tables
}

func NewResolver(tables *Tables) *Resolver {
	return &Resolver{tables: tables}
}

// ApplyZoneNumber sets the zone code and its derived name.
func (r *Resolver) ApplyZoneNumber(f *FormFields, code string) error {
	name, ok := r.tables.ZoneNameOf(code)
	if !ok {
		return fmt.Errorf("zone %q: %w", code, ErrUnknownCode)
	}
	f.ZoneNumber = code
	f.ZoneName = name
	return nil
}

// ApplySectionNumber sets the section code and its derived name. On an
// unknown code the fields are left untouched.
func (r *Resolver) ApplySectionNumber(f *FormFields, code string) error {
	name, ok := r.tables.SectionNameOf(code)
	if !ok {
		return fmt.Errorf("section %q: %w", code, ErrUnknownCode)
	}
	f.SectionNumber = code
	f.SectionName = name
	return nil
}

// ApplyArtifactNumber sets the artifact code and derived name, and clears any
// chosen sub-artifact: the previous choice belongs to the previous artifact.
func (r *Resolver) ApplyArtifactNumber(f *FormFields, code string) error {
	info, ok := r.tables.ArtifactInfoOf(code)
	if !ok {
		return fmt.Errorf("artifact %q: %w", code, ErrUnknownCode)
	}
	f.ArtifactNumber = code
	f.ArtifactName = info.Name
	f.SubArtifactName = ""
	return nil
}

// ApplySubArtifactName accepts only names listed under the currently applied
// artifact.
func (r *Resolver) ApplySubArtifactName(f *FormFields, name string) error {
	info, ok := r.tables.ArtifactInfoOf(f.ArtifactNumber)
	if !ok {
		return fmt.Errorf("artifact %q: %w", f.ArtifactNumber, ErrUnknownCode)
	}
	for _, s := range info.SubArtifacts {
		if s == name {
			f.SubArtifactName = name
			return nil
		}
	}
	return fmt.Errorf("sub-artifact %q not under artifact %q: %w", name, f.ArtifactNumber, ErrUnknownCode)
}
