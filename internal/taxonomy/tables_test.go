package taxonomy

import "testing"

func TestLoadEmbeddedTables(t *testing.T) {
	tables, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := len(tables.Zones()); got != 11 {
		t.Fatalf("zone count: want=11 got=%d", got)
	}
	if name, ok := tables.ZoneNameOf("01"); !ok || name != "Trial Management" {
		t.Fatalf("zone 01: got=%q ok=%v", name, ok)
	}
	if name, ok := tables.SectionNameOf("01.01"); !ok || name != "Trial Oversight" {
		t.Fatalf("section 01.01: got=%q ok=%v", name, ok)
	}
	info, ok := tables.ArtifactInfoOf("01.01.02")
	if !ok || info.Name != "Trial Management Plan" {
		t.Fatalf("artifact 01.01.02: got=%q ok=%v", info.Name, ok)
	}
	found := false
	for _, s := range info.SubArtifacts {
		if s == "Project Management Plan" {
			found = true
		}
	}
	if !found {
		t.Fatalf("sub-artifacts of 01.01.02 missing Project Management Plan: %v", info.SubArtifacts)
	}

	if _, ok := tables.SectionNameOf("99.99"); ok {
		t.Fatalf("unknown section should miss")
	}
	if _, ok := tables.ArtifactInfoOf("99.99.99"); ok {
		t.Fatalf("unknown artifact should miss")
	}
}

func TestPrefixInvariantAcrossTables(t *testing.T) {
	tables, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	for _, num := range tables.AllSectionNumbers() {
		if _, ok := tables.ZoneNameOf(ZoneOfSection(num)); !ok {
			t.Fatalf("section %q has no owning zone", num)
		}
	}
	for _, sec := range tables.AllSectionNumbers() {
		for _, art := range tables.ArtifactNumbersOfSection(sec) {
			if SectionOfArtifact(art) != sec {
				t.Fatalf("artifact %q not prefixed by section %q", art, sec)
			}
		}
	}
}

func TestNewRejectsOrphanedEntries(t *testing.T) {
	zones := []ZoneEntry{{Number: "01", Name: "Trial Management"}}

	if _, err := New(zones, map[string]string{"02.01": "Orphan"}, nil); err == nil {
		t.Fatalf("expected error for section without zone")
	}

	sections := map[string]string{"01.01": "Trial Oversight"}
	artifacts := map[string]ArtifactInfo{"01.02.01": {Name: "Orphan"}}
	if _, err := New(zones, sections, artifacts); err == nil {
		t.Fatalf("expected error for artifact without section")
	}
}

func TestChildEnumeration(t *testing.T) {
	tables := MustLoad()

	secs := tables.SectionNumbersOfZone("01")
	if len(secs) != 5 {
		t.Fatalf("zone 01 sections: want=5 got=%d (%v)", len(secs), secs)
	}
	if secs[0] != "01.01" || secs[4] != "01.05" {
		t.Fatalf("zone 01 sections out of order: %v", secs)
	}

	arts := tables.ArtifactNumbersOfSection("01.02")
	if len(arts) != 2 {
		t.Fatalf("section 01.02 artifacts: want=2 got=%d (%v)", len(arts), arts)
	}
}
