// Package taxonomy holds the fixed four-level TMF Reference Model
// classification tables (zone, section, artifact, sub-artifact) and the
// lookup/derivation rules that keep document forms consistent with them.
package taxonomy

import (
	_ "embed"
	"fmt"
	"regexp"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed tables.yaml
var tablesYAML []byte

type ZoneEntry struct {
	Number string `yaml:"number"`
	Name   string `yaml:"name"`
}

type ArtifactInfo struct {
	Name         string   `yaml:"name"`
	SubArtifacts []string `yaml:"subartifacts"`
}

// Tables is an injected, read-only value. Content is fixed at load time; no
// mutation API is exposed.
type Tables struct {
	zones     []ZoneEntry
	zoneNames map[string]string
	sections  map[string]string
	artifacts map[string]ArtifactInfo
}

type tablesFile struct {
	Zones     []ZoneEntry             `yaml:"zones"`
	Sections  map[string]string       `yaml:"sections"`
	Artifacts map[string]ArtifactInfo `yaml:"artifacts"`
}

var (
	zonePattern     = regexp.MustCompile(`^\d{2}$`)
	sectionPattern  = regexp.MustCompile(`^\d{2}\.\d{2}$`)
	artifactPattern = regexp.MustCompile(`^\d{2}\.\d{2}\.\d{2}$`)
)

// Load parses the embedded reference-model tables. Call once at startup and
// inject the result; tests may assemble smaller fixture tables with New.
func Load() (*Tables, error) {
	var f tablesFile
	if err := yaml.Unmarshal(tablesYAML, &f); err != nil {
		return nil, fmt.Errorf("parse taxonomy tables: %w", err)
	}
	return New(f.Zones, f.Sections, f.Artifacts)
}

func MustLoad() *Tables {
	t, err := Load()
	if err != nil {
		panic(err)
	}
	return t
}

// New builds Tables from explicit content, validating code formats and the
// prefix relationships between levels.
func New(zones []ZoneEntry, sections map[string]string, artifacts map[string]ArtifactInfo) (*Tables, error) {
	t := &Tables{
		zones:     make([]ZoneEntry, len(zones)),
		zoneNames: make(map[string]string, len(zones)),
		sections:  make(map[string]string, len(sections)),
		artifacts: make(map[string]ArtifactInfo, len(artifacts)),
	}
	copy(t.zones, zones)
	for _, z := range zones {
		if !zonePattern.MatchString(z.Number) {
			return nil, fmt.Errorf("bad zone number %q", z.Number)
		}
		t.zoneNames[z.Number] = z.Name
	}
	for num, name := range sections {
		if !sectionPattern.MatchString(num) {
			return nil, fmt.Errorf("bad section number %q", num)
		}
		if _, ok := t.zoneNames[ZoneOfSection(num)]; !ok {
			return nil, fmt.Errorf("section %q has no zone", num)
		}
		t.sections[num] = name
	}
	for num, info := range artifacts {
		if !artifactPattern.MatchString(num) {
			return nil, fmt.Errorf("bad artifact number %q", num)
		}
		if _, ok := t.sections[SectionOfArtifact(num)]; !ok {
			return nil, fmt.Errorf("artifact %q has no section", num)
		}
		t.artifacts[num] = info
	}
	return t, nil
}

// ZoneOfSection returns the "ZZ" prefix of a "ZZ.SS" code.
func ZoneOfSection(sectionNumber string) string {
	if len(sectionNumber) < 2 {
		return ""
	}
	return sectionNumber[:2]
}

// SectionOfArtifact returns the "ZZ.SS" prefix of a "ZZ.SS.AA" code.
func SectionOfArtifact(artifactNumber string) string {
	if len(artifactNumber) < 5 {
		return ""
	}
	return artifactNumber[:5]
}

func ValidSectionNumber(code string) bool  { return sectionPattern.MatchString(code) }
func ValidArtifactNumber(code string) bool { return artifactPattern.MatchString(code) }

func (t *Tables) ZoneNameOf(zoneNumber string) (string, bool) {
	name, ok := t.zoneNames[zoneNumber]
	return name, ok
}

func (t *Tables) SectionNameOf(sectionNumber string) (string, bool) {
	name, ok := t.sections[sectionNumber]
	return name, ok
}

func (t *Tables) ArtifactInfoOf(artifactNumber string) (ArtifactInfo, bool) {
	info, ok := t.artifacts[artifactNumber]
	return info, ok
}

// Zones returns the zone entries in reference-model order.
func (t *Tables) Zones() []ZoneEntry {
	out := make([]ZoneEntry, len(t.zones))
	copy(out, t.zones)
	return out
}

func (t *Tables) AllZoneNames() []string {
	out := make([]string, 0, len(t.zones))
	for _, z := range t.zones {
		out = append(out, z.Name)
	}
	return out
}

func (t *Tables) AllSectionNumbers() []string {
	out := make([]string, 0, len(t.sections))
	for num := range t.sections {
		out = append(out, num)
	}
	sort.Strings(out)
	return out
}

// SectionNumbersOfZone lists the sections under one zone, sorted.
func (t *Tables) SectionNumbersOfZone(zoneNumber string) []string {
	var out []string
	for num := range t.sections {
		if ZoneOfSection(num) == zoneNumber {
			out = append(out, num)
		}
	}
	sort.Strings(out)
	return out
}

// ArtifactNumbersOfSection lists the artifacts under one section, sorted.
func (t *Tables) ArtifactNumbersOfSection(sectionNumber string) []string {
	var out []string
	for num := range t.artifacts {
		if SectionOfArtifact(num) == sectionNumber {
			out = append(out, num)
		}
	}
	sort.Strings(out)
	return out
}
