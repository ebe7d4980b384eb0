package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clinovara/tmf-backend/internal/logger"
	"github.com/clinovara/tmf-backend/internal/repos"
	"github.com/clinovara/tmf-backend/internal/selection"
	"github.com/clinovara/tmf-backend/internal/taxonomy"
	"github.com/clinovara/tmf-backend/internal/types"
)

// TMFService exposes the zone/section/artifact/sub-artifact hierarchy.
// Writes enforce the taxonomy's numbering scheme: a child's code must carry
// its parent's code as a prefix and exist in the reference tables.
type TMFService interface {
	GetZones(ctx context.Context) ([]*types.Zone, error)
	GetSectionsByZone(ctx context.Context, zoneID uuid.UUID) ([]*types.Section, error)
	GetArtifactsBySection(ctx context.Context, sectionID uuid.UUID) ([]*types.Artifact, error)
	GetSubArtifactsByArtifact(ctx context.Context, artifactID uuid.UUID) ([]*types.SubArtifact, error)

	CreateZone(ctx context.Context, zone *types.Zone) (*types.Zone, error)
	CreateSection(ctx context.Context, section *types.Section) (*types.Section, error)
	CreateArtifact(ctx context.Context, artifact *types.Artifact) (*types.Artifact, error)
	CreateSubArtifact(ctx context.Context, subArtifact *types.SubArtifact) (*types.SubArtifact, error)

	SeedFromTables(ctx context.Context) error
	ChildLoader() selection.ChildLoader
	ResolveFields(f *taxonomy.FormFields, level, value string) error
}

type tmfService struct {
	db             *gorm.DB
	log            *logger.Logger
	tables         *taxonomy.Tables
	resolver       *taxonomy.Resolver
	zoneRepo       repos.ZoneRepo
	sectionRepo    repos.SectionRepo
	artifactRepo   repos.ArtifactRepo
	subArtifactRepo repos.SubArtifactRepo
}

func NewTMFService(
	db *gorm.DB,
	log *logger.Logger,
	tables *taxonomy.Tables,
	zoneRepo repos.ZoneRepo,
	sectionRepo repos.SectionRepo,
	artifactRepo repos.ArtifactRepo,
	subArtifactRepo repos.SubArtifactRepo,
) TMFService {
	serviceLog := log.With("service", "TMFService")
	return &tmfService{
		db:              db,
		log:             serviceLog,
		tables:          tables,
		resolver:        taxonomy.NewResolver(tables),
		zoneRepo:        zoneRepo,
		sectionRepo:     sectionRepo,
		artifactRepo:    artifactRepo,
		subArtifactRepo: subArtifactRepo,
	}
}

func (ts *tmfService) GetZones(ctx context.Context) ([]*types.Zone, error) {
	return ts.zoneRepo.GetAll(ctx, nil)
}

func (ts *tmfService) GetSectionsByZone(ctx context.Context, zoneID uuid.UUID) ([]*types.Section, error) {
	return ts.sectionRepo.GetByZoneIDs(ctx, nil, []uuid.UUID{zoneID})
}

func (ts *tmfService) GetArtifactsBySection(ctx context.Context, sectionID uuid.UUID) ([]*types.Artifact, error) {
	return ts.artifactRepo.GetBySectionIDs(ctx, nil, []uuid.UUID{sectionID})
}

func (ts *tmfService) GetSubArtifactsByArtifact(ctx context.Context, artifactID uuid.UUID) ([]*types.SubArtifact, error) {
	return ts.subArtifactRepo.GetByArtifactIDs(ctx, nil, []uuid.UUID{artifactID})
}

func (ts *tmfService) CreateZone(ctx context.Context, zone *types.Zone) (*types.Zone, error) {
	name, ok := ts.tables.ZoneNameOf(zone.ZoneNumber)
	if !ok {
		return nil, fmt.Errorf("zone %q: %w", zone.ZoneNumber, taxonomy.ErrUnknownCode)
	}
	zone.ZoneName = name

	existing, err := ts.zoneRepo.GetByNumbers(ctx, nil, []string{zone.ZoneNumber})
	if err != nil {
		return nil, fmt.Errorf("Failed to check existing zones: %w", err)
	}
	if len(existing) > 0 {
		return nil, fmt.Errorf("zone %q already exists", zone.ZoneNumber)
	}

	created, err := ts.zoneRepo.Create(ctx, nil, []*types.Zone{zone})
	if err != nil {
		return nil, fmt.Errorf("Failed to create zone: %w", err)
	}
	return created[0], nil
}

func (ts *tmfService) CreateSection(ctx context.Context, section *types.Section) (*types.Section, error) {
	name, ok := ts.tables.SectionNameOf(section.SectionNumber)
	if !ok {
		return nil, fmt.Errorf("section %q: %w", section.SectionNumber, taxonomy.ErrUnknownCode)
	}
	section.SectionName = name

	zoneNumber := taxonomy.ZoneOfSection(section.SectionNumber)
	zones, err := ts.zoneRepo.GetByNumbers(ctx, nil, []string{zoneNumber})
	if err != nil {
		return nil, fmt.Errorf("Failed to load parent zone: %w", err)
	}
	if len(zones) == 0 {
		return nil, fmt.Errorf("parent zone %q does not exist", zoneNumber)
	}
	section.ZoneID = zones[0].ID

	created, err := ts.sectionRepo.Create(ctx, nil, []*types.Section{section})
	if err != nil {
		return nil, fmt.Errorf("Failed to create section: %w", err)
	}
	return created[0], nil
}

func (ts *tmfService) CreateArtifact(ctx context.Context, artifact *types.Artifact) (*types.Artifact, error) {
	info, ok := ts.tables.ArtifactInfoOf(artifact.ArtifactNumber)
	if !ok {
		return nil, fmt.Errorf("artifact %q: %w", artifact.ArtifactNumber, taxonomy.ErrUnknownCode)
	}
	artifact.ArtifactName = info.Name

	sectionNumber := taxonomy.SectionOfArtifact(artifact.ArtifactNumber)
	sections, err := ts.sectionRepo.GetByNumbers(ctx, nil, []string{sectionNumber})
	if err != nil {
		return nil, fmt.Errorf("Failed to load parent section: %w", err)
	}
	if len(sections) == 0 {
		return nil, fmt.Errorf("parent section %q does not exist", sectionNumber)
	}
	artifact.SectionID = sections[0].ID

	created, err := ts.artifactRepo.Create(ctx, nil, []*types.Artifact{artifact})
	if err != nil {
		return nil, fmt.Errorf("Failed to create artifact: %w", err)
	}
	return created[0], nil
}

func (ts *tmfService) CreateSubArtifact(ctx context.Context, subArtifact *types.SubArtifact) (*types.SubArtifact, error) {
	artifacts, err := ts.artifactRepo.GetByIDs(ctx, nil, []uuid.UUID{subArtifact.ArtifactID})
	if err != nil {
		return nil, fmt.Errorf("Failed to load parent artifact: %w", err)
	}
	if len(artifacts) == 0 {
		return nil, fmt.Errorf("parent artifact does not exist")
	}
	info, ok := ts.tables.ArtifactInfoOf(artifacts[0].ArtifactNumber)
	if !ok {
		return nil, fmt.Errorf("artifact %q: %w", artifacts[0].ArtifactNumber, taxonomy.ErrUnknownCode)
	}
	valid := false
	for _, name := range info.SubArtifacts {
		if name == subArtifact.Name {
			valid = true
			break
		}
	}
	if !valid {
		return nil, fmt.Errorf("sub-artifact %q does not belong to artifact %q", subArtifact.Name, artifacts[0].ArtifactNumber)
	}

	created, err := ts.subArtifactRepo.Create(ctx, nil, []*types.SubArtifact{subArtifact})
	if err != nil {
		return nil, fmt.Errorf("Failed to create sub-artifact: %w", err)
	}
	return created[0], nil
}

// SeedFromTables loads the reference taxonomy into Postgres. Idempotent:
// already-present rows (matched by number) are left alone.
func (ts *tmfService) SeedFromTables(ctx context.Context) error {
	return ts.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existingZones, err := ts.zoneRepo.GetAll(ctx, tx)
		if err != nil {
			return fmt.Errorf("Failed to load existing zones: %w", err)
		}
		zoneIDs := make(map[string]uuid.UUID, len(existingZones))
		for _, z := range existingZones {
			zoneIDs[z.ZoneNumber] = z.ID
		}
		var newZones []*types.Zone
		for _, entry := range ts.tables.Zones() {
			if _, ok := zoneIDs[entry.Number]; ok {
				continue
			}
			z := &types.Zone{ID: uuid.New(), ZoneNumber: entry.Number, ZoneName: entry.Name}
			zoneIDs[entry.Number] = z.ID
			newZones = append(newZones, z)
		}
		if _, err := ts.zoneRepo.Create(ctx, tx, newZones); err != nil {
			return fmt.Errorf("Failed to seed zones: %w", err)
		}

		existingSections, err := ts.sectionRepo.GetAll(ctx, tx)
		if err != nil {
			return fmt.Errorf("Failed to load existing sections: %w", err)
		}
		sectionIDs := make(map[string]uuid.UUID, len(existingSections))
		for _, s := range existingSections {
			sectionIDs[s.SectionNumber] = s.ID
		}
		var newSections []*types.Section
		for _, number := range ts.tables.AllSectionNumbers() {
			if _, ok := sectionIDs[number]; ok {
				continue
			}
			name, _ := ts.tables.SectionNameOf(number)
			s := &types.Section{
				ID:            uuid.New(),
				SectionNumber: number,
				SectionName:   name,
				ZoneID:        zoneIDs[taxonomy.ZoneOfSection(number)],
			}
			sectionIDs[number] = s.ID
			newSections = append(newSections, s)
		}
		if _, err := ts.sectionRepo.Create(ctx, tx, newSections); err != nil {
			return fmt.Errorf("Failed to seed sections: %w", err)
		}

		existingArtifacts, err := ts.artifactRepo.GetAll(ctx, tx)
		if err != nil {
			return fmt.Errorf("Failed to load existing artifacts: %w", err)
		}
		artifactIDs := make(map[string]uuid.UUID, len(existingArtifacts))
		for _, a := range existingArtifacts {
			artifactIDs[a.ArtifactNumber] = a.ID
		}
		var newArtifacts []*types.Artifact
		var newSubArtifacts []*types.SubArtifact
		for _, sectionNumber := range ts.tables.AllSectionNumbers() {
			for _, artifactNumber := range ts.tables.ArtifactNumbersOfSection(sectionNumber) {
				if _, ok := artifactIDs[artifactNumber]; ok {
					continue
				}
				info, _ := ts.tables.ArtifactInfoOf(artifactNumber)
				a := &types.Artifact{
					ID:             uuid.New(),
					ArtifactNumber: artifactNumber,
					ArtifactName:   info.Name,
					SectionID:      sectionIDs[sectionNumber],
				}
				artifactIDs[artifactNumber] = a.ID
				newArtifacts = append(newArtifacts, a)
				for _, subName := range info.SubArtifacts {
					newSubArtifacts = append(newSubArtifacts, &types.SubArtifact{
						ID:         uuid.New(),
						Name:       subName,
						ArtifactID: a.ID,
					})
				}
			}
		}
		if _, err := ts.artifactRepo.Create(ctx, tx, newArtifacts); err != nil {
			return fmt.Errorf("Failed to seed artifacts: %w", err)
		}
		if _, err := ts.subArtifactRepo.Create(ctx, tx, newSubArtifacts); err != nil {
			return fmt.Errorf("Failed to seed sub-artifacts: %w", err)
		}

		ts.log.Info("Seeded taxonomy reference data",
			"zones", len(newZones),
			"sections", len(newSections),
			"artifacts", len(newArtifacts),
			"subArtifacts", len(newSubArtifacts))
		return nil
	})
}

// ChildLoader adapts the hierarchy reads to the cascading selection machine.
func (ts *tmfService) ChildLoader() selection.ChildLoader {
	return &tmfChildLoader{svc: ts}
}

type tmfChildLoader struct {
	svc *tmfService
}

func (l *tmfChildLoader) Sections(ctx context.Context, zoneID uuid.UUID) ([]selection.Node, error) {
	sections, err := l.svc.GetSectionsByZone(ctx, zoneID)
	if err != nil {
		return nil, err
	}
	nodes := make([]selection.Node, 0, len(sections))
	for _, s := range sections {
		nodes = append(nodes, selection.Node{ID: s.ID, Number: s.SectionNumber, Name: s.SectionName})
	}
	return nodes, nil
}

func (l *tmfChildLoader) Artifacts(ctx context.Context, sectionID uuid.UUID) ([]selection.Node, error) {
	artifacts, err := l.svc.GetArtifactsBySection(ctx, sectionID)
	if err != nil {
		return nil, err
	}
	nodes := make([]selection.Node, 0, len(artifacts))
	for _, a := range artifacts {
		nodes = append(nodes, selection.Node{ID: a.ID, Number: a.ArtifactNumber, Name: a.ArtifactName})
	}
	return nodes, nil
}

func (l *tmfChildLoader) SubArtifacts(ctx context.Context, artifactID uuid.UUID) ([]selection.Node, error) {
	subArtifacts, err := l.svc.GetSubArtifactsByArtifact(ctx, artifactID)
	if err != nil {
		return nil, err
	}
	nodes := make([]selection.Node, 0, len(subArtifacts))
	for _, sa := range subArtifacts {
		nodes = append(nodes, selection.Node{ID: sa.ID, Name: sa.Name})
	}
	return nodes, nil
}

// ResolveFields routes one form edit through the hierarchy resolver.
func (ts *tmfService) ResolveFields(f *taxonomy.FormFields, level, value string) error {
	switch level {
	case "zone":
		return ts.resolver.ApplyZoneNumber(f, value)
	case "section":
		return ts.resolver.ApplySectionNumber(f, value)
	case "artifact":
		return ts.resolver.ApplyArtifactNumber(f, value)
	case "subArtifact":
		return ts.resolver.ApplySubArtifactName(f, value)
	default:
		return fmt.Errorf("unknown taxonomy level %q", level)
	}
}
