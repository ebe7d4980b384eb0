package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinovara/tmf-backend/internal/services"
	"github.com/clinovara/tmf-backend/internal/taxonomy"
	"github.com/clinovara/tmf-backend/internal/types"
)

type TMFHandler struct {
	tmfService services.TMFService
}

func NewTMFHandler(tmfService services.TMFService) *TMFHandler {
	return &TMFHandler{tmfService: tmfService}
}

func (th *TMFHandler) GetZones(c *gin.Context) {
	zones, err := th.tmfService.GetZones(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "zones_failed", err)
		return
	}
	RespondOK(c, zones)
}

func (th *TMFHandler) GetSections(c *gin.Context) {
	zoneID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	sections, err := th.tmfService.GetSectionsByZone(c.Request.Context(), zoneID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "sections_failed", err)
		return
	}
	RespondOK(c, sections)
}

func (th *TMFHandler) GetArtifacts(c *gin.Context) {
	sectionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	artifacts, err := th.tmfService.GetArtifactsBySection(c.Request.Context(), sectionID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "artifacts_failed", err)
		return
	}
	RespondOK(c, artifacts)
}

func (th *TMFHandler) GetSubArtifacts(c *gin.Context) {
	artifactID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	subArtifacts, err := th.tmfService.GetSubArtifactsByArtifact(c.Request.Context(), artifactID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "sub_artifacts_failed", err)
		return
	}
	RespondOK(c, subArtifacts)
}

func (th *TMFHandler) CreateZone(c *gin.Context) {
	var req struct {
		ZoneNumber string `json:"zone_number" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	zone, err := th.tmfService.CreateZone(c.Request.Context(), &types.Zone{ZoneNumber: req.ZoneNumber})
	if err != nil {
		RespondError(c, taxonomyStatus(err), "create_zone_failed", err)
		return
	}
	RespondOK(c, zone)
}

func (th *TMFHandler) CreateSection(c *gin.Context) {
	var req struct {
		SectionNumber string `json:"section_number" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	section, err := th.tmfService.CreateSection(c.Request.Context(), &types.Section{SectionNumber: req.SectionNumber})
	if err != nil {
		RespondError(c, taxonomyStatus(err), "create_section_failed", err)
		return
	}
	RespondOK(c, section)
}

func (th *TMFHandler) CreateArtifact(c *gin.Context) {
	var req struct {
		ArtifactNumber string `json:"artifact_number" binding:"required"`
		Mandatory      bool   `json:"mandatory"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	artifact, err := th.tmfService.CreateArtifact(c.Request.Context(), &types.Artifact{
		ArtifactNumber: req.ArtifactNumber,
		Mandatory:      req.Mandatory,
	})
	if err != nil {
		RespondError(c, taxonomyStatus(err), "create_artifact_failed", err)
		return
	}
	RespondOK(c, artifact)
}

func (th *TMFHandler) CreateSubArtifact(c *gin.Context) {
	var req struct {
		ArtifactID uuid.UUID `json:"artifact_id" binding:"required"`
		Name       string    `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	subArtifact, err := th.tmfService.CreateSubArtifact(c.Request.Context(), &types.SubArtifact{
		ArtifactID: req.ArtifactID,
		Name:       req.Name,
	})
	if err != nil {
		RespondError(c, taxonomyStatus(err), "create_sub_artifact_failed", err)
		return
	}
	RespondOK(c, subArtifact)
}

// Unknown taxonomy codes are caller mistakes, not server faults.
func taxonomyStatus(err error) int {
	if errors.Is(err, taxonomy.ErrUnknownCode) {
		return http.StatusBadRequest
	}
	return http.StatusUnprocessableEntity
}
