package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clinovara/tmf-backend/internal/services"
)

type FacilityHandler struct {
	facilityService services.FacilityService
}

func NewFacilityHandler(facilityService services.FacilityService) *FacilityHandler {
	return &FacilityHandler{facilityService: facilityService}
}

func (fh *FacilityHandler) List(c *gin.Context) {
	facilities, err := fh.facilityService.GetFacilities(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_facilities_failed", err)
		return
	}
	RespondOK(c, facilities)
}

func (fh *FacilityHandler) Create(c *gin.Context) {
	var req struct {
		Name       string `json:"name" binding:"required"`
		SiteType   string `json:"site_type"`
		Address    string `json:"address"`
		City       string `json:"city"`
		State      string `json:"state"`
		Country    string `json:"country"`
		PostalCode string `json:"postal_code"`
		NPI        string `json:"npi"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	facility, err := fh.facilityService.CreateFacility(c.Request.Context(), services.CreateFacilityInput{
		Name:       req.Name,
		SiteType:   req.SiteType,
		Address:    req.Address,
		City:       req.City,
		State:      req.State,
		Country:    req.Country,
		PostalCode: req.PostalCode,
		NPI:        req.NPI,
	})
	if err != nil {
		RespondError(c, http.StatusBadRequest, "create_facility_failed", err)
		return
	}
	RespondOK(c, facility)
}

func (fh *FacilityHandler) Get(c *gin.Context) {
	facilityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	facility, err := fh.facilityService.GetFacility(c.Request.Context(), facilityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			RespondError(c, http.StatusNotFound, "not_found", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "get_facility_failed", err)
		return
	}
	RespondOK(c, facility)
}

func (fh *FacilityHandler) Update(c *gin.Context) {
	facilityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	facility, err := fh.facilityService.GetFacility(c.Request.Context(), facilityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			RespondError(c, http.StatusNotFound, "not_found", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "get_facility_failed", err)
		return
	}
	var req struct {
		Name       *string `json:"name"`
		SiteType   *string `json:"site_type"`
		Address    *string `json:"address"`
		City       *string `json:"city"`
		State      *string `json:"state"`
		Country    *string `json:"country"`
		PostalCode *string `json:"postal_code"`
		NPI        *string `json:"npi"`
		Status     *string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if req.Name != nil {
		facility.Name = *req.Name
	}
	if req.SiteType != nil {
		facility.SiteType = *req.SiteType
	}
	if req.Address != nil {
		facility.Address = *req.Address
	}
	if req.City != nil {
		facility.City = *req.City
	}
	if req.State != nil {
		facility.State = *req.State
	}
	if req.Country != nil {
		facility.Country = *req.Country
	}
	if req.PostalCode != nil {
		facility.PostalCode = *req.PostalCode
	}
	if req.NPI != nil {
		facility.NPI = *req.NPI
	}
	if req.Status != nil {
		facility.Status = *req.Status
	}
	updated, err := fh.facilityService.UpdateFacility(c.Request.Context(), facility)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "update_facility_failed", err)
		return
	}
	RespondOK(c, updated)
}

func (fh *FacilityHandler) Delete(c *gin.Context) {
	facilityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := fh.facilityService.DeleteFacility(c.Request.Context(), facilityID); err != nil {
		RespondError(c, http.StatusInternalServerError, "delete_facility_failed", err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}
