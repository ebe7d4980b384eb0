package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clinovara/tmf-backend/internal/services"
)

type ValidationHandler struct {
	validationService services.ValidationService
}

func NewValidationHandler(validationService services.ValidationService) *ValidationHandler {
	return &ValidationHandler{validationService: validationService}
}

func (vh *ValidationHandler) Validate(c *gin.Context) {
	var req struct {
		DocumentID   uuid.UUID `json:"documentId" binding:"required"`
		DocumentType string    `json:"documentType"`
		TargetAgency string    `json:"targetAgency"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	result, err := vh.validationService.ValidateDocument(c.Request.Context(), req.DocumentID, req.DocumentType, req.TargetAgency)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			RespondError(c, http.StatusNotFound, "not_found", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "validate_failed", err)
		return
	}
	RespondOK(c, result)
}

func (vh *ValidationHandler) History(c *gin.Context) {
	documentID, err := uuid.Parse(c.Param("documentId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	history, err := vh.validationService.GetHistory(c.Request.Context(), documentID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "history_failed", err)
		return
	}
	RespondOK(c, history)
}

func (vh *ValidationHandler) ValidatePackage(c *gin.Context) {
	pkgID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	targetAgency := c.Query("targetAgency")
	result, err := vh.validationService.ValidatePackage(c.Request.Context(), pkgID, targetAgency)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			RespondError(c, http.StatusNotFound, "not_found", err)
			return
		}
		RespondError(c, http.StatusBadRequest, "validate_package_failed", err)
		return
	}
	RespondOK(c, result)
}
