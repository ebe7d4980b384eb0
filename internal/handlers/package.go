package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clinovara/tmf-backend/internal/requestdata"
	"github.com/clinovara/tmf-backend/internal/services"
)

type PackageHandler struct {
	packageService  services.PackageService
	documentService services.DocumentService
}

func NewPackageHandler(packageService services.PackageService, documentService services.DocumentService) *PackageHandler {
	return &PackageHandler{packageService: packageService, documentService: documentService}
}

func (ph *PackageHandler) List(c *gin.Context) {
	pkgs, err := ph.packageService.GetPackages(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_packages_failed", err)
		return
	}
	RespondOK(c, pkgs)
}

func (ph *PackageHandler) Create(c *gin.Context) {
	var req struct {
		Country  string `json:"country" binding:"required"`
		FlagCode string `json:"flag_code"`
		Type     string `json:"type"`
		Priority string `json:"priority"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	input := services.CreatePackageInput{
		Country:  req.Country,
		FlagCode: req.FlagCode,
		Type:     req.Type,
		Priority: req.Priority,
	}
	if rd := requestdata.GetRequestData(c.Request.Context()); rd != nil {
		input.CreatedBy = rd.UserID
	}
	pkg, err := ph.packageService.CreatePackage(c.Request.Context(), input)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "create_package_failed", err)
		return
	}
	RespondOK(c, pkg)
}

func (ph *PackageHandler) Get(c *gin.Context) {
	pkgID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	pkg, err := ph.packageService.GetPackage(c.Request.Context(), pkgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			RespondError(c, http.StatusNotFound, "not_found", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "get_package_failed", err)
		return
	}
	RespondOK(c, pkg)
}

func (ph *PackageHandler) Update(c *gin.Context) {
	pkgID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req struct {
		Country  *string `json:"country"`
		FlagCode *string `json:"flag_code"`
		Type     *string `json:"type"`
		Priority *string `json:"priority"`
		Status   *string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	var userID uuid.UUID
	if rd := requestdata.GetRequestData(c.Request.Context()); rd != nil {
		userID = rd.UserID
	}
	pkg, err := ph.packageService.UpdatePackage(c.Request.Context(), pkgID, services.UpdatePackageInput{
		Country:  req.Country,
		FlagCode: req.FlagCode,
		Type:     req.Type,
		Priority: req.Priority,
		Status:   req.Status,
	}, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			RespondError(c, http.StatusNotFound, "not_found", err)
			return
		}
		RespondError(c, http.StatusBadRequest, "update_package_failed", err)
		return
	}
	RespondOK(c, pkg)
}

func (ph *PackageHandler) Delete(c *gin.Context) {
	pkgID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := ph.packageService.DeletePackage(c.Request.Context(), pkgID); err != nil {
		RespondError(c, http.StatusInternalServerError, "delete_package_failed", err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}

// AddDocument uploads a new file straight into a package: the document is
// created first, then linked.
func (ph *PackageHandler) AddDocument(c *gin.Context) {
	pkgID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "missing_file", err)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "unreadable_file", err)
		return
	}
	defer file.Close()

	var userID uuid.UUID
	if rd := requestdata.GetRequestData(c.Request.Context()); rd != nil {
		userID = rd.UserID
	}
	document, err := ph.documentService.CreateDocument(c.Request.Context(), services.CreateDocumentInput{
		DocumentTitle:   c.PostForm("document_title"),
		DocumentType:    c.PostForm("document_type"),
		ArtifactNumber:  c.PostForm("artifact_number"),
		SubArtifactName: c.PostForm("sub_artifact_name"),
		Country:         c.PostForm("country"),
		UploadedBy:      userID,
		FileName:        fileHeader.Filename,
		FileSize:        fileHeader.Size,
		ContentType:     fileHeader.Header.Get("Content-Type"),
		File:            file,
	})
	if err != nil {
		RespondError(c, documentStatus(err), "create_document_failed", err)
		return
	}
	pkg, err := ph.packageService.AddDocuments(c.Request.Context(), pkgID, []uuid.UUID{document.ID}, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			RespondError(c, http.StatusNotFound, "not_found", err)
			return
		}
		RespondError(c, http.StatusBadRequest, "add_document_failed", err)
		return
	}
	RespondOK(c, pkg)
}

func (ph *PackageHandler) RemoveDocument(c *gin.Context) {
	pkgID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	documentID, err := uuid.Parse(c.Param("documentId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := ph.packageService.RemoveDocument(c.Request.Context(), pkgID, documentID); err != nil {
		RespondError(c, http.StatusInternalServerError, "remove_document_failed", err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}

func (ph *PackageHandler) Submit(c *gin.Context) {
	pkgID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var userID uuid.UUID
	if rd := requestdata.GetRequestData(c.Request.Context()); rd != nil {
		userID = rd.UserID
	}
	pkg, err := ph.packageService.SubmitPackage(c.Request.Context(), pkgID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			RespondError(c, http.StatusNotFound, "not_found", err)
			return
		}
		RespondError(c, http.StatusConflict, "submit_failed", err)
		return
	}
	RespondOK(c, pkg)
}
