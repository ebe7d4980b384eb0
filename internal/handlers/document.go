package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clinovara/tmf-backend/internal/repos"
	"github.com/clinovara/tmf-backend/internal/requestdata"
	"github.com/clinovara/tmf-backend/internal/services"
	"github.com/clinovara/tmf-backend/internal/taxonomy"
	"github.com/clinovara/tmf-backend/internal/wizard"
)

type DocumentHandler struct {
	documentService services.DocumentService
	packageService  services.PackageService
}

func NewDocumentHandler(documentService services.DocumentService, packageService services.PackageService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService, packageService: packageService}
}

func (dh *DocumentHandler) List(c *gin.Context) {
	filter := repos.DocumentFilter{
		Status:         c.Query("status"),
		DocumentType:   c.Query("document_type"),
		ZoneNumber:     c.Query("zone_number"),
		SectionNumber:  c.Query("section_number"),
		ArtifactNumber: c.Query("artifact_number"),
		Study:          c.Query("study"),
		Country:        c.Query("country"),
	}
	documents, err := dh.documentService.ListDocuments(c.Request.Context(), filter)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_documents_failed", err)
		return
	}
	RespondOK(c, documents)
}

func (dh *DocumentHandler) Get(c *gin.Context) {
	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	document, err := dh.documentService.GetDocument(c.Request.Context(), documentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			RespondError(c, http.StatusNotFound, "not_found", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "get_document_failed", err)
		return
	}
	RespondOK(c, document)
}

// Create accepts a multipart form: the file under "file" plus metadata
// fields. The file guard runs before anything is stored.
func (dh *DocumentHandler) Create(c *gin.Context) {
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

	rd := requestdata.GetRequestData(c.Request.Context())
	input := services.CreateDocumentInput{
		DocumentTitle:   c.PostForm("document_title"),
		Description:     c.PostForm("description"),
		Version:         c.PostForm("version"),
		DocumentType:    c.PostForm("document_type"),
		ArtifactNumber:  c.PostForm("artifact_number"),
		SubArtifactName: c.PostForm("sub_artifact_name"),
		Study:           c.PostForm("study"),
		Country:         c.PostForm("country"),
		Site:            c.PostForm("site"),
		Author:          c.PostForm("author"),
		AccessLevel:     c.PostForm("access_level"),
		FileName:        fileHeader.Filename,
		FileSize:        fileHeader.Size,
		ContentType:     fileHeader.Header.Get("Content-Type"),
		File:            file,
	}
	if rd != nil {
		input.UploadedBy = rd.UserID
	}

	document, err := dh.documentService.CreateDocument(c.Request.Context(), input)
	if err != nil {
		RespondError(c, documentStatus(err), "create_document_failed", err)
		return
	}
	RespondOK(c, document)
}

func (dh *DocumentHandler) UpdateStatus(c *gin.Context) {
	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	document, err := dh.documentService.UpdateStatus(c.Request.Context(), documentID, req.Status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			RespondError(c, http.StatusNotFound, "not_found", err)
			return
		}
		RespondError(c, http.StatusBadRequest, "update_status_failed", err)
		return
	}
	RespondOK(c, document)
}

func (dh *DocumentHandler) Delete(c *gin.Context) {
	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := dh.documentService.DeleteDocument(c.Request.Context(), documentID); err != nil {
		RespondError(c, http.StatusInternalServerError, "delete_document_failed", err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}

// Import adds an existing document to a regulatory package.
func (dh *DocumentHandler) Import(c *gin.Context) {
	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req struct {
		PackageID uuid.UUID `json:"package_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	var userID uuid.UUID
	if rd := requestdata.GetRequestData(c.Request.Context()); rd != nil {
		userID = rd.UserID
	}
	pkg, err := dh.packageService.AddDocuments(c.Request.Context(), req.PackageID, []uuid.UUID{documentID}, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			RespondError(c, http.StatusNotFound, "not_found", err)
			return
		}
		RespondError(c, http.StatusBadRequest, "import_failed", err)
		return
	}
	RespondOK(c, pkg)
}

func documentStatus(err error) int {
	switch {
	case errors.Is(err, wizard.ErrFileTooLarge),
		errors.Is(err, wizard.ErrUnsupportedFormat),
		errors.Is(err, taxonomy.ErrUnknownCode):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
