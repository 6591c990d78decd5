package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/hr-operations-api/internal/constants"
	apierrors "github.com/yukikurage/hr-operations-api/internal/errors"
	"github.com/yukikurage/hr-operations-api/internal/services"
)

type DocumentHandler struct {
	service *services.DocumentService
	log     logrus.FieldLogger
}

func NewDocumentHandler(service *services.DocumentService, log logrus.FieldLogger) *DocumentHandler {
	return &DocumentHandler{service: service, log: log}
}

func (h *DocumentHandler) ListFolders(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	folders, err := h.service.ListFolders(c.Request.Context(), actor)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"folders": folders})
}

func (h *DocumentHandler) CreateFolder(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	type CreateFolderRequest struct {
		Name       string  `json:"name" binding:"required"`
		EmployeeID *uint64 `json:"employee_id"`
	}

	var req CreateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	folder, err := h.service.CreateFolder(c.Request.Context(), actor, services.CreateFolderInput{
		Name:       req.Name,
		EmployeeID: req.EmployeeID,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, folder)
}

func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	folderID, ok := parseIDParam(c, "id", "Invalid folder ID")
	if !ok {
		return
	}

	documents, err := h.service.ListDocuments(c.Request.Context(), actor, folderID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"documents": documents})
}

// UploadDocument stores the multipart "file" field in the folder
func (h *DocumentHandler) UploadDocument(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	folderID, ok := parseIDParam(c, "id", "Invalid folder ID")
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, constants.MaxUploadSize+1<<20)
	fileHeader, err := c.FormFile("file")
	if err != nil {
		apierrors.BadRequest(c, "file is required")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		apierrors.BadRequest(c, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	document, err := h.service.Upload(c.Request.Context(), actor, folderID, services.UploadInput{
		Name:        fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Body:        file,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, document)
}

func (h *DocumentHandler) DownloadDocument(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", "Invalid document ID")
	if !ok {
		return
	}

	document, body, err := h.service.Open(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	defer body.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", document.Name))
	c.DataFromReader(http.StatusOK, document.Size, document.ContentType, body, nil)
}

func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", "Invalid document ID")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), actor, id); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.Status(http.StatusNoContent)
}
