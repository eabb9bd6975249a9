package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ozgur/courier/internal/app/models/dto"
	"github.com/ozgur/courier/internal/middleware"
	"github.com/ozgur/courier/internal/pkg/apperrors"
	"github.com/ozgur/courier/internal/pkg/filestorage"
)

// FileController handles file uploads. Uploads are stored immediately; the
// returned reference is what clients attach to messages.
type FileController struct {
	storage     filestorage.Storage
	maxFileSize int64
}

// NewFileController creates a new FileController
func NewFileController(storage filestorage.Storage, maxFileSize int64) *FileController {
	return &FileController{
		storage:     storage,
		maxFileSize: maxFileSize,
	}
}

// UploadFile stores the uploaded file and returns its reference
func (ctrl *FileController) UploadFile(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		middleware.HandleAPIError(c, apperrors.NewBadRequestError("a file form field is required"))
		return
	}

	if fileHeader.Size > ctrl.maxFileSize {
		middleware.HandleAPIError(c, apperrors.NewBadRequestError("file exceeds the size limit"))
		return
	}

	stored, err := ctrl.storage.Save(fileHeader)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	response := dto.FileUploadResponse{
		URL:       stored.URL,
		Filename:  stored.Filename,
		MimeType:  stored.MimeType,
		SizeBytes: stored.SizeBytes,
	}

	c.JSON(http.StatusCreated, dto.NewSuccessResponse(response))
}
