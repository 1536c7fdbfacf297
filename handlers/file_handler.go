package handlers

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strings"

	"admitcheck-backend/models"
	"admitcheck-backend/repository"
	"admitcheck-backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// FileHandler handles HTTP requests for exhibit file operations
type FileHandler struct {
	fileRepo         *repository.FileRepository
	assessmentRepo   *repository.AssessmentRepository
	storage          storage.Storage
	maxFileSize      int64
	allowedMimeTypes map[string]bool
}

// NewFileHandler creates a new file handler
func NewFileHandler(fileRepo *repository.FileRepository, assessmentRepo *repository.AssessmentRepository, storage storage.Storage) *FileHandler {
	return &FileHandler{
		fileRepo:       fileRepo,
		assessmentRepo: assessmentRepo,
		storage:        storage,
		maxFileSize:    25 * 1024 * 1024, // 25MB
		allowedMimeTypes: map[string]bool{
			"application/pdf":    true,
			"image/png":          true,
			"image/jpeg":         true,
			"text/plain":         true,
			"message/rfc822":     true, // .eml
			"application/msword": true, // .doc
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true, // .docx
		},
	}
}

// UploadFile handles POST /api/files/upload
func (h *FileHandler) UploadFile(c *gin.Context) {
	assessmentIDStr := c.PostForm("assessment_id")
	var assessmentID *uuid.UUID
	var userID uuid.UUID

	if assessmentIDStr != "" {
		aid, err := uuid.Parse(assessmentIDStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_ASSESSMENT_ID",
					"message": "Invalid assessment_id format",
				},
			})
			return
		}
		assessmentID = &aid

		// Get assessment to retrieve user_id
		assessment, err := h.assessmentRepo.GetByID(c.Request.Context(), aid)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ASSESSMENT_NOT_FOUND",
					"message": "Assessment not found",
				},
			})
			return
		}
		userID = assessment.UserID
	} else {
		// If no assessment_id, require user_id in form
		userIDStr := c.PostForm("user_id")
		if userIDStr == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "MISSING_USER_ID",
					"message": "Either assessment_id or user_id is required",
				},
			})
			return
		}
		uid, err := uuid.Parse(userIDStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_USER_ID",
					"message": "Invalid user_id format",
				},
			})
			return
		}
		userID = uid
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_FILE",
				"message": "File is required",
			},
		})
		return
	}

	if fileHeader.Size > h.maxFileSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FILE_TOO_LARGE",
				"message": fmt.Sprintf("File size exceeds maximum of %d bytes", h.maxFileSize),
			},
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FILE_OPEN_ERROR",
				"message": err.Error(),
			},
		})
		return
	}
	defer file.Close()

	mimeType := detectMimeType(fileHeader.Header.Get("Content-Type"), fileHeader.Filename)

	if !h.allowedMimeTypes[mimeType] && !strings.HasPrefix(mimeType, "text/") {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_FILE_TYPE",
				"message": "File type not allowed. Allowed types: PDF, PNG, JPEG, TXT, EML, DOC, DOCX",
			},
		})
		return
	}

	// Read into memory to compute the content digest before upload.
	// The size cap above bounds this read.
	content, err := io.ReadAll(io.LimitReader(file, h.maxFileSize+1))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FILE_READ_ERROR",
				"message": err.Error(),
			},
		})
		return
	}

	digest := sha256.Sum256(content)
	sha := hex.EncodeToString(digest[:])

	fileID := uuid.New()

	storagePath, err := h.storage.Upload(c.Request.Context(), fileID, fileHeader.Filename, bytes.NewReader(content))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_FAILED",
				"message": fmt.Sprintf("Failed to upload file: %v", err),
			},
		})
		return
	}

	fileRecord := &models.File{
		ID:           fileID,
		UserID:       userID,
		AssessmentID: assessmentID,
		Filename:     fileHeader.Filename,
		MimeType:     mimeType,
		Size:         int64(len(content)),
		StoragePath:  storagePath,
		Sha256:       sha,
	}

	err = h.fileRepo.Create(c.Request.Context(), fileRecord)
	if err != nil {
		// Try to clean up uploaded file
		h.storage.Delete(c.Request.Context(), storagePath)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": fmt.Sprintf("Failed to save file record: %v", err),
			},
		})
		return
	}

	// The digest is returned so the client can record it as the
	// evidence item's hashValue metadata
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"id":         fileRecord.ID,
			"filename":   fileRecord.Filename,
			"mime_type":  fileRecord.MimeType,
			"size":       fileRecord.Size,
			"sha256":     fileRecord.Sha256,
			"created_at": fileRecord.CreatedAt,
		},
	})
}

// detectMimeType falls back to extension sniffing when the client
// did not send a Content-Type
func detectMimeType(declared, filename string) string {
	if declared != "" {
		return declared
	}

	switch {
	case hasExt(filename, ".pdf"):
		return "application/pdf"
	case hasExt(filename, ".png"):
		return "image/png"
	case hasExt(filename, ".jpg"), hasExt(filename, ".jpeg"):
		return "image/jpeg"
	case hasExt(filename, ".txt"):
		return "text/plain"
	case hasExt(filename, ".eml"):
		return "message/rfc822"
	case hasExt(filename, ".doc"):
		return "application/msword"
	case hasExt(filename, ".docx"):
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "application/octet-stream"
	}
}

func hasExt(filename, ext string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ext)
}

// GetFile handles GET /api/files/:id
func (h *FileHandler) GetFile(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid file ID format",
			},
		})
		return
	}

	file, err := h.fileRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "File not found",
			},
		})
		return
	}

	reader, err := h.storage.Download(c.Request.Context(), file.StoragePath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DOWNLOAD_FAILED",
				"message": fmt.Sprintf("Failed to download file: %v", err),
			},
		})
		return
	}
	defer reader.Close()

	c.Header("Content-Type", file.MimeType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", file.Filename))
	c.DataFromReader(http.StatusOK, file.Size, file.MimeType, reader, nil)
}
