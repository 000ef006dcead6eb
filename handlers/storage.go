package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// UploadProfileImage handles POST /api/interviewers/me/image (multipart "file").
func (h *InterviewerHandler) UploadProfileImage(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file not provided", "details": err.Error()})
		return
	}
	if fileHeader.Size > maxImageBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image must be at most 5MB"})
		return
	}
	contentType := strings.ToLower(fileHeader.Header.Get("Content-Type"))
	if !allowedImageTypes[contentType] {
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "only jpeg, png and webp images are accepted"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file", "details": err.Error()})
		return
	}
	defer file.Close()

	iv, err := h.Svc.UploadProfileImage(c.Request.Context(), currentUser(c), file)
	if err != nil {
		h.Logger.Error("Profile image upload failed", zap.String("interviewerID", currentUser(c)), zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, iv)
}
