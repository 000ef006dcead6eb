package handlers

import (
	"net/http"

	"interviewhub/models"
	"interviewhub/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxResumeBytes = 10 << 20

// CandidateHandler serves the signed-in candidate's own profile.
type CandidateHandler struct {
	Svc    CandidateService
	Logger *zap.Logger
}

func NewCandidateHandler(svc CandidateService, logger *zap.Logger) *CandidateHandler {
	return &CandidateHandler{Svc: svc, Logger: logger}
}

// GetProfile handles GET /api/candidates/me.
func (h *CandidateHandler) GetProfile(c *gin.Context) {
	cand, err := h.Svc.GetCandidate(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cand)
}

// UpsertProfile handles PUT /api/candidates/me. Sending fcmToken registers
// the device for booking reminders.
func (h *CandidateHandler) UpsertProfile(c *gin.Context) {
	var input models.CandidateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	cand, err := h.Svc.UpsertProfile(c.Request.Context(), currentUser(c), c.GetString(utils.ContextEmail), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cand)
}

// UploadResume handles POST /api/candidates/me/resume (multipart "file", PDF).
func (h *CandidateHandler) UploadResume(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file not provided", "details": err.Error()})
		return
	}
	if fileHeader.Size > maxResumeBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "resume must be at most 10MB"})
		return
	}
	if fileHeader.Header.Get("Content-Type") != "application/pdf" {
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "resume must be a PDF"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file", "details": err.Error()})
		return
	}
	defer file.Close()

	cand, err := h.Svc.UploadResume(c.Request.Context(), currentUser(c), file)
	if err != nil {
		h.Logger.Error("Resume upload failed", zap.String("candidateID", currentUser(c)), zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cand)
}
