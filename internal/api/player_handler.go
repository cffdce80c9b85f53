package api

import (
	"io"
	"net/http"
	"path/filepath"

	"LetterHunt/internal/repository"
	"LetterHunt/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// PlayerHandler serves the player side: the letter to hunt for,
// uploading a submission and reviewing past attempts.
type PlayerHandler struct {
	state       *service.GameStateService
	intake      *service.IntakeService
	submissions repository.SubmissionRepository
	logger      *logrus.Logger
}

// NewPlayerHandler creates a PlayerHandler.
func NewPlayerHandler(
	state *service.GameStateService,
	intake *service.IntakeService,
	submissions repository.SubmissionRepository,
	logger *logrus.Logger,
) *PlayerHandler {
	return &PlayerHandler{
		state:       state,
		intake:      intake,
		submissions: submissions,
		logger:      logger,
	}
}

// CurrentLetter returns the letter currently open for submissions.
// GET /api/player/current-letter
func (h *PlayerHandler) CurrentLetter(c *gin.Context) {
	state, err := h.state.Current(c.Request.Context())
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	if state == nil {
		c.JSON(http.StatusOK, gin.H{"letter": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"letter": state.CurrentLetter})
}

// Submit accepts a multipart photo upload. POST /api/player/submit
// Form fields: image (file), playerName, playerWallet (optional),
// submissionName, letter.
func (h *PlayerHandler) Submit(c *gin.Context) {
	req := &service.SubmitRequest{
		PlayerName:     c.PostForm("playerName"),
		PlayerWallet:   c.PostForm("playerWallet"),
		SubmissionName: c.PostForm("submissionName"),
		Letter:         c.PostForm("letter"),
	}

	if file, err := c.FormFile("image"); err == nil {
		src, err := file.Open()
		if err != nil {
			h.logger.WithError(err).Error("open uploaded file failed")
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded image"})
			return
		}
		defer src.Close()
		data, err := io.ReadAll(src)
		if err != nil {
			h.logger.WithError(err).Error("read uploaded file failed")
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded image"})
			return
		}
		req.ImageBytes = data
		req.ImageMimeType = file.Header.Get("Content-Type")
		req.ImageExt = filepath.Ext(file.Filename)
	}

	sub, err := h.intake.Submit(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       "Submission received! Waiting for admin approval.",
		"submission_id": sub.ID,
	})
}

// ListSubmissions lists one player's submissions newest first.
// GET /api/player/submissions?playerName=
func (h *PlayerHandler) ListSubmissions(c *gin.Context) {
	playerName := c.Query("playerName")
	if playerName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "playerName query parameter required"})
		return
	}
	list, err := h.submissions.ListByPlayer(c.Request.Context(), playerName)
	if err != nil {
		h.logger.WithError(err).Error("list player submissions failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, list)
}
