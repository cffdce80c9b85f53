package api

import (
	"fmt"
	"net/http"
	"strconv"

	"LetterHunt/internal/repository"
	"LetterHunt/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AdminHandler serves the review side of the contest: game state,
// letter rotation, submission listing and the approve/reject decision.
type AdminHandler struct {
	state       *service.GameStateService
	arbitration *service.ArbitrationService
	submissions repository.SubmissionRepository
	logger      *logrus.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(
	state *service.GameStateService,
	arbitration *service.ArbitrationService,
	submissions repository.SubmissionRepository,
	logger *logrus.Logger,
) *AdminHandler {
	return &AdminHandler{
		state:       state,
		arbitration: arbitration,
		submissions: submissions,
		logger:      logger,
	}
}

// GetState returns the active game state. GET /api/admin/state
func (h *AdminHandler) GetState(c *gin.Context) {
	state, err := h.state.Current(c.Request.Context())
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	if state == nil {
		c.JSON(http.StatusOK, gin.H{"current_letter": nil, "is_active": 0})
		return
	}
	c.JSON(http.StatusOK, state)
}

type setLetterRequest struct {
	Letter string `json:"letter"`
}

// SetLetter rotates the game to a new letter. POST /api/admin/set-letter
func (h *AdminHandler) SetLetter(c *gin.Context) {
	var req setLetterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	state, err := h.state.Rotate(c.Request.Context(), req.Letter)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"current_letter": state.CurrentLetter,
		"message":        fmt.Sprintf("Game letter set to %s", state.CurrentLetter),
	})
}

// ListSubmissions lists submissions newest first, optionally filtered
// by status. GET /api/admin/submissions?status=pending
func (h *AdminHandler) ListSubmissions(c *gin.Context) {
	list, err := h.submissions.ListByStatus(c.Request.Context(), c.Query("status"))
	if err != nil {
		h.logger.WithError(err).Error("list submissions failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetSubmission returns one submission. GET /api/admin/submission/:id
func (h *AdminHandler) GetSubmission(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid submission id"})
		return
	}
	sub, err := h.submissions.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return
	}
	c.JSON(http.StatusOK, sub)
}

type decisionRequest struct {
	Approved *bool   `json:"approved"`
	Notes    *string `json:"notes"`
}

// Decide approves or rejects a submission.
// POST /api/admin/submission/:id/approve
//
// A failed reward dispatch still returns 200: the approval is final,
// only the payout is reported as pending via nft_error.
func (h *AdminHandler) Decide(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid submission id"})
		return
	}
	var req decisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	if req.Approved == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "approved field is required"})
		return
	}

	result, err := h.arbitration.Decide(c.Request.Context(), id, *req.Approved, req.Notes)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}

	if result.Winner == nil {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Submission rejected"})
		return
	}
	if result.RewardErr != nil {
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"message":   "Submission approved and winner declared, but NFT distribution failed",
			"winner_id": result.Winner.ID,
			"nft_error": result.RewardErr.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Submission approved and winner declared!",
		"winner_id":  result.Winner.ID,
		"nft_reward": result.RewardReceipt,
	})
}
