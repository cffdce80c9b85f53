package api

import (
	"errors"
	"net/http"

	"LetterHunt/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// writeServiceError maps the domain error taxonomy onto HTTP statuses.
// Anything unrecognized is a dependency failure: 500 with a generic
// message, details only in the log.
func writeServiceError(c *gin.Context, logger *logrus.Logger, err error) {
	var vErr *service.ValidationError
	var cErr *service.ConflictError
	var nfErr *service.NotFoundError
	switch {
	case errors.As(err, &vErr):
		status := http.StatusBadRequest
		switch vErr.Code {
		case service.CodePayloadTooLarge:
			status = http.StatusRequestEntityTooLarge
		case service.CodeUnsupportedMedia:
			status = http.StatusUnsupportedMediaType
		}
		c.JSON(status, gin.H{"error": vErr.Message})
	case errors.As(err, &cErr):
		body := gin.H{"error": cErr.Message}
		if cErr.ExistingWinner != nil {
			body["existing_winner"] = cErr.ExistingWinner
		}
		c.JSON(http.StatusBadRequest, body)
	case errors.As(err, &nfErr):
		c.JSON(http.StatusNotFound, gin.H{"error": nfErr.Error()})
	default:
		logger.WithError(err).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
