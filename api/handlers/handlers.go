package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"meetnotes/dto"
	"meetnotes/logger"
	"meetnotes/models"
	"meetnotes/services"
)

// TranscriptService is the operation surface the handlers depend on.
type TranscriptService interface {
	Create(ctx context.Context, in services.CreateTranscriptInput) (*models.Transcript, error)
	List(ctx context.Context) ([]models.Transcript, error)
	Get(ctx context.Context, id string) (*models.Transcript, error)
	GenerateSummary(ctx context.Context, id string) (*models.Transcript, error)
	SaveSummary(ctx context.Context, id, editedSummary string) (*models.Transcript, error)
	SendSummary(ctx context.Context, id string, in services.SendSummaryInput) (*services.SendResult, error)
	Delete(ctx context.Context, id string) error
}

// CreateTranscriptHandler handles POST /api/transcripts.
func CreateTranscriptHandler(svc TranscriptService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.CreateTranscriptRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "invalid JSON body"})
			return
		}

		t, err := svc.Create(c.Request.Context(), services.CreateTranscriptInput{
			Title:        req.Title,
			OriginalText: req.OriginalText,
			CustomPrompt: req.CustomPrompt,
		})
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewTranscriptDTO(*t))
	}
}

// ListTranscriptsHandler handles GET /api/transcripts.
func ListTranscriptsHandler(svc TranscriptService) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := svc.List(c.Request.Context())
		if err != nil {
			writeServiceError(c, err)
			return
		}
		out := make([]dto.TranscriptDTO, 0, len(items))
		for _, t := range items {
			out = append(out, dto.NewTranscriptDTO(t))
		}
		c.JSON(http.StatusOK, dto.TranscriptListResponse{Transcripts: out})
	}
}

// GetTranscriptHandler handles GET /api/transcripts/:id.
func GetTranscriptHandler(svc TranscriptService) gin.HandlerFunc {
	return func(c *gin.Context) {
		t, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewTranscriptDTO(*t))
	}
}

// GenerateSummaryHandler handles POST /api/transcripts/:id/generate-summary.
func GenerateSummaryHandler(svc TranscriptService) gin.HandlerFunc {
	return func(c *gin.Context) {
		t, err := svc.GenerateSummary(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeServiceError(c, err)
			return
		}
		summary := ""
		if t.GeneratedSummary != nil {
			summary = *t.GeneratedSummary
		}
		c.JSON(http.StatusOK, dto.GenerateSummaryResponse{Summary: summary})
	}
}

// UpdateSummaryHandler handles PUT /api/transcripts/:id/summary.
func UpdateSummaryHandler(svc TranscriptService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.UpdateSummaryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "invalid JSON body"})
			return
		}

		if _, err := svc.SaveSummary(c.Request.Context(), c.Param("id"), req.EditedSummary); err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.MessageResponseDTO{Message: "Summary updated successfully"})
	}
}

// SendSummaryHandler handles POST /api/transcripts/:id/email.
func SendSummaryHandler(svc TranscriptService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.EmailRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "invalid JSON body"})
			return
		}

		res, err := svc.SendSummary(c.Request.Context(), c.Param("id"), services.SendSummaryInput{
			Recipients: req.Recipients,
			Subject:    req.Subject,
		})
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.EmailResponse{
			Message:      res.Message,
			Recipients:   res.Recipients,
			Subject:      res.Subject,
			SentEmails:   res.Sent,
			FailedEmails: res.Failures,
		})
	}
}

// DeleteTranscriptHandler handles DELETE /api/transcripts/:id.
func DeleteTranscriptHandler(svc TranscriptService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.MessageResponseDTO{Message: "Transcript deleted successfully"})
	}
}

// writeServiceError maps the service error taxonomy onto HTTP statuses.
func writeServiceError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	var summaryErr *services.SummarizationError
	var deliveryErr *services.DeliveryError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: validationErr.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponseDTO{Error: services.ErrNotFound.Error()})
	case errors.As(err, &summaryErr):
		c.JSON(http.StatusBadGateway, dto.ErrorResponseDTO{Error: summaryErr.Error()})
	case errors.As(err, &deliveryErr):
		c.JSON(http.StatusBadGateway, dto.ErrorResponseDTO{Error: deliveryErr.Error()})
	default:
		logger.Log.Errorf("unhandled service error: %v", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponseDTO{Error: "internal error"})
	}
}
