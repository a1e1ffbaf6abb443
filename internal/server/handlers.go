package server

import (
	"net/http"
	"strings"
	"time"

	"translatorgo/internal/core"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type translateRequest struct {
	Text        string `json:"text" binding:"required"`
	Source      string `json:"source"`
	Target      string `json:"target"`
	Tone        string `json:"tone"`
	SessionID   string `json:"session_id"`
	WithInsight bool   `json:"with_insight"`
}

type translateResponse struct {
	Translation string `json:"translation"`
	Insight     string `json:"insight,omitempty"`
	Provider    string `json:"provider,omitempty"`
	Model       string `json:"model,omitempty"`
	SessionID   string `json:"session_id,omitempty"`
}

func (s *Server) translateText(c *gin.Context) {
	startTime := time.Now()

	var request translateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		s.metricsService.RecordHTTPError()
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	source := request.Source
	if source == "" {
		source = s.config.DefaultSource
	}
	target := request.Target
	if target == "" {
		target = s.config.DefaultTarget
	}

	var context []core.Turn
	if request.SessionID != "" {
		turns, err := s.historyStore.GetHistory(request.SessionID)
		if err != nil {
			s.config.Logger.Warn("Failed to load history for session %s: %v", request.SessionID, err)
		} else {
			context = turns
		}
	}

	result := s.orchestrator.Translate(c.Request.Context(), core.TranslationRequest{
		Text:        request.Text,
		Source:      source,
		Target:      target,
		Tone:        core.ParseTone(request.Tone),
		Context:     context,
		WithInsight: request.WithInsight,
	})

	success := !result.IsEmpty() && !isErrorMarker(result.Translation)
	direction := source + "-" + target
	s.metricsService.RecordTranslation(success, time.Since(startTime).Milliseconds(), direction, result.Provider, "")

	if success && request.SessionID != "" {
		if _, err := s.historyStore.AppendMessage(request.SessionID, core.RoleUser, request.Text, ""); err != nil {
			s.config.Logger.Warn("Failed to append user turn for session %s: %v", request.SessionID, err)
		}
		if _, err := s.historyStore.AppendMessage(request.SessionID, core.RoleAssistant, result.Translation, result.Insight); err != nil {
			s.config.Logger.Warn("Failed to append assistant turn for session %s: %v", request.SessionID, err)
		}
	}

	c.JSON(http.StatusOK, translateResponse{
		Translation: result.Translation,
		Insight:     result.Insight,
		Provider:    result.Provider,
		Model:       result.Model,
		SessionID:   request.SessionID,
	})
}

// isErrorMarker reports whether the local tier degraded to an inline
// error string instead of a translation.
func isErrorMarker(translation string) bool {
	return strings.HasPrefix(translation, core.UnsupportedPairMarker) ||
		strings.HasPrefix(translation, core.LocalErrorMarker)
}

func (s *Server) createSession(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"session_id": uuid.NewString()})
}

func (s *Server) getSessionHistory(c *gin.Context) {
	sessionID := c.Param("id")

	turns, err := s.historyStore.GetHistory(sessionID)
	if err != nil {
		s.config.Logger.Error("Failed to load history for session %s: %v", sessionID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}

	if turns == nil {
		turns = []core.Turn{}
	}
	c.JSON(http.StatusOK, gin.H{"session_id": sessionID, "history": turns})
}

func (s *Server) clearSessionHistory(c *gin.Context) {
	sessionID := c.Param("id")

	if err := s.historyStore.ClearHistory(sessionID); err != nil {
		s.config.Logger.Error("Failed to clear history for session %s: %v", sessionID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"session_id": sessionID, "cleared": true})
}
