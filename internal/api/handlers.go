package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/edgedev/renata/internal/store"
	"github.com/edgedev/renata/internal/transform"
	"github.com/edgedev/renata/pkg/models"
)

type transformResponse struct {
	SessionID string                 `json:"session_id"`
	Result    models.TransformResult `json:"result"`
}

type classifyRequest struct {
	Source string `json:"source"`
}

// createTransform runs the full pipeline on a submission and persists the
// session. Exhaustion is not an error: the response carries the best
// attempt with fully_validated=false.
func (s *Server) createTransform(c echo.Context) error {
	var req models.TransformRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	sessionID := uuid.New().String()
	result, attempts, err := s.pipeline.Run(c.Request().Context(), req, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, transform.ErrSourceTooShort), errors.Is(err, transform.ErrUnknownTask):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, transform.ErrGenerationFailed):
			return echo.NewHTTPError(http.StatusBadGateway, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	session := store.Session{
		ID:           sessionID,
		CreatedAt:    time.Now().UTC(),
		Task:         req.Task,
		Source:       req.Source,
		Instructions: req.Instructions,
		Result:       *result,
		AttemptLog:   attempts,
	}
	if err := s.store.SaveSession(c.Request().Context(), session); err != nil {
		// The transform succeeded; losing history is not worth a 500.
		c.Logger().Errorf("failed to save session %s: %v", sessionID, err)
	}

	return c.JSON(http.StatusOK, transformResponse{SessionID: sessionID, Result: *result})
}

func (s *Server) getTransform(c echo.Context) error {
	session, err := s.store.GetSession(c.Request().Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, session)
}

func (s *Server) listTransforms(c echo.Context) error {
	limit := 20
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		limit = parsed
	}

	sessions, err := s.store.ListSessions(c.Request().Context(), limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if sessions == nil {
		sessions = []store.Session{}
	}
	return c.JSON(http.StatusOK, sessions)
}

// classifySource runs only the classifier, for UI previews before the
// user commits to a full transform.
func (s *Server) classifySource(c echo.Context) error {
	var req classifyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Source == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "source is required")
	}
	return c.JSON(http.StatusOK, s.pipeline.Classify(req.Source))
}
