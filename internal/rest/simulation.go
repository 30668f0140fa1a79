package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"shopsim/business/simulation"
	"shopsim/domain"
	"shopsim/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

type SimulationService interface {
	Reset(ctx context.Context, sessionID string, goalIndex int) (*simulation.Observation, error)
	Step(ctx context.Context, sessionID, action string) (*simulation.Observation, float64, bool, error)
	Snapshot(sessionID string) (domain.SessionSnapshot, error)
	DeleteSession(sessionID string)
	SessionCount() int
}

type SimulationHandler struct {
	simulationService SimulationService
	validator         *validator.Validate
	timeout           time.Duration
}

func NewSimulationHandler(simulationService SimulationService) *SimulationHandler {
	return &SimulationHandler{
		simulationService: simulationService,
		validator:         validator.New(),
		timeout:           10 * time.Second,
	}
}

type ResetSessionRequest struct {
	SessionID       string `json:"session_id"`
	GoalIndex       *int   `json:"goal_index" validate:"omitempty,gte=0"`
	ObservationMode string `json:"observation_mode" validate:"omitempty,oneof=page text text_rich"`
}

type StepSessionRequest struct {
	SessionID       string `json:"session_id" validate:"required"`
	Action          string `json:"action" validate:"required"`
	ObservationMode string `json:"observation_mode" validate:"omitempty,oneof=page text text_rich"`
}

// ObservationResponse is returned by both reset and step.
type ObservationResponse struct {
	SessionID        string                      `json:"session_id"`
	Observation      string                      `json:"observation,omitempty"`
	Page             domain.Page                 `json:"page,omitempty"`
	AvailableActions simulation.AvailableActions `json:"available_actions"`
	Reward           float64                     `json:"reward"`
	Done             bool                        `json:"done"`
}

func buildObservationResponse(obs *simulation.Observation, mode string, reward float64, done bool) ObservationResponse {
	resp := ObservationResponse{
		SessionID:        obs.SessionID,
		AvailableActions: obs.AvailableActions(),
		Reward:           reward,
		Done:             done,
	}
	if mode == simulation.ModePage {
		resp.Page = obs.Page
	} else {
		resp.Observation = obs.Render(mode)
	}
	return resp
}

func (h *SimulationHandler) ResetSession(c echo.Context) error {
	var req ResetSessionRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind reset request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate reset request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	goalIndex := -1
	if req.GoalIndex != nil {
		goalIndex = *req.GoalIndex
	}

	obs, err := h.simulationService.Reset(ctx, req.SessionID, goalIndex)
	if err != nil {
		logger.Error("Failed to reset session", err)
		if errors.Is(err, domain.ErrGoalNotFound) {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(buildObservationResponse(obs, req.ObservationMode, 0, false)))
}

func (h *SimulationHandler) StepSession(c echo.Context) error {
	var req StepSessionRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind step request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate step request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	obs, reward, done, err := h.simulationService.Step(ctx, req.SessionID, req.Action)
	if err != nil {
		logger.Error("Failed to step session", err)
		if errors.Is(err, domain.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		if errors.Is(err, domain.ErrProductNotFound) {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(buildObservationResponse(obs, req.ObservationMode, reward, done)))
}

func (h *SimulationHandler) GetSession(c echo.Context) error {
	sessionID := c.Param("id")

	snapshot, err := h.simulationService.Snapshot(sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		logger.Error("Failed to get session", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(snapshot))
}

func (h *SimulationHandler) DeleteSession(c echo.Context) error {
	sessionID := c.Param("id")

	h.simulationService.DeleteSession(sessionID)

	return c.JSON(http.StatusOK, fres.Response.StatusOK("Session deleted successfully"))
}

func (h *SimulationHandler) GetSessionStats(c echo.Context) error {
	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]interface{}{
		"active_sessions": h.simulationService.SessionCount(),
	}))
}
