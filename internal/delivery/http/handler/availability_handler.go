package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go-clinical-records/internal/delivery/dto"
	"go-clinical-records/internal/delivery/http/middleware"
	"go-clinical-records/internal/usecase"
	"go-clinical-records/pkg/response"
	"go-clinical-records/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type AvailabilityHandler struct {
	availabilityUsecase usecase.AvailabilityUsecase
	validator           *validator.CustomValidator
}

func NewAvailabilityHandler(availabilityUsecase usecase.AvailabilityUsecase, validator *validator.CustomValidator) *AvailabilityHandler {
	return &AvailabilityHandler{
		availabilityUsecase: availabilityUsecase,
		validator:           validator,
	}
}

// UpsertWeeklySchedule handles a provider writing their weekly windows
// @Summary Upsert weekly schedule
// @Description Create or replace per-day availability windows
// @Tags Availability
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.UpsertWeeklyScheduleRequest true "Weekly Schedule Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /providers/me/schedule [put]
func (h *AvailabilityHandler) UpsertWeeklySchedule(w http.ResponseWriter, r *http.Request) {
	providerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.UpsertWeeklyScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	schedule, err := h.availabilityUsecase.UpsertWeeklySchedule(r.Context(), providerID, &req)
	if err != nil {
		var dayConflict *usecase.DayConflictError
		switch {
		case errors.As(err, &dayConflict):
			response.Conflict(w, "Days have scheduled appointments, reschedule them first", dayConflict.Conflicts)
		case errors.Is(err, usecase.ErrProviderNotFound):
			response.NotFound(w, "Provider not found")
		case errors.Is(err, usecase.ErrUnknownDayOfWeek),
			errors.Is(err, usecase.ErrInvalidTimeFormat),
			errors.Is(err, usecase.ErrInvalidTimeWindow):
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		default:
			response.InternalServerError(w, "Failed to update weekly schedule")
		}
		return
	}

	response.Success(w, http.StatusOK, "Weekly schedule updated successfully", schedule)
}

// GetWeeklySchedule handles reading a provider's weekly schedule
// @Summary Get weekly schedule
// @Description Get a provider's per-day availability windows
// @Tags Availability
// @Produce json
// @Param id path string true "Provider ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /providers/{id}/schedule [get]
func (h *AvailabilityHandler) GetWeeklySchedule(w http.ResponseWriter, r *http.Request) {
	providerID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid provider ID", nil)
		return
	}

	schedule, err := h.availabilityUsecase.GetWeeklySchedule(r.Context(), providerID)
	if err != nil {
		switch err {
		case usecase.ErrProviderNotFound:
			response.NotFound(w, "Provider not found")
		default:
			response.InternalServerError(w, "Failed to get weekly schedule")
		}
		return
	}

	response.Success(w, http.StatusOK, "Weekly schedule retrieved successfully", schedule)
}

// CheckSlot handles a point-in-time availability query
// @Summary Check slot availability
// @Description Check whether a provider is bookable on a date (and optional time)
// @Tags Availability
// @Produce json
// @Param id path string true "Provider ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param time query string false "Time (HH:MM)"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /providers/{id}/availability [get]
func (h *AvailabilityHandler) CheckSlot(w http.ResponseWriter, r *http.Request) {
	providerID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid provider ID", nil)
		return
	}

	dateValue := r.URL.Query().Get("date")
	timeValue := r.URL.Query().Get("time")

	availability, err := h.availabilityUsecase.CheckSlot(r.Context(), providerID, dateValue, timeValue)
	if err != nil {
		switch err {
		case usecase.ErrProviderNotFound:
			response.NotFound(w, "Provider not found")
		case usecase.ErrInvalidDateFormat, usecase.ErrInvalidTimeFormat:
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		default:
			response.InternalServerError(w, "Failed to check availability")
		}
		return
	}

	response.Success(w, http.StatusOK, "Availability checked successfully", availability)
}
