package handler

import (
	"encoding/json"
	"net/http"

	"go-clinical-records/internal/delivery/dto"
	"go-clinical-records/internal/delivery/http/middleware"
	"go-clinical-records/internal/usecase"
	"go-clinical-records/pkg/response"
	"go-clinical-records/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type RescheduleHandler struct {
	rescheduleUsecase usecase.RescheduleUsecase
	validator         *validator.CustomValidator
}

func NewRescheduleHandler(rescheduleUsecase usecase.RescheduleUsecase, validator *validator.CustomValidator) *RescheduleHandler {
	return &RescheduleHandler{
		rescheduleUsecase: rescheduleUsecase,
		validator:         validator,
	}
}

// ProposeReschedule handles opening a reschedule proposal
// @Summary Propose a reschedule
// @Description Propose a new date and time for a confirmed appointment
// @Tags Reschedules
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Appointment ID"
// @Param request body dto.ProposeRescheduleRequest true "Propose Reschedule Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /appointments/{id}/reschedules [post]
func (h *RescheduleHandler) ProposeReschedule(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	appointmentID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	var req dto.ProposeRescheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	reschedule, err := h.rescheduleUsecase.ProposeReschedule(r.Context(), appointmentID, actorID, &req)
	if err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		case usecase.ErrNotAppointmentParty:
			response.Forbidden(w, err.Error())
		case usecase.ErrAppointmentNotMovable:
			response.Conflict(w, err.Error(), nil)
		case usecase.ErrInvalidDateFormat, usecase.ErrInvalidTimeFormat, usecase.ErrPastDate:
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		default:
			response.InternalServerError(w, "Failed to propose reschedule")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Reschedule proposed successfully", reschedule)
}

// ListReschedules handles listing proposals for one appointment
// @Summary List reschedules
// @Description List reschedule proposals for an appointment
// @Tags Reschedules
// @Security BearerAuth
// @Produce json
// @Param id path string true "Appointment ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /appointments/{id}/reschedules [get]
func (h *RescheduleHandler) ListReschedules(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	appointmentID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	reschedules, err := h.rescheduleUsecase.ListForAppointment(r.Context(), appointmentID, actorID)
	if err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		case usecase.ErrNotAppointmentParty:
			response.Forbidden(w, err.Error())
		default:
			response.InternalServerError(w, "Failed to list reschedules")
		}
		return
	}

	response.Success(w, http.StatusOK, "Reschedules retrieved successfully", reschedules)
}

// ResolveReschedule handles approving or rejecting a proposal
// @Summary Resolve a reschedule
// @Description Approve or reject a pending reschedule proposal
// @Tags Reschedules
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Reschedule ID"
// @Param request body dto.ResolveRescheduleRequest true "Resolve Reschedule Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /reschedules/{id} [patch]
func (h *RescheduleHandler) ResolveReschedule(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	rescheduleID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid reschedule ID", nil)
		return
	}

	var req dto.ResolveRescheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	reschedule, err := h.rescheduleUsecase.ResolveReschedule(r.Context(), rescheduleID, actorID, &req)
	if err != nil {
		switch err {
		case usecase.ErrRescheduleNotFound:
			response.NotFound(w, "Reschedule not found")
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		case usecase.ErrNotAppointmentParty:
			response.Forbidden(w, err.Error())
		case usecase.ErrRescheduleResolved, usecase.ErrAlreadyFinalized:
			response.Conflict(w, err.Error(), nil)
		default:
			response.InternalServerError(w, "Failed to resolve reschedule")
		}
		return
	}

	response.Success(w, http.StatusOK, "Reschedule resolved successfully", reschedule)
}

// RescheduleDay handles the bulk day withdrawal flow
// @Summary Reschedule a whole day
// @Description Withdraw one weekly day and open proposals for every affected booking
// @Tags Reschedules
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.DayRescheduleRequest true "Day Reschedule Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /providers/me/schedule/day-reschedule [post]
func (h *RescheduleHandler) RescheduleDay(w http.ResponseWriter, r *http.Request) {
	providerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.DayRescheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.rescheduleUsecase.RescheduleDay(r.Context(), providerID, &req)
	if err != nil {
		switch err {
		case usecase.ErrUnknownDayOfWeek, usecase.ErrBlanketSlotIncomplete,
			usecase.ErrInvalidDateFormat, usecase.ErrInvalidTimeFormat:
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		case usecase.ErrNoBookingsOnDay:
			response.NotFound(w, err.Error())
		default:
			response.InternalServerError(w, "Failed to reschedule day")
		}
		return
	}

	response.Success(w, http.StatusOK, "Day rescheduled successfully", result)
}
