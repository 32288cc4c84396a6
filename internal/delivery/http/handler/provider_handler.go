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

type ProviderHandler struct {
	providerUsecase usecase.ProviderUsecase
	validator       *validator.CustomValidator
}

func NewProviderHandler(providerUsecase usecase.ProviderUsecase, validator *validator.CustomValidator) *ProviderHandler {
	return &ProviderHandler{
		providerUsecase: providerUsecase,
		validator:       validator,
	}
}

// ListProviders handles listing all providers
// @Summary List providers
// @Description List all registered providers
// @Tags Providers
// @Produce json
// @Success 200 {object} response.Response
// @Router /providers [get]
func (h *ProviderHandler) ListProviders(w http.ResponseWriter, r *http.Request) {
	providers, err := h.providerUsecase.ListProviders(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to list providers")
		return
	}

	response.Success(w, http.StatusOK, "Providers retrieved successfully", providers)
}

// GetProvider handles getting one provider by ID
// @Summary Get provider
// @Description Get a provider's public profile
// @Tags Providers
// @Produce json
// @Param id path string true "Provider ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /providers/{id} [get]
func (h *ProviderHandler) GetProvider(w http.ResponseWriter, r *http.Request) {
	providerID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid provider ID", nil)
		return
	}

	provider, err := h.providerUsecase.GetProvider(r.Context(), providerID)
	if err != nil {
		switch err {
		case usecase.ErrProviderProfileNotFound:
			response.NotFound(w, "Provider not found")
		default:
			response.InternalServerError(w, "Failed to get provider")
		}
		return
	}

	response.Success(w, http.StatusOK, "Provider retrieved successfully", provider)
}

// UpdateMyProfile handles a provider updating their own profile
// @Summary Update my provider profile
// @Description Update specialty, biography or consultation fee
// @Tags Providers
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.UpdateProviderProfileRequest true "Update Profile Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /providers/me [put]
func (h *ProviderHandler) UpdateMyProfile(w http.ResponseWriter, r *http.Request) {
	providerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.UpdateProviderProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	provider, err := h.providerUsecase.UpdateMyProfile(r.Context(), providerID, &req)
	if err != nil {
		switch err {
		case usecase.ErrProviderProfileNotFound:
			response.NotFound(w, "Provider not found")
		case usecase.ErrInvalidFee:
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		default:
			response.InternalServerError(w, "Failed to update profile")
		}
		return
	}

	response.Success(w, http.StatusOK, "Profile updated successfully", provider)
}
