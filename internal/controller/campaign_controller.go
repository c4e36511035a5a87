// internal/controller/campaign_controller.go
package controller

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/mailcanvas/campaign-backend/internal/errors"
	"github.com/mailcanvas/campaign-backend/internal/model"
	"github.com/mailcanvas/campaign-backend/internal/service"
)

type CampaignController struct {
	CampaignService *service.CampaignService
}

func (c *CampaignController) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var campaign model.Campaign
	if err := json.NewDecoder(r.Body).Decode(&campaign); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := c.CampaignService.CreateCampaign(&campaign)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (c *CampaignController) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := c.CampaignService.ListCampaigns()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, campaigns)
}

func (c *CampaignController) GetCampaign(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	campaign, err := c.CampaignService.GetCampaign(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, campaign)
}

func (c *CampaignController) DeleteCampaign(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := c.CampaignService.DeleteCampaign(id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Campaign ended (deleted) successfully",
	})
}

// LaunchCampaign runs the full launch. A processed launch always answers
// 200; partial failure is conveyed in the body (hasFailures, counts).
func (c *CampaignController) LaunchCampaign(w http.ResponseWriter, r *http.Request) {
	var campaign model.Campaign
	if err := json.NewDecoder(r.Body).Decode(&campaign); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := c.CampaignService.LaunchCampaign(r.Context(), &campaign)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func writeServiceError(w http.ResponseWriter, err error) {
	var (
		validationErr  *apperrors.ValidationError
		notFoundErr    *apperrors.NotFoundError
		persistenceErr *apperrors.PersistenceError
	)
	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, validationErr.Message)
	case errors.As(err, &notFoundErr):
		writeError(w, http.StatusNotFound, "Campaign not found")
	case errors.As(err, &persistenceErr):
		log.Println("❌ persistence failure:", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		log.Println("❌ unexpected error:", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
