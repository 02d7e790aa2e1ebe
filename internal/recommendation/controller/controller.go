package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/plipplupp/forecast-to-clothing/internal/recommendation/repository"
	"github.com/plipplupp/forecast-to-clothing/internal/recommendation/types"
	"github.com/plipplupp/forecast-to-clothing/internal/utils"
)

const (
	defaultListLimit = 30
	maxListLimit     = 1000
)

type RecommendationController interface {
	RegisterRoutes(mux *http.ServeMux)
}

type recommendationControllerImpl struct {
	repository repository.RecommendationRepository
}

func NewRecommendationController(repository repository.RecommendationRepository) RecommendationController {
	return &recommendationControllerImpl{repository: repository}
}

func (c *recommendationControllerImpl) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/recommendations", c.handleList)
	mux.HandleFunc("GET /api/v1/recommendations/{date}", c.handleGet)
}

func (c *recommendationControllerImpl) handleList(w http.ResponseWriter, r *http.Request) {
	limit, err := utils.QueryLimit(r, defaultListLimit, maxListLimit)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	recs, err := c.repository.List(r.Context(), limit)
	if err != nil {
		slog.Error("list recommendations failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to list recommendations")
		return
	}
	utils.WriteJSON(w, http.StatusOK, recs)
}

func (c *recommendationControllerImpl) handleGet(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")
	if _, err := types.ParseDate(date); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	rec, err := c.repository.Get(r.Context(), date)
	if errors.Is(err, repository.ErrNotFound) {
		utils.WriteError(w, http.StatusNotFound, "no recommendation for "+date)
		return
	}
	if err != nil {
		slog.Error("get recommendation failed", "date", date, "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load recommendation")
		return
	}
	utils.WriteJSON(w, http.StatusOK, rec)
}
