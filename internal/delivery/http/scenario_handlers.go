package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"debate-server/internal/model"
	"debate-server/internal/repository"
)

// ScenarioListResponse — конверт списочного ответа по сценариям
type ScenarioListResponse struct {
	Success bool             `json:"success"`
	Data    []model.Scenario `json:"data"`
	Meta    repository.Meta  `json:"meta"`
}

// ScenarioResponse — конверт одиночного ответа по сценарию
type ScenarioResponse struct {
	Success bool           `json:"success"`
	Data    model.Scenario `json:"data"`
}

// pageFromQuery извлекает параметры пагинации из запроса
func pageFromQuery(r *http.Request) repository.Page {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 {
		limit = 10
	}
	return repository.Page{Number: page, Limit: limit}
}

// ListScenarios возвращает страницу сценариев с опциональным текстовым поиском
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	page := pageFromQuery(r)
	search := r.URL.Query().Get("search")

	scenarios, meta, err := h.scenarios.List(r.Context(), page, search)
	if err != nil {
		log.Error().Err(err).Msg("failed to list scenarios")
		h.respondRepositoryError(w, err)
		return
	}

	RespondWithJSON(w, http.StatusOK, ScenarioListResponse{Success: true, Data: scenarios, Meta: meta})
}

// CreateScenario создает новый сценарий
func (h *Handler) CreateScenario(w http.ResponseWriter, r *http.Request) {
	var scenario model.Scenario
	if err := json.NewDecoder(r.Body).Decode(&scenario); err != nil {
		RespondWithError(w, http.StatusBadRequest, fmt.Sprintf("неверный формат запроса: %v", err))
		return
	}

	if invalid := scenario.ValidateForCreate(); len(invalid) > 0 {
		RespondWithValidationError(w, invalid)
		return
	}

	created, err := h.scenarios.Create(r.Context(), scenario)
	if err != nil {
		log.Error().Err(err).Msg("failed to create scenario")
		h.respondRepositoryError(w, err)
		return
	}

	RespondWithJSON(w, http.StatusCreated, ScenarioResponse{Success: true, Data: created})
}

// GetScenario возвращает сценарий по ID
func (h *Handler) GetScenario(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	scenario, err := h.scenarios.GetByID(r.Context(), id)
	if err != nil {
		h.respondRepositoryError(w, err)
		return
	}

	RespondWithJSON(w, http.StatusOK, ScenarioResponse{Success: true, Data: scenario})
}

// UpdateScenario обновляет сценарий
func (h *Handler) UpdateScenario(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var patch model.Scenario
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		RespondWithError(w, http.StatusBadRequest, fmt.Sprintf("неверный формат запроса: %v", err))
		return
	}

	if invalid := patch.ValidateForCreate(); len(invalid) > 0 {
		RespondWithValidationError(w, invalid)
		return
	}

	updated, err := h.scenarios.Update(r.Context(), id, patch)
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to update scenario")
		h.respondRepositoryError(w, err)
		return
	}

	RespondWithJSON(w, http.StatusOK, ScenarioResponse{Success: true, Data: updated})
}

// DeleteScenario удаляет сценарий
func (h *Handler) DeleteScenario(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.scenarios.Delete(r.Context(), id); err != nil {
		h.respondRepositoryError(w, err)
		return
	}

	RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "сценарий удален",
	})
}
