package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"debate-server/internal/model"
	"debate-server/internal/repository"
)

// TopicListResponse — конверт списочного ответа по темам.
// Форма конверта исторически отличается от сценариев: темы лежат в поле
// topics, а метаданные — в pagination.
type TopicListResponse struct {
	Topics     []model.Topic   `json:"topics"`
	Pagination repository.Meta `json:"pagination"`
}

// TopicResponse — конверт одиночного ответа по теме
type TopicResponse struct {
	Success bool        `json:"success"`
	Data    model.Topic `json:"data"`
}

// SubjectsResponse — конверт ответа со списком предметов
type SubjectsResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Subjects []string `json:"subjects"`
	} `json:"data"`
}

// ListTopics возвращает страницу тем с фильтрацией по подстроке и предмету
func (h *Handler) ListTopics(w http.ResponseWriter, r *http.Request) {
	page := pageFromQuery(r)
	filter := repository.TopicFilter{
		Query:   r.URL.Query().Get("q"),
		Subject: r.URL.Query().Get("subject"),
	}

	topics, meta, err := h.topics.List(r.Context(), page, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to list topics")
		h.respondRepositoryError(w, err)
		return
	}

	RespondWithJSON(w, http.StatusOK, TopicListResponse{Topics: topics, Pagination: meta})
}

// CreateTopic создает новую тему дебатов
func (h *Handler) CreateTopic(w http.ResponseWriter, r *http.Request) {
	var topic model.Topic
	if err := json.NewDecoder(r.Body).Decode(&topic); err != nil {
		RespondWithError(w, http.StatusBadRequest, fmt.Sprintf("неверный формат запроса: %v", err))
		return
	}

	if invalid := topic.ValidateForCreate(); len(invalid) > 0 {
		RespondWithValidationError(w, invalid)
		return
	}

	created, err := h.topics.Create(r.Context(), topic)
	if err != nil {
		log.Error().Err(err).Msg("failed to create topic")
		h.respondRepositoryError(w, err)
		return
	}

	RespondWithJSON(w, http.StatusCreated, TopicResponse{Success: true, Data: created})
}

// GetTopic возвращает тему по ID
func (h *Handler) GetTopic(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	topic, err := h.topics.GetByID(r.Context(), id)
	if err != nil {
		h.respondRepositoryError(w, err)
		return
	}

	RespondWithJSON(w, http.StatusOK, TopicResponse{Success: true, Data: topic})
}

// UpdateTopic обновляет тему
func (h *Handler) UpdateTopic(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var patch model.Topic
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		RespondWithError(w, http.StatusBadRequest, fmt.Sprintf("неверный формат запроса: %v", err))
		return
	}

	if invalid := patch.ValidateForCreate(); len(invalid) > 0 {
		RespondWithValidationError(w, invalid)
		return
	}

	updated, err := h.topics.Update(r.Context(), id, patch)
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to update topic")
		h.respondRepositoryError(w, err)
		return
	}

	RespondWithJSON(w, http.StatusOK, TopicResponse{Success: true, Data: updated})
}

// DeleteTopic удаляет тему
func (h *Handler) DeleteTopic(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.topics.Delete(r.Context(), id); err != nil {
		h.respondRepositoryError(w, err)
		return
	}

	RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "тема удалена",
	})
}

// ListSubjects возвращает отсортированный список всех предметов для фильтров UI
func (h *Handler) ListSubjects(w http.ResponseWriter, r *http.Request) {
	subjects, err := h.topics.Subjects(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to list subjects")
		h.respondRepositoryError(w, err)
		return
	}

	resp := SubjectsResponse{Success: true}
	resp.Data.Subjects = subjects
	RespondWithJSON(w, http.StatusOK, resp)
}
