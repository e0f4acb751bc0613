package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"debate-server/internal/model"
)

// GeneratedTopicResponse — конверт ответа генерации темы
type GeneratedTopicResponse struct {
	Success bool                 `json:"success"`
	Data    model.GeneratedTopic `json:"data"`
}

// GeneratedArgumentsResponse — конверт ответа генерации аргументов
type GeneratedArgumentsResponse struct {
	Success bool                     `json:"success"`
	Data    model.GeneratedArguments `json:"data"`
}

// GenerateTopic генерирует предложение темы дебатов через AI
func (h *Handler) GenerateTopic(w http.ResponseWriter, r *http.Request) {
	var req model.TopicGenerationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, http.StatusBadRequest, fmt.Sprintf("неверный формат запроса: %v", err))
		return
	}

	if invalid := req.Validate(); len(invalid) > 0 {
		RespondWithValidationError(w, invalid)
		return
	}

	topic, err := h.generator.GenerateTopic(r.Context(), req)
	if err != nil {
		log.Error().Err(err).Str("subject", req.Subject).Msg("topic generation failed")
		h.respondGenerationError(w, err)
		return
	}

	RespondWithJSON(w, http.StatusOK, GeneratedTopicResponse{Success: true, Data: *topic})
}

// GenerateArguments генерирует аргументы за/против для заданной темы
func (h *Handler) GenerateArguments(w http.ResponseWriter, r *http.Request) {
	var req model.ArgumentGenerationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, http.StatusBadRequest, fmt.Sprintf("неверный формат запроса: %v", err))
		return
	}

	if invalid := req.Validate(); len(invalid) > 0 {
		RespondWithValidationError(w, invalid)
		return
	}

	args, err := h.generator.GenerateArguments(r.Context(), req)
	if err != nil {
		log.Error().Err(err).Str("topic", req.Topic).Msg("argument generation failed")
		h.respondGenerationError(w, err)
		return
	}

	RespondWithJSON(w, http.StatusOK, GeneratedArgumentsResponse{Success: true, Data: *args})
}
