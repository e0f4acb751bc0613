package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"debate-server/internal/database"
	"debate-server/internal/model"
	"debate-server/internal/repository"
	"debate-server/pkg/ai"
)

// Generator определяет операции AI-генерации, нужные обработчикам
type Generator interface {
	GenerateTopic(ctx context.Context, req model.TopicGenerationRequest) (*model.GeneratedTopic, error)
	GenerateArguments(ctx context.Context, req model.ArgumentGenerationRequest) (*model.GeneratedArguments, error)
}

// Handler представляет HTTP обработчик API
type Handler struct {
	scenarios  repository.ScenarioRepository
	topics     repository.TopicRepository
	generator  Generator
	production bool
}

// New создает новый экземпляр обработчика
func New(scenarios repository.ScenarioRepository, topics repository.TopicRepository, generator Generator, production bool) *Handler {
	return &Handler{
		scenarios:  scenarios,
		topics:     topics,
		generator:  generator,
		production: production,
	}
}

// RegisterRoutes регистрирует маршруты API
func (h *Handler) RegisterRoutes(router *mux.Router) {
	// Маршруты для работы со сценариями
	router.HandleFunc("/scenarios", h.ListScenarios).Methods("GET")
	router.HandleFunc("/scenarios", h.CreateScenario).Methods("POST")
	router.HandleFunc("/scenarios/{id}", h.GetScenario).Methods("GET")
	router.HandleFunc("/scenarios/{id}", h.UpdateScenario).Methods("PUT")
	router.HandleFunc("/scenarios/{id}", h.DeleteScenario).Methods("DELETE")

	// Маршруты для работы с темами дебатов
	router.HandleFunc("/topics", h.ListTopics).Methods("GET")
	router.HandleFunc("/topics", h.CreateTopic).Methods("POST")
	router.HandleFunc("/topics/subjects", h.ListSubjects).Methods("GET")
	router.HandleFunc("/topics/{id}", h.GetTopic).Methods("GET")
	router.HandleFunc("/topics/{id}", h.UpdateTopic).Methods("PUT")
	router.HandleFunc("/topics/{id}", h.DeleteTopic).Methods("DELETE")

	// Маршруты для AI-генерации
	router.HandleFunc("/generate/topic", h.GenerateTopic).Methods("POST")
	router.HandleFunc("/generate/arguments", h.GenerateArguments).Methods("POST")

	// Служебные маршруты
	router.HandleFunc("/health", h.Health).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")
}

// Health возвращает статус сервиса
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ErrorResponse — общий конверт ошибки
type ErrorResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Code    string   `json:"code,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// RespondWithError отправляет ошибку в формате JSON
func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, ErrorResponse{Success: false, Message: message})
}

// RespondWithValidationError отправляет 400 со списком всех невалидных полей
func RespondWithValidationError(w http.ResponseWriter, fields []string) {
	RespondWithJSON(w, http.StatusBadRequest, ErrorResponse{
		Success: false,
		Message: "валидация запроса не пройдена",
		Errors:  fields,
	})
}

// RespondWithJSON отправляет ответ в формате JSON
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// respondRepositoryError сопоставляет ошибку слоя хранилища с HTTP-статусом
func (h *Handler) respondRepositoryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrInvalidID):
		RespondWithError(w, http.StatusBadRequest, "неверный формат идентификатора")
	case errors.Is(err, repository.ErrNotFound):
		RespondWithError(w, http.StatusNotFound, "документ не найден")
	case errors.Is(err, repository.ErrTimeout):
		RespondWithError(w, http.StatusRequestTimeout, "операция превысила лимит времени")
	case errors.Is(err, database.ErrUnavailable):
		RespondWithError(w, http.StatusServiceUnavailable, "сервис временно недоступен")
	default:
		h.respondInternalError(w, err)
	}
}

// respondInternalError скрывает детали ошибки в production-окружении
func (h *Handler) respondInternalError(w http.ResponseWriter, err error) {
	message := "внутренняя ошибка сервера"
	if !h.production {
		message = fmt.Sprintf("%s: %v", message, err)
	}
	RespondWithError(w, http.StatusInternalServerError, message)
}

// respondGenerationError сопоставляет ошибку генерации с HTTP-статусом и кодом
func (h *Handler) respondGenerationError(w http.ResponseWriter, err error) {
	var (
		status int
		code   string
	)
	switch {
	case errors.Is(err, ai.ErrMissingAPIKey):
		status, code = http.StatusServiceUnavailable, "MISSING_API_KEY"
	case errors.Is(err, ai.ErrInvalidAPIKey):
		status, code = http.StatusUnauthorized, "INVALID_API_KEY"
	case errors.Is(err, ai.ErrGenerateTimeout):
		status, code = http.StatusRequestTimeout, "TIMEOUT"
	case errors.Is(err, ai.ErrParseFailure):
		status, code = http.StatusBadGateway, "PARSE_ERROR"
	case errors.Is(err, ai.ErrProviderUnavailable):
		status, code = http.StatusServiceUnavailable, "PROVIDER_UNAVAILABLE"
	default:
		h.respondInternalError(w, err)
		return
	}
	RespondWithJSON(w, status, ErrorResponse{Success: false, Code: code, Message: err.Error()})
}
