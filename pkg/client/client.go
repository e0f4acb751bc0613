package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"debate-server/internal/model"
	"debate-server/internal/repository"
	"debate-server/pkg/retry"
)

const (
	defaultTimeout = 30 * time.Second
	defaultRetries = 3
)

// APIError — ошибка, возвращенная сервером в конверте {success:false, ...}
type APIError struct {
	Status  int
	Code    string
	Message string
	Fields  []string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Client предоставляет методы доступа к API сервера дебатов.
// Каждый вызов ограничен таймаутом и повторяется с экспоненциальной
// задержкой при сетевых сбоях; ошибки валидации (400/404) не повторяются.
type Client struct {
	baseURL    string
	httpClient *http.Client
	policy     retry.Policy
	timeout    time.Duration
}

// Config содержит настройки клиента
type Config struct {
	BaseURL string
	Timeout time.Duration
	// MaxRetries — число повторов после первой попытки.
	// При значении 3 запрос выполняется максимум четыре раза
	// с задержками 1s, 2s, 4s.
	MaxRetries int
	HTTPClient *http.Client
}

// New создает новый клиент API
func New(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = defaultRetries
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: httpClient,
		timeout:    cfg.Timeout,
		policy: retry.Policy{
			MaxAttempts: cfg.MaxRetries + 1,
			BaseDelay:   time.Second,
			Multiplier:  2,
		},
	}
}

// do выполняет запрос с повторами. Ответы 4xx (кроме 408) считаются
// окончательными и не повторяются; сетевые ошибки, 408 и 5xx — повторяются.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body interface{}, out interface{}) error {
	var reqData []byte
	if body != nil {
		var err error
		reqData, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("ошибка при сериализации запроса: %w", err)
		}
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var terminal error
	err := c.policy.Do(ctx, func(ctx context.Context) error {
		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		var reqBody io.Reader
		if reqData != nil {
			reqBody = bytes.NewReader(reqData)
		}
		req, err := http.NewRequestWithContext(attemptCtx, method, endpoint, reqBody)
		if err != nil {
			terminal = fmt.Errorf("ошибка при создании запроса: %w", err)
			return nil
		}
		if reqData != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			// Сетевая ошибка или таймаут попытки: пробуем еще раз
			return fmt.Errorf("ошибка при выполнении запроса: %w", err)
		}
		defer resp.Body.Close()

		respData, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("ошибка при чтении ответа: %w", err)
		}

		if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusRequestTimeout {
			return apiErrorFromBody(resp.StatusCode, respData)
		}
		if resp.StatusCode >= http.StatusBadRequest {
			// Окончательная ошибка: повторять бессмысленно
			terminal = apiErrorFromBody(resp.StatusCode, respData)
			return nil
		}

		if out != nil {
			if err := json.Unmarshal(respData, out); err != nil {
				terminal = fmt.Errorf("ошибка при разборе ответа: %w", err)
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return terminal
}

// apiErrorFromBody собирает APIError из тела ответа сервера
func apiErrorFromBody(status int, body []byte) *APIError {
	var envelope struct {
		Success bool     `json:"success"`
		Message string   `json:"message"`
		Code    string   `json:"code"`
		Errors  []string `json:"errors"`
	}
	apiErr := &APIError{Status: status, Message: http.StatusText(status)}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Message != "" {
		apiErr.Message = envelope.Message
		apiErr.Code = envelope.Code
		apiErr.Fields = envelope.Errors
	}
	return apiErr
}

// pageQuery собирает общие параметры пагинации
func pageQuery(page, limit int) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	return q
}

// ListScenarios возвращает страницу сценариев с опциональным текстовым поиском
func (c *Client) ListScenarios(ctx context.Context, page, limit int, search string) ([]model.Scenario, repository.Meta, error) {
	q := pageQuery(page, limit)
	if search != "" {
		q.Set("search", search)
	}

	var resp struct {
		Success bool             `json:"success"`
		Data    []model.Scenario `json:"data"`
		Meta    repository.Meta  `json:"meta"`
	}
	if err := c.do(ctx, http.MethodGet, "/scenarios", q, nil, &resp); err != nil {
		return nil, repository.Meta{}, err
	}
	return resp.Data, resp.Meta, nil
}

// GetScenario возвращает сценарий по идентификатору
func (c *Client) GetScenario(ctx context.Context, id string) (model.Scenario, error) {
	var resp struct {
		Success bool           `json:"success"`
		Data    model.Scenario `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/scenarios/"+id, nil, nil, &resp); err != nil {
		return model.Scenario{}, err
	}
	return resp.Data, nil
}

// CreateScenario создает сценарий на сервере
func (c *Client) CreateScenario(ctx context.Context, scenario model.Scenario) (model.Scenario, error) {
	var resp struct {
		Success bool           `json:"success"`
		Data    model.Scenario `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/scenarios", nil, scenario, &resp); err != nil {
		return model.Scenario{}, err
	}
	return resp.Data, nil
}

// UpdateScenario обновляет сценарий на сервере
func (c *Client) UpdateScenario(ctx context.Context, id string, scenario model.Scenario) (model.Scenario, error) {
	var resp struct {
		Success bool           `json:"success"`
		Data    model.Scenario `json:"data"`
	}
	if err := c.do(ctx, http.MethodPut, "/scenarios/"+id, nil, scenario, &resp); err != nil {
		return model.Scenario{}, err
	}
	return resp.Data, nil
}

// DeleteScenario удаляет сценарий на сервере
func (c *Client) DeleteScenario(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/scenarios/"+id, nil, nil, nil)
}

// ListTopics возвращает страницу тем с фильтрацией по подстроке и предмету
func (c *Client) ListTopics(ctx context.Context, page, limit int, query, subject string) ([]model.Topic, repository.Meta, error) {
	q := pageQuery(page, limit)
	if query != "" {
		q.Set("q", query)
	}
	if subject != "" {
		q.Set("subject", subject)
	}

	var resp struct {
		Topics     []model.Topic   `json:"topics"`
		Pagination repository.Meta `json:"pagination"`
	}
	if err := c.do(ctx, http.MethodGet, "/topics", q, nil, &resp); err != nil {
		return nil, repository.Meta{}, err
	}
	return resp.Topics, resp.Pagination, nil
}

// GetTopic возвращает тему по идентификатору
func (c *Client) GetTopic(ctx context.Context, id string) (model.Topic, error) {
	var resp struct {
		Success bool        `json:"success"`
		Data    model.Topic `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/topics/"+id, nil, nil, &resp); err != nil {
		return model.Topic{}, err
	}
	return resp.Data, nil
}

// CreateTopic создает тему на сервере
func (c *Client) CreateTopic(ctx context.Context, topic model.Topic) (model.Topic, error) {
	var resp struct {
		Success bool        `json:"success"`
		Data    model.Topic `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/topics", nil, topic, &resp); err != nil {
		return model.Topic{}, err
	}
	return resp.Data, nil
}

// UpdateTopic обновляет тему на сервере
func (c *Client) UpdateTopic(ctx context.Context, id string, topic model.Topic) (model.Topic, error) {
	var resp struct {
		Success bool        `json:"success"`
		Data    model.Topic `json:"data"`
	}
	if err := c.do(ctx, http.MethodPut, "/topics/"+id, nil, topic, &resp); err != nil {
		return model.Topic{}, err
	}
	return resp.Data, nil
}

// DeleteTopic удаляет тему на сервере
func (c *Client) DeleteTopic(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/topics/"+id, nil, nil, nil)
}

// Subjects возвращает список всех предметов для фильтров
func (c *Client) Subjects(ctx context.Context) ([]string, error) {
	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Subjects []string `json:"subjects"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/topics/subjects", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data.Subjects, nil
}

// GenerateTopic запрашивает у сервера AI-генерацию темы дебатов
func (c *Client) GenerateTopic(ctx context.Context, req model.TopicGenerationRequest) (model.GeneratedTopic, error) {
	var resp struct {
		Success bool                 `json:"success"`
		Data    model.GeneratedTopic `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/generate/topic", nil, req, &resp); err != nil {
		return model.GeneratedTopic{}, err
	}
	return resp.Data, nil
}

// GenerateArguments запрашивает у сервера AI-генерацию аргументов
func (c *Client) GenerateArguments(ctx context.Context, req model.ArgumentGenerationRequest) (model.GeneratedArguments, error) {
	var resp struct {
		Success bool                     `json:"success"`
		Data    model.GeneratedArguments `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/generate/arguments", nil, req, &resp); err != nil {
		return model.GeneratedArguments{}, err
	}
	return resp.Data, nil
}
