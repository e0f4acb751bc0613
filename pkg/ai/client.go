package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"debate-server/internal/model"
)

var log = zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger()

// Ошибки генерации. Обработчики транслируют их в коды из общей таксономии.
var (
	// ErrMissingAPIKey — ключ API не сконфигурирован
	ErrMissingAPIKey = errors.New("не указан API ключ для AI провайдера")
	// ErrInvalidAPIKey — провайдер отверг ключ API
	ErrInvalidAPIKey = errors.New("неверный API ключ")
	// ErrGenerateTimeout — генерация не уложилась в лимит времени
	ErrGenerateTimeout = errors.New("генерация превысила лимит времени")
	// ErrParseFailure — ответ модели не удалось разобрать в ожидаемую структуру
	ErrParseFailure = errors.New("не удалось разобрать ответ модели")
	// ErrProviderUnavailable — провайдер недоступен или вернул пустой ответ
	ErrProviderUnavailable = errors.New("AI провайдер недоступен")
)

const (
	topicSystemPrompt = `You are an assistant for elementary school teachers preparing classroom debates in Korean. ` +
		`Given a school subject, optional keywords and a grade group, propose one debate topic suitable for that grade. ` +
		`Respond with JSON only, no prose, using exactly these keys: ` +
		`title, background, proArguments, conArguments, teacherTips, keyQuestions, expectedOutcomes. ` +
		`proArguments, conArguments, keyQuestions and expectedOutcomes are arrays of strings with at least two elements each.`

	argumentSystemPrompt = `You are an assistant for elementary school teachers preparing classroom debates in Korean. ` +
		`Given a debate topic and an optional grade group, produce balanced arguments for both sides. ` +
		`Respond with JSON only, no prose, using exactly these keys: proArguments, conArguments. ` +
		`Both are arrays of strings with at least three elements each, phrased so that the target grade can understand them.`
)

// Client предоставляет интерфейс для генерации тем и аргументов дебатов через AI API
type Client struct {
	client      *openai.Client
	modelName   string
	timeout     time.Duration
	maxAttempts int
	hasKey      bool
}

// Config содержит конфигурацию для клиента AI
type Config struct {
	APIKey      string
	ModelName   string
	BaseURL     string
	Timeout     int
	MaxAttempts int
}

// New создает новый экземпляр клиента AI.
// Пустой APIKey не является ошибкой конструирования: клиент создается,
// но все вызовы генерации возвращают ErrMissingAPIKey.
func New(cfg Config) *Client {
	if cfg.ModelName == "" {
		cfg.ModelName = "gpt-4o-mini"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	return &Client{
		client:      openai.NewClientWithConfig(config),
		modelName:   cfg.ModelName,
		timeout:     time.Duration(cfg.Timeout) * time.Second,
		maxAttempts: cfg.MaxAttempts,
		hasKey:      cfg.APIKey != "",
	}
}

// GenerateTopic генерирует предложение темы дебатов по предмету и ключевым словам
func (c *Client) GenerateTopic(ctx context.Context, req model.TopicGenerationRequest) (*model.GeneratedTopic, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Subject: %s", req.Subject)
	if len(req.Keywords) > 0 {
		fmt.Fprintf(&sb, "\nKeywords: %s", strings.Join(req.Keywords, ", "))
	}
	if req.GradeGroup != "" {
		fmt.Fprintf(&sb, "\nGrade group: %s", req.GradeGroup)
	}

	raw, err := c.complete(ctx, topicSystemPrompt, sb.String())
	if err != nil {
		return nil, err
	}

	topic, err := ParseGeneratedTopic(raw)
	if err != nil {
		log.Error().Err(err).Str("raw", truncate(raw, 500)).Msg("failed to parse generated topic")
		return nil, err
	}
	return topic, nil
}

// GenerateArguments генерирует аргументы за и против для заданной темы
func (c *Client) GenerateArguments(ctx context.Context, req model.ArgumentGenerationRequest) (*model.GeneratedArguments, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Topic: %s", req.Topic)
	if req.GradeGroup != "" {
		fmt.Fprintf(&sb, "\nGrade group: %s", req.GradeGroup)
	}

	raw, err := c.complete(ctx, argumentSystemPrompt, sb.String())
	if err != nil {
		return nil, err
	}

	args, err := ParseGeneratedArguments(raw)
	if err != nil {
		log.Error().Err(err).Str("raw", truncate(raw, 500)).Msg("failed to parse generated arguments")
		return nil, err
	}
	return args, nil
}

// complete выполняет запрос завершения чата с повторами, как принято в проекте
func (c *Client) complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if !c.hasKey {
		return "", ErrMissingAPIKey
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: userPrompt,
			},
		},
		Temperature: 0.7,
		MaxTokens:   2000,
		TopP:        0.95,
	}

	attempts := 0
	for attempts < c.maxAttempts {
		attempts++

		resp, err := c.client.CreateChatCompletion(ctx, req)
		if err != nil {
			if classified := classifyAPIError(err); classified != nil {
				return "", classified
			}
			if attempts >= c.maxAttempts {
				return "", fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
			}
			continue
		}

		if len(resp.Choices) == 0 {
			if attempts >= c.maxAttempts {
				return "", fmt.Errorf("%w: пустой ответ от API", ErrProviderUnavailable)
			}
			continue
		}

		return resp.Choices[0].Message.Content, nil
	}

	return "", ErrProviderUnavailable
}

// classifyAPIError выделяет ошибки, которые нет смысла повторять
func classifyAPIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusUnauthorized {
		return ErrInvalidAPIKey
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrGenerateTimeout
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
