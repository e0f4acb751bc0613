package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"debate-server/internal/model"
)

// extractJSON вырезает JSON-объект из текстового ответа модели.
// Модели регулярно оборачивают JSON в markdown-ограждения или добавляют
// пояснительный текст до и после, поэтому берем от первой '{' до последней '}'.
func extractJSON(raw string) (string, error) {
	s := strings.TrimSpace(raw)

	// Снимаем markdown-ограждения ```json ... ```
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", fmt.Errorf("%w: в ответе нет JSON-объекта", ErrParseFailure)
	}
	return s[start : end+1], nil
}

// ParseGeneratedTopic разбирает ответ модели в структуру темы и проверяет
// наличие всех обязательных полей
func ParseGeneratedTopic(raw string) (*model.GeneratedTopic, error) {
	jsonText, err := extractJSON(raw)
	if err != nil {
		return nil, err
	}

	var topic model.GeneratedTopic
	if err := json.Unmarshal([]byte(jsonText), &topic); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailure, err)
	}

	var missing []string
	if strings.TrimSpace(topic.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(topic.Background) == "" {
		missing = append(missing, "background")
	}
	if len(topic.ProArguments) == 0 {
		missing = append(missing, "proArguments")
	}
	if len(topic.ConArguments) == 0 {
		missing = append(missing, "conArguments")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: отсутствуют поля %s", ErrParseFailure, strings.Join(missing, ", "))
	}
	return &topic, nil
}

// ParseGeneratedArguments разбирает ответ модели в структуру аргументов
func ParseGeneratedArguments(raw string) (*model.GeneratedArguments, error) {
	jsonText, err := extractJSON(raw)
	if err != nil {
		return nil, err
	}

	var args model.GeneratedArguments
	if err := json.Unmarshal([]byte(jsonText), &args); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailure, err)
	}

	if len(args.ProArguments) == 0 || len(args.ConArguments) == 0 {
		return nil, fmt.Errorf("%w: пустые списки аргументов", ErrParseFailure)
	}
	return &args, nil
}
