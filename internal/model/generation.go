package model

import "strings"

// TopicGenerationRequest — запрос на генерацию темы дебатов через AI
type TopicGenerationRequest struct {
	Subject    string   `json:"subject"`
	Keywords   []string `json:"keywords,omitempty"`
	GradeGroup string   `json:"gradeGroup,omitempty"`
}

// ArgumentGenerationRequest — запрос на генерацию аргументов за/против для темы
type ArgumentGenerationRequest struct {
	Topic      string `json:"topic"`
	GradeGroup string `json:"gradeGroup,omitempty"`
}

// GeneratedTopic — структура, которую модель обязана вернуть при генерации темы
type GeneratedTopic struct {
	Title            string   `json:"title"`
	Background       string   `json:"background"`
	ProArguments     []string `json:"proArguments"`
	ConArguments     []string `json:"conArguments"`
	TeacherTips      string   `json:"teacherTips"`
	KeyQuestions     []string `json:"keyQuestions"`
	ExpectedOutcomes []string `json:"expectedOutcomes"`
}

// GeneratedArguments — результат генерации аргументов для заданной темы
type GeneratedArguments struct {
	ProArguments []string `json:"proArguments"`
	ConArguments []string `json:"conArguments"`
}

// Validate проверяет запрос генерации темы
func (r *TopicGenerationRequest) Validate() []string {
	var invalid []string
	if strings.TrimSpace(r.Subject) == "" {
		invalid = append(invalid, "subject")
	}
	return invalid
}

// Validate проверяет запрос генерации аргументов
func (r *ArgumentGenerationRequest) Validate() []string {
	var invalid []string
	if strings.TrimSpace(r.Topic) == "" {
		invalid = append(invalid, "topic")
	}
	return invalid
}
