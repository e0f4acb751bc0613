package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MinTotalDuration — минимальная общая длительность сценария в минутах
const MinTotalDuration = 10

// Scenario представляет структурированный сценарий дебатов из трех этапов
type Scenario struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title                string             `bson:"title" json:"title"`
	TotalDurationMinutes int                `bson:"total_duration_minutes" json:"totalDurationMinutes"`
	GroupCount           *int               `bson:"group_count,omitempty" json:"groupCount,omitempty"`
	Stages               Stages             `bson:"stages" json:"stages"`
	AIGenerated          bool               `bson:"ai_generated" json:"aiGenerated"`
	Details              *ScenarioDetails   `bson:"details,omitempty" json:"scenarioDetails,omitempty"`
	CreatedAt            time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt            time.Time          `bson:"updated_at" json:"updatedAt"`
}

// Stages содержит три фиксированных этапа дебатов.
// Все три ключа присутствуют всегда, даже если список активностей пуст.
type Stages struct {
	Stage1 Stage `bson:"stage1" json:"stage1"`
	Stage2 Stage `bson:"stage2" json:"stage2"`
	Stage3 Stage `bson:"stage3" json:"stage3"`
}

// Stage представляет один педагогический этап сценария
type Stage struct {
	ID         string     `bson:"id" json:"id"`
	Title      string     `bson:"title" json:"title"`
	Activities []Activity `bson:"activities" json:"activities"`
}

// Activity представляет шаг внутри этапа с таймингом и подсказками для учителя
type Activity struct {
	ID              string   `bson:"id" json:"id"`
	Title           string   `bson:"title" json:"title"`
	DurationMinutes int      `bson:"duration_minutes" json:"durationMinutes"`
	Description     string   `bson:"description" json:"description"`
	TeacherPrompts  []string `bson:"teacher_prompts" json:"teacherPrompts"`
	MediaURL        string   `bson:"media_url,omitempty" json:"mediaUrl,omitempty"`
}

// ScenarioDetails содержит дополнительные материалы по теме дебатов
type ScenarioDetails struct {
	Background   string   `bson:"background" json:"background"`
	ProArguments []string `bson:"pro_arguments" json:"proArguments"`
	ConArguments []string `bson:"con_arguments" json:"conArguments"`
	TeacherTips  string   `bson:"teacher_tips" json:"teacherTips"`
	KeyQuestions []string `bson:"key_questions" json:"keyQuestions"`
}

// Ordered возвращает этапы в фиксированном порядке
func (s Stages) Ordered() []Stage {
	return []Stage{s.Stage1, s.Stage2, s.Stage3}
}

// defaultStageTitles — заголовки этапов по умолчанию
var defaultStageTitles = [3]string{"준비", "토론", "정리"}

// Normalize заполняет отсутствующие идентификаторы и гарантирует,
// что все три этапа присутствуют с непустым (возможно, пустым) списком активностей
func (s *Scenario) Normalize() {
	stages := []*Stage{&s.Stages.Stage1, &s.Stages.Stage2, &s.Stages.Stage3}
	for i, st := range stages {
		if st.ID == "" {
			st.ID = fmt.Sprintf("stage%d", i+1)
		}
		if st.Title == "" {
			st.Title = defaultStageTitles[i]
		}
		if st.Activities == nil {
			st.Activities = []Activity{}
		}
		for j := range st.Activities {
			if st.Activities[j].ID == "" {
				st.Activities[j].ID = uuid.NewString()
			}
			if st.Activities[j].TeacherPrompts == nil {
				st.Activities[j].TeacherPrompts = []string{}
			}
		}
	}
}

// ValidateForCreate проверяет поля, обязательные при создании сценария.
// Возвращает список всех невалидных полей, а не только первое.
func (s *Scenario) ValidateForCreate() []string {
	var invalid []string
	if strings.TrimSpace(s.Title) == "" {
		invalid = append(invalid, "title")
	}
	if s.TotalDurationMinutes < MinTotalDuration {
		invalid = append(invalid, "totalDurationMinutes")
	}
	if s.GroupCount != nil && *s.GroupCount <= 0 {
		invalid = append(invalid, "groupCount")
	}
	for _, st := range s.Stages.Ordered() {
		for _, a := range st.Activities {
			if a.DurationMinutes <= 0 {
				invalid = append(invalid, fmt.Sprintf("stages.%s.activities.%s.durationMinutes", st.ID, a.ID))
			}
		}
	}
	return invalid
}
