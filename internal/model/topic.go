package model

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SubjectAll — сентинельное значение фильтра по предмету, означающее "все предметы"
const SubjectAll = "all"

// Topic представляет переиспользуемую тему дебатов с аргументами и материалами для учителя
type Topic struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title            string             `bson:"title" json:"title"`
	Background       string             `bson:"background" json:"background"`
	Grade            string             `bson:"grade" json:"grade"`
	ProArguments     []string           `bson:"pro_arguments" json:"proArguments"`
	ConArguments     []string           `bson:"con_arguments" json:"conArguments"`
	TeacherTips      string             `bson:"teacher_tips" json:"teacherTips"`
	KeyQuestions     []string           `bson:"key_questions" json:"keyQuestions"`
	ExpectedOutcomes []string           `bson:"expected_outcomes" json:"expectedOutcomes"`
	Subjects         []string           `bson:"subjects" json:"subjects"`
	UseCount         int                `bson:"use_count" json:"useCount"`
	CreatedAt        time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updated_at" json:"updatedAt"`
}

// ValidateForCreate проверяет обязательные поля темы.
// Перечисляет все отсутствующие или невалидные поля разом.
func (t *Topic) ValidateForCreate() []string {
	var invalid []string
	if strings.TrimSpace(t.Title) == "" {
		invalid = append(invalid, "title")
	}
	if strings.TrimSpace(t.Background) == "" {
		invalid = append(invalid, "background")
	}
	if strings.TrimSpace(t.Grade) == "" {
		invalid = append(invalid, "grade")
	}
	if strings.TrimSpace(t.TeacherTips) == "" {
		invalid = append(invalid, "teacherTips")
	}
	if len(t.ProArguments) == 0 {
		invalid = append(invalid, "proArguments")
	}
	if len(t.ConArguments) == 0 {
		invalid = append(invalid, "conArguments")
	}
	if len(t.KeyQuestions) == 0 {
		invalid = append(invalid, "keyQuestions")
	}
	if len(t.ExpectedOutcomes) == 0 {
		invalid = append(invalid, "expectedOutcomes")
	}
	if len(t.Subjects) == 0 {
		invalid = append(invalid, "subjects")
	}
	return invalid
}
