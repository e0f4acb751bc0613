package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validTopic() Topic {
	return Topic{
		Title:            "초등학교 교복 도입",
		Background:       "교복 도입을 둘러싼 찬반 논쟁",
		Grade:            "5-6",
		ProArguments:     []string{"소속감을 높인다"},
		ConArguments:     []string{"개성을 제한한다"},
		TeacherTips:      "양측 의견을 고르게 듣도록 지도",
		KeyQuestions:     []string{"교복이 꼭 필요한가?"},
		ExpectedOutcomes: []string{"근거를 들어 주장하기"},
		Subjects:         []string{"사회"},
	}
}

func TestTopicValidateForCreate(t *testing.T) {
	topic := validTopic()
	assert.Empty(t, topic.ValidateForCreate())
}

func TestTopicValidateEnumeratesAllMissingFields(t *testing.T) {
	// Пустая тема: каждое обязательное поле должно попасть в список
	var topic Topic
	fields := topic.ValidateForCreate()

	expected := []string{
		"title", "background", "grade", "teacherTips",
		"proArguments", "conArguments", "keyQuestions", "expectedOutcomes", "subjects",
	}
	assert.ElementsMatch(t, expected, fields)
}

func TestTopicValidateRequiresNonEmptyArrays(t *testing.T) {
	topic := validTopic()
	topic.ProArguments = []string{}
	topic.Subjects = nil

	fields := topic.ValidateForCreate()
	assert.ElementsMatch(t, []string{"proArguments", "subjects"}, fields)
}
