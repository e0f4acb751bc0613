package http

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"debate-server/internal/model"
	"debate-server/internal/repository"
)

func testTopic() model.Topic {
	return model.Topic{
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

func TestCreateTopicReturns201(t *testing.T) {
	repo := &fakeTopicRepo{
		createFn: func(ctx context.Context, topic model.Topic) (model.Topic, error) {
			topic.ID = primitive.NewObjectID()
			return topic, nil
		},
	}
	srv := newTestServer(t, nil, repo, nil)

	var resp TopicResponse
	status := doJSON(t, http.MethodPost, srv.URL+"/api/topics", testTopic(), &resp)

	assert.Equal(t, http.StatusCreated, status)
	assert.True(t, resp.Success)
	assert.Equal(t, "초등학교 교복 도입", resp.Data.Title)
}

func TestCreateTopicValidationEnumeratesEveryField(t *testing.T) {
	srv := newTestServer(t, nil, &fakeTopicRepo{}, nil)

	// Пустое тело: в ответе перечислены все обязательные поля
	var resp ErrorResponse
	status := doJSON(t, http.MethodPost, srv.URL+"/api/topics", model.Topic{}, &resp)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.ElementsMatch(t, []string{
		"title", "background", "grade", "teacherTips",
		"proArguments", "conArguments", "keyQuestions", "expectedOutcomes", "subjects",
	}, resp.Errors)
}

func TestListTopicsEnvelopeShape(t *testing.T) {
	repo := &fakeTopicRepo{
		listFn: func(ctx context.Context, page repository.Page, filter repository.TopicFilter) ([]model.Topic, repository.Meta, error) {
			assert.Equal(t, "교복", filter.Query)
			assert.Equal(t, "사회", filter.Subject)
			return []model.Topic{testTopic()}, repository.Meta{Total: 1, Page: 1, Limit: 10, Pages: 1}, nil
		},
	}
	srv := newTestServer(t, nil, repo, nil)

	// Конверт списка тем исторически другой: topics + pagination
	var resp TopicListResponse
	status := doJSON(t, http.MethodGet, srv.URL+"/api/topics?q=%EA%B5%90%EB%B3%B5&subject=%EC%82%AC%ED%9A%8C", nil, &resp)

	assert.Equal(t, http.StatusOK, status)
	require.Len(t, resp.Topics, 1)
	assert.Equal(t, int64(1), resp.Pagination.Total)
}

func TestListSubjects(t *testing.T) {
	repo := &fakeTopicRepo{
		subjectsFn: func(ctx context.Context) ([]string, error) {
			return []string{"과학", "사회"}, nil
		},
	}
	srv := newTestServer(t, nil, repo, nil)

	var resp SubjectsResponse
	status := doJSON(t, http.MethodGet, srv.URL+"/api/topics/subjects", nil, &resp)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"과학", "사회"}, resp.Data.Subjects)
}

func TestDeleteTopicNotFound(t *testing.T) {
	repo := &fakeTopicRepo{
		deleteFn: func(ctx context.Context, id string) error {
			return repository.ErrNotFound
		},
	}
	srv := newTestServer(t, nil, repo, nil)

	var resp ErrorResponse
	status := doJSON(t, http.MethodDelete, srv.URL+"/api/topics/64f1b2a3c4d5e6f708192a3b", nil, &resp)
	assert.Equal(t, http.StatusNotFound, status)
}
