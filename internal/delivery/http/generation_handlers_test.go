package http

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"debate-server/internal/model"
	"debate-server/pkg/ai"
)

func TestGenerateTopicSuccess(t *testing.T) {
	gen := &fakeGenerator{
		topicFn: func(ctx context.Context, req model.TopicGenerationRequest) (*model.GeneratedTopic, error) {
			assert.Equal(t, "사회", req.Subject)
			assert.Equal(t, "5-6", req.GradeGroup)
			return &model.GeneratedTopic{
				Title:            "초등학생 스마트폰 사용 제한",
				Background:       "학교 내 스마트폰 사용을 둘러싼 논쟁",
				ProArguments:     []string{"수업 집중에 도움"},
				ConArguments:     []string{"긴급 연락이 어려움"},
				TeacherTips:      "실제 경험을 나누도록 유도",
				KeyQuestions:     []string{"스마트폰은 학습 도구인가?"},
				ExpectedOutcomes: []string{"근거 기반 토론"},
			}, nil
		},
	}
	srv := newTestServer(t, nil, nil, gen)

	var resp GeneratedTopicResponse
	status := doJSON(t, http.MethodPost, srv.URL+"/api/generate/topic",
		model.TopicGenerationRequest{Subject: "사회", GradeGroup: "5-6"}, &resp)

	assert.Equal(t, http.StatusOK, status)
	assert.True(t, resp.Success)
	assert.Equal(t, "초등학생 스마트폰 사용 제한", resp.Data.Title)
	require.NotEmpty(t, resp.Data.ProArguments)
}

func TestGenerateTopicRequiresSubject(t *testing.T) {
	srv := newTestServer(t, nil, nil, &fakeGenerator{})

	var resp ErrorResponse
	status := doJSON(t, http.MethodPost, srv.URL+"/api/generate/topic",
		model.TopicGenerationRequest{}, &resp)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, []string{"subject"}, resp.Errors)
}

func TestGenerateArgumentsSuccess(t *testing.T) {
	gen := &fakeGenerator{
		argumentsFn: func(ctx context.Context, req model.ArgumentGenerationRequest) (*model.GeneratedArguments, error) {
			return &model.GeneratedArguments{
				ProArguments: []string{"찬성 근거"},
				ConArguments: []string{"반대 근거"},
			}, nil
		},
	}
	srv := newTestServer(t, nil, nil, gen)

	var resp GeneratedArgumentsResponse
	status := doJSON(t, http.MethodPost, srv.URL+"/api/generate/arguments",
		model.ArgumentGenerationRequest{Topic: "초등학교 교복 도입"}, &resp)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"찬성 근거"}, resp.Data.ProArguments)
	assert.Equal(t, []string{"반대 근거"}, resp.Data.ConArguments)
}

// Каждая сентинельная ошибка генерации должна давать свой статус и код
func TestGenerateTopicErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"missing key", ai.ErrMissingAPIKey, http.StatusServiceUnavailable, "MISSING_API_KEY"},
		{"invalid key", ai.ErrInvalidAPIKey, http.StatusUnauthorized, "INVALID_API_KEY"},
		{"timeout", ai.ErrGenerateTimeout, http.StatusRequestTimeout, "TIMEOUT"},
		{"parse failure", ai.ErrParseFailure, http.StatusBadGateway, "PARSE_ERROR"},
		{"provider down", ai.ErrProviderUnavailable, http.StatusServiceUnavailable, "PROVIDER_UNAVAILABLE"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gen := &fakeGenerator{
				topicFn: func(ctx context.Context, req model.TopicGenerationRequest) (*model.GeneratedTopic, error) {
					return nil, tc.err
				},
			}
			srv := newTestServer(t, nil, nil, gen)

			var resp ErrorResponse
			status := doJSON(t, http.MethodPost, srv.URL+"/api/generate/topic",
				model.TopicGenerationRequest{Subject: "과학"}, &resp)

			assert.Equal(t, tc.wantStatus, status)
			assert.Equal(t, tc.wantCode, resp.Code)
			assert.False(t, resp.Success)
		})
	}
}
