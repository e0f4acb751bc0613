package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"debate-server/internal/model"
	"debate-server/internal/repository"
)

// fakeScenarioRepo — управляемая из теста реализация ScenarioRepository
type fakeScenarioRepo struct {
	createFn func(ctx context.Context, s model.Scenario) (model.Scenario, error)
	getFn    func(ctx context.Context, id string) (model.Scenario, error)
	listFn   func(ctx context.Context, page repository.Page, search string) ([]model.Scenario, repository.Meta, error)
	updateFn func(ctx context.Context, id string, s model.Scenario) (model.Scenario, error)
	deleteFn func(ctx context.Context, id string) error
}

func (f *fakeScenarioRepo) Create(ctx context.Context, s model.Scenario) (model.Scenario, error) {
	return f.createFn(ctx, s)
}

func (f *fakeScenarioRepo) GetByID(ctx context.Context, id string) (model.Scenario, error) {
	return f.getFn(ctx, id)
}

func (f *fakeScenarioRepo) List(ctx context.Context, page repository.Page, search string) ([]model.Scenario, repository.Meta, error) {
	return f.listFn(ctx, page, search)
}

func (f *fakeScenarioRepo) Update(ctx context.Context, id string, s model.Scenario) (model.Scenario, error) {
	return f.updateFn(ctx, id, s)
}

func (f *fakeScenarioRepo) Delete(ctx context.Context, id string) error {
	return f.deleteFn(ctx, id)
}

// fakeTopicRepo — управляемая из теста реализация TopicRepository
type fakeTopicRepo struct {
	createFn   func(ctx context.Context, topic model.Topic) (model.Topic, error)
	getFn      func(ctx context.Context, id string) (model.Topic, error)
	listFn     func(ctx context.Context, page repository.Page, filter repository.TopicFilter) ([]model.Topic, repository.Meta, error)
	updateFn   func(ctx context.Context, id string, topic model.Topic) (model.Topic, error)
	deleteFn   func(ctx context.Context, id string) error
	subjectsFn func(ctx context.Context) ([]string, error)
}

func (f *fakeTopicRepo) Create(ctx context.Context, topic model.Topic) (model.Topic, error) {
	return f.createFn(ctx, topic)
}

func (f *fakeTopicRepo) GetByID(ctx context.Context, id string) (model.Topic, error) {
	return f.getFn(ctx, id)
}

func (f *fakeTopicRepo) List(ctx context.Context, page repository.Page, filter repository.TopicFilter) ([]model.Topic, repository.Meta, error) {
	return f.listFn(ctx, page, filter)
}

func (f *fakeTopicRepo) Update(ctx context.Context, id string, topic model.Topic) (model.Topic, error) {
	return f.updateFn(ctx, id, topic)
}

func (f *fakeTopicRepo) Delete(ctx context.Context, id string) error {
	return f.deleteFn(ctx, id)
}

func (f *fakeTopicRepo) Subjects(ctx context.Context) ([]string, error) {
	return f.subjectsFn(ctx)
}

// fakeGenerator — управляемая из теста реализация Generator
type fakeGenerator struct {
	topicFn     func(ctx context.Context, req model.TopicGenerationRequest) (*model.GeneratedTopic, error)
	argumentsFn func(ctx context.Context, req model.ArgumentGenerationRequest) (*model.GeneratedArguments, error)
}

func (f *fakeGenerator) GenerateTopic(ctx context.Context, req model.TopicGenerationRequest) (*model.GeneratedTopic, error) {
	return f.topicFn(ctx, req)
}

func (f *fakeGenerator) GenerateArguments(ctx context.Context, req model.ArgumentGenerationRequest) (*model.GeneratedArguments, error) {
	return f.argumentsFn(ctx, req)
}

// newTestServer поднимает httptest-сервер с обработчиками поверх фейков
func newTestServer(t *testing.T, scenarios repository.ScenarioRepository, topics repository.TopicRepository, generator Generator) *httptest.Server {
	t.Helper()

	handler := New(scenarios, topics, generator, false)
	router := mux.NewRouter()
	handler.RegisterRoutes(router.PathPrefix("/api").Subrouter())

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

// newRecorderRequest прогоняет запрос через обработчик без реального сервера
func newRecorderRequest(t *testing.T, handler *Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()

	router := mux.NewRouter()
	handler.RegisterRoutes(router.PathPrefix("/api").Subrouter())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	router.ServeHTTP(rec, req)
	return rec
}

// doJSON выполняет запрос и декодирует тело ответа в out
func doJSON(t *testing.T, method, url string, body interface{}, out interface{}) int {
	t.Helper()

	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reqBody)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}
