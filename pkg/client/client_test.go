package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"debate-server/internal/model"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{
		BaseURL: srv.URL,
		Timeout: 2 * time.Second,
	})
}

func TestGetScenarioUnwrapsEnvelope(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/scenarios/64f1b2a3c4d5e6f708192a3b", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"title":                "기초 연금 지급 대상 확대",
				"totalDurationMinutes": 40,
			},
		})
	}))

	scenario, err := c.GetScenario(context.Background(), "64f1b2a3c4d5e6f708192a3b")
	require.NoError(t, err)
	assert.Equal(t, "기초 연금 지급 대상 확대", scenario.Title)
	assert.Equal(t, 40, scenario.TotalDurationMinutes)
}

func TestListScenariosSendsPagination(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		assert.Equal(t, "연금", r.URL.Query().Get("search"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data":    []interface{}{},
			"meta":    map[string]interface{}{"total": 7, "page": 2, "limit": 5, "pages": 2},
		})
	}))

	scenarios, meta, err := c.ListScenarios(context.Background(), 2, 5, "연금")
	require.NoError(t, err)
	assert.Empty(t, scenarios)
	assert.Equal(t, int64(7), meta.Total)
	assert.Equal(t, 2, meta.Pages)
}

// 400 — окончательная ошибка, повторы бессмысленны
func TestBadRequestIsNotRetried(t *testing.T) {
	var calls int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "валидация запроса не пройдена",
			"errors":  []string{"title", "totalDurationMinutes"},
		})
	}))

	_, err := c.CreateScenario(context.Background(), model.Scenario{})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, []string{"title", "totalDurationMinutes"}, apiErr.Fields)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

// 5xx повторяется до первого успеха. MaxRetries — это повторы после
// первой попытки: при значении по умолчанию (3) клиент переживает
// три сбоя подряд и добивается успеха на четвертой попытке.
func TestServerErrorIsRetried(t *testing.T) {
	var calls int32
	c := New(Config{Timeout: 2 * time.Second})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data":    map[string]interface{}{"title": "기초 연금 지급 대상 확대"},
		})
	}))
	defer srv.Close()
	c.baseURL = srv.URL
	c.policy.BaseDelay = time.Millisecond

	scenario, err := c.GetScenario(context.Background(), "64f1b2a3c4d5e6f708192a3b")
	require.NoError(t, err)
	assert.Equal(t, "기초 연금 지급 대상 확대", scenario.Title)
	assert.Equal(t, int32(4), atomic.LoadInt32(&calls))
}

func TestServerErrorExhaustsRetries(t *testing.T) {
	var calls int32
	c := New(Config{Timeout: time.Second, MaxRetries: 2})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "внутренняя ошибка сервера",
		})
	}))
	defer srv.Close()
	c.baseURL = srv.URL
	c.policy.BaseDelay = time.Millisecond

	_, err := c.GetScenario(context.Background(), "64f1b2a3c4d5e6f708192a3b")

	// Два повтора после первой попытки — всего три вызова
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestGenerationErrorCarriesCode(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"code":    "INVALID_API_KEY",
			"message": "недействительный API ключ",
		})
	}))

	_, err := c.GenerateTopic(context.Background(), model.TopicGenerationRequest{Subject: "사회"})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "INVALID_API_KEY", apiErr.Code)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}

func TestSubjects(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/topics/subjects", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data":    map[string]interface{}{"subjects": []string{"과학", "사회"}},
		})
	}))

	subjects, err := c.Subjects(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"과학", "사회"}, subjects)
}

// Серверный бэкенд хранилища постранично собирает полный список
func TestScenarioStoreListPagesThrough(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		data := []map[string]interface{}{{"title": "사본 " + strconv.Itoa(page)}}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data":    data,
			"meta":    map[string]interface{}{"total": 2, "page": page, "limit": backendPageSize, "pages": 2},
		})
	}))

	scenarios, err := c.ScenarioStore().List(context.Background())
	require.NoError(t, err)
	require.Len(t, scenarios, 2)
	assert.Equal(t, "사본 1", scenarios[0].Title)
	assert.Equal(t, "사본 2", scenarios[1].Title)
}
