package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"questionbank"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubSource returns fixed candidates or an error
type stubSource struct {
	questions []questionbank.Question
	err       error
	params    questionbank.GenerateParams
}

func (s *stubSource) Generate(ctx context.Context, params questionbank.GenerateParams) ([]questionbank.Question, error) {
	s.params = params
	return s.questions, s.err
}

type apiReply struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func doRequest(t *testing.T, h http.Handler, method, path string, body interface{}) (int, apiReply) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var reply apiReply
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reply), w.Body.String())
	return w.Code, reply
}

func newTestServer(t *testing.T, source QuestionSource) (*Server, *Store) {
	t.Helper()
	store := setupTestStore(t)
	return NewServer(store, source), store
}

func TestServerAddAndList(t *testing.T) {
	server, _ := newTestServer(t, nil)
	h := server.Handler()

	status, reply := doRequest(t, h, http.MethodPost, "/api/questions/add", map[string]interface{}{
		"title":      "Which keyword declares a constant?",
		"answers":    []string{"A.var", "B.const"},
		"right":      []string{"B"},
		"type_id":    1,
		"difficulty": 1,
		"is_ai":      0,
		"language":   "go",
		"keyword":    "constants",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 0, reply.Code)
	assert.JSONEq(t, `{"id":1}`, string(reply.Data))

	status, reply = doRequest(t, h, http.MethodGet, "/api/questions", nil)
	require.Equal(t, http.StatusOK, status)
	var questions []questionbank.Question
	require.NoError(t, json.Unmarshal(reply.Data, &questions))
	require.Len(t, questions, 1)
	assert.Equal(t, "constants", questions[0].Keyword)
	assert.Equal(t, 1, questions[0].Active)
}

func TestServerAddValidation(t *testing.T) {
	server, _ := newTestServer(t, nil)
	h := server.Handler()

	base := func() map[string]interface{} {
		return map[string]interface{}{
			"title":      "t",
			"answers":    []string{"A.x"},
			"right":      []string{"A"},
			"type_id":    1,
			"difficulty": 2,
			"language":   "go",
			"keyword":    "k",
		}
	}

	tests := []struct {
		name   string
		modify func(map[string]interface{})
		code   int
	}{
		{"missing title", func(b map[string]interface{}) { delete(b, "title") }, CodeInvalidTitle},
		{"bad language", func(b map[string]interface{}) { b["language"] = "rust" }, CodeInvalidLanguage},
		{"bad type", func(b map[string]interface{}) { b["type_id"] = 7 }, CodeInvalidType},
		{"missing keyword", func(b map[string]interface{}) { b["keyword"] = "" }, CodeInvalidKeyword},
		{"bad difficulty", func(b map[string]interface{}) { b["difficulty"] = 9 }, CodeInvalidLevel},
		{"choice without options", func(b map[string]interface{}) { b["answers"] = []string{} }, CodeMissingOptions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := base()
			tt.modify(body)
			status, reply := doRequest(t, h, http.MethodPost, "/api/questions/add", body)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, tt.code, reply.Code)
			assert.NotEmpty(t, reply.Msg)
		})
	}

	status, reply := doRequest(t, h, http.MethodPost, "/api/questions/add", "{not json")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, CodeBadRequest, reply.Code)
}

func TestServerEdit(t *testing.T) {
	server, store := newTestServer(t, nil)
	h := server.Handler()

	q := choiceQuestion("before")
	q.IsAI = 1
	id, err := store.Insert(q)
	require.NoError(t, err)

	edited := choiceQuestion("after")
	edited.ID = id
	edited.Type = questionbank.TypeCoding
	status, reply := doRequest(t, h, http.MethodPost, "/api/questions/edit", edited)
	require.Equal(t, http.StatusOK, status, reply.Msg)
	assert.Equal(t, "question updated", reply.Msg)

	got, err := store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "after", got.Title)
	assert.Equal(t, questionbank.TypeCoding, got.Type)
	assert.Empty(t, got.Answers, "switching to coding drops the options")
	assert.Equal(t, 1, got.IsAI)

	noID := choiceQuestion("x")
	status, reply = doRequest(t, h, http.MethodPost, "/api/questions/edit", noID)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, CodeMissingID, reply.Code)

	missing := choiceQuestion("x")
	missing.ID = 404
	status, reply = doRequest(t, h, http.MethodPost, "/api/questions/edit", missing)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, CodeNotFound, reply.Code)
}

func TestServerDelete(t *testing.T) {
	server, store := newTestServer(t, nil)
	h := server.Handler()

	id, err := store.Insert(choiceQuestion("doomed"))
	require.NoError(t, err)

	status, reply := doRequest(t, h, http.MethodPost, "/api/questions/delete", map[string]int{"id": id})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 0, reply.Code)

	questions, err := store.ListActive()
	require.NoError(t, err)
	assert.Empty(t, questions)

	status, reply = doRequest(t, h, http.MethodPost, "/api/questions/delete", map[string]int{"id": id})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, CodeNotFound, reply.Code)

	_, reply = doRequest(t, h, http.MethodPost, "/api/questions/delete", map[string]int{})
	assert.Equal(t, CodeMissingID, reply.Code)
}

func TestServerGenerate(t *testing.T) {
	source := &stubSource{questions: []questionbank.Question{
		{Title: "Implement insertion sort", Type: questionbank.TypeCoding, IsAI: 1, Active: 1},
	}}
	server, store := newTestServer(t, source)
	h := server.Handler()

	params := map[string]interface{}{"number": 1, "language": "python", "type": 3, "difficulty": 2, "keyword": "sorting"}
	status, reply := doRequest(t, h, http.MethodPost, "/api/questions/create", params)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 0, reply.Code)
	assert.Equal(t, questionbank.LanguagePython, source.params.Language)

	var questions []questionbank.Question
	require.NoError(t, json.Unmarshal(reply.Data, &questions))
	require.Len(t, questions, 1)

	stored, err := store.ListActive()
	require.NoError(t, err)
	assert.Empty(t, stored, "generation never persists")
}

func TestServerGenerateValidation(t *testing.T) {
	server, _ := newTestServer(t, &stubSource{})
	h := server.Handler()

	tests := []struct {
		name   string
		params map[string]interface{}
		code   int
	}{
		{"number too large", map[string]interface{}{"number": 11, "language": "go", "type": 1, "difficulty": 1, "keyword": "k"}, CodeInvalidNumber},
		{"bad language", map[string]interface{}{"number": 1, "language": "cobol", "type": 1, "difficulty": 1, "keyword": "k"}, CodeInvalidLanguage},
		{"bad type", map[string]interface{}{"number": 1, "language": "go", "type": 0, "difficulty": 1, "keyword": "k"}, CodeInvalidType},
		{"missing keyword", map[string]interface{}{"number": 1, "language": "go", "type": 1, "difficulty": 1}, CodeInvalidKeyword},
		{"bad difficulty", map[string]interface{}{"number": 1, "language": "go", "type": 1, "difficulty": 4, "keyword": "k"}, CodeInvalidLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, reply := doRequest(t, h, http.MethodPost, "/api/questions/create", tt.params)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, tt.code, reply.Code)
		})
	}
}

func TestServerGenerateFailures(t *testing.T) {
	params := map[string]interface{}{"number": 1, "language": "go", "type": 1, "difficulty": 1, "keyword": "k"}

	server, _ := newTestServer(t, nil)
	status, reply := doRequest(t, server.Handler(), http.MethodPost, "/api/questions/create", params)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, CodeAIUnconfigured, reply.Code)

	server, _ = newTestServer(t, &stubSource{err: errors.New("model overloaded")})
	status, reply = doRequest(t, server.Handler(), http.MethodPost, "/api/questions/create", params)
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, CodeAIFailed, reply.Code)
	assert.Contains(t, reply.Msg, "model overloaded")
}

func TestRequestIDMiddleware(t *testing.T) {
	server, _ := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc")
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	server.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestMergeEdit(t *testing.T) {
	existing := choiceQuestion("stored")
	existing.ID = 3
	existing.IsAI = 1

	merged := mergeEdit(existing, questionbank.Question{ID: 3, Title: "changed"})
	assert.Equal(t, "changed", merged.Title)
	assert.Equal(t, existing.Keyword, merged.Keyword, "blank fields keep the stored value")
	assert.Equal(t, existing.Answers, merged.Answers)
	assert.Equal(t, 1, merged.IsAI)
}
