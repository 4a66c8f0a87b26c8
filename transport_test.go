package questionbank

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPTransportList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/questions", r.URL.Path)
		w.Write([]byte(`{"code":0,"msg":"success","data":[
			{"id":1,"title":"t","answers":["A.x"],"right":["A"],"type_id":1,"difficulty":2,"is_ai":1,"language":"go","keyword":"k","active":1}
		]}`))
	}))
	defer server.Close()

	env := NewHTTPTransport(server.URL+"/api/", nil).List(context.Background())
	require.True(t, env.OK())
	require.Len(t, env.Data, 1)
	assert.Equal(t, 1, env.Data[0].ID)
	assert.Equal(t, DifficultyMedium, env.Data[0].Difficulty)
	assert.True(t, env.Data[0].FromAI())
}

func TestHTTPTransportAddOmitsIdentity(t *testing.T) {
	var body map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/questions/add", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Write([]byte(`{"code":0,"msg":"question added","data":{"id":12}}`))
	}))
	defer server.Close()

	q := Question{ID: 99, Title: "write quicksort", Type: TypeCoding, Answers: []string{"x"}, Active: 1}
	env := NewHTTPTransport(server.URL+"/api", nil).Add(context.Background(), q)

	require.True(t, env.OK())
	assert.NotContains(t, body, "id")
	assert.NotContains(t, body, "active")
	assert.Equal(t, []interface{}{}, body["answers"], "coding questions send empty options")
	assert.Equal(t, float64(3), body["type_id"])
}

func TestHTTPTransportServerFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"code":-108,"msg":"question not found or deleted","data":null}`))
	}))
	defer server.Close()

	env := NewHTTPTransport(server.URL, nil).Delete(context.Background(), Question{ID: 3})
	assert.False(t, env.OK())
	assert.Equal(t, -108, env.Code)
	assert.Equal(t, "question not found or deleted", env.Message("delete failed"))

	var serverErr *ServerError
	require.ErrorAs(t, env.Err(), &serverErr)
	assert.Equal(t, -108, serverErr.Code)
}

func TestHTTPTransportNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	env := NewHTTPTransport(url, nil).List(context.Background())
	assert.Equal(t, CodeNetworkError, env.Code)
	assert.Equal(t, "network error", env.Message("whatever"))
	assert.ErrorIs(t, env.Err(), ErrNetwork)
	assert.Nil(t, env.Data)
}

func TestHTTPTransportMalformedReply(t *testing.T) {
	replies := []string{
		`<html>bad gateway</html>`,
		`{"msg":"no code"}`,
		`{"code":0,"data":"not a list"}`,
	}
	for _, reply := range replies {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(reply))
		}))

		env := NewHTTPTransport(server.URL, nil).List(context.Background())
		assert.Equal(t, CodeNetworkError, env.Code, reply)
		server.Close()
	}
}

func TestHTTPTransportGenerate(t *testing.T) {
	var params GenerateParams
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/questions/create", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&params))
		w.Write([]byte(`{"code":0,"msg":"success","data":[{"title":"a","answers":[],"right":[],"type_id":3,"difficulty":1,"is_ai":1,"language":"go","keyword":"sorting","active":1}]}`))
	}))
	defer server.Close()

	want := GenerateParams{Number: 1, Language: LanguageGo, Type: TypeCoding, Difficulty: DifficultyEasy, Keyword: "sorting"}
	env := NewHTTPTransport(server.URL, nil).Generate(context.Background(), want)

	require.True(t, env.OK())
	assert.Equal(t, want, params)
	require.Len(t, env.Data, 1)
	assert.False(t, env.Data[0].Persisted())
}

func TestEnvelopeJSONOmitsUnsavedID(t *testing.T) {
	data, err := json.Marshal(Question{Title: "x"})
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"id"`)
}
