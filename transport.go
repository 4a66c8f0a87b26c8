package questionbank

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Transport is the backend of the question bank. Implementations never
// return Go errors: every outcome, including connectivity failures, comes
// back as an Envelope.
type Transport interface {
	List(ctx context.Context) Envelope[[]Question]
	Generate(ctx context.Context, params GenerateParams) Envelope[[]Question]
	Add(ctx context.Context, q Question) Envelope[any]
	Edit(ctx context.Context, q Question) Envelope[any]
	Delete(ctx context.Context, q Question) Envelope[any]
}

// DefaultBaseURL is where the reference backend serves its API
const DefaultBaseURL = "http://localhost:8080/api"

// HTTPTransport talks to the JSON endpoints under BaseURL
type HTTPTransport struct {
	baseURL string
	client  *http.Client
}

// NewHTTPTransport creates a transport for the API rooted at baseURL.
// A nil client means http.DefaultClient.
func NewHTTPTransport(baseURL string, client *http.Client) *HTTPTransport {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPTransport{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// newQuestion is the Add payload: a question without id and active
type newQuestion struct {
	Title      string       `json:"title"`
	Answers    []string     `json:"answers"`
	Right      []string     `json:"right"`
	Type       QuestionType `json:"type_id"`
	Difficulty Difficulty   `json:"difficulty"`
	IsAI       int          `json:"is_ai"`
	Language   Language     `json:"language"`
	Keyword    string       `json:"keyword"`
}

func (t *HTTPTransport) List(ctx context.Context) Envelope[[]Question] {
	return call[[]Question](ctx, t, http.MethodGet, "/questions", nil)
}

func (t *HTTPTransport) Generate(ctx context.Context, params GenerateParams) Envelope[[]Question] {
	return call[[]Question](ctx, t, http.MethodPost, "/questions/create", params)
}

func (t *HTTPTransport) Add(ctx context.Context, q Question) Envelope[any] {
	q.Normalize()
	payload := newQuestion{
		Title:      q.Title,
		Answers:    q.Answers,
		Right:      q.Right,
		Type:       q.Type,
		Difficulty: q.Difficulty,
		IsAI:       q.IsAI,
		Language:   q.Language,
		Keyword:    q.Keyword,
	}
	return call[any](ctx, t, http.MethodPost, "/questions/add", payload)
}

func (t *HTTPTransport) Edit(ctx context.Context, q Question) Envelope[any] {
	return call[any](ctx, t, http.MethodPost, "/questions/edit", q)
}

func (t *HTTPTransport) Delete(ctx context.Context, q Question) Envelope[any] {
	return call[any](ctx, t, http.MethodPost, "/questions/delete", q)
}

// call performs one request and decodes the envelope. The HTTP status is
// ignored; only the envelope code decides success.
func call[T any](ctx context.Context, t *HTTPTransport, method, path string, payload interface{}) Envelope[T] {
	start := time.Now()
	url := t.baseURL + path

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			VerboseLog("%s %s: failed to encode request: %v", method, path, err)
			return networkFailure[T]()
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		VerboseLog("%s %s: failed to build request: %v", method, path, err)
		return networkFailure[T]()
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := t.client.Do(req)
	if err != nil {
		VerboseLog("%s %s: request failed: %v", method, path, err)
		return networkFailure[T]()
	}
	defer resp.Body.Close()

	env, err := decodeEnvelope[T](resp.Body)
	if err != nil {
		VerboseLog("%s %s: status %d, undecodable reply: %v", method, path, resp.StatusCode, err)
		return networkFailure[T]()
	}

	VerboseLog("%s %s: status %d, code %d (%s)", method, path, resp.StatusCode, env.Code, time.Since(start))
	return env
}

func decodeEnvelope[T any](r io.Reader) (Envelope[T], error) {
	var raw struct {
		Code *int            `json:"code"`
		Msg  string          `json:"msg"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return Envelope[T]{}, fmt.Errorf("failed to decode envelope: %w", err)
	}
	if raw.Code == nil {
		return Envelope[T]{}, fmt.Errorf("envelope has no code")
	}

	env := Envelope[T]{Code: *raw.Code, Msg: raw.Msg}
	if *raw.Code != CodeOK {
		return env, nil
	}
	if len(raw.Data) > 0 && !bytes.Equal(raw.Data, []byte("null")) {
		if err := json.Unmarshal(raw.Data, &env.Data); err != nil {
			return Envelope[T]{}, fmt.Errorf("failed to decode envelope data: %w", err)
		}
	}
	return env, nil
}
