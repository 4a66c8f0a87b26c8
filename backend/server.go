package backend

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"questionbank"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Envelope codes returned by the API
const (
	CodeInvalidNumber   = -101
	CodeInvalidTitle    = -101
	CodeAIUnconfigured  = -101
	CodeInvalidLanguage = -102
	CodeAIFailed        = -102
	CodeInvalidType     = -103
	CodeStoreFailed     = -103
	CodeInvalidKeyword  = -104
	CodeListFailed      = -104
	CodeInvalidLevel    = -105
	CodeMissingID       = -106
	CodeLookupFailed    = -107
	CodeNotFound        = -108
	CodeMissingOptions  = -109
	CodeBadRequest      = -400
)

// Server exposes the question bank over the JSON API
type Server struct {
	store  *Store
	source QuestionSource
	engine *gin.Engine
}

// NewServer builds the router. A nil source makes /questions/create answer
// that AI generation is not configured.
func NewServer(store *Store, source QuestionSource) *Server {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.SetTagName("validate")
	}

	s := &Server{
		store:  store,
		source: source,
		engine: gin.New(),
	}
	s.engine.Use(gin.Logger(), gin.Recovery(), requestIDMiddleware())
	s.routes()
	return s
}

// Handler returns the HTTP handler of the API
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until the listener fails
func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func (s *Server) routes() {
	api := s.engine.Group("/api")
	{
		questions := api.Group("/questions")
		{
			questions.GET("", s.listQuestions)
			questions.POST("/create", s.generateQuestions)
			questions.POST("/add", s.addQuestion)
			questions.POST("/edit", s.editQuestion)
			questions.POST("/delete", s.deleteQuestion)
		}
	}

	s.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// questionRequest is the body of add and edit
type questionRequest struct {
	ID         int                       `json:"id"`
	Title      string                    `json:"title" validate:"required"`
	Answers    []string                  `json:"answers"`
	Right      []string                  `json:"right"`
	Type       questionbank.QuestionType `json:"type_id" validate:"required,oneof=1 2 3"`
	Difficulty questionbank.Difficulty   `json:"difficulty" validate:"required,oneof=1 2 3"`
	IsAI       int                       `json:"is_ai" validate:"oneof=0 1"`
	Language   questionbank.Language     `json:"language" validate:"required,oneof=go javascript java python c++"`
	Keyword    string                    `json:"keyword" validate:"required"`
}

func (r questionRequest) question() questionbank.Question {
	q := questionbank.Question{
		ID:         r.ID,
		Title:      r.Title,
		Answers:    r.Answers,
		Right:      r.Right,
		Type:       r.Type,
		Difficulty: r.Difficulty,
		IsAI:       r.IsAI,
		Language:   r.Language,
		Keyword:    r.Keyword,
	}
	q.Normalize()
	return q
}

func (s *Server) listQuestions(c *gin.Context) {
	questions, err := s.store.ListActive()
	if err != nil {
		log.Printf("Failed to list questions: %v", err)
		fail(c, http.StatusInternalServerError, CodeListFailed, "failed to query questions")
		return
	}
	ok(c, "success", questions)
}

func (s *Server) generateQuestions(c *gin.Context) {
	var params questionbank.GenerateParams
	if err := c.ShouldBindJSON(&params); err != nil {
		failValidation(c, err, generateFieldErrors)
		return
	}

	if s.source == nil {
		fail(c, http.StatusServiceUnavailable, CodeAIUnconfigured, "AI generation is not configured")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Minute)
	defer cancel()

	questions, err := s.source.Generate(ctx, params)
	if err != nil {
		log.Printf("Failed to generate questions (request %s): %v", RequestID(ctx), err)
		fail(c, http.StatusBadGateway, CodeAIFailed, err.Error())
		return
	}

	existing, err := s.store.ListActive()
	if err != nil {
		log.Printf("Failed to list questions for dedup: %v", err)
		fail(c, http.StatusInternalServerError, CodeListFailed, "failed to query questions")
		return
	}
	questions = NewQuestionDedup(existing).Filter(questions)
	if len(questions) == 0 {
		fail(c, http.StatusBadGateway, CodeAIFailed, "AI returned only questions already in the bank")
		return
	}
	ok(c, "success", questions)
}

func (s *Server) addQuestion(c *gin.Context) {
	var req questionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failValidation(c, err, questionFieldErrors)
		return
	}
	q := req.question()
	if !hasOptions(q) {
		fail(c, http.StatusBadRequest, CodeMissingOptions, "answers and right are required for choice questions")
		return
	}

	id, err := s.store.Insert(q)
	if err != nil {
		log.Printf("Failed to add question: %v", err)
		fail(c, http.StatusInternalServerError, CodeStoreFailed, "failed to save question")
		return
	}
	questionbank.VerboseLog("Added question %d (is_ai=%d)", id, q.IsAI)
	ok(c, "question added", gin.H{"id": id})
}

func (s *Server) editQuestion(c *gin.Context) {
	var req questionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failValidation(c, err, questionFieldErrors)
		return
	}
	if req.ID == 0 {
		fail(c, http.StatusBadRequest, CodeMissingID, "question id is required")
		return
	}

	existing, err := s.store.Get(req.ID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			fail(c, http.StatusNotFound, CodeNotFound, "question not found or deleted")
			return
		}
		log.Printf("Failed to look up question %d: %v", req.ID, err)
		fail(c, http.StatusInternalServerError, CodeLookupFailed, "failed to look up question")
		return
	}

	updated := mergeEdit(existing, req.question())
	if !hasOptions(updated) {
		fail(c, http.StatusBadRequest, CodeMissingOptions, "answers and right are required for choice questions")
		return
	}

	if err := s.store.Update(updated); err != nil {
		if errors.Is(err, ErrNotFound) {
			fail(c, http.StatusNotFound, CodeNotFound, "question not found or deleted")
			return
		}
		log.Printf("Failed to update question %d: %v", req.ID, err)
		fail(c, http.StatusInternalServerError, CodeStoreFailed, "failed to update question")
		return
	}
	ok(c, "question updated", nil)
}

func (s *Server) deleteQuestion(c *gin.Context) {
	var req struct {
		ID int `json:"id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, CodeBadRequest, "malformed request")
		return
	}
	if req.ID == 0 {
		fail(c, http.StatusBadRequest, CodeMissingID, "question id is required")
		return
	}

	if err := s.store.Deactivate(req.ID); err != nil {
		if errors.Is(err, ErrNotFound) {
			fail(c, http.StatusNotFound, CodeNotFound, "question not found or deleted")
			return
		}
		log.Printf("Failed to delete question %d: %v", req.ID, err)
		fail(c, http.StatusInternalServerError, CodeStoreFailed, "failed to delete question")
		return
	}
	ok(c, "question deleted", nil)
}

// mergeEdit overwrites existing with the edited record. Blank scalar fields
// keep their stored value; answers and right always follow the edited type.
func mergeEdit(existing, edited questionbank.Question) questionbank.Question {
	merged := existing
	if edited.Title != "" {
		merged.Title = edited.Title
	}
	if edited.Type != 0 {
		merged.Type = edited.Type
	}
	if edited.Difficulty != 0 {
		merged.Difficulty = edited.Difficulty
	}
	if edited.Language != "" {
		merged.Language = edited.Language
	}
	if edited.Keyword != "" {
		merged.Keyword = edited.Keyword
	}
	if merged.Type == questionbank.TypeCoding || len(edited.Answers) > 0 {
		merged.Answers = edited.Answers
	}
	if merged.Type == questionbank.TypeCoding || len(edited.Right) > 0 {
		merged.Right = edited.Right
	}
	merged.Normalize()
	return merged
}

func hasOptions(q questionbank.Question) bool {
	return q.Type == questionbank.TypeCoding || (len(q.Answers) > 0 && len(q.Right) > 0)
}

func ok(c *gin.Context, msg string, data interface{}) {
	c.JSON(http.StatusOK, questionbank.Success(msg, data))
}

func fail(c *gin.Context, status, code int, msg string) {
	c.JSON(status, questionbank.Failure[any](code, msg))
}

type fieldError struct {
	code int
	msg  string
}

var generateFieldErrors = map[string]fieldError{
	"Number":     {CodeInvalidNumber, "number is required, between 1 and 10"},
	"Language":   {CodeInvalidLanguage, "language must be one of go/javascript/java/python/c++"},
	"Type":       {CodeInvalidType, "type must be 1/2/3"},
	"Keyword":    {CodeInvalidKeyword, "keyword is required"},
	"Difficulty": {CodeInvalidLevel, "difficulty must be 1/2/3"},
}

var questionFieldErrors = map[string]fieldError{
	"Title":      {CodeInvalidTitle, "title is required"},
	"Language":   {CodeInvalidLanguage, "language must be one of go/javascript/java/python/c++"},
	"Type":       {CodeInvalidType, "type_id is required, 1/2/3"},
	"Keyword":    {CodeInvalidKeyword, "keyword is required"},
	"Difficulty": {CodeInvalidLevel, "difficulty is required, 1/2/3"},
	"IsAI":       {CodeBadRequest, "is_ai must be 0 or 1"},
}

// failValidation reports the first failed field with its API code
func failValidation(c *gin.Context, err error, fields map[string]fieldError) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		if fe, found := fields[verrs[0].Field()]; found {
			fail(c, http.StatusBadRequest, fe.code, fe.msg)
			return
		}
	}
	fail(c, http.StatusBadRequest, CodeBadRequest, "malformed request")
}

type requestIDKey struct{}

// WithRequestID returns a context carrying the request id
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the request id carried by ctx, or ""
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// requestIDMiddleware tags every request with X-Request-ID, generating one
// when the caller did not send it
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-ID", id)
		c.Request = c.Request.WithContext(WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}
