package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"questionbank"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
)

// QuestionSource produces candidate questions for a generation request.
// Candidates are returned unsaved.
type QuestionSource interface {
	Generate(ctx context.Context, params questionbank.GenerateParams) ([]questionbank.Question, error)
}

// ErrNoCandidates is returned when the model produced nothing usable
var ErrNoCandidates = errors.New("AI returned no usable questions")

// ChatCompleter is the part of the OpenAI client the question maker uses
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// QuestionMaker generates questions with an OpenAI compatible chat model
type QuestionMaker struct {
	client ChatCompleter
	model  string
	logDir string
}

// NewQuestionMaker creates a question maker for the configured endpoint.
// An empty BaseURL means the OpenAI API.
func NewQuestionMaker(cfg AIConfig) *QuestionMaker {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return NewQuestionMakerWithClient(openai.NewClientWithConfig(clientCfg), cfg.Model, cfg.LogDir)
}

// NewQuestionMakerWithClient creates a question maker around an existing
// client. An empty logDir disables transcripts.
func NewQuestionMakerWithClient(client ChatCompleter, model, logDir string) *QuestionMaker {
	if model == "" {
		model = openai.GPT4o
	}
	return &QuestionMaker{
		client: client,
		model:  model,
		logDir: logDir,
	}
}

const submitQuestionsTool = "submit_questions"

// Generate asks the model for params.Number questions and returns the
// complete ones, labelled with the request parameters
func (qm *QuestionMaker) Generate(ctx context.Context, params questionbank.GenerateParams) ([]questionbank.Question, error) {
	requestID := RequestID(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	log.Printf("Generating %d questions on %q (request %s)", params.Number, params.Keyword, requestID)

	var transcript *LLMLogger
	if qm.logDir != "" {
		var err error
		transcript, err = NewLLMLogger(qm.logDir, requestID, params)
		if err != nil {
			log.Printf("Failed to create transcript for request %s: %v", requestID, err)
		} else {
			defer transcript.Close()
		}
	}

	prompt := qm.buildPrompt(params)
	transcript.LogLLMRequest(prompt)

	resp, err := qm.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: qm.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are an expert programming instructor who writes precise quiz questions.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Tools: []openai.Tool{
			{
				Type:     openai.ToolTypeFunction,
				Function: submitQuestionsDefinition(params.Type),
			},
		},
		ToolChoice: openai.ToolChoice{
			Type: openai.ToolTypeFunction,
			Function: openai.ToolFunction{
				Name: submitQuestionsTool,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call AI: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from %s", qm.model)
	}

	raw := replyPayload(resp.Choices[0].Message)
	transcript.LogLLMResponse(raw)

	candidates, err := parseCandidates(raw)
	if err != nil {
		return nil, err
	}

	questions := make([]questionbank.Question, 0, len(candidates))
	for i := range candidates {
		stamp(&candidates[i], params)

		result := CheckCandidate(i, candidates[i])
		transcript.LogCheckResult(result)
		questionbank.VerboseLog("Candidate %d: %s - %s", i, result.Action, result.Reason)
		if result.Action == ActionAccept {
			questions = append(questions, candidates[i])
		}
	}

	if len(questions) == 0 {
		return nil, ErrNoCandidates
	}
	if len(questions) > params.Number {
		questions = questions[:params.Number]
	}

	log.Printf("Generated %d of %d requested questions", len(questions), params.Number)
	return questions, nil
}

// replyPayload returns the tool call arguments when the model used the
// tool, and the message content otherwise
func replyPayload(msg openai.ChatCompletionMessage) string {
	for _, call := range msg.ToolCalls {
		if call.Function.Name == submitQuestionsTool {
			return call.Function.Arguments
		}
	}
	return msg.Content
}

// parseCandidates accepts either the tool arguments {"questions": [...]} or
// a bare JSON array, optionally wrapped in a ```json fence
func parseCandidates(raw string) ([]questionbank.Question, error) {
	content := strings.TrimSpace(raw)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	if content == "" {
		return nil, ErrNoCandidates
	}

	if strings.HasPrefix(content, "{") {
		var args struct {
			Questions []questionbank.Question `json:"questions"`
		}
		if err := json.Unmarshal([]byte(content), &args); err != nil {
			return nil, fmt.Errorf("failed to parse AI reply: %w", err)
		}
		if len(args.Questions) == 0 {
			return nil, ErrNoCandidates
		}
		return args.Questions, nil
	}

	var questions []questionbank.Question
	if err := json.Unmarshal([]byte(content), &questions); err != nil {
		return nil, fmt.Errorf("failed to parse AI reply: %w", err)
	}
	if len(questions) == 0 {
		return nil, ErrNoCandidates
	}
	return questions, nil
}

func submitQuestionsDefinition(t questionbank.QuestionType) *openai.FunctionDefinition {
	item := map[string]interface{}{
		"title": map[string]interface{}{
			"type":        "string",
			"description": "The question text",
		},
	}
	required := []string{"title"}

	if t != questionbank.TypeCoding {
		item["answers"] = map[string]interface{}{
			"type":        "array",
			"items":       map[string]interface{}{"type": "string"},
			"description": `Options prefixed with their label, e.g. "A.first option"`,
		}
		item["right"] = map[string]interface{}{
			"type":        "array",
			"items":       map[string]interface{}{"type": "string"},
			"description": `Labels of the correct options, e.g. ["B"]`,
		}
		required = append(required, "answers", "right")
	}

	return &openai.FunctionDefinition{
		Name:        submitQuestionsTool,
		Description: "Submit generated quiz questions",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"questions": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type":       "object",
						"properties": item,
						"required":   required,
					},
				},
			},
			"required": []string{"questions"},
		},
	}
}

func (qm *QuestionMaker) buildPrompt(params questionbank.GenerateParams) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Generate %d %s %s questions about %s in %s.\n\n",
		params.Number, params.Difficulty, params.Type, params.Keyword, params.Language))

	sb.WriteString("Requirements:\n")
	if params.Type == questionbank.TypeCoding {
		sb.WriteString("- Each question is a programming task the candidate solves by writing code\n")
		sb.WriteString("- Only provide the title, e.g. \"Implement bubble sort in Go\"\n")
	} else {
		sb.WriteString("- Each question has exactly 4 options labelled A to D, e.g. \"A.Gin is a Go HTTP framework\"\n")
		sb.WriteString("- right lists the labels of the correct options, e.g. [\"B\"]\n")
		if params.Type == questionbank.TypeSingleChoice {
			sb.WriteString("- Exactly one option is correct\n")
		} else {
			sb.WriteString("- Two or more options are correct\n")
		}
		sb.WriteString("- Incorrect options should be plausible but clearly wrong\n")
	}
	sb.WriteString("- Questions should test understanding, not just memorization\n")
	sb.WriteString(fmt.Sprintf("- Use the %s tool to return your questions\n", submitQuestionsTool))

	return sb.String()
}
