package backend

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"questionbank"
)

// LLMLogger writes the transcript of one generation request (parameters,
// prompt, model reply, checker verdicts) to <dir>/<requestID>.log
type LLMLogger struct {
	file      *os.File
	mu        sync.Mutex
	requestID string
}

// NewLLMLogger creates the transcript file for a generation request
func NewLLMLogger(dir, requestID string, params questionbank.GenerateParams) (*LLMLogger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	filename := filepath.Join(dir, fmt.Sprintf("%s.log", requestID))
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	logger := &LLMLogger{
		file:      file,
		requestID: requestID,
	}

	logger.Logf("=== Question Generation Log ===\n")
	logger.Logf("Request ID: %s\n", requestID)
	logger.Logf("Keyword: %s\n", params.Keyword)
	logger.Logf("Number of Questions: %d\n", params.Number)
	logger.Logf("Type: %s, Language: %s, Difficulty: %s\n", params.Type, params.Language, params.Difficulty)
	logger.Logf("Started: %s\n", time.Now().Format(time.RFC3339))
	logger.Logf("========================\n\n")

	return logger, nil
}

// Logf writes a formatted log entry with timestamp
func (ll *LLMLogger) Logf(format string, args ...interface{}) {
	if ll == nil {
		return
	}
	ll.mu.Lock()
	defer ll.mu.Unlock()

	if ll.file == nil {
		return
	}
	timestamp := time.Now().Format("15:04:05.000")
	fmt.Fprintf(ll.file, "[%s] %s", timestamp, fmt.Sprintf(format, args...))
	ll.file.Sync()
}

// LogLLMRequest logs the prompt sent to the model
func (ll *LLMLogger) LogLLMRequest(prompt string) {
	ll.Logf("=== LLM REQUEST ===\n")
	ll.Logf("Prompt:\n%s\n", prompt)
	ll.Logf("===================\n\n")
}

// LogLLMResponse logs the raw model reply
func (ll *LLMLogger) LogLLMResponse(response string) {
	ll.Logf("=== LLM RESPONSE ===\n")
	ll.Logf("Response:\n%s\n", response)
	ll.Logf("====================\n\n")
}

// LogCheckResult logs the checker verdict on one candidate
func (ll *LLMLogger) LogCheckResult(result CheckResult) {
	ll.Logf("Candidate %d: %s - %s\n", result.Index, result.Action, result.Reason)
}

// Close writes the footer and closes the file
func (ll *LLMLogger) Close() error {
	if ll == nil {
		return nil
	}
	ll.Logf("=== Question Generation Complete ===\n")
	ll.Logf("Completed: %s\n", time.Now().Format(time.RFC3339))

	ll.mu.Lock()
	defer ll.mu.Unlock()
	if ll.file == nil {
		return nil
	}
	err := ll.file.Close()
	ll.file = nil
	return err
}
