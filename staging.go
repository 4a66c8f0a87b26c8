package questionbank

import "sync"

// StagingBuffer holds AI generated candidates awaiting confirmation. Staged
// questions are never persisted and never carry an id.
type StagingBuffer struct {
	mu        sync.RWMutex
	questions []Question
}

// NewStagingBuffer creates an empty staging buffer
func NewStagingBuffer() *StagingBuffer {
	return &StagingBuffer{
		questions: make([]Question, 0),
	}
}

// Replace swaps the buffer content for candidates, in order
func (sb *StagingBuffer) Replace(candidates []Question) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	sb.questions = make([]Question, 0, len(candidates))
	for _, q := range candidates {
		q.ID = 0
		q.Active = 0
		sb.questions = append(sb.questions, q)
	}
}

// All returns a copy of the staged candidates in generation order
func (sb *StagingBuffer) All() []Question {
	sb.mu.RLock()
	defer sb.mu.RUnlock()

	out := make([]Question, len(sb.questions))
	copy(out, sb.questions)
	return out
}

// Clear drops every staged candidate
func (sb *StagingBuffer) Clear() {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.questions = make([]Question, 0)
}

// Size returns the number of staged candidates
func (sb *StagingBuffer) Size() int {
	sb.mu.RLock()
	defer sb.mu.RUnlock()
	return len(sb.questions)
}

// IsEmpty returns true if nothing is staged
func (sb *StagingBuffer) IsEmpty() bool {
	return sb.Size() == 0
}
