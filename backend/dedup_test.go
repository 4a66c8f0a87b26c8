package backend

import (
	"net/http"
	"testing"

	"questionbank"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestionDedup(t *testing.T) {
	qd := NewQuestionDedup([]questionbank.Question{{ID: 7, Title: "Which sort is stable?"}})

	result := qd.CheckDuplicate(questionbank.Question{Title: "  which SORT is stable "})
	assert.True(t, result.IsDuplicate)
	assert.Equal(t, 7, result.DuplicateID)

	assert.False(t, qd.CheckDuplicate(questionbank.Question{Title: "Implement merge sort"}).IsDuplicate)

	result = qd.CheckDuplicate(questionbank.Question{Title: "Implement merge-sort!"})
	assert.True(t, result.IsDuplicate)
	assert.Equal(t, 0, result.DuplicateID)
}

func TestQuestionDedupFilter(t *testing.T) {
	qd := NewQuestionDedup(nil)
	kept := qd.Filter([]questionbank.Question{
		{Title: "a b"}, {Title: "A, b"}, {Title: "c"},
	})
	require.Len(t, kept, 2)
	assert.Equal(t, "a b", kept[0].Title)
	assert.Equal(t, "c", kept[1].Title)
}

func TestServerGenerateDropsKnownQuestions(t *testing.T) {
	source := &stubSource{questions: []questionbank.Question{
		{Title: "Implement insertion sort", Type: questionbank.TypeCoding, IsAI: 1},
	}}
	server, store := newTestServer(t, source)
	_, err := store.Insert(questionbank.Question{
		Title:      "Implement insertion sort",
		Type:       questionbank.TypeCoding,
		Difficulty: questionbank.DifficultyEasy,
		Language:   questionbank.LanguageGo,
		Keyword:    "sorting",
	})
	require.NoError(t, err)

	params := map[string]interface{}{"number": 1, "language": "go", "type": 3, "difficulty": 1, "keyword": "sorting"}
	status, reply := doRequest(t, server.Handler(), http.MethodPost, "/api/questions/create", params)
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, CodeAIFailed, reply.Code)
}
