package questionbank

import "strings"

// QuestionType is the kind of a question. It decides whether answers and
// right carry options.
type QuestionType int

const (
	TypeSingleChoice QuestionType = 1
	TypeMultiChoice  QuestionType = 2
	TypeCoding       QuestionType = 3
)

// Valid reports whether t is one of the known question types
func (t QuestionType) Valid() bool {
	return t >= TypeSingleChoice && t <= TypeCoding
}

func (t QuestionType) String() string {
	switch t {
	case TypeSingleChoice:
		return "single choice"
	case TypeMultiChoice:
		return "multi choice"
	case TypeCoding:
		return "coding"
	}
	return "unknown"
}

// Difficulty of a question
type Difficulty int

const (
	DifficultyEasy   Difficulty = 1
	DifficultyMedium Difficulty = 2
	DifficultyHard   Difficulty = 3
)

func (d Difficulty) Valid() bool {
	return d >= DifficultyEasy && d <= DifficultyHard
}

func (d Difficulty) String() string {
	switch d {
	case DifficultyEasy:
		return "easy"
	case DifficultyMedium:
		return "medium"
	case DifficultyHard:
		return "hard"
	}
	return "unknown"
}

// Language is the programming language a question is about. It classifies
// the topic; nothing is ever executed.
type Language string

const (
	LanguageGo         Language = "go"
	LanguageJavaScript Language = "javascript"
	LanguageJava       Language = "java"
	LanguagePython     Language = "python"
	LanguageCpp        Language = "c++"
)

// Languages lists the accepted language tags in display order
var Languages = []Language{LanguageGo, LanguageJavaScript, LanguageJava, LanguagePython, LanguageCpp}

func (l Language) Valid() bool {
	for _, known := range Languages {
		if l == known {
			return true
		}
	}
	return false
}

// Question is a single quiz item of the bank. ID is zero until the server
// has persisted the record.
type Question struct {
	ID         int          `json:"id,omitempty"`
	Title      string       `json:"title"`
	Answers    []string     `json:"answers"`
	Right      []string     `json:"right"`
	Type       QuestionType `json:"type_id"`
	Difficulty Difficulty   `json:"difficulty"`
	IsAI       int          `json:"is_ai"`
	Language   Language     `json:"language"`
	Keyword    string       `json:"keyword"`
	Active     int          `json:"active"`
}

// Persisted reports whether the question carries a server-assigned identity
func (q Question) Persisted() bool {
	return q.ID != 0
}

// FromAI reports whether the question was saved through the AI workflow
func (q Question) FromAI() bool {
	return q.IsAI != 0
}

// Normalize enforces the answers/right presence rule: coding questions carry
// none, every other type carries non-nil slices.
func (q *Question) Normalize() {
	if q.Type == TypeCoding {
		q.Answers = []string{}
		q.Right = []string{}
		return
	}
	if q.Answers == nil {
		q.Answers = []string{}
	}
	if q.Right == nil {
		q.Right = []string{}
	}
}

// OptionLabel returns the label of an option, the text before its first '.'
// ("A" for "A.opt1"). An option without a dot is its own label.
func OptionLabel(option string) string {
	option = strings.TrimSpace(option)
	if i := strings.Index(option, "."); i >= 0 {
		return strings.TrimSpace(option[:i])
	}
	return option
}

// RightWithinAnswers reports whether every entry of right names one of the
// answer options, either by label or by full text.
func RightWithinAnswers(answers, right []string) bool {
	known := make(map[string]bool, len(answers)*2)
	for _, a := range answers {
		known[strings.TrimSpace(a)] = true
		known[OptionLabel(a)] = true
	}
	for _, r := range right {
		if !known[strings.TrimSpace(r)] {
			return false
		}
	}
	return true
}

// GenerateParams asks the AI endpoint for Number candidate questions
type GenerateParams struct {
	Number     int          `json:"number" validate:"required,min=1,max=10"`
	Language   Language     `json:"language" validate:"required,oneof=go javascript java python c++"`
	Type       QuestionType `json:"type" validate:"required,oneof=1 2 3"`
	Difficulty Difficulty   `json:"difficulty" validate:"required,oneof=1 2 3"`
	Keyword    string       `json:"keyword" validate:"required"`
}

// MaxGenerate bounds the number of candidates one Generate call may ask for
const MaxGenerate = 10
