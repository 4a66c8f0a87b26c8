package questionbank

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// QuestionForm is what the add and edit surfaces collect. Answers and Right
// are comma separated ("A.opt1,B.opt2" / "A,B").
type QuestionForm struct {
	Title      string       `validate:"required"`
	Type       QuestionType `validate:"required,oneof=1 2 3"`
	Difficulty Difficulty   `validate:"required,oneof=1 2 3"`
	Language   Language     `validate:"required,oneof=go javascript java python c++"`
	Keyword    string       `validate:"required"`
	Answers    string       `validate:"required_unless=Type 3"`
	Right      string       `validate:"required_unless=Type 3"`
}

// NewQuestionForm returns the defaults of a blank add form
func NewQuestionForm() QuestionForm {
	return QuestionForm{
		Type:       TypeSingleChoice,
		Difficulty: DifficultyEasy,
		Language:   LanguageGo,
	}
}

// FormFromQuestion fills a form with an existing record. Options are joined
// back into comma separated text for non-coding questions.
func FormFromQuestion(q Question) QuestionForm {
	form := QuestionForm{
		Title:      q.Title,
		Type:       q.Type,
		Difficulty: q.Difficulty,
		Language:   q.Language,
		Keyword:    q.Keyword,
	}
	if q.Type != TypeCoding {
		form.Answers = strings.Join(q.Answers, ",")
		form.Right = strings.Join(q.Right, ",")
	}
	return form
}

// Validate checks the form the way the input surface does before
// submission.
func (f QuestionForm) Validate() error {
	f.Title = strings.TrimSpace(f.Title)
	f.Keyword = strings.TrimSpace(f.Keyword)
	if f.Type == TypeCoding {
		f.Answers, f.Right = "", ""
	} else {
		f.Answers = strings.TrimSpace(f.Answers)
		f.Right = strings.TrimSpace(f.Right)
	}
	if err := validate.Struct(f); err != nil {
		return translateValidation(err)
	}

	if f.Type != TypeCoding {
		answers, right := SplitOptions(f.Answers), SplitOptions(f.Right)
		if len(answers) == 0 {
			return &ValidationError{Field: "answers", Message: "enter the options"}
		}
		if len(right) == 0 {
			return &ValidationError{Field: "right", Message: "enter the correct answer"}
		}
		if !RightWithinAnswers(answers, right) {
			return &ValidationError{Field: "right", Message: "correct answers must name one of the options"}
		}
	}
	return nil
}

// Apply writes the form fields onto q, deriving answers and right from the
// comma separated text. Fields the form does not carry (id, is_ai, active)
// are left untouched.
func (f QuestionForm) Apply(q *Question) {
	q.Title = strings.TrimSpace(f.Title)
	q.Type = f.Type
	q.Difficulty = f.Difficulty
	q.Language = f.Language
	q.Keyword = strings.TrimSpace(f.Keyword)

	if f.Type == TypeCoding {
		q.Answers = []string{}
		q.Right = []string{}
		return
	}
	q.Answers = SplitOptions(f.Answers)
	q.Right = SplitOptions(f.Right)
}

// SplitOptions splits comma separated text and trims every segment. Empty
// text gives an empty, non-nil slice.
func SplitOptions(text string) []string {
	if strings.TrimSpace(text) == "" {
		return []string{}
	}
	parts := strings.Split(text, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// GenerateForm is what the AI parameter surface collects. Number is raw
// text and gets normalised to an integer.
type GenerateForm struct {
	Number     string
	Language   Language
	Type       QuestionType
	Difficulty Difficulty
	Keyword    string
}

// NewGenerateForm returns the defaults of the AI parameter surface
func NewGenerateForm() GenerateForm {
	return GenerateForm{
		Number:     "1",
		Language:   LanguageGo,
		Type:       TypeSingleChoice,
		Difficulty: DifficultyEasy,
	}
}

// Params normalises and validates the form
func (f GenerateForm) Params() (GenerateParams, error) {
	n, err := strconv.Atoi(strings.TrimSpace(f.Number))
	if err != nil {
		return GenerateParams{}, &ValidationError{Field: "number", Message: "enter a number between 1 and 10"}
	}

	params := GenerateParams{
		Number:     n,
		Language:   f.Language,
		Type:       f.Type,
		Difficulty: f.Difficulty,
		Keyword:    strings.TrimSpace(f.Keyword),
	}
	if err := validate.Struct(params); err != nil {
		return GenerateParams{}, translateValidation(err)
	}
	return params, nil
}

var fieldMessages = map[string]string{
	"Title":      "enter the question text",
	"Type":       "choose a question type",
	"Difficulty": "choose a difficulty",
	"Language":   "choose one of go, javascript, java, python, c++",
	"Keyword":    "enter a keyword",
	"Answers":    "enter the options",
	"Right":      "enter the correct answer",
	"Number":     "enter a number between 1 and 10",
}

// translateValidation reports the first failed field as a *ValidationError
func translateValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ValidationError{Field: "form", Message: err.Error()}
	}

	fe := verrs[0]
	msg, ok := fieldMessages[fe.Field()]
	if !ok {
		msg = fe.Tag()
	}
	return &ValidationError{Field: strings.ToLower(fe.Field()), Message: msg}
}
