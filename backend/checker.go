package backend

import (
	"fmt"

	"questionbank"
)

// CheckAction is what the checker decided for a generated candidate
type CheckAction string

const (
	ActionAccept CheckAction = "accept"
	ActionReject CheckAction = "reject"
)

// CheckResult is the verdict on one generated candidate
type CheckResult struct {
	Index  int
	Action CheckAction
	Reason string
}

// CheckCandidate validates a generated candidate against the shape its
// question type requires. Coding questions only need a title; choice
// questions need options and correct answers that name those options.
func CheckCandidate(index int, q questionbank.Question) CheckResult {
	result := CheckResult{Index: index, Action: ActionReject}

	switch {
	case q.Title == "":
		result.Reason = "missing title"
	case q.Type == questionbank.TypeCoding:
		result.Action = ActionAccept
		result.Reason = "coding question"
	case len(q.Answers) == 0:
		result.Reason = "missing answers"
	case len(q.Right) == 0:
		result.Reason = "missing right answers"
	case !questionbank.RightWithinAnswers(q.Answers, q.Right):
		result.Reason = fmt.Sprintf("right %v not among answers", q.Right)
	case q.Type == questionbank.TypeSingleChoice && len(q.Right) != 1:
		result.Reason = fmt.Sprintf("single choice question has %d right answers", len(q.Right))
	default:
		result.Action = ActionAccept
		result.Reason = "complete"
	}
	return result
}

// stamp copies the request parameters onto a generated candidate, the way
// every generated question is labelled before it is returned
func stamp(q *questionbank.Question, params questionbank.GenerateParams) {
	q.ID = 0
	q.Type = params.Type
	q.Language = params.Language
	q.Difficulty = params.Difficulty
	q.Keyword = params.Keyword
	q.IsAI = 1
	q.Active = 1
	q.Normalize()
}
