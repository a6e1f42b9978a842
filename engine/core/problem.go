package core

import (
	"errors"
	"net/http"
)

// Problem captures the information returned in an RFC 7807 error response.
type Problem struct {
	Type     string
	Title    string
	Status   int
	Detail   string
	Instance string
	Extras   map[string]any
}

// NormalizeProblem ensures the provided problem includes canonical defaults.
func NormalizeProblem(problem *Problem) *Problem {
	if problem == nil {
		problem = &Problem{}
	}
	if problem.Status == 0 {
		problem.Status = http.StatusInternalServerError
	}
	if problem.Title == "" {
		problem.Title = http.StatusText(problem.Status)
	}
	if problem.Type == "" {
		problem.Type = "about:blank"
	}
	return problem
}

// ProblemFromError maps engine errors onto problem documents. Coded errors
// select their HTTP status; everything else is a 500.
func ProblemFromError(err error) *Problem {
	problem := &Problem{Detail: err.Error()}
	var coded *Error
	if errors.As(err, &coded) {
		problem.Extras = map[string]any{"code": coded.Code}
		switch coded.Code {
		case ErrCodeMissingSource:
			problem.Status = http.StatusNotFound
		case ErrCodeInvalidInput, ErrCodeMalformedRule:
			problem.Status = http.StatusBadRequest
		case ErrCodeEmptyTargetSet:
			problem.Status = http.StatusUnprocessableEntity
		}
	}
	return NormalizeProblem(problem)
}

// BuildProblemBody assembles the serialized representation of the problem.
func BuildProblemBody(problem *Problem) map[string]any {
	body := map[string]any{
		"status": problem.Status,
		"error":  problem.Title,
	}
	if problem.Detail != "" {
		body["details"] = problem.Detail
	}
	if problem.Type != "" {
		body["type"] = problem.Type
	}
	if problem.Instance != "" {
		body["instance"] = problem.Instance
	}
	for k, v := range problem.Extras {
		body[k] = v
	}
	return body
}
