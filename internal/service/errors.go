package service

import "errors"

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrSessionNotFound  = errors.New("session not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrReportNotFound   = errors.New("report not found")
	ErrNoQuestions      = errors.New("no questions available for this domain")
	ErrForbidden        = errors.New("session belongs to another user")
)
