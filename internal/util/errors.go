package util

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrEmailRegistered   = errors.New("该邮箱已被注册")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrQuizNotFound      = errors.New("quiz not found")
	ErrLearningNotFound  = errors.New("learning not found")
	ErrJobRoleNotFound   = errors.New("job role not found")
	ErrAttemptNotFound   = errors.New("attempt not found")
	ErrAttemptsExhausted = errors.New("maximum attempts reached")
	ErrIncompleteAttempt = errors.New("cannot mark incomplete quiz as done")
)
