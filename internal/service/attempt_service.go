package service

import (
	"errors"
	"strings"
	"time"

	"secaware_backend/internal/model"
	"secaware_backend/internal/repository"
	"secaware_backend/internal/util"
	"secaware_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MaxAttempts 每个用户对同一测验最多的答题次数
const MaxAttempts = 2

// 提交写入冲突时的重试上限（指数退避）
const maxSubmitRetries = 3

type AttemptService struct {
	AttemptRepo *repository.AttemptRepository
	QuizRepo    *repository.QuizRepository
	UserRepo    *repository.UserRepository
	DB          *gorm.DB
}

func NewAttemptService(
	attemptRepo *repository.AttemptRepository,
	quizRepo *repository.QuizRepository,
	userRepo *repository.UserRepository,
	db *gorm.DB,
) *AttemptService {
	return &AttemptService{
		AttemptRepo: attemptRepo,
		QuizRepo:    quizRepo,
		UserRepo:    userRepo,
		DB:          db,
	}
}

// PassThreshold 及格线：题目数的一半向上取整
func PassThreshold(totalQuestions int) int {
	return (totalQuestions + 1) / 2
}

// Eligibility 答题资格：最近一次记录、剩余次数、是否可重考
type Eligibility struct {
	LatestAttempt *model.QuizAttempt `json:"latestAttempt"`
	AttemptsLeft  int                `json:"attemptsLeft"`
	CanRetake     bool               `json:"canRetake"`
}

// QuestionResponse 单题作答：选中的答案ID集合
type QuestionResponse struct {
	QuestionID string   `json:"questionId" binding:"required"`
	AnswerIDs  []string `json:"answerIds"`
}

// SubmitRequest 提交一次完成的测验。
// 带 Responses 时服务端按题目正确答案重新判分，忽略客户端给的分数；
// 不带时退回旧行为，直接信任客户端的 score/totalQuestions/passed。
type SubmitRequest struct {
	Score          int                `json:"score"`
	TotalQuestions int                `json:"totalQuestions"`
	Passed         bool               `json:"passed"`
	Responses      []QuestionResponse `json:"responses"`
}

type SubmitResult struct {
	Attempt      *model.QuizAttempt `json:"quizAttempt"`
	AttemptsLeft int                `json:"attemptsLeft"`
	Score        int                `json:"score"`
	Passed       bool               `json:"passed"`
}

// GetEligibility 只读查询，可重复调用
func (s *AttemptService) GetEligibility(userID uint, quizID string) (*Eligibility, error) {
	if _, err := s.UserRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	attempts, err := s.AttemptRepo.FindByUserAndQuiz(userID, quizID)
	if err != nil {
		return nil, err
	}

	attemptsLeft := MaxAttempts - len(attempts)
	if attemptsLeft < 0 {
		attemptsLeft = 0
	}

	e := &Eligibility{AttemptsLeft: attemptsLeft}
	if len(attempts) > 0 {
		latest := attempts[0]
		e.LatestAttempt = &latest
		e.CanRetake = attemptsLeft > 0 && latest.Score < PassThreshold(latest.TotalQuestions)
	} else {
		e.CanRetake = attemptsLeft > 0
	}
	return e, nil
}

// Grade 按存储的正确答案给一组作答判分。
// 单选题：选中的答案必须是某个正确答案；
// 多选题：选中集合与正确集合完全一致，多选或漏选均不得分。
func Grade(questions []model.Question, responses []QuestionResponse) int {
	selected := make(map[string][]string, len(responses))
	for _, resp := range responses {
		selected[resp.QuestionID] = resp.AnswerIDs
	}

	score := 0
	for _, q := range questions {
		chosen := selected[q.ID]
		if len(chosen) == 0 {
			continue
		}

		correct := make(map[string]bool)
		for _, a := range q.Answers {
			if a.IsCorrect {
				correct[a.ID] = true
			}
		}

		if q.MultipleCorrect() {
			// 去重后再比对，重复提交同一答案ID不能凑数
			chosenSet := make(map[string]bool, len(chosen))
			for _, id := range chosen {
				chosenSet[id] = true
			}
			if len(chosenSet) != len(correct) {
				continue
			}
			all := true
			for id := range chosenSet {
				if !correct[id] {
					all = false
					break
				}
			}
			if all {
				score++
			}
		} else {
			if len(chosen) == 1 && correct[chosen[0]] {
				score++
			}
		}
	}
	return score
}

// Submit 记录一次完成的测验。
// 计数和插入放在同一个事务里，唯一索引 (user_id, quiz_id, attempt_number)
// 兜底并发重复，冲突时带退避重试，重试时重新检查次数上限。
func (s *AttemptService) Submit(userID uint, quizID string, req SubmitRequest) (*SubmitResult, error) {
	if _, err := s.UserRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	// 旧客户端直接报分，只做范围约束：0 <= score <= totalQuestions
	total := req.TotalQuestions
	if total < 0 {
		total = 0
	}
	score := req.Score
	if score < 0 {
		score = 0
	}
	if score > total {
		score = total
	}
	passed := req.Passed

	if len(req.Responses) > 0 {
		quiz, err := s.QuizRepo.FindByIDFull(quizID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, util.ErrQuizNotFound
			}
			return nil, err
		}
		score = Grade(quiz.Questions, req.Responses)
		total = len(quiz.Questions)
		passed = score >= PassThreshold(total)
	} else if _, err := s.QuizRepo.FindByID(quizID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}

	var attempt *model.QuizAttempt
	var lastErr error

	for retry := 0; retry < maxSubmitRetries; retry++ {
		if retry > 0 {
			time.Sleep(time.Duration(1<<(retry-1)) * 100 * time.Millisecond)
		}

		attempt = &model.QuizAttempt{
			UserID:         userID,
			QuizID:         quizID,
			Score:          score,
			TotalQuestions: total,
			Completed:      passed,
		}

		lastErr = s.DB.Transaction(func(tx *gorm.DB) error {
			var count int64
			if err := tx.Model(&model.QuizAttempt{}).
				Where("user_id = ? AND quiz_id = ?", userID, quizID).
				Count(&count).Error; err != nil {
				return err
			}

			if count >= MaxAttempts {
				return util.ErrAttemptsExhausted
			}

			attempt.AttemptNumber = int(count) + 1
			return tx.Create(attempt).Error
		})

		if lastErr == nil {
			break
		}
		if !isDuplicateKeyError(lastErr) {
			return nil, lastErr
		}
		logger.Log.Warn("quiz attempt ordinal conflict, retrying",
			zap.Uint("userId", userID),
			zap.String("quizId", quizID),
			zap.Int("retry", retry+1),
		)
	}
	if lastErr != nil {
		return nil, lastErr
	}

	attemptsLeft := MaxAttempts - attempt.AttemptNumber
	if attemptsLeft < 0 {
		attemptsLeft = 0
	}

	return &SubmitResult{
		Attempt:      attempt,
		AttemptsLeft: attemptsLeft,
		Score:        score,
		Passed:       passed,
	}, nil
}

// MarkAsDone 确认测验已完成，幂等。最近一次记录必须是已通过的。
func (s *AttemptService) MarkAsDone(userID uint, quizID string) error {
	if _, err := s.UserRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrUserNotFound
		}
		return err
	}

	latest, err := s.AttemptRepo.FindLatest(userID, quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrIncompleteAttempt
		}
		return err
	}

	if !latest.Completed {
		return util.ErrIncompleteAttempt
	}

	latest.Completed = true
	return s.AttemptRepo.Update(latest)
}

func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
