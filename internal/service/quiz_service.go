package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"secaware_backend/internal/model"
	"secaware_backend/internal/repository"
	"secaware_backend/internal/util"
	"secaware_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	quizCatalogueKey = "quiz:catalogue"
	quizCatalogueTTL = 5 * time.Minute

	// 编辑事务死锁/锁等待超时的重试上限
	maxEditRetries = 3
)

type QuizService struct {
	QuizRepo *repository.QuizRepository
	DB       *gorm.DB
	Redis    *redis.Client
}

func NewQuizService(quizRepo *repository.QuizRepository, db *gorm.DB, rdb *redis.Client) *QuizService {
	return &QuizService{
		QuizRepo: quizRepo,
		DB:       db,
		Redis:    rdb,
	}
}

// QuizSummary 学员目录里的条目
type QuizSummary struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	JobRole string `json:"jobRole,omitempty"`
}

// AnswerView 发给学员的答案，不带 isCorrect，防止提前泄露
type AnswerView struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type QuestionView struct {
	ID              string       `json:"id"`
	Title           string       `json:"title"`
	MultipleCorrect bool         `json:"multipleCorrect"`
	Answers         []AnswerView `json:"answers"`
}

type QuizView struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Questions []QuestionView `json:"questions"`
}

type AnswerInput struct {
	Text      string `json:"text" binding:"required"`
	IsCorrect bool   `json:"isCorrect"`
}

type QuestionInput struct {
	Title   string        `json:"title" binding:"required"`
	Answers []AnswerInput `json:"answers" binding:"required"`
}

// QuizUpdateRequest 整体替换：标题、岗位、全部题目
type QuizUpdateRequest struct {
	Title     string          `json:"title" binding:"required"`
	JobRoleID *uint           `json:"jobRoleId"`
	Questions []QuestionInput `json:"questions" binding:"required"`
}

// ListPublic 学员可见目录。无搜索词时走 Redis 缓存
func (s *QuizService) ListPublic(search string) ([]QuizSummary, error) {
	if search == "" && s.Redis != nil {
		val, err := s.Redis.Get(context.Background(), quizCatalogueKey).Result()
		if err == nil {
			var cached []QuizSummary
			if json.Unmarshal([]byte(val), &cached) == nil {
				return cached, nil
			}
		} else if err != redis.Nil {
			logger.Log.Warn("quiz catalogue cache read failed", zap.Error(err))
		}
	}

	quizzes, err := s.QuizRepo.FindPublic(search)
	if err != nil {
		return nil, err
	}

	summaries := make([]QuizSummary, len(quizzes))
	for i, q := range quizzes {
		summaries[i] = QuizSummary{ID: q.ID, Title: q.Title}
		if q.JobRole != nil {
			summaries[i].JobRole = q.JobRole.Name
		}
	}

	if search == "" && s.Redis != nil {
		if data, err := json.Marshal(summaries); err == nil {
			if err := s.Redis.Set(context.Background(), quizCatalogueKey, data, quizCatalogueTTL).Err(); err != nil {
				logger.Log.Warn("quiz catalogue cache write failed", zap.Error(err))
			}
		}
	}

	return summaries, nil
}

// GetForTaking 答题用的视图，答案顺序保留但不含正确性标记
func (s *QuizService) GetForTaking(id string) (*QuizView, error) {
	quiz, err := s.QuizRepo.FindByIDFull(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}

	view := &QuizView{
		ID:        quiz.ID,
		Title:     quiz.Title,
		Questions: make([]QuestionView, len(quiz.Questions)),
	}
	for i, q := range quiz.Questions {
		qv := QuestionView{
			ID:              q.ID,
			Title:           q.Title,
			MultipleCorrect: q.MultipleCorrect(),
			Answers:         make([]AnswerView, len(q.Answers)),
		}
		for j, a := range q.Answers {
			qv.Answers[j] = AnswerView{ID: a.ID, Text: a.Text}
		}
		view.Questions[i] = qv
	}
	return view, nil
}

// GetFull 管理端视图，含正确性标记
func (s *QuizService) GetFull(id string) (*model.Quiz, error) {
	quiz, err := s.QuizRepo.FindByIDFull(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) ListAll() ([]model.Quiz, error) {
	return s.QuizRepo.FindAll()
}

func (s *QuizService) Create(title string) (*model.Quiz, error) {
	if strings.TrimSpace(title) == "" {
		return nil, errors.New("title required")
	}
	quiz := &model.Quiz{
		Title:      title,
		Visibility: model.VisibilityPrivate,
	}
	if err := s.QuizRepo.Create(quiz); err != nil {
		return nil, err
	}
	s.invalidateCatalogue()
	return quiz, nil
}

func (s *QuizService) UpdateVisibility(id string, visibility model.Visibility) (*model.Quiz, error) {
	if visibility != model.VisibilityPublic && visibility != model.VisibilityPrivate {
		return nil, errors.New("invalid visibility")
	}
	quiz, err := s.QuizRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	quiz.Visibility = visibility
	if err := s.QuizRepo.Update(quiz); err != nil {
		return nil, err
	}
	s.invalidateCatalogue()
	return s.QuizRepo.FindByIDFull(id)
}

func validateQuestions(questions []QuestionInput) error {
	for _, q := range questions {
		if len(q.Answers) < 2 {
			return errors.New("each question needs at least two answers")
		}
		hasCorrect := false
		for _, a := range q.Answers {
			if a.IsCorrect {
				hasCorrect = true
				break
			}
		}
		if !hasCorrect {
			return errors.New("each question needs at least one correct answer")
		}
	}
	return nil
}

// Update 整体替换测验内容：先删旧题目和答案，再建新的，全部在一个事务里。
// 死锁或锁等待超时会触发退避重试。
func (s *QuizService) Update(id string, req QuizUpdateRequest) (*model.Quiz, error) {
	if err := validateQuestions(req.Questions); err != nil {
		return nil, err
	}

	var lastErr error
	for retry := 0; retry < maxEditRetries; retry++ {
		if retry > 0 {
			time.Sleep(time.Duration(1<<(retry-1)) * time.Second)
			logger.Log.Warn("quiz update transaction retry",
				zap.String("quizId", id),
				zap.Int("retry", retry),
			)
		}

		lastErr = s.DB.Transaction(func(tx *gorm.DB) error {
			var quiz model.Quiz
			if err := tx.First(&quiz, "id = ?", id).Error; err != nil {
				return err
			}

			quiz.Title = req.Title
			quiz.JobRoleID = req.JobRoleID
			if err := tx.Save(&quiz).Error; err != nil {
				return err
			}

			questionIDs, err := s.QuizRepo.QuestionIDs(tx, id)
			if err != nil {
				return err
			}
			if len(questionIDs) > 0 {
				if err := tx.Where("question_id IN ?", questionIDs).Delete(&model.Answer{}).Error; err != nil {
					return err
				}
			}
			if err := tx.Where("quiz_id = ?", id).Delete(&model.Question{}).Error; err != nil {
				return err
			}

			for _, qi := range req.Questions {
				question := &model.Question{
					QuizID: id,
					Title:  qi.Title,
				}
				if err := tx.Create(question).Error; err != nil {
					return err
				}
				for _, ai := range qi.Answers {
					answer := &model.Answer{
						QuestionID: question.ID,
						Text:       ai.Text,
						IsCorrect:  ai.IsCorrect,
					}
					if err := tx.Create(answer).Error; err != nil {
						return err
					}
				}
			}
			return nil
		})

		if lastErr == nil {
			break
		}
		if errors.Is(lastErr, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		if !isRetryableTxError(lastErr) {
			return nil, lastErr
		}
	}
	if lastErr != nil {
		return nil, lastErr
	}

	s.invalidateCatalogue()
	return s.QuizRepo.FindByIDFull(id)
}

// Delete 级联删除：答题记录、答案、题目、测验，按依赖顺序在一个事务里完成
func (s *QuizService) Delete(id string) error {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var quiz model.Quiz
		if err := tx.First(&quiz, "id = ?", id).Error; err != nil {
			return err
		}

		if err := tx.Where("quiz_id = ?", id).Delete(&model.QuizAttempt{}).Error; err != nil {
			return err
		}

		questionIDs, err := s.QuizRepo.QuestionIDs(tx, id)
		if err != nil {
			return err
		}
		if len(questionIDs) > 0 {
			if err := tx.Where("question_id IN ?", questionIDs).Delete(&model.Answer{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("quiz_id = ?", id).Delete(&model.Question{}).Error; err != nil {
			return err
		}

		return tx.Delete(&quiz).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuizNotFound
		}
		return err
	}

	s.invalidateCatalogue()
	return nil
}

func (s *QuizService) invalidateCatalogue() {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(context.Background(), quizCatalogueKey).Err(); err != nil {
		logger.Log.Warn("quiz catalogue cache invalidation failed", zap.Error(err))
	}
}

func isRetryableTxError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Deadlock found") ||
		strings.Contains(msg, "Lock wait timeout")
}
