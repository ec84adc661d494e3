package repository

import (
	"secaware_backend/internal/model"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

// FindByUserAndQuiz 返回某用户在某测验下的全部答题记录，新的在前
func (r *AttemptRepository) FindByUserAndQuiz(userID uint, quizID string) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.DB.
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Order("attempt_number DESC").
		Find(&attempts).Error
	return attempts, err
}

// FindLatest 最近一次答题记录，没有时返回 gorm.ErrRecordNotFound
func (r *AttemptRepository) FindLatest(userID uint, quizID string) (*model.QuizAttempt, error) {
	var attempt model.QuizAttempt
	err := r.DB.
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Order("attempt_number DESC").
		First(&attempt).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *AttemptRepository) CountByUserAndQuiz(userID uint, quizID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.QuizAttempt{}).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Count(&count).Error
	return count, err
}

func (r *AttemptRepository) FindByUser(userID uint) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.DB.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&attempts).Error
	return attempts, err
}

func (r *AttemptRepository) Update(attempt *model.QuizAttempt) error {
	return r.DB.Save(attempt).Error
}

// UserScore 排行榜中间结果：单个用户的累计得分
type UserScore struct {
	UserID uint `json:"userId"`
	Points int  `json:"points"`
}

// SumScoresByUser 按用户聚合全部答题得分，降序，分数相同按用户ID升序。
// 每次调用都重新计算，不做增量维护。
func (r *AttemptRepository) SumScoresByUser(limit int, completedOnly bool) ([]UserScore, error) {
	q := r.DB.Model(&model.QuizAttempt{}).
		Select("user_id, SUM(score) AS points")

	if completedOnly {
		q = q.Where("completed = ?", true)
	}

	var scores []UserScore
	err := q.
		Group("user_id").
		Order("points DESC, user_id ASC").
		Limit(limit).
		Scan(&scores).Error
	return scores, err
}
