package repository

import (
	"secaware_backend/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func (r *QuizRepository) Create(quiz *model.Quiz) error {
	return r.DB.Create(quiz).Error
}

// FindByID 仅加载测验本身，不带题目
func (r *QuizRepository) FindByID(id string) (*model.Quiz, error) {
	var quiz model.Quiz
	if err := r.DB.First(&quiz, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

// FindByIDFull 加载测验及岗位、题目、答案
func (r *QuizRepository) FindByIDFull(id string) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.
		Preload("JobRole").
		Preload("Questions").
		Preload("Questions.Answers").
		First(&quiz, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *QuizRepository) FindAll() ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.DB.
		Preload("JobRole").
		Preload("Questions").
		Order("created_at DESC").
		Find(&quizzes).Error
	return quizzes, err
}

// FindPublic 学员可见的测验列表，支持按标题或岗位名称模糊搜索
func (r *QuizRepository) FindPublic(search string) ([]model.Quiz, error) {
	q := r.DB.
		Model(&model.Quiz{}).
		Preload("JobRole").
		Where("quizzes.visibility = ?", model.VisibilityPublic)

	if search != "" {
		pattern := "%" + search + "%"
		q = q.
			Joins("LEFT JOIN job_roles ON job_roles.id = quizzes.job_role_id AND job_roles.deleted_at IS NULL").
			Where("quizzes.title LIKE ? OR job_roles.name LIKE ?", pattern, pattern)
	}

	var quizzes []model.Quiz
	err := q.Order("quizzes.created_at DESC").Find(&quizzes).Error
	return quizzes, err
}

func (r *QuizRepository) FindRecent(limit int) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.DB.
		Preload("Questions").
		Order("created_at DESC").
		Limit(limit).
		Find(&quizzes).Error
	return quizzes, err
}

func (r *QuizRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Quiz{}).Count(&count).Error
	return count, err
}

func (r *QuizRepository) Update(quiz *model.Quiz) error {
	return r.DB.Save(quiz).Error
}

// QuestionIDs 返回某测验下全部题目ID
func (r *QuizRepository) QuestionIDs(tx *gorm.DB, quizID string) ([]string, error) {
	var ids []string
	err := tx.Model(&model.Question{}).Where("quiz_id = ?", quizID).Pluck("id", &ids).Error
	return ids, err
}
