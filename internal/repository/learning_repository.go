package repository

import (
	"secaware_backend/internal/model"

	"gorm.io/gorm"
)

type LearningRepository struct {
	DB *gorm.DB
}

func NewLearningRepository(db *gorm.DB) *LearningRepository {
	return &LearningRepository{DB: db}
}

func (r *LearningRepository) Create(learning *model.Learning) error {
	return r.DB.Create(learning).Error
}

func (r *LearningRepository) FindByID(id string) (*model.Learning, error) {
	var learning model.Learning
	err := r.DB.
		Preload("JobRoles").
		Preload("JobRoles.JobRole").
		Preload("VideoContent").
		Preload("TextContent").
		First(&learning, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &learning, nil
}

func (r *LearningRepository) FindAll() ([]model.Learning, error) {
	var learnings []model.Learning
	err := r.DB.
		Preload("JobRoles").
		Preload("JobRoles.JobRole").
		Order("created_at DESC").
		Find(&learnings).Error
	return learnings, err
}

func (r *LearningRepository) FindPublic() ([]model.Learning, error) {
	var learnings []model.Learning
	err := r.DB.
		Preload("JobRoles").
		Preload("JobRoles.JobRole").
		Where("visibility = ?", model.VisibilityPublic).
		Order("created_at DESC").
		Find(&learnings).Error
	return learnings, err
}

func (r *LearningRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Learning{}).Count(&count).Error
	return count, err
}

func (r *LearningRepository) Update(learning *model.Learning) error {
	return r.DB.Save(learning).Error
}
