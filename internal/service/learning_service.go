package service

import (
	"errors"
	"strings"

	"secaware_backend/internal/model"
	"secaware_backend/internal/repository"
	"secaware_backend/internal/util"

	"gorm.io/gorm"
)

type LearningService struct {
	LearningRepo *repository.LearningRepository
	DB           *gorm.DB
}

func NewLearningService(learningRepo *repository.LearningRepository, db *gorm.DB) *LearningService {
	return &LearningService{
		LearningRepo: learningRepo,
		DB:           db,
	}
}

// LearningUpdateRequest 编辑学习资料：内容和岗位关联整体替换
type LearningUpdateRequest struct {
	Title      string           `json:"title" binding:"required"`
	Visibility model.Visibility `json:"visibility"`
	VideoURL   string           `json:"videoUrl"`
	TextBody   string           `json:"textBody"`
	JobRoleIDs []uint           `json:"jobRoleIds"`
}

func (s *LearningService) List(visibleOnly bool) ([]model.Learning, error) {
	if visibleOnly {
		return s.LearningRepo.FindPublic()
	}
	return s.LearningRepo.FindAll()
}

func (s *LearningService) Get(id string) (*model.Learning, error) {
	learning, err := s.LearningRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLearningNotFound
		}
		return nil, err
	}
	return learning, nil
}

func (s *LearningService) Create(title string, learningType model.LearningType) (*model.Learning, error) {
	if strings.TrimSpace(title) == "" {
		return nil, errors.New("title required")
	}
	if learningType != model.LearningVideo && learningType != model.LearningText {
		return nil, errors.New("invalid learning type")
	}
	learning := &model.Learning{
		Title:      title,
		Type:       learningType,
		Visibility: model.VisibilityPrivate,
	}
	if err := s.LearningRepo.Create(learning); err != nil {
		return nil, err
	}
	return learning, nil
}

func (s *LearningService) UpdateVisibility(id string, visibility model.Visibility) (*model.Learning, error) {
	if visibility != model.VisibilityPublic && visibility != model.VisibilityPrivate {
		return nil, errors.New("invalid visibility")
	}
	learning, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	learning.Visibility = visibility
	if err := s.LearningRepo.Update(learning); err != nil {
		return nil, err
	}
	return learning, nil
}

// Update 整体替换内容与岗位关联，单个事务
func (s *LearningService) Update(id string, req LearningUpdateRequest) (*model.Learning, error) {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var learning model.Learning
		if err := tx.First(&learning, "id = ?", id).Error; err != nil {
			return err
		}

		learning.Title = req.Title
		if req.Visibility != "" {
			learning.Visibility = req.Visibility
		}
		if err := tx.Save(&learning).Error; err != nil {
			return err
		}

		if err := tx.Where("learning_id = ?", id).Delete(&model.VideoContent{}).Error; err != nil {
			return err
		}
		if err := tx.Where("learning_id = ?", id).Delete(&model.TextContent{}).Error; err != nil {
			return err
		}
		if err := tx.Where("learning_id = ?", id).Delete(&model.LearningJobRole{}).Error; err != nil {
			return err
		}

		if learning.Type == model.LearningVideo && req.VideoURL != "" {
			if err := tx.Create(&model.VideoContent{LearningID: id, URL: req.VideoURL}).Error; err != nil {
				return err
			}
		}
		if learning.Type == model.LearningText && req.TextBody != "" {
			if err := tx.Create(&model.TextContent{LearningID: id, Body: req.TextBody}).Error; err != nil {
				return err
			}
		}
		for _, roleID := range req.JobRoleIDs {
			if err := tx.Create(&model.LearningJobRole{LearningID: id, JobRoleID: roleID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLearningNotFound
		}
		return nil, err
	}
	return s.LearningRepo.FindByID(id)
}

// Delete 级联删除内容与岗位关联，再删资料本身
func (s *LearningService) Delete(id string) error {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var learning model.Learning
		if err := tx.First(&learning, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("learning_id = ?", id).Delete(&model.LearningJobRole{}).Error; err != nil {
			return err
		}
		if err := tx.Where("learning_id = ?", id).Delete(&model.VideoContent{}).Error; err != nil {
			return err
		}
		if err := tx.Where("learning_id = ?", id).Delete(&model.TextContent{}).Error; err != nil {
			return err
		}
		return tx.Delete(&learning).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrLearningNotFound
		}
		return err
	}
	return nil
}
