package repository

import (
	"secaware_backend/internal/model"

	"gorm.io/gorm"
)

type ContactRepository struct {
	DB *gorm.DB
}

func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{DB: db}
}

func (r *ContactRepository) Create(submission *model.ContactSubmission) error {
	return r.DB.Create(submission).Error
}

func (r *ContactRepository) FindAll() ([]model.ContactSubmission, error) {
	var submissions []model.ContactSubmission
	err := r.DB.Order("created_at DESC").Find(&submissions).Error
	return submissions, err
}
