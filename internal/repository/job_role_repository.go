package repository

import (
	"secaware_backend/internal/model"

	"gorm.io/gorm"
)

type JobRoleRepository struct {
	DB *gorm.DB
}

func NewJobRoleRepository(db *gorm.DB) *JobRoleRepository {
	return &JobRoleRepository{DB: db}
}

func (r *JobRoleRepository) Create(role *model.JobRole) error {
	return r.DB.Create(role).Error
}

func (r *JobRoleRepository) FindByID(id uint) (*model.JobRole, error) {
	var role model.JobRole
	if err := r.DB.First(&role, id).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *JobRoleRepository) FindAll() ([]model.JobRole, error) {
	var roles []model.JobRole
	err := r.DB.Order("name ASC").Find(&roles).Error
	return roles, err
}

func (r *JobRoleRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&model.JobRole{}).Count(&count).Error
	return count, err
}

func (r *JobRoleRepository) Update(role *model.JobRole) error {
	return r.DB.Save(role).Error
}

func (r *JobRoleRepository) Delete(id uint) error {
	return r.DB.Delete(&model.JobRole{}, id).Error
}
