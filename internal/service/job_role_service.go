package service

import (
	"errors"
	"strings"

	"secaware_backend/internal/model"
	"secaware_backend/internal/repository"
	"secaware_backend/internal/util"

	"gorm.io/gorm"
)

type JobRoleService struct {
	JobRoleRepo *repository.JobRoleRepository
}

func NewJobRoleService(jobRoleRepo *repository.JobRoleRepository) *JobRoleService {
	return &JobRoleService{JobRoleRepo: jobRoleRepo}
}

func (s *JobRoleService) List() ([]model.JobRole, error) {
	return s.JobRoleRepo.FindAll()
}

func (s *JobRoleService) Create(name string) (*model.JobRole, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("name required")
	}
	role := &model.JobRole{Name: name}
	if err := s.JobRoleRepo.Create(role); err != nil {
		return nil, err
	}
	return role, nil
}

func (s *JobRoleService) Update(id uint, name string) (*model.JobRole, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("name required")
	}
	role, err := s.JobRoleRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrJobRoleNotFound
		}
		return nil, err
	}
	role.Name = name
	if err := s.JobRoleRepo.Update(role); err != nil {
		return nil, err
	}
	return role, nil
}

func (s *JobRoleService) Delete(id uint) error {
	if _, err := s.JobRoleRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrJobRoleNotFound
		}
		return err
	}
	return s.JobRoleRepo.Delete(id)
}
