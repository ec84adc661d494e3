package service

import (
	"errors"

	"secaware_backend/internal/model"
	"secaware_backend/internal/repository"
	"secaware_backend/internal/util"

	"gorm.io/gorm"
)

type UserService struct {
	UserRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{UserRepo: userRepo}
}

func (s *UserService) ListUsers() ([]model.User, error) {
	return s.UserRepo.FindAll()
}

func (s *UserService) UpdateRole(id uint, role model.UserRole) (*model.User, error) {
	if role != model.RoleUser && role != model.RoleAdmin {
		return nil, errors.New("invalid role")
	}
	if _, err := s.UserRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	if err := s.UserRepo.UpdateRole(id, role); err != nil {
		return nil, err
	}
	return s.UserRepo.FindByID(id)
}

func (s *UserService) DeleteUser(id uint) error {
	if _, err := s.UserRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrUserNotFound
		}
		return err
	}
	return s.UserRepo.Delete(id)
}

func (s *UserService) GetProfile(id uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
