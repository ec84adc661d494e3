package service

import (
	"secaware_backend/internal/model"
	"secaware_backend/internal/repository"
)

type ContactService struct {
	ContactRepo *repository.ContactRepository
}

func NewContactService(contactRepo *repository.ContactRepository) *ContactService {
	return &ContactService{ContactRepo: contactRepo}
}

func (s *ContactService) Submit(name, email, message string) (*model.ContactSubmission, error) {
	submission := &model.ContactSubmission{
		Name:    name,
		Email:   email,
		Message: message,
	}
	if err := s.ContactRepo.Create(submission); err != nil {
		return nil, err
	}
	return submission, nil
}

func (s *ContactService) List() ([]model.ContactSubmission, error) {
	return s.ContactRepo.FindAll()
}
