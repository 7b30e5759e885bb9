package service

import (
	"context"

	"surveyflow/internal/model"
	"surveyflow/internal/repository"
)

// ResponseService gives admins access to completed responses
type ResponseService struct {
	responseRepo repository.ResponseRepo
}

// NewResponseService creates a new response service
func NewResponseService(responseRepo repository.ResponseRepo) *ResponseService {
	return &ResponseService{
		responseRepo: responseRepo,
	}
}

// GetByID retrieves a single response
func (s *ResponseService) GetByID(ctx context.Context, id string) (*model.Response, error) {
	return s.responseRepo.GetByID(ctx, id)
}

// ListBySurvey retrieves all responses for a survey, newest first
func (s *ResponseService) ListBySurvey(ctx context.Context, surveyID string) ([]*model.Response, error) {
	return s.responseRepo.GetBySurveyID(ctx, surveyID)
}

// CountBySurvey returns how many responses a survey has collected
func (s *ResponseService) CountBySurvey(ctx context.Context, surveyID string) (int64, error) {
	return s.responseRepo.CountBySurveyID(ctx, surveyID)
}

// Delete removes a response
func (s *ResponseService) Delete(ctx context.Context, id string) error {
	return s.responseRepo.Delete(ctx, id)
}
