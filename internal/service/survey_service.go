package service

import (
	"context"
	"errors"
	"fmt"

	"surveyflow/internal/model"
	"surveyflow/internal/repository"
)

var (
	ErrSurveyNotFound = errors.New("survey not found")
	ErrInvalidSurvey  = errors.New("invalid survey definition")
)

// SurveyService handles authoring: survey CRUD plus definition validation.
// Validation is strict here so the navigation engine can stay forgiving at
// runtime: a condition may only target a question earlier in survey order.
type SurveyService struct {
	surveyRepo repository.SurveyRepo
}

// NewSurveyService creates a new survey service
func NewSurveyService(surveyRepo repository.SurveyRepo) *SurveyService {
	return &SurveyService{
		surveyRepo: surveyRepo,
	}
}

// Create validates and stores a new survey
func (s *SurveyService) Create(ctx context.Context, survey *model.Survey) (string, error) {
	if err := validateSurvey(survey); err != nil {
		return "", err
	}
	return s.surveyRepo.Create(ctx, survey)
}

// GetByID retrieves a survey by ID
func (s *SurveyService) GetByID(ctx context.Context, id string) (*model.Survey, error) {
	return s.surveyRepo.GetByID(ctx, id)
}

// List retrieves all surveys
func (s *SurveyService) List(ctx context.Context) ([]*model.Survey, error) {
	return s.surveyRepo.List(ctx)
}

// ListActive retrieves the surveys currently open to respondents
func (s *SurveyService) ListActive(ctx context.Context) ([]*model.Survey, error) {
	return s.surveyRepo.ListActive(ctx)
}

// Update validates and replaces an existing survey
func (s *SurveyService) Update(ctx context.Context, survey *model.Survey) error {
	if err := validateSurvey(survey); err != nil {
		return err
	}
	existing, err := s.surveyRepo.GetByID(ctx, survey.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrSurveyNotFound
	}
	survey.CreatedAt = existing.CreatedAt
	return s.surveyRepo.Update(ctx, survey)
}

// SetActive toggles whether respondents may start the survey
func (s *SurveyService) SetActive(ctx context.Context, id string, active bool) error {
	existing, err := s.surveyRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrSurveyNotFound
	}
	return s.surveyRepo.SetActive(ctx, id, active)
}

// Delete removes a survey
func (s *SurveyService) Delete(ctx context.Context, id string) error {
	return s.surveyRepo.Delete(ctx, id)
}

func validateSurvey(survey *model.Survey) error {
	if survey.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidSurvey)
	}
	if len(survey.Questions) == 0 {
		return fmt.Errorf("%w: at least one question is required", ErrInvalidSurvey)
	}

	positions := make(map[string]int, len(survey.Questions))
	for i, q := range survey.Questions {
		if q.ID == "" {
			return fmt.Errorf("%w: question %d has no id", ErrInvalidSurvey, i)
		}
		if _, dup := positions[q.ID]; dup {
			return fmt.Errorf("%w: duplicate question id %q", ErrInvalidSurvey, q.ID)
		}
		positions[q.ID] = i
	}

	for i, q := range survey.Questions {
		if err := validateQuestion(q, i, positions); err != nil {
			return err
		}
	}
	return nil
}

func validateQuestion(q model.Question, index int, positions map[string]int) error {
	switch q.Type {
	case model.QuestionTypeText, model.QuestionTypeNumber:
	case model.QuestionTypeSingleChoice, model.QuestionTypeMultiChoice:
		if len(q.Options) == 0 {
			return fmt.Errorf("%w: question %q needs at least one option", ErrInvalidSurvey, q.ID)
		}
	default:
		return fmt.Errorf("%w: question %q has unknown type %q", ErrInvalidSurvey, q.ID, q.Type)
	}

	switch q.ConditionMode {
	case "", model.ConditionModeAny, model.ConditionModeAll:
	default:
		return fmt.Errorf("%w: question %q has unknown condition mode %q", ErrInvalidSurvey, q.ID, q.ConditionMode)
	}

	for _, c := range q.Conditions {
		targetPos, ok := positions[c.TargetQuestionID]
		if !ok {
			return fmt.Errorf("%w: condition on question %q targets unknown question %q",
				ErrInvalidSurvey, q.ID, c.TargetQuestionID)
		}
		// Conditions may only look backward; forward and self references
		// could never be satisfied during a linear walk
		if targetPos >= index {
			return fmt.Errorf("%w: condition on question %q targets question %q which does not come before it",
				ErrInvalidSurvey, q.ID, c.TargetQuestionID)
		}
		if c.Expression == "" {
			if err := validateOperator(c.Operator); err != nil {
				return fmt.Errorf("%w: condition on question %q: %v", ErrInvalidSurvey, q.ID, err)
			}
		}
	}
	return nil
}

func validateOperator(op model.Operator) error {
	switch op {
	case model.OpEquals, model.OpNotEquals, model.OpContains,
		model.OpGreaterThan, model.OpGreaterOrEqual, model.OpLessThan, model.OpLessOrEqual:
		return nil
	}
	return fmt.Errorf("unknown operator %q", op)
}
