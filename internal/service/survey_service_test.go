package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveyflow/internal/model"
)

// fakeSurveyRepo is an in-memory repository.SurveyRepo
type fakeSurveyRepo struct {
	surveys map[string]*model.Survey
}

func newFakeSurveyRepo() *fakeSurveyRepo {
	return &fakeSurveyRepo{surveys: make(map[string]*model.Survey)}
}

func (r *fakeSurveyRepo) Create(_ context.Context, survey *model.Survey) (string, error) {
	if survey.ID == "" {
		survey.ID = "s_fake"
	}
	if survey.CreatedAt.IsZero() {
		survey.CreatedAt = time.Now()
	}
	r.surveys[survey.ID] = survey
	return survey.ID, nil
}

func (r *fakeSurveyRepo) GetByID(_ context.Context, id string) (*model.Survey, error) {
	return r.surveys[id], nil
}

func (r *fakeSurveyRepo) List(_ context.Context) ([]*model.Survey, error) {
	var out []*model.Survey
	for _, s := range r.surveys {
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeSurveyRepo) ListActive(_ context.Context) ([]*model.Survey, error) {
	var out []*model.Survey
	for _, s := range r.surveys {
		if s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSurveyRepo) Update(_ context.Context, survey *model.Survey) error {
	r.surveys[survey.ID] = survey
	return nil
}

func (r *fakeSurveyRepo) SetActive(_ context.Context, id string, active bool) error {
	if s, ok := r.surveys[id]; ok {
		s.IsActive = active
	}
	return nil
}

func (r *fakeSurveyRepo) Delete(_ context.Context, id string) error {
	delete(r.surveys, id)
	return nil
}

func validSurvey() *model.Survey {
	return &model.Survey{
		Title: "Feedback",
		Questions: []model.Question{
			{ID: "q1", Text: "Happy?", Type: model.QuestionTypeSingleChoice, Options: []string{"Yes", "No"}},
			{ID: "q2", Text: "Why not?", Type: model.QuestionTypeText, Conditions: []model.Condition{
				{ID: "c1", TargetQuestionID: "q1", Operator: model.OpEquals, Value: "No"},
			}},
		},
	}
}

func TestCreateValidSurvey(t *testing.T) {
	svc := NewSurveyService(newFakeSurveyRepo())

	id, err := svc.Create(context.Background(), validSurvey())
	require.NoError(t, err)
	assert.NotEmpty(t, id)
}

func TestCreateRejectsDuplicateQuestionIDs(t *testing.T) {
	svc := NewSurveyService(newFakeSurveyRepo())

	s := validSurvey()
	s.Questions[1].ID = "q1"
	s.Questions[1].Conditions = nil

	_, err := svc.Create(context.Background(), s)
	assert.ErrorIs(t, err, ErrInvalidSurvey)
}

func TestCreateRejectsForwardConditionTarget(t *testing.T) {
	svc := NewSurveyService(newFakeSurveyRepo())

	s := validSurvey()
	// q1 may not depend on the later q2
	s.Questions[0].Conditions = []model.Condition{
		{ID: "c2", TargetQuestionID: "q2", Operator: model.OpEquals, Value: "x"},
	}

	_, err := svc.Create(context.Background(), s)
	assert.ErrorIs(t, err, ErrInvalidSurvey)
}

func TestCreateRejectsSelfReference(t *testing.T) {
	svc := NewSurveyService(newFakeSurveyRepo())

	s := validSurvey()
	s.Questions[1].Conditions = []model.Condition{
		{ID: "c1", TargetQuestionID: "q2", Operator: model.OpEquals, Value: "x"},
	}

	_, err := svc.Create(context.Background(), s)
	assert.ErrorIs(t, err, ErrInvalidSurvey)
}

func TestCreateRejectsUnknownConditionTarget(t *testing.T) {
	svc := NewSurveyService(newFakeSurveyRepo())

	s := validSurvey()
	s.Questions[1].Conditions[0].TargetQuestionID = "q99"

	_, err := svc.Create(context.Background(), s)
	assert.ErrorIs(t, err, ErrInvalidSurvey)
}

func TestCreateRejectsChoiceWithoutOptions(t *testing.T) {
	svc := NewSurveyService(newFakeSurveyRepo())

	s := validSurvey()
	s.Questions[0].Options = nil

	_, err := svc.Create(context.Background(), s)
	assert.ErrorIs(t, err, ErrInvalidSurvey)
}

func TestCreateRejectsUnknownOperator(t *testing.T) {
	svc := NewSurveyService(newFakeSurveyRepo())

	s := validSurvey()
	s.Questions[1].Conditions[0].Operator = "matches"

	_, err := svc.Create(context.Background(), s)
	assert.ErrorIs(t, err, ErrInvalidSurvey)
}

func TestCreateAllowsExpressionWithoutOperator(t *testing.T) {
	svc := NewSurveyService(newFakeSurveyRepo())

	s := validSurvey()
	s.Questions[1].Conditions[0] = model.Condition{
		ID:               "c1",
		TargetQuestionID: "q1",
		Expression:       `q1 == "No"`,
	}

	_, err := svc.Create(context.Background(), s)
	assert.NoError(t, err)
}

func TestUpdateUnknownSurvey(t *testing.T) {
	svc := NewSurveyService(newFakeSurveyRepo())

	s := validSurvey()
	s.ID = "missing"
	err := svc.Update(context.Background(), s)
	assert.ErrorIs(t, err, ErrSurveyNotFound)
}

func TestUpdatePreservesCreatedAt(t *testing.T) {
	repo := newFakeSurveyRepo()
	svc := NewSurveyService(repo)

	s := validSurvey()
	id, err := svc.Create(context.Background(), s)
	require.NoError(t, err)
	created := repo.surveys[id].CreatedAt

	updated := validSurvey()
	updated.ID = id
	updated.Title = "Feedback v2"
	require.NoError(t, svc.Update(context.Background(), updated))

	assert.Equal(t, created, repo.surveys[id].CreatedAt)
	assert.Equal(t, "Feedback v2", repo.surveys[id].Title)
}

func TestSetActiveUnknownSurvey(t *testing.T) {
	svc := NewSurveyService(newFakeSurveyRepo())
	err := svc.SetActive(context.Background(), "missing", true)
	assert.ErrorIs(t, err, ErrSurveyNotFound)
}
