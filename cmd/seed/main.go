package main

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"surveyflow/internal/config"
	"surveyflow/internal/model"
	"surveyflow/internal/repository"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	surveyRepo := repository.NewSurveyRepo(client.Database(cfg.MongoDatabase))

	survey := &model.Survey{
		ID:       uuid.NewString(),
		Title:    "Pet Owner Survey",
		IsActive: true,
		Questions: []model.Question{
			{
				ID:       "q_has_pet",
				Text:     "Do you own a pet?",
				Type:     model.QuestionTypeSingleChoice,
				Required: true,
				Options:  []string{"Yes", "No"},
			},
			{
				ID:      "q_pet_kinds",
				Text:    "Which pets do you own?",
				Type:    model.QuestionTypeMultiChoice,
				Options: []string{"Dog", "Cat", "Bird", "Fish", "Other"},
				Conditions: []model.Condition{
					{
						ID:               "c_owns_pet",
						TargetQuestionID: "q_has_pet",
						Operator:         model.OpEquals,
						Value:            "Yes",
					},
				},
			},
			{
				ID:   "q_dog_walks",
				Text: "How many times per day do you walk your dog?",
				Type: model.QuestionTypeNumber,
				Conditions: []model.Condition{
					{
						ID:               "c_owns_dog",
						TargetQuestionID: "q_pet_kinds",
						Operator:         model.OpContains,
						Value:            "Dog",
					},
				},
			},
			{
				ID:   "q_future_pet",
				Text: "Would you consider getting a pet in the future?",
				Type: model.QuestionTypeText,
				Conditions: []model.Condition{
					{
						ID:               "c_no_pet",
						TargetQuestionID: "q_has_pet",
						Operator:         model.OpEquals,
						Value:            "No",
					},
				},
			},
			{
				ID:   "q_remarks",
				Text: "Anything else you would like to share?",
				Type: model.QuestionTypeText,
			},
		},
	}

	id, err := surveyRepo.Create(ctx, survey)
	if err != nil {
		log.Fatalf("Failed to seed survey: %v", err)
	}
	log.Printf("Seeded survey %s (%q, %d questions)", id, survey.Title, len(survey.Questions))
}
