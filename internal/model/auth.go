package model

import "github.com/golang-jwt/jwt/v5"

// LoginRequest is the admin login payload
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the admin token
type LoginResponse struct {
	Token   string `json:"token"`
	AdminID string `json:"adminId"`
}

// AdminClaims are JWT claims for the survey administrator
type AdminClaims struct {
	AdminID string `json:"adminId"`
	jwt.RegisteredClaims
}

// SessionClaims are JWT claims scoping a respondent to one session
type SessionClaims struct {
	SessionID string `json:"sessionId"`
	SurveyID  string `json:"surveyId"`
	jwt.RegisteredClaims
}
