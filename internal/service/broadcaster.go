package service

// Broadcaster pushes live session events to admins watching a survey. The
// WebSocket hub implements it; services treat it as optional.
type Broadcaster interface {
	BroadcastToWatchers(surveyID string, event string, payload interface{})
}
