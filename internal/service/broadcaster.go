package service

// Event names pushed to the connected client
const (
	EventSessionUpdated    = "session_updated"
	EventTimerTick         = "timer_tick"
	EventInterviewFinished = "interview_finished"
)

// Broadcaster pushes session events to the presentation layer. The WebSocket
// hub implements it; services treat it as optional.
type Broadcaster interface {
	Broadcast(event string, payload interface{})
}
