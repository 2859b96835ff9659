package model

// Sender identifies who authored a chat message
type Sender string

const (
	SenderAI   Sender = "ai"
	SenderUser Sender = "user"
)

// ChatMessage is one entry of the append-only chat transcript.
// Insertion order is display order.
type ChatMessage struct {
	Sender Sender `json:"sender"`
	Text   string `json:"text"`
}
