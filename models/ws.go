package models

type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

const (
	// WSTypeRemindersChanged tells a client that its reminder set changed
	// server-side and it should re-fetch. No reminder content rides on the
	// event itself.
	WSTypeRemindersChanged = "reminders_changed"
)
