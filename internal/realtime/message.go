package realtime

import "github.com/jobdeck/jobdeck_server/internal/application"

type MessageType string

const (
	MessageTypeConnected MessageType = "connected"
	MessageTypeChange    MessageType = "change"
	MessageTypePing      MessageType = "ping"
	MessageTypePong      MessageType = "pong"
	MessageTypeError     MessageType = "error"
)

// Action is the row-change discriminator carried by the store's
// notification payload.
type Action string

const (
	ActionInsert Action = "INSERT"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
)

type IncomingMessage struct {
	Type MessageType `json:"type"`
}

type OutgoingMessage struct {
	Type   MessageType `json:"type"`
	UserID string      `json:"userId,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// ChangeMessage tells a client that one of its rows changed. The server
// only publishes the event; what to refetch is the client's decision.
type ChangeMessage struct {
	Type        MessageType              `json:"type"`
	Action      Action                   `json:"action"`
	Application *application.Application `json:"application"`
}

// NotifyPayload is the JSON body of a pg_notify message emitted by the
// applications table trigger.
type NotifyPayload struct {
	Action Action                  `json:"action"`
	Row    application.Application `json:"row"`
}
