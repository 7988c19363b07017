package realtime

type SSEEvent string

const (
	SSEEventSessionStatusChanged SSEEvent = "SessionStatusChanged"
	SSEEventChatMessageCreated   SSEEvent = "ChatMessageCreated"
	SSEEventResultReady          SSEEvent = "ResultReady"

	SSEEventJobCreated  SSEEvent = "JobCreated"
	SSEEventJobProgress SSEEvent = "JobProgress"
	SSEEventJobFailed   SSEEvent = "JobFailed"
	SSEEventJobDone     SSEEvent = "JobDone"
)

// SSEMessage is addressed to a channel; user channels are the user id string.
type SSEMessage struct {
	Channel string   `json:"channel"`
	Event   SSEEvent `json:"event"`
	Data    any      `json:"data,omitempty"`
}
