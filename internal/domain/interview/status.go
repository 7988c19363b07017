package interview

type SessionStatus string

const (
	SessionPending          SessionStatus = "PENDING"
	SessionOngoing          SessionStatus = "ONGOING"
	SessionEnded            SessionStatus = "ENDED"
	SessionResultProcessing SessionStatus = "RESULT_PROCESSING"
	SessionResultProcessed  SessionStatus = "RESULT_PROCESSED"
	// SessionResultFailed is reached only from RESULT_PROCESSING after the aggregation job exhausts its attempts.
	SessionResultFailed SessionStatus = "RESULT_FAILED"
)

var sessionRank = map[SessionStatus]int{
	SessionPending:          0,
	SessionOngoing:          1,
	SessionEnded:            2,
	SessionResultProcessing: 3,
	SessionResultProcessed:  4,
	SessionResultFailed:     4,
}

// Rank orders statuses along the lifecycle; unknown values rank -1.
func (s SessionStatus) Rank() int {
	r, ok := sessionRank[s]
	if !ok {
		return -1
	}
	return r
}

func (s SessionStatus) Valid() bool { return s.Rank() >= 0 }

// Completed reports whether the session no longer accepts chat messages.
func (s SessionStatus) Completed() bool {
	return s == SessionResultProcessing || s == SessionResultProcessed || s == SessionResultFailed
}

// Ended reports whether the session no longer accepts responses.
func (s SessionStatus) Ended() bool {
	return s == SessionEnded || s.Completed()
}

// Terminal reports whether no further transition is possible.
func (s SessionStatus) Terminal() bool {
	return s == SessionResultProcessed || s == SessionResultFailed
}

// CanTransition reports whether from → to is one of the legal forward edges.
func CanTransition(from, to SessionStatus) bool {
	switch from {
	case SessionPending:
		return to == SessionOngoing || to == SessionEnded
	case SessionOngoing:
		return to == SessionEnded
	case SessionEnded:
		return to == SessionResultProcessing
	case SessionResultProcessing:
		return to == SessionResultProcessed || to == SessionResultFailed
	default:
		return false
	}
}

type QuestionType string

const (
	QuestionVerbal QuestionType = "VERBAL"
	QuestionCode   QuestionType = "CODE"
)

func (t QuestionType) Valid() bool { return t == QuestionVerbal || t == QuestionCode }
