package chat_reply

import (
	"fmt"

	"github.com/google/uuid"

	types "github.com/yungbote/interviewprep-backend/internal/domain"
	jobrt "github.com/yungbote/interviewprep-backend/internal/jobs/runtime"
	apperr "github.com/yungbote/interviewprep-backend/internal/pkg/errors"
)

func (p *Pipeline) Run(jc *jobrt.Context) error {
	if jc == nil || jc.Job == nil {
		return nil
	}
	sessionID, ok := jc.PayloadUUID("session_id")
	if !ok {
		jc.FailPermanent("validate", fmt.Errorf("missing session_id"))
		return nil
	}
	messageID, _ := jc.PayloadUUID("message_id")

	history, err := p.messages.ListBySession(jc.DBC(), sessionID)
	if err != nil {
		jc.Fail("load", err)
		return nil
	}
	prior, prompt, answered := splitHistory(history, messageID)
	if prompt == nil {
		jc.FailPermanent("load", fmt.Errorf("chat message %s not found in session", messageID))
		return nil
	}
	if answered {
		jc.Succeed("done", map[string]any{"session_id": sessionID.String(), "skipped": "already_answered"})
		return nil
	}

	jc.Progress("reply", 30, "Companion is typing")
	content, err := p.responder.Reply(jc.Ctx, prior, prompt.Content)
	if err != nil {
		jc.Fail("reply", err)
		return nil
	}

	msg, created, err := p.chat.AppendCompanionReply(jc.DBC(), sessionID, content)
	if err != nil {
		if apperr.IsCode(err, apperr.CodeNotFound) || apperr.IsCode(err, apperr.CodeValidation) {
			jc.FailPermanent("append", err)
			return nil
		}
		jc.Fail("append", err)
		return nil
	}
	if !created {
		jc.Succeed("done", map[string]any{"session_id": sessionID.String(), "skipped": "session_completed"})
		return nil
	}
	jc.Succeed("done", map[string]any{
		"session_id": sessionID.String(),
		"message_id": msg.ID.String(),
	})
	return nil
}

// splitHistory finds the user message being answered. With no id it falls back to the latest user message.
// answered is true once the session holds at least one companion reply per user message up to the prompt.
func splitHistory(history []*types.ChatMessage, messageID uuid.UUID) (prior []*types.ChatMessage, prompt *types.ChatMessage, answered bool) {
	idx, asked, replies := -1, 0, 0
	for i, m := range history {
		if m == nil {
			continue
		}
		if !m.IsFromUser {
			replies++
			continue
		}
		if idx >= 0 && messageID != uuid.Nil {
			continue
		}
		if messageID == uuid.Nil || m.ID == messageID {
			idx = i
		}
	}
	if idx < 0 {
		return nil, nil, false
	}
	for _, m := range history[:idx+1] {
		if m != nil && m.IsFromUser {
			asked++
		}
	}
	return history[:idx], history[idx], replies >= asked
}
