package chat_reply

import (
	"github.com/yungbote/interviewprep-backend/internal/data/repos"
	"github.com/yungbote/interviewprep-backend/internal/platform/logger"
	"github.com/yungbote/interviewprep-backend/internal/services"
)

type Pipeline struct {
	log       *logger.Logger
	messages  repos.ChatMessageRepo
	chat      services.ChatService
	responder services.CompanionResponder
}

func New(baseLog *logger.Logger, messages repos.ChatMessageRepo, chat services.ChatService, responder services.CompanionResponder) *Pipeline {
	if responder == nil {
		responder = services.RuleResponder{}
	}
	return &Pipeline{
		log:       baseLog.With("job", services.JobTypeChatReply),
		messages:  messages,
		chat:      chat,
		responder: responder,
	}
}

func (p *Pipeline) Type() string { return services.JobTypeChatReply }
