package services

import (
	"context"
	"fmt"
	"strings"

	types "github.com/yungbote/interviewprep-backend/internal/domain"
	"github.com/yungbote/interviewprep-backend/internal/platform/logger"
	"github.com/yungbote/interviewprep-backend/internal/platform/openai"
)

// CompanionResponder writes the assistant's reply to a user chat message.
type CompanionResponder interface {
	Reply(ctx context.Context, history []*types.ChatMessage, userMessage string) (string, error)
}

const defaultCompanionReply = "I understand. Could you tell me more about your approach?"

type companionRule struct {
	keywords []string
	reply    string
}

var companionRules = []companionRule{
	{[]string{"hello", "hi"}, "Hello! I'm your interview assistant. How can I help you today?"},
	{[]string{"help"}, "I'm here to help! You can ask for hints on questions or request clarification."},
	{[]string{"difficult", "hard"}, "It's okay to find questions challenging. Take your time and break down the problem step by step."},
	{[]string{"thanks", "thank you"}, "You're welcome! I'm here to support you throughout this interview process."},
}

// RuleResponder answers with canned replies keyed on substrings of the user's message.
type RuleResponder struct{}

func (RuleResponder) Reply(_ context.Context, _ []*types.ChatMessage, userMessage string) (string, error) {
	msg := strings.ToLower(userMessage)
	for _, rule := range companionRules {
		for _, kw := range rule.keywords {
			if strings.Contains(msg, kw) {
				return rule.reply, nil
			}
		}
	}
	return defaultCompanionReply, nil
}

const companionSystemPrompt = `You are a friendly assistant sitting beside a candidate during a mock job interview.
Reply in at most two short sentences. Encourage the candidate and offer clarification or gentle hints.
Never answer the interview questions for them.`

// LLMResponder asks the language model for a reply and falls back to the rules on any failure.
type LLMResponder struct {
	Client   openai.Client
	Fallback CompanionResponder
	Log      *logger.Logger
}

func NewLLMResponder(client openai.Client, baseLog *logger.Logger) *LLMResponder {
	return &LLMResponder{
		Client:   client,
		Fallback: RuleResponder{},
		Log:      baseLog.With("service", "LLMResponder"),
	}
}

func (r *LLMResponder) Reply(ctx context.Context, history []*types.ChatMessage, userMessage string) (string, error) {
	if r.Client == nil {
		return r.Fallback.Reply(ctx, history, userMessage)
	}
	var b strings.Builder
	for _, m := range history {
		who := "Assistant"
		if m.IsFromUser {
			who = "Candidate"
		}
		fmt.Fprintf(&b, "%s: %s\n", who, m.Content)
	}
	fmt.Fprintf(&b, "Candidate: %s\nAssistant:", userMessage)

	out, err := r.Client.GenerateText(ctx, companionSystemPrompt, b.String())
	out = strings.TrimSpace(out)
	if err != nil || out == "" {
		if r.Log != nil {
			r.Log.Warn("Companion reply generation failed; using canned reply", "error", err)
		}
		return r.Fallback.Reply(ctx, history, userMessage)
	}
	return out, nil
}
