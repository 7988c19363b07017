package services

import (
	"context"
	"fmt"
	"strings"

	types "github.com/yungbote/interviewprep-backend/internal/domain"
	"github.com/yungbote/interviewprep-backend/internal/pkg/pointers"
	"github.com/yungbote/interviewprep-backend/internal/platform/logger"
	"github.com/yungbote/interviewprep-backend/internal/platform/openai"
)

// QuestionGenerator builds an interview's question set. Returned questions carry Position,
// Type and Content; the caller assigns InterviewID.
type QuestionGenerator interface {
	Generate(ctx context.Context, listing *types.JobListing, resume *types.Resume) ([]*types.Question, error)
}

// TemplateQuestionGenerator returns a fixed base set plus extras keyed on the listing's skills.
type TemplateQuestionGenerator struct{}

func (TemplateQuestionGenerator) Generate(_ context.Context, listing *types.JobListing, _ *types.Resume) ([]*types.Question, error) {
	if listing == nil {
		return nil, fmt.Errorf("job listing is required")
	}
	questions := []*types.Question{
		{
			Position: 1,
			Type:     types.QuestionVerbal,
			Category: "experience",
			Content:  "Tell me about your experience with the technologies mentioned in your resume.",
		},
		{
			Position: 2,
			Type:     types.QuestionVerbal,
			Category: "behavioral",
			Content:  fmt.Sprintf("The job description for %s mentions team collaboration. Can you describe a situation where you worked effectively in a team?", listing.Title),
		},
		{
			Position: 3,
			Type:     types.QuestionVerbal,
			Category: "motivation",
			Content:  "What interests you most about this position?",
		},
		{
			Position: 4,
			Type:     types.QuestionVerbal,
			Category: "behavioral",
			Content:  "How do you handle tight deadlines and pressure?",
		},
		{
			Position:       5,
			Type:           types.QuestionCode,
			Category:       "coding",
			Content:        "Write a function that finds the maximum value in an array of integers.",
			CodeSnippet:    pointers.String("function findMax(arr) {\n  // Your code here\n}"),
			ExpectedAnswer: pointers.String("function findMax(arr) {\n  return Math.max(...arr);\n}"),
		},
	}

	skills := map[string]bool{}
	for _, sk := range skillsOf(listing.Skills) {
		skills[sk] = true
	}
	if skills["React"] {
		questions = append(questions, &types.Question{
			Position: 6,
			Type:     types.QuestionVerbal,
			Category: "technical",
			Content:  "Explain the concept of virtual DOM in React and why it's important.",
		})
	}
	if skills["JavaScript"] || skills["TypeScript"] {
		questions = append(questions, &types.Question{
			Position:       7,
			Type:           types.QuestionCode,
			Category:       "coding",
			Content:        "Write a function that returns a Promise which resolves after a specified delay.",
			CodeSnippet:    pointers.String("function delay(ms) {\n  // Your code here\n}"),
			ExpectedAnswer: pointers.String("function delay(ms) {\n  return new Promise(resolve => setTimeout(resolve, ms));\n}"),
		})
	}
	if skills["Node.js"] {
		questions = append(questions, &types.Question{
			Position: 8,
			Type:     types.QuestionVerbal,
			Category: "technical",
			Content:  "Describe the event loop in Node.js and how it enables non-blocking I/O operations.",
		})
	}
	return questions, nil
}

const questionSystemPrompt = `You write mock interview questions for software job candidates.
Return a JSON object {"questions":[{"content":string,"type":"VERBAL"|"CODE","category":string,"code_snippet":string,"expected_answer":string}]}.
Write between 5 and 8 questions. Include at least one CODE question with a starter code_snippet.`

type llmQuestion struct {
	Content        string `json:"content"`
	Type           string `json:"type"`
	Category       string `json:"category"`
	CodeSnippet    string `json:"code_snippet"`
	ExpectedAnswer string `json:"expected_answer"`
}

// LLMQuestionGenerator asks the language model for questions and falls back on any failure.
type LLMQuestionGenerator struct {
	Client   openai.Client
	Fallback QuestionGenerator
	Log      *logger.Logger
}

func NewLLMQuestionGenerator(client openai.Client, baseLog *logger.Logger) *LLMQuestionGenerator {
	return &LLMQuestionGenerator{
		Client:   client,
		Fallback: TemplateQuestionGenerator{},
		Log:      baseLog.With("service", "LLMQuestionGenerator"),
	}
}

func (g *LLMQuestionGenerator) Generate(ctx context.Context, listing *types.JobListing, resume *types.Resume) ([]*types.Question, error) {
	if listing == nil {
		return nil, fmt.Errorf("job listing is required")
	}
	if g.Client == nil {
		return g.Fallback.Generate(ctx, listing, resume)
	}
	var out struct {
		Questions []llmQuestion `json:"questions"`
	}
	if err := g.Client.GenerateJSON(ctx, questionSystemPrompt, questionPrompt(listing, resume), &out); err != nil {
		g.Log.Warn("Question generation failed; using templates", "error", err)
		return g.Fallback.Generate(ctx, listing, resume)
	}
	questions := make([]*types.Question, 0, len(out.Questions))
	for _, q := range out.Questions {
		content := strings.TrimSpace(q.Content)
		qtype := types.QuestionType(strings.ToUpper(strings.TrimSpace(q.Type)))
		if content == "" || !qtype.Valid() {
			continue
		}
		question := &types.Question{
			Position: len(questions) + 1,
			Type:     qtype,
			Category: strings.TrimSpace(q.Category),
			Content:  content,
		}
		if s := strings.TrimSpace(q.CodeSnippet); s != "" {
			question.CodeSnippet = pointers.String(s)
		}
		if s := strings.TrimSpace(q.ExpectedAnswer); s != "" {
			question.ExpectedAnswer = pointers.String(s)
		}
		questions = append(questions, question)
	}
	if len(questions) == 0 {
		g.Log.Warn("Question generation returned nothing usable; using templates")
		return g.Fallback.Generate(ctx, listing, resume)
	}
	return questions, nil
}

func questionPrompt(listing *types.JobListing, resume *types.Resume) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Job title: %s\nCompany: %s\n", listing.Title, listing.Company)
	if listing.Experience != "" {
		fmt.Fprintf(&b, "Experience: %s\n", listing.Experience)
	}
	if skills := skillsOf(listing.Skills); len(skills) > 0 {
		fmt.Fprintf(&b, "Required skills: %s\n", strings.Join(skills, ", "))
	}
	if listing.Description != "" {
		fmt.Fprintf(&b, "Description:\n%s\n", listing.Description)
	}
	if resume != nil && strings.TrimSpace(resume.Content) != "" {
		fmt.Fprintf(&b, "\nCandidate resume:\n%s\n", resume.Content)
	}
	return b.String()
}
