package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/yukikurage/hr-operations-api/internal/models"
)

// Summarizer condenses a task's message thread
type Summarizer interface {
	SummarizeThread(ctx context.Context, task models.Task, messages []models.TaskMessageWithSender) (string, error)
}

type AIService struct {
	client *openai.Client
	model  string
}

// NewAIService creates an AIService. baseURL overrides the OpenAI endpoint
// for compatible gateways and may be empty.
func NewAIService(apiKey, model, baseURL string) *AIService {
	if model == "" {
		model = openai.GPT4o
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &AIService{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// SummarizeThread asks the model for a short status summary of a task conversation
func (s *AIService) SummarizeThread(ctx context.Context, task models.Task, messages []models.TaskMessageWithSender) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("OpenAI client not initialized")
	}

	var transcript strings.Builder
	for _, m := range messages {
		sender := fmt.Sprintf("employee #%d", m.SenderID)
		if m.SenderName != nil {
			sender = *m.SenderName
		}
		fmt.Fprintf(&transcript, "[%s] %s: %s\n", m.CreatedAt.Format("2006-01-02 15:04"), sender, m.Content)
	}

	prompt := fmt.Sprintf(`You are assisting an HR operations team. Summarize the conversation on the task below.

Task: %s
Status: %s
Description: %s

Conversation:
%s
Reply with at most five short bullet points covering decisions, open questions and next steps.
Do not include information that is not in the conversation.`, task.Title, task.Status, task.Description, transcript.String())

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.2,
		},
	)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
