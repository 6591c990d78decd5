package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/hr-operations-api/internal/models"
)

func TestAIService_SummarizeThread(t *testing.T) {
	var received openai.ChatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: "  - Kickoff done\n"}},
			},
		})
	}))
	defer srv.Close()

	ai := NewAIService("test-key", "", srv.URL+"/v1")
	name := "Bob"
	summary, err := ai.SummarizeThread(context.Background(),
		models.Task{Title: "Quarterly review", Status: models.TaskStatusInProgress},
		[]models.TaskMessageWithSender{
			{SenderID: 20, Content: "kickoff done", CreatedAt: time.Now(), SenderName: &name},
			{SenderID: 99, Content: "who am I", CreatedAt: time.Now()},
		})
	require.NoError(t, err)

	assert.Equal(t, "- Kickoff done", summary)
	assert.Equal(t, openai.GPT4o, received.Model)
	require.Len(t, received.Messages, 1)
	assert.Contains(t, received.Messages[0].Content, "Quarterly review")
	assert.Contains(t, received.Messages[0].Content, "Bob: kickoff done")
	assert.Contains(t, received.Messages[0].Content, "employee #99: who am I")
}

func TestAIService_EmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	_, err := NewAIService("test-key", "gpt-4o-mini", srv.URL+"/v1").
		SummarizeThread(context.Background(), models.Task{Title: "x"}, nil)
	assert.ErrorContains(t, err, "no response from OpenAI")
}
