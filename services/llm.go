package services

import (
	"bytes"
	stdContext "context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/ColdByDefault/Portfolio-sub001/shared"
)

// LLMService talks to an OpenAI-compatible chat completions endpoint.
// Upstream failures are logged in full but surface to clients as a
// generic downstream error; provider details never leave the process.
type LLMService struct {
	context.DefaultService

	httpClient   *http.Client
	apiURL       string
	apiKey       string
	model        string
	systemPrompt string
}

type llmMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type llmRequest struct {
	Model       string       `json:"model"`
	Messages    []llmMessage `json:"messages"`
	MaxTokens   int          `json:"max_tokens,omitempty"`
	Temperature float64      `json:"temperature,omitempty"`
}

type llmResponse struct {
	Choices []struct {
		Message llmMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

const LLM_SVC = "llm_svc"

const defaultSystemPrompt = "You are a helpful assistant on a personal portfolio site. " +
	"Answer questions about the site owner's work, projects and skills. " +
	"Keep answers short and decline off-topic requests."

func (svc LLMService) Id() string {
	return LLM_SVC
}

func (svc *LLMService) Configure(ctx *context.Context) error {
	svc.apiURL = os.Getenv("LLM_API_URL")
	svc.apiKey = os.Getenv("LLM_API_KEY")
	svc.model = os.Getenv("LLM_MODEL")
	svc.systemPrompt = os.Getenv("LLM_SYSTEM_PROMPT")

	if svc.model == "" {
		svc.model = "gpt-4o-mini"
	}
	if svc.systemPrompt == "" {
		svc.systemPrompt = defaultSystemPrompt
	}

	svc.httpClient = &http.Client{
		Timeout: 30 * time.Second,
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *LLMService) Start() error {
	if svc.apiURL == "" || svc.apiKey == "" {
		log.Warn("LLM provider not configured, chat replies will be unavailable")
	}
	return nil
}

func (svc *LLMService) Available() bool {
	return svc.apiURL != "" && svc.apiKey != ""
}

// Complete sends the conversation history plus the new user message and
// returns the assistant reply.
func (svc *LLMService) Complete(ctx stdContext.Context, history []llmMessage, userMessage string) (string, error) {
	if !svc.Available() {
		return "", errChatUnavailable()
	}

	messages := make([]llmMessage, 0, len(history)+2)
	messages = append(messages, llmMessage{Role: "system", Content: svc.systemPrompt})
	messages = append(messages, history...)
	messages = append(messages, llmMessage{Role: "user", Content: userMessage})

	payload, err := shared.JSONMarshal(llmRequest{
		Model:       svc.model,
		Messages:    messages,
		MaxTokens:   512,
		Temperature: 0.7,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, svc.apiURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+svc.apiKey)

	resp, err := svc.httpClient.Do(req)
	if err != nil {
		log.WithError(err).Error("LLM request failed")
		return "", errChatUnavailable()
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		log.WithError(err).Error("Failed to read LLM response")
		return "", errChatUnavailable()
	}

	if resp.StatusCode != http.StatusOK {
		log.WithFields(log.Fields{"status": resp.StatusCode, "body": truncate(string(body), 512)}).
			Error("LLM returned non-200 status")
		return "", errChatUnavailable()
	}

	var parsed llmResponse
	if err := shared.JSONUnmarshal(body, &parsed); err != nil {
		log.WithError(err).Error("Failed to decode LLM response")
		return "", errChatUnavailable()
	}

	if parsed.Error != nil {
		log.WithFields(log.Fields{"type": parsed.Error.Type, "message": parsed.Error.Message}).
			Error("LLM returned an error payload")
		return "", errChatUnavailable()
	}

	if len(parsed.Choices) == 0 {
		return "", errChatUnavailable()
	}

	return parsed.Choices[0].Message.Content, nil
}

func errChatUnavailable() *shared.AppError {
	return shared.NewDownstreamError("chat service is not available", map[string]string{"code": shared.ChatErrServiceUnavailable})
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return fmt.Sprintf("%s... (%d bytes)", s[:n], len(s))
}
