package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/yungbote/studymaster-backend/internal/logger"
	"github.com/yungbote/studymaster-backend/internal/utils"
)

// AIClient is the boundary to the generative model service: an ordered
// list of role-tagged messages in, a single text completion out. Failures
// surface as ModelCallFailedError and are never retried here.
type AIClient interface {
	Chat(ctx context.Context, model string, messages []AIMessage) (string, error)
	ScheduleModel() string
	GradingModel() string
}

type AIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type aiClient struct {
	httpClient    *http.Client
	log           *logger.Logger
	apiKey        string
	baseURL       string
	scheduleModel string
	gradingModel  string
}

func NewAIClient(log *logger.Logger) (AIClient, error) {
	serviceLog := log.With("service", "AIClient")
	apiKey := utils.GetEnv("OPENAI_API_KEY", "", log)
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}
	baseURL := utils.GetEnv("OPENAI_BASE_URL", "https://api.openai.com", log)
	scheduleModel := utils.GetEnv("OPENAI_SCHEDULE_MODEL", "gpt-4o", log)
	gradingModel := utils.GetEnv("OPENAI_GRADING_MODEL", "gpt-4o-mini", log)
	timeoutSec := utils.GetEnvAsInt("OPENAI_TIMEOUT_SECONDS", 120, log)

	return &aiClient{
		httpClient:    &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		log:           serviceLog,
		apiKey:        apiKey,
		baseURL:       baseURL,
		scheduleModel: scheduleModel,
		gradingModel:  gradingModel,
	}, nil
}

func (c *aiClient) ScheduleModel() string { return c.scheduleModel }
func (c *aiClient) GradingModel() string  { return c.gradingModel }

type chatCompletionRequest struct {
	Model    string      `json:"model"`
	Messages []AIMessage `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *aiClient) Chat(ctx context.Context, model string, messages []AIMessage) (string, error) {
	if len(messages) == 0 {
		return "", &ModelCallFailedError{Err: fmt.Errorf("no messages")}
	}
	if model == "" {
		model = c.gradingModel
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(chatCompletionRequest{Model: model, Messages: messages}); err != nil {
		return "", &ModelCallFailedError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", &buf)
	if err != nil {
		return "", &ModelCallFailedError{Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &ModelCallFailedError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ModelCallFailedError{Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Warn("OpenAI request failed", "status", resp.StatusCode, "body", string(raw))
		return "", &ModelCallFailedError{Err: fmt.Errorf("openai http %d: %s", resp.StatusCode, string(raw))}
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", &ModelCallFailedError{Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(parsed.Choices) == 0 {
		return "", &ModelCallFailedError{Err: fmt.Errorf("no choices in response")}
	}
	return parsed.Choices[0].Message.Content, nil
}
