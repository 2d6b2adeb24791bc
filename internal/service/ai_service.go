package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"smart_classroom_backend/internal/config"
)

type AIService struct {
	config config.AIConfig
	client *http.Client
}

func NewAIService(cfg config.AIConfig) *AIService {
	return &AIService{
		config: cfg,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

type AIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message AIChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Enabled 未配置 API Key 时 AI 助教功能关闭
func (s *AIService) Enabled() bool {
	return s.config.APIKey != "" && s.config.BaseURL != ""
}

// Ask 课堂 AI 助教，一问一答，不做流式
func (s *AIService) Ask(prompt string, history []AIChatMessage) (string, error) {
	if !s.Enabled() {
		return "", errors.New("AI assistant is not configured")
	}

	messages := []AIChatMessage{{
		Role: "system",
		Content: "你是一个课堂学习助教，请用简洁的语言回答学生关于课堂内容的问题。" +
			"严禁回答任何政治、色情、暴力或与学习无关的问题。如果提问超出范围，请礼貌地拒绝并引导其回到学习话题。",
	}}
	for _, h := range history {
		messages = append(messages, h)
	}
	messages = append(messages, AIChatMessage{Role: "user", Content: prompt})

	reqBody := map[string]interface{}{
		"model":    s.config.Model,
		"messages": messages,
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest("POST", s.config.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var completion ChatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", err
	}
	if completion.Error != nil {
		return "", errors.New(completion.Error.Message)
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("AI API returned no choices")
	}
	return completion.Choices[0].Message.Content, nil
}
