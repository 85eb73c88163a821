package client

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"
)

const (
	defaultGeminiModel = "gemini-2.0-flash"

	conciergeInstruction = "You are Koncii, a friendly travel concierge. Answer in markdown. " +
		"When you suggest concrete places, add a ```json fenced block with an array of objects " +
		`{"name","address","coordinates":{"lat","lng"},"rating","highlights":[],"image_url"}.`
)

// GeminiBackend отвечает на сообщения через Gemini API вместо удаленного /chat.
type GeminiBackend struct {
	client *genai.Client
	model  string
}

var _ ChatBackend = (*GeminiBackend)(nil)

// NewGeminiBackend создает backend чата поверх Gemini.
func NewGeminiBackend(ctx context.Context, apiKey, model string) (*GeminiBackend, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("не указан ключ Gemini API")
	}
	if model == "" {
		model = defaultGeminiModel
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("не удалось создать клиента Gemini: %w", err)
	}
	return &GeminiBackend{client: c, model: model}, nil
}

// Chat возвращает ответ модели в формате {"response": "...", "status": "success"}.
func (g *GeminiBackend) Chat(ctx context.Context, message string) ([]byte, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(message), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(conciergeInstruction, genai.RoleUser),
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса к Gemini: %w", err)
	}
	return json.Marshal(map[string]string{
		"response": resp.Text(),
		"status":   "success",
	})
}
