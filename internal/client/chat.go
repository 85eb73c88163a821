package client

import (
	"context"
	"strings"
)

// ChatBackend - источник ответов чат-консьержа. Возвращает тело ответа в JSON.
type ChatBackend interface {
	Chat(ctx context.Context, message string) ([]byte, error)
}

// ChatClient обращается к удаленному endpoint POST /chat.
type ChatClient struct {
	baseURL string
	poster  *poster
}

var _ ChatBackend = (*ChatClient)(nil)

// NewChatClient создает клиента чат-сервиса с базовым адресом baseURL.
func NewChatClient(baseURL string, opts ...Option) *ChatClient {
	return &ChatClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		poster:  newPoster(opts),
	}
}

type chatRequest struct {
	Message string `json:"message"`
}

// Chat отправляет сообщение пользователя и возвращает сырой ответ сервиса.
func (c *ChatClient) Chat(ctx context.Context, message string) ([]byte, error) {
	return c.poster.postJSON(ctx, c.baseURL+"/chat", chatRequest{Message: message})
}
