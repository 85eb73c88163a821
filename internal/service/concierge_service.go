package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Koncii-co/koncii-wander-guide/internal/client"
	"github.com/Koncii-co/koncii-wander-guide/internal/model"
	"github.com/Koncii-co/koncii-wander-guide/internal/parser"

	"go.uber.org/zap"
)

// ApologyMessage отображается пользователю, если чат-сервис недоступен.
const ApologyMessage = "I'm sorry, I'm having trouble connecting right now. Please try again in a moment."

// PlanRequest - параметры запроса на составление маршрута.
type PlanRequest struct {
	Destination string   `json:"destination"`
	Duration    string   `json:"duration"`
	Budget      string   `json:"budget"`
	Interests   []string `json:"interests"`
}

// ConciergeService - чат-консьерж: передает сообщения в чат-сервис и структурирует ответ.
type ConciergeService struct {
	backend client.ChatBackend
	tracker Tracker
	log     *zap.Logger
}

// NewConciergeService создает сервис консьержа.
func NewConciergeService(backend client.ChatBackend, tracker Tracker, log *zap.Logger) *ConciergeService {
	return &ConciergeService{backend: backend, tracker: tracker, log: log}
}

// Ask отправляет сообщение и возвращает ответ, разбитый на сегменты.
// Сбой чат-сервиса не является ошибкой: пользователь получает сообщение с извинением.
func (s *ConciergeService) Ask(ctx context.Context, userID, message string) (model.ChatReply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return model.ChatReply{}, ErrEmptyMessage
	}
	s.tracker.Track(ctx, userID, model.EventChatInteraction, model.JSONMap{"message_length": len(message)})

	raw, err := s.backend.Chat(ctx, message)
	if err != nil {
		s.log.Warn("чат-сервис недоступен", zap.String("user_id", userID), zap.Error(err))
		return apology(), nil
	}
	reply := parser.StructureReply(raw)
	if len(reply.Segments) == 0 {
		s.log.Warn("пустой ответ чат-сервиса", zap.String("user_id", userID), zap.Int("bytes", len(raw)))
		return apology(), nil
	}
	return reply, nil
}

// Suggestions запрашивает рекомендации по свободному запросу.
func (s *ConciergeService) Suggestions(ctx context.Context, userID, query string) (model.ChatReply, error) {
	if strings.TrimSpace(query) == "" {
		return model.ChatReply{}, ErrEmptyMessage
	}
	return s.Ask(ctx, userID, SuggestionsPrompt(query))
}

// DestinationInfo запрашивает сведения о направлении.
func (s *ConciergeService) DestinationInfo(ctx context.Context, userID, destination string) (model.ChatReply, error) {
	if strings.TrimSpace(destination) == "" {
		return model.ChatReply{}, ErrEmptyMessage
	}
	return s.Ask(ctx, userID, DestinationPrompt(destination))
}

// PlanTrip запрашивает маршрут поездки.
func (s *ConciergeService) PlanTrip(ctx context.Context, userID string, req PlanRequest) (model.ChatReply, error) {
	if strings.TrimSpace(req.Destination) == "" || strings.TrimSpace(req.Duration) == "" {
		return model.ChatReply{}, fmt.Errorf("%w: нужны направление и длительность", ErrInvalidInput)
	}
	return s.Ask(ctx, userID, PlanPrompt(req))
}

// SuggestionsPrompt формирует запрос на рекомендации.
func SuggestionsPrompt(query string) string {
	return fmt.Sprintf("I'm looking for travel suggestions for: %s. Please provide recommendations for destinations, activities, and tips.", query)
}

// DestinationPrompt формирует запрос о направлении.
func DestinationPrompt(destination string) string {
	return fmt.Sprintf("Tell me about %s. I want to know about attractions, local culture, best time to visit, and travel tips.", destination)
}

// PlanPrompt формирует запрос на составление маршрута.
func PlanPrompt(req PlanRequest) string {
	budget := ""
	if strings.TrimSpace(req.Budget) != "" {
		budget = fmt.Sprintf(" with a budget of %s", req.Budget)
	}
	interests := "general travel"
	if len(req.Interests) > 0 {
		interests = strings.Join(req.Interests, ", ")
	}
	return fmt.Sprintf("I want to plan a %s trip to %s%s. My interests include: %s. Please help me create a detailed itinerary.",
		req.Duration, req.Destination, budget, interests)
}

func apology() model.ChatReply {
	return model.ChatReply{
		Status:   "error",
		Segments: []model.Segment{{Kind: model.SegmentText, Text: ApologyMessage}},
	}
}
