package client

import (
	"context"
	"fmt"
	"strings"
)

// AirbnbClient обращается к сервису поиска жилья, принимающему запрос на естественном языке.
type AirbnbClient struct {
	url    string
	poster *poster
}

// NewAirbnbClient создает клиента сервиса поиска жилья.
func NewAirbnbClient(url string, opts ...Option) *AirbnbClient {
	return &AirbnbClient{
		url:    strings.TrimRight(url, "/"),
		poster: newPoster(opts),
	}
}

// SearchMessage формирует текст запроса на поиск жилья.
func SearchMessage(location, checkin, checkout string) string {
	return fmt.Sprintf("Find Airbnb accommodations in %s from %s to %s", location, checkin, checkout)
}

// Search выполняет поиск и возвращает сырой ответ сервиса.
func (c *AirbnbClient) Search(ctx context.Context, location, checkin, checkout string) ([]byte, error) {
	return c.poster.postJSON(ctx, c.url, chatRequest{Message: SearchMessage(location, checkin, checkout)})
}
