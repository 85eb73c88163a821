package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"go.uber.org/zap"
)

const (
	defaultTimeout    = 30 * time.Second
	defaultAttempts   = 2
	defaultRetryDelay = 300 * time.Millisecond
	maxErrorBody      = 2048
)

// StatusError - ответ удаленного сервиса с кодом, отличным от 2xx.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d, message: %s", e.StatusCode, e.Body)
}

// Temporary сообщает, имеет ли смысл повторить запрос.
func (e *StatusError) Temporary() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// Option настраивает HTTP-клиента удаленного сервиса.
type Option func(*poster)

// WithHTTPClient задает http.Client (по умолчанию - с таймаутом 30s).
func WithHTTPClient(c *http.Client) Option {
	return func(p *poster) { p.httpClient = c }
}

// WithTimeout задает таймаут запросов. Переданный через WithHTTPClient клиент не изменяется.
func WithTimeout(d time.Duration) Option {
	return func(p *poster) {
		if d > 0 {
			c := *p.httpClient
			c.Timeout = d
			p.httpClient = &c
		}
	}
}

// WithRetryAttempts задает число попыток при временных ошибках (минимум 1).
func WithRetryAttempts(n uint) Option {
	return func(p *poster) {
		if n > 0 {
			p.attempts = n
		}
	}
}

// WithRetryDelay задает паузу между попытками.
func WithRetryDelay(d time.Duration) Option {
	return func(p *poster) { p.delay = d }
}

// WithLogger задает логгер.
func WithLogger(l *zap.Logger) Option {
	return func(p *poster) {
		if l != nil {
			p.log = l
		}
	}
}

// poster отправляет JSON POST-запросы с повторами при временных ошибках.
type poster struct {
	httpClient *http.Client
	attempts   uint
	delay      time.Duration
	log        *zap.Logger
}

func newPoster(opts []Option) *poster {
	p := &poster{
		httpClient: &http.Client{Timeout: defaultTimeout},
		attempts:   defaultAttempts,
		delay:      defaultRetryDelay,
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *poster) postJSON(ctx context.Context, url string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("не удалось сериализовать запрос: %w", err)
	}
	return retry.DoWithData(
		func() ([]byte, error) {
			return p.do(ctx, url, body)
		},
		retry.Context(ctx),
		retry.Attempts(p.attempts),
		retry.Delay(p.delay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isTemporary),
		retry.OnRetry(func(n uint, err error) {
			p.log.Warn("повтор запроса к удаленному сервису",
				zap.String("url", url), zap.Uint("attempt", n+1), zap.Error(err))
		}),
	)
}

func (p *poster) do(ctx context.Context, url string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("ошибка при создании запроса: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса к %s: %w", url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения ответа: %w", err)
	}
	p.log.Debug("ответ удаленного сервиса",
		zap.String("url", url), zap.Int("status", resp.StatusCode), zap.Duration("latency", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text := strings.TrimSpace(string(data))
		if len(text) > maxErrorBody {
			text = strings.ToValidUTF8(text[:maxErrorBody], "")
		}
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: text}
	}
	return data, nil
}

func isTemporary(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	return true
}
