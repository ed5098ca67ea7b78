package assistant

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"zyntra/pkg/tracing"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	Greeting      = "Hello! I am Zyntra AI. Ask me about crypto trends, terminology, or market analysis."
	FallbackReply = "I'm having trouble connecting to the network right now. Please try again later."
	EmptyReply    = "Sorry, I couldn't generate a response."

	maxBodyBytes = 1 << 20
)

var ErrServiceUnavailable = errors.New("assistant service unavailable")

type Config struct {
	APIKey       string
	Model        string
	Endpoint     string
	SystemPrompt string
	Timeout      time.Duration
	RPS          float64
	Burst        int
}

// Client: обёртка над generateContent. Без ключа любой запрос сразу ErrServiceUnavailable.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	cache   Cache
	log     *zap.Logger
}

func New(cfg Config, cache Cache, log *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	limit := rate.Inf
	if cfg.RPS > 0 {
		limit = rate.Limit(cfg.RPS)
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cache == nil {
		cache = NopCache{}
	}
	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(limit, cfg.Burst),
		cache:   cache,
		log:     log,
	}
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	SystemInstruction *content  `json:"systemInstruction,omitempty"`
	Contents          []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Ask отправляет один вопрос модели. Пустой текст ответа не ошибка: вернётся "".
func (c *Client) Ask(ctx context.Context, text string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", errors.Wrap(ErrServiceUnavailable, "api key not configured")
	}

	span, ctx := tracing.StartSpan(ctx, "assistant.ask")
	defer span.Finish()

	key := cacheKey(c.cfg.Model, text)
	if cached, ok := c.cache.Get(ctx, key); ok {
		span.SetTag("cache", "hit")
		return cached, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", errors.Wrapf(ErrServiceUnavailable, "rate limited: %v", err)
	}

	reply, err := c.generate(ctx, text)
	if err != nil {
		span.SetTag("error", true)
		return "", err
	}
	if reply != "" {
		c.cache.Set(ctx, key, reply)
	}
	return reply, nil
}

func (c *Client) generate(ctx context.Context, text string) (string, error) {
	req := generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: text}}}},
	}
	if c.cfg.SystemPrompt != "" {
		req.SystemInstruction = &content{Parts: []part{{Text: c.cfg.SystemPrompt}}}
	}
	body, err := sonic.Marshal(req)
	if err != nil {
		return "", errors.Wrap(err, "marshal request")
	}

	// ключ только в заголовке: URL попадает в тексты ошибок транспорта
	endpoint := fmt.Sprintf("%s/models/%s:generateContent",
		strings.TrimRight(c.cfg.Endpoint, "/"), url.PathEscape(c.cfg.Model))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "build request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.cfg.APIKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", errors.Wrapf(ErrServiceUnavailable, "transport: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", errors.Wrapf(ErrServiceUnavailable, "read body: %v", err)
	}
	if resp.StatusCode/100 != 2 {
		return "", errors.Wrapf(ErrServiceUnavailable, "status %d", resp.StatusCode)
	}

	var out generateResponse
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return "", errors.Wrapf(ErrServiceUnavailable, "decode: %v", err)
	}
	if len(out.Candidates) == 0 {
		return "", nil
	}
	var b strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return b.String(), nil
}

// Reply никогда не возвращает ошибку: сбой превращается в фиксированный текст.
func (c *Client) Reply(ctx context.Context, text string) string {
	reply, err := c.Ask(ctx, text)
	if err != nil {
		c.log.Warn("[ASSISTANT] fallback reply", zap.Error(err))
		return FallbackReply
	}
	if strings.TrimSpace(reply) == "" {
		return EmptyReply
	}
	return reply
}

func cacheKey(model, text string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(text)))
	return "zyntra:assistant:" + model + ":" + hex.EncodeToString(sum[:])
}
