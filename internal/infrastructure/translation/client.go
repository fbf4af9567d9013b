// Package translation calls the translation sidecar for messages that arrive
// in a language other than Korean. An empty base URL disables the client and
// every message passes through untouched.
package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/vinbridge/order-intake/internal/infrastructure/resilience"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	executor   *resilience.Executor

	mu    sync.Mutex
	cache map[string]string
}

func New(baseURL string, executor *resilience.Executor) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		executor:   executor,
		cache:      make(map[string]string),
	}
}

func (c *Client) TranslateToKoreanIfNeeded(ctx context.Context, text string) (bool, string, error) {
	if c.baseURL == "" || containsHangul(text) || strings.TrimSpace(text) == "" {
		return false, text, nil
	}

	c.mu.Lock()
	cached, ok := c.cache[text]
	c.mu.Unlock()
	if ok {
		return true, cached, nil
	}

	var out string
	call := func(ctx context.Context) error {
		translated, err := c.translate(ctx, text)
		if err != nil {
			return err
		}
		out = translated
		return nil
	}

	var err error
	if c.executor != nil {
		err = c.executor.Execute(ctx, "translation.translate", call, classifyTranslationError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return false, text, wrapTemporaryIfNeeded("translation.translate", err)
	}
	if strings.TrimSpace(out) == "" {
		return false, text, nil
	}

	c.mu.Lock()
	c.cache[text] = out
	c.mu.Unlock()
	return true, out, nil
}

func (c *Client) translate(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(map[string]any{
		"text":   text,
		"target": "ko",
	})
	if err != nil {
		return "", fmt.Errorf("marshal translate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/translate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create translate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("translation request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", &HTTPStatusError{
			Operation:  "translate",
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(raw),
		}
	}

	var response struct {
		TranslatedText string `json:"translated_text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("decode translate response: %w", err)
	}
	return strings.TrimSpace(response.TranslatedText), nil
}

func containsHangul(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Hangul, r) {
			return true
		}
	}
	return false
}
