package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"loandesk-backend/internal/shared/telemetry"
)

const defaultTimeout = 60 * time.Second

// Config holds the connection settings for the external OCR service.
// OwnPort feeds the self-call guard: an endpoint that loops back to this
// service's own port is a misconfiguration and is treated as unconfigured.
type Config struct {
	URL     string
	APIKey  string
	OwnPort string
	Timeout time.Duration
}

// Client calls an external OCR endpoint with a base64 document payload.
// OCR is best-effort enrichment: Recognize never returns an error, it
// degrades to ("", false) on any failure.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient constructs a Client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type recognizeRequest struct {
	File     string `json:"file"`
	Filename string `json:"filename"`
}

// recognizeResponse accepts the response shapes seen across OCR providers:
// {text}, {content}, or {data:{text}}.
type recognizeResponse struct {
	Text    string `json:"text"`
	Content string `json:"content"`
	Data    struct {
		Text string `json:"text"`
	} `json:"data"`
}

// Recognize sends the document to the OCR endpoint and returns the
// recognized text. The boolean is false when OCR is unconfigured,
// misconfigured, or the call failed in any way.
func (c *Client) Recognize(ctx context.Context, data []byte, filename string) (string, bool) {
	endpoint := strings.TrimSpace(c.cfg.URL)
	if endpoint == "" {
		return "", false
	}
	if c.isSelfCall(endpoint) {
		telemetry.Error("ocr.self_call_guard", map[string]any{
			"url":  endpoint,
			"hint": "OCR endpoint points at this service; configure the external OCR URL",
		})
		return "", false
	}

	payload, err := json.Marshal(recognizeRequest{
		File:     base64.StdEncoding.EncodeToString(data),
		Filename: filename,
	})
	if err != nil {
		telemetry.Error("ocr.encode_error", map[string]any{"error": err.Error()})
		return "", false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		telemetry.Error("ocr.build_request_error", map[string]any{"error": err.Error()})
		return "", false
	}
	req.Header.Set("Content-Type", "application/json")
	if key := strings.TrimSpace(c.cfg.APIKey); key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		telemetry.Error("ocr.request_error", map[string]any{
			"url":   endpoint,
			"error": err.Error(),
		})
		return "", false
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		telemetry.Error("ocr.read_error", map[string]any{"error": err.Error()})
		return "", false
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		telemetry.Error("ocr.non_success_status", map[string]any{
			"status": resp.StatusCode,
			"bytes":  len(body),
		})
		return "", false
	}

	var parsed recognizeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		telemetry.Error("ocr.decode_error", map[string]any{"error": err.Error()})
		return "", false
	}

	text := parsed.Text
	if text == "" {
		text = parsed.Content
	}
	if text == "" {
		text = parsed.Data.Text
	}

	telemetry.Info("ocr.ok", map[string]any{
		"filename":    filename,
		"text_len":    len(text),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return text, true
}

// isSelfCall reports whether the endpoint loops back to this service's own
// listen port.
func (c *Client) isSelfCall(endpoint string) bool {
	port := strings.TrimPrefix(strings.TrimSpace(c.cfg.OwnPort), ":")
	if port == "" {
		return false
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return false
	}
	host := u.Hostname()
	if host != "localhost" && host != "127.0.0.1" && host != "::1" {
		if ip := net.ParseIP(host); ip == nil || !ip.IsLoopback() {
			return false
		}
	}
	return u.Port() == port
}
