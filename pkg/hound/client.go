package hound

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	textPath  = "/v1/text"
	audioPath = "/v1/audio"
)

// Client issues text and speech queries. It is safe for concurrent use; the
// Conversation values it hands out are not.
type Client struct {
	config     *HoundConfig
	baseURL    string
	httpClient *http.Client
	transport  *Transport
	logger     *HoundLogger
}

// NewClient builds a client from config. A nil config is read from the
// environment with NewHoundConfig.
//
// The HTTP stack is, from the top: http.Client, DecompressTransport (unless
// compression is disabled), the signing Transport, then config.Transport or a
// pooled http.Transport.
func NewClient(config *HoundConfig) (*Client, error) {
	if config == nil {
		config = NewHoundConfig()
	}

	creds, err := config.Credentials()
	if err != nil {
		return nil, err
	}

	check := *config
	if check.BaseURL == "" {
		check.BaseURL = DefaultBaseURL
	}
	if check.DebugLevel == "" {
		check.DebugLevel = "INFO"
	}
	if issues := check.Validate(); len(issues) > 0 {
		return nil, NewConfigError(strings.Join(issues, "; ")).AddDetail("issues", issues)
	}

	baseURL := strings.TrimRight(check.BaseURL, "/")

	logger := config.Logger
	if logger == nil {
		logger = GetGlobalLogger()
	}

	base := config.Transport
	if base == nil {
		base = newPooledTransport(config)
	}

	signing, err := NewTransport(base, creds, WithTransportLogger(logger.WithComponent("Transport")))
	if err != nil {
		return nil, err
	}

	var rt http.RoundTripper = signing
	if !config.DisableCompression {
		rt = &DecompressTransport{Base: signing}
	}

	return &Client{
		config:  config,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout:   config.Timeout,
			Transport: rt,
		},
		transport: signing,
		logger:    logger.WithComponent("Client"),
	}, nil
}

func newPooledTransport(config *HoundConfig) *http.Transport {
	maxIdle := config.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = 10
	}
	return &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        maxIdle,
		MaxIdleConnsPerHost: maxIdle,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
		// Decompression happens above the signing transport.
		DisableCompression: true,
	}
}

// UserID returns the random identity this client signs requests with.
func (c *Client) UserID() string {
	return c.transport.UserID()
}

// Text sends a text query.
func (c *Client) Text(ctx context.Context, query string, info RequestInfo) (*Response, error) {
	u := c.baseURL + textPath + "?" + url.Values{"query": {query}}.Encode()
	return c.post(ctx, textPath, u, nil, info)
}

// Speech sends a complete audio recording as the request body.
func (c *Client) Speech(ctx context.Context, audio []byte, info RequestInfo) (*Response, error) {
	return c.post(ctx, audioPath, c.baseURL+audioPath, bytes.NewReader(audio), info)
}

// SpeechStream uploads audio as it is read from r, using chunked transfer
// encoding. The body cannot be replayed, so the transport will not retry it.
func (c *Client) SpeechStream(ctx context.Context, r io.Reader, info RequestInfo) (*Response, error) {
	return c.post(ctx, audioPath, c.baseURL+audioPath, r, info)
}

// Converse starts a new conversation bound to this client.
func (c *Client) Converse() *Conversation {
	return NewConversation(c)
}

func (c *Client) post(ctx context.Context, path, rawURL string, body io.Reader, info RequestInfo) (*Response, error) {
	validated, err := ValidateRequestInfo(info)
	if err != nil {
		return nil, err
	}

	infoHeader, err := encodeRequestInfo(validated)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, body)
	if err != nil {
		return nil, WrapError(fmt.Errorf("build request: %w", err), ErrCodeRequestBuild)
	}
	req.Header.Set(HeaderRequestInfo, infoHeader)
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, WrapError(err, ErrCodeTransport).AddDetail("path", path)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, WrapError(fmt.Errorf("read response: %w", err), ErrCodeResponseRead)
	}
	c.logger.LogResponseEvent(path, resp.StatusCode, len(data), time.Since(start))

	fields, server := parseEnvelope(data)
	out := &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
		Server:     server,
		fields:     fields,
	}

	if msg, ok := out.errorMessage(); ok {
		return nil, &APIError{Message: msg, StatusCode: resp.StatusCode}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Status: resp.Status, Body: data}
	}
	return out, nil
}

func encodeRequestInfo(info RequestInfo) (string, error) {
	if info == nil {
		return "{}", nil
	}
	data, err := json.Marshal(info)
	if err != nil {
		return "", WrapError(fmt.Errorf("encode request info: %w", err), ErrCodeJSONEncode)
	}
	return string(data), nil
}
