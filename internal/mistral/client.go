// Package mistral wraps the remote transcription and chat completion APIs.
package mistral

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"voxcli/internal/config"
)

// ErrAudioMissing indicates the working audio file vanished before upload.
var ErrAudioMissing = errors.New("audio file not found; recording may have failed")

// RequestError is any transport or HTTP-level failure talking to the API.
// Calls are not retried within one invocation.
type RequestError struct {
	Op         string
	StatusCode int
	Body       string
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		body := strings.TrimSpace(e.Body)
		if len(body) > 300 {
			body = body[:300] + "..."
		}
		if body != "" {
			return fmt.Sprintf("%s failed: HTTP %d: %s", e.Op, e.StatusCode, body)
		}
		return fmt.Sprintf("%s failed: HTTP %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Client issues transcription and chat completion requests.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger

	apiKey           string
	transcriptionURL string
	chatURL          string

	transcriptionModel string
	chatModel          string
}

// NewClient builds a client from config, selecting the larger model pair
// when large is set.
func NewClient(cfg config.Config, large bool, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		httpClient:         &http.Client{Timeout: 120 * time.Second},
		logger:             logger,
		apiKey:             cfg.APIKey,
		transcriptionURL:   cfg.TranscriptionURL,
		chatURL:            cfg.ChatURL,
		transcriptionModel: cfg.Models.TranscriptionModel(large),
		chatModel:          cfg.Models.ChatModel(large),
	}
}

// Transcribe uploads one WAV file as multipart form data and returns the
// recognized text. The caller owns deletion of the file.
func (c *Client) Transcribe(ctx context.Context, audioPath string) (string, error) {
	file, err := os.Open(audioPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrAudioMissing
		}
		return "", fmt.Errorf("open audio file: %w", err)
	}
	defer file.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if err := writer.WriteField("model", c.transcriptionModel); err != nil {
		return "", fmt.Errorf("write model field: %w", err)
	}
	part, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("copy audio into request: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("finalize multipart body: %w", err)
	}

	c.logger.Info("sending audio for transcription",
		slog.String("model", c.transcriptionModel),
		slog.String("file", audioPath),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.transcriptionURL, body)
	if err != nil {
		return "", fmt.Errorf("build transcription request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	respBody, err := c.do(req, "transcription")
	if err != nil {
		return "", err
	}

	var parsed struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", &RequestError{Op: "transcription", Err: fmt.Errorf("parse response: %w", err)}
	}
	if strings.TrimSpace(parsed.Text) == "" {
		return "No transcription data returned.", nil
	}

	c.logger.Info("transcription received", slog.Int("chars", len(parsed.Text)))
	return parsed.Text, nil
}

// Complete sends one user message to the chat completions API and returns
// the first choice's content.
func (c *Client) Complete(ctx context.Context, op string, prompt string) (string, error) {
	payload := chatRequest{
		Model: c.chatModel,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.chatURL, bytes.NewReader(encoded))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	respBody, err := c.do(req, op)
	if err != nil {
		return "", err
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", &RequestError{Op: op, Err: fmt.Errorf("parse response: %w", err)}
	}
	if len(parsed.Choices) == 0 {
		return "", &RequestError{Op: op, Err: errors.New("response contained no choices")}
	}
	return parsed.Choices[0].Message.Content, nil
}

// Translate rewrites text into the target language.
func (c *Client) Translate(ctx context.Context, text string, targetLanguage string) (string, error) {
	c.logger.Info("translating text",
		slog.String("model", c.chatModel),
		slog.String("target_language", targetLanguage),
	)
	prompt := fmt.Sprintf("Translate the following text to %s:\n\n%s", targetLanguage, text)
	return c.Complete(ctx, "translation", prompt)
}

// ChangeTone rephrases text per the caller-supplied tone prompt.
func (c *Client) ChangeTone(ctx context.Context, text string, tonePrompt string) (string, error) {
	c.logger.Info("changing tone",
		slog.String("model", c.chatModel),
		slog.String("tone_prompt", tonePrompt),
	)
	prompt := fmt.Sprintf("%s\n\n%s", tonePrompt, text)
	return c.Complete(ctx, "tone change", prompt)
}

// do executes a request and returns the raw body, normalizing all failures
// into RequestError.
func (c *Client) do(req *http.Request, op string) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("api request failed", slog.String("op", op), slog.String("error", err.Error()))
		return nil, &RequestError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RequestError{Op: op, Err: fmt.Errorf("read response: %w", err)}
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Error("api returned error status",
			slog.String("op", op),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(respBody)),
		)
		return nil, &RequestError{Op: op, StatusCode: resp.StatusCode, Body: string(respBody)}
	}
	return respBody, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}
