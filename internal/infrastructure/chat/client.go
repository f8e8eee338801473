package chat

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jhoicas/skillbridge-business/internal/application/dto"
	"github.com/jhoicas/skillbridge-business/internal/application/ports"
	"github.com/jhoicas/skillbridge-business/internal/domain"
	"github.com/jhoicas/skillbridge-business/pkg/logger"
)

// Verificar en tiempo de compilación que Client implementa ChatStreamer.
var _ ports.ChatStreamer = (*Client)(nil)

const (
	doneSentinel = "[DONE]"
	maxLine      = 1 << 20
)

// ErrStream error informado por el servidor dentro del stream ({"error": "..."}).
var ErrStream = errors.New("chat: error en el stream")

// TokenSource origen del token Bearer.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Client consume el endpoint de chat que responde text/event-stream.
type Client struct {
	url        string
	tokens     TokenSource
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient construye el cliente. url es la URL completa del endpoint
// (base + CHAT_PATH). El timeout cubre la respuesta completa, así que
// conviene dejarlo en 0 y acotar con el contexto.
func NewClient(url string, tokens TokenSource, timeout time.Duration, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		url:        url,
		tokens:     tokens,
		httpClient: &http.Client{Timeout: timeout},
		log:        log.Named("chat"),
	}
}

// chunkPayload formatos aceptados de un evento data: {...}.
type chunkPayload struct {
	Content string          `json:"content"`
	Text    string          `json:"text"`
	Delta   string          `json:"delta"`
	Error   json.RawMessage `json:"error"`
}

// Stream envía la pregunta y entrega cada fragmento a onChunk en orden.
func (c *Client) Stream(ctx context.Context, in dto.ChatRequest, onChunk func(dto.ChatChunk) error) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("chat: serializar request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("chat: crear HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("chat: leer token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("chat: timeout o cancelación: %w", ctx.Err())
		}
		return fmt.Errorf("%w: chat: %v", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return fmt.Errorf("%w: chat HTTP 401", domain.ErrUnauthorized)
		case http.StatusBadRequest:
			return fmt.Errorf("%w: chat: %s", domain.ErrInvalidInput, strings.TrimSpace(string(raw)))
		}
		return fmt.Errorf("%w: chat HTTP %d: %s", domain.ErrRemote, resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	return c.read(ctx, resp.Body, onChunk)
}

// read procesa el stream línea por línea. Solo interesan las líneas data:;
// comentarios, event: e id: se ignoran.
func (c *Client) read(ctx context.Context, r io.Reader, onChunk func(dto.ChatChunk) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	chunks := 0
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		data, ok := strings.CutPrefix(line, "data:")
		if !ok {
			continue
		}
		data = strings.TrimSpace(data)
		if data == "" {
			continue
		}
		if data == doneSentinel {
			c.log.Debug().Int("chunks", chunks).Msg("stream terminado")
			return nil
		}

		var p chunkPayload
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			// texto plano: se entrega tal cual
			p.Content = data
		}
		if msg := errorMessage(p.Error); msg != "" {
			return fmt.Errorf("%w: %s", ErrStream, msg)
		}
		content := firstNonEmpty(p.Content, p.Text, p.Delta)
		if content == "" {
			continue
		}
		chunks++
		if err := onChunk(dto.ChatChunk{Content: content}); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("chat: timeout o cancelación: %w", ctx.Err())
		}
		return fmt.Errorf("%w: chat: leer stream: %v", domain.ErrNetwork, err)
	}
	// El servidor cerró sin [DONE]: se acepta lo recibido.
	return nil
}

func errorMessage(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var nested struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &nested) == nil && nested.Message != "" {
		return nested.Message
	}
	return string(raw)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
