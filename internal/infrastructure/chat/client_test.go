package chat_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/skillbridge-business/internal/application/dto"
	"github.com/jhoicas/skillbridge-business/internal/domain"
	"github.com/jhoicas/skillbridge-business/internal/infrastructure/chat"
)

type staticToken string

func (s staticToken) Token(context.Context) (string, error) { return string(s), nil }

func sseServer(t *testing.T, lines ...string) (*httptest.Server, *dto.ChatRequest, *string) {
	t.Helper()
	var got dto.ChatRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "text/event-stream")
		for _, l := range lines {
			fmt.Fprintf(w, "%s\n", l)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &got, &auth
}

func collect(t *testing.T, c *chat.Client, msg string) ([]string, error) {
	t.Helper()
	var out []string
	err := c.Stream(context.Background(), dto.ChatRequest{Message: msg}, func(ch dto.ChatChunk) error {
		out = append(out, ch.Content)
		return nil
	})
	return out, err
}

func TestStream_EntregaFragmentosEnOrden(t *testing.T) {
	srv, got, auth := sseServer(t,
		": comentario",
		`data: {"content":"Hola"}`,
		"",
		`data: {"text":", "}`,
		`data:{"delta":"Amina"}`,
		"event: ping",
		"data: [DONE]",
		`data: {"content":"ignorado"}`,
	)
	c := chat.NewClient(srv.URL, staticToken("tok"), 0, nil)

	out, err := collect(t, c, "¿Cómo van las ventas?")
	require.NoError(t, err)
	assert.Equal(t, []string{"Hola", ", ", "Amina"}, out)
	assert.Equal(t, "¿Cómo van las ventas?", got.Message)
	assert.Equal(t, "Bearer tok", *auth)
}

func TestStream_ErrorEnElStream(t *testing.T) {
	srv, _, _ := sseServer(t,
		`data: {"content":"parcial"}`,
		`data: {"error":"modelo no disponible"}`,
		`data: {"content":"nunca"}`,
	)
	c := chat.NewClient(srv.URL, nil, 0, nil)

	out, err := collect(t, c, "hola")
	require.Error(t, err)
	assert.ErrorIs(t, err, chat.ErrStream)
	assert.Contains(t, err.Error(), "modelo no disponible")
	assert.Equal(t, []string{"parcial"}, out)
}

func TestStream_CierreSinDoneNoEsError(t *testing.T) {
	srv, _, _ := sseServer(t, `data: {"content":"a"}`, "data: texto plano")
	c := chat.NewClient(srv.URL, nil, 0, nil)

	out, err := collect(t, c, "hola")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "texto plano"}, out)
}

func TestStream_CallbackCorta(t *testing.T) {
	srv, _, _ := sseServer(t, `data: {"content":"a"}`, `data: {"content":"b"}`, "data: [DONE]")
	c := chat.NewClient(srv.URL, nil, 0, nil)
	stop := errors.New("basta")

	n := 0
	err := c.Stream(context.Background(), dto.ChatRequest{Message: "x"}, func(dto.ChatChunk) error {
		n++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, n)
}

func TestStream_401(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)
	c := chat.NewClient(srv.URL, nil, 0, nil)

	_, err := collect(t, c, "hola")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestStream_SinServidorEsConectividad(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	c := chat.NewClient(url, nil, 0, nil)

	_, err := collect(t, c, "hola")
	assert.True(t, domain.IsConnectivity(err))
}
