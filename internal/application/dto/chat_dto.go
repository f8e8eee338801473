package dto

// ChatMessage turno previo de la conversación.
type ChatMessage struct {
	Role    string `json:"role"` // user | assistant
	Content string `json:"content"`
}

// ChatRequest body enviado al endpoint de chat en streaming.
type ChatRequest struct {
	Message string            `json:"message"`
	History []ChatMessage     `json:"history,omitempty"`
	Context map[string]string `json:"context,omitempty"`
	// IncludeBusiness adjunta un resumen del negocio calculado localmente.
	IncludeBusiness bool `json:"-"`
}

// ChatChunk fragmento recibido del stream.
type ChatChunk struct {
	Content string `json:"content"`
}
