package relay

import (
	"encoding/json"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/m2tx/kinchat/internal/encoder"
	"github.com/m2tx/kinchat/internal/generation"
	"github.com/m2tx/kinchat/internal/model"
)

// TextRequest is the body accepted by the text relay.
type TextRequest struct {
	Prompt string `json:"prompt"`
}

// TextRelay serves prompt-only requests.
type TextRelay struct {
	relay *Relay
}

// Text returns the handler for prompt-only requests.
func (r *Relay) Text() *TextRelay {
	return &TextRelay{relay: r}
}

func (h *TextRelay) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		methodNotAllowed(w, "Please send a POST request with a JSON body containing 'prompt'")
		return
	}

	start := h.relay.now()
	ex := model.Exchange{
		ID:        uuid.NewString(),
		Modality:  model.ModalityText,
		CreatedAt: start,
	}

	output, err := h.serve(req, &ex)
	h.relay.respond(w, req, &ex, start, output, err, "Failed to generate text")
}

func (h *TextRelay) serve(req *http.Request, ex *model.Exchange) (string, error) {
	var body TextRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return "", &generation.Error{Kind: generation.KindValidation, Message: "Invalid JSON body", Err: err}
	}
	defer req.Body.Close()

	if strings.TrimSpace(body.Prompt) == "" {
		return "", generation.ValidationError("Prompt is required")
	}
	ex.PromptChars = utf8.RuneCountInString(body.Prompt)

	return h.relay.generate(req.Context(), []model.Part{encoder.EncodeText(body.Prompt)})
}
