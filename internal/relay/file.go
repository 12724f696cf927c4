package relay

import (
	"fmt"
	"io"
	"net/http"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/m2tx/kinchat/internal/document"
	"github.com/m2tx/kinchat/internal/encoder"
	"github.com/m2tx/kinchat/internal/generation"
	"github.com/m2tx/kinchat/internal/model"
)

// Modality parameterizes the file relay for one kind of attachment.
type Modality struct {
	Modality       model.Modality
	FieldName      string
	DefaultPrompt  string
	MissingMessage string
	FailureMessage string
}

var (
	Image = Modality{
		Modality:       model.ModalityImage,
		FieldName:      "image",
		DefaultPrompt:  "Describe the image",
		MissingMessage: "Image file is required",
		FailureMessage: "Failed to analyze image",
	}
	Document = Modality{
		Modality:       model.ModalityDocument,
		FieldName:      "document",
		DefaultPrompt:  "Analyze this document",
		MissingMessage: "Document file is required",
		FailureMessage: "Failed to analyze document",
	}
	Audio = Modality{
		Modality:       model.ModalityAudio,
		FieldName:      "audio",
		DefaultPrompt:  "Transcribe or analyze the following audio",
		MissingMessage: "Audio file is required",
		FailureMessage: "Failed to analyze audio",
	}
)

// Modalities lists the file relays in route order.
var Modalities = []Modality{Image, Document, Audio}

// FileRelay serves one attachment modality.
type FileRelay struct {
	relay    *Relay
	modality Modality
}

// File returns the handler for modality m.
func (r *Relay) File(m Modality) *FileRelay {
	return &FileRelay{relay: r, modality: m}
}

func (h *FileRelay) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		methodNotAllowed(w, fmt.Sprintf(
			"Please send a POST request with form data containing 'prompt' and '%s'", h.modality.FieldName))
		return
	}

	start := h.relay.now()
	ex := model.Exchange{
		ID:        uuid.NewString(),
		Modality:  h.modality.Modality,
		CreatedAt: start,
	}

	output, err := h.serve(req, &ex)
	h.relay.respond(w, req, &ex, start, output, err, h.modality.FailureMessage)
}

func (h *FileRelay) serve(req *http.Request, ex *model.Exchange) (string, error) {
	if err := req.ParseMultipartForm(h.relay.maxMemory); err != nil {
		return "", &generation.Error{Kind: generation.KindValidation, Message: "Invalid form data", Err: err}
	}
	defer req.MultipartForm.RemoveAll()

	prompt := req.PostFormValue("prompt")
	if prompt == "" {
		prompt = h.modality.DefaultPrompt
	}
	ex.PromptChars = utf8.RuneCountInString(prompt)

	// Only the first file of the field is honored.
	headers := req.MultipartForm.File[h.modality.FieldName]
	if len(headers) == 0 || headers[0].Size == 0 {
		return "", generation.ValidationError(h.modality.MissingMessage)
	}
	header := headers[0]

	f, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("relay: open %s: %w", h.modality.FieldName, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("relay: read %s: %w", h.modality.FieldName, err)
	}
	if len(data) == 0 {
		return "", generation.ValidationError(h.modality.MissingMessage)
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}

	ex.Attachment = &model.ExchangeAttachment{
		Name:      header.Filename,
		MimeType:  mimeType,
		SizeBytes: int64(len(data)),
	}
	if h.modality.Modality == model.ModalityDocument {
		h.inspect(ex, data, mimeType)
	}

	parts := []model.Part{
		encoder.EncodeText(prompt),
		encoder.Encode(data, mimeType),
	}

	return h.relay.generate(req.Context(), parts)
}

func (h *FileRelay) inspect(ex *model.Exchange, data []byte, mimeType string) {
	info, err := document.Inspect(data, mimeType)
	if err != nil {
		h.relay.logger.Debugf("relay: inspect %q: %v", ex.Attachment.Name, err)
		return
	}
	ex.Attachment.Pages = info.Pages
}
