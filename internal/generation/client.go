// Package generation submits request parts to the Gemini API and returns the
// generated text.
package generation

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/m2tx/kinchat/internal/model"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// Generator turns an ordered list of parts into generated text.
type Generator interface {
	Generate(ctx context.Context, parts []model.Part) (string, error)
}

// Models is the subset of *genai.Models the client needs.
type Models interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content,
		config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Config holds the model identifier and credential, read once at start.
type Config struct {
	APIKey string
	Model  string
}

// Client is an immutable handle on one Gemini model. It is safe for
// concurrent use.
type Client struct {
	models    Models
	model     string
	configErr *Error
}

var _ Generator = (*Client)(nil)

// New builds a client from cfg. A missing or unusable credential does not
// fail construction: the returned client answers every Generate call with a
// KindConfig error instead.
func New(ctx context.Context, cfg Config) *Client {
	modelName := cfg.Model
	if modelName == "" {
		modelName = DefaultModel
	}

	if cfg.APIKey == "" {
		return &Client{
			model:     modelName,
			configErr: &Error{Kind: KindConfig, Message: "missing credential", Err: ErrMissingCredential},
		}
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return &Client{
			model:     modelName,
			configErr: &Error{Kind: KindConfig, Message: "create genai client", Err: err},
		}
	}

	return NewWithModels(client.Models, modelName)
}

// NewWithModels builds a client over an existing Models implementation.
func NewWithModels(models Models, modelName string) *Client {
	if modelName == "" {
		modelName = DefaultModel
	}
	return &Client{models: models, model: modelName}
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

// Err returns the permanent configuration error, or nil when the client is usable.
func (c *Client) Err() error {
	if c.configErr == nil {
		return nil
	}
	return c.configErr
}

// Generate sends parts as a single user turn and returns the response text.
// There is no retry: every call is independent.
func (c *Client) Generate(ctx context.Context, parts []model.Part) (string, error) {
	if c.configErr != nil {
		return "", c.configErr
	}

	if err := model.ValidateParts(parts); err != nil {
		return "", &Error{Kind: KindValidation, Message: "invalid request", Err: err}
	}

	contents, err := toGenAIContents(parts)
	if err != nil {
		return "", &Error{Kind: KindValidation, Message: "invalid request", Err: err}
	}

	resp, err := c.models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", classify(err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", &Error{Kind: KindUpstream, Message: "empty response"}
	}

	var text string
	if first := resp.Candidates[0]; first != nil && first.Content != nil {
		text = resp.Text()
	}
	if text == "" {
		return "", &Error{Kind: KindUpstream, Message: "response carries no text"}
	}

	return text, nil
}

// toGenAIContents converts request parts into a single user turn.
func toGenAIContents(parts []model.Part) ([]*genai.Content, error) {
	genParts := make([]*genai.Part, 0, len(parts))
	for i, p := range parts {
		if !p.IsBinary() {
			genParts = append(genParts, genai.NewPartFromText(p.Text))
			continue
		}

		data, err := p.Bytes()
		if err != nil {
			return nil, fmt.Errorf("part %d: %w", i, err)
		}
		genParts = append(genParts, genai.NewPartFromBytes(data, p.InlineData.MimeType))
	}

	return []*genai.Content{genai.NewContentFromParts(genParts, genai.RoleUser)}, nil
}
