package model

import (
	"encoding/base64"
	"fmt"
)

// Blob is binary content sent inline with a request. Data holds the
// payload encoded as standard base64.
type Blob struct {
	MimeType string `json:"mimeType" bson:"mime_type"`
	Data     string `json:"data" bson:"data"`
}

// Part is a single piece of a generation request: either text or inline data.
type Part struct {
	Text       string `json:"text,omitempty" bson:"text,omitempty"`
	InlineData *Blob  `json:"inlineData,omitempty" bson:"inline_data,omitempty"`
}

// IsBinary reports whether the part carries inline data.
func (p Part) IsBinary() bool {
	return p.InlineData != nil
}

// Bytes decodes the inline payload of a binary part.
func (p Part) Bytes() ([]byte, error) {
	if p.InlineData == nil {
		return nil, fmt.Errorf("model: part has no inline data")
	}

	data, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
	if err != nil {
		return nil, fmt.Errorf("model: decode inline data: %w", err)
	}

	return data, nil
}

// ValidateParts checks the shape of a generation request: non-empty, text
// prompt first, and at most one binary part which must carry a MIME type.
func ValidateParts(parts []Part) error {
	if len(parts) == 0 {
		return fmt.Errorf("model: request has no parts")
	}

	if parts[0].IsBinary() {
		return fmt.Errorf("model: first part must be the prompt")
	}

	binary := 0
	for i, p := range parts {
		if !p.IsBinary() {
			continue
		}
		binary++
		if binary > 1 {
			return fmt.Errorf("model: part %d: at most one attachment per request", i)
		}
		if p.InlineData.MimeType == "" {
			return fmt.Errorf("model: part %d: inline data without mime type", i)
		}
	}

	return nil
}
