// Package encoder turns raw user input into request parts.
package encoder

import (
	"encoding/base64"

	"github.com/m2tx/kinchat/internal/model"
)

// Encode wraps a binary payload as an inline-data part. It is used for every
// attachment modality alike.
func Encode(payload []byte, mimeType string) model.Part {
	return model.Part{
		InlineData: &model.Blob{
			MimeType: mimeType,
			Data:     base64.StdEncoding.EncodeToString(payload),
		},
	}
}

// EncodeText wraps a prompt as a text part.
func EncodeText(prompt string) model.Part {
	return model.Part{Text: prompt}
}
