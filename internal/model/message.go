package model

import (
	"fmt"
	"time"
)

// Modality is the kind of input a request carries.
type Modality string

const (
	ModalityText     Modality = "text"
	ModalityImage    Modality = "image"
	ModalityDocument Modality = "document"
	ModalityAudio    Modality = "audio"
)

// ParseModality returns the modality named by s.
func ParseModality(s string) (Modality, error) {
	switch m := Modality(s); m {
	case ModalityText, ModalityImage, ModalityDocument, ModalityAudio:
		return m, nil
	}

	return "", fmt.Errorf("model: unknown modality %q", s)
}

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// AttachmentInfo describes a file attached to a user message.
type AttachmentInfo struct {
	Modality  Modality `json:"modality" bson:"modality"`
	Name      string   `json:"name" bson:"name"`
	SizeBytes int64    `json:"size_bytes" bson:"size_bytes"`
}

// Message is one entry of a chat session log.
type Message struct {
	ID          string           `json:"id"`
	Role        Role             `json:"role"`
	Content     string           `json:"content"`
	Timestamp   time.Time        `json:"timestamp"`
	Attachments []AttachmentInfo `json:"attachments,omitempty"`
}
