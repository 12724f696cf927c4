package model

import "time"

// ExchangeAttachment is the metadata of the file sent with an exchange.
type ExchangeAttachment struct {
	Name      string `json:"name" bson:"name"`
	MimeType  string `json:"mime_type" bson:"mime_type"`
	SizeBytes int64  `json:"size_bytes" bson:"size_bytes"`
	Pages     int    `json:"pages,omitempty" bson:"pages,omitempty"`
}

// Exchange records the outcome of one relay invocation. It holds no prompt
// text and no model output.
type Exchange struct {
	ID          string              `json:"id" bson:"_id"`
	Modality    Modality            `json:"modality" bson:"modality"`
	PromptChars int                 `json:"prompt_chars" bson:"prompt_chars"`
	Attachment  *ExchangeAttachment `json:"attachment,omitempty" bson:"attachment,omitempty"`
	Status      int                 `json:"status" bson:"status"`
	ErrorKind   string              `json:"error_kind,omitempty" bson:"error_kind,omitempty"`
	Duration    time.Duration       `json:"duration_ns" bson:"duration_ns"`
	CreatedAt   time.Time           `json:"created_at" bson:"created_at"`
}
