// Package chat holds the client side of a conversation: the message log,
// staged attachments and the single in-flight send.
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m2tx/kinchat/internal/formatter"
	"github.com/m2tx/kinchat/internal/model"
)

const (
	// Apology replaces the assistant reply whenever a send fails.
	Apology = "Sorry, I encountered an error while processing your request. Please try again."

	// Greeting is the assistant message a session can open with.
	Greeting = "Hello! I'm KinChat. I can help you with text conversations, analyze images, " +
		"process documents, and transcribe audio. How can I assist you today?"

	attachmentPlaceholder = "Analyzing attached file..."
	attachmentPrompt      = "Analyze this file"
)

var (
	ErrSendInProgress = errors.New("chat: a send is already in progress")
	ErrEmptyInput     = errors.New("chat: nothing to send")
)

// State is the send state of a session.
type State int

const (
	Idle State = iota
	Sending
)

func (s State) String() string {
	if s == Sending {
		return "sending"
	}
	return "idle"
}

// StagedFile is an attachment waiting for the next send.
type StagedFile struct {
	Name     string
	MimeType string
	Data     []byte
	Modality model.Modality
}

// Relay is the server side of a conversation.
type Relay interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	GenerateFromFile(ctx context.Context, prompt string, file StagedFile) (string, error)
}

// Session is one conversation. It allows at most one send in flight.
type Session struct {
	relay    Relay
	now      func() time.Time
	greeting string

	mu       sync.Mutex
	state    State
	lastErr  error
	messages []model.Message
	staged   []StagedFile
}

// Option configures a Session.
type Option func(*Session)

// WithGreeting opens the session log with an assistant message.
func WithGreeting(text string) Option {
	return func(s *Session) { s.greeting = text }
}

// WithClock sets the time source for message timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// NewSession creates an idle session talking to relay.
func NewSession(relay Relay, opts ...Option) *Session {
	s := &Session{relay: relay, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if s.greeting != "" {
		s.messages = append(s.messages, s.newMessage(model.RoleAssistant, s.greeting, nil))
	}
	return s
}

// ModalityFor classifies a file by MIME type: image/* and audio/* by prefix,
// anything else as a document.
func ModalityFor(mimeType string) model.Modality {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return model.ModalityImage
	case strings.HasPrefix(mimeType, "audio/"):
		return model.ModalityAudio
	default:
		return model.ModalityDocument
	}
}

// Stage queues a file for the next send and returns its modality.
func (s *Session) Stage(name, mimeType string, data []byte) model.Modality {
	return s.StageAs(name, mimeType, data, ModalityFor(mimeType))
}

// StageAs queues a file under an explicit modality.
func (s *Session) StageAs(name, mimeType string, data []byte, modality model.Modality) model.Modality {
	f := StagedFile{Name: name, MimeType: mimeType, Data: data, Modality: modality}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.staged = append(s.staged, f)

	return f.Modality
}

// Unstage removes the staged file at index i.
func (s *Session) Unstage(i int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.staged) {
		return false
	}
	s.staged = append(s.staged[:i:i], s.staged[i+1:]...)
	return true
}

// Staged returns a copy of the staged files.
func (s *Session) Staged() []StagedFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]StagedFile(nil), s.staged...)
}

// Messages returns a copy of the session log.
func (s *Session) Messages() []model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Message(nil), s.messages...)
}

// State returns the current send state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastError returns the error of the most recent send, or nil if it succeeded.
func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Send appends the user message, calls the relay and appends the assistant
// reply. Only the first staged file is sent; all staged files are cleared
// whether or not the call succeeds. A second Send while one is in flight
// fails with ErrSendInProgress without reaching the relay.
func (s *Session) Send(ctx context.Context, input string) (model.Message, error) {
	s.mu.Lock()
	if s.state == Sending {
		s.mu.Unlock()
		return model.Message{}, ErrSendInProgress
	}
	if strings.TrimSpace(input) == "" && len(s.staged) == 0 {
		s.mu.Unlock()
		return model.Message{}, ErrEmptyInput
	}

	staged := s.staged
	s.staged = nil

	content := input
	if content == "" {
		content = attachmentPlaceholder
	}
	attachments := make([]model.AttachmentInfo, 0, len(staged))
	for _, f := range staged {
		attachments = append(attachments, model.AttachmentInfo{
			Modality:  f.Modality,
			Name:      f.Name,
			SizeBytes: int64(len(f.Data)),
		})
	}
	s.messages = append(s.messages, s.newMessage(model.RoleUser, content, attachments))
	s.state = Sending
	s.mu.Unlock()

	output, err := s.call(ctx, input, staged)

	reply := Apology
	if err == nil {
		reply = formatter.Format(output)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	msg := s.newMessage(model.RoleAssistant, reply, nil)
	s.messages = append(s.messages, msg)
	s.lastErr = err
	s.state = Idle

	return msg, err
}

func (s *Session) call(ctx context.Context, input string, staged []StagedFile) (string, error) {
	if len(staged) == 0 {
		return s.relay.GenerateText(ctx, input)
	}

	prompt := input
	if prompt == "" {
		prompt = attachmentPrompt
	}
	return s.relay.GenerateFromFile(ctx, prompt, staged[0])
}

func (s *Session) newMessage(role model.Role, content string, attachments []model.AttachmentInfo) model.Message {
	if len(attachments) == 0 {
		attachments = nil
	}
	return model.Message{
		ID:          uuid.NewString(),
		Role:        role,
		Content:     content,
		Timestamp:   s.now(),
		Attachments: attachments,
	}
}
