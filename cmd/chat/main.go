package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/m2tx/kinchat/internal/chat"
	"github.com/m2tx/kinchat/internal/config"
	"github.com/m2tx/kinchat/internal/log"
	"github.com/m2tx/kinchat/internal/model"
)

const help = `Commands:
  /attach <path> [image|document|audio]
                  stage a file for the next message
  /drop <n>       remove staged file n
  /files          list staged files
  /history        print the conversation
  /quit           exit
Anything else is sent as a message.`

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadClient()
	if err != nil {
		return err
	}
	log.SetLevel(cfg.LogLevel)

	client, err := chat.NewClient(cfg.ServerURL, nil)
	if err != nil {
		return err
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "you> ",
		HistoryFile:     filepath.Join(os.TempDir(), "kinchat_history"),
		InterruptPrompt: "^C",
		EOFPrompt:       "/quit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	session := chat.NewSession(client, chat.WithGreeting(chat.Greeting))
	out := rl.Stdout()

	printMessage(out, session.Messages()[0])
	fmt.Fprintln(out, help)

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "/") {
			if quit := command(out, session, line); quit {
				return nil
			}
			continue
		}

		rl.SetPrompt("... ")
		reply, err := session.Send(context.Background(), line)
		rl.SetPrompt("you> ")
		if errors.Is(err, chat.ErrEmptyInput) {
			continue
		}
		if err != nil {
			log.Debugf("chat: send: %v", err)
		}
		printMessage(out, reply)
	}
}

func command(out io.Writer, session *chat.Session, line string) bool {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "/quit", "/exit":
		return true
	case "/attach":
		path, kind, _ := strings.Cut(arg, " ")
		if path == "" {
			fmt.Fprintln(out, "usage: /attach <path> [image|document|audio]")
			return false
		}
		if err := attach(session, path, strings.TrimSpace(kind)); err != nil {
			fmt.Fprintf(out, "cannot attach %s: %v\n", path, err)
			return false
		}
		staged := session.Staged()
		f := staged[len(staged)-1]
		fmt.Fprintf(out, "staged %s (%s, %d bytes)\n", f.Name, f.Modality, len(f.Data))
		if len(staged) > 1 {
			fmt.Fprintln(out, "note: only the first staged file is sent")
		}
	case "/drop":
		n, err := strconv.Atoi(arg)
		if err != nil || !session.Unstage(n-1) {
			fmt.Fprintln(out, "usage: /drop <n> (see /files)")
		}
	case "/files":
		staged := session.Staged()
		if len(staged) == 0 {
			fmt.Fprintln(out, "no staged files")
		}
		for i, f := range staged {
			fmt.Fprintf(out, "%d. %s (%s, %d bytes)\n", i+1, f.Name, f.Modality, len(f.Data))
		}
	case "/history":
		for _, m := range session.Messages() {
			printMessage(out, m)
		}
	default:
		fmt.Fprintln(out, help)
	}

	return false
}

// attach stages the file at path. An explicit kind overrides the modality
// derived from the MIME type.
func attach(session *chat.Session, path, kind string) error {
	var modality model.Modality
	if kind != "" {
		m, err := model.ParseModality(kind)
		if err != nil {
			return err
		}
		if m == model.ModalityText {
			return fmt.Errorf("%s is not a file modality", m)
		}
		modality = m
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	if modality == "" {
		modality = chat.ModalityFor(mimeType)
	}

	session.StageAs(filepath.Base(path), mimeType, data, modality)
	return nil
}

func printMessage(out io.Writer, m model.Message) {
	who := "you"
	if m.Role == model.RoleAssistant {
		who = "kinchat"
	}

	fmt.Fprintf(out, "[%s] %s:\n%s\n", m.Timestamp.Format("15:04"), who, m.Content)
	for _, a := range m.Attachments {
		fmt.Fprintf(out, "  + %s %s (%d bytes)\n", a.Modality, a.Name, a.SizeBytes)
	}
	fmt.Fprintln(out)
}
