package services

import (
	"bufio"
	ctx "context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/requiem-ai/gochat/config"
	"github.com/requiem-ai/gochat/context"
	"github.com/rs/zerolog/log"
)

const (
	cmdCopy   = "c"
	cmdResend = "r"

	inputPrompt    = "You: "
	assistantLabel = "Chatbot: "
	promptTemplate = "User: %s\nChatbot:"

	introText    = "Start chatting by typing a message and pressing Enter."
	footerText   = `(type "c" to copy the last response, "r" to resend your last message)`
	copiedText   = "Copied the last response to the clipboard."
	noCopyText   = "Nothing to copy yet."
	noResendText = "Nothing to resend yet."
)

type completer interface {
	Complete(c ctx.Context, prompt string) (string, error)
}

// Turn is the single remembered exchange.
type Turn struct {
	LastInput    string
	LastResponse string

	hasInput    bool
	hasResponse bool
}

func (t *Turn) rememberInput(text string) {
	t.LastInput = text
	t.hasInput = true
}

func (t *Turn) rememberResponse(text string) {
	t.LastResponse = text
	t.hasResponse = true
}

func (t *Turn) HasInput() bool {
	return t.hasInput
}

func (t *Turn) HasResponse() bool {
	return t.hasResponse
}

// SessionService runs the interactive loop on the terminal.
// In and Out default to the process stdin and stdout.
type SessionService struct {
	context.DefaultService

	In  io.Reader
	Out io.Writer

	variant   config.Variant
	completer completer
	clipboard Clipboard
	screen    Screen

	turn   Turn
	ctx    ctx.Context
	cancel ctx.CancelFunc
}

const SESSION_SVC = "session_svc"

func (svc SessionService) Id() string {
	return SESSION_SVC
}

func (svc *SessionService) Configure(appCtx *context.Context) error {
	if err := svc.DefaultService.Configure(appCtx); err != nil {
		return err
	}

	setupSvc, ok := svc.Service(SETUP_SVC).(*SetupService)
	if !ok {
		return errors.New("setup service not available")
	}
	svc.variant = setupSvc.Variant()

	if svc.completer == nil {
		completionSvc, ok := svc.Service(COMPLETION_SVC).(*CompletionService)
		if !ok {
			return errors.New("completion service not available")
		}
		svc.completer = completionSvc
	}

	svc.setDefaults()

	return nil
}

func (svc *SessionService) setDefaults() {
	if svc.In == nil {
		svc.In = os.Stdin
	}
	if svc.Out == nil {
		svc.Out = os.Stdout
	}
	if svc.clipboard == nil {
		svc.clipboard = systemClipboard{}
	}
	if svc.screen == nil {
		svc.screen = NewScreen(svc.Out)
	}
	if svc.ctx == nil {
		svc.ctx, svc.cancel = ctx.WithCancel(ctx.Background())
	}
}

// Start blocks until the input is exhausted or a turn fails.
func (svc *SessionService) Start() error {
	if svc.variant.ClearScreen {
		if err := svc.screen.Clear(); err != nil {
			return err
		}
	}

	return svc.run()
}

func (svc *SessionService) Shutdown() {
	if svc.cancel != nil {
		svc.cancel()
	}
}

func (svc *SessionService) run() error {
	reader := bufio.NewReader(svc.In)

	for first := true; ; first = false {
		if first && svc.variant.Intro {
			fmt.Fprintln(svc.Out, introText)
		}

		fmt.Fprint(svc.Out, inputPrompt)
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		if errors.Is(err, io.EOF) && line == "" {
			fmt.Fprintln(svc.Out)
			log.Debug().Msg("input closed, ending session")
			return nil
		}

		if err := svc.handle(line); err != nil {
			return err
		}
	}
}

// handle processes one line read from the terminal.
func (svc *SessionService) handle(line string) error {
	text := strings.TrimSpace(line)

	if !svc.variant.Commands {
		svc.turn.rememberInput(text)
		return svc.exchange(text)
	}

	switch strings.ToLower(text) {
	case cmdCopy:
		return svc.onCopy()
	case cmdResend:
		return svc.onResend()
	default:
		return svc.onMessage(text)
	}
}

func (svc *SessionService) onCopy() error {
	if !svc.turn.HasResponse() {
		fmt.Fprintln(svc.Out, noCopyText)
		return nil
	}

	if err := svc.clipboard.Copy(svc.turn.LastResponse); err != nil {
		return err
	}

	fmt.Fprintln(svc.Out, copiedText)
	return nil
}

func (svc *SessionService) onResend() error {
	if !svc.turn.HasInput() {
		fmt.Fprintln(svc.Out, noResendText)
		return nil
	}

	return svc.exchange(svc.turn.LastInput)
}

func (svc *SessionService) onMessage(text string) error {
	if svc.turn.HasInput() {
		fmt.Fprintf(svc.Out, "Previous: %s\n", svc.turn.LastInput)
	}
	svc.turn.rememberInput(text)

	return svc.exchange(text)
}

func (svc *SessionService) exchange(message string) error {
	log.Debug().Int("message_len", len(message)).Msg("sending message")

	reply, err := svc.completer.Complete(svc.ctx, composePrompt(message))
	if err != nil {
		return err
	}

	fmt.Fprintln(svc.Out, assistantLabel+reply)
	svc.turn.rememberResponse(reply)

	if svc.variant.Commands {
		fmt.Fprintln(svc.Out, footerText)
	}

	return nil
}

func composePrompt(message string) string {
	return fmt.Sprintf(promptTemplate, message)
}
