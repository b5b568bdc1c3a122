package services

import (
	"bytes"
	ctx "context"
	"errors"
	"strings"
	"testing"

	"github.com/requiem-ai/gochat/config"
	"github.com/requiem-ai/gochat/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("os/signal.signal_recv"))
}

type fakeCompleter struct {
	out     *bytes.Buffer
	replies []string
	err     error

	prompts []string
	// seen holds the terminal output as it was when each call was made.
	seen []string
}

func (f *fakeCompleter) Complete(_ ctx.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	f.seen = append(f.seen, f.out.String())
	if f.err != nil {
		return "", f.err
	}
	if len(f.replies) == 0 {
		return "", nil
	}
	reply := f.replies[0]
	f.replies = f.replies[1:]
	return reply, nil
}

type fakeClipboard struct {
	copied []string
	err    error
}

func (f *fakeClipboard) Copy(text string) error {
	if f.err != nil {
		return f.err
	}
	f.copied = append(f.copied, text)
	return nil
}

type fakeScreen struct {
	clears int
}

func (f *fakeScreen) Clear() error {
	f.clears++
	return nil
}

type sessionFixture struct {
	svc       *SessionService
	out       *bytes.Buffer
	completer *fakeCompleter
	clipboard *fakeClipboard
	screen    *fakeScreen
}

func newSession(variant config.Variant, input string, replies ...string) *sessionFixture {
	out := &bytes.Buffer{}
	f := &sessionFixture{
		out:       out,
		completer: &fakeCompleter{out: out, replies: replies},
		clipboard: &fakeClipboard{},
		screen:    &fakeScreen{},
	}
	f.svc = &SessionService{
		In:        strings.NewReader(input),
		Out:       out,
		variant:   variant,
		completer: f.completer,
		clipboard: f.clipboard,
		screen:    f.screen,
	}
	f.svc.setDefaults()
	return f
}

func TestSession_ResendReusesLastInput(t *testing.T) {
	f := newSession(config.Extended, "hello\nr\n", "Hi there", "Hello again")

	require.NoError(t, f.svc.Start())

	want := "User: hello\nChatbot:"
	assert.Equal(t, []string{want, want}, f.completer.prompts)
	assert.Equal(t, "hello", f.svc.turn.LastInput)
	assert.Equal(t, "Hello again", f.svc.turn.LastResponse)
}

func TestSession_CopyDoesNotCallCompletion(t *testing.T) {
	f := newSession(config.Extended, "hello\nc\n", "Hi there")

	require.NoError(t, f.svc.Start())

	assert.Len(t, f.completer.prompts, 1)
	assert.Equal(t, []string{"Hi there"}, f.clipboard.copied)
	assert.Contains(t, f.out.String(), copiedText)
}

func TestSession_EchoesPreviousInput(t *testing.T) {
	f := newSession(config.Extended, "first\nsecond\n", "one", "two")

	require.NoError(t, f.svc.Start())

	require.Len(t, f.completer.seen, 2)
	assert.NotContains(t, f.completer.seen[0], "Previous:")
	assert.True(t, strings.HasSuffix(f.completer.seen[1], "Previous: first\n"), "got %q", f.completer.seen[1])
	assert.Equal(t, "User: second\nChatbot:", f.completer.prompts[1])
	assert.Equal(t, "second", f.svc.turn.LastInput)
}

func TestSession_CommandsAreCaseInsensitive(t *testing.T) {
	f := newSession(config.Extended, "hello\n  R \nC\n", "a", "b")

	require.NoError(t, f.svc.Start())

	assert.Equal(t, []string{"User: hello\nChatbot:", "User: hello\nChatbot:"}, f.completer.prompts)
	assert.Equal(t, []string{"b"}, f.clipboard.copied)
}

func TestSession_CommandsBeforeAnyExchange(t *testing.T) {
	f := newSession(config.Extended, "c\nr\n")

	require.NoError(t, f.svc.Start())

	assert.Empty(t, f.completer.prompts)
	assert.Empty(t, f.clipboard.copied)
	assert.Contains(t, f.out.String(), noCopyText)
	assert.Contains(t, f.out.String(), noResendText)
}

func TestSession_CopyEmptyResponse(t *testing.T) {
	f := newSession(config.Extended, "hello\nc\n", "")

	require.NoError(t, f.svc.Start())

	assert.Equal(t, []string{""}, f.clipboard.copied)
}

func TestSession_PrintsReplyAndFooter(t *testing.T) {
	f := newSession(config.Extended, "hello\n", "Hi there")

	require.NoError(t, f.svc.Start())

	out := f.out.String()
	assert.Equal(t, 1, f.screen.clears)
	assert.Equal(t, 1, strings.Count(out, introText))
	assert.Contains(t, out, inputPrompt)
	assert.Contains(t, out, "Chatbot: Hi there\n"+footerText+"\n")
	assert.True(t, strings.Index(out, introText) < strings.Index(out, inputPrompt))
}

func TestSession_BasicVariant(t *testing.T) {
	f := newSession(config.Basic, "c\nr\n", "one", "two")

	require.NoError(t, f.svc.Start())

	assert.Equal(t, []string{"User: c\nChatbot:", "User: r\nChatbot:"}, f.completer.prompts)
	assert.Empty(t, f.clipboard.copied)
	assert.Zero(t, f.screen.clears)

	out := f.out.String()
	assert.NotContains(t, out, introText)
	assert.NotContains(t, out, footerText)
	assert.NotContains(t, out, "Previous:")
	assert.Contains(t, out, "Chatbot: two\n")
}

func TestSession_CompletionErrorEndsLoop(t *testing.T) {
	f := newSession(config.Extended, "hello\nagain\n")
	boom := &llm.TransportError{Err: errors.New("connection refused")}
	f.completer.err = boom

	err := f.svc.Start()

	var transportErr *llm.TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Len(t, f.completer.prompts, 1)
	assert.False(t, f.svc.turn.HasResponse())
}

func TestSession_ClipboardErrorEndsLoop(t *testing.T) {
	f := newSession(config.Extended, "hello\nc\nagain\n", "Hi there")
	f.clipboard.err = &ClipboardError{Err: errors.New("no clipboard utilities")}

	err := f.svc.Start()

	var clipErr *ClipboardError
	require.True(t, errors.As(err, &clipErr))
	assert.Len(t, f.completer.prompts, 1)
}

func TestSession_UnterminatedLastLine(t *testing.T) {
	f := newSession(config.Extended, "hello", "Hi there")

	require.NoError(t, f.svc.Start())

	assert.Equal(t, []string{"User: hello\nChatbot:"}, f.completer.prompts)
}

func TestComposePrompt(t *testing.T) {
	assert.Equal(t, "User: hello\nChatbot:", composePrompt("hello"))
	assert.Equal(t, "User: \nChatbot:", composePrompt(""))
}
