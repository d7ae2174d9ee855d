package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// ContentRenderer transforms markdown before it is written out.
// This allows TUI rendering (markdown to ANSI) without coupling the runner to it.
type ContentRenderer func(string) (string, error)

// TargetAchieved is printed when a step reaches the target.
const TargetAchieved = "🎯 Target Achieved!"

// TextHandler implements the human-readable interface.
type TextHandler struct {
	Reader   *bufio.Reader
	Writer   io.Writer
	Renderer ContentRenderer
	Prompt   string
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the markdown renderer used for the rules panel.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// WithPrompt overrides the "> " prompt. An empty prompt disables it.
func WithPrompt(prompt string) TextHandlerOption {
	return func(h *TextHandler) {
		h.Prompt = prompt
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader: bufio.NewReader(r),
		Writer: w,
		Prompt: "> ",
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *TextHandler) Output(ctx context.Context, ev Event) error {
	var err error
	switch ev.Type {
	case EventStarted:
		_, err = fmt.Fprintf(h.Writer, "Started at %s. Highlighted: %s\n", ev.Current, ev.Highlighted.Display())
	case EventStep:
		_, err = fmt.Fprintln(h.Writer, ev.Step.Explanation)
		if err == nil && ev.Step.Reached() {
			_, err = fmt.Fprintf(h.Writer, "%s (%s)\n", TargetAchieved, ev.Step.Goal.Display())
		}
	case EventStopped:
		_, err = fmt.Fprintf(h.Writer, "Stopped at %s.\n", ev.Current)
	case EventResumed:
		_, err = fmt.Fprintf(h.Writer, "Resumed at %s.\n", ev.Current)
	case EventReset:
		_, err = fmt.Fprintln(h.Writer, "Reset to (0, 0).")
	case EventFinished:
		_, err = fmt.Fprintln(h.Writer, "Playback finished. Type 'start' to replay or 'quit' to exit.")
	case EventRules:
		_, err = fmt.Fprintln(h.Writer, h.render(ev.Message))
	case EventError:
		_, err = fmt.Fprintf(h.Writer, "Error: %s\n", ev.Message)
	}
	return err
}

func (h *TextHandler) render(markdown string) string {
	if h.Renderer == nil {
		return strings.TrimSpace(markdown)
	}
	out, err := h.Renderer(markdown)
	if err != nil {
		return strings.TrimSpace(markdown)
	}
	return strings.TrimSpace(out)
}

func (h *TextHandler) Input(ctx context.Context) (string, error) {
	if h.Prompt != "" {
		fmt.Fprint(h.Writer, h.Prompt)
	}

	type result struct {
		text string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		text, err := h.Reader.ReadString('\n')
		ch <- result{text, err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		// A last line without newline is still a command.
		if res.err == io.EOF && res.text != "" {
			return strings.TrimSpace(res.text), nil
		}
		if res.err != nil {
			return "", res.err
		}
		return strings.TrimSpace(res.text), nil
	}
}

func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	_, err := fmt.Fprintln(h.Writer, msg)
	return err
}

// Ensure interface compliance.
var _ IOHandler = (*TextHandler)(nil)

