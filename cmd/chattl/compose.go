package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/ZaguanLabs/chattl/compose"
)

const composeSurfaceID = "compose"

func newComposeCmd(a *app) *cobra.Command {
	var debounce time.Duration
	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Run a compose session script read from stdin",
		Long: `Run a compose session against an in-memory compose box. Each stdin line is an event:

  <text>        the box now holds <text>
  /accept       replace the draft with the previewed translation
  /send         press the send key
  /button       click the send button
  /clear        empty the box
  /wait <dur>   wait, e.g. /wait 1.5s
  # ...         comment

Signals, previews and sent messages are printed as they happen.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCompose(cmd, debounce)
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", compose.DefaultConfig().Debounce, "quiet period before a draft is translated")
	return cmd
}

// printer serializes output from the script loop and session timers.
type printer struct {
	mu  sync.Mutex
	out io.Writer
}

func (p *printer) printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, format, args...)
}

func (p *printer) StateChanged(string, compose.State) {}

func (p *printer) PreviewChanged(_ string, pv compose.Preview) {
	switch pv.Status {
	case compose.PreviewHidden, compose.PreviewLoading:
		return
	case compose.PreviewReady:
		p.printf("preview %s %s\n", pv.Label, pv.Text)
	default:
		p.printf("preview [%s] %s\n", pv.Status, pv.Text)
	}
}

// scriptSurface is an in-memory compose box. Writes fire input events and a
// submit that is not suppressed posts the text and empties the box.
type scriptSurface struct {
	mu      sync.Mutex
	text    string
	session *compose.Session
	out     *printer
}

func (s *scriptSurface) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

func (s *scriptSurface) SetText(text string) {
	s.set(text)
}

func (s *scriptSurface) Submit(trigger compose.Trigger) {
	s.press(trigger)
}

func (s *scriptSurface) set(text string) compose.Signal {
	s.mu.Lock()
	s.text = text
	session := s.session
	s.mu.Unlock()
	return session.OnInputChanged(text)
}

func (s *scriptSurface) press(trigger compose.Trigger) compose.SendOutcome {
	outcome := s.session.InterceptSend(trigger)
	if outcome.Suppress() {
		return outcome
	}
	s.mu.Lock()
	sent := s.text
	s.text = ""
	s.mu.Unlock()
	if strings.TrimSpace(sent) != "" {
		s.out.printf("sent %s\n", sent)
	}
	s.session.OnInputChanged("")
	return outcome
}

func (a *app) runCompose(cmd *cobra.Command, debounce time.Duration) error {
	ctx := cmd.Context()
	out := &printer{out: cmd.OutOrStdout()}

	cfg := compose.DefaultConfig()
	cfg.Debounce = debounce
	rt, err := a.openRuntime(ctx, compose.WithConfig(cfg), compose.WithEvents(out))
	if err != nil {
		return err
	}
	defer rt.Close()

	surface := &scriptSurface{out: out}
	surface.session = rt.controller.Attach(composeSurfaceID, surface)
	defer rt.controller.Detach(composeSurfaceID)

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		if err := runComposeLine(ctx, surface, out, line); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading script: %w", err)
	}
	return waitSettled(ctx, surface.session)
}

func runComposeLine(ctx context.Context, surface *scriptSurface, out *printer, line string) error {
	switch {
	case line == "/accept":
		if err := surface.session.AcceptTranslation(); err != nil {
			out.printf("accept: %v\n", err)
			return nil
		}
		out.printf("accepted %s\n", surface.Text())
	case line == "/send":
		out.printf("send %s\n", surface.press(compose.TriggerKey))
	case line == "/button":
		out.printf("send %s\n", surface.press(compose.TriggerButton))
	case line == "/clear":
		out.printf("%s\n", surface.set(""))
	case strings.HasPrefix(line, "/wait"):
		d, err := time.ParseDuration(strings.TrimSpace(strings.TrimPrefix(line, "/wait")))
		if err != nil {
			return fmt.Errorf("bad wait %q: %w", line, err)
		}
		return sleep(ctx, d)
	default:
		out.printf("%s\n", surface.set(line))
	}
	return nil
}

// waitSettled blocks until no debounce, translation or send is pending.
func waitSettled(ctx context.Context, s *compose.Session) error {
	for {
		snap := s.Snapshot()
		if !snap.Sending && snap.State != compose.StateDebounced {
			return nil
		}
		if err := sleep(ctx, 10*time.Millisecond); err != nil {
			return err
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil
		}
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
