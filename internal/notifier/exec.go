package notifier

import (
	"context"
	"fmt"
	"io"
	"os/exec"
)

// ExecSender shells out to an external messaging CLI:
//
//	<bin> message send --channel <channel> --target <target> --message <text>
//
// Output is discarded; the CLI handles its own delivery retries.
type ExecSender struct {
	Bin     string
	Channel string
	Target  string
}

// NewExecSender creates a sender for the given channel and recipient.
func NewExecSender(bin, channel, target string) *ExecSender {
	return &ExecSender{Bin: bin, Channel: channel, Target: target}
}

// Send runs the CLI once; best effort.
func (s *ExecSender) Send(ctx context.Context, text string) error {
	cmd := exec.CommandContext(ctx, s.Bin,
		"message", "send",
		"--channel", s.Channel,
		"--target", s.Target,
		"--message", text,
	)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("run %s: %w", s.Bin, err)
	}
	return nil
}
