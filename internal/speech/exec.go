package speech

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
)

// stopGrace is how long a recorder gets to flush its file after SIGINT.
const stopGrace = 3 * time.Second

// AudioSource starts audio captures.
type AudioSource interface {
	Open(ctx context.Context) (Capture, error)
}

// Capture is one in-progress recording.
type Capture interface {
	// Finish stops recording and returns the captured audio.
	Finish() (Audio, error)
	// Abort stops recording and discards the audio.
	Abort()
}

// ExecSource records audio by running an external command that writes a
// WAV file to the path given as its last argument.
type ExecSource struct {
	argv     []string
	language string
	logger   *zap.Logger
}

// NewExecSource parses command into an argument list.
func NewExecSource(command, language string, logger *zap.Logger) (*ExecSource, error) {
	argv := strings.Fields(command)
	if len(argv) == 0 {
		return nil, errors.New("recorder command is empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExecSource{argv: argv, language: language, logger: logger}, nil
}

// Open starts the recorder. The process outlives ctx; it ends on Finish
// or Abort.
func (s *ExecSource) Open(ctx context.Context) (Capture, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir, err := os.MkdirTemp("", "kotoba-rec-")
	if err != nil {
		return nil, fmt.Errorf("create capture dir: %w", err)
	}
	path := filepath.Join(dir, "answer.wav")

	cmd := exec.Command(s.argv[0], slices.Concat(s.argv[1:], []string{path})...)
	if err := cmd.Start(); err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("start recorder %s: %w", s.argv[0], err)
	}
	s.logger.Debug("recorder started", zap.String("command", s.argv[0]), zap.Int("pid", cmd.Process.Pid))

	c := &execCapture{
		cmd:      cmd,
		dir:      dir,
		path:     path,
		language: s.language,
		exited:   make(chan struct{}),
	}
	go func() {
		c.waitErr = cmd.Wait()
		close(c.exited)
	}()
	return c, nil
}

type execCapture struct {
	cmd      *exec.Cmd
	dir      string
	path     string
	language string

	exited  chan struct{}
	waitErr error // valid once exited is closed
}

func (c *execCapture) Finish() (Audio, error) {
	defer os.RemoveAll(c.dir)

	waitErr := c.stop(os.Interrupt)
	data, err := os.ReadFile(c.path)
	if err != nil {
		if waitErr != nil {
			return Audio{}, fmt.Errorf("recorder failed: %w", waitErr)
		}
		return Audio{}, fmt.Errorf("read capture: %w", err)
	}
	if len(data) == 0 {
		return Audio{}, ErrNoSpeech
	}
	return Audio{Data: data, MIMEType: "audio/wav", Language: c.language}, nil
}

func (c *execCapture) Abort() {
	c.stop(os.Kill)
	os.RemoveAll(c.dir)
}

// stop signals the recorder and waits for it, killing it after stopGrace.
// A non-zero exit after SIGINT is normal for most recorders, so the wait
// error is only meaningful when no audio was written.
func (c *execCapture) stop(sig os.Signal) error {
	select {
	case <-c.exited:
		return c.waitErr
	default:
	}

	_ = c.cmd.Process.Signal(sig)
	select {
	case <-c.exited:
	case <-time.After(stopGrace):
		_ = c.cmd.Process.Kill()
		<-c.exited
	}
	return c.waitErr
}

// Player plays encoded audio.
type Player interface {
	Play(ctx context.Context, data []byte, ext string) error
}

// ExecPlayer plays audio by running an external command with a temp file
// path as its last argument.
type ExecPlayer struct {
	argv []string
}

// NewExecPlayer parses command into an argument list.
func NewExecPlayer(command string) (*ExecPlayer, error) {
	argv := strings.Fields(command)
	if len(argv) == 0 {
		return nil, errors.New("player command is empty")
	}
	return &ExecPlayer{argv: argv}, nil
}

func (p *ExecPlayer) Play(ctx context.Context, data []byte, ext string) error {
	f, err := os.CreateTemp("", "kotoba-tts-*"+ext)
	if err != nil {
		return fmt.Errorf("create audio file: %w", err)
	}
	defer os.Remove(f.Name())

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write audio file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close audio file: %w", err)
	}

	cmd := exec.CommandContext(ctx, p.argv[0], slices.Concat(p.argv[1:], []string{f.Name()})...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("play audio: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}
