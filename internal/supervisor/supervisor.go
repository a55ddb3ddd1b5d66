package supervisor

import (
	"bytes"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"mdsync/internal/audit"
	"mdsync/internal/logger"
	"mdsync/internal/model"

	"go.uber.org/zap"
)

// captureLimit bounds how much subprocess output is retained for the audit
// log. Output beyond the limit still streams to the console.
const captureLimit = 32 * 1024

// Supervisor runs the external sync command for each trigger it receives.
// Invocations are serialized: the loop runs one subprocess to completion
// before reading the next trigger, and the debounced input channel keeps only
// the latest trigger that fires mid-run. A failed or unlaunchable command is
// logged and the loop keeps going; the next change event is the retry
// mechanism.
type Supervisor struct {
	command  string
	args     []string
	autoSync bool
	aud      *audit.Logger
	out      io.Writer
}

func New(command string, args []string, autoSync bool, aud *audit.Logger) *Supervisor {
	return &Supervisor{
		command:  command,
		args:     args,
		autoSync: autoSync,
		aud:      aud,
		out:      os.Stdout,
	}
}

// SetOutput redirects the live subprocess output stream.
func (s *Supervisor) SetOutput(w io.Writer) {
	s.out = w
}

func (s *Supervisor) Run(inCh <-chan model.SyncTrigger) <-chan model.SyncOutcome {
	outCh := make(chan model.SyncOutcome, 1)

	go func() {
		defer close(outCh)

		for trigger := range inCh {
			s.aud.Record("sync trigger fired: %s %s",
				trigger.Reason.Type, trigger.Reason.Path)

			if !s.autoSync {
				s.aud.Record("auto-sync disabled, skipping sync")
				logger.Log.Info("auto-sync disabled, trigger logged only",
					zap.String("path", trigger.Reason.Path))
				continue
			}

			if s.command == "" {
				s.aud.Record("no sync command configured, skipping sync")
				logger.Log.Warn("no sync command configured, trigger logged only",
					zap.String("path", trigger.Reason.Path))
				continue
			}

			outcome := s.invoke(trigger)
			s.report(outcome)
			outCh <- outcome
		}
	}()

	return outCh
}

func (s *Supervisor) invoke(trigger model.SyncTrigger) model.SyncOutcome {
	outcome := model.SyncOutcome{
		Trigger:   trigger,
		StartedAt: time.Now(),
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.Command(s.command, s.args...)
	cmd.Stdout = io.MultiWriter(s.out, newLimitWriter(&stdout, captureLimit))
	cmd.Stderr = io.MultiWriter(s.out, newLimitWriter(&stderr, captureLimit))

	err := cmd.Run()
	outcome.FinishedAt = time.Now()
	outcome.Stdout = stdout.String()
	outcome.Stderr = stderr.String()

	if err != nil {
		if exitErr, ok := errors.AsType[*exec.ExitError](err); ok {
			outcome.ExitCode = exitErr.ExitCode()
		} else {
			// Spawn failure (command not found, permission denied).
			outcome.ExitCode = -1
			outcome.Err = err
		}
	}

	return outcome
}

func (s *Supervisor) report(outcome model.SyncOutcome) {
	reason := outcome.Trigger.Reason
	elapsed := outcome.FinishedAt.Sub(outcome.StartedAt).Round(time.Millisecond)

	switch {
	case outcome.Success():
		s.aud.Record("sync succeeded: %s %s (%s)",
			reason.Type, reason.Path, elapsed)
		logger.Log.Info("sync succeeded",
			zap.String("path", reason.Path),
			zap.Duration("elapsed", elapsed))

	case outcome.Err != nil:
		s.aud.Record("sync failed to start: %v", outcome.Err)
		logger.Log.Error("sync failed to start",
			zap.String("command", s.command),
			zap.Error(outcome.Err))

	default:
		s.aud.Record("sync failed, exit code %d: %s",
			outcome.ExitCode, strings.TrimSpace(outcome.Stderr))
		logger.Log.Error("sync failed",
			zap.Int("exit_code", outcome.ExitCode),
			zap.String("stderr", strings.TrimSpace(outcome.Stderr)))
	}
}

// limitWriter discards everything past n bytes while reporting full writes,
// so a chatty sync command cannot grow the captured buffers without bound.
type limitWriter struct {
	w io.Writer
	n int
}

func newLimitWriter(w io.Writer, n int) *limitWriter {
	return &limitWriter{w: w, n: n}
}

func (lw *limitWriter) Write(p []byte) (int, error) {
	if lw.n <= 0 {
		return len(p), nil
	}

	chunk := p
	if len(chunk) > lw.n {
		chunk = chunk[:lw.n]
	}

	if _, err := lw.w.Write(chunk); err != nil {
		return 0, err
	}

	lw.n -= len(chunk)
	return len(p), nil
}
