//go:build !tinygo

package hal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Host HostConfig
	// Ticks stops the run after N polls (0 = run until cancelled).
	Ticks uint64
	// Fast runs ticks back to back instead of pacing them at the poll
	// interval. It needs the simulated clock.
	Fast bool
	// Script schedules stimuli relative to the start of the run.
	Script Script
	// Commands, when set, is read for whitespace separated stimuli.
	Commands io.Reader
}

// RunHeadless runs the timer without opening a window. Every change of the
// emulated display is logged.
func RunHeadless(ctx context.Context, newApp func(HAL) func() error, cfg HeadlessConfig) error {
	if cfg.Host.Poll <= 0 {
		cfg.Host.Poll = 10 * time.Millisecond
	}
	if cfg.Fast && cfg.Host.Realtime {
		return fmt.Errorf("headless: fast mode needs the simulated clock")
	}
	log := cfg.Host.Logger
	if log == nil {
		log = zap.NewNop()
	}

	h, err := newHostHAL(cfg.Host)
	if err != nil {
		return err
	}
	step := newApp(h)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	screens := make(chan []string, 64)
	cmds := make(chan Stimulus, 16)
	if cfg.Commands != nil {
		// Not part of the group: a blocked read cannot be interrupted.
		go readCommands(ctx, cfg.Commands, cmds, log)
	}

	g.Go(func() error {
		defer cancel()
		defer close(screens)
		return runTicks(ctx, h, step, cfg, screens)
	})
	g.Go(func() error {
		for rows := range screens {
			log.Info("lcd", zap.Strings("rows", rows))
		}
		return nil
	})
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case s := <-cmds:
				h.Inject(s)
			}
		}
	})
	return g.Wait()
}

func runTicks(ctx context.Context, h *hostHAL, step func() error, cfg HeadlessConfig, screens chan<- []string) error {
	script := &scriptPlayer{steps: cfg.Script}
	start := h.clock.Now()

	var pace <-chan time.Time
	if !cfg.Fast {
		t := time.NewTicker(cfg.Host.Poll)
		defer t.Stop()
		pace = t.C
	}

	lastRows, lastGen := h.lcd.Snapshot()
	var tick uint64
	for {
		if pace != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-pace:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		for _, s := range script.due(h.clock.Now().Sub(start)) {
			h.Inject(s)
		}
		h.tick()
		if step != nil {
			if err := step(); err != nil {
				return err
			}
		}

		if rows, gen := h.lcd.Snapshot(); gen != lastGen && !slices.Equal(rows, lastRows) {
			lastGen, lastRows = gen, rows
			select {
			case screens <- rows:
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		tick++
		if cfg.Ticks > 0 && tick >= cfg.Ticks {
			return nil
		}
	}
}

// readCommands turns lines like "next next select" into stimuli.
func readCommands(ctx context.Context, r io.Reader, out chan<- Stimulus, log *zap.Logger) {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		s, err := ParseStimulus(word)
		if err != nil {
			log.Warn("ignoring input", zap.String("word", word), zap.Error(err))
			continue
		}
		select {
		case out <- s:
		case <-ctx.Done():
			return
		}
	}
	if err := scanner.Err(); err != nil {
		log.Warn("reading commands", zap.Error(err))
	}
}
