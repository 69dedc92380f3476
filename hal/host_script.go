//go:build !tinygo

package hal

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// ScriptStep is one scheduled stimulus of a headless run.
type ScriptStep struct {
	At    time.Duration
	Input Stimulus
}

// Script is a list of stimuli ordered by time since the run started.
type Script []ScriptStep

// ParseScript reads "offset:command" pairs separated by commas, for example
// "500ms:select,12s:gate". A command may carry a repeat count, "next*3".
func ParseScript(s string) (Script, error) {
	var out Script
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		at, cmd, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("script: %q: want offset:command", part)
		}
		d, err := time.ParseDuration(strings.TrimSpace(at))
		if err != nil {
			return nil, fmt.Errorf("script: %q: %w", part, err)
		}
		if d < 0 {
			return nil, fmt.Errorf("script: %q: negative offset", part)
		}
		n := 1
		if name, count, ok := strings.Cut(cmd, "*"); ok {
			cmd = name
			if _, err := fmt.Sscanf(strings.TrimSpace(count), "%d", &n); err != nil || n <= 0 {
				return nil, fmt.Errorf("script: %q: bad repeat count", part)
			}
		}
		st, err := ParseStimulus(cmd)
		if err != nil {
			return nil, fmt.Errorf("script: %q: %w", part, err)
		}
		for i := 0; i < n; i++ {
			out = append(out, ScriptStep{At: d, Input: st})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].At < out[j].At })
	return out, nil
}

// String renders the script back into the form ParseScript reads.
func (s Script) String() string {
	parts := make([]string, 0, len(s))
	for _, st := range s {
		parts = append(parts, st.At.String()+":"+st.Input.String())
	}
	return strings.Join(parts, ",")
}

// scriptPlayer hands out the steps that became due.
type scriptPlayer struct {
	steps Script
	next  int
}

func (p *scriptPlayer) due(elapsed time.Duration) []Stimulus {
	var out []Stimulus
	for p.next < len(p.steps) && p.steps[p.next].At <= elapsed {
		out = append(out, p.steps[p.next].Input)
		p.next++
	}
	return out
}

func (p *scriptPlayer) done() bool { return p.next >= len(p.steps) }
