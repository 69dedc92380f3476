//go:build !tinygo

package hostcmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"gatetimer/app"
	"gatetimer/hal"
	"gatetimer/timer/race"
)

// options is the effective configuration after flags, environment and the
// config file were merged.
type options struct {
	Headless bool          `yaml:"headless"`
	Poll     time.Duration `yaml:"poll"`
	Ticks    uint64        `yaml:"ticks"`
	Realtime bool          `yaml:"realtime"`
	Fast     bool          `yaml:"fast"`
	Script   string        `yaml:"script"`
	Stdin    bool          `yaml:"stdin"`

	GatePeriod time.Duration `yaml:"gate-period"`
	GatePulse  time.Duration `yaml:"gate-pulse"`

	Mode       string `yaml:"mode"`
	Laps       uint   `yaml:"laps"`
	Time       uint   `yaml:"time"`
	SkipSplash bool   `yaml:"skip-splash"`

	Dev          bool `yaml:"dev"`
	Scale        int  `yaml:"scale"`
	ConsoleLines int  `yaml:"console-lines"`
	Audio        bool `yaml:"audio"`
}

func (o *options) appConfig() (app.Config, error) {
	mode, err := race.ParseMode(o.Mode)
	if err != nil {
		return app.Config{}, err
	}
	cfg := app.DefaultConfig()
	cfg.PollInterval = o.Poll
	cfg.SkipSplash = o.SkipSplash
	cfg.Initial = race.Config{Mode: mode, LapGoal: o.Laps, TimeTrialSeconds: o.Time}.Normalize()
	return cfg, nil
}

func (o *options) hostConfig(log *zap.Logger) hal.HostConfig {
	return hal.HostConfig{
		Poll:       o.Poll,
		Realtime:   o.Realtime,
		GatePeriod: o.GatePeriod,
		GatePulse:  o.GatePulse,
		Logger:     log,
	}
}

func (o *options) headlessConfig(log *zap.Logger, stdin io.Reader) (hal.HeadlessConfig, error) {
	script, err := hal.ParseScript(o.Script)
	if err != nil {
		return hal.HeadlessConfig{}, err
	}
	cfg := hal.HeadlessConfig{
		Host:   o.hostConfig(log),
		Ticks:  o.Ticks,
		Fast:   o.Fast,
		Script: script,
	}
	if o.Stdin {
		cfg.Commands = stdin
	}
	return cfg, nil
}

func (o *options) windowConfig(log *zap.Logger) hal.WindowConfig {
	return hal.WindowConfig{
		Host:         o.hostConfig(log),
		Scale:        o.Scale,
		ConsoleLines: o.ConsoleLines,
		Audio:        o.Audio,
	}
}

func newLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func warnf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}
