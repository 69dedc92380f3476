//go:build !tinygo

// Package hostcmd is the desktop entrypoint: a window emulating the timer
// hardware, or a headless runner driven by scripts and stdin.
package hostcmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"gatetimer/app"
	"gatetimer/hal"
	"gatetimer/internal/buildinfo"
)

const envPrefix = "GATETIMER"

// Execute runs the root command. It is called by main.main.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree with its own viper instance.
func NewRootCmd() *cobra.Command {
	var cfgFile string
	o := &options{}
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:     "gatetimer",
		Short:   "Drone gate race timer emulator",
		Long:    "Runs the gate timer firmware against an emulated 20x4 LCD, rotary encoder, buzzer and break-beam gate.",
		Version: buildinfo.Short(),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd, v, cfgFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), o, cmd.InOrStdin())
		},
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.gatetimer.yaml)")
	pf.BoolVar(&o.Dev, "dev", false, "Use the development log encoder.")
	pf.DurationVar(&o.Poll, "poll", app.DefaultConfig().PollInterval,
		"Poll interval; also the shortest beam break the gate detects.")
	pf.StringVar(&o.Mode, "mode", "lap", "Initial race mode (lap or time-trial).")
	pf.UintVar(&o.Laps, "laps", 3, "Initial lap goal (1-10).")
	pf.UintVar(&o.Time, "time", 60, "Initial time-trial length in seconds (30-150, step 30).")
	pf.BoolVar(&o.SkipSplash, "skip-splash", false, "Start on the main menu.")
	pf.DurationVar(&o.GatePeriod, "gate-period", 0, "Break the gate beam once per period (0 = keyboard/script only).")
	pf.DurationVar(&o.GatePulse, "gate-pulse", 0, "Length of a simulated beam break.")

	pf.BoolVar(&o.Headless, "headless", false, "Run without a window.")
	pf.Uint64Var(&o.Ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
	pf.BoolVar(&o.Realtime, "realtime", false, "Use the wall clock in headless mode.")
	pf.BoolVar(&o.Fast, "fast", false, "Run headless ticks back to back on the simulated clock.")
	pf.StringVar(&o.Script, "script", "", `Scripted input, e.g. "500ms:select,12s:gate*3".`)
	pf.BoolVar(&o.Stdin, "stdin", false, "Read next/prev/select/gate commands from stdin.")
	pf.IntVar(&o.Scale, "scale", 2, "LCD pixel scale in the window.")
	pf.IntVar(&o.ConsoleLines, "console-lines", 6, "Log lines shown under the LCD (0 = none).")
	pf.BoolVar(&o.Audio, "audio", false, "Play the buzzer through the sound card.")

	rootCmd.AddCommand(newConfigCmd(o))
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

func newConfigCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := o.appConfig(); err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			defer enc.Close()
			return enc.Encode(o)
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "gatetimer %s (commit %s, built %s)\n",
				buildinfo.Version, buildinfo.Commit, buildinfo.Date)
		},
	}
}

// initConfig loads .env, the config file and GATETIMER_* variables, then
// applies them to every flag the command line left unset.
func initConfig(cmd *cobra.Command, v *viper.Viper, cfgFile string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		warnf("Could not load .env: %v", err)
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".gatetimer")
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("config: %w", err)
		}
	}

	bindFlags(cmd, v)
	return nil
}

// bindFlags applies config file and environment values to flags that were
// not set on the command line.
func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		// Environment variables can't have dashes in them, so bind them to
		// their equivalent keys with underscores, e.g. --gate-period to
		// GATETIMER_GATE_PERIOD.
		if strings.Contains(f.Name, "-") {
			envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			if err := v.BindEnv(f.Name, fmt.Sprintf("%s_%s", envPrefix, envVarSuffix)); err != nil {
				warnf("Could not bind env var %s: %v", f.Name, err)
			}
		}
		if !f.Changed && v.IsSet(f.Name) {
			val := v.Get(f.Name)
			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)); err != nil {
				warnf("Could not set flag value for %s: %v", f.Name, err)
			}
		}
	})
}

func run(ctx context.Context, o *options, stdin io.Reader) error {
	appCfg, err := o.appConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(o.Dev)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	newApp := func(h hal.HAL) func() error {
		return app.NewWithConfig(h, appCfg)
	}

	if !o.Headless {
		return hal.RunWindow(newApp, o.windowConfig(log))
	}

	hc, err := o.headlessConfig(log, stdin)
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	if err := hal.RunHeadless(ctx, newApp, hc); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
