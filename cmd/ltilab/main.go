package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/ltilab/internal/config"
	"github.com/san-kum/ltilab/internal/poly"
	"github.com/san-kum/ltilab/internal/storage"
	"github.com/san-kum/ltilab/internal/viz"
)

var (
	dataDir    string
	logLevel   string
	theme      string
	configFile string
	preset     string

	numerator   string
	denominator string
	loop        string
	input       string
	points      int
	horizon     float64
	epsilon     float64

	compType   string
	kp         float64
	ki         float64
	kd         float64
	dt         float64
	duration   float64
	integrator string

	imagePath string
	csvPath   string
	save      bool
	simulate  bool

	logger *log.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "ltilab",
		Short:         "stability and time-response analysis of LTI systems",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := log.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logger = log.NewWithOptions(os.Stderr, log.Options{
				Level:           lvl,
				Prefix:          "ltilab",
				ReportTimestamp: lvl == log.DebugLevel,
			})
			if !viz.SetTheme(theme) {
				logger.Warn("unknown theme, using default", "theme", theme, "available", viz.ThemeNames())
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".ltilab", "data directory for saved analyses")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&theme, "theme", "ocean", "color theme")

	rootCmd.AddCommand(
		routhCommand(),
		analyzeCommand(),
		responseCommand(),
		polesCommand(),
		compensateCommand(),
		tuneCommand(),
		batchCommand(),
		listCommand(),
		showCommand(),
		exportCSVCommand(),
		exportJSONCommand(),
		deleteCommand(),
		presetsCommand(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if logger != nil {
			logger.Error("command failed", "err", err)
		} else {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

func addSystemFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use a named preset system")
	cmd.Flags().StringVar(&numerator, "num", "", "numerator coefficients, highest power first")
	cmd.Flags().StringVar(&denominator, "den", "", "denominator coefficients, highest power first")
	cmd.Flags().StringVar(&loop, "loop", "closed", "loop type (open, closed)")
	cmd.Flags().StringVar(&input, "input", "step", "input type (step, ramp)")
}

func addSimulationFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "integration step")
	cmd.Flags().Float64Var(&duration, "time", 0, "simulated duration (0 = per-input default)")
	cmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator (euler, rk4, rk45)")
}

func addControllerFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&compType, "type", config.DefaultController, "compensator (PI, PD, PID)")
	cmd.Flags().Float64Var(&kp, "kp", config.DefaultKp, "proportional gain")
	cmd.Flags().Float64Var(&ki, "ki", config.DefaultKi, "integral gain")
	cmd.Flags().Float64Var(&kd, "kd", config.DefaultKd, "derivative gain")
}

// loadConfig layers defaults, preset, config file and explicitly set flags,
// in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		if cfg = config.GetPreset(preset); cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %s)", preset, strings.Join(config.ListPresets(), ", "))
		}
		logger.Debug("applied preset", "name", preset)
	}

	if configFile != "" {
		fileCfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = fileCfg
		logger.Debug("loaded config", "path", configFile)
	}

	flags := cmd.Flags()
	if flags.Changed("num") {
		p, err := poly.Parse(numerator)
		if err != nil {
			return nil, fmt.Errorf("numerator: %w", err)
		}
		cfg.Numerator = p
	}
	if flags.Changed("den") {
		p, err := poly.Parse(denominator)
		if err != nil {
			return nil, fmt.Errorf("denominator: %w", err)
		}
		cfg.Denominator = p
	}
	if flags.Changed("loop") {
		cfg.Loop = loop
	}
	if flags.Changed("input") {
		cfg.Input = input
	}
	if flag := flags.Lookup("points"); flag != nil && flag.Changed {
		cfg.Points = points
	}
	if flag := flags.Lookup("horizon"); flag != nil && flag.Changed {
		cfg.Horizon = horizon
	}
	if flag := flags.Lookup("epsilon"); flag != nil && flag.Changed {
		cfg.Routh.Epsilon = epsilon
	}
	if flag := flags.Lookup("type"); flag != nil && flag.Changed {
		cfg.Controller.Type = compType
	}
	if flag := flags.Lookup("kp"); flag != nil && flag.Changed {
		cfg.Controller.Kp = kp
	}
	if flag := flags.Lookup("ki"); flag != nil && flag.Changed {
		cfg.Controller.Ki = ki
	}
	if flag := flags.Lookup("kd"); flag != nil && flag.Changed {
		cfg.Controller.Kd = kd
	}
	if flag := flags.Lookup("dt"); flag != nil && flag.Changed {
		cfg.Simulation.Dt = dt
	}
	if flag := flags.Lookup("time"); flag != nil && flag.Changed {
		cfg.Simulation.Duration = duration
	}
	if flag := flags.Lookup("integrator"); flag != nil && flag.Changed {
		cfg.Simulation.Integrator = integrator
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openStore() (*storage.Store, error) {
	st := storage.New(dataDir, logger)
	if err := st.Init(); err != nil {
		return nil, err
	}
	return st, nil
}
