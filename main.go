package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/stewi1014/dualfractal/programs"
	"github.com/stewi1014/dualfractal/viewer"
	"go.uber.org/zap"
)

var (
	configFile string
	flagCfg    = viewer.DefaultConfig()
)

func init() {
	// GLFW and GL calls must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "dualfractal",
		Short:        "interactive escape-time fractal explorer with accelerated and sequential backends",
		SilenceUsage: true,
		RunE:         runInteractive,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file path (yaml)")
	flags.StringVar(&flagCfg.LogLevel, "log-level", flagCfg.LogLevel, "log level (debug, info, warn, error)")
	flags.IntVar(&flagCfg.Width, "width", flagCfg.Width, "output width in pixels")
	flags.IntVar(&flagCfg.Height, "height", flagCfg.Height, "output height in pixels")
	flags.StringVar(&flagCfg.Program, "program", flagCfg.Program, "program to render ("+strings.Join(programs.Names(), ", ")+")")
	flags.StringVar(&flagCfg.Mode, "mode", flagCfg.Mode, "backend (accelerated|gpu, sequential|cpu)")
	flags.IntVar(&flagCfg.Resolution, "resolution", flagCfg.Resolution, "sequential backend block size in pixels")
	flags.IntVar(&flagCfg.Iterations, "iterations", flagCfg.Iterations, "iteration cap per pixel")
	flags.Float64Var(&flagCfg.Center[0], "x", flagCfg.Center[0], "view centre, real part")
	flags.Float64Var(&flagCfg.Center[1], "y", flagCfg.Center[1], "view centre, imaginary part")
	flags.Float64Var(&flagCfg.Scale, "scale", flagCfg.Scale, "view scale")
	flags.Float64Var(&flagCfg.Escape, "escape", flagCfg.Escape, "escape threshold for |z|^2 (0 = unbounded)")
	flags.Float64Var(&flagCfg.Seed[0], "seed-re", flagCfg.Seed[0], "julia seed offset, real part")
	flags.Float64Var(&flagCfg.Seed[1], "seed-im", flagCfg.Seed[1], "julia seed offset, imaginary part")
	flags.IntVar(&flagCfg.Workers, "workers", flagCfg.Workers, "accelerated backend workers (0 = all CPUs)")
	flags.BoolVar(&flagCfg.HUD, "hud", flagCfg.HUD, "draw the status overlay")

	renderCmd := &cobra.Command{
		Use:   "render [file.png]",
		Short: "render one frame to a PNG file",
		Args:  cobra.ExactArgs(1),
		RunE:  runRender,
	}

	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "render the view on both backends and compare every pixel",
		Args:  cobra.NoArgs,
		RunE:  runVerify,
	}

	programsCmd := &cobra.Command{
		Use:   "programs",
		Short: "list available programs",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range programs.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}

	rootCmd.AddCommand(renderCmd, verifyCmd, programsCmd)
	return rootCmd
}

// loadConfig reads the config file, if any, then applies explicitly set flags.
func loadConfig(cmd *cobra.Command) (*viewer.Config, error) {
	cfg := viewer.DefaultConfig()
	if configFile != "" {
		var err error
		cfg, err = viewer.Load(configFile)
		if err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	set := func(name string, apply func()) {
		if flags.Changed(name) {
			apply()
		}
	}
	set("log-level", func() { cfg.LogLevel = flagCfg.LogLevel })
	set("width", func() { cfg.Width = flagCfg.Width })
	set("height", func() { cfg.Height = flagCfg.Height })
	set("program", func() { cfg.Program = flagCfg.Program })
	set("mode", func() { cfg.Mode = flagCfg.Mode })
	set("resolution", func() { cfg.Resolution = flagCfg.Resolution })
	set("iterations", func() { cfg.Iterations = flagCfg.Iterations })
	set("x", func() { cfg.Center[0] = flagCfg.Center[0] })
	set("y", func() { cfg.Center[1] = flagCfg.Center[1] })
	set("scale", func() { cfg.Scale = flagCfg.Scale })
	set("escape", func() { cfg.Escape = flagCfg.Escape })
	set("seed-re", func() { cfg.Seed[0] = flagCfg.Seed[0] })
	set("seed-im", func() { cfg.Seed[1] = flagCfg.Seed[1] })
	set("workers", func() { cfg.Workers = flagCfg.Workers })
	set("hud", func() { cfg.HUD = flagCfg.HUD })

	return cfg, cfg.Validate()
}

func newSession(cmd *cobra.Command) (*viewer.Session, *zap.Logger, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	logger, err := viewer.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	session, err := viewer.NewSession(cfg, logger)
	if err != nil {
		logger.Sync()
		return nil, nil, err
	}
	return session, logger, nil
}

func runInteractive(cmd *cobra.Command, args []string) error {
	session, logger, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	return runWindow(cmd.Context(), session, logger)
}

func runRender(cmd *cobra.Command, args []string) error {
	session, logger, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if err := session.Render(); err != nil {
		return err
	}
	if err := viewer.SavePNG(cmd.Context(), args[0], session.Frame()); err != nil {
		return err
	}
	logger.Info("frame saved",
		zap.String("file", args[0]),
		zap.Stringer("mode", session.Kernel.Mode()),
	)
	return nil
}

func runVerify(cmd *cobra.Command, args []string) error {
	session, logger, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	report, err := session.Verify()
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "pixels: %v\nmismatched: %v\naccelerated: %v\nsequential: %v\n",
		report.Pixels, report.Mismatched, report.Accelerated, report.Sequential)
	if !report.OK() {
		return fmt.Errorf("%v of %v pixels differ between backends", report.Mismatched, report.Pixels)
	}
	return nil
}
