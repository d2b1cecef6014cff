package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"cubecam/cmd/cubecam/camview"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

const version = "0.3.0"

func init() {
	// GLFW and OpenGL calls have to stay on the main thread
	runtime.LockOSThread()
}

func main() {
	if err := Execute(); err != nil {
		logrus.Fatal(err)
	}
}

var (
	rootCmd = &cobra.Command{
		Use:           "cubecam",
		Short:         "Show the webcam full-screen through an OpenGL shader",
		Long:          `Captures frames from a webcam, optionally highlights edges or motion, and renders them as a full-screen texture.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(logLevel)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			viewer, err := camview.NewViewer(cfg, logrus.WithField("component", "viewer"))
			if err != nil {
				return err
			}
			ctx, stop := signalContext()
			defer stop()
			return viewer.Run(ctx)
		},
	}

	probeCmd = &cobra.Command{
		Use:   "probe",
		Short: "Print camera properties and show raw frames without OpenGL",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			ctx, stop := signalContext()
			defer stop()
			return camview.Probe(ctx, cfg.Camera, cmd.OutOrStdout())
		},
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "cubecam %s\n", version)
		},
	}

	configFile string
	logLevel   string
	flagValues = camview.DefaultConfig()
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configFile, "config", "c", "", "YAML config file")
	pf.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.IntVarP(&flagValues.Camera.Device, "device", "d", flagValues.Camera.Device, "camera device id")
	pf.IntVar(&flagValues.Camera.API, "api", flagValues.Camera.API, "OpenCV capture API id (0 = auto)")
	pf.IntVar(&flagValues.Camera.Width, "capture-width", flagValues.Camera.Width, "requested capture width (0 = camera default)")
	pf.IntVar(&flagValues.Camera.Height, "capture-height", flagValues.Camera.Height, "requested capture height (0 = camera default)")

	f := rootCmd.Flags()
	f.IntVar(&flagValues.Window.Width, "width", flagValues.Window.Width, "window width")
	f.IntVar(&flagValues.Window.Height, "height", flagValues.Window.Height, "window height")
	f.StringVar(&flagValues.Window.Title, "title", flagValues.Window.Title, "window title")
	f.BoolVar(&flagValues.Window.VSync, "vsync", flagValues.Window.VSync, "wait for vertical sync")
	f.StringVarP(&flagValues.Filter.Mode, "mode", "m", flagValues.Filter.Mode, "frame filter (none, edges, motion)")
	f.IntVarP(&flagValues.Filter.Kernel, "kernel", "k", flagValues.Filter.Kernel, "Gaussian blur kernel size, odd")
	f.StringVar(&flagValues.Shaders.Vertex, "vert", "", "vertex shader file (default built-in)")
	f.StringVar(&flagValues.Shaders.Fragment, "frag", "", "fragment shader file (default built-in)")
	f.BoolVarP(&flagValues.Watch, "watch", "w", false, "reload shader files when they change")

	rootCmd.AddCommand(probeCmd, versionCmd)
}

func Execute() error {
	return rootCmd.Execute()
}

func setupLogging(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	logrus.SetLevel(lvl)
	logrus.SetOutput(os.Stderr)
	if term.IsTerminal(int(os.Stderr.Fd())) {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
	return nil
}

// loadConfig starts from the config file, if any, and lets explicitly set
// flags win over it.
func loadConfig(flags *pflag.FlagSet) (camview.Config, error) {
	cfg := camview.DefaultConfig()
	if configFile != "" {
		var err error
		cfg, err = camview.LoadConfig(configFile)
		if err != nil {
			return cfg, err
		}
		logrus.Debugf("config loaded from %s", configFile)
	}
	applyFlags(&cfg, flagValues, flags)
	return cfg, cfg.Validate()
}

func applyFlags(cfg *camview.Config, values camview.Config, flags *pflag.FlagSet) {
	set := func(name string, apply func()) {
		if flags.Changed(name) {
			apply()
		}
	}
	set("device", func() { cfg.Camera.Device = values.Camera.Device })
	set("api", func() { cfg.Camera.API = values.Camera.API })
	set("capture-width", func() { cfg.Camera.Width = values.Camera.Width })
	set("capture-height", func() { cfg.Camera.Height = values.Camera.Height })
	set("width", func() { cfg.Window.Width = values.Window.Width })
	set("height", func() { cfg.Window.Height = values.Window.Height })
	set("title", func() { cfg.Window.Title = values.Window.Title })
	set("vsync", func() { cfg.Window.VSync = values.Window.VSync })
	set("mode", func() { cfg.Filter.Mode = values.Filter.Mode })
	set("kernel", func() { cfg.Filter.Kernel = values.Filter.Kernel })
	set("vert", func() { cfg.Shaders.Vertex = values.Shaders.Vertex })
	set("frag", func() { cfg.Shaders.Fragment = values.Shaders.Fragment })
	set("watch", func() { cfg.Watch = values.Watch })
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
