package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"geomap/internal/config"
	"geomap/internal/edit"
	"geomap/internal/logger"
	"geomap/internal/planar"
	"geomap/internal/proj"
	"geomap/internal/tui"
)

var conf = viper.New()

var rootCmd = &cobra.Command{
	Use:   "geomap [file]",
	Short: "Terminal viewer for vector geometries",
	Long: `
geomap loads GeoJSON, WKT, WKB, CSV or KML files into an R-tree backed
registry and lets you pan, identify, select, remove and reproject features
in the terminal.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	flags := rootCmd.Flags()
	flags.String("config", "",
		"Configuration file. Values in it are overridden by GEOMAP_* environment variables and flags.")
	flags.Int("srid", 4326, "SRID of the registry; loaded data is reprojected into it.")
	flags.String("log.level", "info", "Log level: debug, info, warn or error.")
	flags.String("log.file", "", "Write the log to this file; empty discards it.")
	flags.Int("identify.tolerance", 1, "Identify window size in screen cells.")
	if err := conf.BindPFlags(flags); err != nil {
		panic(err)
	}
}

func run(cmd *cobra.Command, args []string) error {
	c, err := config.Load(conf)
	if err != nil {
		return err
	}
	closer, err := logger.Setup(c.Log)
	if err != nil {
		return err
	}
	defer closer.Close()
	log := logger.L()

	conv, err := proj.New(c.Projections)
	if err != nil {
		return errors.Wrap(err, "projections")
	}
	if !conv.Known(c.SRID) {
		return errors.Errorf("srid %d has no projection definition", c.SRID)
	}
	reg, err := edit.NewRegistry(edit.Options{
		SRID:        c.SRID,
		Converter:   conv,
		Algorithms:  planar.New(),
		MinChildren: c.Index.MinChildren,
		MaxChildren: c.Index.MaxChildren,
	})
	if err != nil {
		return errors.Wrap(err, "registry")
	}

	opts := tui.Options{Registry: reg, Converter: conv, Tolerance: c.Tolerance}
	var m tea.Model
	if len(args) > 0 {
		m = tui.NewWithPath(opts, args[0])
	} else {
		m = tui.New(opts)
	}
	log.WithField("srid", c.SRID).Info("starting")
	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run(); err != nil {
		return errors.Wrap(err, "ui")
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
