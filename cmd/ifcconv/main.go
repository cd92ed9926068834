package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/binzume/ifcconv/config"
	"github.com/binzume/ifcconv/ifc"
	"github.com/binzume/ifcconv/scene"
	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

// loadConfig reads --config when given and installs the default logger.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg := config.Default()
	if path := cmd.String("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}
	level := cfg.SlogLevel()
	if cmd.Bool("verbose") {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return cfg, nil
}

func runConvert(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.NArg() < 1 {
		return errors.New("input file required")
	}
	input := cmd.Args().Get(0)
	output := cmd.Args().Get(1)
	if output == "" {
		output = defaultOutputFile(input)
	}
	return convertFile(cfg, input, output)
}

func runInfo(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.NArg() < 1 {
		return errors.New("input file required")
	}
	input := cmd.Args().Get(0)
	w := cmd.Root().Writer
	if w == nil {
		w = os.Stdout
	}
	if strings.EqualFold(filepath.Ext(input), ".ifc") {
		doc, err := ifc.Load(input)
		if err != nil {
			return err
		}
		doc.Dump(w)
		fmt.Fprintln(w)
		scene.Dump(w, ifc.NewImporter(cfg.ImportOption()).ImportDocument(doc), 0)
		return nil
	}
	root, err := loadScene(cfg, input)
	if err != nil {
		return err
	}
	scene.Dump(w, root, 0)
	return nil
}

func runBatch(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	outDir := cmd.String("out")
	format := cmd.String("format")
	if outDir != "" {
		if err := os.MkdirAll(outDir, 0755); err != nil {
			return err
		}
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Batch.Concurrency)
	for _, job := range batchJobs(cmd.Args().Slice(), outDir, format) {
		job := job
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			return convertFile(cfg, job.input, job.output)
		})
	}
	return g.Wait()
}

func runWatch(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	dir := cmd.Args().Get(0)
	if dir == "" {
		dir = "."
	}
	return watch(ctx, cfg, dir, cmd.String("format"))
}

func newFormatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "format",
		Usage: "Output format (glb, gltf, ifc)",
		Value: "glb",
	}
}

func main() {
	cmd := &cli.Command{
		Name:  "ifcconv",
		Usage: "IFC (ISO 10303-21) model converter",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
				Sources: cli.EnvVars("IFCCONV_CONFIG"),
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Debug logging",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "convert",
				Usage:     "Convert between .ifc and .glb/.gltf",
				ArgsUsage: "input [output]",
				Action:    runConvert,
			},
			{
				Name:      "info",
				Usage:     "Print header, entity counts, diagnostics and the node tree",
				ArgsUsage: "input",
				Action:    runInfo,
			},
			{
				Name:      "batch",
				Usage:     "Convert files concurrently",
				ArgsUsage: "files...",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "out",
						Usage: "Output directory (default: next to each input)",
					},
					newFormatFlag(),
				},
				Action: runBatch,
			},
			{
				Name:      "watch",
				Usage:     "Convert .ifc files in a directory whenever they change",
				ArgsUsage: "dir",
				Flags:     []cli.Flag{newFormatFlag()},
				Action:    runWatch,
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := cmd.Run(ctx, os.Args); err != nil {
		stop()
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
