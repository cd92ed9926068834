package main

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/binzume/ifcconv/config"
	"github.com/binzume/ifcconv/converter"
	"github.com/binzume/ifcconv/geom"
	"github.com/binzume/ifcconv/gltfutil"
	"github.com/binzume/ifcconv/ifc"
	"github.com/binzume/ifcconv/scene"
)

func defaultOutputFile(input string) string {
	ext := strings.ToLower(filepath.Ext(input))
	base := input[0 : len(input)-len(ext)]
	if ext == ".ifc" {
		return base + ".glb"
	} else if ext == ".glb" || ext == ".gltf" {
		return base + ".ifc"
	}
	return input + ".glb"
}

func outputFile(input, dir, format string) string {
	name := filepath.Base(input)
	name = name[0:len(name)-len(filepath.Ext(name))] + "." + strings.TrimPrefix(format, ".")
	return filepath.Join(dir, name)
}

type job struct {
	input  string
	output string
}

// batchJobs pairs each input with its output path. Inputs whose output
// would replace the input itself are skipped.
func batchJobs(inputs []string, outDir, format string) []job {
	var jobs []job
	for _, input := range inputs {
		dir := outDir
		if dir == "" {
			dir = filepath.Dir(input)
		}
		output := outputFile(input, dir, format)
		if samePath(input, output) {
			slog.Warn("skip: output would overwrite the input", slog.String("input", input))
			continue
		}
		jobs = append(jobs, job{input: input, output: output})
	}
	return jobs
}

func loadScene(cfg *config.Config, input string) (scene.Node, error) {
	ext := strings.ToLower(filepath.Ext(input))
	switch ext {
	case ".ifc":
		doc, err := ifc.Load(input)
		if err != nil {
			return nil, err
		}
		if len(doc.Diagnostics) > 0 {
			slog.Warn("skipped statements", slog.String("file", input), slog.Int("count", len(doc.Diagnostics)))
			for _, d := range doc.Diagnostics {
				slog.Debug("skipped statement", slog.Int("index", d.Index), slog.String("reason", d.Reason), slog.String("statement", d.Statement))
			}
		}
		return ifc.NewImporter(cfg.ImportOption()).ImportDocument(doc), nil
	case ".glb", ".gltf":
		doc, err := gltfutil.Load(input)
		if err != nil {
			return nil, err
		}
		if s := cfg.GLTF.Scale; s != 1 {
			inv := 1 / float64(s)
			if err := gltfutil.Transform(doc, &geom.Vector3{X: inv, Y: inv, Z: inv}, nil); err != nil {
				return nil, err
			}
		}
		return converter.NewGLTFToSceneConverter(cfg.GLTFToSceneOption()).Convert(doc)
	}
	return nil, fmt.Errorf("unsupported input type: %v", ext)
}

func saveScene(cfg *config.Config, root scene.Node, output string) error {
	ext := strings.ToLower(filepath.Ext(output))
	switch ext {
	case ".glb", ".gltf":
		options := cfg.SceneToGLTFOption()
		scale := float64(options.Scale)
		options.Scale = 1
		doc, err := converter.NewSceneToGLTFConverter(options).Convert(root)
		if err != nil {
			return err
		}
		if scale != 1 {
			if err := gltfutil.Transform(doc, &geom.Vector3{X: scale, Y: scale, Z: scale}, nil); err != nil {
				return err
			}
		}
		if min, max, ok := gltfutil.Bounds(doc); ok {
			slog.Debug("bounds", slog.String("output", output), slog.Any("min", min), slog.Any("max", max))
		}
		return gltfutil.Save(doc, output)
	case ".ifc":
		name := filepath.Base(output)
		return ifc.NewExporter(cfg.ExportOption()).Save(output, root, name)
	}
	return fmt.Errorf("unsupported output type: %v", ext)
}

var errSameFile = errors.New("output would overwrite the input")

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

func convertFile(cfg *config.Config, input, output string) error {
	if samePath(input, output) {
		return fmt.Errorf("%s: %w", input, errSameFile)
	}
	root, err := loadScene(cfg, input)
	if err != nil {
		return fmt.Errorf("load %s: %w", input, err)
	}
	if err := saveScene(cfg, root, output); err != nil {
		return fmt.Errorf("save %s: %w", output, err)
	}
	containers, geometries := scene.Count(root)
	slog.Info("converted", slog.String("input", input), slog.String("output", output),
		slog.Int("containers", containers), slog.Int("geometries", geometries))
	return nil
}
