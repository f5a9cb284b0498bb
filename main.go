package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gilchrisn/localization-viewer/config"
	"github.com/gilchrisn/localization-viewer/models"
	"github.com/gilchrisn/localization-viewer/pkg/combination"
	"github.com/gilchrisn/localization-viewer/pkg/metric"
	"github.com/gilchrisn/localization-viewer/pkg/plot"
	"github.com/gilchrisn/localization-viewer/service"
)

func usage() {
	fmt.Println("Localization evaluation viewer")
	fmt.Println("Usage: locviz <mode> <results_dir> [args] [flags]")
	fmt.Println("Modes:")
	fmt.Println("  combinations <dir>                              - list discovered frequency/blocksize/nob values")
	fmt.Println("  nobs <dir> <frequency> <blocksize>              - list nob values on disk for a pair")
	fmt.Println("  resolve <dir> <frequency> <blocksize> <nob> <category> [-distance N] [-axis x|y|z] [-xy]")
	fmt.Println("  plot <dir> <frequency> <blocksize> <nob> <category> [resolve flags] [-mode 3d|2d] [-scale amp] [-out file.png|file.html]")
	fmt.Println("  export <dir> <frequency> <blocksize> <nob> [-out file.xlsx]")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  locviz combinations results")
	fmt.Println("  locviz resolve results 500 1024 8 Accuracy -distance 10 -xy")
	fmt.Println("  locviz plot results 500 1024 8 MeanDifference -axis z -mode 2d -out z.png")
}

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if len(os.Args) < 3 {
		usage()
		os.Exit(1)
	}

	// Defaults and LOCVIZ_* overrides shared with the server
	cfg, err := config.Load(os.Getenv("LOCVIZ_CONFIG"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log.Logger = cfg.CreateLogger()

	mode := os.Args[1]
	dir := os.Args[2]
	args := os.Args[3:]

	switch mode {
	case "combinations":
		err = runCombinations(dir)
	case "nobs":
		err = runNobs(dir, args)
	case "resolve":
		err = runResolve(cfg, dir, args)
	case "plot":
		err = runPlot(cfg, dir, args)
	case "export":
		err = runExport(cfg, dir, args)
	default:
		fmt.Printf("Unknown mode: %s\n", mode)
		usage()
		os.Exit(1)
	}

	if err != nil {
		log.Fatal().Err(err).Str("mode", mode).Msg("Command failed")
	}
}

func runCombinations(dir string) error {
	idx, err := combination.Scan(dir)
	if err != nil {
		return err
	}

	set := idx.Set()
	fmt.Printf("Result files: %d\n", len(idx.Combinations()))
	for _, dim := range combination.Dimensions {
		fmt.Printf("  %-10s %v\n", dim, set.Values(dim))
	}
	return nil
}

func runNobs(dir string, args []string) error {
	ints, err := parseInts(args, "frequency", "blocksize")
	if err != nil {
		return err
	}

	nobs, err := combination.ValidNobs(ints[0], ints[1], dir)
	if err != nil {
		return err
	}
	if len(nobs) == 0 {
		log.Warn().
			Int("frequency", ints[0]).
			Int("blocksize", ints[1]).
			Msg("No valid combinations for the selected frequency and blocksize")
	}
	fmt.Printf("Valid nob values: %v\n", nobs)
	return nil
}

// evaluationFlags holds the flags shared by resolve and plot
type evaluationFlags struct {
	fs       *flag.FlagSet
	distance *int
	axis     *string
	xyOnly   *bool
}

func newEvaluationFlags(name string) *evaluationFlags {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	return &evaluationFlags{
		fs:       fs,
		distance: fs.Int("distance", 0, "accuracy threshold in cm"),
		axis:     fs.String("axis", "", "mean difference axis (x, y or z)"),
		xyOnly:   fs.Bool("xy", false, "use the xy-plane variant"),
	}
}

// parseRequest reads <frequency> <blocksize> <nob> <category> followed by flags
func (e *evaluationFlags) parseRequest(args []string) (models.EvaluationRequest, error) {
	var req models.EvaluationRequest
	if len(args) < 4 {
		return req, fmt.Errorf("expected <frequency> <blocksize> <nob> <category>")
	}

	ints, err := parseInts(args[:3], "frequency", "blocksize", "nob")
	if err != nil {
		return req, err
	}
	if err := e.fs.Parse(args[4:]); err != nil {
		return req, err
	}

	req.Result = models.ResultRef{Frequency: ints[0], Blocksize: ints[1], Nob: ints[2]}
	req.Category = args[3]
	req.Options = metric.Options{
		Distance: *e.distance,
		Axis:     metric.Axis(*e.axis),
		XYOnly:   *e.xyOnly,
	}
	return req, nil
}

// newExplorer builds an explorer over dir using the configured plot settings
func newExplorer(cfg *config.Config, dir string, width, height int) *service.ExplorerService {
	renderer := plot.NewRenderer(width, height)
	renderer.Camera = plot.Camera{Azimuth: cfg.Plot.Azimuth, Elevation: cfg.Plot.Elevation}
	return service.NewExplorerService(dir, renderer, cfg.Plot.ColorScale)
}

func runResolve(cfg *config.Config, dir string, args []string) error {
	flags := newEvaluationFlags("resolve")
	req, err := flags.parseRequest(args)
	if err != nil {
		return err
	}

	svc := newExplorer(cfg, dir, cfg.Plot.Width, cfg.Plot.Height)
	resp, err := svc.Evaluate(req)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(resp.Selection, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func runPlot(cfg *config.Config, dir string, args []string) error {
	flags := newEvaluationFlags("plot")
	mode := flags.fs.String("mode", string(plot.Mode3D), "plot mode (3d or 2d)")
	scale := flags.fs.String("scale", cfg.Plot.ColorScale, "colour scale")
	out := flags.fs.String("out", "evaluation.png", "output file, .png or .html")
	width := flags.fs.Int("width", cfg.Plot.Width, "image width")
	height := flags.fs.Int("height", cfg.Plot.Height, "image height")

	req, err := flags.parseRequest(args)
	if err != nil {
		return err
	}
	req.Mode = *mode
	req.ColorScale = *scale

	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", *out, err)
	}
	defer f.Close()

	svc := newExplorer(cfg, dir, *width, *height)
	if strings.EqualFold(filepath.Ext(*out), ".html") {
		err = svc.RenderEvaluationPage(req, f)
	} else {
		err = svc.RenderEvaluation(req, f)
	}
	if err != nil {
		return err
	}

	log.Info().
		Str("file", *out).
		Str("category", req.Category).
		Str("mode", req.Mode).
		Msg("Plot written")
	return nil
}

func runExport(cfg *config.Config, dir string, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("expected <frequency> <blocksize> <nob>")
	}
	ints, err := parseInts(args[:3], "frequency", "blocksize", "nob")
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("export", flag.ExitOnError)
	out := fs.String("out", "", "output XLSX file")
	if err := fs.Parse(args[3:]); err != nil {
		return err
	}
	if *out == "" {
		*out = fmt.Sprintf("result_summary_f%d_bs%d_nob%d.xlsx", ints[0], ints[1], ints[2])
	}

	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", *out, err)
	}
	defer f.Close()

	svc := newExplorer(cfg, dir, cfg.Plot.Width, cfg.Plot.Height)
	ref := models.ResultRef{Frequency: ints[0], Blocksize: ints[1], Nob: ints[2]}
	if err := svc.ExportTable(ref, f); err != nil {
		return err
	}

	log.Info().Str("file", *out).Msg("Table exported")
	return nil
}

func parseInts(args []string, names ...string) ([]int, error) {
	if len(args) < len(names) {
		return nil, fmt.Errorf("expected %d integer arguments %v", len(names), names)
	}
	values := make([]int, len(names))
	for i, name := range names {
		v, err := strconv.Atoi(args[i])
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", name, args[i], err)
		}
		values[i] = v
	}
	return values, nil
}
