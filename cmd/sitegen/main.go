package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	_ "go.uber.org/automaxprocs"
	"gopkg.in/yaml.v3"

	"github.com/dotcommander/sitegen/internal/config"
	"github.com/dotcommander/sitegen/internal/domain/site"
	"github.com/dotcommander/sitegen/internal/pipeline"
	"github.com/dotcommander/sitegen/internal/storage"
	"github.com/dotcommander/sitegen/internal/synth"
)

const usage = `Usage:
  sitegen generate [-config path] [-out dir] [-v] -prompt "..."
  sitegen feedback [-config path] [-v] -file example.yaml
  sitegen sites    [-config path]

Example: sitegen generate -prompt "Create a modern landing page"`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "generate":
		err = runGenerate(ctx, os.Args[2:], os.Stdout)
	case "feedback":
		err = runFeedback(ctx, os.Args[2:], os.Stdout)
	case "sites":
		err = runSites(ctx, os.Args[2:], os.Stdout)
	case "-h", "--help", "help":
		fmt.Println(usage)
		return
	default:
		err = fmt.Errorf("unknown command: %s", os.Args[1])
	}

	if err != nil {
		if stage, ok := pipeline.StageOf(err); ok {
			fmt.Fprintf(os.Stderr, "Error during %s: %v\n", stage, err)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

type commonFlags struct {
	configPath string
	verbose    bool
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "config file (default $SITEGEN_CONFIG or XDG config dir)")
	fs.BoolVar(&c.verbose, "v", false, "debug logging")
}

func (c *commonFlags) load() (*config.Config, *slog.Logger, error) {
	var (
		cfg *config.Config
		err error
	)
	if c.configPath != "" {
		cfg, err = config.LoadFile(c.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, nil, err
	}

	level := slog.LevelWarn
	if c.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return cfg, logger, nil
}

func runGenerate(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	var common commonFlags
	common.register(fs)
	prompt := fs.String("prompt", "", "description of the site to generate")
	outDir := fs.String("out", "", "output directory (overrides config)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *prompt == "" {
		*prompt = strings.Join(fs.Args(), " ")
	}

	cfg, logger, err := common.load()
	if err != nil {
		return err
	}
	if *outDir != "" {
		cfg.Paths.OutputDir = *outDir
	}

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	return a.generate(ctx, *prompt, out)
}

func (a *app) generate(ctx context.Context, prompt string, out io.Writer) error {
	start := time.Now()
	res, err := a.generator.Generate(ctx, prompt)
	if err != nil {
		return err
	}

	dir, err := a.sites.Write(ctx, storage.Manifest{
		RequestID:  res.RequestID,
		Prompt:     prompt,
		Archetype:  res.Analysis.Archetype,
		Components: res.Analysis.Customization.Components,
		Features:   res.Analysis.Customization.Features,
	}, res.Files)
	if err != nil {
		return fmt.Errorf("saving site: %w", err)
	}

	var total uint64
	for _, content := range res.Files {
		total += uint64(len(content))
	}

	fmt.Fprintf(out, "Generated %s site in %s\n", res.Analysis.Archetype, time.Since(start).Round(time.Millisecond))
	for _, p := range res.Files.Paths() {
		fmt.Fprintf(out, "  %-32s %s\n", p, humanize.Bytes(uint64(len(res.Files[p]))))
	}
	fmt.Fprintf(out, "Wrote %d files (%s) to %s\n", len(res.Files), humanize.Bytes(total),
		filepath.Join(a.cfg.Paths.OutputDir, filepath.FromSlash(dir)))
	return nil
}

func runFeedback(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("feedback", flag.ContinueOnError)
	var common commonFlags
	common.register(fs)
	file := fs.String("file", "", "YAML training example to record")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		return errors.New("feedback requires -file")
	}

	example, err := readExample(*file)
	if err != nil {
		return err
	}

	cfg, logger, err := common.load()
	if err != nil {
		return err
	}

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	return a.feedback(ctx, example, out)
}

func (a *app) feedback(ctx context.Context, example site.TrainingExample, out io.Writer) error {
	if err := a.synth.RecordFeedback(ctx, example); err != nil {
		var verr *synth.ValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("invalid example: %w", err)
		}
		return err
	}
	if err := a.synth.Flush(ctx); err != nil {
		return fmt.Errorf("applying feedback: %w", err)
	}

	fmt.Fprintf(out, "Recorded feedback %d/5 (corpus: %d examples, %s)\n",
		example.Feedback, a.synth.Len(), a.cfg.Paths.CorpusFile)
	return nil
}

func readExample(path string) (site.TrainingExample, error) {
	var example site.TrainingExample
	data, err := os.ReadFile(path)
	if err != nil {
		return example, fmt.Errorf("reading example: %w", err)
	}
	if err := yaml.Unmarshal(data, &example); err != nil {
		return example, fmt.Errorf("parsing example %s: %w", path, err)
	}
	return example, nil
}

func runSites(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("sites", flag.ContinueOnError)
	var common commonFlags
	common.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, logger, err := common.load()
	if err != nil {
		return err
	}

	return listSites(ctx, storage.NewSiteWriter(storage.NewFileSystem(cfg.Paths.OutputDir), logger), out)
}

func listSites(ctx context.Context, sites *storage.SiteWriter, out io.Writer) error {
	manifests, err := sites.Manifests(ctx)
	if err != nil {
		return err
	}
	if len(manifests) == 0 {
		fmt.Fprintln(out, "No generated sites")
		return nil
	}

	for _, m := range manifests {
		fmt.Fprintf(out, "%s  %-9s  %d files  %-14s  %s\n",
			m.RequestID[:min(8, len(m.RequestID))],
			m.Archetype,
			len(m.Files),
			humanize.Time(m.CreatedAt),
			m.Prompt)
	}
	return nil
}
