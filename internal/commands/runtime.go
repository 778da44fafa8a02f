package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/cardsort-dev/cardsort/internal/aggregate"
	"github.com/cardsort-dev/cardsort/internal/categorizer"
	"github.com/cardsort-dev/cardsort/internal/config"
	"github.com/cardsort-dev/cardsort/internal/export"
	"github.com/cardsort-dev/cardsort/internal/importer"
	"github.com/cardsort-dev/cardsort/internal/installments"
	"github.com/cardsort-dev/cardsort/internal/logger"
	"github.com/cardsort-dev/cardsort/internal/model"
	"github.com/cardsort-dev/cardsort/internal/pipeline"
)

// globalOptions are the persistent root flags.
type globalOptions struct {
	configPath string
	logLevel   string
	logFormat  string
	logOut     io.Writer
}

// runtime is the resolved configuration and logger of one invocation.
type runtime struct {
	cfg *config.Config
	log zerolog.Logger
}

// load resolves the config file, then environment overrides. Command flags
// are applied by the caller on top.
func (g *globalOptions) load() (*runtime, error) {
	cfg, err := config.LoadOrDefault(g.configPath)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	out := g.logOut
	if out == nil {
		out = os.Stderr
	}
	return &runtime{cfg: cfg, log: logger.FromFormat(out, g.logFormat, g.logLevel)}, nil
}

func (rt *runtime) categorizer() *categorizer.Categorizer {
	return categorizer.NewFromFile(rt.cfg.CategoriesFile, rt.log)
}

func (rt *runtime) service(c *categorizer.Categorizer) (*pipeline.Service, error) {
	parser := importer.DefaultRegistry(rt.cfg.Input.DateFormats).Get(rt.cfg.Input.Format)
	if parser == nil {
		return nil, fmt.Errorf("unknown input format %q", rt.cfg.Input.Format)
	}
	merger := installments.NewMerger(rt.cfg.Installments.Markers)
	return pipeline.NewService(parser, c, merger, rt.log), nil
}

// options builds pipeline options from the config. only must name categories
// c can assign.
func (rt *runtime) options(c *categorizer.Categorizer, only []string) (pipeline.Options, error) {
	opts := pipeline.Options{
		MergeInstallments: rt.cfg.Installments.Merge,
		TopStores:         rt.cfg.Report.TopStores,
	}
	if rt.cfg.Report.Bucket != "" {
		b, err := aggregate.ParseBucket(rt.cfg.Report.Bucket)
		if err != nil {
			return opts, err
		}
		opts.Bucket = b
	}

	for _, cat := range only {
		if cat != model.CategoryOthers && !c.Table().Has(cat) {
			return opts, fmt.Errorf("unknown category %q (have: %v)", cat, c.Categories())
		}
	}
	opts.Only = only
	return opts, nil
}

// run expands directory arguments and runs the pipeline. Organized outputs
// an earlier run wrote into a scanned directory are not read back as input.
func (rt *runtime) run(args, only []string) (*pipeline.Result, error) {
	suffix := rt.cfg.Output.Suffix
	if suffix == "" {
		suffix = export.DefaultSuffix
	}
	paths, err := importer.Expand(args, suffix)
	if err != nil {
		return nil, err
	}
	c := rt.categorizer()
	svc, err := rt.service(c)
	if err != nil {
		return nil, err
	}
	opts, err := rt.options(c, only)
	if err != nil {
		return nil, err
	}
	return svc.Run(paths, opts)
}
