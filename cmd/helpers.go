package cmd

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/josephgoksu/atomize/internal/logging"
	"github.com/josephgoksu/atomize/models"
	"github.com/josephgoksu/atomize/platform"
	"github.com/josephgoksu/atomize/template"
)

// buildLogger creates the process logger from the resolved configuration.
func buildLogger() zerolog.Logger {
	cfg := GetConfig()
	return logging.New(cfg.Log.Level, cfg.Verbose)
}

// buildSource constructs the work-item source. With platform.dataFile set it
// is seeded from that YAML fixture, otherwise it starts empty.
func buildSource() (platform.Source, error) {
	cfg := GetConfig()
	if cfg.Platform.DataFile != "" {
		src, err := platform.NewMemorySourceFromFile(cfg.Platform.DataFile)
		if err != nil {
			return nil, fmt.Errorf("load work items from %s: %w", cfg.Platform.DataFile, err)
		}
		if cfg.Platform.Identity != "" {
			src.SetIdentity(cfg.Platform.Identity)
		}
		return src, nil
	}
	return platform.NewMemorySource(cfg.Platform.Identity), nil
}

// loadTemplate reads, validates and default-fills a template file. Non-fatal
// warnings are printed to the logger.
func loadTemplate(path string, log zerolog.Logger) (*models.Template, error) {
	tmpl, warnings, err := template.NewOsLoader().Load(path)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		log.Warn().Str("template", tmpl.Name).Msg(w)
	}
	applyDefaults(tmpl)
	return tmpl, nil
}

// applyDefaults fills template config knobs the file omitted from the
// application configuration.
func applyDefaults(tmpl *models.Template) {
	cfg := GetConfig()
	if tmpl.Config.Rounding == "" && cfg.Defaults.Rounding != "" {
		tmpl.Config.Rounding = models.RoundingMode(cfg.Defaults.Rounding)
	}
	if tmpl.Config.MinimumTaskPoints == 0 && cfg.Defaults.MinimumTaskPoints > 0 {
		tmpl.Config.MinimumTaskPoints = cfg.Defaults.MinimumTaskPoints
	}
}
