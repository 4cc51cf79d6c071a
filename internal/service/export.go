package service

import (
	"context"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	"exusiai.dev/tracediag/internal/app/appconfig"
	"exusiai.dev/tracediag/internal/model"
	"exusiai.dev/tracediag/internal/pkg/flog"
)

const SummaryFileName = "summary.json"

type Export struct {
	Config *appconfig.Config
}

func NewExport(config *appconfig.Config) *Export {
	return &Export{
		Config: config,
	}
}

// WriteSummaryJSON writes report to summary.json in the output directory and returns its path.
// It returns an empty path when SummaryJSON is disabled.
func (s *Export) WriteSummaryJSON(ctx context.Context, report *model.DiagnosticsReport) (string, error) {
	if !s.Config.SummaryJSON {
		return "", nil
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal diagnostics report")
	}

	if err := os.MkdirAll(s.Config.OutputDir, 0o755); err != nil {
		return "", errors.Wrap(err, "failed to create output directory")
	}
	path := filepath.Join(s.Config.OutputDir, SummaryFileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.Wrap(err, "failed to write summary file")
	}

	flog.DebugFrom(ctx).Str("path", path).Msg("summary written")
	return path, nil
}
