package appconfig

import (
	"path/filepath"

	"exusiai.dev/tracediag/internal/app/appcontext"
)

type ConfigSpec struct {
	// TraceDir is the directory the sampler writes its trace into.
	// Leaving this empty resolves to the system temp directory, which is where the sampler writes by default.
	TraceDir string `split_words:"true"`

	// TraceFile is the name of the trace file inside TraceDir.
	TraceFile string `required:"true" split_words:"true" default:"trace.json"`

	// OutputDir is where plots and summary.json are written. Leaving this empty writes next to the trace.
	OutputDir string `split_words:"true"`

	// UnsuffixedSingleTrace names the artifacts of a single-variable trace `trace` and `gweke`
	// instead of `trace_0` and `gweke_0`, matching the layout older tooling expects.
	UnsuffixedSingleTrace bool `split_words:"true" default:"false"`

	// GewekeFirst is the fraction of the trace at the start of each interval compared against the tail.
	GewekeFirst float64 `split_words:"true" default:"0.1" validate:"gt=0,lt=1"`

	// GewekeLast is the fraction of the trace at the end compared against the head.
	GewekeLast float64 `split_words:"true" default:"0.5" validate:"gt=0,lt=1"`

	// GewekeIntervals is the number of start offsets the Geweke z-scores are computed for.
	GewekeIntervals int `split_words:"true" default:"20" validate:"gte=2"`

	// PlotFormat is the image format of the rendered plots.
	// Valid values are: png, svg, pdf.
	PlotFormat string `required:"true" split_words:"true" default:"png" validate:"plotformat"`

	// PlotWidth and PlotHeight are the dimensions of each rendered plot. See PlotLength for the accepted units.
	PlotWidth  PlotLength `split_words:"true" default:"6in" validate:"gt=0"`
	PlotHeight PlotLength `split_words:"true" default:"4in" validate:"gt=0"`

	// SummaryJSON is whether to write the per-row diagnostics report to summary.json in OutputDir.
	SummaryJSON bool `split_words:"true" default:"true"`

	// LogJsonStdout is whether to log JSON logs (instead of pretty-print logs) for the ease of log collection.
	LogJsonStdout bool `split_words:"true" default:"false"`

	// LogDir is the directory of the rotated app.log file. Leaving this empty disables file logging.
	LogDir string `split_words:"true" default:"logs"`

	// DevMode to indicate development mode. When true, logs are emitted at trace level.
	DevMode bool `split_words:"true"`

	// SentryDSN is the DSN of the Sentry server. See https://pkg.go.dev/github.com/getsentry/sentry-go#ClientOptions
	SentryDSN string `split_words:"true"`

	// MetricsTextfile is the path of a Prometheus textfile the run metrics are written to, in the format
	// the node_exporter textfile collector reads. Leaving this empty disables metrics export.
	MetricsTextfile string `split_words:"true"`

	// ProfilerAddress is the listen address of the fgprof handler. Leaving this empty disables profiling.
	ProfilerAddress string `split_words:"true"`

	// ArchiveS3Bucket is the bucket run artifacts are uploaded to. Leaving this empty disables archiving.
	ArchiveS3Bucket string `split_words:"true"`

	ArchiveS3Region string `split_words:"true" default:"us-east-1"`

	// ArchiveS3Prefix is for the keys in the bucket with no leading slash but optionally (typically) with trailing slash
	// e.g. "tracediag/" or simply "" (empty string)
	ArchiveS3Prefix string `split_words:"true" default:"tracediag/"`

	// AWSAccessKey and AWSSecretKey are static credentials for archiving. When left empty the
	// default AWS credential chain is used.
	AWSAccessKey string `split_words:"true"`
	AWSSecretKey string `split_words:"true"`
}

type Config struct {
	// ConfigSpec is the configuration specification injected to the config.
	ConfigSpec

	// AppContext is the application context
	AppContext appcontext.Ctx
}

// TracePath is the full path of the trace file to load.
func (c *Config) TracePath() string {
	return filepath.Join(c.TraceDir, c.TraceFile)
}

func (c *Config) ArchiveEnabled() bool {
	return c.ArchiveS3Bucket != ""
}
