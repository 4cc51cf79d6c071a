package service

import (
	"context"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/xid"
	"github.com/samber/lo"

	"exusiai.dev/tracediag/internal/app/appconfig"
	"exusiai.dev/tracediag/internal/model"
	"exusiai.dev/tracediag/internal/pkg/archiver"
	"exusiai.dev/tracediag/internal/pkg/diagerr"
	"exusiai.dev/tracediag/internal/pkg/flog"
)

const archiveRetryDelay = time.Second

type Archive struct {
	Config *appconfig.Config

	// S3Client is nil when archiving is disabled.
	S3Client archiver.S3API
}

func NewArchive(conf *appconfig.Config, s3Client *s3.Client) *Archive {
	a := &Archive{
		Config: conf,
	}
	if s3Client != nil {
		a.S3Client = s3Client
	}
	return a
}

func (s *Archive) Enabled() bool {
	return s.S3Client != nil && s.Config.ArchiveEnabled()
}

// Upload archives the row reports as gzipped JSON lines together with every plot of report and extraFiles.
func (s *Archive) Upload(ctx context.Context, report *model.DiagnosticsReport, extraFiles ...string) error {
	if !s.Enabled() {
		flog.DebugFrom(ctx).Msg("archiving disabled, skipping upload")
		return nil
	}

	runID := report.RunID
	if runID == "" {
		runID = xid.New().String()
	}
	a := &archiver.Archiver{
		S3Client:   s.S3Client,
		S3Bucket:   s.Config.ArchiveS3Bucket,
		S3Prefix:   s.Config.ArchiveS3Prefix,
		RunID:      runID,
		RetryDelay: archiveRetryDelay,
	}

	if err := a.Prepare(ctx); err != nil {
		return diagerr.ErrArchiveFailed.Wrap(err)
	}
	defer func() {
		if err := a.Cleanup(); err != nil {
			flog.WarnFrom(ctx).Err(err).Msg("failed to clean up archiver")
		}
	}()

	records := lo.Map(report.Rows, func(row *model.RowReport, _ int) interface{} {
		return row
	})
	if err := a.ArchiveRecords(ctx, records); err != nil {
		return diagerr.ErrArchiveFailed.Msg("failed to archive row reports").Wrap(err)
	}

	files := append(report.Artifacts(), lo.Compact(extraFiles)...)
	for _, file := range files {
		if err := a.UploadFile(ctx, file, filepath.Base(file)); err != nil {
			return diagerr.ErrArchiveFailed.Msg("failed to upload \"%s\"", file).Wrap(err)
		}
	}

	flog.InfoFrom(ctx).
		Str("bucket", s.Config.ArchiveS3Bucket).
		Str("prefix", a.Key("")).
		Int("files", len(files)+1).
		Msg("archived run artifacts")
	return nil
}
