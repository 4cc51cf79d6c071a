package archiver

import (
	"compress/gzip"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	RecordsFileName     = "summary.jsonl.gz"
	LocalTempDirPattern = "tracediag-archiver-*"

	uploadAttempts = 3
)

var ErrFileAlreadyExists = errors.New("file already exists")

// S3API is the subset of *s3.Client the archiver uses.
type S3API interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Archiver uploads the artifacts of one run under <S3Prefix><RunID>/.
type Archiver struct {
	S3Client S3API
	S3Bucket string

	// S3Prefix is for the files in the bucket with no leading slash but optionally (typically) with trailing slash
	// e.g. "tracediag/" or simply "" (empty string)
	S3Prefix string

	RunID string

	// RetryDelay is the base delay in-between upload attempts
	RetryDelay time.Duration

	localTempDir string
	logger       *zerolog.Logger
}

func (a *Archiver) initLogger() {
	if a.logger == nil {
		logger := log.With().
			Str("module", "archiver").
			Str("runId", a.RunID).
			Logger()
		a.logger = &logger
	}
}

// Key returns the object key of the file named name.
func (a *Archiver) Key(name string) string {
	return a.S3Prefix + path.Join(a.RunID, name)
}

func (a *Archiver) Prepare(ctx context.Context) error {
	a.initLogger()

	a.logger.Info().Str("bucket", a.S3Bucket).Str("prefix", a.Key("")).Msg("preparing archiver")

	if err := a.assertS3FileNonExistence(ctx, RecordsFileName); err != nil {
		return errors.Wrap(err, "failed to assertS3FileNonExistence")
	}
	a.logger.Trace().Msg("asserted S3 file non-existence")

	if err := a.createLocalTempDir(); err != nil {
		return errors.Wrap(err, "failed to createLocalTempDir")
	}
	a.logger.Trace().Str("localTempDir", a.localTempDir).Msg("created local temp dir")

	return nil
}

func (a *Archiver) assertS3FileNonExistence(ctx context.Context, name string) error {
	key := a.Key(name)
	input := &s3.HeadObjectInput{
		Bucket: aws.String(a.S3Bucket),
		Key:    aws.String(key),
	}
	object, err := a.S3Client.HeadObject(ctx, input)
	if err != nil {
		var ae smithy.APIError
		if errors.As(err, &ae) {
			if ae.ErrorCode() == "NotFound" {
				return nil
			}
		}
		return errors.Wrap(err, "failed to invoke HeadObject")
	}
	return errors.Wrap(ErrFileAlreadyExists, fmt.Sprintf("file \"%s\" already exists in s3 with LastModified \"%s\"", key, object.LastModified))
}

func (a *Archiver) createLocalTempDir() error {
	dir, err := os.MkdirTemp(os.TempDir(), LocalTempDirPattern)
	if err != nil {
		return errors.Wrap(err, "failed to create temporary directory")
	}

	a.localTempDir = dir
	return nil
}

// ArchiveRecords writes records as gzipped JSON lines and uploads the result as RecordsFileName.
// Prepare must have been called.
func (a *Archiver) ArchiveRecords(ctx context.Context, records []interface{}) error {
	localTempFilePath := filepath.Join(a.localTempDir, RecordsFileName)
	if err := a.writeRecords(localTempFilePath, records); err != nil {
		return errors.Wrap(err, "failed to writeRecords")
	}
	a.logger.Trace().Str("localTempFilePath", localTempFilePath).Int("records", len(records)).Msg("wrote records to local file")

	return a.UploadFile(ctx, localTempFilePath, RecordsFileName)
}

func (a *Archiver) writeRecords(filePath string, records []interface{}) error {
	file, err := os.OpenFile(filePath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return errors.Wrap(err, "failed to open file")
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	jsonEncoder := json.NewEncoder(gzipWriter)
	for _, record := range records {
		if err := jsonEncoder.Encode(record); err != nil {
			return errors.Wrap(err, "failed to encode record")
		}
	}

	if err := gzipWriter.Close(); err != nil {
		return errors.Wrap(err, "failed to flush gzip stream")
	}
	return nil
}

// UploadFile uploads the local file at localPath under the key of name, retrying transient failures.
func (a *Archiver) UploadFile(ctx context.Context, localPath string, name string) error {
	a.initLogger()

	key := a.Key(name)
	err := retry.Do(
		func() error {
			file, err := os.Open(localPath)
			if err != nil {
				return retry.Unrecoverable(errors.Wrap(err, "failed to open file"))
			}
			defer file.Close()

			_, err = a.S3Client.PutObject(ctx, &s3.PutObjectInput{
				Bucket: aws.String(a.S3Bucket),
				Key:    aws.String(key),
				Body:   file,
			})
			if err != nil {
				return errors.Wrap(err, "failed to invoke PutObject")
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uploadAttempts),
		retry.Delay(a.RetryDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			a.logger.Warn().Err(err).Uint("attempt", n+1).Str("key", key).Msg("retrying upload")
		}),
	)
	if err != nil {
		return err
	}

	a.logger.Debug().Str("key", key).Msg("uploaded to S3")
	return nil
}

func (a *Archiver) Cleanup() error {
	if a.localTempDir == "" {
		return nil
	}
	if err := os.RemoveAll(a.localTempDir); err != nil {
		return errors.Wrap(err, "failed to remove temporary directory")
	}
	return nil
}
