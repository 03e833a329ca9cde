package pipeline

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	awspkg "github.com/yashrajoria/aws-serverless-examples/pkg/aws"
	"github.com/yashrajoria/aws-serverless-examples/pkg/common/logger"
	"github.com/yashrajoria/aws-serverless-examples/services/transform-service/models"
	"go.uber.org/zap"
)

// DefaultSuffix is the object key suffix that marks a CSV upload.
const DefaultSuffix = ".csv"

const summaryMessage = "Successfully processed CSV files"

// Pipeline turns S3 notifications into Firehose records. It is built once
// per process and reused across invocations; it holds no per-invocation state.
type Pipeline struct {
	fetcher   *Fetcher
	sink      *Sink
	suffix    string
	metrics   awspkg.MetricsRecorder
	publisher *SummaryPublisher
	logger    *zap.Logger
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithSuffix overrides the CSV key suffix.
func WithSuffix(suffix string) Option {
	return func(p *Pipeline) {
		if suffix != "" {
			p.suffix = suffix
		}
	}
}

func WithMetrics(m awspkg.MetricsRecorder) Option {
	return func(p *Pipeline) {
		if m != nil {
			p.metrics = m
		}
	}
}

// WithSummaryPublisher sends each ProcessingSummary to an SNS topic.
func WithSummaryPublisher(sp *SummaryPublisher) Option {
	return func(p *Pipeline) { p.publisher = sp }
}

func New(fetcher *Fetcher, sink *Sink, log *zap.Logger, opts ...Option) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	p := &Pipeline{
		fetcher: fetcher,
		sink:    sink,
		suffix:  DefaultSuffix,
		metrics: awspkg.NewDisabledMetricsClient(),
		logger:  log,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process handles one notification. Objects are processed in event order and
// rows in file order. Object and row failures are recorded in the summary;
// only a malformed notification returns an error.
func (p *Pipeline) Process(ctx context.Context, event events.S3Event) (*models.ProcessingSummary, error) {
	log := logger.For(ctx, p.logger)
	log.Info("Received event", zap.Int("records", len(event.Records)))

	refs, err := ExtractObjects(event, p.suffix, log)
	if err != nil {
		log.Error("Error processing event", zap.Error(err))
		return nil, err
	}

	summary := &models.ProcessingSummary{
		Message:        summaryMessage,
		ProcessedFiles: len(event.Records),
		Objects:        make([]models.ObjectSummary, 0, len(refs)),
		Failures:       []models.RowFailure{},
	}

	for _, ref := range refs {
		if ref.Skip {
			summary.Add(models.ObjectSummary{Bucket: ref.Bucket, Key: ref.Key, Status: models.ObjectSkipped})
			p.count(ctx, awspkg.MetricCSVFilesSkipped, 1)
			continue
		}

		obj, failures := p.processObject(ctx, log, ref)
		summary.Add(obj)
		summary.Failures = append(summary.Failures, failures...)
	}

	log.Info("Notification processed",
		zap.Int("processed_files", summary.ProcessedFiles),
		zap.Int("skipped_files", summary.SkippedFiles),
		zap.Int("failed_files", summary.FailedFiles),
		zap.Int("total_rows", summary.TotalRows),
		zap.Int("successful_rows", summary.SuccessfulRows),
		zap.Int("failed_rows", summary.FailedRows),
	)

	if p.publisher != nil {
		if err := p.publisher.Publish(ctx, summary); err != nil {
			log.Warn("Failed to publish processing summary", zap.Error(err))
		}
	}

	return summary, nil
}

func (p *Pipeline) processObject(ctx context.Context, log *zap.Logger, ref ObjectRef) (models.ObjectSummary, []models.RowFailure) {
	obj := models.ObjectSummary{Bucket: ref.Bucket, Key: ref.Key, Status: models.ObjectProcessed}
	log = log.With(zap.String("bucket", ref.Bucket), zap.String("key", ref.Key))
	log.Info("Processing file")

	content, err := p.fetcher.Fetch(ctx, ref.Bucket, ref.Key)
	if err != nil {
		log.Error("Error fetching CSV file, skipping object", zap.Error(err))
		p.count(ctx, awspkg.MetricCSVFilesFailed, 1)
		return failedObject(obj, err), nil
	}

	dec, err := NewDecoder(strings.NewReader(content))
	if err != nil {
		log.Error("Error reading CSV header, skipping object", zap.Error(err))
		p.count(ctx, awspkg.MetricCSVFilesFailed, 1)
		return failedObject(obj, err), nil
	}

	var failures []models.RowFailure
	fail := func(row int, err error) {
		obj.FailedRows++
		failures = append(failures, models.RowFailure{Object: ref.Key, RowIndex: row, Error: err.Error()})
		log.Error("Failed to process row", zap.Int("row", row), zap.Error(err))
	}

	for {
		raw, err := dec.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Rows already handled stay counted.
			log.Error("CSV read aborted", zap.Int("after_row", dec.Row()), zap.Error(err))
			obj.Status = models.ObjectFailed
			obj.Error = err.Error()
			break
		}
		row := dec.Row()
		obj.TotalRows++

		rec, err := Transform(raw, ref.Key)
		if err != nil {
			fail(row, &RowTransformError{RowIndex: row, Err: err})
			continue
		}

		id, err := p.sink.Deliver(ctx, rec)
		if err != nil {
			fail(row, err)
			continue
		}
		obj.SuccessfulRows++
		log.Info("Successfully processed row", zap.Int("row", row), zap.String("record_id", id))
	}

	if obj.TotalRows == 0 && obj.Status == models.ObjectProcessed {
		log.Warn("No data rows found")
	}
	log.Info("Processing complete",
		zap.Int("total_rows", obj.TotalRows),
		zap.Int("successful", obj.SuccessfulRows),
		zap.Int("failed", obj.FailedRows),
	)

	p.count(ctx, awspkg.MetricCSVRowsDelivered, obj.SuccessfulRows)
	p.count(ctx, awspkg.MetricCSVRowsFailed, obj.FailedRows)
	if obj.Status == models.ObjectFailed {
		p.count(ctx, awspkg.MetricCSVFilesFailed, 1)
	}
	return obj, failures
}

func failedObject(obj models.ObjectSummary, err error) models.ObjectSummary {
	obj.Status = models.ObjectFailed
	obj.Error = err.Error()
	return obj
}

func (p *Pipeline) count(ctx context.Context, metric string, n int) {
	if n == 0 || !p.metrics.IsEnabled() {
		return
	}
	dims := map[string]string{"Service": "transform-service", "Stream": p.sink.Stream()}
	if err := p.metrics.RecordValue(ctx, metric, float64(n), dims); err != nil {
		p.logger.Debug("Failed to record metric", zap.String("metric", metric), zap.Error(err))
	}
}
