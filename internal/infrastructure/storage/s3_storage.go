// Package storage archives notification records to S3-compatible object
// storage.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/purchase-invoice/backend/internal/domain/notification"
	"github.com/purchase-invoice/backend/internal/infrastructure/config"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const contentTypeJSON = "application/json"

// S3Archive writes one JSON object per notification record. It works
// with AWS S3 and S3-compatible servers (MinIO, RustFS).
type S3Archive struct {
	client *s3.Client
	bucket string
	prefix string
	logger *zap.Logger
}

// S3ArchiveOption is a functional option for configuring S3Archive
type S3ArchiveOption func(*S3Archive)

// WithLogger sets a custom logger for S3Archive
func WithLogger(logger *zap.Logger) S3ArchiveOption {
	return func(a *S3Archive) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewS3Archive builds the archive from the notification settings. Static
// credentials are used when both keys are set, otherwise the default AWS
// credential chain applies.
func NewS3Archive(ctx context.Context, cfg config.NotificationConfig, opts ...S3ArchiveOption) (*S3Archive, error) {
	if cfg.ArchiveBucket == "" {
		return nil, errors.New("archive bucket is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.ArchiveRegion),
	}
	if cfg.ArchiveAccessKey != "" && cfg.ArchiveSecretKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.ArchiveAccessKey, cfg.ArchiveSecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	var endpoint string
	if cfg.ArchiveEndpoint != "" {
		endpoint = cfg.ArchiveEndpoint
		if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
			endpoint = "https://" + endpoint
		}
		if _, err := url.Parse(endpoint); err != nil {
			return nil, fmt.Errorf("invalid archive endpoint: %w", err)
		}
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			// self-hosted servers rarely support virtual-host addressing
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	a := &S3Archive{
		client: client,
		bucket: cfg.ArchiveBucket,
		prefix: cfg.ArchivePrefix,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// EnsureBucket creates the bucket if it doesn't exist
func (a *S3Archive) EnsureBucket(ctx context.Context) error {
	_, err := a.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(a.bucket)})
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	a.logger.Info("Creating notification archive bucket", zap.String("bucket", a.bucket))
	_, err = a.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(a.bucket)})
	if err != nil {
		var alreadyOwned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &alreadyOwned) {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// Archive stores the record under ObjectKey
func (a *S3Archive) Archive(ctx context.Context, event *notification.Event) error {
	body, err := json.Marshal(newArchivedRecord(event))
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}

	key := ObjectKey(a.prefix, event)
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentTypeJSON),
	})
	if err != nil {
		return fmt.Errorf("failed to archive notification %d: %w", event.ID, err)
	}

	a.logger.Debug("Notification archived", zap.String("bucket", a.bucket), zap.String("key", key))
	return nil
}

// Bucket returns the bucket name
func (a *S3Archive) Bucket() string {
	return a.bucket
}

// ObjectKey lays records out by day: <prefix>YYYY/MM/DD/<invoiceId>-<id>.json
func ObjectKey(prefix string, event *notification.Event) string {
	return fmt.Sprintf("%s%s/%s-%d.json",
		prefix, event.CreatedAt.UTC().Format("2006/01/02"), event.InvoiceID, event.ID)
}

type archivedRecord struct {
	ID          int64           `json:"id"`
	InvoiceID   string          `json:"invoiceId"`
	Email       string          `json:"email"`
	FirstName   string          `json:"firstName"`
	LastName    string          `json:"lastName"`
	Amount      decimal.Decimal `json:"amount"`
	ProductName string          `json:"productName"`
	BillNo      string          `json:"billNo"`
	Message     string          `json:"message"`
	Source      string          `json:"source"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func newArchivedRecord(e *notification.Event) archivedRecord {
	return archivedRecord{
		ID:          e.ID,
		InvoiceID:   e.InvoiceID,
		Email:       e.Email,
		FirstName:   e.FirstName,
		LastName:    e.LastName,
		Amount:      e.Amount,
		ProductName: e.ProductName,
		BillNo:      e.BillNo,
		Message:     e.Message,
		Source:      string(e.Source),
		CreatedAt:   e.CreatedAt,
	}
}
