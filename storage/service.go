package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"gooviral.app/checkout/config"
)

// Service hands out time-limited download URLs for the product object.
type Service interface {
	GetDownloadURL(ctx context.Context) (string, error)
}

type service struct {
	presigner *s3.PresignClient
	bucket    string
	objectKey string
	validity  time.Duration
	logger    *zap.Logger
}

// NewService builds a presigner against the Cloudflare R2 S3-compatible
// endpoint for the configured account.
func NewService(appConfig *config.Config, logger *zap.Logger) Service {

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", appConfig.R2.AccountID)

	awsConfig := aws.Config{
		Region: "auto",
		Credentials: credentials.NewStaticCredentialsProvider(
			appConfig.R2.AccessKey, appConfig.R2.SecretKey, ""),
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})

	return &service{
		presigner: s3.NewPresignClient(client),
		bucket:    appConfig.R2.Bucket,
		objectKey: appConfig.R2.ObjectKey,
		validity:  time.Duration(appConfig.R2.LinkDaysValid) * 24 * time.Hour,
		logger:    logger,
	}
}

func (s *service) GetDownloadURL(ctx context.Context) (string, error) {

	request, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = s.validity
	})
	if err != nil {
		return "", fmt.Errorf("failed to presign download url: %w", err)
	}

	return request.URL, nil
}
