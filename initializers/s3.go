package initializers

import (
	"context"
	filestorage "sabbatical-backend/lib/file-storage"
	s3client "sabbatical-backend/s3"

	log "github.com/sirupsen/logrus"
)

// InitS3 is optional. Without an endpoint letters are generated on every request.
func InitS3(ctx context.Context) {
	if err := s3client.NewClient(); err != nil {
		log.WithError(err).Error("failed to initialize S3 client")
		return
	}
	if s3client.Client == nil {
		log.Info("S3 is not configured, approval letters will not be archived")
		return
	}

	if _, err := s3client.Client.ListBuckets(ctx); err != nil {
		log.WithError(err).Error("S3 connection check failed")
	}
	filestorage.NewHandler(s3client.Client)
	if err := filestorage.Instance.MakeBucket(ctx); err != nil {
		log.WithError(err).Error("failed to create letters bucket")
	}
	log.Info("S3 client initialized")
}
