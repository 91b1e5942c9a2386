package s3client

import (
	"sabbatical-backend/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var Client *minio.Client

// NewClient leaves Client nil when no endpoint is configured.
func NewClient() error {
	if config.Conf.S3.Endpoint == "" {
		return nil
	}
	minioClient, err := minio.New(config.Conf.S3.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.Conf.S3.AccessKeyID, config.Conf.S3.SecretAccessKey, ""),
		Secure: config.Conf.S3.UseSSL != nil && *config.Conf.S3.UseSSL,
	})
	if err != nil {
		return err
	}
	Client = minioClient
	return nil
}
