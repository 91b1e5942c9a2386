package filestorage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sabbatical-backend/config"

	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Provider archives generated approval letters.
type Provider interface {
	UploadLetter(ctx context.Context, applicationID string, file []byte) error
	// GetLetter returns nil when nothing is archived for the application.
	GetLetter(ctx context.Context, applicationID string) ([]byte, error)
	// DeleteLetter drops the archived copy so the next request renders a fresh one.
	DeleteLetter(ctx context.Context, applicationID string) error
	MakeBucket(ctx context.Context) error
}

var Instance Provider

func NewHandler(s3client *minio.Client) {
	if s3client == nil {
		return
	}
	Instance = NewInstance(s3client, config.Conf.S3.BucketName)
}

func NewInstance(s3client *minio.Client, bucketName string) Provider {
	return &impl{
		s3client:   s3client,
		bucketName: bucketName,
	}
}

type impl struct {
	s3client   *minio.Client
	bucketName string
}

func (i impl) UploadLetter(ctx context.Context, applicationID string, file []byte) error {
	_, err := i.s3client.PutObject(ctx, i.bucketName, letterObjectName(applicationID), bytes.NewReader(file), int64(len(file)),
		minio.PutObjectOptions{ContentType: "application/pdf"})
	if err != nil {
		return errors.Wrap(err, "failed to upload approval letter")
	}
	return nil
}

func (i impl) GetLetter(ctx context.Context, applicationID string) ([]byte, error) {
	obj, err := i.s3client.GetObject(ctx, i.bucketName, letterObjectName(applicationID), minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get approval letter")
	}
	defer obj.Close()
	body, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to read approval letter")
	}
	return body, nil
}

func (i impl) DeleteLetter(ctx context.Context, applicationID string) error {
	err := i.s3client.RemoveObject(ctx, i.bucketName, letterObjectName(applicationID), minio.RemoveObjectOptions{})
	if err != nil {
		return errors.Wrap(err, "failed to delete approval letter")
	}
	return nil
}

func (i impl) MakeBucket(ctx context.Context) error {
	location := "us-east-1"
	exists, err := i.s3client.BucketExists(ctx, i.bucketName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	err = i.s3client.MakeBucket(ctx, i.bucketName, minio.MakeBucketOptions{Region: location})
	if err != nil {
		return err
	}
	log.WithField("bucket", i.bucketName).Info("bucket created")
	return nil
}

func letterObjectName(applicationID string) string {
	return fmt.Sprintf("letters/%v.pdf", applicationID)
}
