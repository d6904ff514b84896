package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	sc "github.com/dmitrijs2005/ringkeeper/internal/server/config"
	"github.com/dmitrijs2005/ringkeeper/internal/server/models"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ImageUploadValidity bounds how long a presigned upload URL stays usable.
const ImageUploadValidity = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}

	timeNow = time.Now
)

// ImageService hands out presigned S3 upload URLs for ring images.
type ImageService struct {
	config *sc.Config
}

func NewImageService(config *sc.Config) *ImageService {
	return &ImageService{config: config}
}

// ImageKey returns a fresh object key under the uploader's prefix.
func ImageKey(userID string, at time.Time) string {
	return fmt.Sprintf("rings/%s/%04d/%02d/%02d/%s", userID, at.Year(), at.Month(), at.Day(), uuid.New())
}

func (s *ImageService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// PresignUpload returns a presigned PUT URL for a new image owned by userID
// and the URL the image will be served from once uploaded.
func (s *ImageService) PresignUpload(ctx context.Context, userID string) (*models.ImageUpload, error) {
	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("error building presign client: %w", err)
	}

	now := timeNow()
	bucket := s.config.S3Bucket
	key := ImageKey(userID, now)

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(ImageUploadValidity))
	if err != nil {
		return nil, fmt.Errorf("error presigning upload: %w", err)
	}

	return &models.ImageUpload{
		Key:       key,
		UploadURL: req.URL,
		ImageURL:  strings.TrimRight(s.config.S3BaseEndpoint, "/") + "/" + bucket + "/" + key,
		ExpiresAt: now.Add(ImageUploadValidity),
	}, nil
}
