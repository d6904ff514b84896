package services

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	sc "github.com/dmitrijs2005/ringkeeper/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newImageService() *ImageService {
	return NewImageService(&sc.Config{
		S3Region:       "us-east-1",
		S3RootUser:     "minioadmin",
		S3RootPassword: "minioadmin",
		S3BaseEndpoint: "http://127.0.0.1:9000/",
		S3Bucket:       "rings",
	})
}

func stubPresign(t *testing.T) {
	t.Helper()
	origLoad, origNewS3, origNewPre, origPut, origNow :=
		loadDefaultAWSConfig, newS3ClientFromConfig, newS3PresignClient, presignPutObject, timeNow
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		newS3PresignClient = origNewPre
		presignPutObject = origPut
		timeNow = origNow
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return &s3.Client{}
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return &s3.PresignClient{}
	}
	timeNow = func() time.Time {
		return time.Date(2026, time.March, 9, 12, 0, 0, 0, time.UTC)
	}
}

func TestImageKey(t *testing.T) {
	at := time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC)
	key := ImageKey(frodoID, at)

	re := regexp.MustCompile(`^rings/` + frodoID + `/2026/01/02/[0-9a-f-]{36}$`)
	assert.Regexp(t, re, key)
	assert.NotEqual(t, key, ImageKey(frodoID, at))
}

func TestGetPresignClient_AppliesConfig(t *testing.T) {
	stubPresign(t)

	var region, endpoint string
	var pathStyle bool
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		region = lo.Region
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		var opts s3.Options
		for _, fn := range optFns {
			fn(&opts)
		}
		endpoint = aws.ToString(opts.BaseEndpoint)
		pathStyle = opts.UsePathStyle
		return &s3.Client{}
	}

	pc, err := newImageService().getPresignClient(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, pc)
	assert.Equal(t, "us-east-1", region)
	assert.Equal(t, "http://127.0.0.1:9000/", endpoint)
	assert.True(t, pathStyle)
}

func TestPresignUpload(t *testing.T) {
	stubPresign(t)

	var gotBucket, gotKey string
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		gotBucket, gotKey = aws.ToString(in.Bucket), aws.ToString(in.Key)
		var po s3.PresignOptions
		for _, fn := range optFns {
			fn(&po)
		}
		assert.Equal(t, ImageUploadValidity, po.Expires)
		return &v4.PresignedHTTPRequest{URL: "http://127.0.0.1:9000/rings/" + gotKey + "?X-Amz-Signature=abc"}, nil
	}

	up, err := newImageService().PresignUpload(context.Background(), frodoID)
	require.NoError(t, err)

	assert.Equal(t, "rings", gotBucket)
	assert.Equal(t, gotKey, up.Key)
	assert.True(t, strings.HasPrefix(up.Key, "rings/"+frodoID+"/2026/03/09/"))
	assert.Contains(t, up.UploadURL, "X-Amz-Signature")
	assert.Equal(t, "http://127.0.0.1:9000/rings/"+up.Key, up.ImageURL)
	assert.Equal(t, time.Date(2026, time.March, 9, 12, 15, 0, 0, time.UTC), up.ExpiresAt)
}

func TestPresignUpload_Errors(t *testing.T) {
	t.Run("config load", func(t *testing.T) {
		stubPresign(t)
		loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
			return aws.Config{}, errBoom
		}

		_, err := newImageService().PresignUpload(context.Background(), frodoID)
		assert.ErrorIs(t, err, errBoom)
		assert.ErrorContains(t, err, "error building presign client")
	})

	t.Run("presign", func(t *testing.T) {
		stubPresign(t)
		presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
			return nil, errBoom
		}

		_, err := newImageService().PresignUpload(context.Background(), frodoID)
		assert.ErrorIs(t, err, errBoom)
		assert.ErrorContains(t, err, "error presigning upload")
	})
}
