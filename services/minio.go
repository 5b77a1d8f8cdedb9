package services

import (
	stdContext "context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/alphabatem/common/context"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	log "github.com/sirupsen/logrus"

	"github.com/ColdByDefault/Portfolio-sub001/dto"
	"github.com/ColdByDefault/Portfolio-sub001/shared"
)

const maxCoverSize = 5 << 20 // 5 MiB

var allowedCoverTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// MinIOService stores blog post cover images in object storage.
type MinIOService struct {
	context.DefaultService

	client     *minio.Client
	bucketName string
	endpoint   string
	accessKey  string
	secretKey  string
	useSSL     bool
	publicURL  string
}

const MINIO_SVC = "minio_svc"

func (svc MinIOService) Id() string {
	return MINIO_SVC
}

func (svc *MinIOService) Configure(ctx *context.Context) error {
	svc.endpoint = os.Getenv("MINIO_ENDPOINT")
	if svc.endpoint == "" {
		svc.endpoint = "localhost:9000"
	}

	svc.accessKey = os.Getenv("MINIO_ACCESS_KEY")
	svc.secretKey = os.Getenv("MINIO_SECRET_KEY")
	svc.useSSL = os.Getenv("MINIO_USE_SSL") == "true"

	svc.bucketName = os.Getenv("MINIO_BUCKET_NAME")
	if svc.bucketName == "" {
		svc.bucketName = "portfolio-media"
	}

	// Base URL covers served from, e.g. a CDN in front of the bucket.
	svc.publicURL = strings.TrimRight(os.Getenv("MINIO_PUBLIC_URL"), "/")
	if svc.publicURL == "" {
		scheme := "http"
		if svc.useSSL {
			scheme = "https"
		}
		svc.publicURL = fmt.Sprintf("%s://%s/%s", scheme, svc.endpoint, svc.bucketName)
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *MinIOService) Start() error {
	client, err := minio.New(svc.endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(svc.accessKey, svc.secretKey, ""),
		Secure: svc.useSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to create MinIO client: %v", err)
	}

	svc.client = client

	if err := svc.ensureBucket(); err != nil {
		return fmt.Errorf("failed to ensure bucket exists: %v", err)
	}

	log.WithField("endpoint", svc.endpoint).Info("MinIO service started")
	return nil
}

func (svc *MinIOService) ensureBucket() error {
	ctx := stdContext.Background()

	exists, err := svc.client.BucketExists(ctx, svc.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %v", err)
	}

	if !exists {
		err = svc.client.MakeBucket(ctx, svc.bucketName, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %v", err)
		}
		log.WithField("bucket", svc.bucketName).Info("Created MinIO bucket")
	}

	return nil
}

// UploadPostCover validates and stores a cover image, returning the public
// URL to persist on the post.
func (svc *MinIOService) UploadPostCover(reader io.Reader, size int64, contentType string) (*dto.MediaUploadResponse, error) {
	ext, ok := allowedCoverTypes[contentType]
	if !ok {
		return nil, shared.NewValidationError("unsupported image type", map[string]string{"content_type": contentType})
	}
	if size <= 0 || size > maxCoverSize {
		return nil, shared.NewValidationError("image exceeds the size limit", nil)
	}

	objectName := path.Join("covers", uuid.NewString()+ext)

	_, err := svc.client.PutObject(stdContext.Background(), svc.bucketName, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		log.WithError(err).WithField("object", objectName).Error("Failed to upload cover image")
		return nil, shared.NewDownstreamError("failed to store image", nil)
	}

	return &dto.MediaUploadResponse{
		URL:         svc.publicURL + "/" + objectName,
		Size:        size,
		ContentType: contentType,
	}, nil
}

func (svc *MinIOService) DeleteObject(objectName string) error {
	err := svc.client.RemoveObject(stdContext.Background(), svc.bucketName, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete object: %v", err)
	}
	return nil
}
