package objectstorage

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/bridgeit/bridgeit-api/pkg/logger"
	"github.com/bridgeit/bridgeit-api/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxImageBytes = 5 * 1024 * 1024

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// StorageClientInterface defines the object storage operations
type StorageClientInterface interface {
	UploadImage(ctx context.Context, imageData, key, contentType string) (string, error)
	GenerateFileName(userID, originalName, contentType string) string
	ValidateImageType(contentType string) error
	ValidateImageSize(imageData string) error
}

// StorageClient uploads profile pictures to an S3-compatible object store.
type StorageClient struct {
	s3Client   *s3.Client
	bucketName string
	endpoint   string
}

// NewStorageClient creates a client for any S3-compatible endpoint.
func NewStorageClient(accessKeyID, secretAccessKey, bucketName, endpoint, region string) (*StorageClient, error) {
	if region == "" {
		region = "us-east-1"
	}

	s3Client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(endpoint),
		Credentials: credentials.NewStaticCredentialsProvider(
			accessKeyID,
			secretAccessKey,
			"", // session token not needed
		),
	})

	logger.Info("Object storage client initialized",
		zap.String("bucket", bucketName),
		zap.String("endpoint", endpoint),
		zap.String("region", region),
	)

	return &StorageClient{
		s3Client:   s3Client,
		bucketName: bucketName,
		endpoint:   endpoint,
	}, nil
}

// ValidateImageType rejects content types we don't serve as profile pictures.
func (s *StorageClient) ValidateImageType(contentType string) error {
	if _, ok := allowedImageTypes[contentType]; !ok {
		return fmt.Errorf("unsupported image type: %s", contentType)
	}
	return nil
}

// ValidateImageSize rejects base64 payloads that decode past the size cap.
func (s *StorageClient) ValidateImageSize(imageData string) error {
	// base64 expands data by ~4/3; compare on the encoded length to avoid
	// decoding oversized payloads just to reject them
	if len(imageData) > maxImageBytes*4/3+4 {
		return fmt.Errorf("image exceeds maximum size of %d bytes", maxImageBytes)
	}
	return nil
}

// GenerateFileName builds a collision-free object key for a user's picture.
func (s *StorageClient) GenerateFileName(userID, originalName, contentType string) string {
	ext := allowedImageTypes[contentType]
	if ext == "" {
		ext = strings.ToLower(path.Ext(originalName))
	}
	return fmt.Sprintf("profiles/%s/%s%s", userID, uuid.NewString(), ext)
}

// UploadImage uploads a base64-encoded image and returns its public URL.
func (s *StorageClient) UploadImage(ctx context.Context, imageData, key, contentType string) (string, error) {
	start := time.Now()
	operation := "uploadImage"

	var imageBytes []byte
	var err error

	// Handle data URI format (data:image/png;base64,...)
	if strings.HasPrefix(imageData, "data:") {
		parts := strings.SplitN(imageData, ",", 2)
		if len(parts) != 2 {
			return "", fmt.Errorf("invalid data URI format")
		}
		imageBytes, err = base64.StdEncoding.DecodeString(parts[1])
	} else {
		imageBytes, err = base64.StdEncoding.DecodeString(imageData)
	}

	if err != nil {
		s.recordMetrics(operation, "error", start)
		return "", fmt.Errorf("failed to decode base64 image: %w", err)
	}

	if len(imageBytes) > maxImageBytes {
		s.recordMetrics(operation, "error", start)
		return "", fmt.Errorf("image exceeds maximum size of %d bytes", maxImageBytes)
	}

	_, err = s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(imageBytes),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		s.recordMetrics(operation, "error", start)
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	s.recordMetrics(operation, "success", start)

	imageURL := fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(s.endpoint, "/"), s.bucketName, key)
	logger.Info("Image uploaded",
		zap.String("key", key),
		zap.Int("size_bytes", len(imageBytes)))

	return imageURL, nil
}

func (s *StorageClient) recordMetrics(operation, status string, start time.Time) {
	duration := metrics.MeasureDuration(start)
	metrics.StorageRequestDuration.WithLabelValues(operation, status).Observe(duration)
	metrics.StorageRequestTotal.WithLabelValues(operation, status).Inc()
}
