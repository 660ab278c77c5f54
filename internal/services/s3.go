package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
	"github.com/princeprakhar/shopfront-api/internal/config"
)

const maxImageSize = 10 * 1024 * 1024

// ImageStore keeps product images outside the record store.
type ImageStore interface {
	Upload(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*UploadResult, error)
	Delete(ctx context.Context, key string) error
}

type UploadResult struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// NewImageStore builds the store selected by IMAGE_PROVIDER. It returns nil
// when image uploads are disabled.
func NewImageStore(cfg *config.Config) (ImageStore, error) {
	switch cfg.ImageProvider {
	case "s3":
		if cfg.S3BucketName == "" {
			return nil, fmt.Errorf("S3_BUCKET is required for the s3 image provider")
		}
		svc, err := NewS3Service(cfg.S3Region, cfg.S3BucketName, cfg.S3AccessKey, cfg.S3SecretKey)
		if err != nil {
			return nil, err
		}
		return svc, nil
	case "cloudinary":
		svc, err := NewCloudinaryService(cfg.CloudinaryURL)
		if err != nil {
			return nil, err
		}
		return svc, nil
	case "", "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown image provider %q", cfg.ImageProvider)
	}
}

// checkImage validates type and size and returns the content type.
func checkImage(header *multipart.FileHeader) (string, error) {
	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = contentTypeFromExtension(header.Filename)
	}
	if !isValidImageType(contentType) {
		return "", validationError("invalid file type: %s", contentType)
	}
	if header.Size > maxImageSize {
		return "", validationError("file size too large: %d bytes (max: %d bytes)", header.Size, maxImageSize)
	}
	return contentType, nil
}

func isValidImageType(contentType string) bool {
	validTypes := []string{
		"image/jpeg",
		"image/jpg",
		"image/png",
		"image/gif",
		"image/webp",
	}
	for _, validType := range validTypes {
		if strings.EqualFold(contentType, validType) {
			return true
		}
	}
	return false
}

func contentTypeFromExtension(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}

type S3Service struct {
	client     *s3.S3
	bucketName string
	region     string
}

func NewS3Service(region, bucketName, accessKey, secretKey string) (*S3Service, error) {
	awsCfg := &aws.Config{Region: aws.String(region)}
	if accessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(accessKey, secretKey, "")
	}
	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &S3Service{
		client:     s3.New(sess),
		bucketName: bucketName,
		region:     region,
	}, nil
}

func (s *S3Service) Upload(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*UploadResult, error) {
	contentType, err := checkImage(header)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("products/images/%s/%s%s",
		time.Now().Format("2006/01/02"), uuid.New().String(), filepath.Ext(header.Filename))

	buffer := bytes.NewBuffer(nil)
	if _, err := io.Copy(buffer, file); err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	_, err = s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucketName),
		Key:          aws.String(key),
		Body:         bytes.NewReader(buffer.Bytes()),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("max-age=31536000"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &UploadResult{
		Key:         key,
		URL:         fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucketName, s.region, key),
		FileName:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
	}, nil
}

func (s *S3Service) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})
	return err
}
