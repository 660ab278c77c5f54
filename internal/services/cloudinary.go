package services

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

type CloudinaryService struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryService(cloudURL string) (*CloudinaryService, error) {
	if cloudURL == "" {
		return nil, fmt.Errorf("CLOUDINARY_URL is required for the cloudinary image provider")
	}
	cld, err := cloudinary.NewFromURL(cloudURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	return &CloudinaryService{cld: cld, folder: "products"}, nil
}

func (s *CloudinaryService) Upload(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*UploadResult, error) {
	contentType, err := checkImage(header)
	if err != nil {
		return nil, err
	}

	res, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:   s.folder,
		PublicID: uuid.New().String(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to cloudinary: %w", err)
	}
	if res.Error.Message != "" {
		return nil, fmt.Errorf("failed to upload to cloudinary: %s", res.Error.Message)
	}

	return &UploadResult{
		Key:         res.PublicID,
		URL:         res.SecureURL,
		FileName:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
	}, nil
}

func (s *CloudinaryService) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: key})
	return err
}
