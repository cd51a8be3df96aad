package services

import (
	"context"
	"fmt"
	"time"

	"github.com/YossiBenZaken/DatingApp/internal/apperrors"
	"github.com/YossiBenZaken/DatingApp/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// PhotoRepository is the store contract the photo service depends on
type PhotoRepository interface {
	Create(ctx context.Context, photo *models.Photo) error
	GetByID(ctx context.Context, id string) (*models.Photo, error)
	ListForUser(ctx context.Context, userID string) ([]*models.Photo, error)
	SetMain(ctx context.Context, userID, photoID string) error
	Delete(ctx context.Context, id string) error
}

// PhotoService handles photo-related business logic. Blob storage lives in
// S3; clients upload directly with a pre-signed URL and this service only
// keeps the catalog rows.
type PhotoService struct {
	photos   PhotoRepository
	s3Client *s3.Client
	s3Bucket string
	s3Region string
}

// NewPhotoService creates a new photo service
func NewPhotoService(
	photos PhotoRepository,
	awsRegion, s3Bucket, accessKey, secretKey, endpoint string,
) (*PhotoService, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(awsRegion),
	}
	if accessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return &PhotoService{
		photos:   photos,
		s3Client: s3Client,
		s3Bucket: s3Bucket,
		s3Region: awsRegion,
	}, nil
}

// UploadResponse represents the response with pre-signed URL
type UploadResponse struct {
	UploadURL string `json:"upload_url"`
	PhotoID   string `json:"photo_id"`
	ExpiresIn int    `json:"expires_in"`
}

// GetPreSignedURL generates a pre-signed URL for uploading a photo and
// records the catalog row. The first photo a user uploads becomes their
// main photo.
func (s *PhotoService) GetPreSignedURL(ctx context.Context, userID, contentType, description string) (*UploadResponse, error) {
	photoID := uuid.New().String()
	s3Key := fmt.Sprintf("%s/%s.jpg", userID, photoID)

	presignClient := s3.NewPresignClient(s.s3Client)
	request, err := presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Bucket),
		Key:         aws.String(s3Key),
		ContentType: aws.String(contentType),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = 5 * time.Minute
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate pre-signed URL: %w", err)
	}

	existing, err := s.photos.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	s3URL := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.s3Bucket, s.s3Region, s3Key)
	photo := &models.Photo{
		ID:          photoID,
		UserID:      userID,
		URL:         s3URL,
		Description: description,
		DateAdded:   time.Now(),
		IsMain:      len(existing) == 0,
	}

	if err := s.photos.Create(ctx, photo); err != nil {
		return nil, err
	}

	return &UploadResponse{
		UploadURL: request.URL,
		PhotoID:   photoID,
		ExpiresIn: 300,
	}, nil
}

// GetPhotosForUser retrieves the photo catalog for a user
func (s *PhotoService) GetPhotosForUser(ctx context.Context, userID string) ([]*models.Photo, error) {
	return s.photos.ListForUser(ctx, userID)
}

// SetMainPhoto makes the given photo the user's main photo
func (s *PhotoService) SetMainPhoto(ctx context.Context, userID, photoID string) error {
	return s.photos.SetMain(ctx, userID, photoID)
}

// DeletePhoto removes one of the caller's photos. The main photo cannot be
// deleted; switch main first.
func (s *PhotoService) DeletePhoto(ctx context.Context, userID, photoID string) error {
	photo, err := s.photos.GetByID(ctx, photoID)
	if err != nil {
		return err
	}
	if photo.UserID != userID {
		return apperrors.Forbidden("you can only delete your own photos")
	}
	if photo.IsMain {
		return apperrors.InvalidArg("you cannot delete your main photo")
	}
	return s.photos.Delete(ctx, photoID)
}
