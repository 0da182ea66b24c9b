package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pageza/despensa/backend/internal/types"
)

// UploadURLExpiry is how long a presigned upload URL stays valid
const UploadURLExpiry = 15 * time.Minute

// Presigner issues presigned upload URLs for an object store
type Presigner interface {
	GeneratePresignedUploadURL(ctx context.Context, objectKey, contentType string, expiration time.Duration) (string, error)
	PublicURL(objectKey string) string
}

var uploadPrefixes = map[string]string{
	"avatar":  "avatars",
	"product": "products",
	"recipe":  "recipes",
}

var uploadExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// MediaService hands out direct-to-S3 upload URLs so image bytes never pass through the API
type MediaService struct {
	presigner Presigner
	log       logrus.FieldLogger
	now       func() time.Time
}

var _ IMediaService = (*MediaService)(nil)

func NewMediaService(presigner Presigner, log logrus.FieldLogger) *MediaService {
	return &MediaService{presigner: presigner, log: log, now: time.Now}
}

func (s *MediaService) CreateUploadURL(ctx context.Context, userID uuid.UUID, req *types.UploadURLRequest) (*types.UploadURLResponse, error) {
	prefix, ok := uploadPrefixes[req.Kind]
	if !ok {
		return nil, NewValidationError("kind", "must be one of avatar, product, recipe")
	}
	ext, ok := uploadExtensions[req.ContentType]
	if !ok {
		return nil, NewValidationError("content_type", "must be one of image/jpeg, image/png, image/webp")
	}

	key := fmt.Sprintf("%s/%s/%s.%s", prefix, userID, uuid.New(), ext)
	url, err := s.presigner.GeneratePresignedUploadURL(ctx, key, req.ContentType, UploadURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to presign upload: %w", err)
	}

	s.log.WithFields(logrus.Fields{"user_id": userID, "object_key": key}).Debug("Upload URL issued")

	return &types.UploadURLResponse{
		UploadURL: url,
		ObjectKey: key,
		PublicURL: s.presigner.PublicURL(key),
		ExpiresAt: s.now().UTC().Add(UploadURLExpiry),
	}, nil
}
