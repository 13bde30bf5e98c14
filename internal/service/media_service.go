package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/thenextevent/site-api/pkg/cloudinary"
)

// imageHost is the external image host surface MediaService needs.
type imageHost interface {
	SignUpload(publicID string) cloudinary.UploadSignature
	Destroy(ctx context.Context, publicID string) (bool, error)
	ListImages(ctx context.Context) ([]cloudinary.Image, error)
}

// MediaService fronts the hosted image account. Uploads go directly from the
// browser to the host; the API only signs them and manages deletions.
type MediaService struct {
	host imageHost
}

// NewMediaService creates a new MediaService.
func NewMediaService(host imageHost) *MediaService {
	return &MediaService{host: host}
}

// SignUpload authorizes one direct browser upload.
func (s *MediaService) SignUpload(publicID string) cloudinary.UploadSignature {
	return s.host.SignUpload(publicID)
}

// Delete removes a hosted image. Host errors are reported as an unsuccessful
// deletion rather than failing the request.
func (s *MediaService) Delete(ctx context.Context, publicID string) bool {
	ok, err := s.host.Destroy(ctx, publicID)
	if err != nil {
		log.Warn().Err(err).Str("public_id", publicID).Msg("Image deletion failed")
		return false
	}
	return ok
}

// List returns the hosted images, or an empty list when the host is
// unreachable.
func (s *MediaService) List(ctx context.Context) []cloudinary.Image {
	images, err := s.host.ListImages(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Image listing failed")
		return []cloudinary.Image{}
	}
	if images == nil {
		images = []cloudinary.Image{}
	}
	return images
}
