package usecase

import (
	"context"
	"mime/multipart"

	"github.com/rtcchoir/choirdesk/internal/model"

	"github.com/google/uuid"
)

// MemberStore is the persistence contract the lifecycle manager and the
// reconciler work against. Implemented by repository.MemberRepository.
type MemberStore interface {
	Create(ctx context.Context, member model.Member) error
	GetById(ctx context.Context, id uuid.UUID) (model.Member, error)
	Update(ctx context.Context, member model.Member) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context, offset int, limit int) ([]model.Member, error)
	Count(ctx context.Context) (int, error)
	ListAllByName(ctx context.Context) ([]model.Member, error)
	Search(ctx context.Context, term string, limit int) ([]model.Member, error)
	DistinctZones(ctx context.Context) ([]string, error)
	InvalidateZoneCache(ctx context.Context)
	ListPhotoFilenames(ctx context.Context) ([]string, error)
}

// AssetStore is the photo storage contract. Implemented by
// repository.AssetRepository.
type AssetStore interface {
	Save(ctx context.Context, fileHeader *multipart.FileHeader) (string, error)
	Delete(ctx context.Context, filename string) error
	Exists(ctx context.Context, filename string) (bool, error)
	ListAll(ctx context.Context) ([]model.AssetObject, error)
	Get(ctx context.Context, filename string) (model.AssetContent, error)
}
