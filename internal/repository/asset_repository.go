package repository

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rtcchoir/choirdesk/internal/constant"
	"github.com/rtcchoir/choirdesk/internal/model"
	"github.com/rtcchoir/choirdesk/internal/util"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// AssetRepository owns the photo bucket. Filenames are always generated here;
// the client-supplied name only contributes its extension.
type AssetRepository struct {
	Log      *zap.Logger
	DBObject *minio.Client
	Bucket   string
}

func NewAssetRepository(zap *zap.Logger, minio *minio.Client, bucket string) *AssetRepository {
	return &AssetRepository{
		Log:      zap,
		DBObject: minio,
		Bucket:   bucket,
	}
}

var lastStamp atomic.Int64

// nextStamp returns a strictly increasing millisecond timestamp, so two
// concurrent saves can never observe the same value.
func nextStamp() int64 {
	for {
		now := time.Now().UnixMilli()
		last := lastStamp.Load()
		if now <= last {
			now = last + 1
		}
		if lastStamp.CompareAndSwap(last, now) {
			return now
		}
	}
}

// GenerateAssetFilename builds a collision-resistant object key from a
// monotonic timestamp, a random suffix and the original file extension.
func GenerateAssetFilename(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("%d-%s%s", nextStamp(), suffix, ext)
}

// Save validates the upload and persists it under a freshly generated
// filename. Nothing is written when validation fails.
func (repository *AssetRepository) Save(ctx context.Context, fileHeader *multipart.FileHeader) (string, error) {
	imageFile, imageSize, err := util.ValidateImage(fileHeader, "photo")
	if err != nil {
		return "", err
	}

	filename := GenerateAssetFilename(fileHeader.Filename)

	_, err = repository.DBObject.PutObject(ctx, repository.Bucket, filename, imageFile, imageSize,
		minio.PutObjectOptions{
			ContentType:  fileHeader.Header.Get("Content-Type"),
			CacheControl: "public, max-age=31536000, immutable",
		})
	if err != nil {
		return "", &model.ValidationError{
			Code:    constant.ERR_STORAGE_ERROR_CODE,
			Message: "Failed to store photo: " + err.Error(),
			Param:   "photo",
		}
	}

	return filename, nil
}

// Delete is idempotent: removing a filename that is already gone is a no-op.
func (repository *AssetRepository) Delete(ctx context.Context, filename string) error {
	err := repository.DBObject.RemoveObject(ctx, repository.Bucket, filename, minio.RemoveObjectOptions{})
	if err != nil {
		return err
	}

	return nil
}

func (repository *AssetRepository) Exists(ctx context.Context, filename string) (bool, error) {
	_, err := repository.DBObject.StatObject(ctx, repository.Bucket, filename, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

func (repository *AssetRepository) ListAll(ctx context.Context) ([]model.AssetObject, error) {
	objects := []model.AssetObject{}

	for object := range repository.DBObject.ListObjects(ctx, repository.Bucket, minio.ListObjectsOptions{Recursive: true}) {
		if object.Err != nil {
			return nil, object.Err
		}
		objects = append(objects, model.AssetObject{
			Name:         object.Key,
			Size:         object.Size,
			LastModified: object.LastModified,
		})
	}

	return objects, nil
}

// Get streams one stored photo for the /uploads handler.
func (repository *AssetRepository) Get(ctx context.Context, filename string) (model.AssetContent, error) {
	content := model.AssetContent{}

	object, err := repository.DBObject.GetObject(ctx, repository.Bucket, filename, minio.GetObjectOptions{})
	if err != nil {
		return content, err
	}

	info, err := object.Stat()
	if err != nil {
		_ = object.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return content, &model.ValidationError{
				Code:    constant.ERR_NOT_FOUND_ERROR,
				Message: "File not found",
				Param:   "filename",
			}
		}
		return content, err
	}

	content.Body = object
	content.ContentType = info.ContentType
	content.Size = info.Size

	return content, nil
}
