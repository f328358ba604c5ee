package util

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/rtcchoir/choirdesk/internal/constant"
	"github.com/rtcchoir/choirdesk/internal/model"

	"github.com/h2non/bimg"
)

var AllowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

var allowedImageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

// ValidateImage rejects oversized or non-image uploads before anything is
// persisted. The returned reader holds the original bytes, untouched.
func ValidateImage(fileHeader *multipart.FileHeader, fieldName string) (*bytes.Reader, int64, error) {
	if fileHeader.Size > constant.MAX_FILE_SIZE {
		return nil, 0, &model.ValidationError{
			Code:    constant.ERR_PAYLOAD_TOO_LARGE_CODE,
			Message: fmt.Sprintf("Image size exceeded %dMB limit", constant.MAX_FILE_SIZE/(1024*1024)),
			Param:   fieldName,
		}
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !AllowedImageTypes[contentType] {
		return nil, 0, &model.ValidationError{
			Code:    constant.ERR_UNSUPPORTED_MEDIA_TYPE_CODE,
			Message: fmt.Sprintf("Invalid file type: %s. allowed types: jpeg, jpg, png, gif, webp", contentType),
			Param:   fieldName,
		}
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedImageExts[ext] {
		return nil, 0, &model.ValidationError{
			Code:    constant.ERR_UNSUPPORTED_MEDIA_TYPE_CODE,
			Message: fmt.Sprintf("Invalid file extension: %s", ext),
			Param:   fieldName,
		}
	}

	src, err := fileHeader.Open()
	if err != nil {
		return nil, 0, err
	}
	defer src.Close()

	buffer := new(bytes.Buffer)
	_, err = buffer.ReadFrom(src)
	if err != nil {
		return nil, 0, err
	}

	// The declared content type is not trusted on its own; the payload must
	// actually decode as an image.
	if _, err := bimg.NewImage(buffer.Bytes()).Size(); err != nil {
		return nil, 0, &model.ValidationError{
			Code:    constant.ERR_UNSUPPORTED_MEDIA_TYPE_CODE,
			Message: "Failed to process image. File may be corrupted or not a valid image",
			Param:   fieldName,
		}
	}

	return bytes.NewReader(buffer.Bytes()), int64(buffer.Len()), nil
}
