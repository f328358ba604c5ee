package util

import (
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rtcchoir/choirdesk/internal/constant"
	"github.com/rtcchoir/choirdesk/internal/model"
)

func fileHeaderFor(filename string, contentType string, size int64) *multipart.FileHeader {
	header := textproto.MIMEHeader{}
	header.Set("Content-Type", contentType)
	return &multipart.FileHeader{
		Filename: filename,
		Header:   header,
		Size:     size,
	}
}

func TestValidateImageRejectsOversizedFile(t *testing.T) {
	_, _, err := ValidateImage(fileHeaderFor("big.jpg", "image/jpeg", constant.MAX_FILE_SIZE+1), "photo")

	var validationErr *model.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, constant.ERR_PAYLOAD_TOO_LARGE_CODE, validationErr.Code)
	assert.Equal(t, "photo", validationErr.Param)
}

func TestValidateImageRejectsUnknownContentType(t *testing.T) {
	_, _, err := ValidateImage(fileHeaderFor("resume.pdf", "application/pdf", 1024), "photo")

	var validationErr *model.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, constant.ERR_UNSUPPORTED_MEDIA_TYPE_CODE, validationErr.Code)
}

func TestValidateImageRejectsMismatchedExtension(t *testing.T) {
	_, _, err := ValidateImage(fileHeaderFor("script.exe", "image/png", 1024), "photo")

	var validationErr *model.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, constant.ERR_UNSUPPORTED_MEDIA_TYPE_CODE, validationErr.Code)
}
