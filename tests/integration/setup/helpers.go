package setup

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// TruncateAllTables resets the database between tests.
func TruncateAllTables(t *testing.T, db *pgxpool.Pool, ctx context.Context) {
	t.Log("Truncating all database tables...")

	_, err := db.Exec(ctx, "TRUNCATE TABLE members CASCADE")
	require.NoError(t, err, "failed to truncate members table")

	t.Log("All database tables truncated successfully")
}

// CreateTestWebPImage creates a minimal valid WebP image for testing
// This is a 1x1 pixel transparent WebP image in VP8L format
func CreateTestWebPImage(t *testing.T) []byte {
	// Minimal valid WebP VP8L header for a 1x1 transparent image
	// RIFF + WEBP + VP8L chunk
	webpData := []byte{
		// "RIFF"
		0x52, 0x49, 0x46, 0x46,
		// File size (little endian)
		0x1A, 0x00, 0x00, 0x00,
		// "WEBP"
		0x57, 0x45, 0x42, 0x50,
		// "VP8L"
		0x56, 0x50, 0x38, 0x4C,
		// Chunk size (little endian)
		0x18, 0x00, 0x00, 0x00,
		// VP8L data: 1x1 image, no alpha, version 1
		0x2F, 0x07, 0x10, 0x58,
		// Rest of VP8L data (green pixel)
		0x58, 0x10, 0x00, 0x00,
	}

	return webpData
}

// CreateMemberForm builds a multipart registration submission. photoData may
// be nil for a photo-less registration; repeat values in fields become a
// checkbox group.
func CreateMemberForm(t *testing.T, fields map[string][]string, photoName string, photoData []byte) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for key, values := range fields {
		for _, value := range values {
			require.NoError(t, writer.WriteField(key, value), "failed to write form field %s", key)
		}
	}

	if photoData != nil {
		part, err := writer.CreateFormFile("photo", photoName)
		require.NoError(t, err, "failed to create photo field")

		_, err = part.Write(photoData)
		require.NoError(t, err, "failed to write photo data")
	}

	require.NoError(t, writer.Close(), "failed to close multipart writer")

	return body, writer.FormDataContentType()
}

// CreateMultipartRequest creates a test request with a multipart form body.
func CreateMultipartRequest(method, url string, body *bytes.Buffer, contentType string) *http.Request {
	req := httptest.NewRequest(method, url, body)
	req.Header.Set("Content-Type", contentType)
	return req
}

// ParseJSONResponse helper to parse JSON response body
func ParseJSONResponse(t *testing.T, resp *http.Response) map[string]interface{} {
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")
	require.NotEmpty(t, body, "response body should not be empty")

	var result map[string]interface{}
	err = json.Unmarshal(body, &result)
	require.NoError(t, err, "failed to parse JSON response")

	return result
}

// GetMemberFromResponse extracts the member object from a register/update
// response body.
func GetMemberFromResponse(t *testing.T, result map[string]interface{}) map[string]interface{} {
	member, ok := result["member"].(map[string]interface{})
	require.True(t, ok, "response member should be an object")
	return member
}
