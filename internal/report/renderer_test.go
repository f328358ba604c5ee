package report

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rtcchoir/choirdesk/internal/model"
)

func sampleMembers() []model.Member {
	return []model.Member{
		{
			Id:          uuid.New(),
			FullName:    "Ada Obi",
			Gender:      "Female",
			Status:      "Married",
			Part:        "Soprano",
			Zone:        "Lagos Mainland",
			Parish:      "St. Mary",
			PhoneNo:     "08012345678",
			JoinYear:    2019,
			Position:    []string{"Choir Secretary", "Soloist"},
			Instruments: []string{"Organ"},
			CreatedAt:   time.Date(2024, 3, 14, 10, 0, 0, 0, time.UTC),
		},
		{
			Id:        uuid.New(),
			FullName:  "Chinedu Eze",
			Part:      "Tenor",
			CreatedAt: time.Date(2024, 5, 2, 9, 30, 0, 0, time.UTC),
		},
	}
}

func TestRenderCSV(t *testing.T) {
	renderer := NewRenderer(zap.NewNop())

	data, err := renderer.RenderCSV(sampleMembers())
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, csvHeader, records[0])

	assert.Equal(t, "Ada Obi", records[1][0])
	assert.Equal(t, "2019", records[1][13])
	assert.Equal(t, "Choir Secretary; Soloist", records[1][14])
	assert.Equal(t, "Organ", records[1][15])
	assert.Equal(t, "2024-03-14", records[1][16])

	// Zero join year renders empty, not "0".
	assert.Equal(t, "", records[2][13])
	assert.Equal(t, "", records[2][14])
}

func TestRenderCSVEmptyList(t *testing.T) {
	renderer := NewRenderer(zap.NewNop())

	data, err := renderer.RenderCSV(nil)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1, "header only")
}

func TestRenderPDF(t *testing.T) {
	renderer := NewRenderer(zap.NewNop())

	data, err := renderer.RenderPDF(sampleMembers())
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
	assert.Greater(t, len(data), 500)
}
