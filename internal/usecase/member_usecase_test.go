package usecase

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rtcchoir/choirdesk/internal/constant"
	"github.com/rtcchoir/choirdesk/internal/model"
)

func newTestUsecase() (*MemberUsecase, *fakeMemberStore, *fakeAssetStore) {
	members := newFakeMemberStore()
	assets := newFakeAssetStore()
	return NewMemberUsecase(members, assets, zap.NewNop(), nil), members, assets
}

func photoHeader() *multipart.FileHeader {
	return &multipart.FileHeader{Filename: "portrait.jpg", Size: 2048}
}

func TestNormalizeStringSet(t *testing.T) {
	assert.Equal(t, []string{"Soprano"}, NormalizeStringSet([]string{"Soprano"}))
	assert.Equal(t, []string{"Soprano", "Alto"}, NormalizeStringSet([]string{"Soprano", "Alto", "Soprano"}))
	assert.Equal(t, []string{"Tenor"}, NormalizeStringSet([]string{"  Tenor  ", "", "   "}))
	assert.Equal(t, []string{}, NormalizeStringSet(nil))
}

func TestRegisterStoresRecordAndPhoto(t *testing.T) {
	usecase, members, assets := newTestUsecase()
	ctx := context.Background()

	member, err := usecase.Register(ctx, map[string][]string{
		"fullName": {"Ada Obi"},
		"zone":     {"Lagos Mainland"},
		"joinYear": {"2019"},
		"position": {"Soprano", "Soprano", "Choir Secretary"},
	}, photoHeader())
	require.NoError(t, err)

	assert.Equal(t, "Ada Obi", member.FullName)
	assert.Equal(t, 2019, member.JoinYear)
	assert.Equal(t, []string{"Soprano", "Choir Secretary"}, member.Position)
	assert.Equal(t, []string{}, member.Instruments)
	assert.NotEmpty(t, member.Photo)

	stored, err := members.GetById(ctx, member.Id)
	require.NoError(t, err)
	assert.Equal(t, member.Photo, stored.Photo)

	exists, err := assets.Exists(ctx, member.Photo)
	require.NoError(t, err)
	assert.True(t, exists, "photo file must exist once the record references it")

	assert.Equal(t, 1, members.invalidations)
}

func TestRegisterWithoutPhoto(t *testing.T) {
	usecase, _, assets := newTestUsecase()

	member, err := usecase.Register(context.Background(), map[string][]string{
		"fullName": {"Chinedu Eze"},
	}, nil)
	require.NoError(t, err)
	assert.Empty(t, member.Photo)
	assert.Zero(t, assets.saves)
}

func TestRegisterRejectsBadJoinYear(t *testing.T) {
	usecase, members, assets := newTestUsecase()

	_, err := usecase.Register(context.Background(), map[string][]string{
		"fullName": {"Ada Obi"},
		"joinYear": {"nineteen"},
	}, photoHeader())

	var validationErr *model.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, constant.ERR_VALIDATION_CODE, validationErr.Code)
	assert.Equal(t, "joinYear", validationErr.Param)

	// The saved photo must be compensated away, not left behind.
	assert.Empty(t, members.members)
	assert.Empty(t, assets.objects)
}

func TestRegisterCompensatesOnCreateFailure(t *testing.T) {
	usecase, members, assets := newTestUsecase()
	members.failCreate = errStoreDown

	_, err := usecase.Register(context.Background(), map[string][]string{
		"fullName": {"Ada Obi"},
	}, photoHeader())
	require.ErrorIs(t, err, errStoreDown)

	assert.Equal(t, 1, assets.saves)
	assert.Empty(t, assets.objects, "photo saved for a failed create must be deleted")
	assert.Zero(t, members.invalidations)
}

func TestUpdateMergesPartialFields(t *testing.T) {
	usecase, _, _ := newTestUsecase()
	ctx := context.Background()

	created, err := usecase.Register(ctx, map[string][]string{
		"fullName":    {"Ada Obi"},
		"zone":        {"Lagos Mainland"},
		"occupation":  {"Teacher"},
		"instruments": {"Organ"},
	}, nil)
	require.NoError(t, err)

	updated, err := usecase.Update(ctx, created.Id.String(), map[string][]string{
		"occupation": {"Head Teacher"},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "Head Teacher", updated.Occupation)
	assert.Equal(t, "Ada Obi", updated.FullName, "absent keys leave fields unchanged")
	assert.Equal(t, "Lagos Mainland", updated.Zone)
	assert.Equal(t, []string{"Organ"}, updated.Instruments)
}

func TestUpdateReplacesPhotoAndDeletesOld(t *testing.T) {
	usecase, members, assets := newTestUsecase()
	ctx := context.Background()

	created, err := usecase.Register(ctx, map[string][]string{"fullName": {"Ada Obi"}}, photoHeader())
	require.NoError(t, err)
	oldFile := created.Photo

	updated, err := usecase.Update(ctx, created.Id.String(), nil, photoHeader())
	require.NoError(t, err)

	assert.NotEqual(t, oldFile, updated.Photo)

	stored, err := members.GetById(ctx, created.Id)
	require.NoError(t, err)
	assert.Equal(t, updated.Photo, stored.Photo)

	oldExists, _ := assets.Exists(ctx, oldFile)
	newExists, _ := assets.Exists(ctx, updated.Photo)
	assert.False(t, oldExists, "replaced photo must be removed")
	assert.True(t, newExists)
}

func TestUpdateWithoutPhotoKeepsExisting(t *testing.T) {
	usecase, _, assets := newTestUsecase()
	ctx := context.Background()

	created, err := usecase.Register(ctx, map[string][]string{"fullName": {"Ada Obi"}}, photoHeader())
	require.NoError(t, err)

	updated, err := usecase.Update(ctx, created.Id.String(), map[string][]string{
		"part": {"Alto"},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, created.Photo, updated.Photo)
	exists, _ := assets.Exists(ctx, created.Photo)
	assert.True(t, exists)
}

func TestUpdateCompensatesOnRepositoryFailure(t *testing.T) {
	usecase, members, assets := newTestUsecase()
	ctx := context.Background()

	created, err := usecase.Register(ctx, map[string][]string{"fullName": {"Ada Obi"}}, photoHeader())
	require.NoError(t, err)
	oldFile := created.Photo

	members.failUpdate = errStoreDown
	_, err = usecase.Update(ctx, created.Id.String(), nil, photoHeader())
	require.ErrorIs(t, err, errStoreDown)

	// The old photo survives; the fresh one is compensated away.
	oldExists, _ := assets.Exists(ctx, oldFile)
	assert.True(t, oldExists)
	assert.Len(t, assets.objects, 1)

	stored, err := members.GetById(ctx, created.Id)
	require.NoError(t, err)
	assert.Equal(t, oldFile, stored.Photo)
}

func TestUpdateOldDeleteFailureDoesNotSurface(t *testing.T) {
	usecase, members, assets := newTestUsecase()
	ctx := context.Background()

	created, err := usecase.Register(ctx, map[string][]string{"fullName": {"Ada Obi"}}, photoHeader())
	require.NoError(t, err)

	assets.failDelete = errors.New("bucket unreachable")
	updated, err := usecase.Update(ctx, created.Id.String(), nil, photoHeader())
	require.NoError(t, err, "losing the old-file delete must not fail the update")

	stored, err := members.GetById(ctx, created.Id)
	require.NoError(t, err)
	assert.Equal(t, updated.Photo, stored.Photo)
}

func TestUpdateRejectsInvalidId(t *testing.T) {
	usecase, _, _ := newTestUsecase()

	_, err := usecase.Update(context.Background(), "not-a-uuid", nil, nil)

	var validationErr *model.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, constant.ERR_VALIDATION_CODE, validationErr.Code)
}

func TestDeleteRemovesRecordAndPhoto(t *testing.T) {
	usecase, members, assets := newTestUsecase()
	ctx := context.Background()

	created, err := usecase.Register(ctx, map[string][]string{"fullName": {"Ada Obi"}}, photoHeader())
	require.NoError(t, err)

	require.NoError(t, usecase.Delete(ctx, created.Id.String()))

	assert.Empty(t, members.members)
	assert.Empty(t, assets.objects)
}

func TestDeleteUnknownMember(t *testing.T) {
	usecase, _, assets := newTestUsecase()

	err := usecase.Delete(context.Background(), uuid.NewString())

	var validationErr *model.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, constant.ERR_NOT_FOUND_ERROR, validationErr.Code)
	assert.Empty(t, assets.deletes, "a missing record must not touch the bucket")
}

func TestDeletePhotoFailureDoesNotSurface(t *testing.T) {
	usecase, members, assets := newTestUsecase()
	ctx := context.Background()

	created, err := usecase.Register(ctx, map[string][]string{"fullName": {"Ada Obi"}}, photoHeader())
	require.NoError(t, err)

	assets.failDelete = errors.New("bucket unreachable")
	require.NoError(t, usecase.Delete(ctx, created.Id.String()))

	assert.Empty(t, members.members, "the record is gone even when the file lingers")
}

func TestPaginate(t *testing.T) {
	first := Paginate(1, 10, 25)
	assert.Equal(t, 3, first.TotalPages)
	assert.Equal(t, 25, first.TotalMembers)
	assert.True(t, first.HasNext)
	assert.False(t, first.HasPrev)

	last := Paginate(3, 10, 25)
	assert.False(t, last.HasNext)
	assert.True(t, last.HasPrev)

	empty := Paginate(1, 10, 0)
	assert.Equal(t, 0, empty.TotalPages)
	assert.False(t, empty.HasNext)
	assert.False(t, empty.HasPrev)
}

func TestListDefaultsAndLimitCeiling(t *testing.T) {
	usecase, members, _ := newTestUsecase()
	ctx := context.Background()

	base := time.Now().UTC()
	for i := 0; i < 25; i++ {
		require.NoError(t, members.Create(ctx, model.Member{
			Id:        uuid.New(),
			FullName:  "Member",
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}

	response, err := usecase.List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, constant.DEFAULT_PAGE, response.Pagination.CurrentPage)
	assert.Len(t, response.Members, constant.DEFAULT_LIMIT)

	_, err = usecase.List(ctx, 1, constant.MAX_LIMIT+1)
	var validationErr *model.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "limit", validationErr.Param)
}

func TestSearchCapAndSearchAll(t *testing.T) {
	usecase, members, _ := newTestUsecase()
	ctx := context.Background()

	for i := 0; i < constant.SEARCH_RESULT_CAP+10; i++ {
		require.NoError(t, members.Create(ctx, model.Member{
			Id:        uuid.New(),
			FullName:  "Grace Adeyemi",
			CreatedAt: time.Now().UTC(),
		}))
	}

	capped, err := usecase.Search(ctx, "grace")
	require.NoError(t, err)
	assert.Len(t, capped, constant.SEARCH_RESULT_CAP)

	all, err := usecase.SearchAll(ctx, "grace")
	require.NoError(t, err)
	assert.True(t, all.Success)
	assert.Equal(t, constant.SEARCH_RESULT_CAP+10, all.Total)
	assert.Len(t, all.Members, all.Total)
}

func TestGetUploadRejectsPathTraversal(t *testing.T) {
	usecase, _, _ := newTestUsecase()

	for _, filename := range []string{"", "../secrets", "a/b.jpg", `a\b.jpg`, ".."} {
		_, err := usecase.GetUpload(context.Background(), filename)

		var validationErr *model.ValidationError
		require.ErrorAs(t, err, &validationErr, "filename %q", filename)
		assert.Equal(t, constant.ERR_NOT_FOUND_ERROR, validationErr.Code)
	}
}
