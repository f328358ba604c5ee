package usecase

import (
	"context"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"github.com/rtcchoir/choirdesk/internal/constant"
	"github.com/rtcchoir/choirdesk/internal/model"

	"github.com/google/uuid"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

// MemberUsecase is the member lifecycle manager. It is the only writer of the
// photo field and keeps the members table and the asset bucket consistent:
// a photo is always saved before it is referenced, and a repository failure
// after a save always triggers a compensating delete of the fresh file.
type MemberUsecase struct {
	Members MemberStore
	Assets  AssetStore
	Log     *zap.Logger
	Config  *koanf.Koanf
}

func NewMemberUsecase(members MemberStore, assets AssetStore, zap *zap.Logger, koanf *koanf.Koanf) *MemberUsecase {
	return &MemberUsecase{
		Members: members,
		Assets:  assets,
		Log:     zap,
		Config:  koanf,
	}
}

// NormalizeStringSet turns a checkbox group into a set of strings regardless
// of how the transport delivered it: one value, many values, or none. Blank
// entries are dropped and duplicates collapse, keeping first-seen order.
func NormalizeStringSet(values []string) []string {
	set := []string{}
	seen := map[string]bool{}
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		set = append(set, v)
	}
	return set
}

func formValue(values map[string][]string, key string) (string, bool) {
	vs, ok := values[key]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

// applyFields merges submitted form values into member. Keys absent from the
// form leave the field unchanged, which gives update its partial semantics.
func applyFields(member *model.Member, values map[string][]string) error {
	scalars := map[string]*string{
		"fullName":           &member.FullName,
		"gender":             &member.Gender,
		"status":             &member.Status,
		"part":               &member.Part,
		"zone":               &member.Zone,
		"area":               &member.Area,
		"parish":             &member.Parish,
		"parishAddress":      &member.ParishAddress,
		"residentialAddress": &member.ResidentialAddress,
		"stateOfOrigin":      &member.StateOfOrigin,
		"homeTown":           &member.HomeTown,
		"occupation":         &member.Occupation,
		"phoneNo":            &member.PhoneNo,
	}

	for key, target := range scalars {
		if v, ok := formValue(values, key); ok {
			*target = strings.TrimSpace(v)
		}
	}

	if v, ok := formValue(values, "joinYear"); ok {
		v = strings.TrimSpace(v)
		if v == "" {
			member.JoinYear = 0
		} else {
			year, err := strconv.Atoi(v)
			if err != nil {
				return &model.ValidationError{
					Code:    constant.ERR_VALIDATION_CODE,
					Message: "Join year must be a number",
					Param:   "joinYear",
				}
			}
			member.JoinYear = year
		}
	}

	if vs, ok := values["position"]; ok {
		member.Position = NormalizeStringSet(vs)
	}
	if vs, ok := values["instruments"]; ok {
		member.Instruments = NormalizeStringSet(vs)
	}

	return nil
}

func parseMemberId(idParam string) (uuid.UUID, error) {
	id, err := uuid.Parse(idParam)
	if err != nil {
		return uuid.Nil, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Invalid member id",
			Param:   "id",
		}
	}
	return id, nil
}

// compensate removes a freshly saved photo after a repository failure, so the
// failed request leaves no file behind.
func (usecase *MemberUsecase) compensate(ctx context.Context, filename string) {
	if filename == "" {
		return
	}
	if err := usecase.Assets.Delete(ctx, filename); err != nil {
		usecase.Log.Error("compensating photo delete failed, file is orphaned until the next sweep",
			zap.String("filename", filename), zap.Error(err))
	}
}

// Register creates a member from a registration submission. The photo, when
// present, is saved before the record is written; a record never references a
// file that does not exist yet.
func (usecase *MemberUsecase) Register(ctx context.Context, values map[string][]string, photo *multipart.FileHeader) (model.Member, error) {
	filename := ""
	if photo != nil && photo.Size > 0 {
		var err error
		filename, err = usecase.Assets.Save(ctx, photo)
		if err != nil {
			return model.Member{}, err
		}
	}

	member := model.Member{
		Id:          uuid.New(),
		Photo:       filename,
		Position:    []string{},
		Instruments: []string{},
		CreatedAt:   time.Now().UTC(),
	}

	if err := applyFields(&member, values); err != nil {
		usecase.compensate(ctx, filename)
		return model.Member{}, err
	}

	if err := usecase.Members.Create(ctx, member); err != nil {
		usecase.compensate(ctx, filename)
		return model.Member{}, err
	}

	usecase.Members.InvalidateZoneCache(ctx)

	return member, nil
}

// Update merges submitted fields into an existing record, optionally replacing
// the photo. Ordering: save the new file, persist the record, then delete the
// old file. The old file is never removed before the replacement is durable,
// and the record never points at a file that was not written.
func (usecase *MemberUsecase) Update(ctx context.Context, idParam string, values map[string][]string, photo *multipart.FileHeader) (model.Member, error) {
	id, err := parseMemberId(idParam)
	if err != nil {
		return model.Member{}, err
	}

	member, err := usecase.Members.GetById(ctx, id)
	if err != nil {
		return model.Member{}, err
	}

	oldFile := member.Photo
	newFile := ""
	if photo != nil && photo.Size > 0 {
		newFile, err = usecase.Assets.Save(ctx, photo)
		if err != nil {
			return model.Member{}, err
		}
	}

	if err := applyFields(&member, values); err != nil {
		usecase.compensate(ctx, newFile)
		return model.Member{}, err
	}

	if newFile != "" {
		member.Photo = newFile
	}

	if err := usecase.Members.Update(ctx, member); err != nil {
		usecase.compensate(ctx, newFile)
		return model.Member{}, err
	}

	// The record is consistent from here on; losing this delete only leaves
	// an orphan for the reconciler.
	if newFile != "" && oldFile != "" && oldFile != newFile {
		if err := usecase.Assets.Delete(ctx, oldFile); err != nil {
			usecase.Log.Warn("replaced photo could not be deleted",
				zap.String("filename", oldFile), zap.Error(err))
		}
	}

	usecase.Members.InvalidateZoneCache(ctx)

	return member, nil
}

// Delete removes the record first, then the photo file best-effort. A failed
// file delete is logged and left to the reconciler.
func (usecase *MemberUsecase) Delete(ctx context.Context, idParam string) error {
	id, err := parseMemberId(idParam)
	if err != nil {
		return err
	}

	member, err := usecase.Members.GetById(ctx, id)
	if err != nil {
		return err
	}

	removed, err := usecase.Members.Delete(ctx, id)
	if err != nil {
		return err
	}

	if !removed {
		// Deleted concurrently between the load and the delete.
		return &model.ValidationError{
			Code:    constant.ERR_NOT_FOUND_ERROR,
			Message: "Member not found",
			Param:   "id",
		}
	}

	if member.Photo != "" {
		if err := usecase.Assets.Delete(ctx, member.Photo); err != nil {
			usecase.Log.Warn("photo of deleted member could not be removed",
				zap.String("filename", member.Photo), zap.Error(err))
		}
	}

	usecase.Members.InvalidateZoneCache(ctx)

	return nil
}

func (usecase *MemberUsecase) GetById(ctx context.Context, idParam string) (model.Member, error) {
	id, err := parseMemberId(idParam)
	if err != nil {
		return model.Member{}, err
	}

	return usecase.Members.GetById(ctx, id)
}

// Paginate derives the pagination envelope for a 1-based page over total rows.
func Paginate(page int, limit int, total int) model.Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return model.Pagination{
		CurrentPage:  page,
		TotalPages:   totalPages,
		TotalMembers: total,
		HasNext:      page < totalPages,
		HasPrev:      page > 1,
	}
}

func (usecase *MemberUsecase) List(ctx context.Context, page int, limit int) (model.MemberListResponse, error) {
	response := model.MemberListResponse{}

	if page < 1 {
		page = constant.DEFAULT_PAGE
	}
	if limit < 1 {
		limit = constant.DEFAULT_LIMIT
	}
	if limit > constant.MAX_LIMIT {
		return response, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Limit is exceeded max limit: " + strconv.Itoa(constant.MAX_LIMIT),
			Param:   "limit",
		}
	}

	members, err := usecase.Members.List(ctx, (page-1)*limit, limit)
	if err != nil {
		return response, err
	}

	total, err := usecase.Members.Count(ctx)
	if err != nil {
		return response, err
	}

	response.Members = members
	response.Pagination = Paginate(page, limit, total)

	return response, nil
}

func (usecase *MemberUsecase) ListAll(ctx context.Context) ([]model.Member, error) {
	return usecase.Members.ListAllByName(ctx)
}

// Search is the capped query-parameter variant returning a flat array.
func (usecase *MemberUsecase) Search(ctx context.Context, term string) ([]model.Member, error) {
	return usecase.Members.Search(ctx, term, constant.SEARCH_RESULT_CAP)
}

// SearchAll is the uncapped path-parameter variant with the wrapped response
// shape, kept for backward compatibility with older dashboard builds.
func (usecase *MemberUsecase) SearchAll(ctx context.Context, query string) (model.MemberSearchResponse, error) {
	members, err := usecase.Members.Search(ctx, query, 0)
	if err != nil {
		return model.MemberSearchResponse{}, err
	}

	return model.MemberSearchResponse{
		Success: true,
		Members: members,
		Total:   len(members),
	}, nil
}

func (usecase *MemberUsecase) Zones(ctx context.Context) ([]string, error) {
	return usecase.Members.DistinctZones(ctx)
}

// GetUpload streams a stored photo. Filenames are opaque generated keys, so
// anything that looks like a path is rejected outright.
func (usecase *MemberUsecase) GetUpload(ctx context.Context, filename string) (model.AssetContent, error) {
	if filename == "" || strings.ContainsAny(filename, "/\\") || strings.Contains(filename, "..") {
		return model.AssetContent{}, &model.ValidationError{
			Code:    constant.ERR_NOT_FOUND_ERROR,
			Message: "File not found",
			Param:   "filename",
		}
	}

	return usecase.Assets.Get(ctx, filename)
}
