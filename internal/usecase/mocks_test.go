package usecase

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rtcchoir/choirdesk/internal/constant"
	"github.com/rtcchoir/choirdesk/internal/model"
)

type fakeMemberStore struct {
	members map[uuid.UUID]model.Member

	failCreate error
	failUpdate error

	invalidations int
}

func newFakeMemberStore() *fakeMemberStore {
	return &fakeMemberStore{members: map[uuid.UUID]model.Member{}}
}

func (s *fakeMemberStore) Create(ctx context.Context, member model.Member) error {
	if s.failCreate != nil {
		return s.failCreate
	}
	s.members[member.Id] = member
	return nil
}

func (s *fakeMemberStore) GetById(ctx context.Context, id uuid.UUID) (model.Member, error) {
	member, ok := s.members[id]
	if !ok {
		return model.Member{}, &model.ValidationError{
			Code:    constant.ERR_NOT_FOUND_ERROR,
			Message: "Member not found",
			Param:   "id",
		}
	}
	return member, nil
}

func (s *fakeMemberStore) Update(ctx context.Context, member model.Member) error {
	if s.failUpdate != nil {
		return s.failUpdate
	}
	if _, ok := s.members[member.Id]; !ok {
		return &model.ValidationError{
			Code:    constant.ERR_NOT_FOUND_ERROR,
			Message: "Member not found",
			Param:   "id",
		}
	}
	s.members[member.Id] = member
	return nil
}

func (s *fakeMemberStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	if _, ok := s.members[id]; !ok {
		return false, nil
	}
	delete(s.members, id)
	return true, nil
}

func (s *fakeMemberStore) sorted() []model.Member {
	all := make([]model.Member, 0, len(s.members))
	for _, m := range s.members {
		all = append(all, m)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	return all
}

func (s *fakeMemberStore) List(ctx context.Context, offset int, limit int) ([]model.Member, error) {
	all := s.sorted()
	if offset >= len(all) {
		return []model.Member{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (s *fakeMemberStore) Count(ctx context.Context) (int, error) {
	return len(s.members), nil
}

func (s *fakeMemberStore) ListAllByName(ctx context.Context) ([]model.Member, error) {
	all := s.sorted()
	sort.Slice(all, func(i, j int) bool {
		return all[i].FullName < all[j].FullName
	})
	return all, nil
}

func (s *fakeMemberStore) Search(ctx context.Context, term string, limit int) ([]model.Member, error) {
	term = strings.ToLower(term)
	matched := []model.Member{}
	for _, m := range s.sorted() {
		haystack := strings.ToLower(m.FullName + " " + m.PhoneNo + " " + m.Parish + " " + m.Zone + " " + m.Area)
		if strings.Contains(haystack, term) {
			matched = append(matched, m)
		}
		if limit > 0 && len(matched) == limit {
			break
		}
	}
	return matched, nil
}

func (s *fakeMemberStore) DistinctZones(ctx context.Context) ([]string, error) {
	seen := map[string]bool{}
	zones := []string{}
	for _, m := range s.members {
		zone := strings.TrimSpace(m.Zone)
		if zone == "" || seen[zone] {
			continue
		}
		seen[zone] = true
		zones = append(zones, zone)
	}
	sort.Strings(zones)
	return zones, nil
}

func (s *fakeMemberStore) InvalidateZoneCache(ctx context.Context) {
	s.invalidations++
}

func (s *fakeMemberStore) ListPhotoFilenames(ctx context.Context) ([]string, error) {
	filenames := []string{}
	for _, m := range s.members {
		if m.Photo != "" {
			filenames = append(filenames, m.Photo)
		}
	}
	return filenames, nil
}

type fakeAssetStore struct {
	objects map[string]time.Time

	saves      int
	deletes    []string
	failSave   error
	failDelete error
}

func newFakeAssetStore() *fakeAssetStore {
	return &fakeAssetStore{objects: map[string]time.Time{}}
}

func (s *fakeAssetStore) put(filename string, modified time.Time) {
	s.objects[filename] = modified
}

func (s *fakeAssetStore) Save(ctx context.Context, fileHeader *multipart.FileHeader) (string, error) {
	if s.failSave != nil {
		return "", s.failSave
	}
	s.saves++
	filename := fmt.Sprintf("%d-%06d.jpg", time.Now().UnixMilli(), s.saves)
	s.objects[filename] = time.Now()
	return filename, nil
}

func (s *fakeAssetStore) Delete(ctx context.Context, filename string) error {
	s.deletes = append(s.deletes, filename)
	if s.failDelete != nil {
		return s.failDelete
	}
	delete(s.objects, filename)
	return nil
}

func (s *fakeAssetStore) Exists(ctx context.Context, filename string) (bool, error) {
	_, ok := s.objects[filename]
	return ok, nil
}

func (s *fakeAssetStore) ListAll(ctx context.Context) ([]model.AssetObject, error) {
	objects := make([]model.AssetObject, 0, len(s.objects))
	for name, modified := range s.objects {
		objects = append(objects, model.AssetObject{Name: name, LastModified: modified})
	}
	sort.Slice(objects, func(i, j int) bool { return objects[i].Name < objects[j].Name })
	return objects, nil
}

func (s *fakeAssetStore) Get(ctx context.Context, filename string) (model.AssetContent, error) {
	if _, ok := s.objects[filename]; !ok {
		return model.AssetContent{}, &model.ValidationError{
			Code:    constant.ERR_NOT_FOUND_ERROR,
			Message: "File not found",
			Param:   "filename",
		}
	}
	return model.AssetContent{ContentType: "image/jpeg"}, nil
}

var errStoreDown = errors.New("store unavailable")
