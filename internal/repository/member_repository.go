package repository

import (
	"context"
	"errors"
	"time"

	"github.com/rtcchoir/choirdesk/internal/constant"
	"github.com/rtcchoir/choirdesk/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const zoneCacheKey = "members:zones"

const memberColumns = `id, full_name, gender, status, part, zone, area, parish, parish_address,
	residential_address, state_of_origin, home_town, occupation, phone_no, join_year,
	photo, position, instruments, created_at`

type MemberRepository struct {
	Log     *zap.Logger
	DB      *pgxpool.Pool
	DBCache *redis.Client
}

func NewMemberRepository(zap *zap.Logger, db *pgxpool.Pool, dbCache *redis.Client) *MemberRepository {
	return &MemberRepository{
		Log:     zap,
		DB:      db,
		DBCache: dbCache,
	}
}

func scanMember(row pgx.Row) (model.Member, error) {
	var m model.Member
	err := row.Scan(&m.Id, &m.FullName, &m.Gender, &m.Status, &m.Part, &m.Zone, &m.Area,
		&m.Parish, &m.ParishAddress, &m.ResidentialAddress, &m.StateOfOrigin, &m.HomeTown,
		&m.Occupation, &m.PhoneNo, &m.JoinYear, &m.Photo, &m.Position, &m.Instruments, &m.CreatedAt)
	return m, err
}

func collectMembers(rows pgx.Rows) ([]model.Member, error) {
	defer rows.Close()

	members := []model.Member{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}

	return members, rows.Err()
}

func (repository *MemberRepository) Create(ctx context.Context, member model.Member) error {
	query := `INSERT INTO members (id, full_name, gender, status, part, zone, area, parish, parish_address,
		residential_address, state_of_origin, home_town, occupation, phone_no, join_year,
		photo, position, instruments, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)`

	_, err := repository.DB.Exec(ctx, query, member.Id, member.FullName, member.Gender, member.Status,
		member.Part, member.Zone, member.Area, member.Parish, member.ParishAddress,
		member.ResidentialAddress, member.StateOfOrigin, member.HomeTown, member.Occupation,
		member.PhoneNo, member.JoinYear, member.Photo, member.Position, member.Instruments, member.CreatedAt)
	if err != nil {
		return err
	}

	return nil
}

func (repository *MemberRepository) GetById(ctx context.Context, id uuid.UUID) (model.Member, error) {
	query := "SELECT " + memberColumns + " FROM members WHERE id=$1 LIMIT 1"

	member, err := scanMember(repository.DB.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return member, &model.ValidationError{
				Code:    constant.ERR_NOT_FOUND_ERROR,
				Message: "Member not found",
				Param:   "id",
			}
		}
		return member, err
	}

	return member, nil
}

// Update replaces every mutable column; partial-update semantics live in the
// usecase, which merges submitted fields into the loaded record first.
// created_at is never touched.
func (repository *MemberRepository) Update(ctx context.Context, member model.Member) error {
	query := `UPDATE members SET full_name=$1, gender=$2, status=$3, part=$4, zone=$5, area=$6,
		parish=$7, parish_address=$8, residential_address=$9, state_of_origin=$10, home_town=$11,
		occupation=$12, phone_no=$13, join_year=$14, photo=$15, position=$16, instruments=$17
		WHERE id=$18`

	tag, err := repository.DB.Exec(ctx, query, member.FullName, member.Gender, member.Status,
		member.Part, member.Zone, member.Area, member.Parish, member.ParishAddress,
		member.ResidentialAddress, member.StateOfOrigin, member.HomeTown, member.Occupation,
		member.PhoneNo, member.JoinYear, member.Photo, member.Position, member.Instruments, member.Id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return &model.ValidationError{
			Code:    constant.ERR_NOT_FOUND_ERROR,
			Message: "Member not found",
			Param:   "id",
		}
	}

	return nil
}

func (repository *MemberRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	query := "DELETE FROM members WHERE id=$1"

	tag, err := repository.DB.Exec(ctx, query, id)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

func (repository *MemberRepository) List(ctx context.Context, offset int, limit int) ([]model.Member, error) {
	query := "SELECT " + memberColumns + " FROM members ORDER BY created_at DESC OFFSET $1 LIMIT $2"

	rows, err := repository.DB.Query(ctx, query, offset, limit)
	if err != nil {
		return nil, err
	}

	return collectMembers(rows)
}

func (repository *MemberRepository) Count(ctx context.Context) (int, error) {
	var total int
	err := repository.DB.QueryRow(ctx, "SELECT COUNT(*) FROM members").Scan(&total)
	if err != nil {
		return 0, err
	}

	return total, nil
}

func (repository *MemberRepository) ListAllByName(ctx context.Context) ([]model.Member, error) {
	query := "SELECT " + memberColumns + " FROM members ORDER BY full_name ASC"

	rows, err := repository.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}

	return collectMembers(rows)
}

// Search runs a case-insensitive substring match across the identifying
// columns. limit <= 0 means uncapped.
func (repository *MemberRepository) Search(ctx context.Context, term string, limit int) ([]model.Member, error) {
	query := "SELECT " + memberColumns + ` FROM members
		WHERE full_name ILIKE $1 OR phone_no ILIKE $1 OR parish ILIKE $1 OR zone ILIKE $1 OR area ILIKE $1
		ORDER BY created_at DESC`

	pattern := "%" + term + "%"

	var rows pgx.Rows
	var err error
	if limit > 0 {
		rows, err = repository.DB.Query(ctx, query+" LIMIT $2", pattern, limit)
	} else {
		rows, err = repository.DB.Query(ctx, query, pattern)
	}
	if err != nil {
		return nil, err
	}

	return collectMembers(rows)
}

// DistinctZones serves the zone-filter dropdown. The value set changes rarely,
// so it is cached in Redis; a cache miss or a cache failure falls back to the
// table scan.
func (repository *MemberRepository) DistinctZones(ctx context.Context) ([]string, error) {
	cached, err := repository.DBCache.SMembers(ctx, zoneCacheKey).Result()
	if err == nil && len(cached) > 0 {
		return cached, nil
	}
	if err != nil && err != redis.Nil {
		repository.Log.Warn("zone cache read failed, falling back to database", zap.Error(err))
	}

	query := "SELECT DISTINCT zone FROM members WHERE zone IS NOT NULL AND btrim(zone) <> '' ORDER BY zone ASC"

	rows, err := repository.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	zones := []string{}
	for rows.Next() {
		var zone string
		if err := rows.Scan(&zone); err != nil {
			return nil, err
		}
		zones = append(zones, zone)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(zones) > 0 {
		members := make([]interface{}, len(zones))
		for i, z := range zones {
			members[i] = z
		}
		if err := repository.DBCache.SAdd(ctx, zoneCacheKey, members...).Err(); err != nil {
			repository.Log.Warn("zone cache write failed", zap.Error(err))
		} else if err := repository.DBCache.Expire(ctx, zoneCacheKey, 10*time.Minute).Err(); err != nil {
			repository.Log.Warn("zone cache expire failed", zap.Error(err))
		}
	}

	return zones, nil
}

// InvalidateZoneCache drops the cached zone set after any member write.
func (repository *MemberRepository) InvalidateZoneCache(ctx context.Context) {
	if err := repository.DBCache.Del(ctx, zoneCacheKey).Err(); err != nil {
		repository.Log.Warn("zone cache invalidation failed", zap.Error(err))
	}
}

// ListPhotoFilenames returns every non-empty photo reference. The reconciler
// treats this set as the source of truth for which asset files are live.
func (repository *MemberRepository) ListPhotoFilenames(ctx context.Context) ([]string, error) {
	query := "SELECT photo FROM members WHERE photo <> ''"

	rows, err := repository.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	filenames := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		filenames = append(filenames, name)
	}

	return filenames, rows.Err()
}
