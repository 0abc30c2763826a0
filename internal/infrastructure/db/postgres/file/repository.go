package file

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"fileshare-api/internal/domain/file"
	"fileshare-api/internal/infrastructure/db/postgres"
)

const (
	defaultListLimit = 100
	maxListLimit     = 1000
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type Repository struct {
	db postgres.DB
}

func NewRepository(db postgres.DB) file.Repository {
	return &Repository{db: db}
}

func (r *Repository) FetchByID(ctx context.Context, id uuid.UUID) (*file.File, error) {
	return r.fetchOne(ctx, SelectFileByID, id.String())
}

func (r *Repository) FetchByOwnerAndID(ctx context.Context, ownerID, id uuid.UUID) (*file.File, error) {
	return r.fetchOne(ctx, SelectFileByOwnerAndID, id.String(), ownerID.String())
}

func (r *Repository) FetchPublicByID(ctx context.Context, id uuid.UUID) (*file.File, error) {
	return r.fetchOne(ctx, SelectPublicFileByID, id.String())
}

func (r *Repository) FetchByPublicToken(ctx context.Context, token string) (*file.File, error) {
	return r.fetchOne(ctx, SelectFileByPublicToken, token)
}

func (r *Repository) FetchByOwnerAndPath(ctx context.Context, ownerID uuid.UUID, path string) (*file.File, error) {
	return r.fetchOne(ctx, SelectFileByOwnerAndPath, ownerID.String(), path)
}

func (r *Repository) FetchOwnerFiles(ctx context.Context, ownerID uuid.UUID, f file.ListFilter) (file.Files, error) {
	sqlStr, args, err := ownerFilesQuery(ownerID, f).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build owner files query: %w", err)
	}

	return r.fetchMany(ctx, sqlStr, args...)
}

func (r *Repository) FetchSharedWith(ctx context.Context, email string) (file.Files, error) {
	return r.fetchMany(ctx, SelectFilesSharedWith, email)
}

func (r *Repository) TotalSize(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, SelectTotalSize, ownerID.String()).Scan(&total); err != nil {
		return 0, err
	}

	return total, nil
}

// CreateFile inserts the record. A positive quota is enforced inside a
// transaction that holds the owner's users row, so concurrent inserts for the
// same owner see each other's sizes.
func (r *Repository) CreateFile(ctx context.Context, req *file.File, quota int64) (*file.File, error) {
	if quota <= 0 {
		return insertFile(ctx, r.db, req)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}

	f, err := createWithinQuota(ctx, tx, req, quota)
	if err != nil {
		_ = tx.Rollback(ctx)
		return nil, err
	}
	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}

	return f, nil
}

func createWithinQuota(ctx context.Context, tx pgx.Tx, req *file.File, quota int64) (*file.File, error) {
	owner := req.OwnerID.String()
	if _, err := tx.Exec(ctx, LockOwnerForQuota, owner); err != nil {
		return nil, err
	}

	var used int64
	if err := tx.QueryRow(ctx, SelectTotalSize, owner).Scan(&used); err != nil {
		return nil, err
	}
	if used+req.SizeBytes > quota {
		return nil, file.ErrQuotaExceeded
	}

	return insertFile(ctx, tx, req)
}

func insertFile(ctx context.Context, q rowQuerier, req *file.File) (*file.File, error) {
	f, err := scanOne(q.QueryRow(ctx, InsertFile,
		req.OwnerID.String(), req.Name, req.StoragePath, req.ContentType, req.SizeBytes,
	))
	if err != nil {
		if postgres.IsPgUniqueViolation(err) {
			return nil, file.ErrPathExists
		}
		return nil, err
	}

	return f, nil
}

func (r *Repository) RenameFile(ctx context.Context, ownerID, id uuid.UUID, name string) (*file.File, error) {
	return r.fetchOne(ctx, RenameFileByOwner, id.String(), ownerID.String(), name)
}

func (r *Repository) DeleteFile(ctx context.Context, ownerID, id uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, DeleteFileByOwner, id.String(), ownerID.String())
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

func (r *Repository) EnablePublicLink(ctx context.Context, ownerID, id uuid.UUID, candidateToken string) (*file.File, error) {
	return r.tokenWrite(ctx, EnablePublicLinkByOwner, id.String(), ownerID.String(), candidateToken)
}

func (r *Repository) DisablePublicLink(ctx context.Context, ownerID, id uuid.UUID) (*file.File, error) {
	return r.fetchOne(ctx, DisablePublicLinkByOwner, id.String(), ownerID.String())
}

func (r *Repository) RotateShareToken(ctx context.Context, ownerID, id uuid.UUID, token string) (*file.File, error) {
	return r.tokenWrite(ctx, RotateShareTokenByOwner, id.String(), ownerID.String(), token)
}

func (r *Repository) tokenWrite(ctx context.Context, query string, args ...any) (*file.File, error) {
	f, err := r.fetchOne(ctx, query, args...)
	if err != nil {
		if postgres.IsPgUniqueViolation(err) {
			return nil, file.ErrTokenCollision
		}
		return nil, err
	}

	return f, nil
}

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *Repository) fetchOne(ctx context.Context, query string, args ...any) (*file.File, error) {
	return scanOne(r.db.QueryRow(ctx, query, args...))
}

func scanOne(row pgx.Row) (*file.File, error) {
	m := new(File)
	err := row.Scan(
		&m.ID,
		&m.OwnerID,
		&m.Name,
		&m.StoragePath,
		&m.ContentType,
		&m.SizeBytes,
		&m.IsPublic,
		&m.ShareToken,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return fromDBModel(m)
}

func (r *Repository) fetchMany(ctx context.Context, query string, args ...any) (file.Files, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ms Files
	for rows.Next() {
		m := new(File)
		if err = rows.Scan(
			&m.ID,
			&m.OwnerID,
			&m.Name,
			&m.StoragePath,
			&m.ContentType,
			&m.SizeBytes,
			&m.IsPublic,
			&m.ShareToken,
			&m.CreatedAt,
		); err != nil {
			return nil, err
		}
		ms = append(ms, m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return fromDBModels(ms)
}

func ownerFilesQuery(ownerID uuid.UUID, f file.ListFilter) sq.SelectBuilder {
	sb := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select(columns).
		From("files").
		Where(sq.Eq{"owner_id": ownerID.String()})

	if t := strings.TrimSpace(f.Type); t != "" {
		sb = sb.Where(sq.ILike{"content_type": likeEscaper.Replace(t) + "%"})
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		sb = sb.Where(sq.ILike{"name": "%" + likeEscaper.Replace(s) + "%"})
	}

	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	return sb.OrderBy("created_at DESC").Limit(uint64(limit))
}
