package grant

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"fileshare-api/internal/domain/grant"
	"fileshare-api/internal/infrastructure/db/postgres"
)

type Repository struct {
	db postgres.DB
}

func NewRepository(db postgres.DB) grant.Repository {
	return &Repository{db: db}
}

func (r *Repository) FetchGrant(ctx context.Context, fileID uuid.UUID, email string) (*grant.Grant, error) {
	m := new(Grant)
	err := r.db.QueryRow(ctx, SelectGrant, fileID.String(), email).Scan(
		&m.FileID,
		&m.Email,
		&m.GrantedBy,
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

func (r *Repository) FetchFileGrants(ctx context.Context, fileID, grantedBy uuid.UUID) (grant.Grants, error) {
	rows, err := r.db.Query(ctx, SelectFileGrants, fileID.String(), grantedBy.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ms Grants
	for rows.Next() {
		m := new(Grant)
		if err = rows.Scan(
			&m.FileID,
			&m.Email,
			&m.GrantedBy,
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

func (r *Repository) CreateGrant(ctx context.Context, req *grant.Grant) (*grant.Grant, error) {
	res := new(createResult)
	err := r.db.QueryRow(ctx, InsertGrantIfOwner,
		req.FileID.String(), req.Email, req.GrantedBy.String(),
	).Scan(
		&res.Owned,
		&res.FileID,
		&res.Email,
		&res.GrantedBy,
		&res.CreatedAt,
	)
	if err != nil {
		if postgres.IsPgUniqueViolation(err) {
			return nil, grant.ErrAlreadyExists
		}
		return nil, err
	}

	switch {
	case !res.Owned:
		return nil, grant.ErrFileNotOwned
	case res.FileID == nil:
		return nil, grant.ErrAlreadyExists
	}

	return fromDBModel(fromCreateResult(res))
}

func (r *Repository) DeleteGrant(ctx context.Context, fileID uuid.UUID, email string, grantedBy uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, DeleteGrantByOwner, fileID.String(), email, grantedBy.String())
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}
