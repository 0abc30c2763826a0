package grant

import (
	"fmt"

	"github.com/google/uuid"

	domain "fileshare-api/internal/domain/grant"
)

func fromDBModel(model *Grant) (*domain.Grant, error) {
	fileID, err := uuid.Parse(model.FileID)
	if err != nil {
		return nil, fmt.Errorf("grant file id %q: %w", model.FileID, err)
	}
	by, err := uuid.Parse(model.GrantedBy)
	if err != nil {
		return nil, fmt.Errorf("grant shared_by %q: %w", model.GrantedBy, err)
	}

	return &domain.Grant{
		FileID:    fileID,
		Email:     model.Email,
		GrantedBy: by,
		CreatedAt: model.CreatedAt,
	}, nil
}

func fromDBModels(models Grants) (domain.Grants, error) {
	gs := make(domain.Grants, len(models))
	for idx, m := range models {
		g, err := fromDBModel(m)
		if err != nil {
			return nil, err
		}
		gs[idx] = g
	}

	return gs, nil
}

func fromCreateResult(res *createResult) *Grant {
	return &Grant{
		FileID:    *res.FileID,
		Email:     *res.Email,
		GrantedBy: *res.GrantedBy,
		CreatedAt: *res.CreatedAt,
	}
}
