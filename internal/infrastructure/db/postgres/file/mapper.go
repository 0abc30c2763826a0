package file

import (
	"fmt"

	"github.com/google/uuid"

	domain "fileshare-api/internal/domain/file"
)

func fromDBModel(model *File) (*domain.File, error) {
	id, err := uuid.Parse(model.ID)
	if err != nil {
		return nil, fmt.Errorf("file id %q: %w", model.ID, err)
	}
	ownerID, err := uuid.Parse(model.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("file owner id %q: %w", model.OwnerID, err)
	}

	return &domain.File{
		ID:          id,
		OwnerID:     ownerID,
		Name:        model.Name,
		StoragePath: model.StoragePath,
		ContentType: model.ContentType,
		SizeBytes:   model.SizeBytes,
		IsPublic:    model.IsPublic,
		ShareToken:  model.ShareToken,
		CreatedAt:   model.CreatedAt,
	}, nil
}

func fromDBModels(models Files) (domain.Files, error) {
	fs := make(domain.Files, len(models))
	for idx, m := range models {
		f, err := fromDBModel(m)
		if err != nil {
			return nil, err
		}
		fs[idx] = f
	}

	return fs, nil
}
