package store

import (
	"context"
	"errors"

	"escriba/internal/situacao/models"
	"escriba/pkg/platform/sentinel"
)

// Defaults are the situações a fresh installation starts with.
var Defaults = []models.Situacao{
	{ID: "SIT_ATIVO", Nome: "Ativo"},
	{ID: "SIT_INATIVO", Nome: "Inativo"},
}

// Creator is the store subset seeding needs.
type Creator interface {
	Create(ctx context.Context, situacao *models.Situacao) error
}

// SeedDefaults inserts Defaults, skipping rows that already exist. It returns
// the number of rows inserted.
func SeedDefaults(ctx context.Context, store Creator) (int, error) {
	inserted := 0
	for _, d := range Defaults {
		err := store.Create(ctx, &d)
		switch {
		case err == nil:
			inserted++
		case errors.Is(err, sentinel.ErrAlreadyUsed):
		default:
			return inserted, err
		}
	}
	return inserted, nil
}
