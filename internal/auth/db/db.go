package db

import (
	"context"

	"github.com/uptrace/bun"

	"ms-attendance/internal/models"
)

type DB struct {
	Bun *bun.DB
}

func (d *DB) GetUserByTokenIdentifier(ctx context.Context, tokenIdentifier string) (*models.User, error) {
	var user models.User
	err := d.Bun.NewSelect().
		Model(&user).
		Where("token_identifier = ?", tokenIdentifier).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *DB) CreateUser(ctx context.Context, user models.User) error {
	_, err := d.Bun.NewInsert().Model(&user).Exec(ctx)
	return err
}

func (d *DB) UpdateUserName(ctx context.Context, id, name string) error {
	_, err := d.Bun.NewUpdate().
		Model((*models.User)(nil)).
		Set("name = ?", name).
		Where("id = ?", id).
		Exec(ctx)
	return err
}
