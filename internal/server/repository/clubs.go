package repository

import (
	"context"
	"database/sql"

	"github.com/IvanChernomyrdin/clubhouse/internal/server/models"
	serr "github.com/IvanChernomyrdin/clubhouse/internal/shared/errors"
)

// ClubsRepository — справочник клубов. Веб-приложение только читает,
// записи создаёт clubctl.
type ClubsRepository struct {
	db *sql.DB
}

func NewClubsRepository(db *sql.DB) *ClubsRepository {
	return &ClubsRepository{db: db}
}

// Create добавляет клуб. Имя уникально без учёта регистра.
func (r *ClubsRepository) Create(ctx context.Context, name, description string) (models.Club, error) {
	c := models.Club{Name: name, Description: description}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO clubs (name, description)
		 VALUES ($1,$2)
		 RETURNING id, created_at`,
		name, description,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return models.Club{}, mapErr("insert club", err, serr.ErrInternal)
	}
	return c, nil
}

func (r *ClubsRepository) GetByID(ctx context.Context, id int64) (models.Club, error) {
	var c models.Club
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, created_at FROM clubs WHERE id=$1`,
		id,
	).Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt)
	if err != nil {
		return models.Club{}, mapErr("select club", err, serr.ErrClubNotFound)
	}
	return c, nil
}

// GetByName ищет клуб по имени без учёта регистра.
func (r *ClubsRepository) GetByName(ctx context.Context, name string) (models.Club, error) {
	var c models.Club
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, created_at FROM clubs WHERE lower(name)=lower($1)`,
		name,
	).Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt)
	if err != nil {
		return models.Club{}, mapErr("select club by name", err, serr.ErrClubNotFound)
	}
	return c, nil
}

func (r *ClubsRepository) List(ctx context.Context) ([]models.Club, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, created_at FROM clubs ORDER BY name`,
	)
	if err != nil {
		return nil, mapErr("list clubs", err, serr.ErrInternal)
	}
	defer rows.Close()

	return scanClubs(rows)
}

func scanClubs(rows *sql.Rows) ([]models.Club, error) {
	clubs := make([]models.Club, 0)
	for rows.Next() {
		var c models.Club
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt); err != nil {
			return nil, mapErr("scan club", err, serr.ErrInternal)
		}
		clubs = append(clubs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr("iterate clubs", err, serr.ErrInternal)
	}
	return clubs, nil
}
