package database

import (
	"context"
	"errors"
	"photo-server/internal/models"
	"time"

	"github.com/jackc/pgx/v5"
)

type CreateImageParams struct {
	ID          string
	OwnerID     int64
	Filename    string
	ContentType string
	ImageData   string
	UploadedAt  time.Time
}

func (q *Queries) CreateImage(ctx context.Context, arg CreateImageParams) (*models.Image, error) {
	query := `
		INSERT INTO images (id, owner_id, filename, content_type, image_data, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, owner_id, filename, content_type, image_data, uploaded_at
	`
	row := q.db.QueryRow(ctx, query,
		arg.ID,
		arg.OwnerID,
		arg.Filename,
		arg.ContentType,
		arg.ImageData,
		arg.UploadedAt,
	)

	var image models.Image
	err := row.Scan(
		&image.ID,
		&image.OwnerID,
		&image.Filename,
		&image.ContentType,
		&image.ImageData,
		&image.UploadedAt,
	)
	if err != nil {
		return nil, err
	}

	return &image, nil
}

// ListImagesByOwner returns the owner's gallery newest first. uploaded_at is
// the sole sort key; id breaks ties so the order stays stable.
func (q *Queries) ListImagesByOwner(ctx context.Context, ownerID int64) ([]models.Image, error) {
	query := `
		SELECT id, owner_id, filename, content_type, image_data, uploaded_at
		FROM images
		WHERE owner_id = $1
		ORDER BY uploaded_at DESC, id
	`
	rows, err := q.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []models.Image
	for rows.Next() {
		var image models.Image
		err := rows.Scan(
			&image.ID,
			&image.OwnerID,
			&image.Filename,
			&image.ContentType,
			&image.ImageData,
			&image.UploadedAt,
		)
		if err != nil {
			return nil, err
		}
		images = append(images, image)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if images == nil {
		return []models.Image{}, nil
	}

	return images, nil
}

func (q *Queries) GetImageByID(ctx context.Context, id string) (*models.Image, error) {
	query := `
		SELECT id, owner_id, filename, content_type, image_data, uploaded_at
		FROM images
		WHERE id = $1
	`
	var image models.Image

	err := q.db.QueryRow(ctx, query, id).Scan(
		&image.ID,
		&image.OwnerID,
		&image.Filename,
		&image.ContentType,
		&image.ImageData,
		&image.UploadedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &image, nil
}

func (q *Queries) DeleteImage(ctx context.Context, id string) (bool, error) {
	query := `DELETE FROM images WHERE id = $1`
	res, err := q.db.Exec(ctx, query, id)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

func (q *Queries) ImageExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	query := "SELECT EXISTS(SELECT 1 FROM images WHERE id = $1)"
	err := q.db.QueryRow(ctx, query, id).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}
