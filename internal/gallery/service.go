package gallery

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"photo-server/internal/database"
	"photo-server/internal/models"
	"time"

	"github.com/jaevor/go-nanoid"
)

// IDLength is the length of every image document id; handlers reject ids of
// any other length before touching the store.
const IDLength = 21

// promptPrefixLen bounds how much of a generation prompt becomes a filename.
const promptPrefixLen = 50

var ErrImageNotFound = errors.New("image not found")
var ErrNotOwner = errors.New("requester does not own this image")

// Service is the ownership-checked CRUD layer over the image collection.
type Service struct {
	store *database.Store
}

func NewService(store *database.Store) *Service {
	return &Service{store: store}
}

func (s *Service) generateUniqueID(ctx context.Context) (string, error) {
	maxRetries := 10

	generateID, err := nanoid.Standard(IDLength)
	if err != nil {
		return "", fmt.Errorf("failed to initialize nanoid generator: %w", err)
	}

	for i := 0; i < maxRetries; i++ {
		id := generateID()
		exists, err := s.store.ImageExists(ctx, id)
		if err != nil {
			return "", fmt.Errorf("failed to check for image existence: %w", err)
		}
		if !exists {
			return id, nil
		}
	}

	return "", fmt.Errorf("failed to generate a unique ID after %d attempts", maxRetries)
}

// Upload stores the payload as base64 text under a fresh id, stamped with the
// current UTC time. No size or type validation is performed.
func (s *Service) Upload(ctx context.Context, ownerID int64, filename, contentType string, data []byte) (*models.Image, error) {
	imageID, err := s.generateUniqueID(ctx)
	if err != nil {
		return nil, err
	}

	params := database.CreateImageParams{
		ID:          imageID,
		OwnerID:     ownerID,
		Filename:    filename,
		ContentType: contentType,
		ImageData:   base64.StdEncoding.EncodeToString(data),
		UploadedAt:  time.Now().UTC(),
	}

	image, err := s.store.CreateImage(ctx, params)
	if err != nil {
		return nil, err
	}

	s.logEvent(ctx, ownerID, "image_uploaded", map[string]string{
		"image_id": image.ID,
		"filename": image.Filename,
	})

	return image, nil
}

// List returns all images owned by ownerID, newest first. An unknown owner
// yields an empty slice, not an error.
func (s *Service) List(ctx context.Context, ownerID int64) ([]models.Image, error) {
	return s.store.ListImagesByOwner(ctx, ownerID)
}

// Delete removes an image after verifying ownership. The existence check runs
// first so a missing id is always ErrImageNotFound, never ErrNotOwner.
func (s *Service) Delete(ctx context.Context, imageID string, requesterID int64) error {
	image, err := s.store.GetImageByID(ctx, imageID)
	if err != nil {
		return err
	}
	if image == nil {
		return ErrImageNotFound
	}

	if image.OwnerID != requesterID {
		return ErrNotOwner
	}

	deleted, err := s.store.DeleteImage(ctx, imageID)
	if err != nil {
		return err
	}
	if !deleted {
		// Lost a race with a concurrent delete of the same document.
		return ErrImageNotFound
	}

	s.logEvent(ctx, requesterID, "image_deleted", map[string]string{
		"image_id": imageID,
		"filename": image.Filename,
	})

	return nil
}

// SaveGenerated persists an AI-generated image for ownerID, naming it after
// the prompt. A nil ownerID is a no-op; the caller reports "not saved".
func (s *Service) SaveGenerated(ctx context.Context, ownerID *int64, prompt, contentType string, data []byte) (*models.Image, error) {
	if ownerID == nil {
		return nil, nil
	}

	imageID, err := s.generateUniqueID(ctx)
	if err != nil {
		return nil, err
	}

	params := database.CreateImageParams{
		ID:          imageID,
		OwnerID:     *ownerID,
		Filename:    GeneratedFilename(prompt),
		ContentType: contentType,
		ImageData:   base64.StdEncoding.EncodeToString(data),
		UploadedAt:  time.Now().UTC(),
	}

	image, err := s.store.CreateImage(ctx, params)
	if err != nil {
		return nil, err
	}

	s.logEvent(ctx, *ownerID, "image_generated", map[string]string{
		"image_id": image.ID,
		"prompt":   prompt,
	})

	return image, nil
}

// GeneratedFilename derives a display name from a generation prompt,
// truncated to a bounded prefix with an ellipsis marker.
func GeneratedFilename(prompt string) string {
	runes := []rune(prompt)
	if len(runes) > promptPrefixLen {
		runes = runes[:promptPrefixLen]
	}
	return fmt.Sprintf("Generated: %s...", string(runes))
}

// The journal is advisory; a failed write never fails the operation itself.
func (s *Service) logEvent(ctx context.Context, userID int64, eventType string, payload interface{}) {
	if err := s.store.LogEvent(ctx, userID, eventType, payload); err != nil {
		log.Printf("WARN: failed to journal %s event for user %d: %v", eventType, userID, err)
	}
}
