package database

import (
	"context"
	"encoding/base64"
	"testing"
	"time"

	"github.com/jaevor/go-nanoid"
	"github.com/stretchr/testify/require"
)

func createTestImage(t *testing.T, ownerID int64, filename string, uploadedAt time.Time) string {
	generateID, err := nanoid.Standard(21)
	require.NoError(t, err)
	id := generateID()

	_, err = testStore.CreateImage(context.Background(), CreateImageParams{
		ID:          id,
		OwnerID:     ownerID,
		Filename:    filename,
		ContentType: "image/png",
		ImageData:   base64.StdEncoding.EncodeToString([]byte("not really a png")),
		UploadedAt:  uploadedAt,
	})
	require.NoError(t, err)
	return id
}

func TestListImagesByOwner_NewestFirst(t *testing.T) {
	_, ownerID := createRandomUser(t)
	base := time.Now().UTC().Truncate(time.Millisecond)

	createTestImage(t, ownerID, "oldest.png", base.Add(-2*time.Hour))
	createTestImage(t, ownerID, "newest.png", base)
	createTestImage(t, ownerID, "middle.png", base.Add(-1*time.Hour))

	images, err := testStore.ListImagesByOwner(context.Background(), ownerID)
	require.NoError(t, err)
	require.Len(t, images, 3)
	require.Equal(t, "newest.png", images[0].Filename)
	require.Equal(t, "middle.png", images[1].Filename)
	require.Equal(t, "oldest.png", images[2].Filename)
	for i := 1; i < len(images); i++ {
		require.False(t, images[i].UploadedAt.After(images[i-1].UploadedAt))
	}
}

func TestListImagesByOwner_IsolatedPerOwner(t *testing.T) {
	_, ownerA := createRandomUser(t)
	_, ownerB := createRandomUser(t)

	idA := createTestImage(t, ownerA, "a.png", time.Now().UTC())

	imagesB, err := testStore.ListImagesByOwner(context.Background(), ownerB)
	require.NoError(t, err)
	require.Empty(t, imagesB)

	imagesA, err := testStore.ListImagesByOwner(context.Background(), ownerA)
	require.NoError(t, err)
	require.Len(t, imagesA, 1)
	require.Equal(t, idA, imagesA[0].ID)
}

func TestListImagesByOwner_UnknownOwnerIsEmptyNotNil(t *testing.T) {
	images, err := testStore.ListImagesByOwner(context.Background(), 999999999)
	require.NoError(t, err)
	require.NotNil(t, images)
	require.Empty(t, images)
}

func TestGetImageByID(t *testing.T) {
	_, ownerID := createRandomUser(t)
	id := createTestImage(t, ownerID, "lookup.png", time.Now().UTC())

	image, err := testStore.GetImageByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, image)
	require.Equal(t, ownerID, image.OwnerID)
	require.Equal(t, "lookup.png", image.Filename)

	missing, err := testStore.GetImageByID(context.Background(), "aaaaaaaaaaaaaaaaaaaaa")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestDeleteImage(t *testing.T) {
	_, ownerID := createRandomUser(t)
	id := createTestImage(t, ownerID, "doomed.png", time.Now().UTC())

	deleted, err := testStore.DeleteImage(context.Background(), id)
	require.NoError(t, err)
	require.True(t, deleted)

	exists, err := testStore.ImageExists(context.Background(), id)
	require.NoError(t, err)
	require.False(t, exists)

	deletedAgain, err := testStore.DeleteImage(context.Background(), id)
	require.NoError(t, err)
	require.False(t, deletedAgain)
}
