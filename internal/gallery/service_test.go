package gallery

import (
	"context"
	"encoding/base64"
	"fmt"
	"photo-server/internal/auth"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func createTestOwner(t *testing.T) int64 {
	hashedPassword, err := auth.HashPassword("secretpassword")
	require.NoError(t, err)

	email := fmt.Sprintf("owner-%s@example.com", uuid.NewString())
	user, err := testStore.CreateUser(context.Background(), email, hashedPassword)
	require.NoError(t, err)
	return user.ID
}

func TestUploadAndList(t *testing.T) {
	ownerID := createTestOwner(t)
	payload := []byte("0123456789")

	image, err := testService.Upload(context.Background(), ownerID, "cat.png", "image/png", payload)
	require.NoError(t, err)
	require.Len(t, image.ID, IDLength)
	require.Equal(t, ownerID, image.OwnerID)
	require.False(t, image.UploadedAt.IsZero())

	images, err := testService.List(context.Background(), ownerID)
	require.NoError(t, err)
	require.Len(t, images, 1)
	require.Equal(t, "cat.png", images[0].Filename)
	require.Equal(t, "image/png", images[0].ContentType)

	decoded, err := base64.StdEncoding.DecodeString(images[0].ImageData)
	require.NoError(t, err)
	require.Equal(t, payload, decoded)
}

func TestList_OtherOwnersImagesNeverAppear(t *testing.T) {
	ownerA := createTestOwner(t)
	ownerB := createTestOwner(t)

	_, err := testService.Upload(context.Background(), ownerA, "private.png", "image/png", []byte("a"))
	require.NoError(t, err)

	imagesB, err := testService.List(context.Background(), ownerB)
	require.NoError(t, err)
	require.Empty(t, imagesB)
}

func TestList_NewestFirstAcrossInterleavedUploads(t *testing.T) {
	ownerID := createTestOwner(t)

	names := []string{"first.png", "second.png", "third.png", "fourth.png"}
	for _, name := range names {
		_, err := testService.Upload(context.Background(), ownerID, name, "image/png", []byte(name))
		require.NoError(t, err)
	}

	images, err := testService.List(context.Background(), ownerID)
	require.NoError(t, err)
	require.Len(t, images, len(names))
	for i := 1; i < len(images); i++ {
		require.False(t, images[i].UploadedAt.After(images[i-1].UploadedAt),
			"images must be sorted by uploaded_at descending")
	}
	require.Equal(t, "fourth.png", images[0].Filename)
}

func TestDelete_MissingImageIsNotFoundForAnyRequester(t *testing.T) {
	ownerID := createTestOwner(t)

	err := testService.Delete(context.Background(), "zzzzzzzzzzzzzzzzzzzzz", ownerID)
	require.ErrorIs(t, err, ErrImageNotFound)

	// A different requester sees the same answer; the miss is reported
	// before ownership is ever considered.
	err = testService.Delete(context.Background(), "zzzzzzzzzzzzzzzzzzzzz", ownerID+1)
	require.ErrorIs(t, err, ErrImageNotFound)
}

func TestDelete_NonOwnerIsForbiddenAndImageSurvives(t *testing.T) {
	ownerID := createTestOwner(t)
	intruderID := createTestOwner(t)

	image, err := testService.Upload(context.Background(), ownerID, "guarded.png", "image/png", []byte("x"))
	require.NoError(t, err)

	err = testService.Delete(context.Background(), image.ID, intruderID)
	require.ErrorIs(t, err, ErrNotOwner)

	images, err := testService.List(context.Background(), ownerID)
	require.NoError(t, err)
	require.Len(t, images, 1)
	require.Equal(t, image.ID, images[0].ID)
}

func TestDelete_OwnerSucceeds(t *testing.T) {
	ownerID := createTestOwner(t)

	image, err := testService.Upload(context.Background(), ownerID, "temp.png", "image/png", []byte("x"))
	require.NoError(t, err)

	err = testService.Delete(context.Background(), image.ID, ownerID)
	require.NoError(t, err)

	images, err := testService.List(context.Background(), ownerID)
	require.NoError(t, err)
	require.Empty(t, images)
}

func TestSaveGenerated_NoOwnerIsNoOp(t *testing.T) {
	image, err := testService.SaveGenerated(context.Background(), nil, "a red fox", "image/png", []byte("x"))
	require.NoError(t, err)
	require.Nil(t, image)
}

func TestSaveGenerated_WithOwner(t *testing.T) {
	ownerID := createTestOwner(t)

	image, err := testService.SaveGenerated(context.Background(), &ownerID, "a red fox", "image/png", []byte("fox-bytes"))
	require.NoError(t, err)
	require.NotNil(t, image)
	require.Equal(t, "Generated: a red fox...", image.Filename)

	images, err := testService.List(context.Background(), ownerID)
	require.NoError(t, err)
	require.Len(t, images, 1)
	require.Equal(t, image.ID, images[0].ID)
}

func TestGeneratedFilename_TruncatesLongPrompts(t *testing.T) {
	long := strings.Repeat("a very long prompt ", 10)
	name := GeneratedFilename(long)

	require.True(t, strings.HasPrefix(name, "Generated: "))
	require.True(t, strings.HasSuffix(name, "..."))
	require.Equal(t, "Generated: "+string([]rune(long)[:50])+"...", name)

	short := GeneratedFilename("tiny")
	require.Equal(t, "Generated: tiny...", short)
}
