package storage

import (
	"context"
	"strings"
	"testing"

	"backend-template/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAvatarKey(t *testing.T) {
	userID := uuid.New()

	key, ct, err := avatarKey(userID, 1024, " Image/PNG ")
	require.NoError(t, err)
	assert.Equal(t, "image/png", ct)
	assert.True(t, strings.HasPrefix(key, "avatars/"+userID.String()+"/"))
	assert.True(t, strings.HasSuffix(key, ".png"))

	key2, _, err := avatarKey(userID, 1024, "image/jpeg")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(key2, ".jpg"))
	assert.NotEqual(t, key, key2)
}

func TestAvatarKey_Rejects(t *testing.T) {
	_, _, err := avatarKey(uuid.New(), MaxAvatarSize+1, "image/png")
	assert.ErrorIs(t, err, ErrFileTooBig)

	_, _, err = avatarKey(uuid.New(), 10, "image/gif")
	assert.ErrorIs(t, err, ErrInvalidFileType)
}

func TestUploadAvatar_ValidatesBeforeContactingServer(t *testing.T) {
	s, err := NewMinIOStorage(utils.MinIOConfig{
		Endpoint:  "127.0.0.1:1",
		AccessKey: "minio",
		SecretKey: "minio123",
		Bucket:    "avatars",
	}, zap.NewNop())
	require.NoError(t, err)

	_, err = s.UploadAvatar(context.Background(), uuid.New(), strings.NewReader("x"), 1, "text/plain")
	assert.ErrorIs(t, err, ErrInvalidFileType)

	assert.NoError(t, s.DeleteAvatar(context.Background(), " "))
}
