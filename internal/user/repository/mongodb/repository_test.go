package mongodb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestDocToUser(t *testing.T) {
	id := bson.NewObjectID()
	video1 := bson.NewObjectID()
	video2 := bson.NewObjectID()
	now := time.Now()

	doc := &userDoc{
		ID:           id,
		Username:     "nova",
		Email:        "nova@example.com",
		FullName:     "Nova Hart",
		Avatar:       "https://cdn.example.com/avatar.png",
		CoverImage:   "https://cdn.example.com/cover.png",
		PassHash:     "$2a$10$hash",
		RefreshToken: "refresh-token",
		WatchHistory: []bson.ObjectID{video1, video2},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	user := docToUser(doc)

	assert.Equal(t, id.Hex(), user.ID)
	assert.Equal(t, "nova", user.Username)
	assert.Equal(t, "nova@example.com", user.Email)
	assert.Equal(t, "Nova Hart", user.FullName)
	assert.Equal(t, "$2a$10$hash", user.PasswordHash)
	assert.Equal(t, "refresh-token", user.RefreshToken)
	assert.Equal(t, []string{video1.Hex(), video2.Hex()}, user.WatchHistory)
	assert.Equal(t, now, user.CreatedAt)
}

func TestDocToUser_EmptyWatchHistory(t *testing.T) {
	doc := &userDoc{ID: bson.NewObjectID()}

	user := docToUser(doc)

	assert.NotNil(t, user.WatchHistory)
	assert.Empty(t, user.WatchHistory)
}
