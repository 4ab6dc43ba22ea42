package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/playtube/playtube-api/internal/apperror"
	"github.com/playtube/playtube-api/internal/user/domain"
)

type userDoc struct {
	ID           bson.ObjectID   `bson:"_id"`
	Username     string          `bson:"username"`
	Email        string          `bson:"email"`
	FullName     string          `bson:"full_name"`
	Avatar       string          `bson:"avatar"`
	CoverImage   string          `bson:"cover_image,omitempty"`
	PassHash     string          `bson:"pass_hash"`
	RefreshToken string          `bson:"refresh_token,omitempty"`
	WatchHistory []bson.ObjectID `bson:"watch_history,omitempty"`
	CreatedAt    time.Time       `bson:"created_at"`
	UpdatedAt    time.Time       `bson:"updated_at"`
}

type subscriptionDoc struct {
	ID         bson.ObjectID `bson:"_id"`
	Subscriber bson.ObjectID `bson:"subscriber"`
	Channel    bson.ObjectID `bson:"channel"`
	CreatedAt  time.Time     `bson:"created_at"`
}

// UserRepository is the MongoDB-backed credential store.
type UserRepository struct {
	users *mongo.Collection
}

// NewUserRepository sets up the users collection and its unique indexes.
func NewUserRepository(ctx context.Context, db *mongo.Database) (*UserRepository, error) {
	const op = "repository.mongodb.NewUserRepository"

	r := &UserRepository{users: db.Collection("users")}

	for _, field := range []string{"username", "email"} {
		_, err := r.users.Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true),
		})
		if err != nil {
			return nil, fmt.Errorf("%s: users.%s index: %w", op, field, err)
		}
	}

	return r, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	const op = "repository.mongodb.Create"

	now := time.Now()
	doc := userDoc{
		ID:           bson.NewObjectID(),
		Username:     user.Username,
		Email:        user.Email,
		FullName:     user.FullName,
		Avatar:       user.Avatar,
		CoverImage:   user.CoverImage,
		PassHash:     user.PasswordHash,
		RefreshToken: user.RefreshToken,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperror.Conflict("user with email or username already exists")
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	user.ID = doc.ID.Hex()
	user.CreatedAt = doc.CreatedAt
	user.UpdatedAt = doc.UpdatedAt

	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		// A malformed id can only come from a forged token; treat as absent.
		return nil, nil
	}
	return r.findOne(ctx, bson.D{{Key: "_id", Value: oid}})
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.D{{Key: "username", Value: username}})
}

func (r *UserRepository) GetByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error) {
	filter := bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "username", Value: username}},
		bson.D{{Key: "email", Value: email}},
	}}}
	return r.findOne(ctx, filter)
}

func (r *UserRepository) UpdateRefreshToken(ctx context.Context, id, refreshToken string) error {
	return r.setFields(ctx, id, bson.D{{Key: "refresh_token", Value: refreshToken}})
}

func (r *UserRepository) UpdatePasswordHash(ctx context.Context, id, passwordHash string) error {
	return r.setFields(ctx, id, bson.D{{Key: "pass_hash", Value: passwordHash}})
}

func (r *UserRepository) UpdateAccountDetails(ctx context.Context, id, fullName, email string) error {
	err := r.setFields(ctx, id, bson.D{
		{Key: "full_name", Value: fullName},
		{Key: "email", Value: email},
	})
	if err != nil && mongo.IsDuplicateKeyError(err) {
		return apperror.Conflict("email already in use")
	}
	return err
}

func (r *UserRepository) UpdateAvatar(ctx context.Context, id, url string) error {
	return r.setFields(ctx, id, bson.D{{Key: "avatar", Value: url}})
}

func (r *UserRepository) UpdateCoverImage(ctx context.Context, id, url string) error {
	return r.setFields(ctx, id, bson.D{{Key: "cover_image", Value: url}})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.D) (*domain.User, error) {
	const op = "repository.mongodb.findOne"

	var doc userDoc
	err := r.users.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return docToUser(&doc), nil
}

func (r *UserRepository) setFields(ctx context.Context, id string, fields bson.D) error {
	const op = "repository.mongodb.setFields"

	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%s: invalid user id %q: %w", op, id, err)
	}

	fields = append(fields, bson.E{Key: "updated_at", Value: time.Now()})
	update := bson.D{{Key: "$set", Value: fields}}

	if _, err := r.users.UpdateByID(ctx, oid, update); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func docToUser(doc *userDoc) *domain.User {
	watchHistory := make([]string, 0, len(doc.WatchHistory))
	for _, v := range doc.WatchHistory {
		watchHistory = append(watchHistory, v.Hex())
	}

	return &domain.User{
		ID:           doc.ID.Hex(),
		Username:     doc.Username,
		Email:        doc.Email,
		FullName:     doc.FullName,
		Avatar:       doc.Avatar,
		CoverImage:   doc.CoverImage,
		PasswordHash: doc.PassHash,
		RefreshToken: doc.RefreshToken,
		WatchHistory: watchHistory,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}
}

// SubscriptionRepository reads subscriber/channel edges.
type SubscriptionRepository struct {
	subscriptions *mongo.Collection
}

// NewSubscriptionRepository sets up the subscriptions collection and its
// unique subscriber+channel index.
func NewSubscriptionRepository(ctx context.Context, db *mongo.Database) (*SubscriptionRepository, error) {
	const op = "repository.mongodb.NewSubscriptionRepository"

	r := &SubscriptionRepository{subscriptions: db.Collection("subscriptions")}

	_, err := r.subscriptions.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "subscriber", Value: 1},
			{Key: "channel", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: subscriptions index: %w", op, err)
	}

	return r, nil
}

func (r *SubscriptionRepository) CountSubscribers(ctx context.Context, channelID string) (int64, error) {
	return r.count(ctx, "channel", channelID)
}

func (r *SubscriptionRepository) CountSubscribedTo(ctx context.Context, subscriberID string) (int64, error) {
	return r.count(ctx, "subscriber", subscriberID)
}

func (r *SubscriptionRepository) IsSubscribed(ctx context.Context, subscriberID, channelID string) (bool, error) {
	const op = "repository.mongodb.IsSubscribed"

	subscriber, err := bson.ObjectIDFromHex(subscriberID)
	if err != nil {
		return false, nil
	}
	channel, err := bson.ObjectIDFromHex(channelID)
	if err != nil {
		return false, nil
	}

	n, err := r.subscriptions.CountDocuments(ctx, bson.D{
		{Key: "subscriber", Value: subscriber},
		{Key: "channel", Value: channel},
	})
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return n > 0, nil
}

func (r *SubscriptionRepository) count(ctx context.Context, field, id string) (int64, error) {
	const op = "repository.mongodb.count"

	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return 0, nil
	}

	n, err := r.subscriptions.CountDocuments(ctx, bson.D{{Key: field, Value: oid}})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}
