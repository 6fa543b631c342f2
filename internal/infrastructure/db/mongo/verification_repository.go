package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fleetgate/reservation-api/internal/core/domain"
)

const verificationCollection = "verification_codes"

// VerificationRepository persists issued verification codes. Codes are
// never deleted; superseded and consumed codes stay behind flipped to used.
type VerificationRepository struct {
	coll *mongo.Collection
}

func NewVerificationRepository(db *mongo.Database) *VerificationRepository {
	return &VerificationRepository{coll: db.Collection(verificationCollection)}
}

type verificationDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Email     string             `bson:"email"`
	Code      string             `bson:"code"`
	Purpose   string             `bson:"purpose"`
	CreatedAt time.Time          `bson:"created_at"`
	Used      bool               `bson:"used"`
}

func (d *verificationDoc) toDomain() *domain.VerificationCode {
	return &domain.VerificationCode{
		ID:        d.ID.Hex(),
		Email:     d.Email,
		Code:      d.Code,
		Purpose:   domain.CodePurpose(d.Purpose),
		CreatedAt: d.CreatedAt,
		Used:      d.Used,
	}
}

func (r *VerificationRepository) Insert(ctx context.Context, code *domain.VerificationCode) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := verificationDoc{
		ID:        primitive.NewObjectID(),
		Email:     code.Email,
		Code:      code.Code,
		Purpose:   string(code.Purpose),
		CreatedAt: code.CreatedAt,
		Used:      code.Used,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert verification code: %w", err)
	}
	code.ID = doc.ID.Hex()
	return nil
}

// FindLatestUnused returns the newest unused code for (email, purpose).
// Older unused codes may still exist mid-supersession; sorting by creation
// time descending means they never win.
func (r *VerificationRepository) FindLatestUnused(ctx context.Context, email string, purpose domain.CodePurpose) (*domain.VerificationCode, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"email": email, "purpose": string(purpose), "used": false}
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var doc verificationDoc
	if err := r.coll.FindOne(ctx, filter, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCodeInvalid
		}
		return nil, fmt.Errorf("find verification code: %w", err)
	}
	return doc.toDomain(), nil
}

// SupersedeUnused flips every unused code for (email, purpose) to used.
func (r *VerificationRepository) SupersedeUnused(ctx context.Context, email string, purpose domain.CodePurpose) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.coll.UpdateMany(ctx,
		bson.M{"email": email, "purpose": string(purpose), "used": false},
		bson.M{"$set": bson.M{"used": true}},
	)
	if err != nil {
		return fmt.Errorf("supersede verification codes: %w", err)
	}
	return nil
}

func (r *VerificationRepository) MarkUsed(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrCodeInvalid
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"used": true}})
	if err != nil {
		return fmt.Errorf("mark code used: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrCodeInvalid
	}
	return nil
}

// EnsureIndexes backs the lookup and supersession filters.
func (r *VerificationRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "email", Value: 1},
			{Key: "purpose", Value: 1},
			{Key: "used", Value: 1},
			{Key: "created_at", Value: -1},
		}},
	}
	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
