// internal/services/analytics_service.go
package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/decorahub/ecommerce-backend/internal/apperrors"
)

const (
	productAnalyticsCollection  = "product_analytics"
	userInsightsCollection      = "user_insights"
	templateAnalyticsCollection = "template_analytics"
)

// AnalyticsService accumulates usage counters in MongoDB. Everything is an
// upsert keyed by the entity id, so writes are idempotent per event and a
// missing document is never an error.
type AnalyticsService struct {
	db *mongo.Database
}

type ProductAnalytics struct {
	ProductID     string    `bson:"product_id" json:"product_id"`
	Views         int64     `bson:"views" json:"views"`
	Purchases     int64     `bson:"purchases" json:"purchases"`
	UnitsSold     int64     `bson:"units_sold" json:"units_sold"`
	WishlistAdds  int64     `bson:"wishlist_adds" json:"wishlist_adds"`
	LastViewedAt  time.Time `bson:"last_viewed_at,omitempty" json:"last_viewed_at"`
	LastUpdatedAt time.Time `bson:"last_updated_at" json:"last_updated_at"`
}

type UserInsights struct {
	UserID        string    `bson:"user_id" json:"user_id"`
	OrdersPlaced  int64     `bson:"orders_placed" json:"orders_placed"`
	TotalSpent    float64   `bson:"total_spent" json:"total_spent"`
	ProductViews  int64     `bson:"product_views" json:"product_views"`
	LastOrderAt   time.Time `bson:"last_order_at,omitempty" json:"last_order_at"`
	LastUpdatedAt time.Time `bson:"last_updated_at" json:"last_updated_at"`
}

type TemplateAnalytics struct {
	TemplateID    string    `bson:"template_id" json:"template_id"`
	Views         int64     `bson:"views" json:"views"`
	Applications  int64     `bson:"applications" json:"applications"`
	LastUpdatedAt time.Time `bson:"last_updated_at" json:"last_updated_at"`
}

func NewAnalyticsService(db *mongo.Database) *AnalyticsService {
	return &AnalyticsService{db: db}
}

func (s *AnalyticsService) TrackProductView(ctx context.Context, productID, userID uuid.UUID) error {
	now := time.Now().UTC()

	_, err := s.db.Collection(productAnalyticsCollection).UpdateOne(ctx,
		bson.M{"product_id": productID.String()},
		bson.M{
			"$inc": bson.M{"views": 1},
			"$set": bson.M{"last_viewed_at": now, "last_updated_at": now},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return apperrors.Internal("failed to track product view", err)
	}

	if userID != uuid.Nil {
		_, err = s.db.Collection(userInsightsCollection).UpdateOne(ctx,
			bson.M{"user_id": userID.String()},
			bson.M{
				"$inc": bson.M{"product_views": 1},
				"$set": bson.M{"last_updated_at": now},
			},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return apperrors.Internal("failed to track user view", err)
		}
	}

	return nil
}

// TrackOrderPlaced bumps purchase counters for every item on the order.
func (s *AnalyticsService) TrackOrderPlaced(ctx context.Context, userID uuid.UUID, total float64, items map[uuid.UUID]int) error {
	now := time.Now().UTC()

	for productID, quantity := range items {
		_, err := s.db.Collection(productAnalyticsCollection).UpdateOne(ctx,
			bson.M{"product_id": productID.String()},
			bson.M{
				"$inc": bson.M{"purchases": 1, "units_sold": quantity},
				"$set": bson.M{"last_updated_at": now},
			},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return apperrors.Internal("failed to track purchase", err)
		}
	}

	_, err := s.db.Collection(userInsightsCollection).UpdateOne(ctx,
		bson.M{"user_id": userID.String()},
		bson.M{
			"$inc": bson.M{"orders_placed": 1, "total_spent": total},
			"$set": bson.M{"last_order_at": now, "last_updated_at": now},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return apperrors.Internal("failed to track order", err)
	}

	return nil
}

func (s *AnalyticsService) TrackWishlistAdd(ctx context.Context, productID uuid.UUID) error {
	now := time.Now().UTC()
	_, err := s.db.Collection(productAnalyticsCollection).UpdateOne(ctx,
		bson.M{"product_id": productID.String()},
		bson.M{
			"$inc": bson.M{"wishlist_adds": 1},
			"$set": bson.M{"last_updated_at": now},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return apperrors.Internal("failed to track wishlist add", err)
	}
	return nil
}

func (s *AnalyticsService) TrackTemplateView(ctx context.Context, templateID uuid.UUID) error {
	now := time.Now().UTC()
	_, err := s.db.Collection(templateAnalyticsCollection).UpdateOne(ctx,
		bson.M{"template_id": templateID.String()},
		bson.M{
			"$inc": bson.M{"views": 1},
			"$set": bson.M{"last_updated_at": now},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return apperrors.Internal("failed to track template view", err)
	}
	return nil
}

func (s *AnalyticsService) TrackTemplateApplied(ctx context.Context, templateID uuid.UUID) error {
	now := time.Now().UTC()
	_, err := s.db.Collection(templateAnalyticsCollection).UpdateOne(ctx,
		bson.M{"template_id": templateID.String()},
		bson.M{
			"$inc": bson.M{"applications": 1},
			"$set": bson.M{"last_updated_at": now},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return apperrors.Internal("failed to track template application", err)
	}
	return nil
}

func (s *AnalyticsService) ProductStats(ctx context.Context, productID uuid.UUID) (*ProductAnalytics, error) {
	var stats ProductAnalytics
	err := s.db.Collection(productAnalyticsCollection).
		FindOne(ctx, bson.M{"product_id": productID.String()}).
		Decode(&stats)
	if err == mongo.ErrNoDocuments {
		return &ProductAnalytics{ProductID: productID.String()}, nil
	}
	if err != nil {
		return nil, apperrors.Internal("failed to fetch product analytics", err)
	}
	return &stats, nil
}

func (s *AnalyticsService) UserStats(ctx context.Context, userID uuid.UUID) (*UserInsights, error) {
	var stats UserInsights
	err := s.db.Collection(userInsightsCollection).
		FindOne(ctx, bson.M{"user_id": userID.String()}).
		Decode(&stats)
	if err == mongo.ErrNoDocuments {
		return &UserInsights{UserID: userID.String()}, nil
	}
	if err != nil {
		return nil, apperrors.Internal("failed to fetch user insights", err)
	}
	return &stats, nil
}

func (s *AnalyticsService) TemplateStats(ctx context.Context, templateID uuid.UUID) (*TemplateAnalytics, error) {
	var stats TemplateAnalytics
	err := s.db.Collection(templateAnalyticsCollection).
		FindOne(ctx, bson.M{"template_id": templateID.String()}).
		Decode(&stats)
	if err == mongo.ErrNoDocuments {
		return &TemplateAnalytics{TemplateID: templateID.String()}, nil
	}
	if err != nil {
		return nil, apperrors.Internal("failed to fetch template analytics", err)
	}
	return &stats, nil
}

// TopProducts returns products ordered by views.
func (s *AnalyticsService) TopProducts(ctx context.Context, limit int64) ([]ProductAnalytics, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	cursor, err := s.db.Collection(productAnalyticsCollection).Find(ctx,
		bson.M{},
		options.Find().SetSort(bson.D{{Key: "views", Value: -1}}).SetLimit(limit),
	)
	if err != nil {
		return nil, apperrors.Internal("failed to fetch top products", err)
	}
	defer cursor.Close(ctx)

	var results []ProductAnalytics
	if err := cursor.All(ctx, &results); err != nil {
		return nil, apperrors.Internal("failed to decode top products", err)
	}
	return results, nil
}
