package reviews

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrDuplicateReview  = errors.New("product already reviewed by this user")
	ErrPurchaseRequired = errors.New("product must be purchased before reviewing")
	ErrInvalidReview    = errors.New("rating must be 1-5 and text must not be empty")
)

// Store is what the gate needs from persistence. HasQualifyingPurchase must
// only count orders whose status indicates a completed purchase.
type Store interface {
	Exists(ctx context.Context, productID, userID string) (bool, error)
	HasQualifyingPurchase(ctx context.Context, userID, productID string) (bool, error)
	Insert(ctx context.Context, r Review) (Review, error)
	ListByProduct(ctx context.Context, productID string) ([]Review, error)
	AverageRating(ctx context.Context, productID string) (float64, error)
}

type Service struct {
	Store Store
}

// Create enforces the review gate: one review per user per product, and only
// after a qualifying purchase. The duplicate check runs first, matching how
// the storefront has always reported these errors.
func (s *Service) Create(ctx context.Context, productID, userID string, rating int, text string) (Review, error) {
	text = strings.TrimSpace(text)
	if rating < 1 || rating > 5 || text == "" {
		return Review{}, ErrInvalidReview
	}

	exists, err := s.Store.Exists(ctx, productID, userID)
	if err != nil {
		return Review{}, err
	}
	if exists {
		return Review{}, ErrDuplicateReview
	}

	purchased, err := s.Store.HasQualifyingPurchase(ctx, userID, productID)
	if err != nil {
		return Review{}, err
	}
	if !purchased {
		return Review{}, ErrPurchaseRequired
	}

	return s.Store.Insert(ctx, Review{
		ProductID: productID,
		UserID:    userID,
		Rating:    rating,
		Text:      text,
	})
}

func (s *Service) ListByProduct(ctx context.Context, productID string) ([]Review, error) {
	return s.Store.ListByProduct(ctx, productID)
}

func (s *Service) AverageRating(ctx context.Context, productID string) (float64, error) {
	return s.Store.AverageRating(ctx, productID)
}
