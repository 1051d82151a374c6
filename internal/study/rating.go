package study

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/colearnhub/colearnhub/internal/db/models"
	"github.com/colearnhub/colearnhub/internal/gateway"
)

// Score bounds of a rating.
const (
	MinScore = 1
	MaxScore = 5
)

// RatingSummary aggregates the ratings of one material.
type RatingSummary struct {
	MaterialID string  `json:"material_id"`
	Average    float64 `json:"average"`
	Count      int     `json:"count"`
}

// Summarize averages ratings; no ratings give a zero summary.
func Summarize(materialID string, ratings []models.Rating) RatingSummary {
	sum := RatingSummary{MaterialID: materialID, Count: len(ratings)}
	if len(ratings) == 0 {
		return sum
	}

	total := 0
	for _, r := range ratings {
		total += r.Score
	}

	sum.Average = float64(total) / float64(len(ratings))

	return sum
}

// RateMaterial stores the user's score for the material, replacing an
// earlier score of the same user.
func (s *Service) RateMaterial(ctx context.Context, userID, materialID string, score int) (*models.Rating, error) {
	if score < MinScore || score > MaxScore {
		return nil, errors.Wrapf(ErrInvalidScore, "got %d", score)
	}

	if strings.TrimSpace(userID) == "" || strings.TrimSpace(materialID) == "" {
		return nil, errors.Wrap(ErrInvalidArgument, "user id and material id are required")
	}

	filters := []gateway.Filter{gateway.Eq("material_id", materialID), gateway.Eq("user_id", userID)}

	var existing []models.Rating
	if err := s.gw.Select(ctx, models.TableRatings, &existing, gateway.Where(filters...).Take(1)); err != nil {
		return nil, persistence("load rating", err)
	}

	if len(existing) > 0 {
		r := existing[0]
		if _, err := s.gw.Update(ctx, models.TableRatings, gateway.Patch{"score": score}, filters...); err != nil {
			return nil, persistence("update rating", err)
		}

		r.Score = score

		return &r, nil
	}

	r := models.Rating{MaterialID: materialID, UserID: userID, Score: score, CreatedAt: s.now().UTC()}
	if err := s.gw.Insert(ctx, models.TableRatings, &r); err != nil {
		return nil, persistence("insert rating", err)
	}

	return &r, nil
}

// MaterialRating returns the average score and number of ratings of a material.
func (s *Service) MaterialRating(ctx context.Context, materialID string) (*RatingSummary, error) {
	if strings.TrimSpace(materialID) == "" {
		return nil, errors.Wrap(ErrInvalidArgument, "material id is empty")
	}

	var ratings []models.Rating
	if err := s.gw.Select(ctx, models.TableRatings, &ratings,
		gateway.Where(gateway.Eq("material_id", materialID))); err != nil {
		return nil, persistence("load ratings", err)
	}

	sum := Summarize(materialID, ratings)

	return &sum, nil
}
