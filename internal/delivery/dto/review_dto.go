package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateReviewRequest struct {
	Stars   int    `json:"stars" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

// Response DTOs

type ReviewResponse struct {
	ID             int64     `json:"id"`
	ConsultationID int64     `json:"consultation_id"`
	Stars          int       `json:"stars"`
	Comment        string    `json:"comment,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type ReviewListResponse struct {
	Reviews      []ReviewResponse `json:"reviews"`
	Total        int              `json:"total"`
	AverageStars decimal.Decimal  `json:"average_stars"`
}
