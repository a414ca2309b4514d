package converter

import (
	"medbridge-api/internal/delivery/dto"
	"medbridge-api/internal/domain/entity"
)

func ReviewToResponse(review *entity.DoctorReview) *dto.ReviewResponse {
	if review == nil {
		return nil
	}

	return &dto.ReviewResponse{
		ID:             review.ID,
		ConsultationID: review.ConsultationID,
		Stars:          review.Stars,
		Comment:        review.Comment,
		CreatedAt:      review.CreatedAt,
	}
}

func ReviewsToResponses(reviews []entity.DoctorReview) []dto.ReviewResponse {
	responses := make([]dto.ReviewResponse, len(reviews))
	for i := range reviews {
		responses[i] = *ReviewToResponse(&reviews[i])
	}
	return responses
}
