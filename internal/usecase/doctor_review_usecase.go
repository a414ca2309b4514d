package usecase

import (
	"context"
	"strings"

	"medbridge-api/internal/converter"
	"medbridge-api/internal/delivery/dto"
	"medbridge-api/internal/domain/entity"
	"medbridge-api/internal/domain/repository"
	"medbridge-api/internal/infrastructure/metrics"
	"medbridge-api/internal/service"
	"medbridge-api/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const reviewConstraint = "uq_doctor_reviews_consultation"

var ErrInvalidRating = apperror.Validation("invalid_rating", "Stars must be between 1 and 5")

type DoctorReviewUsecase interface {
	CreateReview(ctx context.Context, actor entity.Actor, consultationID int64, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error)
	GetDoctorReviews(ctx context.Context, doctorID int64) (*dto.ReviewListResponse, error)
}

type doctorReviewUsecase struct {
	transactor       repository.Transactor
	log              *logrus.Logger
	reviewRepo       repository.DoctorReviewRepository
	consultationRepo repository.ConsultationRepository
	doctorRepo       repository.ChinaDoctorRepository
	auditService     service.AuditService
	metrics          *metrics.Metrics
}

func NewDoctorReviewUsecase(
	transactor repository.Transactor,
	log *logrus.Logger,
	reviewRepo repository.DoctorReviewRepository,
	consultationRepo repository.ConsultationRepository,
	doctorRepo repository.ChinaDoctorRepository,
	auditService service.AuditService,
	metrics *metrics.Metrics,
) DoctorReviewUsecase {
	return &doctorReviewUsecase{
		transactor:       transactor,
		log:              log,
		reviewRepo:       reviewRepo,
		consultationRepo: consultationRepo,
		doctorRepo:       doctorRepo,
		auditService:     auditService,
		metrics:          metrics,
	}
}

// CreateReview rates a completed consultation. The rating is checked before
// the consultation state, ownership last.
func (u *doctorReviewUsecase) CreateReview(ctx context.Context, actor entity.Actor, consultationID int64, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	if req.Stars < entity.MinReviewStars || req.Stars > entity.MaxReviewStars {
		return nil, ErrInvalidRating
	}

	review := &entity.DoctorReview{
		ConsultationID: consultationID,
		Stars:          req.Stars,
		Comment:        strings.TrimSpace(req.Comment),
	}

	err := u.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		consultation, err := u.consultationRepo.FindByIDForUpdate(ctx, tx, consultationID)
		if err != nil {
			return err
		}
		if consultation == nil {
			return ErrConsultationNotFound
		}

		reviewed, err := u.reviewRepo.ExistsForConsultation(ctx, tx, consultationID)
		if err != nil {
			return err
		}

		ownerID := uuid.Nil
		if consultation.UserProfile != nil {
			ownerID = consultation.UserProfile.UserID
		}
		if err := service.CheckReviewAllowed(consultation, reviewed, ownerID, actor); err != nil {
			return err
		}

		if err := u.reviewRepo.Create(ctx, tx, review); err != nil {
			if isDuplicateKeyError(err, reviewConstraint) {
				return service.ErrAlreadyReviewed
			}
			return err
		}

		return u.auditService.LogCreate(ctx, tx, actor, entity.AuditActionReviewCreate, "doctor_review", review.ID, map[string]interface{}{
			"consultation_id": consultationID,
			"doctor_id":       consultation.DoctorID,
			"stars":           review.Stars,
		})
	})
	if err != nil {
		if apperror.KindOf(err) == apperror.KindInternal {
			u.log.Warnf("Failed to create review for consultation %d: %+v", consultationID, err)
		}
		return nil, err
	}

	u.metrics.ReviewsSubmitted.Inc()

	return converter.ReviewToResponse(review), nil
}

// GetDoctorReviews lists a doctor's reviews with the average rating rounded to
// two decimals.
func (u *doctorReviewUsecase) GetDoctorReviews(ctx context.Context, doctorID int64) (*dto.ReviewListResponse, error) {
	db := u.transactor.Conn(ctx)

	doctor, err := u.doctorRepo.FindByID(ctx, db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %d: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	reviews, err := u.reviewRepo.FindByDoctorID(ctx, db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find reviews for doctor %d: %+v", doctorID, err)
		return nil, err
	}

	return &dto.ReviewListResponse{
		Reviews:      converter.ReviewsToResponses(reviews),
		Total:        len(reviews),
		AverageStars: averageStars(reviews),
	}, nil
}

func averageStars(reviews []entity.DoctorReview) decimal.Decimal {
	if len(reviews) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, r := range reviews {
		sum = sum.Add(decimal.NewFromInt(int64(r.Stars)))
	}
	return sum.Div(decimal.NewFromInt(int64(len(reviews)))).Round(2)
}
