package usecase

import (
	"context"
	"strings"

	"medbridge-api/internal/converter"
	"medbridge-api/internal/delivery/dto"
	"medbridge-api/internal/infrastructure/metrics"
	"medbridge-api/internal/service"

	"github.com/sirupsen/logrus"
)

type TriageUsecase interface {
	Suggest(ctx context.Context, req *dto.TriageRequest) (*dto.TriageResponse, error)
}

type triageUsecase struct {
	log     *logrus.Logger
	triager service.Triager
	metrics *metrics.Metrics
}

func NewTriageUsecase(log *logrus.Logger, triager service.Triager, metrics *metrics.Metrics) TriageUsecase {
	return &triageUsecase{
		log:     log,
		triager: triager,
		metrics: metrics,
	}
}

func (u *triageUsecase) Suggest(ctx context.Context, req *dto.TriageRequest) (*dto.TriageResponse, error) {
	result := u.triager.Suggest(strings.TrimSpace(req.Symptoms))
	u.metrics.TriageRequests.WithLabelValues(string(result.Department)).Inc()
	u.log.Debugf("Triage suggested %s (confidence %s)", result.Department, result.Confidence)
	return converter.TriageToResponse(result), nil
}
