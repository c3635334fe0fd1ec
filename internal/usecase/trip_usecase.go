package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/trip-editor/internal/domain/repository"
	"github.com/trip-editor/internal/pkg/errors"
	"github.com/trip-editor/internal/usecase/dto"
)

// TripUseCase - чтение сохраненных поездок
type TripUseCase struct {
	tripRepo repository.TripRepository
	logger   *zap.Logger
}

// NewTripUseCase - создание нового TripUseCase
func NewTripUseCase(tripRepo repository.TripRepository, logger *zap.Logger) *TripUseCase {
	return &TripUseCase{
		tripRepo: tripRepo,
		logger:   logger,
	}
}

// GetTrip - документ поездки по uid
func (uc *TripUseCase) GetTrip(ctx context.Context, uid string) (*dto.TripResponse, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return nil, errors.ErrInvalidRequest.WithMessage("uid is required")
	}

	doc, err := uc.tripRepo.GetByUID(ctx, uid)
	if err != nil {
		if !errors.Is(err, errors.ErrTripNotFound) {
			uc.logger.Error("Failed to get trip", zap.String("trip_uid", uid), zap.Error(err))
		}
		return nil, err
	}

	return &dto.TripResponse{
		Trip:   doc.Trip,
		Detail: doc.Detail,
	}, nil
}
