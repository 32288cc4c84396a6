package usecase

import (
	"context"
	"errors"

	"go-clinical-records/internal/converter"
	"go-clinical-records/internal/delivery/dto"
	"go-clinical-records/internal/domain/entity"
	"go-clinical-records/internal/domain/repository"
	"go-clinical-records/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrProviderProfileNotFound = errors.New("provider profile not found")

type ProviderUsecase interface {
	ListProviders(ctx context.Context) (*dto.ProviderListResponse, error)
	GetProvider(ctx context.Context, providerID uuid.UUID) (*dto.ProviderResponse, error)
	UpdateMyProfile(ctx context.Context, providerID uuid.UUID, req *dto.UpdateProviderProfileRequest) (*dto.ProviderResponse, error)
}

type providerUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	providerRepo repository.ProviderProfileRepository
	audit        service.AuditRecorder
}

func NewProviderUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	providerRepo repository.ProviderProfileRepository,
	audit service.AuditRecorder,
) ProviderUsecase {
	return &providerUsecase{
		db:           db,
		log:          log,
		providerRepo: providerRepo,
		audit:        audit,
	}
}

func (u *providerUsecase) ListProviders(ctx context.Context) (*dto.ProviderListResponse, error) {
	profiles, err := u.providerRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to list providers: %+v", err)
		return nil, err
	}
	return converter.ProvidersToResponse(profiles), nil
}

func (u *providerUsecase) GetProvider(ctx context.Context, providerID uuid.UUID) (*dto.ProviderResponse, error) {
	profile, err := u.providerRepo.FindByUserID(u.db.WithContext(ctx), providerID)
	if err != nil {
		u.log.Warnf("Failed to find provider %s: %+v", providerID, err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrProviderProfileNotFound
	}
	return converter.ProviderToResponse(profile), nil
}

func (u *providerUsecase) UpdateMyProfile(ctx context.Context, providerID uuid.UUID, req *dto.UpdateProviderProfileRequest) (*dto.ProviderResponse, error) {
	profile, err := u.providerRepo.FindByUserID(u.db.WithContext(ctx), providerID)
	if err != nil {
		u.log.Warnf("Failed to find provider %s: %+v", providerID, err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrProviderProfileNotFound
	}

	if req.Specialty != "" {
		profile.Specialty = req.Specialty
	}
	if req.Biography != "" {
		profile.Biography = req.Biography
	}
	if req.ConsultationFee != "" {
		fee, err := decimal.NewFromString(req.ConsultationFee)
		if err != nil || fee.IsNegative() {
			return nil, ErrInvalidFee
		}
		profile.ConsultationFee = fee
	}

	err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := u.providerRepo.Update(tx, profile); err != nil {
			return err
		}
		u.audit.Record(ctx, tx, &providerID, entity.AuditActionProfileUpdate, entity.ResourceUser, providerID.String(), nil)
		return nil
	})
	if err != nil {
		u.log.Warnf("Failed to update provider profile %s: %+v", providerID, err)
		return nil, err
	}

	return converter.ProviderToResponse(profile), nil
}
