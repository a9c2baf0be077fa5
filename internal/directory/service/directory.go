package service

import (
	"context"
	"errors"
	"skyfare/internal/directory/repository"
	"skyfare/pkg/config"
	apperrors "skyfare/pkg/errors"
	"skyfare/pkg/model"
)

type DirectoryService interface {
	GetCarrier(ctx context.Context, iata string) (*model.CarrierDetail, error)
	GetAirport(ctx context.Context, iata string) (*model.AirportDetail, error)
}

type directoryService struct {
	repo repository.DirectoryRepository
	cfg  *config.Config
}

func NewDirectoryService(repo repository.DirectoryRepository, cfg *config.Config) DirectoryService {
	return &directoryService{
		repo: repo,
		cfg:  cfg,
	}
}

func (s *directoryService) GetCarrier(ctx context.Context, iata string) (*model.CarrierDetail, error) {
	if iata == "" {
		return nil, apperrors.InvalidInput("Please define a IATA code")
	}
	if len(iata) != 2 {
		return nil, apperrors.InvalidInput("Carrier IATA must be 2 characters long")
	}

	carrier, err := s.repo.FindCarrierByIATA(ctx, iata)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Carrier", iata)
		}
		s.cfg.Log.Error("Failed to look up carrier", "iata", iata, "error", err)
		return nil, apperrors.Internal("Failed to retrieve carrier", err)
	}

	detail := carrier.Detail()
	return &detail, nil
}

func (s *directoryService) GetAirport(ctx context.Context, iata string) (*model.AirportDetail, error) {
	if iata == "" {
		return nil, apperrors.InvalidInput("Please define a IATA code")
	}
	if len(iata) != 3 {
		return nil, apperrors.InvalidInput("Airport IATA must be 3 characters long")
	}

	airport, err := s.repo.FindAirportByIATA(ctx, iata)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Airport", iata)
		}
		s.cfg.Log.Error("Failed to look up airport", "iata", iata, "error", err)
		return nil, apperrors.Internal("Failed to retrieve airport", err)
	}

	detail := airport.Detail()
	return &detail, nil
}
