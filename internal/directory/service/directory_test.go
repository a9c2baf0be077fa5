package service

import (
	"context"
	"skyfare/internal/directory/repository"
	"skyfare/pkg/config"
	apperrors "skyfare/pkg/errors"
	"skyfare/pkg/logger"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"skyfare/pkg/model"
)

type mockDirectoryRepository struct {
	findCarrierByIATA func(ctx context.Context, iata string) (*model.Carrier, error)
	findAirportByIATA func(ctx context.Context, iata string) (*model.Airport, error)
}

func (m *mockDirectoryRepository) FindCarrierByIATA(ctx context.Context, iata string) (*model.Carrier, error) {
	if m.findCarrierByIATA != nil {
		return m.findCarrierByIATA(ctx, iata)
	}
	return nil, repository.ErrNotFound
}

func (m *mockDirectoryRepository) FindCarrierByID(ctx context.Context, id primitive.ObjectID) (*model.Carrier, error) {
	return nil, repository.ErrNotFound
}

func (m *mockDirectoryRepository) FindAirportByIATA(ctx context.Context, iata string) (*model.Airport, error) {
	if m.findAirportByIATA != nil {
		return m.findAirportByIATA(ctx, iata)
	}
	return nil, repository.ErrNotFound
}

func (m *mockDirectoryRepository) FindAirportByID(ctx context.Context, id primitive.ObjectID) (*model.Airport, error) {
	return nil, repository.ErrNotFound
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{Level: "error", Service: "test"}),
	}
}

func TestGetCarrier(t *testing.T) {
	repo := &mockDirectoryRepository{
		findCarrierByIATA: func(ctx context.Context, iata string) (*model.Carrier, error) {
			if iata == "SK" {
				return &model.Carrier{IATA: "SK", Name: "Scandinavian Airlines"}, nil
			}
			return nil, repository.ErrNotFound
		},
	}
	svc := NewDirectoryService(repo, testConfig())

	detail, err := svc.GetCarrier(context.Background(), "SK")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.Name != "Scandinavian Airlines" || detail.IATA != "SK" {
		t.Errorf("unexpected detail: %+v", detail)
	}
}

func TestGetCarrierErrors(t *testing.T) {
	svc := NewDirectoryService(&mockDirectoryRepository{}, testConfig())

	tests := []struct {
		name     string
		iata     string
		wantCode string
	}{
		{"empty code", "", apperrors.CodeInvalidInput},
		{"too short", "S", apperrors.CodeInvalidInput},
		{"too long", "SKX", apperrors.CodeInvalidInput},
		{"unknown carrier", "ZZ", apperrors.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.GetCarrier(context.Background(), tt.iata)
			if err == nil {
				t.Fatal("expected an error")
			}
			if got := apperrors.AsAppError(err).Code; got != tt.wantCode {
				t.Errorf("code = %s, want %s", got, tt.wantCode)
			}
		})
	}
}

func TestGetAirportErrors(t *testing.T) {
	svc := NewDirectoryService(&mockDirectoryRepository{}, testConfig())

	tests := []struct {
		name     string
		iata     string
		wantCode string
	}{
		{"empty code", "", apperrors.CodeInvalidInput},
		{"wrong length", "CP", apperrors.CodeInvalidInput},
		{"unknown airport", "XXX", apperrors.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.GetAirport(context.Background(), tt.iata)
			if err == nil {
				t.Fatal("expected an error")
			}
			if got := apperrors.AsAppError(err).Code; got != tt.wantCode {
				t.Errorf("code = %s, want %s", got, tt.wantCode)
			}
		})
	}
}

func TestGetAirport(t *testing.T) {
	repo := &mockDirectoryRepository{
		findAirportByIATA: func(ctx context.Context, iata string) (*model.Airport, error) {
			return &model.Airport{IATA: "CPH", Name: "Copenhagen Airport", TimeZone: "Europe/Copenhagen"}, nil
		},
	}
	svc := NewDirectoryService(repo, testConfig())

	detail, err := svc.GetAirport(context.Background(), "CPH")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.TimeZone != "Europe/Copenhagen" {
		t.Errorf("unexpected time zone: %s", detail.TimeZone)
	}
}
