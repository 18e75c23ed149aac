package projects

import (
	"context"
	"errors"
	"fmt"
	"time"

	"constructora/internal/currency"
	"constructora/internal/domain"
	"constructora/internal/receipt"
	"constructora/internal/store"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Service is the application layer over the project store and the receipt
// generator. All monetary state stays canonical; the display currency is
// passed explicitly wherever a receipt is produced.
type Service struct {
	Store    store.Store
	Receipts *receipt.Generator

	validate *validator.Validate
}

func NewService(st store.Store, rg *receipt.Generator) *Service {
	return &Service{
		Store:    st,
		Receipts: rg,
		validate: validator.New(),
	}
}

// RegisterInput carries the raw inputs for a new project. RoomsPerUnit is
// required for house and building projects and ignored for warehouse lots.
type RegisterInput struct {
	ID             string             `validate:"omitempty,excludesall=0x20"`
	Type           domain.ProjectType `validate:"required,oneof=house building other"`
	StartDate      time.Time          `validate:"required"`
	EstimatedEnd   time.Time          `validate:"required,gtefield=StartDate"`
	Address        string             `validate:"required"`
	LotArea        float64            `validate:"required,gt=0"`
	LandPricePerM2 float64            `validate:"required,gt=0"`
	SizeClass      domain.SizeClass   `validate:"required,oneof=large medium small"`
	Stratum        int                `validate:"required,min=1,max=6"`
	RoomsPerUnit   int                `validate:"required_unless=Type other,omitempty,min=1"`
}

// Register validates the input, rejects duplicate IDs before any
// derivation runs, derives the project, persists it and writes its receipt.
// A blank ID gets a generated UUID.
func (s *Service) Register(ctx context.Context, in RegisterInput, cur currency.Code) (*domain.Project, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("invalid project input: %w", err)
	}
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	if _, err := s.Store.Get(ctx, in.ID); err == nil {
		return nil, ErrDuplicateID
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	p, err := domain.NewProject(domain.NewProjectInput{
		ID:             in.ID,
		Type:           in.Type,
		StartDate:      in.StartDate,
		EstimatedEnd:   in.EstimatedEnd,
		Address:        in.Address,
		LotArea:        in.LotArea,
		LandPricePerM2: in.LandPricePerM2,
		SizeClass:      in.SizeClass,
		Stratum:        in.Stratum,
		RoomsPerUnit:   in.RoomsPerUnit,
	})
	if err != nil {
		return nil, err
	}

	if err := s.Store.Put(ctx, p); err != nil {
		return nil, err
	}
	path, err := s.Receipts.Write(p, cur)
	if err != nil {
		return nil, err
	}
	log.Info().Str("project_id", p.ID).Str("type", string(p.Type)).Str("receipt", path).Msg("project registered")
	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Project, error) {
	return s.Store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*domain.Project, error) {
	return s.Store.List(ctx)
}

// Edit applies a sparse set of overrides, re-derives the project, persists
// it and regenerates its receipt.
func (s *Service) Edit(ctx context.Context, id string, in domain.EditInput, cur currency.Code) (*domain.Project, error) {
	p, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.ApplyEdit(in); err != nil {
		return nil, err
	}
	if err := s.Store.Put(ctx, p); err != nil {
		return nil, err
	}
	if _, err := s.Receipts.Write(p, cur); err != nil {
		return nil, err
	}
	log.Info().Str("project_id", p.ID).Msg("project updated")
	return p, nil
}

// Delete removes a project and its active receipt. Unknown IDs return
// store.ErrNotFound.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.Store.Get(ctx, id); err != nil {
		return err
	}
	if err := s.Store.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.Receipts.Remove(id); err != nil {
		return err
	}
	log.Info().Str("project_id", id).Msg("project deleted")
	return nil
}

// Finalize closes a project: it validates the actual end date, rewrites
// the receipt so it records the completion, moves it to the finalized area
// and removes the project from the active store.
func (s *Service) Finalize(ctx context.Context, id string, actualEnd time.Time, cur currency.Code) (*domain.Project, error) {
	p, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.FinalizeAt(actualEnd); err != nil {
		return nil, err
	}
	if _, err := s.Receipts.Write(p, cur); err != nil {
		return nil, err
	}
	dst, err := s.Receipts.MoveToFinalized(id)
	if err != nil {
		return nil, err
	}
	if err := s.Store.Delete(ctx, id); err != nil {
		return nil, err
	}
	log.Info().Str("project_id", id).Str("receipt", dst).Msg("project finalized")
	return p, nil
}
