package usecase

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/burn-ops-service/internal/domain"
	"github.com/burn-ops-service/internal/domain/repository"
	"github.com/burn-ops-service/internal/pkg/errors"
	"github.com/burn-ops-service/internal/usecase/dto"
)

// PersonnelUseCase - реестр сотрудников устройства
type PersonnelUseCase struct {
	repo   repository.PersonnelRepository
	logger *zap.Logger
	now    func() time.Time
}

func NewPersonnelUseCase(repo repository.PersonnelRepository, logger *zap.Logger) *PersonnelUseCase {
	return &PersonnelUseCase{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// Add - новый сотрудник с новым uuid
func (uc *PersonnelUseCase) Add(ctx context.Context, req dto.AddPersonRequest) (*domain.PersonnelRecord, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errors.ErrInvalidRequest.WithMessage("Name is required")
	}
	role := domain.PersonnelRole(req.Role)
	if !role.IsValid() {
		return nil, errors.ErrInvalidRequest.WithMessage("Unknown personnel role")
	}

	p := &domain.PersonnelRecord{
		ID:        uuid.New(),
		Name:      name,
		Role:      role,
		CreatedAt: uc.now().UTC(),
	}
	if err := uc.repo.InsertPerson(ctx, p); err != nil {
		uc.logger.Error("Failed to add person", zap.Error(err))
		return nil, errors.ErrLocalStorageFailed
	}

	uc.logger.Info("Person added", zap.String("id", p.ID.String()), zap.String("role", string(p.Role)))
	return p, nil
}

func (uc *PersonnelUseCase) List(ctx context.Context) ([]*domain.PersonnelRecord, error) {
	people, err := uc.repo.ListPersonnel(ctx)
	if err != nil {
		uc.logger.Error("Failed to list personnel", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	return people, nil
}

// Remove удаляет сотрудника из реестра. Снимки в сохранённых операциях не меняются.
func (uc *PersonnelUseCase) Remove(ctx context.Context, id uuid.UUID) error {
	if err := uc.repo.DeletePerson(ctx, id); err != nil {
		if stderrors.Is(err, domain.ErrNotFound) {
			return errors.ErrPersonNotFound
		}
		uc.logger.Error("Failed to remove person", zap.String("id", id.String()), zap.Error(err))
		return errors.ErrDatabaseError
	}
	return nil
}

// snapshot возвращает реестр как значения для BuildPersonnelHours
func (uc *PersonnelUseCase) snapshot(ctx context.Context) ([]domain.PersonnelRecord, error) {
	people, err := uc.repo.ListPersonnel(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.PersonnelRecord, 0, len(people))
	for _, p := range people {
		out = append(out, *p)
	}
	return out, nil
}
