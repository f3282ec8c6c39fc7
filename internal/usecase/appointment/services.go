package appointment

import (
	"context"
	"strconv"

	domain "github.com/BruksfildServices01/barberbook/internal/domain/appointment"
	"github.com/BruksfildServices01/barberbook/internal/dto"
)

type ListBarberServices struct {
	repo  domain.Repository
	sched Schedule
}

func NewListBarberServices(repo domain.Repository, sched Schedule) *ListBarberServices {
	return &ListBarberServices{repo: repo, sched: sched}
}

func (uc *ListBarberServices) Execute(ctx context.Context, barberID uint) ([]dto.ServiceView, error) {
	ctx, cancel := uc.sched.storageContext(ctx)
	defer cancel()

	if _, err := lookupBarber(ctx, uc.repo, barberID); err != nil {
		return nil, err
	}

	catalog, err := uc.repo.GetBarberServices(ctx, barberID)
	if err != nil {
		return nil, domain.StorageError("list services", err)
	}

	out := make([]dto.ServiceView, 0, len(catalog))
	for _, s := range catalog {
		if !s.Active {
			continue
		}
		out = append(out, dto.ServiceView{ID: s.ID, Name: s.Name, DurationMin: s.DurationMin, Price: s.Price})
	}
	return out, nil
}

// Resolve turns catalog ids into a service selection for availability.
// No ids is an empty selection, which yields no slots.
func (uc *ListBarberServices) Resolve(ctx context.Context, barberID uint, ids []uint) ([]domain.ServiceItem, error) {
	ctx, cancel := uc.sched.storageContext(ctx)
	defer cancel()

	if _, err := lookupBarber(ctx, uc.repo, barberID); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	catalog, err := uc.repo.GetBarberServices(ctx, barberID)
	if err != nil {
		return nil, domain.StorageError("list services", err)
	}
	return selectServices(catalog, ids)
}

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
