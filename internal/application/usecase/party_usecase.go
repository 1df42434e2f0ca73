package usecase

import (
	"context"

	"github.com/jhoicas/boutique-ledger/internal/application/dto"
	"github.com/jhoicas/boutique-ledger/internal/domain/entity"
	"github.com/jhoicas/boutique-ledger/internal/domain/repository"
)

// ClientUseCase CRUD de clientes.
type ClientUseCase struct {
	repo repository.ClientRepository
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(repo repository.ClientRepository) *ClientUseCase {
	return &ClientUseCase{repo: repo}
}

func (uc *ClientUseCase) Create(ctx context.Context, in dto.PartyRequest) (*dto.PartyResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	c := &entity.Client{Name: in.Name, Phone: in.Phone, Email: in.Email, Address: in.Address}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return ClientResponse(c), nil
}

func (uc *ClientUseCase) GetByID(ctx context.Context, id string) (*dto.PartyResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ClientResponse(c), nil
}

func (uc *ClientUseCase) Update(ctx context.Context, id string, in dto.PartyRequest) (*dto.PartyResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Name, c.Phone, c.Email, c.Address = in.Name, in.Phone, in.Email, in.Address
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return ClientResponse(c), nil
}

func (uc *ClientUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

// ClientResponse adapta un cliente a la salida HTTP.
func ClientResponse(c *entity.Client) *dto.PartyResponse {
	return &dto.PartyResponse{ID: c.ID, Name: c.Name, Phone: c.Phone, Email: c.Email, Address: c.Address, CreatedAt: c.CreatedAt}
}

// SupplierUseCase CRUD de proveedores.
type SupplierUseCase struct {
	repo repository.SupplierRepository
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(repo repository.SupplierRepository) *SupplierUseCase {
	return &SupplierUseCase{repo: repo}
}

func (uc *SupplierUseCase) Create(ctx context.Context, in dto.PartyRequest) (*dto.PartyResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	f := &entity.Supplier{Name: in.Name, Phone: in.Phone, Email: in.Email, Address: in.Address}
	if err := uc.repo.Create(ctx, f); err != nil {
		return nil, err
	}
	return SupplierResponse(f), nil
}

func (uc *SupplierUseCase) GetByID(ctx context.Context, id string) (*dto.PartyResponse, error) {
	f, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return SupplierResponse(f), nil
}

func (uc *SupplierUseCase) Update(ctx context.Context, id string, in dto.PartyRequest) (*dto.PartyResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	f, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	f.Name, f.Phone, f.Email, f.Address = in.Name, in.Phone, in.Email, in.Address
	if err := uc.repo.Update(ctx, f); err != nil {
		return nil, err
	}
	return SupplierResponse(f), nil
}

func (uc *SupplierUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

// SupplierResponse adapta un proveedor a la salida HTTP.
func SupplierResponse(f *entity.Supplier) *dto.PartyResponse {
	return &dto.PartyResponse{ID: f.ID, Name: f.Name, Phone: f.Phone, Email: f.Email, Address: f.Address, CreatedAt: f.CreatedAt}
}
