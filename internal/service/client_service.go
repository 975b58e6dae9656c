package service

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"caterops/internal/model"
	"caterops/internal/repository"

	"github.com/google/uuid"
)

// --- Address DTO ---

type AddressPayload struct {
	AddressType string `json:"address_type"`
	FullAddress string `json:"full_address"`
	IsDefault   bool   `json:"is_default"`
}

type AddressResponse struct {
	ID          uuid.UUID `json:"id"`
	ClientID    uuid.UUID `json:"client_id"`
	AddressType string    `json:"address_type"`
	FullAddress string    `json:"full_address"`
	IsDefault   bool      `json:"is_default"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// --- Client DTOs ---

type CreateClientRequest struct {
	Name          string           `json:"name" binding:"required"`
	CompanyName   string           `json:"company_name"`
	TaxCode       string           `json:"tax_code"`
	ContactPerson string           `json:"contact_person"`
	Phone         string           `json:"phone"`
	Email         string           `json:"email"`
	Addresses     []AddressPayload `json:"addresses"`
}

type UpdateClientRequest struct {
	Name          *string           `json:"name"`
	CompanyName   *string           `json:"company_name"`
	TaxCode       *string           `json:"tax_code"`
	ContactPerson *string           `json:"contact_person"`
	Phone         *string           `json:"phone"`
	Email         *string           `json:"email"`
	IsActive      *bool             `json:"is_active"`
	Addresses     *[]AddressPayload `json:"addresses"` // pointer so nil = not sent, [] = clear all
}

type ClientResponse struct {
	ID            uuid.UUID         `json:"id"`
	Name          string            `json:"name"`
	CompanyName   string            `json:"company_name"`
	TaxCode       string            `json:"tax_code"`
	ContactPerson string            `json:"contact_person"`
	Phone         string            `json:"phone"`
	Email         string            `json:"email"`
	IsActive      bool              `json:"is_active"`
	Addresses     []AddressResponse `json:"addresses"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// --- Interface ---

type ClientService interface {
	CreateClient(ctx context.Context, req CreateClientRequest, userID string) (ClientResponse, error)
	UpdateClient(ctx context.Context, id string, req UpdateClientRequest, userID string) (ClientResponse, error)
	DeleteClient(ctx context.Context, id string, userID string) error
	GetClients(ctx context.Context, search string, page, limit int) ([]ClientResponse, int64, error)
}

// --- Implementation ---

type clientService struct {
	clientRepo repository.ClientRepository
	auditRepo  repository.AuditRepository
	txManager  repository.TransactionManager
}

func NewClientService(clientRepo repository.ClientRepository, auditRepo repository.AuditRepository, txManager repository.TransactionManager) ClientService {
	return &clientService{clientRepo: clientRepo, auditRepo: auditRepo, txManager: txManager}
}

// --- Validation helpers ---

var validAddressTypes = map[string]bool{
	model.AddressTypeBilling: true,
	model.AddressTypeVenue:   true,
}

func validateAddresses(addresses []AddressPayload) error {
	for i, addr := range addresses {
		if !validAddressTypes[addr.AddressType] {
			return fmt.Errorf("addresses[%d]: address_type must be one of: BILLING, VENUE", i)
		}
		if addr.FullAddress == "" {
			return fmt.Errorf("addresses[%d]: full_address is required", i)
		}
	}
	return nil
}

func toAddressModels(clientID uuid.UUID, payloads []AddressPayload) []model.ClientAddress {
	addresses := make([]model.ClientAddress, 0, len(payloads))
	for _, p := range payloads {
		addresses = append(addresses, model.ClientAddress{
			ClientID:    clientID,
			AddressType: p.AddressType,
			FullAddress: p.FullAddress,
			IsDefault:   p.IsDefault,
		})
	}
	return addresses
}

// --- CRUD ---

func (s *clientService) CreateClient(ctx context.Context, req CreateClientRequest, userID string) (ClientResponse, error) {
	if req.Name == "" {
		return ClientResponse{}, fmt.Errorf("name is required")
	}
	if req.Email != "" {
		if _, err := mail.ParseAddress(req.Email); err != nil {
			return ClientResponse{}, fmt.Errorf("invalid email format")
		}
	}
	if err := validateAddresses(req.Addresses); err != nil {
		return ClientResponse{}, err
	}

	client := &model.Client{
		Name:          req.Name,
		CompanyName:   req.CompanyName,
		TaxCode:       req.TaxCode,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
		Email:         req.Email,
		IsActive:      true,
		Addresses:     toAddressModels(uuid.Nil, req.Addresses), // GORM fills ClientID on cascade create
	}

	if err := s.clientRepo.Create(ctx, client); err != nil {
		return ClientResponse{}, fmt.Errorf("failed to create client: %w", err)
	}

	writeAudit(ctx, s.auditRepo, userID, model.ActionCreateClient, client.ID.String(), client.Name, req)

	return toClientResponse(*client), nil
}

func (s *clientService) UpdateClient(ctx context.Context, id string, req UpdateClientRequest, userID string) (ClientResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ClientResponse{}, fmt.Errorf("invalid client ID")
	}

	client, err := s.clientRepo.FindByID(ctx, uid)
	if err != nil {
		return ClientResponse{}, fmt.Errorf("client not found: %w", err)
	}

	if req.Name != nil {
		if *req.Name == "" {
			return ClientResponse{}, fmt.Errorf("name cannot be empty")
		}
		client.Name = *req.Name
	}
	if req.Email != nil && *req.Email != "" {
		if _, err := mail.ParseAddress(*req.Email); err != nil {
			return ClientResponse{}, fmt.Errorf("invalid email format")
		}
		client.Email = *req.Email
	} else if req.Email != nil {
		client.Email = ""
	}
	if req.CompanyName != nil {
		client.CompanyName = *req.CompanyName
	}
	if req.TaxCode != nil {
		client.TaxCode = *req.TaxCode
	}
	if req.ContactPerson != nil {
		client.ContactPerson = *req.ContactPerson
	}
	if req.Phone != nil {
		client.Phone = *req.Phone
	}
	if req.IsActive != nil {
		client.IsActive = *req.IsActive
	}

	if req.Addresses != nil {
		if err := validateAddresses(*req.Addresses); err != nil {
			return ClientResponse{}, err
		}
	}

	// Run update + address replacement in a transaction
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.clientRepo.Update(txCtx, client); err != nil {
			return fmt.Errorf("failed to update client: %w", err)
		}

		// Replace addresses if provided (delete-all + re-create strategy)
		if req.Addresses != nil {
			if err := s.clientRepo.DeleteAddressesByClientID(txCtx, uid); err != nil {
				return fmt.Errorf("failed to delete old addresses: %w", err)
			}
			newAddrs := toAddressModels(uid, *req.Addresses)
			if err := s.clientRepo.CreateAddresses(txCtx, newAddrs); err != nil {
				return fmt.Errorf("failed to create addresses: %w", err)
			}
			client.Addresses = newAddrs
		}

		return nil
	})
	if err != nil {
		return ClientResponse{}, err
	}

	writeAudit(ctx, s.auditRepo, userID, model.ActionUpdateClient, client.ID.String(), client.Name, req)

	return toClientResponse(*client), nil
}

func (s *clientService) DeleteClient(ctx context.Context, id string, userID string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid client ID")
	}
	if err := s.clientRepo.Delete(ctx, uid); err != nil {
		return err
	}
	writeAudit(ctx, s.auditRepo, userID, model.ActionDeleteClient, id, "", map[string]string{"deleted_id": id})
	return nil
}

func (s *clientService) GetClients(ctx context.Context, search string, page, limit int) ([]ClientResponse, int64, error) {
	clients, total, err := s.clientRepo.List(ctx, search, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch clients: %w", err)
	}

	res := make([]ClientResponse, 0, len(clients))
	for _, c := range clients {
		res = append(res, toClientResponse(c))
	}

	return res, total, nil
}

// --- Response mappers ---

func toClientResponse(c model.Client) ClientResponse {
	addresses := make([]AddressResponse, 0, len(c.Addresses))
	for _, a := range c.Addresses {
		addresses = append(addresses, AddressResponse{
			ID:          a.ID,
			ClientID:    a.ClientID,
			AddressType: a.AddressType,
			FullAddress: a.FullAddress,
			IsDefault:   a.IsDefault,
			CreatedAt:   a.CreatedAt,
			UpdatedAt:   a.UpdatedAt,
		})
	}

	return ClientResponse{
		ID:            c.ID,
		Name:          c.Name,
		CompanyName:   c.CompanyName,
		TaxCode:       c.TaxCode,
		ContactPerson: c.ContactPerson,
		Phone:         c.Phone,
		Email:         c.Email,
		IsActive:      c.IsActive,
		Addresses:     addresses,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}
