package service

import (
	"context"
	"errors"

	"auditex/internal/apierror"
	"auditex/internal/dto"
	"auditex/internal/model"
	"auditex/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClientService interface {
	Creer(ctx context.Context, req dto.CreerClientRequest) (*dto.ClientResponse, error)
	Obtenir(ctx context.Context, ident Identite, id uuid.UUID) (*dto.ClientResponse, error)
	Lister(ctx context.Context, ident Identite, page, limit int) (*dto.ClientListResponse, error)
	Modifier(ctx context.Context, ident Identite, id uuid.UUID, req dto.ModifierClientRequest) (*dto.ClientResponse, error)
	AssignerCollaborateurs(ctx context.Context, id uuid.UUID, req dto.AssignerCollaborateursRequest) (*dto.ClientResponse, error)
}

type clientService struct {
	clients        repository.ClientRepository
	collaborateurs repository.CollaborateurRepository
}

func NewClientService(clients repository.ClientRepository, collaborateurs repository.CollaborateurRepository) ClientService {
	return &clientService{clients: clients, collaborateurs: collaborateurs}
}

func (s *clientService) Creer(ctx context.Context, req dto.CreerClientRequest) (*dto.ClientResponse, error) {
	if _, err := s.clients.FindByNumeroIF(ctx, req.NumeroIF); err == nil {
		return nil, errors.New("un client avec cet identifiant fiscal existe déjà")
	}

	c := &model.Client{
		RaisonSociale: req.RaisonSociale,
		NumeroIF:      req.NumeroIF,
		NumeroICE:     req.NumeroICE,
		Adresse:       req.Adresse,
	}
	if err := s.clients.Create(ctx, c); err != nil {
		return nil, err
	}
	resp := clientToResponse(c)
	return &resp, nil
}

func (s *clientService) Obtenir(ctx context.Context, ident Identite, id uuid.UUID) (*dto.ClientResponse, error) {
	visible, err := s.clients.EstVisible(ctx, id, ident.CollaborateurID, ident.NonRestreint)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, apierror.ErrAccesRefuse
	}

	c, err := s.clients.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.ErrIntrouvable
		}
		return nil, err
	}
	resp := clientToResponse(c)
	return &resp, nil
}

func (s *clientService) Lister(ctx context.Context, ident Identite, page, limit int) (*dto.ClientListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	clients, total, err := s.clients.ListVisible(ctx, ident.CollaborateurID, ident.NonRestreint, page, limit)
	if err != nil {
		return nil, err
	}

	data := make([]dto.ClientResponse, 0, len(clients))
	for i := range clients {
		data = append(data, clientToResponse(&clients[i]))
	}
	return &dto.ClientListResponse{Data: data, Total: total, Page: page, Limit: limit}, nil
}

func (s *clientService) Modifier(ctx context.Context, ident Identite, id uuid.UUID, req dto.ModifierClientRequest) (*dto.ClientResponse, error) {
	visible, err := s.clients.EstVisible(ctx, id, ident.CollaborateurID, ident.NonRestreint)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, apierror.ErrAccesRefuse
	}

	c, err := s.clients.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.ErrIntrouvable
		}
		return nil, err
	}

	// numero_if identifies the client fiscally and is immutable once created.
	if req.RaisonSociale != nil {
		c.RaisonSociale = *req.RaisonSociale
	}
	if req.NumeroICE != nil {
		c.NumeroICE = req.NumeroICE
	}
	if req.Adresse != nil {
		c.Adresse = req.Adresse
	}
	if err := s.clients.Update(ctx, c); err != nil {
		return nil, err
	}
	resp := clientToResponse(c)
	return &resp, nil
}

func (s *clientService) AssignerCollaborateurs(ctx context.Context, id uuid.UUID, req dto.AssignerCollaborateursRequest) (*dto.ClientResponse, error) {
	if _, err := s.clients.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.ErrIntrouvable
		}
		return nil, err
	}

	collaborateurs := make([]model.Collaborateur, 0, len(req.CollaborateurIDs))
	for _, idStr := range req.CollaborateurIDs {
		cid, err := uuid.Parse(idStr)
		if err != nil {
			return nil, errors.New("identifiant de collaborateur invalide: " + idStr)
		}
		collab, err := s.collaborateurs.FindByID(ctx, cid)
		if err != nil {
			return nil, errors.New("collaborateur introuvable: " + idStr)
		}
		collaborateurs = append(collaborateurs, *collab)
	}

	if err := s.clients.ReplaceCollaborateurs(ctx, id, collaborateurs); err != nil {
		return nil, err
	}

	c, err := s.clients.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := clientToResponse(c)
	return &resp, nil
}

func clientToResponse(c *model.Client) dto.ClientResponse {
	resp := dto.ClientResponse{
		ID:            c.ID.String(),
		RaisonSociale: c.RaisonSociale,
		NumeroIF:      c.NumeroIF,
		NumeroICE:     c.NumeroICE,
		Adresse:       c.Adresse,
	}
	for i := range c.Collaborateurs {
		resp.Collaborateurs = append(resp.Collaborateurs, c.Collaborateurs[i].Username)
	}
	return resp
}
