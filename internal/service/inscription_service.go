package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"auditex/internal/apierror"
	"auditex/internal/dto"
	"auditex/internal/model"
	"auditex/internal/repository"
	"auditex/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// InscriptionService handles the self-registration workflow: a candidate
// creates an inactive account, an admin validates or rejects it, and the
// candidate is notified by email either way.
type InscriptionService interface {
	SInscrire(ctx context.Context, req dto.SInscrireRequest) (*dto.CollaborateurResponse, error)
	ListerEnAttente(ctx context.Context) ([]dto.CollaborateurResponse, error)
	Decider(ctx context.Context, id uuid.UUID, req dto.ValiderInscriptionRequest) (*dto.CollaborateurResponse, error)
}

type inscriptionService struct {
	collaborateurs repository.CollaborateurRepository
	clients        repository.ClientRepository
	dispatcher     *worker.Dispatcher
}

func NewInscriptionService(
	collaborateurs repository.CollaborateurRepository,
	clients repository.ClientRepository,
	dispatcher *worker.Dispatcher,
) InscriptionService {
	return &inscriptionService{collaborateurs: collaborateurs, clients: clients, dispatcher: dispatcher}
}

func (s *inscriptionService) SInscrire(ctx context.Context, req dto.SInscrireRequest) (*dto.CollaborateurResponse, error) {
	if _, err := s.collaborateurs.FindByUsername(ctx, req.Username); err == nil {
		return nil, errors.New("ce nom d'utilisateur existe déjà")
	}
	if _, err := s.collaborateurs.FindByEmail(ctx, req.Email); err == nil {
		return nil, errors.New("cette adresse e-mail existe déjà")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	c := &model.Collaborateur{
		Username:          req.Username,
		Email:             req.Email,
		Nom:               req.Nom,
		PasswordHash:      string(hash),
		Role:              model.RoleCollaborateur,
		StatutInscription: model.InscriptionEnAttente,
		NotesInscription:  req.NotesInscription,
		Actif:             false,
	}
	if err := s.collaborateurs.Create(ctx, c); err != nil {
		return nil, err
	}

	resp := collaborateurToResponse(c)
	return &resp, nil
}

func (s *inscriptionService) ListerEnAttente(ctx context.Context) ([]dto.CollaborateurResponse, error) {
	pending, err := s.collaborateurs.ListEnAttente(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CollaborateurResponse, 0, len(pending))
	for i := range pending {
		out = append(out, collaborateurToResponse(&pending[i]))
	}
	return out, nil
}

func (s *inscriptionService) Decider(ctx context.Context, id uuid.UUID, req dto.ValiderInscriptionRequest) (*dto.CollaborateurResponse, error) {
	c, err := s.collaborateurs.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.ErrIntrouvable
	}
	if c.StatutInscription != model.InscriptionEnAttente {
		return nil, errors.New("cette inscription a déjà été traitée")
	}

	now := time.Now()
	switch req.Action {
	case "validate":
		c.StatutInscription = model.InscriptionValidee
		c.Actif = true
		c.ValidationDate = &now
	case "reject":
		c.StatutInscription = model.InscriptionRejetee
		c.Actif = false
		c.ValidationDate = &now
	default:
		return nil, errors.New("action inconnue")
	}
	if req.NotesAdmin != nil {
		c.NotesAdmin = req.NotesAdmin
	}

	if err := s.collaborateurs.Update(ctx, c); err != nil {
		return nil, err
	}

	// Client assignments only apply to validated accounts.
	if c.StatutInscription == model.InscriptionValidee {
		for _, idStr := range req.ClientIDs {
			clientID, pErr := uuid.Parse(idStr)
			if pErr != nil {
				return nil, errors.New("identifiant de client invalide: " + idStr)
			}
			if aErr := s.clients.AjouterCollaborateur(ctx, clientID, c.ID); aErr != nil {
				return nil, aErr
			}
		}
	}

	s.notifierDecision(ctx, c)

	resp := collaborateurToResponse(c)
	return &resp, nil
}

// notifierDecision enqueues the decision email. Best effort: a Redis outage
// must not roll back an already-committed decision.
func (s *inscriptionService) notifierDecision(ctx context.Context, c *model.Collaborateur) {
	if s.dispatcher == nil {
		return
	}
	var subject, body string
	if c.StatutInscription == model.InscriptionValidee {
		subject = "Votre compte a été validé"
		body = fmt.Sprintf(
			"Bonjour %s,\n\nVotre demande d'inscription a été validée. "+
				"Vous pouvez maintenant vous connecter avec votre nom d'utilisateur %q.\n",
			c.Nom, c.Username)
	} else {
		subject = "Votre demande d'inscription a été refusée"
		body = fmt.Sprintf("Bonjour %s,\n\nVotre demande d'inscription a été refusée.\n", c.Nom)
		if c.NotesAdmin != nil && *c.NotesAdmin != "" {
			body += "\nMotif : " + *c.NotesAdmin + "\n"
		}
	}

	payload := worker.NotificationPayload{ToEmail: c.Email, Subject: subject, Body: body}
	if err := s.dispatcher.EnqueueNotification(ctx, payload); err != nil {
		log.Error().Err(err).Str("to", c.Email).Msg("inscription: failed to enqueue notification")
	}
}
