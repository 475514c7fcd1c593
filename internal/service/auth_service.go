package service

import (
	"context"
	"errors"
	"time"

	"auditex/internal/config"
	"auditex/internal/dto"
	"auditex/internal/model"
	"auditex/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	CreerCollaborateur(ctx context.Context, req dto.CreerCollaborateurRequest) (*dto.CollaborateurResponse, error)
	ListerCollaborateurs(ctx context.Context, inclureInactifs bool) ([]dto.CollaborateurResponse, error)
	ModifierCollaborateur(ctx context.Context, id uuid.UUID, req dto.ModifierCollaborateurRequest) (*dto.CollaborateurResponse, error)
	DesactiverCollaborateur(ctx context.Context, id uuid.UUID) error
}

type authService struct {
	repo repository.CollaborateurRepository
	cfg  *config.Config
}

func NewAuthService(repo repository.CollaborateurRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, errors.New("identifiants invalides")
	}
	if !user.Actif {
		return nil, errors.New("compte inactif ou en attente de validation")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.New("identifiants invalides")
	}

	accessToken, err := s.generateToken(user, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.generateToken(user, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		User:         collaborateurToResponse(user),
	}, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("refresh token invalide ou expiré")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("claims invalides")
	}
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return nil, errors.New("token mal formé")
	}
	uid, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, errors.New("token mal formé")
	}

	user, err := s.repo.FindByID(ctx, uid)
	if err != nil || !user.Actif {
		return nil, errors.New("collaborateur introuvable ou inactif")
	}

	accessToken, err := s.generateToken(user, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	newRefresh, err := s.generateToken(user, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefresh,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		User:         collaborateurToResponse(user),
	}, nil
}

func (s *authService) generateToken(user *model.Collaborateur, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID.String(),
		"username": user.Username,
		"role":     user.Role,
		"exp":      time.Now().Add(ttl).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// ── Collaborateur administration ─────────────────────────────────────────────

func (s *authService) CreerCollaborateur(ctx context.Context, req dto.CreerCollaborateurRequest) (*dto.CollaborateurResponse, error) {
	if _, err := s.repo.FindByUsername(ctx, req.Username); err == nil {
		return nil, errors.New("ce nom d'utilisateur existe déjà")
	}
	if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
		return nil, errors.New("cette adresse e-mail existe déjà")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	// Accounts created directly by an admin skip the registration workflow.
	now := time.Now()
	c := &model.Collaborateur{
		Username:          req.Username,
		Email:             req.Email,
		Nom:               req.Nom,
		PasswordHash:      string(hash),
		Role:              req.Role,
		StatutInscription: model.InscriptionValidee,
		ValidationDate:    &now,
		Actif:             true,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	resp := collaborateurToResponse(c)
	return &resp, nil
}

func (s *authService) ListerCollaborateurs(ctx context.Context, inclureInactifs bool) ([]dto.CollaborateurResponse, error) {
	collaborateurs, err := s.repo.List(ctx, inclureInactifs)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CollaborateurResponse, 0, len(collaborateurs))
	for i := range collaborateurs {
		out = append(out, collaborateurToResponse(&collaborateurs[i]))
	}
	return out, nil
}

func (s *authService) ModifierCollaborateur(ctx context.Context, id uuid.UUID, req dto.ModifierCollaborateurRequest) (*dto.CollaborateurResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("collaborateur introuvable")
	}
	if req.Email != nil {
		c.Email = *req.Email
	}
	if req.Nom != nil {
		c.Nom = *req.Nom
	}
	if req.Role != nil {
		c.Role = *req.Role
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	resp := collaborateurToResponse(c)
	return &resp, nil
}

func (s *authService) DesactiverCollaborateur(ctx context.Context, id uuid.UUID) error {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("collaborateur introuvable")
	}
	c.Actif = false
	return s.repo.Update(ctx, c)
}

func collaborateurToResponse(c *model.Collaborateur) dto.CollaborateurResponse {
	resp := dto.CollaborateurResponse{
		ID:                c.ID.String(),
		Username:          c.Username,
		Email:             c.Email,
		Nom:               c.Nom,
		Role:              c.Role,
		StatutInscription: c.StatutInscription,
		NotesInscription:  c.NotesInscription,
		Actif:             c.Actif,
	}
	if c.ValidationDate != nil {
		s := c.ValidationDate.Format(time.RFC3339)
		resp.ValidationDate = &s
	}
	return resp
}
