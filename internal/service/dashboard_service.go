package service

import (
	"context"
	"encoding/json"
	"time"

	"auditex/internal/dto"
	"auditex/internal/model"
	"auditex/internal/repository"
	"auditex/internal/worker"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	dashboardCacheKey = "cache:dashboard"
	dashboardCacheTTL = 60 * time.Second
)

// DashboardService serves the admin landing-page counters. Results are cached
// in Redis (cache-aside) since the counts change far less often than the page
// is loaded.
type DashboardService interface {
	Obtenir(ctx context.Context) (*dto.DashboardResponse, error)
	Invalider(ctx context.Context)
}

type dashboardService struct {
	clients        repository.ClientRepository
	collaborateurs repository.CollaborateurRepository
	declarations   repository.DeclarationRepository
	rdb            *redis.Client
}

func NewDashboardService(
	clients repository.ClientRepository,
	collaborateurs repository.CollaborateurRepository,
	declarations repository.DeclarationRepository,
	rdb *redis.Client,
) DashboardService {
	return &dashboardService{
		clients:        clients,
		collaborateurs: collaborateurs,
		declarations:   declarations,
		rdb:            rdb,
	}
}

func (s *dashboardService) Obtenir(ctx context.Context) (*dto.DashboardResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, dashboardCacheKey).Result(); err == nil {
			var resp dto.DashboardResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return &resp, nil
			}
		}
	}

	totalClients, err := s.clients.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalCollaborateurs, err := s.collaborateurs.Count(ctx)
	if err != nil {
		return nil, err
	}
	soumises, err := s.declarations.CountByStatut(ctx, model.StatutSubmitted)
	if err != nil {
		return nil, err
	}
	enAttente, err := s.collaborateurs.CountEnAttente(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.declarations.ListRecent(ctx, 5)
	if err != nil {
		return nil, err
	}

	// Parked notification jobs are an operator signal, not a hard error:
	// the counter stays at zero when redis is unreachable.
	var enEchec int64
	if s.rdb != nil {
		if n, dErr := worker.DLQLength(ctx, s.rdb, worker.QueueNotification); dErr == nil {
			enEchec = n
		}
	}

	resp := &dto.DashboardResponse{
		TotalClients:          totalClients,
		TotalCollaborateurs:   totalCollaborateurs,
		DeclarationsSoumises:  soumises,
		InscriptionsEnAttente: enAttente,
		NotificationsEnEchec:  enEchec,
		RecentDeclarations:    make([]dto.DeclarationResponse, 0, len(recent)),
	}
	for i := range recent {
		resp.RecentDeclarations = append(resp.RecentDeclarations, *declarationToResponse(&recent[i], false))
	}

	if s.rdb != nil {
		if data, mErr := json.Marshal(resp); mErr == nil {
			if cErr := s.rdb.Set(ctx, dashboardCacheKey, data, dashboardCacheTTL).Err(); cErr != nil {
				log.Warn().Err(cErr).Msg("dashboard: cache write failed")
			}
		}
	}
	return resp, nil
}

// Invalider drops the cached dashboard after a mutation that changes counters.
func (s *dashboardService) Invalider(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, dashboardCacheKey).Err(); err != nil {
		log.Warn().Err(err).Msg("dashboard: cache invalidation failed")
	}
}
