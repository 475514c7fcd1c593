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

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Identite is the already-authenticated caller: the surrounding system
// supplies it, this core only consumes it for the visibility predicate.
type Identite struct {
	CollaborateurID uuid.UUID
	// NonRestreint is the unrestricted-visibility override (admin role).
	NonRestreint bool
}

// ErreursLignes reports per-row validation failures of a facture batch.
// Each invalid row carries its own errors; the batch itself is rejected
// all-or-nothing.
type ErreursLignes struct {
	Lignes []dto.LigneErreur
}

func (e *ErreursLignes) Error() string {
	return fmt.Sprintf("%d ligne(s) de facture invalide(s)", len(e.Lignes))
}

type DeclarationService interface {
	// CreerOuObtenir returns the existing declaration matching the unique
	// (client, type, periode, annee) tuple when there is one (created=false,
	// so the caller redirects instead of duplicating), or creates a new
	// draft owned by the identity otherwise.
	CreerOuObtenir(ctx context.Context, ident Identite, req dto.CreerDeclarationRequest) (*dto.DeclarationResponse, bool, error)
	Obtenir(ctx context.Context, ident Identite, id uuid.UUID) (*dto.DeclarationResponse, error)
	Lister(ctx context.Context, ident Identite, filter dto.DeclarationFilter) (*dto.DeclarationListResponse, error)
	Modifier(ctx context.Context, ident Identite, id uuid.UUID, req dto.ModifierDeclarationRequest) (*dto.DeclarationResponse, error)
	// EnregistrerFactures saves a facture batch all-or-nothing: every row is
	// validated independently, untouched rows are silently dropped, and the
	// penalty fields are recomputed before persisting.
	EnregistrerFactures(ctx context.Context, ident Identite, id uuid.UUID, req dto.EnregistrerFacturesRequest) (*dto.DeclarationResponse, error)
	// AttacherFacture validates and attaches a single invoice line.
	AttacherFacture(ctx context.Context, ident Identite, id uuid.UUID, input dto.FactureInput) (*dto.DeclarationResponse, error)
	// Soumettre transitions DRAFT → SUBMITTED. Irreversible; an empty
	// declaration may be submitted.
	Soumettre(ctx context.Context, ident Identite, id uuid.UUID) error
	// ChargerPourExport loads the aggregate for the export encoders.
	ChargerPourExport(ctx context.Context, ident Identite, id uuid.UUID) (*model.Declaration, error)
}

type declarationService struct {
	repo          repository.DeclarationRepository
	factureRepo   repository.FactureRepository
	clientRepo    repository.ClientRepository
	politique     PolitiqueAmende
	tauxParDefaut decimal.Decimal
}

func NewDeclarationService(
	repo repository.DeclarationRepository,
	factureRepo repository.FactureRepository,
	clientRepo repository.ClientRepository,
	politique PolitiqueAmende,
	tauxParDefaut decimal.Decimal,
) DeclarationService {
	if politique == nil {
		politique = PolitiqueAmendeLegale
	}
	return &declarationService{
		repo:          repo,
		factureRepo:   factureRepo,
		clientRepo:    clientRepo,
		politique:     politique,
		tauxParDefaut: tauxParDefaut,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── CreerOuObtenir ───────────────────────────────────────────────────────────

func (s *declarationService) CreerOuObtenir(ctx context.Context, ident Identite, req dto.CreerDeclarationRequest) (*dto.DeclarationResponse, bool, error) {
	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		return nil, false, fmt.Errorf("client_id invalide: %w", err)
	}

	visible, err := s.clientRepo.EstVisible(ctx, clientID, ident.CollaborateurID, ident.NonRestreint)
	if err != nil || !visible {
		return nil, false, apierror.ErrAccesRefuse
	}

	periode := req.Periode
	switch req.TypeDeclaration {
	case model.TypeAnnuel:
		// An annual declaration never carries a quarter.
		periode = nil
	case model.TypeTrimestriel:
		if periode == nil {
			return nil, false, errors.New("la période est requise pour une déclaration trimestrielle")
		}
		if *periode < 1 || *periode > 4 {
			return nil, false, errors.New("la période doit être un trimestre entre 1 et 4")
		}
	}

	if existante, err := s.repo.FindByTuple(ctx, clientID, req.TypeDeclaration, periode, req.Annee); err == nil {
		charged, err := s.repo.FindByID(ctx, existante.ID)
		if err != nil {
			return nil, false, err
		}
		resp := declarationToResponse(charged, true)
		return resp, false, nil
	}

	collabID := ident.CollaborateurID
	d := &model.Declaration{
		ClientID:          clientID,
		CollaborateurID:   &collabID,
		TypeDeclaration:   req.TypeDeclaration,
		Periode:           periode,
		Annee:             req.Annee,
		ChiffreAffairesN1: req.ChiffreAffairesN1,
		TauxDirecteur:     req.TauxDirecteur,
		Statut:            model.StatutDraft,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, false, fmt.Errorf("création de la déclaration: %w", err)
	}

	charged, err := s.repo.FindByID(ctx, d.ID)
	if err != nil {
		return nil, false, err
	}
	return declarationToResponse(charged, true), true, nil
}

func (s *declarationService) chargerVisible(ctx context.Context, ident Identite, id uuid.UUID) (*model.Declaration, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.ErrIntrouvable
	}
	visible, err := s.clientRepo.EstVisible(ctx, d.ClientID, ident.CollaborateurID, ident.NonRestreint)
	if err != nil || !visible {
		return nil, apierror.ErrAccesRefuse
	}
	return d, nil
}

func (s *declarationService) Obtenir(ctx context.Context, ident Identite, id uuid.UUID) (*dto.DeclarationResponse, error) {
	d, err := s.chargerVisible(ctx, ident, id)
	if err != nil {
		return nil, err
	}
	return declarationToResponse(d, true), nil
}

func (s *declarationService) Lister(ctx context.Context, ident Identite, filter dto.DeclarationFilter) (*dto.DeclarationListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 10
	}

	var visibleIDs []uuid.UUID
	if !ident.NonRestreint {
		clients, _, err := s.clientRepo.ListVisible(ctx, ident.CollaborateurID, false, 1, 1000)
		if err != nil {
			return nil, err
		}
		visibleIDs = make([]uuid.UUID, 0, len(clients))
		for _, c := range clients {
			visibleIDs = append(visibleIDs, c.ID)
		}
	}

	declarations, total, err := s.repo.List(ctx, filter, visibleIDs)
	if err != nil {
		return nil, err
	}

	resp := &dto.DeclarationListResponse{
		Data:  make([]dto.DeclarationResponse, 0, len(declarations)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range declarations {
		resp.Data = append(resp.Data, *declarationToResponse(&declarations[i], false))
	}
	return resp, nil
}

func (s *declarationService) Modifier(ctx context.Context, ident Identite, id uuid.UUID, req dto.ModifierDeclarationRequest) (*dto.DeclarationResponse, error) {
	d, err := s.chargerVisible(ctx, ident, id)
	if err != nil {
		return nil, err
	}
	if d.EstVerrouillee() {
		return nil, apierror.ErrDeclarationVerrouillee
	}

	tauxChange := req.TauxDirecteur != nil &&
		(d.TauxDirecteur == nil || !d.TauxDirecteur.Equal(*req.TauxDirecteur))

	if req.ChiffreAffairesN1 != nil {
		d.ChiffreAffairesN1 = *req.ChiffreAffairesN1
	}
	if req.TauxDirecteur != nil {
		d.TauxDirecteur = req.TauxDirecteur
	}
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}

	// A taux change invalidates every stored penalty of the draft: the
	// factures are re-run through the same calculation as the batch save.
	if tauxChange && len(d.Factures) > 0 {
		taux := s.tauxDirecteur(d)
		now := time.Now()
		err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
			for i := range d.Factures {
				f := &d.Factures[i]
				mois, amende := CalculerPenalite(f, taux, now, s.politique)
				f.NombreMoisRetard = &mois
				f.Amende = &amende
				if err := s.factureRepo.Update(ctx, tx, f); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return declarationToResponse(d, true), nil
}

// ── Facture batch save ───────────────────────────────────────────────────────

func (s *declarationService) EnregistrerFactures(ctx context.Context, ident Identite, id uuid.UUID, req dto.EnregistrerFacturesRequest) (*dto.DeclarationResponse, error) {
	d, err := s.chargerVisible(ctx, ident, id)
	if err != nil {
		return nil, err
	}
	if d.EstVerrouillee() {
		return nil, apierror.ErrDeclarationVerrouillee
	}

	// 1. Validate every row independently, collecting per-row errors.
	// Untouched rows (no field changed from blank, no existing id) are
	// dropped, not validated.
	type ligneValide struct {
		index int
		input dto.FactureInput
	}
	var valides []ligneValide
	var erreurs []dto.LigneErreur

	for i := range req.Factures {
		input := req.Factures[i]
		changed := !input.EstVide()
		// Empty / unchanged rows are silently dropped, never validated.
		if !changed && !input.Supprimer {
			continue
		}
		if input.Supprimer {
			valides = append(valides, ligneValide{index: i, input: input})
			continue
		}
		if ve := ValiderFacture(&input, changed); ve != nil {
			erreurs = append(erreurs, dto.LigneErreur{
				Index:    i,
				Fields:   ve.Fields,
				NonField: ve.NonField,
			})
			continue
		}
		valides = append(valides, ligneValide{index: i, input: input})
	}
	if len(erreurs) > 0 {
		return nil, &ErreursLignes{Lignes: erreurs}
	}

	taux := s.tauxDirecteur(d)
	now := time.Now()

	// 2. Persist all-or-nothing.
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for _, ligne := range valides {
			input := ligne.input

			if input.ID != nil {
				factureID, err := uuid.Parse(*input.ID)
				if err != nil {
					return fmt.Errorf("id de facture invalide: %w", err)
				}
				if input.Supprimer {
					if err := s.factureRepo.Delete(ctx, tx, factureID); err != nil {
						return err
					}
					continue
				}
				existante, err := s.factureRepo.FindByID(ctx, factureID)
				if err != nil || existante.DeclarationID != d.ID {
					return apierror.ErrIntrouvable
				}
				appliquerInput(existante, &input)
				mois, amende := CalculerPenalite(existante, taux, now, s.politique)
				existante.NombreMoisRetard = &mois
				existante.Amende = &amende
				if err := s.factureRepo.Update(ctx, tx, existante); err != nil {
					return err
				}
				continue
			}

			if input.Supprimer {
				continue // deleting a row that was never saved is a no-op
			}

			f := &model.Facture{DeclarationID: d.ID}
			appliquerInput(f, &input)
			mois, amende := CalculerPenalite(f, taux, now, s.politique)
			f.NombreMoisRetard = &mois
			f.Amende = &amende
			if err := s.factureRepo.Create(ctx, tx, f); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	if req.Soumettre {
		if err := s.Soumettre(ctx, ident, d.ID); err != nil {
			return nil, err
		}
	}

	charged, err := s.repo.FindByID(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	return declarationToResponse(charged, true), nil
}

func (s *declarationService) AttacherFacture(ctx context.Context, ident Identite, id uuid.UUID, input dto.FactureInput) (*dto.DeclarationResponse, error) {
	return s.EnregistrerFactures(ctx, ident, id, dto.EnregistrerFacturesRequest{
		Factures: []dto.FactureInput{input},
	})
}

// ── Soumettre ────────────────────────────────────────────────────────────────

func (s *declarationService) Soumettre(ctx context.Context, ident Identite, id uuid.UUID) error {
	d, err := s.chargerVisible(ctx, ident, id)
	if err != nil {
		return err
	}
	if d.EstVerrouillee() {
		return apierror.ErrDeclarationVerrouillee
	}
	// No minimum line-item count: an empty declaration may be submitted.
	return s.repo.UpdateStatut(ctx, id, model.StatutSubmitted)
}

func (s *declarationService) ChargerPourExport(ctx context.Context, ident Identite, id uuid.UUID) (*model.Declaration, error) {
	return s.chargerVisible(ctx, ident, id)
}

// ── helpers ──────────────────────────────────────────────────────────────────

func (s *declarationService) tauxDirecteur(d *model.Declaration) decimal.Decimal {
	if d.TauxDirecteur != nil {
		return *d.TauxDirecteur
	}
	return s.tauxParDefaut
}

// parseDatePtr converts a validated YYYY-MM-DD string to a date pointer.
func parseDatePtr(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t, err := time.Parse(dateFormat, *s)
	if err != nil {
		return nil
	}
	return &t
}

// appliquerInput copies a validated input row onto the model. Derived fields
// (nombre_mois_retard, amende) are deliberately not touched here: they are
// outputs of the penalty calculator, never user-supplied.
func appliquerInput(f *model.Facture, in *dto.FactureInput) {
	f.FournisseurIF = in.FournisseurIF
	f.FournisseurICE = in.FournisseurICE
	f.FournisseurRaisonSociale = in.FournisseurRaisonSociale
	f.FournisseurRC = in.FournisseurRC
	f.FournisseurAdresse = in.FournisseurAdresse
	f.FournisseurVilleRC = in.FournisseurVilleRC
	f.NumeroFacture = in.NumeroFacture
	f.DateEmissionFacture = parseDatePtr(in.DateEmissionFacture)
	f.NaturePrestation = in.NaturePrestation
	if in.MontantTTC != nil {
		f.MontantTTC = *in.MontantTTC
	}
	f.DateLivraison = parseDatePtr(in.DateLivraison)
	f.MoisTransaction = in.MoisTransaction
	f.AnneeTransaction = in.AnneeTransaction
	f.DateConstatationService = parseDatePtr(in.DateConstatationService)
	f.DatePaiementPrevue = parseDatePtr(in.DatePaiementPrevue)
	f.DatePaiementConvenue = parseDatePtr(in.DatePaiementConvenue)
	f.DelaiPaiementSecteur = in.DelaiPaiementSecteur
	f.DatePaiementPrevueSecteur = parseDatePtr(in.DatePaiementPrevueSecteur)
	f.MontantNonPaye = in.MontantNonPaye
	f.MontantPayeHorsDelai = in.MontantPayeHorsDelai
	f.DatePaiementHorsDelai = parseDatePtr(in.DatePaiementHorsDelai)
	f.MontantObjetLitige = in.MontantObjetLitige
	f.DateRecoursJudiciaire = parseDatePtr(in.DateRecoursJudiciaire)
	f.MontantDuApresJugement = in.MontantDuApresJugement
	f.DateJugementDefinitif = parseDatePtr(in.DateJugementDefinitif)
	f.MoisSuspensionAmende = in.MoisSuspensionAmende
	f.ModePaiement = in.ModePaiement
	f.ReferencePaiement = in.ReferencePaiement
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateFormat)
	return &s
}

func factureToResponse(f *model.Facture) dto.FactureResponse {
	return dto.FactureResponse{
		ID:                       f.ID.String(),
		FournisseurIF:            f.FournisseurIF,
		FournisseurICE:           f.FournisseurICE,
		FournisseurRaisonSociale: f.FournisseurRaisonSociale,
		FournisseurRC:            f.FournisseurRC,
		FournisseurAdresse:       f.FournisseurAdresse,
		FournisseurVilleRC:       f.FournisseurVilleRC,
		NumeroFacture:            f.NumeroFacture,
		DateEmissionFacture:      formatDatePtr(f.DateEmissionFacture),
		NaturePrestation:         f.NaturePrestation,
		MontantTTC:               f.MontantTTC,
		DateLivraison:            formatDatePtr(f.DateLivraison),
		MoisTransaction:          f.MoisTransaction,
		AnneeTransaction:         f.AnneeTransaction,
		DateConstatationService:  formatDatePtr(f.DateConstatationService),
		DatePaiementPrevue:       formatDatePtr(f.DatePaiementPrevue),
		DatePaiementConvenue:     formatDatePtr(f.DatePaiementConvenue),
		DelaiPaiementSecteur:     f.DelaiPaiementSecteur,
		DatePaiementPrevueSecteur: formatDatePtr(f.DatePaiementPrevueSecteur),
		MontantNonPaye:            f.MontantNonPaye,
		MontantPayeHorsDelai:      f.MontantPayeHorsDelai,
		DatePaiementHorsDelai:     formatDatePtr(f.DatePaiementHorsDelai),
		MontantObjetLitige:        f.MontantObjetLitige,
		DateRecoursJudiciaire:     formatDatePtr(f.DateRecoursJudiciaire),
		MontantDuApresJugement:    f.MontantDuApresJugement,
		DateJugementDefinitif:     formatDatePtr(f.DateJugementDefinitif),
		MoisSuspensionAmende:      f.MoisSuspensionAmende,
		ModePaiement:              f.ModePaiement,
		ReferencePaiement:         f.ReferencePaiement,
		NombreMoisRetard:          f.NombreMoisRetard,
		Amende:                    f.Amende,
	}
}

func declarationToResponse(d *model.Declaration, avecFactures bool) *dto.DeclarationResponse {
	resp := &dto.DeclarationResponse{
		ID:                d.ID.String(),
		ClientID:          d.ClientID.String(),
		TypeDeclaration:   d.TypeDeclaration,
		Periode:           d.Periode,
		Annee:             d.Annee,
		ChiffreAffairesN1: d.ChiffreAffairesN1,
		TauxDirecteur:     d.TauxDirecteur,
		Statut:            d.Statut,
		CreatedAt:         d.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         d.UpdatedAt.Format(time.RFC3339),
	}
	if d.Client != nil {
		resp.ClientNom = d.Client.RaisonSociale
	}
	if d.CollaborateurID != nil {
		s := d.CollaborateurID.String()
		resp.CollaborateurID = &s
	}
	if avecFactures {
		resp.Factures = make([]dto.FactureResponse, 0, len(d.Factures))
		for i := range d.Factures {
			resp.Factures = append(resp.Factures, factureToResponse(&d.Factures[i]))
		}
	}
	return resp
}
