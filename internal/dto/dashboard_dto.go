package dto

// DashboardResponse aggregates the landing-page counters plus the most
// recently modified declarations visible to the caller.
type DashboardResponse struct {
	TotalClients          int64                 `json:"total_clients"`
	TotalCollaborateurs   int64                 `json:"total_collaborateurs"`
	DeclarationsSoumises  int64                 `json:"declarations_soumises"`
	InscriptionsEnAttente int64                 `json:"inscriptions_en_attente"`
	NotificationsEnEchec  int64                 `json:"notifications_en_echec"`
	RecentDeclarations    []DeclarationResponse `json:"recent_declarations"`
}
