package dto

// DashboardStats aggregates the landing-page counters.
type DashboardStats struct {
	DemandesParStatut   map[string]int64 `json:"demandes_par_statut"`
	PlanningsSemaine    int64            `json:"plannings_semaine"`
	InterventionsRetard int              `json:"interventions_en_retard"`
	EquipementsRupture  int              `json:"equipements_en_rupture"`
	EmployesDisponibles int              `json:"employes_disponibles"`
	EquipesActives      int64            `json:"equipes_actives"`
}
