package model

import (
	"math"
	"time"
)

// Intervention statuses.
const (
	InterventionPlanifiee = "planifiee"
	InterventionEnRoute   = "en_route"
	InterventionSurSite   = "sur_site"
	InterventionEnCours   = "en_cours"
	InterventionTerminee  = "terminee"
	InterventionAnnulee   = "annulee"
)

// KPI thresholds applied at completion.
const (
	kpiRespectPlanningMinutes = 30
	kpiRespectBudgetFactor    = 1.1
	kpiSatisfactionMinNote    = 4
)

// Intervention is an on-site technical job tied to a demande, tracked
// through arrival/start/finish with KPIs computed at completion.
type Intervention struct {
	InterventionID       string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"intervention_id"`
	NumeroIntervention   string      `gorm:"type:varchar(25);not null;uniqueIndex"          json:"numero_intervention"`
	DemandeID            *string     `gorm:"type:uuid"                                      json:"demande_id,omitempty"`
	TechnicienID         *string     `gorm:"type:uuid;index"                                json:"technicien_id,omitempty"`
	ClientID             *string     `gorm:"type:uuid"                                      json:"client_id,omitempty"`
	TypeIntervention     string      `gorm:"type:varchar(50)"                               json:"type_intervention,omitempty"`
	DescriptionTechnique string      `gorm:"type:text"                                      json:"description_technique,omitempty"`
	CompetencesRequises  StringArray `gorm:"type:jsonb"                                     json:"competences_requises,omitempty"`
	Priorite             string      `gorm:"type:varchar(10);not null;default:'normale'"    json:"priorite"`
	Statut               string      `gorm:"type:varchar(20);not null;default:'planifiee'"  json:"statut"`
	DatePlanifiee        *time.Time  `json:"date_planifiee,omitempty"`
	HeureArrivee         *time.Time  `json:"heure_arrivee,omitempty"`
	HeureDebutReelle     *time.Time  `json:"heure_debut_reelle,omitempty"`
	HeureFinReelle       *time.Time  `json:"heure_fin_reelle,omitempty"`
	DureeEstimeeMinutes  *int        `json:"duree_estimee_minutes,omitempty"`
	DureeReelleMinutes   *int        `json:"duree_reelle_minutes,omitempty"`
	AdresseIntervention  string      `gorm:"type:varchar(500)"                              json:"adresse_intervention,omitempty"`
	CoutEstime           *float64    `gorm:"type:decimal(10,2)"                             json:"cout_estime,omitempty"`
	CoutReel             *float64    `gorm:"type:decimal(10,2)"                             json:"cout_reel,omitempty"`
	Diagnostic           string      `gorm:"type:text"                                      json:"diagnostic,omitempty"`
	ActionsRealisees     string      `gorm:"type:text"                                      json:"actions_realisees,omitempty"`
	RapportTechnique     string      `gorm:"type:text"                                      json:"rapport_technique,omitempty"`
	InterventionReussie  *bool       `json:"intervention_reussie,omitempty"`
	NoteClient           *int        `json:"note_client,omitempty"`
	FirstTimeFix         *bool       `json:"first_time_fix,omitempty"`
	KPIs                 JSONMap     `gorm:"type:jsonb"                                     json:"kpis,omitempty"`
	VersionedModel

	Demande    *Demande `gorm:"foreignKey:DemandeID;references:DemandeID"    json:"demande,omitempty"`
	Technicien *Employe `gorm:"foreignKey:TechnicienID;references:EmployeID" json:"technicien,omitempty"`
	Client     *Client  `gorm:"foreignKey:ClientID;references:ClientID"      json:"client,omitempty"`
}

func (Intervention) TableName() string { return "interventions" }

// transitionsIntervention maps each status to its allowed successors.
var transitionsIntervention = map[string][]string{
	InterventionPlanifiee: {InterventionEnRoute, InterventionAnnulee},
	InterventionEnRoute:   {InterventionSurSite, InterventionAnnulee},
	InterventionSurSite:   {InterventionEnCours, InterventionAnnulee},
	InterventionEnCours:   {InterventionTerminee, InterventionAnnulee},
}

// PeutTransitionnerVers reports whether the lifecycle allows moving to the
// target status.
func (i *Intervention) PeutTransitionnerVers(cible string) bool {
	for _, s := range transitionsIntervention[i.Statut] {
		if s == cible {
			return true
		}
	}
	return false
}

// PartirEnRoute moves planifiee → en_route.
func (i *Intervention) PartirEnRoute() bool {
	if !i.PeutTransitionnerVers(InterventionEnRoute) {
		return false
	}
	i.Statut = InterventionEnRoute
	return true
}

// ArriverSurSite moves en_route → sur_site and records the arrival time.
func (i *Intervention) ArriverSurSite(now time.Time) bool {
	if !i.PeutTransitionnerVers(InterventionSurSite) {
		return false
	}
	i.Statut = InterventionSurSite
	t := now
	i.HeureArrivee = &t
	return true
}

// Demarrer moves sur_site → en_cours and records the actual start.
func (i *Intervention) Demarrer(now time.Time) bool {
	if !i.PeutTransitionnerVers(InterventionEnCours) {
		return false
	}
	i.Statut = InterventionEnCours
	t := now
	i.HeureDebutReelle = &t
	return true
}

// Terminer moves en_cours → terminee, records the actual end and duration,
// and computes the completion KPIs.
func (i *Intervention) Terminer(succes bool, diagnostic string, now time.Time) bool {
	if !i.PeutTransitionnerVers(InterventionTerminee) {
		return false
	}
	i.Statut = InterventionTerminee
	t := now
	i.HeureFinReelle = &t
	if i.HeureDebutReelle != nil {
		minutes := int(now.Sub(*i.HeureDebutReelle).Minutes())
		if minutes < 0 {
			minutes = 0
		}
		i.DureeReelleMinutes = &minutes
	}
	i.InterventionReussie = &succes
	if diagnostic != "" {
		i.Diagnostic = diagnostic
	}
	i.CalculerKPIs()
	return true
}

// Annuler cancels the intervention from any non-terminal state.
func (i *Intervention) Annuler() bool {
	if !i.PeutTransitionnerVers(InterventionAnnulee) {
		return false
	}
	i.Statut = InterventionAnnulee
	return true
}

// EstEnRetard reports whether the planned start has passed without the job
// being started or finished.
func (i *Intervention) EstEnRetard(now time.Time) bool {
	if i.DatePlanifiee == nil {
		return false
	}
	return now.After(*i.DatePlanifiee) &&
		i.Statut != InterventionEnCours && i.Statut != InterventionTerminee
}

// CalculerKPIs fills the flat key/value KPI map:
//   - respect_planning: |actual − estimated| ≤ 30 minutes
//   - respect_budget:   actual cost ≤ estimated cost × 1.1
//   - satisfaction_client: client rating ≥ 4
//   - first_time_fix
func (i *Intervention) CalculerKPIs() {
	kpis := JSONMap{}

	if i.HeureDebutReelle != nil && i.HeureFinReelle != nil {
		duree := int(i.HeureFinReelle.Sub(*i.HeureDebutReelle).Minutes())
		kpis["duree_reelle_minutes"] = duree
		if i.DureeEstimeeMinutes != nil {
			kpis["respect_planning"] = math.Abs(float64(duree-*i.DureeEstimeeMinutes)) <= kpiRespectPlanningMinutes
		}
	}

	if i.CoutEstime != nil && i.CoutReel != nil {
		kpis["respect_budget"] = *i.CoutReel <= *i.CoutEstime*kpiRespectBudgetFactor
	}

	kpis["satisfaction_client"] = i.NoteClient != nil && *i.NoteClient >= kpiSatisfactionMinNote
	kpis["first_time_fix"] = i.FirstTimeFix != nil && *i.FirstTimeFix

	i.KPIs = kpis
}

// InterventionLog is one audit row per lifecycle transition.
type InterventionLog struct {
	InterventionLogID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"intervention_log_id"`
	InterventionID    string    `gorm:"type:uuid;not null;index"                       json:"intervention_id"`
	TechnicienID      *string   `gorm:"type:uuid"                                      json:"technicien_id,omitempty"`
	Action            string    `gorm:"type:varchar(30);not null"                      json:"action"`
	StatutAvant       string    `gorm:"type:varchar(20)"                               json:"statut_avant,omitempty"`
	StatutApres       string    `gorm:"type:varchar(20)"                               json:"statut_apres,omitempty"`
	Description       string    `gorm:"type:varchar(500)"                              json:"description,omitempty"`
	TimestampAction   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"timestamp_action"`
	CreatedAt         time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

func (InterventionLog) TableName() string { return "intervention_logs" }
