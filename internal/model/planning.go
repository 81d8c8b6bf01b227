package model

import "time"

// Planning statuses.
const (
	PlanningPlanifie  = "planifie"
	PlanningEnCours   = "en_cours"
	PlanningTermine   = "termine"
	PlanningAnnule    = "annule"
	PlanningReporte   = "reporte"
	PlanningEnAttente = "en_attente"
)

// Assignment types.
const (
	TypeIntervention  = "intervention"
	TypeMaintenance   = "maintenance"
	TypeFormation     = "formation"
	TypeConge         = "conge"
	TypeArretMaladie  = "arret_maladie"
	TypeDeplacement   = "deplacement"
	TypeAdministratif = "administratif"
	TypeAstreinte     = "astreinte"
)

// Planning assigns one employe to a time window [date_debut, date_fin),
// optionally within a team and against a demande.
//
// Invariant: for a given employe, no two non-cancelled plannings may have
// overlapping windows. Overlap uses half-open semantics — windows that only
// touch at a boundary do not conflict.
type Planning struct {
	PlanningID          string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"planning_id"`
	EmployeID           string     `gorm:"type:uuid;not null;index"                       json:"employe_id"`
	DemandeID           *string    `gorm:"type:uuid"                                      json:"demande_id,omitempty"`
	EquipeID            *string    `gorm:"type:uuid"                                      json:"equipe_id,omitempty"`
	DateDebut           time.Time  `gorm:"not null;index"                                 json:"date_debut"`
	DateFin             time.Time  `gorm:"not null"                                       json:"date_fin"`
	HeureDebutReelle    *time.Time `json:"heure_debut_reelle,omitempty"`
	HeureFinReelle      *time.Time `json:"heure_fin_reelle,omitempty"`
	TypeAffectation     string     `gorm:"type:varchar(20);not null"                      json:"type_affectation"`
	Statut              string     `gorm:"type:varchar(20);not null;default:'planifie'"   json:"statut"`
	LieuIntervention    string     `gorm:"type:varchar(255)"                              json:"lieu_intervention,omitempty"`
	CoordonneesGPS      JSONMap    `gorm:"type:jsonb"                                     json:"coordonnees_gps,omitempty"`
	DescriptionTache    string     `gorm:"type:text"                                      json:"description_tache,omitempty"`
	MaterielsRequis     StringArray `gorm:"type:jsonb"                                    json:"materiels_requis,omitempty"`
	DureeEstimeeMinutes *int       `json:"duree_estimee_minutes,omitempty"`
	DureeReelleMinutes  *int       `json:"duree_reelle_minutes,omitempty"`
	VehiculeUtilise     string     `gorm:"type:varchar(50)"                               json:"vehicule_utilise,omitempty"`
	KilometresParcourus *float64   `gorm:"type:decimal(8,2)"                              json:"kilometres_parcourus,omitempty"`
	FraisDeplacement    *float64   `gorm:"type:decimal(8,2)"                              json:"frais_deplacement,omitempty"`
	CreeParID           *string    `gorm:"type:uuid"                                      json:"cree_par_id,omitempty"`
	ValideParID         *string    `gorm:"type:uuid"                                      json:"valide_par_id,omitempty"`
	DateValidation      *time.Time `json:"date_validation,omitempty"`
	Commentaires        string     `gorm:"type:text"                                      json:"commentaires,omitempty"`
	RapportIntervention string     `gorm:"type:text"                                      json:"rapport_intervention,omitempty"`
	NoteClient          *int       `json:"note_client,omitempty"`
	ObjectifsAtteints   *bool      `json:"objectifs_atteints,omitempty"`
	VersionedModel

	Employe  *Employe `gorm:"foreignKey:EmployeID;references:EmployeID"   json:"employe,omitempty"`
	Demande  *Demande `gorm:"foreignKey:DemandeID;references:DemandeID"   json:"demande,omitempty"`
	Equipe   *Equipe  `gorm:"foreignKey:EquipeID;references:EquipeID"     json:"equipe,omitempty"`
	ValidePar *Employe `gorm:"foreignKey:ValideParID;references:EmployeID" json:"valide_par,omitempty"`
}

func (Planning) TableName() string { return "plannings" }

// Overlaps reports whether two half-open windows [aDebut,aFin) and
// [bDebut,bFin) intersect.
func Overlaps(aDebut, aFin, bDebut, bFin time.Time) bool {
	return aDebut.Before(bFin) && aFin.After(bDebut)
}

// ConflitAvec reports whether p conflicts with another planning: same
// employe, different entry, neither cancelled, overlapping windows.
func (p *Planning) ConflitAvec(autre *Planning) bool {
	return p.EmployeID == autre.EmployeID &&
		p.PlanningID != autre.PlanningID &&
		p.Statut != PlanningAnnule &&
		autre.Statut != PlanningAnnule &&
		Overlaps(p.DateDebut, p.DateFin, autre.DateDebut, autre.DateFin)
}

// PeutEtreModifie reports whether the entry may still be edited: only while
// planned or pending, and more than one hour before the window opens.
func (p *Planning) PeutEtreModifie(now time.Time) bool {
	if p.Statut != PlanningPlanifie && p.Statut != PlanningEnAttente {
		return false
	}
	return p.DateDebut.After(now.Add(time.Hour))
}

// PeutEtreAnnule reports whether the entry may still be cancelled.
func (p *Planning) PeutEtreAnnule(now time.Time) bool {
	if p.Statut == PlanningTermine || p.Statut == PlanningAnnule {
		return false
	}
	return p.DateDebut.After(now)
}

// Demarrer moves planifie → en_cours and records the actual start time.
// Returns false when the entry is not in the planifie state.
func (p *Planning) Demarrer(now time.Time) bool {
	if p.Statut != PlanningPlanifie {
		return false
	}
	p.Statut = PlanningEnCours
	t := now
	p.HeureDebutReelle = &t
	return true
}

// Terminer moves en_cours → termine and records the actual end time. The
// real duration is derived from the actual start when not already set.
func (p *Planning) Terminer(now time.Time) bool {
	if p.Statut != PlanningEnCours {
		return false
	}
	p.Statut = PlanningTermine
	t := now
	p.HeureFinReelle = &t
	if p.DureeReelleMinutes == nil && p.HeureDebutReelle != nil {
		minutes := int(now.Sub(*p.HeureDebutReelle).Minutes())
		if minutes < 0 {
			minutes = 0
		}
		p.DureeReelleMinutes = &minutes
	}
	return true
}

// Valider stamps the validator and timestamp. The source applies no state
// precondition here; kept as-is.
func (p *Planning) Valider(validateurID string, commentaires string, now time.Time) {
	p.ValideParID = &validateurID
	t := now
	p.DateValidation = &t
	if commentaires != "" {
		p.Commentaires = commentaires
	}
}

// Annuler moves the entry to annule when still cancellable.
func (p *Planning) Annuler(now time.Time) bool {
	if !p.PeutEtreAnnule(now) {
		return false
	}
	p.Statut = PlanningAnnule
	return true
}

// CalculerRetard returns the completion delay in minutes, nil when the entry
// is not finished or actual times are missing.
func (p *Planning) CalculerRetard() *int {
	if p.Statut != PlanningTermine || p.HeureFinReelle == nil {
		return nil
	}
	retard := int(p.HeureFinReelle.Sub(p.DateFin).Minutes())
	if retard < 0 {
		retard = 0
	}
	return &retard
}

// TypeColor returns the calendar color for the assignment type.
func (p *Planning) TypeColor() string {
	switch p.TypeAffectation {
	case TypeIntervention:
		return "#3b82f6"
	case TypeMaintenance:
		return "#22c55e"
	case TypeFormation:
		return "#a855f7"
	case TypeConge:
		return "#eab308"
	case TypeArretMaladie:
		return "#ef4444"
	case TypeDeplacement:
		return "#6366f1"
	case TypeAdministratif:
		return "#6b7280"
	case TypeAstreinte:
		return "#f97316"
	default:
		return "#9ca3af"
	}
}
