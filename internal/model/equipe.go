package model

import "time"

// Team membership roles.
const (
	RoleEquipeMembre = "membre"
	RoleEquipeChef   = "chef_equipe"
)

// Equipe is a named team with a capacity ceiling and a required-skill set.
type Equipe struct {
	EquipeID             string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"equipe_id"`
	Nom                  string      `gorm:"type:varchar(100);not null"                     json:"nom"`
	Code                 string      `gorm:"type:varchar(20);not null;uniqueIndex"          json:"code"`
	Description          string      `gorm:"type:text"                                      json:"description,omitempty"`
	ChargeProjetID       *string     `gorm:"type:uuid"                                      json:"charge_projet_id,omitempty"`
	Specialisation       string      `gorm:"type:varchar(50)"                               json:"specialisation,omitempty"`
	CapaciteMax          int         `gorm:"not null;default:0"                             json:"capacite_max"`
	CompetencesRequises  StringArray `gorm:"type:jsonb"                                     json:"competences_requises,omitempty"`
	VehiculesAttribues   StringArray `gorm:"type:jsonb"                                     json:"vehicules_attribues,omitempty"`
	ZonesIntervention    StringArray `gorm:"type:jsonb"                                     json:"zones_intervention,omitempty"`
	HoraireDebut         string      `gorm:"type:varchar(5)"                                json:"horaire_debut,omitempty"` // "HH:MM"
	HoraireFin           string      `gorm:"type:varchar(5)"                                json:"horaire_fin,omitempty"`
	Active               bool        `gorm:"not null;default:true"                          json:"active"`
	VersionedModel

	ChargeProjet *Employe       `gorm:"foreignKey:ChargeProjetID;references:EmployeID" json:"charge_projet,omitempty"`
	Membres      []EquipeMembre `gorm:"foreignKey:EquipeID"                            json:"membres,omitempty"`
}

func (Equipe) TableName() string { return "equipes" }

// PeutAccueillir reports whether a new member can join given the current
// active headcount. Invariant: effectif never exceeds capacite_max through
// AjouterEmploye.
func (e *Equipe) PeutAccueillir(effectifActuel int) bool {
	return e.Active && effectifActuel < e.CapaciteMax
}

// StatutEffectif summarizes the staffing level of the team.
func (e *Equipe) StatutEffectif(effectifActuel int) string {
	if !e.Active {
		return "inactive"
	}
	switch {
	case effectifActuel == 0:
		return "vide"
	case float64(effectifActuel) < float64(e.CapaciteMax)*0.5:
		return "sous_effectif"
	case effectifActuel < e.CapaciteMax:
		return "partielle"
	case effectifActuel == e.CapaciteMax:
		return "complete"
	default:
		return "sur_effectif"
	}
}

// EquipeMembre is the team-membership pivot. An employe has at most one
// active membership at a time; joining a new team deactivates the old row.
type EquipeMembre struct {
	EquipeMembreID       string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"equipe_membre_id"`
	EquipeID             string     `gorm:"type:uuid;not null;index"                       json:"equipe_id"`
	EmployeID            string     `gorm:"type:uuid;not null;index"                       json:"employe_id"`
	RoleEquipe           string     `gorm:"type:varchar(20);not null;default:'membre'"     json:"role_equipe"`
	DateDebutAffectation time.Time  `gorm:"not null"                                       json:"date_debut_affectation"`
	DateFinAffectation   *time.Time `json:"date_fin_affectation,omitempty"`
	Active               bool       `gorm:"not null;default:true"                          json:"active"`
	BaseModel

	Equipe  *Equipe  `gorm:"foreignKey:EquipeID;references:EquipeID"   json:"equipe,omitempty"`
	Employe *Employe `gorm:"foreignKey:EmployeID;references:EmployeID" json:"employe,omitempty"`
}

func (EquipeMembre) TableName() string { return "equipe_membres" }
