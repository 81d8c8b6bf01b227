package model

import (
	"strings"
	"time"
)

// Contract statuses.
const (
	ContratCDI       = "cdi"
	ContratCDD       = "cdd"
	ContratInterim   = "interim"
	ContratStagiaire = "stagiaire"
)

// Hierarchical roles.
const (
	RoleManager      = "manager"
	RoleChargeProjet = "charge_projet"
	RoleOuvrier      = "ouvrier"
)

// Availability states.
const (
	DispoDisponible   = "disponible"
	DispoIndisponible = "indisponible"
	DispoConge        = "conge"
	DispoArretMaladie = "arret_maladie"
	DispoFormation    = "formation"
)

// Employe is a roster entry: identity, contract, hierarchy, electrical
// habilitations (B0/B1V/.../HC) and availability.
type Employe struct {
	EmployeID                string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"employe_id"`
	Matricule                string      `gorm:"type:varchar(20);not null;uniqueIndex"          json:"matricule"`
	Nom                      string      `gorm:"type:varchar(100);not null"                     json:"nom"`
	Prenom                   string      `gorm:"type:varchar(100);not null"                     json:"prenom"`
	Email                    string      `gorm:"type:varchar(255)"                              json:"email,omitempty"`
	Telephone                string      `gorm:"type:varchar(30)"                               json:"telephone,omitempty"`
	StatutContrat            string      `gorm:"type:varchar(20);not null;default:'cdi'"        json:"statut_contrat"`
	RoleHierarchique         string      `gorm:"type:varchar(20);not null;default:'ouvrier'"    json:"role_hierarchique"`
	ChargeProjetID           *string     `gorm:"type:uuid"                                      json:"charge_projet_id,omitempty"`
	GestionnaireID           *string     `gorm:"type:uuid"                                      json:"gestionnaire_id,omitempty"`
	HabilitationsElectriques StringArray `gorm:"type:jsonb"                                     json:"habilitations_electriques,omitempty"`
	Certifications           StringArray `gorm:"type:jsonb"                                     json:"certifications,omitempty"`
	Competences              StringArray `gorm:"type:jsonb"                                     json:"competences,omitempty"`
	DateDebut                *time.Time  `gorm:"type:date"                                      json:"date_debut,omitempty"`
	DateFin                  *time.Time  `gorm:"type:date"                                      json:"date_fin,omitempty"`
	DateDerniereFormation    *time.Time  `gorm:"type:date"                                      json:"date_derniere_formation,omitempty"`
	Disponibilite            string      `gorm:"type:varchar(20);not null;default:'disponible'" json:"disponibilite"`
	VehiculeAttribue         string      `gorm:"type:varchar(50)"                               json:"vehicule_attribue,omitempty"`
	Astreinte                bool        `gorm:"not null;default:false"                         json:"astreinte"`
	Notes                    string      `gorm:"type:text"                                      json:"notes,omitempty"`
	VersionedModel

	ChargeProjet *Employe `gorm:"foreignKey:ChargeProjetID;references:EmployeID" json:"charge_projet,omitempty"`
	Gestionnaire *Employe `gorm:"foreignKey:GestionnaireID;references:EmployeID" json:"gestionnaire,omitempty"`
}

func (Employe) TableName() string { return "employes" }

// NomComplet returns "Prenom Nom".
func (e *Employe) NomComplet() string {
	return strings.TrimSpace(e.Prenom + " " + e.Nom)
}

// Initiales returns the uppercase initials.
func (e *Employe) Initiales() string {
	var b strings.Builder
	if e.Prenom != "" {
		b.WriteString(strings.ToUpper(e.Prenom[:1]))
	}
	if e.Nom != "" {
		b.WriteString(strings.ToUpper(e.Nom[:1]))
	}
	return b.String()
}

// EstDisponible reports whether the employe is currently available for
// assignment.
func (e *Employe) EstDisponible() bool {
	return e.Disponibilite == DispoDisponible
}

// AHabilitation reports whether the employe holds the given electrical
// habilitation code.
func (e *Employe) AHabilitation(code string) bool {
	for _, h := range e.HabilitationsElectriques {
		if h == code {
			return true
		}
	}
	return false
}
