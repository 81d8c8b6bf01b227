package model

import "time"

// Demande statuses.
const (
	DemandeEnAttente = "en_attente"
	DemandeAssignee  = "assignee"
	DemandeEnCours   = "en_cours"
	DemandeTerminee  = "terminee"
	DemandeAnnulee   = "annulee"
)

// Priorities.
const (
	PrioriteNormale = "normale"
	PrioriteHaute   = "haute"
	PrioriteUrgente = "urgente"
)

// Demande is a service/staffing request submitted by one user and optionally
// routed to a receiving user, and optionally converted into an attachement
// once done.
type Demande struct {
	DemandeID                string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"demande_id"`
	NumeroDemande            string     `gorm:"type:varchar(20);not null;uniqueIndex"          json:"numero_demande"`
	Titre                    string     `gorm:"type:varchar(255);not null"                     json:"titre"`
	Description              string     `gorm:"type:text"                                      json:"description,omitempty"`
	Priorite                 string     `gorm:"type:varchar(10);not null;default:'normale'"    json:"priorite"`
	Statut                   string     `gorm:"type:varchar(20);not null;default:'en_attente'" json:"statut"`
	CreateurID               string     `gorm:"type:uuid;not null;index"                       json:"createur_id"`
	ReceveurID               *string    `gorm:"type:uuid;index"                                json:"receveur_id,omitempty"`
	ClientID                 *string    `gorm:"type:uuid"                                      json:"client_id,omitempty"`
	LieuIntervention         string     `gorm:"type:varchar(255)"                              json:"lieu_intervention,omitempty"`
	DateDemande              time.Time  `gorm:"not null"                                       json:"date_demande"`
	DateSouhaiteIntervention *time.Time `json:"date_souhaite_intervention,omitempty"`
	DateAssignation          *time.Time `json:"date_assignation,omitempty"`
	DateCompletion           *time.Time `json:"date_completion,omitempty"`
	NotesReceveur            string     `gorm:"type:text"                                      json:"notes_receveur,omitempty"`
	AttachementID            *string    `gorm:"type:uuid"                                      json:"attachement_id,omitempty"`
	VersionedModel

	Createur    *User        `gorm:"foreignKey:CreateurID;references:UserID"           json:"createur,omitempty"`
	Receveur    *User        `gorm:"foreignKey:ReceveurID;references:UserID"           json:"receveur,omitempty"`
	Client      *Client      `gorm:"foreignKey:ClientID;references:ClientID"           json:"client,omitempty"`
	Attachement *Attachement `gorm:"foreignKey:AttachementID;references:AttachementID" json:"attachement,omitempty"`
}

func (Demande) TableName() string { return "demandes" }

// EstTerminale reports whether the demande reached a terminal state.
func (d *Demande) EstTerminale() bool {
	return d.Statut == DemandeTerminee || d.Statut == DemandeAnnulee
}

// Assigner routes the demande to a receiver: en_attente → assignee, stamping
// date_assignation. Returns false from any other state.
func (d *Demande) Assigner(receveurID string, now time.Time) bool {
	if d.Statut != DemandeEnAttente {
		return false
	}
	d.Statut = DemandeAssignee
	d.ReceveurID = &receveurID
	t := now
	d.DateAssignation = &t
	return true
}

// Demarrer moves assignee → en_cours.
func (d *Demande) Demarrer() bool {
	if d.Statut != DemandeAssignee {
		return false
	}
	d.Statut = DemandeEnCours
	return true
}

// Terminer completes the demande, only from assignee or en_cours, stamping
// date_completion.
func (d *Demande) Terminer(notes string, now time.Time) bool {
	if d.Statut != DemandeAssignee && d.Statut != DemandeEnCours {
		return false
	}
	d.Statut = DemandeTerminee
	t := now
	d.DateCompletion = &t
	if notes != "" {
		d.NotesReceveur = notes
	}
	return true
}

// Annuler cancels the demande from any non-terminal state.
func (d *Demande) Annuler() bool {
	if d.EstTerminale() {
		return false
	}
	d.Statut = DemandeAnnulee
	return true
}

// PeutEtreConvertie reports whether the demande may be converted into an
// attachement: completed and not yet converted.
func (d *Demande) PeutEtreConvertie() bool {
	return d.Statut == DemandeTerminee && d.AttachementID == nil
}
