package model

import "time"

// Attachement is a finalized work-order record: client + company signatures
// and a generated PDF reference. Once both signatures are present the record
// is immutable.
type Attachement struct {
	AttachementID          string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"attachement_id"`
	NumeroDossier          string     `gorm:"type:varchar(20);not null;uniqueIndex"          json:"numero_dossier"`
	ClientID               *string    `gorm:"type:uuid"                                      json:"client_id,omitempty"`
	DemandeID              *string    `gorm:"type:uuid"                                      json:"demande_id,omitempty"`
	NomClient              string     `gorm:"type:varchar(255);not null"                     json:"nom_client"`
	LieuIntervention       string     `gorm:"type:varchar(255)"                              json:"lieu_intervention,omitempty"`
	DescriptionTravaux     string     `gorm:"type:text"                                      json:"description_travaux,omitempty"`
	FournituresLignes      JSONMap    `gorm:"type:jsonb"                                     json:"fournitures_lignes,omitempty"`
	DateIntervention       *time.Time `gorm:"type:date"                                      json:"date_intervention,omitempty"`
	NomSignataireClient    string     `gorm:"type:varchar(100)"                              json:"nom_signataire_client,omitempty"`
	NomSignataireEntreprise string    `gorm:"type:varchar(100)"                              json:"nom_signataire_entreprise,omitempty"`
	SignatureClientPath    string     `gorm:"type:varchar(500)"                              json:"signature_client_path,omitempty"`
	SignatureEntreprisePath string    `gorm:"type:varchar(500)"                              json:"signature_entreprise_path,omitempty"`
	PDFPath                string     `gorm:"type:varchar(500)"                              json:"pdf_path,omitempty"`
	DateSignature          *time.Time `json:"date_signature,omitempty"`
	VersionedModel

	Client  *Client  `gorm:"foreignKey:ClientID;references:ClientID"    json:"client,omitempty"`
	Demande *Demande `gorm:"foreignKey:DemandeID;references:DemandeID"  json:"demande,omitempty"`
}

func (Attachement) TableName() string { return "attachements" }

// EstSigne reports whether both signature blobs are present; a signed
// attachement can no longer be modified.
func (a *Attachement) EstSigne() bool {
	return a.SignatureClientPath != "" && a.SignatureEntreprisePath != ""
}
