package model

// Client is a customer record referenced by demandes, attachements and
// interventions.
type Client struct {
	ClientID     string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"client_id"`
	Code         string `gorm:"type:varchar(20);not null;uniqueIndex"          json:"code"`
	NomSociete   string `gorm:"type:varchar(255);not null"                     json:"nom_societe"`
	NomContact   string `gorm:"type:varchar(100)"                              json:"nom_contact,omitempty"`
	Email        string `gorm:"type:varchar(255)"                              json:"email,omitempty"`
	Telephone    string `gorm:"type:varchar(30)"                               json:"telephone,omitempty"`
	Adresse      string `gorm:"type:varchar(500)"                              json:"adresse,omitempty"`
	CodePostal   string `gorm:"type:varchar(10)"                               json:"code_postal,omitempty"`
	Ville        string `gorm:"type:varchar(100)"                              json:"ville,omitempty"`
	Notes        string `gorm:"type:text"                                      json:"notes,omitempty"`
	Active       bool   `gorm:"not null;default:true"                          json:"active"`
	VersionedModel
}

func (Client) TableName() string { return "clients" }
