package dto

import "time"

// ── clients ──

type CreateClientRequest struct {
	Code       string `json:"code" binding:"required,max=20"`
	NomSociete string `json:"nom_societe" binding:"required,max=255"`
	NomContact string `json:"nom_contact" binding:"max=100"`
	Email      string `json:"email" binding:"omitempty,email"`
	Telephone  string `json:"telephone" binding:"max=30"`
	Adresse    string `json:"adresse" binding:"max=500"`
	CodePostal string `json:"code_postal" binding:"max=10"`
	Ville      string `json:"ville" binding:"max=100"`
	Notes      string `json:"notes"`
}

type UpdateClientRequest struct {
	CreateClientRequest
	Active  *bool `json:"active"`
	Version int   `json:"version" binding:"required,min=1"`
}

// ── employes ──

type CreateEmployeRequest struct {
	Matricule                string     `json:"matricule" binding:"required,max=20"`
	Nom                      string     `json:"nom" binding:"required,max=100"`
	Prenom                   string     `json:"prenom" binding:"required,max=100"`
	Email                    string     `json:"email" binding:"omitempty,email"`
	Telephone                string     `json:"telephone" binding:"max=30"`
	StatutContrat            string     `json:"statut_contrat" binding:"omitempty,oneof=cdi cdd interim stagiaire"`
	RoleHierarchique         string     `json:"role_hierarchique" binding:"omitempty,oneof=manager charge_projet ouvrier"`
	ChargeProjetID           *string    `json:"charge_projet_id" binding:"omitempty,uuid"`
	GestionnaireID           *string    `json:"gestionnaire_id" binding:"omitempty,uuid"`
	HabilitationsElectriques []string   `json:"habilitations_electriques"`
	Certifications           []string   `json:"certifications"`
	Competences              []string   `json:"competences"`
	DateDebut                *time.Time `json:"date_debut"`
	DateFin                  *time.Time `json:"date_fin"`
	VehiculeAttribue         string     `json:"vehicule_attribue" binding:"max=50"`
	Astreinte                bool       `json:"astreinte"`
	Notes                    string     `json:"notes"`
}

type UpdateEmployeRequest struct {
	CreateEmployeRequest
	Disponibilite string `json:"disponibilite" binding:"omitempty,oneof=disponible indisponible conge arret_maladie formation"`
	Version       int    `json:"version" binding:"required,min=1"`
}

type ChangerDisponibiliteRequest struct {
	Disponibilite string `json:"disponibilite" binding:"required,oneof=disponible indisponible conge arret_maladie formation"`
}

// ── equipes ──

type CreateEquipeRequest struct {
	Nom                 string   `json:"nom" binding:"required,max=100"`
	Code                string   `json:"code" binding:"required,max=20"`
	Description         string   `json:"description"`
	ChargeProjetID      *string  `json:"charge_projet_id" binding:"omitempty,uuid"`
	Specialisation      string   `json:"specialisation" binding:"max=50"`
	CapaciteMax         int      `json:"capacite_max" binding:"required,min=1"`
	CompetencesRequises []string `json:"competences_requises"`
	VehiculesAttribues  []string `json:"vehicules_attribues"`
	ZonesIntervention   []string `json:"zones_intervention"`
	HoraireDebut        string   `json:"horaire_debut" binding:"omitempty,len=5"`
	HoraireFin          string   `json:"horaire_fin" binding:"omitempty,len=5"`
}

type UpdateEquipeRequest struct {
	CreateEquipeRequest
	Active  *bool `json:"active"`
	Version int   `json:"version" binding:"required,min=1"`
}

type AddMembreRequest struct {
	EmployeID  string `json:"employe_id" binding:"required,uuid"`
	RoleEquipe string `json:"role_equipe" binding:"omitempty,oneof=membre chef_equipe"`
}

// ── plannings ──

type CreatePlanningRequest struct {
	EmployeID           string                 `json:"employe_id" binding:"required,uuid"`
	DemandeID           *string                `json:"demande_id" binding:"omitempty,uuid"`
	EquipeID            *string                `json:"equipe_id" binding:"omitempty,uuid"`
	DateDebut           time.Time              `json:"date_debut" binding:"required"`
	DateFin             time.Time              `json:"date_fin" binding:"required"`
	TypeAffectation     string                 `json:"type_affectation" binding:"required,oneof=intervention maintenance formation conge arret_maladie deplacement administratif astreinte"`
	LieuIntervention    string                 `json:"lieu_intervention" binding:"max=255"`
	CoordonneesGPS      map[string]interface{} `json:"coordonnees_gps"`
	DescriptionTache    string                 `json:"description_tache"`
	MaterielsRequis     []string               `json:"materiels_requis"`
	DureeEstimeeMinutes *int                   `json:"duree_estimee_minutes" binding:"omitempty,min=1"`
	VehiculeUtilise     string                 `json:"vehicule_utilise" binding:"max=50"`
}

type UpdatePlanningRequest struct {
	CreatePlanningRequest
	Version int `json:"version" binding:"required,min=1"`
}

type TerminerPlanningRequest struct {
	RapportIntervention string   `json:"rapport_intervention"`
	NoteClient          *int     `json:"note_client" binding:"omitempty,min=1,max=5"`
	ObjectifsAtteints   *bool    `json:"objectifs_atteints"`
	KilometresParcourus *float64 `json:"kilometres_parcourus" binding:"omitempty,min=0"`
	FraisDeplacement    *float64 `json:"frais_deplacement" binding:"omitempty,min=0"`
}

type ValiderPlanningRequest struct {
	Commentaires string `json:"commentaires"`
}

// ── equipements ──

type CreateEquipementRequest struct {
	Nom                  string     `json:"nom" binding:"required,max=255"`
	Description          string     `json:"description"`
	Type                 string     `json:"type" binding:"required,max=50"`
	Categorie            string     `json:"categorie" binding:"max=50"`
	Marque               string     `json:"marque" binding:"max=100"`
	Modele               string     `json:"modele" binding:"max=100"`
	NumeroSerie          string     `json:"numero_serie" binding:"max=100"`
	StockTotal           int        `json:"stock_total" binding:"required,min=0"`
	StockMinimum         int        `json:"stock_minimum" binding:"min=0"`
	LocalisationDepot    string     `json:"localisation_depot" binding:"max=255"`
	PrixUnitaire         *float64   `json:"prix_unitaire" binding:"omitempty,min=0"`
	Fournisseur          string     `json:"fournisseur" binding:"max=255"`
	DateAchat            *time.Time `json:"date_achat"`
	DateMiseService      *time.Time `json:"date_mise_service"`
	DureeVieMois         *int       `json:"duree_vie_mois" binding:"omitempty,min=1"`
	Etat                 string     `json:"etat" binding:"omitempty,oneof=neuf bon use defaillant reforme"`
	CompetencesAssociees []string   `json:"competences_associees"`
	Transportable        *bool      `json:"transportable"`
}

type UpdateEquipementRequest struct {
	CreateEquipementRequest
	Actif   *bool `json:"actif"`
	Version int   `json:"version" binding:"required,min=1"`
}

type StockRequest struct {
	Quantite int `json:"quantite" binding:"required,min=1"`
}

type UtiliserEquipementRequest struct {
	TechnicienID string `json:"technicien_id" binding:"required,uuid"`
	Quantite     int    `json:"quantite" binding:"required,min=1"`
}

type PlanifierMaintenanceRequest struct {
	Date        time.Time `json:"date" binding:"required"`
	Description string    `json:"description"`
}

type TerminerMaintenanceRequest struct {
	Etat    string `json:"etat" binding:"required,oneof=neuf bon use defaillant reforme"`
	Rapport string `json:"rapport"`
}

// ── demandes ──

type CreateDemandeRequest struct {
	Titre                    string     `json:"titre" binding:"required,max=255"`
	Description              string     `json:"description"`
	Priorite                 string     `json:"priorite" binding:"omitempty,oneof=normale haute urgente"`
	ClientID                 *string    `json:"client_id" binding:"omitempty,uuid"`
	LieuIntervention         string     `json:"lieu_intervention" binding:"max=255"`
	DateSouhaiteIntervention *time.Time `json:"date_souhaite_intervention"`
}

type UpdateDemandeRequest struct {
	CreateDemandeRequest
	Version int `json:"version" binding:"required,min=1"`
}

type AssignDemandeRequest struct {
	ReceveurID string `json:"receveur_id" binding:"required,uuid"`
}

type CompleteDemandeRequest struct {
	NotesReceveur string `json:"notes_receveur"`
}

// ── attachements ──

type CreateAttachementRequest struct {
	ClientID           *string                `json:"client_id" binding:"omitempty,uuid"`
	DemandeID          *string                `json:"demande_id" binding:"omitempty,uuid"`
	NomClient          string                 `json:"nom_client" binding:"required,max=255"`
	LieuIntervention   string                 `json:"lieu_intervention" binding:"max=255"`
	DescriptionTravaux string                 `json:"description_travaux"`
	FournituresLignes  map[string]interface{} `json:"fournitures_lignes"`
	DateIntervention   *time.Time             `json:"date_intervention"`
}

type UpdateAttachementRequest struct {
	CreateAttachementRequest
	Version int `json:"version" binding:"required,min=1"`
}

type SignerAttachementRequest struct {
	NomSignataireClient     string `json:"nom_signataire_client" binding:"max=100"`
	NomSignataireEntreprise string `json:"nom_signataire_entreprise" binding:"max=100"`
	SignatureClientPath     string `json:"signature_client_path" binding:"max=500"`
	SignatureEntreprisePath string `json:"signature_entreprise_path" binding:"max=500"`
}

// ── interventions ──

type CreateInterventionRequest struct {
	DemandeID            *string    `json:"demande_id" binding:"omitempty,uuid"`
	TechnicienID         *string    `json:"technicien_id" binding:"omitempty,uuid"`
	ClientID             *string    `json:"client_id" binding:"omitempty,uuid"`
	TypeIntervention     string     `json:"type_intervention" binding:"max=50"`
	DescriptionTechnique string     `json:"description_technique"`
	CompetencesRequises  []string   `json:"competences_requises"`
	Priorite             string     `json:"priorite" binding:"omitempty,oneof=normale haute urgente"`
	DatePlanifiee        *time.Time `json:"date_planifiee"`
	DureeEstimeeMinutes  *int       `json:"duree_estimee_minutes" binding:"omitempty,min=1"`
	AdresseIntervention  string     `json:"adresse_intervention" binding:"max=500"`
	CoutEstime           *float64   `json:"cout_estime" binding:"omitempty,min=0"`
}

type UpdateInterventionRequest struct {
	CreateInterventionRequest
	Version int `json:"version" binding:"required,min=1"`
}

type TerminerInterventionRequest struct {
	Succes           bool     `json:"succes"`
	Diagnostic       string   `json:"diagnostic"`
	ActionsRealisees string   `json:"actions_realisees"`
	RapportTechnique string   `json:"rapport_technique"`
	CoutReel         *float64 `json:"cout_reel" binding:"omitempty,min=0"`
	NoteClient       *int     `json:"note_client" binding:"omitempty,min=1,max=5"`
	FirstTimeFix     *bool    `json:"first_time_fix"`
}
