package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Equipment condition states.
const (
	EtatNeuf       = "neuf"
	EtatBon        = "bon"
	EtatUse        = "use"
	EtatDefaillant = "defaillant"
	EtatReforme    = "reforme"
)

// Equipment statuses.
const (
	EquipementDisponible    = "disponible"
	EquipementReserve       = "reserve"
	EquipementEnUtilisation = "en_utilisation"
	EquipementMaintenance   = "maintenance"
)

// Usage history is capped; older entries are dropped.
const maxHistoriqueUtilisation = 100

// UtilisationEntry is one audit entry of the equipment usage log.
type UtilisationEntry struct {
	Action       string    `json:"action"` // reservation | liberation | utilisation | retour
	Quantite     int       `json:"quantite,omitempty"`
	TechnicienID string    `json:"technicien_id,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
	StockApres   int       `json:"stock_apres"`
}

// UtilisationLog maps the jsonb usage-history column.
type UtilisationLog []UtilisationEntry

// Scan implements the GORM Scanner interface.
func (l *UtilisationLog) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	b, err := jsonBytes(src)
	if err != nil {
		return fmt.Errorf("UtilisationLog.Scan: %w", err)
	}
	return json.Unmarshal(b, l)
}

// Value implements the GORM Valuer interface.
func (l UtilisationLog) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// MaintenanceEntry is one entry of the maintenance history log.
type MaintenanceEntry struct {
	Date        string     `json:"date"` // YYYY-MM-DD
	Description string     `json:"description,omitempty"`
	PlanifieeLe time.Time  `json:"planifiee_le"`
	TermineeLe  *time.Time `json:"terminee_le,omitempty"`
	Rapport     string     `json:"rapport,omitempty"`
	NouvelEtat  string     `json:"nouvel_etat,omitempty"`
}

// MaintenanceLog maps the jsonb maintenance-history column.
type MaintenanceLog []MaintenanceEntry

// Scan implements the GORM Scanner interface.
func (l *MaintenanceLog) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	b, err := jsonBytes(src)
	if err != nil {
		return fmt.Errorf("MaintenanceLog.Scan: %w", err)
	}
	return json.Unmarshal(b, l)
}

// Value implements the GORM Valuer interface.
func (l MaintenanceLog) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// Equipement is a fungible stock item.
//
// Invariant: 0 ≤ stock_disponible ≤ stock_total. Availability only decreases
// through Reserver/Utiliser and only increases through Liberer.
type Equipement struct {
	EquipementID          string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"equipement_id"`
	Reference             string         `gorm:"type:varchar(30);not null;uniqueIndex"          json:"reference"`
	Nom                   string         `gorm:"type:varchar(255);not null"                     json:"nom"`
	Description           string         `gorm:"type:text"                                      json:"description,omitempty"`
	Type                  string         `gorm:"type:varchar(50);not null"                      json:"type"`
	Categorie             string         `gorm:"type:varchar(50)"                               json:"categorie,omitempty"`
	Marque                string         `gorm:"type:varchar(100)"                              json:"marque,omitempty"`
	Modele                string         `gorm:"type:varchar(100)"                              json:"modele,omitempty"`
	NumeroSerie           string         `gorm:"type:varchar(100)"                              json:"numero_serie,omitempty"`
	StockTotal            int            `gorm:"not null;default:0"                             json:"stock_total"`
	StockDisponible       int            `gorm:"not null;default:0"                             json:"stock_disponible"`
	StockMinimum          int            `gorm:"not null;default:0"                             json:"stock_minimum"`
	LocalisationDepot     string         `gorm:"type:varchar(255)"                              json:"localisation_depot,omitempty"`
	PrixUnitaire          *float64       `gorm:"type:decimal(10,2)"                             json:"prix_unitaire,omitempty"`
	Fournisseur           string         `gorm:"type:varchar(255)"                              json:"fournisseur,omitempty"`
	DateAchat             *time.Time     `gorm:"type:date"                                      json:"date_achat,omitempty"`
	DateMiseService       *time.Time     `gorm:"type:date"                                      json:"date_mise_service,omitempty"`
	DureeVieMois          *int           `json:"duree_vie_mois,omitempty"`
	ProchaineMaintenance  *time.Time     `gorm:"type:date"                                      json:"prochaine_maintenance,omitempty"`
	HistoriqueMaintenance MaintenanceLog `gorm:"type:jsonb"                                     json:"historique_maintenance,omitempty"`
	Etat                  string         `gorm:"type:varchar(20);not null;default:'bon'"        json:"etat"`
	TechnicienID          *string        `gorm:"type:uuid"                                      json:"technicien_id,omitempty"`
	Statut                string         `gorm:"type:varchar(20);not null;default:'disponible'" json:"statut"`
	CompetencesAssociees  StringArray    `gorm:"type:jsonb"                                     json:"competences_associees,omitempty"`
	Transportable         bool           `gorm:"not null;default:true"                          json:"transportable"`
	HistoriqueUtilisation UtilisationLog `gorm:"type:jsonb"                                     json:"historique_utilisation,omitempty"`
	DerniereUtilisation   *time.Time     `json:"derniere_utilisation,omitempty"`
	NombreUtilisations    int            `gorm:"not null;default:0"                             json:"nombre_utilisations"`
	Actif                 bool           `gorm:"not null;default:true"                          json:"actif"`
	VersionedModel

	Technicien *Employe `gorm:"foreignKey:TechnicienID;references:EmployeID" json:"technicien,omitempty"`
}

func (Equipement) TableName() string { return "equipements" }

// Reserver decrements the available stock by qty. Fails without touching
// anything when not enough units are available. Status flips to reserve when
// availability reaches zero.
func (e *Equipement) Reserver(qty int, now time.Time) bool {
	if qty <= 0 || e.StockDisponible < qty {
		return false
	}
	e.StockDisponible -= qty
	if e.StockDisponible == 0 {
		e.Statut = EquipementReserve
	}
	e.ajouterUtilisation("reservation", qty, "", now)
	return true
}

// Liberer returns qty units to the pool, capped at stock_total.
func (e *Equipement) Liberer(qty int, now time.Time) {
	if qty <= 0 {
		return
	}
	nouvelle := e.StockDisponible + qty
	if nouvelle > e.StockTotal {
		nouvelle = e.StockTotal
	}
	e.StockDisponible = nouvelle
	if nouvelle > 0 {
		e.Statut = EquipementDisponible
	} else {
		e.Statut = EquipementReserve
	}
	e.ajouterUtilisation("liberation", qty, "", now)
}

// Utiliser reserves qty units and hands them to a technician. Fails
// atomically when the reservation fails.
func (e *Equipement) Utiliser(technicienID string, qty int, now time.Time) bool {
	if !e.Reserver(qty, now) {
		return false
	}
	e.TechnicienID = &technicienID
	e.Statut = EquipementEnUtilisation
	t := now
	e.DerniereUtilisation = &t
	e.NombreUtilisations++
	e.ajouterUtilisation("utilisation", qty, technicienID, now)
	return true
}

// Retourner clears the technician assignment and marks the item available.
// It deliberately does NOT restore stock_disponible: the physical return and
// the inventory release (Liberer) are separate events in the source system.
func (e *Equipement) Retourner(now time.Time) {
	e.TechnicienID = nil
	e.Statut = EquipementDisponible
	e.ajouterUtilisation("retour", 0, "", now)
}

// PlanifierMaintenance schedules a maintenance and moves the item into the
// maintenance status.
func (e *Equipement) PlanifierMaintenance(date time.Time, description string, now time.Time) {
	d := date
	e.ProchaineMaintenance = &d
	e.Statut = EquipementMaintenance
	e.HistoriqueMaintenance = append(e.HistoriqueMaintenance, MaintenanceEntry{
		Date:        date.Format("2006-01-02"),
		Description: description,
		PlanifieeLe: now,
	})
}

// TerminerMaintenance closes the current maintenance: records the report on
// the last history entry, sets the new condition, and recomputes the next
// maintenance date from the item lifespan (interval = max(1, months/12)).
// A reformed item leaves the pool.
func (e *Equipement) TerminerMaintenance(etat, rapport string, now time.Time) {
	e.Etat = etat
	if etat == EtatReforme {
		e.Statut = "reforme"
	} else {
		e.Statut = EquipementDisponible
	}
	e.ProchaineMaintenance = e.calculerProchaineMaintenance(now)

	if n := len(e.HistoriqueMaintenance); n > 0 {
		t := now
		e.HistoriqueMaintenance[n-1].TermineeLe = &t
		e.HistoriqueMaintenance[n-1].Rapport = rapport
		e.HistoriqueMaintenance[n-1].NouvelEtat = etat
	}
}

// EstEnRupture reports whether the available stock fell to the reorder
// threshold.
func (e *Equipement) EstEnRupture() bool {
	return e.StockDisponible <= e.StockMinimum
}

// NecessiteMaintenance reports whether the next maintenance date has passed.
func (e *Equipement) NecessiteMaintenance(now time.Time) bool {
	return e.ProchaineMaintenance != nil && e.ProchaineMaintenance.Before(now) && e.Actif
}

// TauxUtilisation returns the share of the stock currently out, in percent.
func (e *Equipement) TauxUtilisation() float64 {
	if e.StockTotal == 0 {
		return 0
	}
	return float64(e.StockTotal-e.StockDisponible) / float64(e.StockTotal) * 100
}

func (e *Equipement) calculerProchaineMaintenance(now time.Time) *time.Time {
	if e.DureeVieMois == nil || *e.DureeVieMois <= 0 {
		return nil
	}
	intervalle := *e.DureeVieMois / 12
	if intervalle < 1 {
		intervalle = 1
	}
	next := now.AddDate(0, intervalle, 0)
	return &next
}

func (e *Equipement) ajouterUtilisation(action string, qty int, technicienID string, now time.Time) {
	e.HistoriqueUtilisation = append(e.HistoriqueUtilisation, UtilisationEntry{
		Action:       action,
		Quantite:     qty,
		TechnicienID: technicienID,
		Timestamp:    now,
		StockApres:   e.StockDisponible,
	})
	if n := len(e.HistoriqueUtilisation); n > maxHistoriqueUtilisation {
		e.HistoriqueUtilisation = e.HistoriqueUtilisation[n-maxHistoriqueUtilisation:]
	}
}
