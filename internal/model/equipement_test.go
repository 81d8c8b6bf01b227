package model

import (
	"testing"
	"time"
)

func newEquipement(total, dispo int) *Equipement {
	return &Equipement{
		EquipementID:    "eq-1",
		Reference:       "PER-2025-0001",
		Nom:             "Perceuse",
		Type:            "perceuse",
		StockTotal:      total,
		StockDisponible: dispo,
		Statut:          EquipementDisponible,
		Etat:            EtatBon,
		Actif:           true,
	}
}

func TestEquipement_ReserverScenario(t *testing.T) {
	now := time.Now()
	e := newEquipement(5, 5)

	if !e.Reserver(3, now) {
		t.Fatal("reserve(3) on 5 available should succeed")
	}
	if e.StockDisponible != 2 {
		t.Errorf("stock_disponible = %d, want 2", e.StockDisponible)
	}
	if e.Statut != EquipementDisponible {
		t.Errorf("statut = %s, want disponible while stock remains", e.Statut)
	}

	if !e.Reserver(2, now) {
		t.Fatal("reserve(2) on 2 available should succeed")
	}
	if e.StockDisponible != 0 {
		t.Errorf("stock_disponible = %d, want 0", e.StockDisponible)
	}
	if e.Statut != EquipementReserve {
		t.Errorf("statut = %s, want reserve at zero stock", e.Statut)
	}

	if e.Reserver(1, now) {
		t.Error("reserve(1) on empty stock should fail")
	}
	if e.StockDisponible != 0 {
		t.Error("failed reservation must leave stock unchanged")
	}
}

func TestEquipement_ReserverInsufficientLeavesStockUnchanged(t *testing.T) {
	now := time.Now()
	e := newEquipement(5, 2)

	if e.Reserver(3, now) {
		t.Fatal("reserving more than available should fail")
	}
	if e.StockDisponible != 2 || e.Statut != EquipementDisponible {
		t.Error("failed reservation must not mutate the record")
	}
	if len(e.HistoriqueUtilisation) != 0 {
		t.Error("failed reservation must not be logged")
	}
}

func TestEquipement_LibererCappedAtTotal(t *testing.T) {
	now := time.Now()
	e := newEquipement(5, 0)
	e.Statut = EquipementReserve

	e.Liberer(3, now)
	if e.StockDisponible != 3 {
		t.Errorf("stock_disponible = %d, want 3", e.StockDisponible)
	}
	if e.Statut != EquipementDisponible {
		t.Errorf("statut = %s, want disponible after release", e.Statut)
	}

	e.Liberer(10, now)
	if e.StockDisponible != 5 {
		t.Errorf("release is capped at stock_total, got %d", e.StockDisponible)
	}
}

func TestEquipement_Utiliser(t *testing.T) {
	now := time.Now()
	e := newEquipement(5, 5)

	if !e.Utiliser("tech-1", 2, now) {
		t.Fatal("utiliser should succeed with stock available")
	}
	if e.TechnicienID == nil || *e.TechnicienID != "tech-1" {
		t.Error("technician should be assigned")
	}
	if e.Statut != EquipementEnUtilisation {
		t.Errorf("statut = %s, want en_utilisation", e.Statut)
	}
	if e.StockDisponible != 3 {
		t.Errorf("stock_disponible = %d, want 3", e.StockDisponible)
	}
	if e.NombreUtilisations != 1 {
		t.Errorf("nombre_utilisations = %d, want 1", e.NombreUtilisations)
	}

	empty := newEquipement(5, 0)
	if empty.Utiliser("tech-1", 1, now) {
		t.Error("utiliser must fail atomically when the reservation fails")
	}
	if empty.TechnicienID != nil || empty.Statut != EquipementDisponible {
		t.Error("failed utiliser must leave the record untouched")
	}
}

func TestEquipement_RetournerDoesNotRestoreStock(t *testing.T) {
	now := time.Now()
	e := newEquipement(5, 5)
	e.Utiliser("tech-1", 2, now)

	e.Retourner(now)
	if e.TechnicienID != nil {
		t.Error("technician assignment should be cleared")
	}
	if e.Statut != EquipementDisponible {
		t.Errorf("statut = %s, want disponible", e.Statut)
	}
	// quantity restoration is a separate Liberer call
	if e.StockDisponible != 3 {
		t.Errorf("retourner must not restore stock, got %d", e.StockDisponible)
	}
}

func TestEquipement_MaintenanceCycle(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	e := newEquipement(2, 2)
	vie := 36
	e.DureeVieMois = &vie

	date := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	e.PlanifierMaintenance(date, "revision annuelle", now)
	if e.Statut != EquipementMaintenance {
		t.Errorf("statut = %s, want maintenance", e.Statut)
	}
	if len(e.HistoriqueMaintenance) != 1 {
		t.Fatal("maintenance entry should be appended")
	}

	e.TerminerMaintenance(EtatBon, "RAS", now)
	if e.Statut != EquipementDisponible {
		t.Errorf("statut = %s, want disponible after maintenance", e.Statut)
	}
	if e.Etat != EtatBon {
		t.Errorf("etat = %s, want bon", e.Etat)
	}
	// 36 months lifespan → 3 month interval
	want := now.AddDate(0, 3, 0)
	if e.ProchaineMaintenance == nil || !e.ProchaineMaintenance.Equal(want) {
		t.Errorf("prochaine_maintenance = %v, want %v", e.ProchaineMaintenance, want)
	}
	if e.HistoriqueMaintenance[0].Rapport != "RAS" {
		t.Error("report should be recorded on the last history entry")
	}

	e.PlanifierMaintenance(date, "", now)
	e.TerminerMaintenance(EtatReforme, "hors service", now)
	if e.Statut != "reforme" {
		t.Errorf("statut = %s, want reforme", e.Statut)
	}
}

func TestEquipement_MaintenanceIntervalMinimumOneMonth(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	e := newEquipement(1, 1)
	vie := 6 // 6/12 rounds down to 0 → clamped to 1 month
	e.DureeVieMois = &vie

	e.PlanifierMaintenance(now, "", now)
	e.TerminerMaintenance(EtatBon, "", now)
	want := now.AddDate(0, 1, 0)
	if e.ProchaineMaintenance == nil || !e.ProchaineMaintenance.Equal(want) {
		t.Errorf("prochaine_maintenance = %v, want %v", e.ProchaineMaintenance, want)
	}
}

func TestEquipement_HistoriqueBounded(t *testing.T) {
	now := time.Now()
	e := newEquipement(1000, 1000)

	for i := 0; i < 150; i++ {
		e.Reserver(1, now)
	}
	if len(e.HistoriqueUtilisation) != maxHistoriqueUtilisation {
		t.Errorf("history length = %d, want %d", len(e.HistoriqueUtilisation), maxHistoriqueUtilisation)
	}
	// oldest entries dropped: first kept entry is the 51st reservation
	if e.HistoriqueUtilisation[0].StockApres != 1000-51 {
		t.Errorf("oldest kept entry stock_apres = %d, want %d", e.HistoriqueUtilisation[0].StockApres, 1000-51)
	}
}

func TestEquipement_EstEnRupture(t *testing.T) {
	e := newEquipement(10, 3)
	e.StockMinimum = 3
	if !e.EstEnRupture() {
		t.Error("stock at the minimum threshold counts as rupture")
	}
	e.StockDisponible = 4
	if e.EstEnRupture() {
		t.Error("stock above the threshold is not a rupture")
	}
}
