package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/philippe-delaval/Lesot-bon/internal/dto"
	"github.com/philippe-delaval/Lesot-bon/internal/model"
)

func newEquipementFixture(t *testing.T, stock int) (*EquipementService, *mockEquipementRepo, *mockEmployeRepo, string) {
	t.Helper()
	equipements := newMockEquipementRepo()
	employes := newMockEmployeRepo()

	svc := NewEquipementService(equipements, employes, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2025, 1, 6, 8, 0, 0, 0, time.UTC) }

	e, err := svc.Create(context.Background(), &dto.CreateEquipementRequest{
		Nom:        "Perceuse",
		Type:       "outillage",
		StockTotal: stock,
	}, "admin")
	if err != nil {
		t.Fatalf("seed equipement: %v", err)
	}
	return svc, equipements, employes, e.EquipementID
}

func TestEquipementService_Create_FillsStockAndReference(t *testing.T) {
	svc, _, _, id := newEquipementFixture(t, 5)

	e, err := svc.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if e.StockDisponible != 5 || e.Statut != model.EquipementDisponible {
		t.Errorf("stock=%d statut=%s, want 5/disponible", e.StockDisponible, e.Statut)
	}
	if e.Reference == "" {
		t.Error("reference should be minted on create")
	}
}

func TestEquipementService_ReservationScenario(t *testing.T) {
	svc, _, _, id := newEquipementFixture(t, 5)
	ctx := context.Background()

	// 5 → reserve 3 → 2, still disponible
	e, err := svc.Reserver(ctx, id, 3)
	if err != nil {
		t.Fatalf("reserve 3: %v", err)
	}
	if e.StockDisponible != 2 || e.Statut != model.EquipementDisponible {
		t.Errorf("after reserve 3: stock=%d statut=%s, want 2/disponible", e.StockDisponible, e.Statut)
	}

	// 2 → reserve 2 → 0, flips to reserve
	e, err = svc.Reserver(ctx, id, 2)
	if err != nil {
		t.Fatalf("reserve 2: %v", err)
	}
	if e.StockDisponible != 0 || e.Statut != model.EquipementReserve {
		t.Errorf("after reserve 2: stock=%d statut=%s, want 0/reserve", e.StockDisponible, e.Statut)
	}

	// 0 → reserve 1 fails, stock untouched
	if _, err := svc.Reserver(ctx, id, 1); !errors.Is(err, ErrStockInsuffisant) {
		t.Fatalf("reserve beyond stock: got %v, want ErrStockInsuffisant", err)
	}
	e, _ = svc.Get(ctx, id)
	if e.StockDisponible != 0 {
		t.Errorf("failed reservation changed stock: %d", e.StockDisponible)
	}
}

func TestEquipementService_Liberer_CappedAtTotal(t *testing.T) {
	svc, _, _, id := newEquipementFixture(t, 5)
	ctx := context.Background()

	if _, err := svc.Reserver(ctx, id, 2); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	e, err := svc.Liberer(ctx, id, 10)
	if err != nil {
		t.Fatalf("liberer: %v", err)
	}
	if e.StockDisponible != 5 {
		t.Errorf("stock = %d, want capped at total 5", e.StockDisponible)
	}
	if e.Statut != model.EquipementDisponible {
		t.Errorf("statut = %s, want disponible", e.Statut)
	}
}

func TestEquipementService_Utiliser_Retourner(t *testing.T) {
	svc, _, employes, id := newEquipementFixture(t, 2)
	ctx := context.Background()

	technicien := seedEmploye(t, employes, "E001")

	e, err := svc.Utiliser(ctx, id, &dto.UtiliserEquipementRequest{TechnicienID: technicien, Quantite: 1})
	if err != nil {
		t.Fatalf("utiliser: %v", err)
	}
	if e.Statut != model.EquipementEnUtilisation || e.TechnicienID == nil || *e.TechnicienID != technicien {
		t.Errorf("after utiliser: statut=%s technicien=%v", e.Statut, e.TechnicienID)
	}
	if e.NombreUtilisations != 1 {
		t.Errorf("nombre_utilisations = %d, want 1", e.NombreUtilisations)
	}

	// return clears the technician but does not restore stock
	e, err = svc.Retourner(ctx, id)
	if err != nil {
		t.Fatalf("retourner: %v", err)
	}
	if e.TechnicienID != nil || e.Statut != model.EquipementDisponible {
		t.Errorf("after retourner: statut=%s technicien=%v", e.Statut, e.TechnicienID)
	}
	if e.StockDisponible != 1 {
		t.Errorf("stock = %d, retour must not restore availability", e.StockDisponible)
	}
}

func TestEquipementService_Utiliser_UnknownTechnicien(t *testing.T) {
	svc, _, _, id := newEquipementFixture(t, 2)

	_, err := svc.Utiliser(context.Background(), id, &dto.UtiliserEquipementRequest{
		TechnicienID: "0b2d7f3e-0000-0000-0000-000000000000",
		Quantite:     1,
	})
	if !errors.Is(err, ErrEmployeNotFound) {
		t.Fatalf("unknown technicien: got %v, want ErrEmployeNotFound", err)
	}
}

func TestEquipementService_MaintenanceCycle(t *testing.T) {
	svc, _, _, id := newEquipementFixture(t, 2)
	ctx := context.Background()

	date := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	e, err := svc.PlanifierMaintenance(ctx, id, &dto.PlanifierMaintenanceRequest{Date: date, Description: "revision annuelle"})
	if err != nil {
		t.Fatalf("planifier: %v", err)
	}
	if e.Statut != model.EquipementMaintenance {
		t.Errorf("statut = %s, want maintenance", e.Statut)
	}

	e, err = svc.TerminerMaintenance(ctx, id, &dto.TerminerMaintenanceRequest{Etat: model.EtatBon, Rapport: "ok"})
	if err != nil {
		t.Fatalf("terminer: %v", err)
	}
	if e.Statut != model.EquipementDisponible || e.Etat != model.EtatBon {
		t.Errorf("after maintenance: statut=%s etat=%s", e.Statut, e.Etat)
	}
	if n := len(e.HistoriqueMaintenance); n != 1 {
		t.Fatalf("maintenance history = %d entries, want 1", n)
	}
	last := e.HistoriqueMaintenance[0]
	if last.TermineeLe == nil || last.Rapport != "ok" || last.NouvelEtat != model.EtatBon {
		t.Errorf("history entry = %+v", last)
	}
}

func TestEquipementService_Inactif(t *testing.T) {
	svc, equipements, _, id := newEquipementFixture(t, 2)

	equipements.equipements[id].Actif = false

	if _, err := svc.Reserver(context.Background(), id, 1); !errors.Is(err, ErrEquipementInactif) {
		t.Fatalf("reserve on inactive: got %v, want ErrEquipementInactif", err)
	}
}
