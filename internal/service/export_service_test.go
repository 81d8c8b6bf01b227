package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/philippe-delaval/Lesot-bon/internal/model"
)

func TestDebutDeSemaine(t *testing.T) {
	cases := []struct {
		in   time.Time
		want time.Time
	}{
		{time.Date(2025, 1, 6, 15, 30, 0, 0, time.UTC), time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)},  // Monday stays
		{time.Date(2025, 1, 8, 9, 0, 0, 0, time.UTC), time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)},    // Wednesday
		{time.Date(2025, 1, 12, 23, 59, 0, 0, time.UTC), time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)}, // Sunday
	}
	for _, c := range cases {
		if got := debutDeSemaine(c.in); !got.Equal(c.want) {
			t.Errorf("debutDeSemaine(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestExportService_ICSEmploye(t *testing.T) {
	plannings := newMockPlanningRepo()
	employes := newMockEmployeRepo()
	svc := NewExportService(plannings, employes, zap.NewNop())
	ctx := context.Background()

	employe := &model.Employe{Matricule: "E001", Nom: "Durand", Prenom: "Paul"}
	if err := employes.Create(ctx, employe); err != nil {
		t.Fatalf("seed employe: %v", err)
	}

	debut := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	entries := []*model.Planning{
		{EmployeID: employe.EmployeID, DateDebut: debut, DateFin: debut.Add(4 * time.Hour),
			TypeAffectation: model.TypeIntervention, Statut: model.PlanningPlanifie, LieuIntervention: "Arras"},
		{EmployeID: employe.EmployeID, DateDebut: debut.AddDate(0, 0, 1), DateFin: debut.AddDate(0, 0, 1).Add(time.Hour),
			TypeAffectation: model.TypeFormation, Statut: model.PlanningAnnule},
	}
	for _, p := range entries {
		if err := plannings.CreateGuarded(ctx, p); err != nil {
			t.Fatalf("seed planning: %v", err)
		}
	}

	ical, filename, err := svc.ICSEmploye(ctx, employe.EmployeID, debut.AddDate(0, 0, -1), debut.AddDate(0, 0, 7))
	if err != nil {
		t.Fatalf("ics export: %v", err)
	}
	if filename != "planning-E001.ics" {
		t.Errorf("filename = %q", filename)
	}
	if !strings.Contains(ical, "BEGIN:VCALENDAR") || !strings.Contains(ical, "SUMMARY:intervention") {
		t.Errorf("ical missing expected content:\n%s", ical)
	}
	if strings.Contains(ical, "formation") {
		t.Error("cancelled plannings must not appear in the feed")
	}
	if !strings.Contains(ical, "LOCATION:Arras") {
		t.Error("location should be carried into the event")
	}
}

func TestExportService_ExcelSemaine(t *testing.T) {
	plannings := newMockPlanningRepo()
	employes := newMockEmployeRepo()
	svc := NewExportService(plannings, employes, zap.NewNop())
	ctx := context.Background()

	debut := time.Date(2025, 1, 8, 9, 0, 0, 0, time.UTC) // Wednesday
	p := &model.Planning{
		EmployeID:       "e-1",
		DateDebut:       debut,
		DateFin:         debut.Add(2 * time.Hour),
		TypeAffectation: model.TypeIntervention,
		Statut:          model.PlanningPlanifie,
	}
	if err := plannings.CreateGuarded(ctx, p); err != nil {
		t.Fatalf("seed planning: %v", err)
	}

	buf, filename, err := svc.ExcelSemaine(ctx, debut)
	if err != nil {
		t.Fatalf("excel export: %v", err)
	}
	if filename != "planning-semaine-2025-01-06.xlsx" {
		t.Errorf("filename = %q, week should normalize to its Monday", filename)
	}
	if buf.Len() == 0 {
		t.Error("workbook should not be empty")
	}
}
