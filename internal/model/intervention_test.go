package model

import (
	"testing"
	"time"
)

func TestIntervention_Lifecycle(t *testing.T) {
	now := time.Date(2025, 1, 6, 8, 0, 0, 0, time.UTC)
	i := Intervention{Statut: InterventionPlanifiee}

	if !i.PartirEnRoute() {
		t.Fatal("planifiee → en_route should succeed")
	}
	if !i.ArriverSurSite(now) {
		t.Fatal("en_route → sur_site should succeed")
	}
	if i.HeureArrivee == nil {
		t.Error("arrival time should be recorded")
	}
	if !i.Demarrer(now.Add(10 * time.Minute)) {
		t.Fatal("sur_site → en_cours should succeed")
	}
	if !i.Terminer(true, "fusible remplace", now.Add(70*time.Minute)) {
		t.Fatal("en_cours → terminee should succeed")
	}
	if i.Statut != InterventionTerminee {
		t.Errorf("statut = %s, want terminee", i.Statut)
	}
	if i.DureeReelleMinutes == nil || *i.DureeReelleMinutes != 60 {
		t.Errorf("duree_reelle_minutes = %v, want 60", i.DureeReelleMinutes)
	}
}

func TestIntervention_SkippingStatesFails(t *testing.T) {
	now := time.Now()
	i := Intervention{Statut: InterventionPlanifiee}

	if i.Demarrer(now) {
		t.Error("planifiee → en_cours must not skip en_route/sur_site")
	}
	if i.Terminer(true, "", now) {
		t.Error("planifiee → terminee must fail")
	}

	done := Intervention{Statut: InterventionTerminee}
	if done.Annuler() {
		t.Error("terminee is terminal")
	}
}

func TestIntervention_CalculerKPIs(t *testing.T) {
	debut := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	fin := debut.Add(100 * time.Minute)
	estimee := 90
	coutEstime := 100.0
	coutReel := 105.0
	note := 5
	ftf := true

	i := Intervention{
		HeureDebutReelle:    &debut,
		HeureFinReelle:      &fin,
		DureeEstimeeMinutes: &estimee,
		CoutEstime:          &coutEstime,
		CoutReel:            &coutReel,
		NoteClient:          &note,
		FirstTimeFix:        &ftf,
	}
	i.CalculerKPIs()

	if v, _ := i.KPIs["respect_planning"].(bool); !v {
		t.Error("10 minute deviation is within the 30 minute tolerance")
	}
	if v, _ := i.KPIs["respect_budget"].(bool); !v {
		t.Error("105 ≤ 100×1.1, budget respected")
	}
	if v, _ := i.KPIs["satisfaction_client"].(bool); !v {
		t.Error("note 5 ≥ 4, client satisfied")
	}
	if v, _ := i.KPIs["first_time_fix"].(bool); !v {
		t.Error("first_time_fix should carry through")
	}
}

func TestIntervention_CalculerKPIs_Violations(t *testing.T) {
	debut := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	fin := debut.Add(150 * time.Minute)
	estimee := 90
	coutEstime := 100.0
	coutReel := 120.0
	note := 2

	i := Intervention{
		HeureDebutReelle:    &debut,
		HeureFinReelle:      &fin,
		DureeEstimeeMinutes: &estimee,
		CoutEstime:          &coutEstime,
		CoutReel:            &coutReel,
		NoteClient:          &note,
	}
	i.CalculerKPIs()

	if v, _ := i.KPIs["respect_planning"].(bool); v {
		t.Error("60 minute deviation exceeds the tolerance")
	}
	if v, _ := i.KPIs["respect_budget"].(bool); v {
		t.Error("120 > 110, budget exceeded")
	}
	if v, _ := i.KPIs["satisfaction_client"].(bool); v {
		t.Error("note 2 < 4, client not satisfied")
	}
}
