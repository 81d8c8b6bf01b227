package model

import (
	"testing"
	"time"
)

func ts(s string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                       string
		aDebut, aFin, bDebut, bFin string
		want                       bool
	}{
		{"disjoint", "2025-01-06 08:00", "2025-01-06 12:00", "2025-01-06 13:00", "2025-01-06 14:00", false},
		{"partial overlap", "2025-01-06 08:00", "2025-01-06 12:00", "2025-01-06 11:00", "2025-01-06 13:00", true},
		{"contained", "2025-01-06 08:00", "2025-01-06 12:00", "2025-01-06 09:00", "2025-01-06 10:00", true},
		{"containing", "2025-01-06 09:00", "2025-01-06 10:00", "2025-01-06 08:00", "2025-01-06 12:00", true},
		{"identical", "2025-01-06 08:00", "2025-01-06 12:00", "2025-01-06 08:00", "2025-01-06 12:00", true},
		// half-open semantics: touching boundaries do not overlap
		{"touching end-start", "2025-01-06 08:00", "2025-01-06 12:00", "2025-01-06 12:00", "2025-01-06 13:00", false},
		{"touching start-end", "2025-01-06 12:00", "2025-01-06 13:00", "2025-01-06 08:00", "2025-01-06 12:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overlaps(ts(tt.aDebut), ts(tt.aFin), ts(tt.bDebut), ts(tt.bFin))
			if got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPlanning_ConflitAvec(t *testing.T) {
	base := Planning{
		PlanningID: "p-1",
		EmployeID:  "emp-1",
		Statut:     PlanningPlanifie,
		DateDebut:  ts("2025-01-06 08:00"),
		DateFin:    ts("2025-01-06 12:00"),
	}

	overlap := Planning{
		PlanningID: "p-2",
		EmployeID:  "emp-1",
		Statut:     PlanningPlanifie,
		DateDebut:  ts("2025-01-06 11:00"),
		DateFin:    ts("2025-01-06 13:00"),
	}
	if !base.ConflitAvec(&overlap) {
		t.Error("overlapping windows for the same employe should conflict")
	}

	otherEmploye := overlap
	otherEmploye.EmployeID = "emp-2"
	if base.ConflitAvec(&otherEmploye) {
		t.Error("different employes never conflict")
	}

	cancelled := overlap
	cancelled.Statut = PlanningAnnule
	if base.ConflitAvec(&cancelled) {
		t.Error("cancelled entries are excluded from conflict detection")
	}

	same := base
	if base.ConflitAvec(&same) {
		t.Error("an entry does not conflict with itself")
	}

	touching := Planning{
		PlanningID: "p-3",
		EmployeID:  "emp-1",
		Statut:     PlanningPlanifie,
		DateDebut:  ts("2025-01-06 12:00"),
		DateFin:    ts("2025-01-06 13:00"),
	}
	if base.ConflitAvec(&touching) {
		t.Error("boundary touch is not a conflict under half-open semantics")
	}
}

func TestPlanning_Demarrer(t *testing.T) {
	now := ts("2025-01-06 08:05")

	p := Planning{Statut: PlanningPlanifie}
	if !p.Demarrer(now) {
		t.Fatal("Demarrer should succeed from planifie")
	}
	if p.Statut != PlanningEnCours {
		t.Errorf("statut = %s, want en_cours", p.Statut)
	}
	if p.HeureDebutReelle == nil || !p.HeureDebutReelle.Equal(now) {
		t.Error("actual start time should be recorded")
	}

	for _, statut := range []string{PlanningEnCours, PlanningTermine, PlanningAnnule, PlanningEnAttente} {
		p := Planning{Statut: statut}
		if p.Demarrer(now) {
			t.Errorf("Demarrer should fail from %s", statut)
		}
	}
}

func TestPlanning_Terminer(t *testing.T) {
	debut := ts("2025-01-06 08:00")
	fin := ts("2025-01-06 11:30")

	p := Planning{Statut: PlanningEnCours, HeureDebutReelle: &debut}
	if !p.Terminer(fin) {
		t.Fatal("Terminer should succeed from en_cours")
	}
	if p.Statut != PlanningTermine {
		t.Errorf("statut = %s, want termine", p.Statut)
	}
	if p.DureeReelleMinutes == nil || *p.DureeReelleMinutes != 210 {
		t.Errorf("duree_reelle_minutes = %v, want 210", p.DureeReelleMinutes)
	}

	// explicitly supplied duration is not overwritten
	duree := 120
	p2 := Planning{Statut: PlanningEnCours, HeureDebutReelle: &debut, DureeReelleMinutes: &duree}
	p2.Terminer(fin)
	if *p2.DureeReelleMinutes != 120 {
		t.Errorf("explicit duration overwritten: %d", *p2.DureeReelleMinutes)
	}

	p3 := Planning{Statut: PlanningPlanifie}
	if p3.Terminer(fin) {
		t.Error("Terminer should fail from planifie")
	}
}

func TestPlanning_Valider(t *testing.T) {
	now := ts("2025-01-07 09:00")
	p := Planning{Statut: PlanningEnAttente}

	p.Valider("val-1", "ok pour moi", now)
	if p.ValideParID == nil || *p.ValideParID != "val-1" {
		t.Error("validator id should be stamped")
	}
	if p.DateValidation == nil || !p.DateValidation.Equal(now) {
		t.Error("validation timestamp should be stamped")
	}
	// validation carries no state precondition
	if p.Statut != PlanningEnAttente {
		t.Error("Valider must not change the statut")
	}
}

func TestPlanning_PeutEtreModifie(t *testing.T) {
	now := ts("2025-01-06 08:00")

	p := Planning{Statut: PlanningPlanifie, DateDebut: ts("2025-01-06 10:00")}
	if !p.PeutEtreModifie(now) {
		t.Error("planifie starting in 2h should be modifiable")
	}

	soon := Planning{Statut: PlanningPlanifie, DateDebut: ts("2025-01-06 08:30")}
	if soon.PeutEtreModifie(now) {
		t.Error("entry starting within the hour is frozen")
	}

	started := Planning{Statut: PlanningEnCours, DateDebut: ts("2025-01-06 10:00")}
	if started.PeutEtreModifie(now) {
		t.Error("en_cours entry is not modifiable")
	}
}

func TestPlanning_PeutEtreAnnule(t *testing.T) {
	now := ts("2025-01-06 08:00")

	p := Planning{Statut: PlanningEnCours, DateDebut: ts("2025-01-06 09:00")}
	if !p.PeutEtreAnnule(now) {
		t.Error("future non-terminal entry should be cancellable")
	}

	past := Planning{Statut: PlanningPlanifie, DateDebut: ts("2025-01-06 07:00")}
	if past.PeutEtreAnnule(now) {
		t.Error("entry already begun cannot be cancelled")
	}

	done := Planning{Statut: PlanningTermine, DateDebut: ts("2025-01-06 09:00")}
	if done.PeutEtreAnnule(now) {
		t.Error("termine entry cannot be cancelled")
	}
}
