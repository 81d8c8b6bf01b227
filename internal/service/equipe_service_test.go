package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/philippe-delaval/Lesot-bon/internal/dto"
	"github.com/philippe-delaval/Lesot-bon/internal/model"
)

func newEquipeFixture(t *testing.T, capacite int) (*EquipeService, *mockEquipeRepo, *mockEmployeRepo, string) {
	t.Helper()
	equipes := newMockEquipeRepo()
	employes := newMockEmployeRepo()

	svc := NewEquipeService(equipes, employes, zap.NewNop())

	equipe, err := svc.Create(context.Background(), &dto.CreateEquipeRequest{
		Nom:         "Equipe Nord",
		Code:        "EQ-NORD",
		CapaciteMax: capacite,
	}, "admin")
	if err != nil {
		t.Fatalf("seed equipe: %v", err)
	}
	return svc, equipes, employes, equipe.EquipeID
}

func seedEmploye(t *testing.T, employes *mockEmployeRepo, matricule string) string {
	t.Helper()
	e := &model.Employe{Matricule: matricule, Nom: "Nom", Prenom: "Prenom", Disponibilite: model.DispoDisponible}
	if err := employes.Create(context.Background(), e); err != nil {
		t.Fatalf("seed employe: %v", err)
	}
	return e.EmployeID
}

func TestEquipeService_AjouterEmploye_CapacityCeiling(t *testing.T) {
	svc, _, employes, equipeID := newEquipeFixture(t, 2)
	ctx := context.Background()

	e1 := seedEmploye(t, employes, "E001")
	e2 := seedEmploye(t, employes, "E002")
	e3 := seedEmploye(t, employes, "E003")

	if _, err := svc.AjouterEmploye(ctx, equipeID, &dto.AddMembreRequest{EmployeID: e1}); err != nil {
		t.Fatalf("first member: %v", err)
	}
	if _, err := svc.AjouterEmploye(ctx, equipeID, &dto.AddMembreRequest{EmployeID: e2, RoleEquipe: model.RoleEquipeChef}); err != nil {
		t.Fatalf("second member: %v", err)
	}

	if _, err := svc.AjouterEmploye(ctx, equipeID, &dto.AddMembreRequest{EmployeID: e3}); !errors.Is(err, ErrEquipeComplete) {
		t.Fatalf("third member on capacite_max=2: got %v, want ErrEquipeComplete", err)
	}

	n, statut, err := svc.Effectif(ctx, equipeID)
	if err != nil {
		t.Fatalf("effectif: %v", err)
	}
	if n != 2 || statut != "complete" {
		t.Errorf("effectif = %d/%s, want 2/complete", n, statut)
	}
}

func TestEquipeService_AjouterEmploye_MovesMembership(t *testing.T) {
	svc, equipes, employes, equipeID := newEquipeFixture(t, 5)
	ctx := context.Background()

	autre, err := svc.Create(ctx, &dto.CreateEquipeRequest{Nom: "Equipe Sud", Code: "EQ-SUD", CapaciteMax: 5}, "admin")
	if err != nil {
		t.Fatalf("second equipe: %v", err)
	}

	employeID := seedEmploye(t, employes, "E001")

	if _, err := svc.AjouterEmploye(ctx, equipeID, &dto.AddMembreRequest{EmployeID: employeID}); err != nil {
		t.Fatalf("join first equipe: %v", err)
	}
	if _, err := svc.AjouterEmploye(ctx, autre.EquipeID, &dto.AddMembreRequest{EmployeID: employeID}); err != nil {
		t.Fatalf("join second equipe: %v", err)
	}

	// the first membership must have been closed
	membre, err := equipes.GetActiveMembership(ctx, employeID)
	if err != nil {
		t.Fatalf("active membership: %v", err)
	}
	if membre.EquipeID != autre.EquipeID {
		t.Errorf("active membership in %s, want %s", membre.EquipeID, autre.EquipeID)
	}

	n, _, err := svc.Effectif(ctx, equipeID)
	if err != nil {
		t.Fatalf("effectif: %v", err)
	}
	if n != 0 {
		t.Errorf("first equipe effectif = %d, want 0", n)
	}
}

func TestEquipeService_AjouterEmploye_InactiveEquipe(t *testing.T) {
	svc, equipes, employes, equipeID := newEquipeFixture(t, 5)
	ctx := context.Background()

	equipe := equipes.equipes[equipeID]
	equipe.Active = false

	employeID := seedEmploye(t, employes, "E001")
	if _, err := svc.AjouterEmploye(ctx, equipeID, &dto.AddMembreRequest{EmployeID: employeID}); !errors.Is(err, ErrEquipeInactive) {
		t.Fatalf("inactive equipe: got %v, want ErrEquipeInactive", err)
	}
}

func TestEquipeService_RetirerEmploye(t *testing.T) {
	svc, _, employes, equipeID := newEquipeFixture(t, 2)
	ctx := context.Background()

	employeID := seedEmploye(t, employes, "E001")
	if _, err := svc.AjouterEmploye(ctx, equipeID, &dto.AddMembreRequest{EmployeID: employeID}); err != nil {
		t.Fatalf("join: %v", err)
	}

	if err := svc.RetirerEmploye(ctx, equipeID, employeID); err != nil {
		t.Fatalf("retirer: %v", err)
	}
	if err := svc.RetirerEmploye(ctx, equipeID, employeID); !errors.Is(err, ErrMembreNotFound) {
		t.Fatalf("second retirer: got %v, want ErrMembreNotFound", err)
	}

	// the slot freed by the departure can be reused
	e2 := seedEmploye(t, employes, "E002")
	if _, err := svc.AjouterEmploye(ctx, equipeID, &dto.AddMembreRequest{EmployeID: e2}); err != nil {
		t.Fatalf("rejoin after departure: %v", err)
	}
}
