package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/philippe-delaval/Lesot-bon/internal/dto"
	"github.com/philippe-delaval/Lesot-bon/internal/model"
	"github.com/philippe-delaval/Lesot-bon/internal/policy"
)

func newDemandeFixture(t *testing.T) (*DemandeService, *mockDemandeRepo, *mockAttachementRepo, *mockClientRepo) {
	t.Helper()
	demandes := newMockDemandeRepo()
	attachements := newMockAttachementRepo()
	clients := newMockClientRepo()

	svc := NewDemandeService(demandes, attachements, clients, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC) }
	return svc, demandes, attachements, clients
}

var (
	createur = policy.Actor{UserID: "u-createur", Role: model.UserRoleMembre}
	receveur = policy.Actor{UserID: "u-receveur", Role: model.UserRoleMembre}
	tiers    = policy.Actor{UserID: "u-tiers", Role: model.UserRoleMembre}
)

func TestDemandeService_Workflow(t *testing.T) {
	svc, _, _, _ := newDemandeFixture(t)
	ctx := context.Background()

	d, err := svc.Create(ctx, &dto.CreateDemandeRequest{Titre: "Renfort chantier"}, createur)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if d.Statut != model.DemandeEnAttente {
		t.Errorf("statut = %s, want en_attente", d.Statut)
	}
	if !strings.HasPrefix(d.NumeroDemande, "DEM-") {
		t.Errorf("numero = %q", d.NumeroDemande)
	}

	d, err = svc.Assigner(ctx, d.DemandeID, &dto.AssignDemandeRequest{ReceveurID: receveur.UserID}, createur)
	if err != nil {
		t.Fatalf("assigner: %v", err)
	}
	if d.Statut != model.DemandeAssignee || d.DateAssignation == nil {
		t.Errorf("after assign: statut=%s date_assignation=%v", d.Statut, d.DateAssignation)
	}

	d, err = svc.Demarrer(ctx, d.DemandeID, receveur)
	if err != nil {
		t.Fatalf("demarrer: %v", err)
	}
	if d.Statut != model.DemandeEnCours {
		t.Errorf("statut = %s, want en_cours", d.Statut)
	}

	d, err = svc.Terminer(ctx, d.DemandeID, &dto.CompleteDemandeRequest{NotesReceveur: "fait"}, receveur)
	if err != nil {
		t.Fatalf("terminer: %v", err)
	}
	if d.Statut != model.DemandeTerminee || d.DateCompletion == nil {
		t.Errorf("after terminer: statut=%s date_completion=%v", d.Statut, d.DateCompletion)
	}
}

func TestDemandeService_PolicyGates(t *testing.T) {
	svc, _, _, _ := newDemandeFixture(t)
	ctx := context.Background()

	d, err := svc.Create(ctx, &dto.CreateDemandeRequest{Titre: "Renfort"}, createur)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// only the creator assigns
	if _, err := svc.Assigner(ctx, d.DemandeID, &dto.AssignDemandeRequest{ReceveurID: receveur.UserID}, tiers); !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("third-party assign: got %v, want ErrNotAuthorized", err)
	}
	if _, err := svc.Assigner(ctx, d.DemandeID, &dto.AssignDemandeRequest{ReceveurID: receveur.UserID}, createur); err != nil {
		t.Fatalf("creator assign: %v", err)
	}

	// only the receiver completes
	if _, err := svc.Terminer(ctx, d.DemandeID, &dto.CompleteDemandeRequest{}, createur); !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("creator terminer: got %v, want ErrNotAuthorized", err)
	}
}

func TestDemandeService_Terminer_FromPendingFails(t *testing.T) {
	svc, _, _, _ := newDemandeFixture(t)
	ctx := context.Background()

	d, err := svc.Create(ctx, &dto.CreateDemandeRequest{Titre: "Renfort"}, createur)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	admin := policy.Actor{UserID: "u-admin", Role: model.UserRoleAdmin}
	if _, err := svc.Terminer(ctx, d.DemandeID, &dto.CompleteDemandeRequest{}, admin); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("terminer from en_attente: got %v, want ErrInvalidTransition", err)
	}
}

func TestDemandeService_ConvertirEnAttachement(t *testing.T) {
	svc, demandes, _, clients := newDemandeFixture(t)
	ctx := context.Background()

	client := &model.Client{Code: "CL-01", NomSociete: "SARL Lesot"}
	if err := clients.Create(ctx, client); err != nil {
		t.Fatalf("seed client: %v", err)
	}

	d, err := svc.Create(ctx, &dto.CreateDemandeRequest{
		Titre:            "Renfort",
		ClientID:         &client.ClientID,
		LieuIntervention: "Zone industrielle, Arras",
	}, createur)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Assigner(ctx, d.DemandeID, &dto.AssignDemandeRequest{ReceveurID: receveur.UserID}, createur); err != nil {
		t.Fatalf("assigner: %v", err)
	}
	if _, err := svc.Terminer(ctx, d.DemandeID, &dto.CompleteDemandeRequest{}, receveur); err != nil {
		t.Fatalf("terminer: %v", err)
	}

	att, err := svc.ConvertirEnAttachement(ctx, d.DemandeID, receveur)
	if err != nil {
		t.Fatalf("convertir: %v", err)
	}
	if att.LieuIntervention != "Zone industrielle, Arras" {
		t.Errorf("lieu = %q, conversion must carry the location", att.LieuIntervention)
	}
	if att.ClientID == nil || *att.ClientID != client.ClientID {
		t.Errorf("client linkage lost: %v", att.ClientID)
	}
	if att.NomClient != "SARL Lesot" {
		t.Errorf("nom_client = %q", att.NomClient)
	}
	if !strings.HasPrefix(att.NumeroDossier, "ATT-") {
		t.Errorf("numero_dossier = %q", att.NumeroDossier)
	}

	// the demande now points at its attachement and cannot convert again
	d2, _ := demandes.GetByID(ctx, d.DemandeID)
	if d2.AttachementID == nil || *d2.AttachementID != att.AttachementID {
		t.Errorf("demande.attachement_id = %v", d2.AttachementID)
	}
	if _, err := svc.ConvertirEnAttachement(ctx, d.DemandeID, receveur); !errors.Is(err, ErrDemandeNotConvertible) {
		t.Fatalf("double conversion: got %v, want ErrDemandeNotConvertible", err)
	}
}

func TestDemandeService_Annuler(t *testing.T) {
	svc, _, _, _ := newDemandeFixture(t)
	ctx := context.Background()

	d, err := svc.Create(ctx, &dto.CreateDemandeRequest{Titre: "Renfort"}, createur)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Annuler(ctx, d.DemandeID, tiers); !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("third-party cancel: got %v, want ErrNotAuthorized", err)
	}

	d, err = svc.Annuler(ctx, d.DemandeID, createur)
	if err != nil {
		t.Fatalf("annuler: %v", err)
	}
	if d.Statut != model.DemandeAnnulee {
		t.Errorf("statut = %s, want annulee", d.Statut)
	}

	if _, err := svc.Annuler(ctx, d.DemandeID, createur); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("cancel terminal: got %v, want ErrNotAuthorized (policy denies on terminal)", err)
	}
}
