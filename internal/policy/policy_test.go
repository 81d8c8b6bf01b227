package policy

import (
	"testing"

	"github.com/philippe-delaval/Lesot-bon/internal/model"
)

func demandeFixture(createur, receveur, statut string) *model.Demande {
	d := &model.Demande{
		CreateurID: createur,
		Statut:     statut,
	}
	if receveur != "" {
		d.ReceveurID = &receveur
	}
	return d
}

func TestCanAssignDemande(t *testing.T) {
	createur := Actor{UserID: "u-createur", Role: model.UserRoleMembre}
	autre := Actor{UserID: "u-autre", Role: model.UserRoleMembre}
	admin := Actor{UserID: "u-admin", Role: model.UserRoleAdmin}

	d := demandeFixture("u-createur", "", model.DemandeEnAttente)

	if !CanAssignDemande(createur, d) {
		t.Error("creator should assign a pending demande")
	}
	if CanAssignDemande(autre, d) {
		t.Error("another user must not assign")
	}
	if !CanAssignDemande(admin, d) {
		t.Error("admin passes every gate")
	}

	assignee := demandeFixture("u-createur", "u-autre", model.DemandeAssignee)
	if CanAssignDemande(createur, assignee) {
		t.Error("already assigned, creator must not re-assign")
	}
}

func TestCanCompleteDemande(t *testing.T) {
	createur := Actor{UserID: "u-createur", Role: model.UserRoleMembre}
	receveur := Actor{UserID: "u-receveur", Role: model.UserRoleMembre}

	d := demandeFixture("u-createur", "u-receveur", model.DemandeAssignee)

	if CanCompleteDemande(createur, d) {
		t.Error("creator must not complete, only the receiver")
	}
	if !CanCompleteDemande(receveur, d) {
		t.Error("receiver should complete an assigned demande")
	}

	d.Statut = model.DemandeEnAttente
	if CanCompleteDemande(receveur, d) {
		t.Error("pending demande is not completable")
	}
}

func TestCanConvertDemande(t *testing.T) {
	createur := Actor{UserID: "u-createur", Role: model.UserRoleMembre}
	receveur := Actor{UserID: "u-receveur", Role: model.UserRoleMembre}
	autre := Actor{UserID: "u-autre", Role: model.UserRoleMembre}

	d := demandeFixture("u-createur", "u-receveur", model.DemandeTerminee)

	if !CanConvertDemande(createur, d) || !CanConvertDemande(receveur, d) {
		t.Error("both the creator and the receiver may convert")
	}
	if CanConvertDemande(autre, d) {
		t.Error("third parties must not convert")
	}

	attID := "att-1"
	d.AttachementID = &attID
	if CanConvertDemande(createur, d) {
		t.Error("already converted, conversion must be denied")
	}

	d2 := demandeFixture("u-createur", "u-receveur", model.DemandeEnCours)
	if CanConvertDemande(createur, d2) {
		t.Error("only a completed demande converts")
	}
}

func TestCanUpdateAttachement_SignedIsImmutable(t *testing.T) {
	admin := Actor{UserID: "u-admin", Role: model.UserRoleAdmin}

	att := &model.Attachement{
		SignatureClientPath:     "signatures/client.png",
		SignatureEntreprisePath: "signatures/entreprise.png",
	}
	if CanUpdateAttachement(admin, att) {
		t.Error("a signed attachement is immutable, even for admins")
	}
	if CanDeleteAttachement(admin, att) {
		t.Error("a signed attachement must not be deleted")
	}

	unsigned := &model.Attachement{SignatureClientPath: "signatures/client.png"}
	if !CanUpdateAttachement(admin, unsigned) {
		t.Error("half-signed attachement is still editable")
	}
}

func TestCanValidatePlanning(t *testing.T) {
	if CanValidatePlanning(Actor{Role: model.UserRoleMembre}) {
		t.Error("members must not validate plannings")
	}
	if !CanValidatePlanning(Actor{Role: model.UserRoleManager}) {
		t.Error("managers validate plannings")
	}
}
