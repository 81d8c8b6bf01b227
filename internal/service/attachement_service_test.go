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

func newAttachementFixture(t *testing.T) (*AttachementService, *mockAttachementRepo) {
	t.Helper()
	attachements := newMockAttachementRepo()
	svc := NewAttachementService(attachements, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC) }
	return svc, attachements
}

func TestAttachementService_SignatureLifecycle(t *testing.T) {
	svc, _ := newAttachementFixture(t)
	ctx := context.Background()
	actor := policy.Actor{UserID: "u-1", Role: model.UserRoleMembre}

	a, err := svc.Create(ctx, &dto.CreateAttachementRequest{NomClient: "SARL Dupont"}, actor.UserID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !strings.HasPrefix(a.NumeroDossier, "ATT-") {
		t.Errorf("numero_dossier = %q", a.NumeroDossier)
	}

	// first signature alone does not freeze the record
	a, err = svc.Signer(ctx, a.AttachementID, &dto.SignerAttachementRequest{
		NomSignataireClient: "M. Dupont",
		SignatureClientPath: "signatures/client.png",
	}, actor)
	if err != nil {
		t.Fatalf("premiere signature: %v", err)
	}
	if a.EstSigne() || a.DateSignature != nil {
		t.Errorf("signe=%v date_signature=%v after one signature", a.EstSigne(), a.DateSignature)
	}

	a, err = svc.Update(ctx, a.AttachementID, &dto.UpdateAttachementRequest{
		CreateAttachementRequest: dto.CreateAttachementRequest{NomClient: "SARL Dupont et Fils"},
		Version:                  a.Version,
	}, actor)
	if err != nil {
		t.Fatalf("update before second signature: %v", err)
	}

	a, err = svc.Signer(ctx, a.AttachementID, &dto.SignerAttachementRequest{
		NomSignataireEntreprise: "J. Lesot",
		SignatureEntreprisePath: "signatures/entreprise.png",
	}, actor)
	if err != nil {
		t.Fatalf("seconde signature: %v", err)
	}
	if !a.EstSigne() || a.DateSignature == nil {
		t.Fatalf("signe=%v date_signature=%v after both signatures", a.EstSigne(), a.DateSignature)
	}
	if a.SignatureClientPath != "signatures/client.png" {
		t.Errorf("first signature lost: %q", a.SignatureClientPath)
	}
}

func TestAttachementService_SignedIsImmutable(t *testing.T) {
	svc, _ := newAttachementFixture(t)
	ctx := context.Background()
	admin := policy.Actor{UserID: "u-admin", Role: model.UserRoleAdmin}

	a, err := svc.Create(ctx, &dto.CreateAttachementRequest{NomClient: "SARL Dupont"}, admin.UserID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err = svc.Signer(ctx, a.AttachementID, &dto.SignerAttachementRequest{
		SignatureClientPath:     "signatures/client.png",
		SignatureEntreprisePath: "signatures/entreprise.png",
	}, admin); err != nil {
		t.Fatalf("signer: %v", err)
	}

	if _, err = svc.Signer(ctx, a.AttachementID, &dto.SignerAttachementRequest{
		SignatureClientPath: "signatures/autre.png",
	}, admin); !errors.Is(err, ErrAttachementSigne) {
		t.Errorf("re-sign: err = %v, want ErrAttachementSigne", err)
	}
	if _, err = svc.Update(ctx, a.AttachementID, &dto.UpdateAttachementRequest{
		CreateAttachementRequest: dto.CreateAttachementRequest{NomClient: "Autre"},
		Version:                  2,
	}, admin); !errors.Is(err, ErrAttachementSigne) {
		t.Errorf("update: err = %v, want ErrAttachementSigne", err)
	}
	if err = svc.Delete(ctx, a.AttachementID, admin); !errors.Is(err, ErrAttachementSigne) {
		t.Errorf("delete: err = %v, want ErrAttachementSigne", err)
	}
}

func TestAttachementService_DeletePolicy(t *testing.T) {
	svc, _ := newAttachementFixture(t)
	ctx := context.Background()
	membre := policy.Actor{UserID: "u-membre", Role: model.UserRoleMembre}
	manager := policy.Actor{UserID: "u-manager", Role: model.UserRoleManager}

	a, err := svc.Create(ctx, &dto.CreateAttachementRequest{NomClient: "SARL Dupont"}, membre.UserID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err = svc.Delete(ctx, a.AttachementID, membre); !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("membre delete: err = %v, want ErrNotAuthorized", err)
	}
	if err = svc.Delete(ctx, a.AttachementID, manager); err != nil {
		t.Errorf("manager delete: %v", err)
	}
}

func TestAttachementService_GetByNumero(t *testing.T) {
	svc, _ := newAttachementFixture(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, &dto.CreateAttachementRequest{NomClient: "SARL Dupont"}, "u-1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.GetByNumero(ctx, a.NumeroDossier)
	if err != nil {
		t.Fatalf("get by numero: %v", err)
	}
	if got.AttachementID != a.AttachementID {
		t.Errorf("got %s, want %s", got.AttachementID, a.AttachementID)
	}

	if _, err = svc.GetByNumero(ctx, "ATT-2025-9999"); !errors.Is(err, ErrAttachementNotFound) {
		t.Errorf("unknown numero: err = %v, want ErrAttachementNotFound", err)
	}
}
