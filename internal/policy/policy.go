// Package policy holds the per-entity authorization gates. Each function
// takes the acting user and the entity and answers allow/deny; services call
// the gate before mutating. Admins pass every gate.
package policy

import "github.com/philippe-delaval/Lesot-bon/internal/model"

// Actor is the authenticated principal the gates decide on.
type Actor struct {
	UserID string
	Role   string
}

func (a Actor) estAdmin() bool {
	return a.Role == model.UserRoleAdmin
}

// ── demandes ──

func estCreateur(a Actor, d *model.Demande) bool {
	return d.CreateurID == a.UserID
}

func estReceveur(a Actor, d *model.Demande) bool {
	return d.ReceveurID != nil && *d.ReceveurID == a.UserID
}

// CanViewDemande allows the creator, the receiver, and any admin or manager.
func CanViewDemande(a Actor, d *model.Demande) bool {
	if a.estAdmin() || a.Role == model.UserRoleManager {
		return true
	}
	return estCreateur(a, d) || estReceveur(a, d)
}

// CanUpdateDemande allows the creator while the demande is still pending.
func CanUpdateDemande(a Actor, d *model.Demande) bool {
	if a.estAdmin() {
		return true
	}
	return estCreateur(a, d) && d.Statut == model.DemandeEnAttente
}

// CanDeleteDemande allows the creator while the demande is still pending.
func CanDeleteDemande(a Actor, d *model.Demande) bool {
	if a.estAdmin() {
		return true
	}
	return estCreateur(a, d) && d.Statut == model.DemandeEnAttente
}

// CanAssignDemande allows only the creator to route a pending demande.
func CanAssignDemande(a Actor, d *model.Demande) bool {
	if a.estAdmin() {
		return true
	}
	return estCreateur(a, d) && d.Statut == model.DemandeEnAttente
}

// CanCompleteDemande allows only the receiver, once assigned or in progress.
func CanCompleteDemande(a Actor, d *model.Demande) bool {
	if a.estAdmin() {
		return true
	}
	return estReceveur(a, d) &&
		(d.Statut == model.DemandeAssignee || d.Statut == model.DemandeEnCours)
}

// CanCancelDemande allows the creator on any non-terminal demande.
func CanCancelDemande(a Actor, d *model.Demande) bool {
	if a.estAdmin() {
		return true
	}
	return estCreateur(a, d) && !d.EstTerminale()
}

// CanConvertDemande allows the creator or the receiver once the demande is
// completed and not yet converted.
func CanConvertDemande(a Actor, d *model.Demande) bool {
	if !d.PeutEtreConvertie() {
		return false
	}
	if a.estAdmin() {
		return true
	}
	return estCreateur(a, d) || estReceveur(a, d)
}

// ── attachements ──

// CanUpdateAttachement denies everyone once both signatures are present.
func CanUpdateAttachement(a Actor, att *model.Attachement) bool {
	if att.EstSigne() {
		return false
	}
	return a.estAdmin() || a.Role == model.UserRoleManager || a.Role == model.UserRoleMembre
}

// CanDeleteAttachement restricts deletion of unsigned attachements to admins
// and managers; signed attachements are immutable.
func CanDeleteAttachement(a Actor, att *model.Attachement) bool {
	if att.EstSigne() {
		return false
	}
	return a.estAdmin() || a.Role == model.UserRoleManager
}

// ── plannings ──

// CanValidatePlanning restricts validation to admins and managers.
func CanValidatePlanning(a Actor) bool {
	return a.estAdmin() || a.Role == model.UserRoleManager
}
