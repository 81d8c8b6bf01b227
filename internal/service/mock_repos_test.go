package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/philippe-delaval/Lesot-bon/internal/model"
	"github.com/philippe-delaval/Lesot-bon/internal/repository"
)

// ── users ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: map[string]*model.User{}}
}

func (m *mockUserRepo) Create(_ context.Context, u *model.User) error {
	if u.UserID == "" {
		u.UserID = uuid.New().String()
	}
	u.Version = 1
	cp := *u
	m.users[u.UserID] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) List(_ context.Context, _, _ int) ([]model.User, int64, error) {
	var out []model.User
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (m *mockUserRepo) Update(_ context.Context, u *model.User) error {
	cur, ok := m.users[u.UserID]
	if !ok || cur.Version != u.Version {
		return gorm.ErrRecordNotFound
	}
	u.Version++
	cp := *u
	m.users[u.UserID] = &cp
	return nil
}

// ── employes ──

type mockEmployeRepo struct {
	employes map[string]*model.Employe
}

func newMockEmployeRepo() *mockEmployeRepo {
	return &mockEmployeRepo{employes: map[string]*model.Employe{}}
}

func (m *mockEmployeRepo) Create(_ context.Context, e *model.Employe) error {
	if e.EmployeID == "" {
		e.EmployeID = uuid.New().String()
	}
	e.Version = 1
	cp := *e
	m.employes[e.EmployeID] = &cp
	return nil
}

func (m *mockEmployeRepo) GetByID(_ context.Context, id string) (*model.Employe, error) {
	e, ok := m.employes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *mockEmployeRepo) GetByMatricule(_ context.Context, matricule string) (*model.Employe, error) {
	for _, e := range m.employes {
		if e.Matricule == matricule {
			cp := *e
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmployeRepo) List(_ context.Context, _ repository.EmployeFilter, _, _ int) ([]model.Employe, int64, error) {
	var out []model.Employe
	for _, e := range m.employes {
		out = append(out, *e)
	}
	return out, int64(len(out)), nil
}

func (m *mockEmployeRepo) ListDisponibles(_ context.Context) ([]model.Employe, error) {
	var out []model.Employe
	for _, e := range m.employes {
		if e.EstDisponible() {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *mockEmployeRepo) Update(_ context.Context, e *model.Employe) error {
	cur, ok := m.employes[e.EmployeID]
	if !ok || cur.Version != e.Version {
		return gorm.ErrRecordNotFound
	}
	e.Version++
	cp := *e
	m.employes[e.EmployeID] = &cp
	return nil
}

func (m *mockEmployeRepo) UpdateDisponibilite(_ context.Context, id, disponibilite string) error {
	e, ok := m.employes[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	e.Disponibilite = disponibilite
	return nil
}

func (m *mockEmployeRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.employes, id)
	return nil
}

// ── equipes ──

type mockEquipeRepo struct {
	equipes map[string]*model.Equipe
	membres []*model.EquipeMembre
}

func newMockEquipeRepo() *mockEquipeRepo {
	return &mockEquipeRepo{equipes: map[string]*model.Equipe{}}
}

func (m *mockEquipeRepo) Create(_ context.Context, e *model.Equipe) error {
	if e.EquipeID == "" {
		e.EquipeID = uuid.New().String()
	}
	e.Version = 1
	cp := *e
	m.equipes[e.EquipeID] = &cp
	return nil
}

func (m *mockEquipeRepo) GetByID(_ context.Context, id string) (*model.Equipe, error) {
	e, ok := m.equipes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *mockEquipeRepo) GetByCode(_ context.Context, code string) (*model.Equipe, error) {
	for _, e := range m.equipes {
		if e.Code == code {
			cp := *e
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEquipeRepo) List(_ context.Context, filter repository.EquipeFilter, _, _ int) ([]model.Equipe, int64, error) {
	var out []model.Equipe
	for _, e := range m.equipes {
		if filter.ActivesOnly && !e.Active {
			continue
		}
		out = append(out, *e)
	}
	return out, int64(len(out)), nil
}

func (m *mockEquipeRepo) Update(_ context.Context, e *model.Equipe) error {
	cur, ok := m.equipes[e.EquipeID]
	if !ok || cur.Version != e.Version {
		return gorm.ErrRecordNotFound
	}
	e.Version++
	cp := *e
	m.equipes[e.EquipeID] = &cp
	return nil
}

func (m *mockEquipeRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.equipes, id)
	return nil
}

func (m *mockEquipeRepo) CountActiveMembers(_ context.Context, equipeID string) (int, error) {
	n := 0
	for _, mb := range m.membres {
		if mb.EquipeID == equipeID && mb.Active {
			n++
		}
	}
	return n, nil
}

func (m *mockEquipeRepo) ListMembres(_ context.Context, equipeID string, activesOnly bool) ([]model.EquipeMembre, error) {
	var out []model.EquipeMembre
	for _, mb := range m.membres {
		if mb.EquipeID != equipeID {
			continue
		}
		if activesOnly && !mb.Active {
			continue
		}
		out = append(out, *mb)
	}
	return out, nil
}

func (m *mockEquipeRepo) GetActiveMembership(_ context.Context, employeID string) (*model.EquipeMembre, error) {
	for _, mb := range m.membres {
		if mb.EmployeID == employeID && mb.Active {
			cp := *mb
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEquipeRepo) AddMembre(ctx context.Context, equipeID, employeID, roleEquipe string, now time.Time) (*model.EquipeMembre, error) {
	equipe, ok := m.equipes[equipeID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	effectif, _ := m.CountActiveMembers(ctx, equipeID)
	if !equipe.PeutAccueillir(effectif) {
		return nil, repository.ErrEquipeComplete
	}
	for _, mb := range m.membres {
		if mb.EmployeID == employeID && mb.Active {
			mb.Active = false
			t := now
			mb.DateFinAffectation = &t
		}
	}
	membre := &model.EquipeMembre{
		EquipeMembreID:       uuid.New().String(),
		EquipeID:             equipeID,
		EmployeID:            employeID,
		RoleEquipe:           roleEquipe,
		DateDebutAffectation: now,
		Active:               true,
	}
	m.membres = append(m.membres, membre)
	cp := *membre
	return &cp, nil
}

func (m *mockEquipeRepo) DeactivateMembre(_ context.Context, equipeID, employeID string, now time.Time) error {
	for _, mb := range m.membres {
		if mb.EquipeID == equipeID && mb.EmployeID == employeID && mb.Active {
			mb.Active = false
			t := now
			mb.DateFinAffectation = &t
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// ── plannings ──

type mockPlanningRepo struct {
	plannings map[string]*model.Planning
}

func newMockPlanningRepo() *mockPlanningRepo {
	return &mockPlanningRepo{plannings: map[string]*model.Planning{}}
}

func (m *mockPlanningRepo) hasConflict(employeID, excludeID string, debut, fin time.Time) bool {
	for _, p := range m.plannings {
		if p.EmployeID != employeID || p.PlanningID == excludeID || p.Statut == model.PlanningAnnule {
			continue
		}
		if model.Overlaps(p.DateDebut, p.DateFin, debut, fin) {
			return true
		}
	}
	return false
}

func (m *mockPlanningRepo) CreateGuarded(_ context.Context, p *model.Planning) error {
	if m.hasConflict(p.EmployeID, "", p.DateDebut, p.DateFin) {
		return repository.ErrPlanningConflict
	}
	if p.PlanningID == "" {
		p.PlanningID = uuid.New().String()
	}
	p.Version = 1
	cp := *p
	m.plannings[p.PlanningID] = &cp
	return nil
}

func (m *mockPlanningRepo) UpdateGuarded(ctx context.Context, p *model.Planning) error {
	if m.hasConflict(p.EmployeID, p.PlanningID, p.DateDebut, p.DateFin) {
		return repository.ErrPlanningConflict
	}
	return m.Update(ctx, p)
}

func (m *mockPlanningRepo) GetByID(_ context.Context, id string) (*model.Planning, error) {
	p, ok := m.plannings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockPlanningRepo) List(_ context.Context, _ repository.PlanningFilter, _, _ int) ([]model.Planning, int64, error) {
	var out []model.Planning
	for _, p := range m.plannings {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (m *mockPlanningRepo) ListByPeriode(_ context.Context, debut, fin time.Time, employeID, equipeID string) ([]model.Planning, error) {
	var out []model.Planning
	for _, p := range m.plannings {
		if employeID != "" && p.EmployeID != employeID {
			continue
		}
		if equipeID != "" && (p.EquipeID == nil || *p.EquipeID != equipeID) {
			continue
		}
		if model.Overlaps(p.DateDebut, p.DateFin, debut, fin) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockPlanningRepo) HasConflict(_ context.Context, employeID, excludeID string, debut, fin time.Time) (bool, error) {
	return m.hasConflict(employeID, excludeID, debut, fin), nil
}

func (m *mockPlanningRepo) Update(_ context.Context, p *model.Planning) error {
	cur, ok := m.plannings[p.PlanningID]
	if !ok || cur.Version != p.Version {
		return gorm.ErrRecordNotFound
	}
	p.Version++
	cp := *p
	m.plannings[p.PlanningID] = &cp
	return nil
}

func (m *mockPlanningRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.plannings, id)
	return nil
}

// ── equipements ──

type mockEquipementRepo struct {
	equipements map[string]*model.Equipement
	seq         int
}

func newMockEquipementRepo() *mockEquipementRepo {
	return &mockEquipementRepo{equipements: map[string]*model.Equipement{}}
}

func (m *mockEquipementRepo) Create(_ context.Context, e *model.Equipement) error {
	if e.EquipementID == "" {
		e.EquipementID = uuid.New().String()
	}
	if e.Reference == "" {
		m.seq++
		e.Reference = fmt.Sprintf("EQP-%d-%04d", time.Now().Year(), m.seq)
	}
	e.Version = 1
	cp := *e
	m.equipements[e.EquipementID] = &cp
	return nil
}

func (m *mockEquipementRepo) GetByID(_ context.Context, id string) (*model.Equipement, error) {
	e, ok := m.equipements[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *mockEquipementRepo) GetByReference(_ context.Context, reference string) (*model.Equipement, error) {
	for _, e := range m.equipements {
		if e.Reference == reference {
			cp := *e
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEquipementRepo) List(_ context.Context, _ repository.EquipementFilter, _, _ int) ([]model.Equipement, int64, error) {
	var out []model.Equipement
	for _, e := range m.equipements {
		out = append(out, *e)
	}
	return out, int64(len(out)), nil
}

func (m *mockEquipementRepo) ListEnRupture(_ context.Context) ([]model.Equipement, error) {
	var out []model.Equipement
	for _, e := range m.equipements {
		if e.Actif && e.EstEnRupture() {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *mockEquipementRepo) ListMaintenanceDue(_ context.Context, now time.Time) ([]model.Equipement, error) {
	var out []model.Equipement
	for _, e := range m.equipements {
		if e.NecessiteMaintenance(now) {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *mockEquipementRepo) Update(_ context.Context, e *model.Equipement) error {
	cur, ok := m.equipements[e.EquipementID]
	if !ok || cur.Version != e.Version {
		return gorm.ErrRecordNotFound
	}
	e.Version++
	cp := *e
	m.equipements[e.EquipementID] = &cp
	return nil
}

func (m *mockEquipementRepo) Mutate(_ context.Context, id string, fn func(*model.Equipement) error) (*model.Equipement, error) {
	e, ok := m.equipements[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *e
	if err := fn(&cp); err != nil {
		return nil, err
	}
	cp.Version++
	m.equipements[id] = &cp
	out := cp
	return &out, nil
}

func (m *mockEquipementRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.equipements, id)
	return nil
}

// ── demandes ──

type mockDemandeRepo struct {
	demandes map[string]*model.Demande
	seq      int
}

func newMockDemandeRepo() *mockDemandeRepo {
	return &mockDemandeRepo{demandes: map[string]*model.Demande{}}
}

func (m *mockDemandeRepo) Create(_ context.Context, d *model.Demande) error {
	if d.DemandeID == "" {
		d.DemandeID = uuid.New().String()
	}
	if d.NumeroDemande == "" {
		m.seq++
		d.NumeroDemande = fmt.Sprintf("DEM-%d-%03d", time.Now().Year(), m.seq)
	}
	d.Version = 1
	cp := *d
	m.demandes[d.DemandeID] = &cp
	return nil
}

func (m *mockDemandeRepo) GetByID(_ context.Context, id string) (*model.Demande, error) {
	d, ok := m.demandes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *mockDemandeRepo) GetByNumero(_ context.Context, numero string) (*model.Demande, error) {
	for _, d := range m.demandes {
		if d.NumeroDemande == numero {
			cp := *d
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDemandeRepo) List(_ context.Context, filter repository.DemandeFilter, _, _ int) ([]model.Demande, int64, error) {
	var out []model.Demande
	for _, d := range m.demandes {
		if filter.CreateurID != "" && d.CreateurID != filter.CreateurID {
			continue
		}
		if filter.Statut != "" && d.Statut != filter.Statut {
			continue
		}
		out = append(out, *d)
	}
	return out, int64(len(out)), nil
}

func (m *mockDemandeRepo) CountByStatut(_ context.Context) (map[string]int64, error) {
	counts := map[string]int64{}
	for _, d := range m.demandes {
		counts[d.Statut]++
	}
	return counts, nil
}

func (m *mockDemandeRepo) Update(_ context.Context, d *model.Demande) error {
	cur, ok := m.demandes[d.DemandeID]
	if !ok || cur.Version != d.Version {
		return gorm.ErrRecordNotFound
	}
	d.Version++
	cp := *d
	m.demandes[d.DemandeID] = &cp
	return nil
}

func (m *mockDemandeRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.demandes, id)
	return nil
}

// ── attachements ──

type mockAttachementRepo struct {
	attachements map[string]*model.Attachement
	seq          int
}

func newMockAttachementRepo() *mockAttachementRepo {
	return &mockAttachementRepo{attachements: map[string]*model.Attachement{}}
}

func (m *mockAttachementRepo) Create(_ context.Context, a *model.Attachement) error {
	if a.AttachementID == "" {
		a.AttachementID = uuid.New().String()
	}
	if a.NumeroDossier == "" {
		m.seq++
		a.NumeroDossier = fmt.Sprintf("ATT-%d-%04d", time.Now().Year(), m.seq)
	}
	a.Version = 1
	cp := *a
	m.attachements[a.AttachementID] = &cp
	return nil
}

func (m *mockAttachementRepo) GetByID(_ context.Context, id string) (*model.Attachement, error) {
	a, ok := m.attachements[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *mockAttachementRepo) GetByNumeroDossier(_ context.Context, numero string) (*model.Attachement, error) {
	for _, a := range m.attachements {
		if a.NumeroDossier == numero {
			cp := *a
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAttachementRepo) List(_ context.Context, _ repository.AttachementFilter, _, _ int) ([]model.Attachement, int64, error) {
	var out []model.Attachement
	for _, a := range m.attachements {
		out = append(out, *a)
	}
	return out, int64(len(out)), nil
}

func (m *mockAttachementRepo) Update(_ context.Context, a *model.Attachement) error {
	cur, ok := m.attachements[a.AttachementID]
	if !ok || cur.Version != a.Version {
		return gorm.ErrRecordNotFound
	}
	a.Version++
	cp := *a
	m.attachements[a.AttachementID] = &cp
	return nil
}

func (m *mockAttachementRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.attachements, id)
	return nil
}

// ── clients ──

type mockClientRepo struct {
	clients map[string]*model.Client
}

func newMockClientRepo() *mockClientRepo {
	return &mockClientRepo{clients: map[string]*model.Client{}}
}

func (m *mockClientRepo) Create(_ context.Context, c *model.Client) error {
	if c.ClientID == "" {
		c.ClientID = uuid.New().String()
	}
	c.Version = 1
	cp := *c
	m.clients[c.ClientID] = &cp
	return nil
}

func (m *mockClientRepo) GetByID(_ context.Context, id string) (*model.Client, error) {
	c, ok := m.clients[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *mockClientRepo) List(_ context.Context, _ repository.ClientFilter, _, _ int) ([]model.Client, int64, error) {
	var out []model.Client
	for _, c := range m.clients {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (m *mockClientRepo) Update(_ context.Context, c *model.Client) error {
	cur, ok := m.clients[c.ClientID]
	if !ok || cur.Version != c.Version {
		return gorm.ErrRecordNotFound
	}
	c.Version++
	cp := *c
	m.clients[c.ClientID] = &cp
	return nil
}

func (m *mockClientRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.clients, id)
	return nil
}
