package repository

import "gorm.io/gorm"

// Repository aggregates all data-access interfaces.
type Repository struct {
	User         UserRepository
	Client       ClientRepository
	Employe      EmployeRepository
	Equipe       EquipeRepository
	Planning     PlanningRepository
	Equipement   EquipementRepository
	Demande      DemandeRepository
	Attachement  AttachementRepository
	Intervention InterventionRepository
}

// NewRepository wires the GORM implementations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:         NewUserRepo(db),
		Client:       NewClientRepo(db),
		Employe:      NewEmployeRepo(db),
		Equipe:       NewEquipeRepo(db),
		Planning:     NewPlanningRepo(db),
		Equipement:   NewEquipementRepo(db),
		Demande:      NewDemandeRepo(db),
		Attachement:  NewAttachementRepo(db),
		Intervention: NewInterventionRepo(db),
	}
}
