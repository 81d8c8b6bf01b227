package model

// Application roles.
const (
	UserRoleAdmin   = "admin"
	UserRoleManager = "manager"
	UserRoleMembre  = "membre"
)

// User is an authentication principal. Demandes are created by one user and
// routed to another; authorization gates key on those two identities.
type User struct {
	UserID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Nom          string `gorm:"type:varchar(100);not null"                     json:"nom"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string `gorm:"type:varchar(20);not null;default:'membre'"     json:"role"` // admin | manager | membre
	Active       bool   `gorm:"not null;default:true"                          json:"active"`
	VersionedModel
}

func (User) TableName() string { return "users" }
