package models

import "time"

type Team struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	VotingSystem int       `gorm:"not null;default:0" json:"voting_system"`
	ImageURL     string    `gorm:"size:255" json:"image_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Voting systems. Only the Fibonacci deck exists today.
const VotingSystemFibonacci = 0

type Membership struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	TeamID uint `gorm:"not null;index:idx_memberships_team_user,unique" json:"team_id"`
	UserID uint `gorm:"not null;index:idx_memberships_team_user,unique" json:"user_id"`
	User   User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Role   int  `gorm:"not null;default:1" json:"role"`
}

// Membership roles. RoleRemoved is never stored; it is the change-role
// signal for kicking a member out of the team.
const (
	RoleAdmin     = 0
	RoleMember    = 1
	RoleSpectator = 2
	RoleRemoved   = -1
)
