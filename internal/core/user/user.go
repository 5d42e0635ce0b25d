package user

import (
	userDatamodel "github.com/frahmantamala/timesheet-tracker/internal/core/datamodel/user"
)

type Role string

const (
	RoleEmployee   Role = "employee"
	RoleTeamLeader Role = "team_leader"
	RoleAdmin      Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleEmployee, RoleTeamLeader, RoleAdmin:
		return true
	}
	return false
}

// Actor is the authenticated caller as seen by the services. It is also used
// to describe the target user of an operation.
type Actor struct {
	ID           int64
	Username     string
	Role         Role
	TeamLeaderID *int64
}

func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == RoleAdmin
}

func (a *Actor) IsTeamLeader() bool {
	return a != nil && a.Role == RoleTeamLeader
}

func (a *Actor) IsEmployee() bool {
	return a != nil && a.Role == RoleEmployee
}

// Leads reports whether a is the direct team leader of other.
func (a *Actor) Leads(other *Actor) bool {
	if a == nil || other == nil || other.TeamLeaderID == nil {
		return false
	}
	return a.Role == RoleTeamLeader && *other.TeamLeaderID == a.ID
}

func ActorFromModel(u *userDatamodel.User) *Actor {
	if u == nil {
		return nil
	}
	return &Actor{
		ID:           u.ID,
		Username:     u.Username,
		Role:         Role(u.Role),
		TeamLeaderID: u.TeamLeaderID,
	}
}
