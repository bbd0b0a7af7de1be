package domain

type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
	RoleViewer Role = "VIEWER"
)

// Actor is the authenticated user on whose behalf an operation runs.
type Actor struct {
	UserID string
	Name   string
	Role   Role
}

// CanMutate reports whether the actor's role allows writes.
func (a Actor) CanMutate() bool {
	return a.UserID != "" && a.Role != RoleViewer
}
