package types

import "fmt"

// MemberRole represents the role of a user on a board
type MemberRole string

const (
	MemberRoleOwner  MemberRole = "owner"
	MemberRoleMember MemberRole = "member"
)

// IsValid checks if the member role is valid
func (r MemberRole) IsValid() bool {
	switch r {
	case MemberRoleOwner, MemberRoleMember:
		return true
	default:
		return false
	}
}

// String returns the string representation of the member role
func (r MemberRole) String() string {
	return string(r)
}

// ParseMemberRole parses a string into a MemberRole
func ParseMemberRole(s string) (MemberRole, error) {
	r := MemberRole(s)
	if !r.IsValid() {
		return "", fmt.Errorf("invalid member role: %s", s)
	}
	return r, nil
}
