package domain

import (
	"bytes"
	"fmt"
	"strconv"
)

// Role is the coarse capability level of a user. The ordering is the
// policy: RoleUser < RoleManager < RoleAdmin.
type Role int

const (
	RoleUser    Role = 0
	RoleManager Role = 1
	RoleAdmin   Role = 2
)

var roleLabels = map[Role]string{
	RoleUser:    "User",
	RoleManager: "Manager",
	RoleAdmin:   "Admin",
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := roleLabels[r]
	return ok
}

func (r Role) String() string {
	if label, ok := roleLabels[r]; ok {
		return label
	}
	return "Unknown"
}

// UnmarshalJSON accepts only the ordinal form. String roles ("ADMIN") are
// rejected rather than guessed.
func (r *Role) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = RoleUser
		return nil
	}
	n, err := strconv.Atoi(string(data))
	if err != nil {
		return fmt.Errorf("role: expected ordinal, got %s", data)
	}
	role := Role(n)
	if !role.Valid() {
		return fmt.Errorf("role: unknown ordinal %d", n)
	}
	*r = role
	return nil
}

// ParseRole converts a query/form value ("0", "1", "2") to a Role.
func ParseRole(s string) (Role, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("role: %q is not an ordinal", s)
	}
	role := Role(n)
	if !role.Valid() {
		return 0, fmt.Errorf("role: unknown ordinal %d", n)
	}
	return role, nil
}

// Roles lists every role in ascending order.
func Roles() []Role {
	return []Role{RoleUser, RoleManager, RoleAdmin}
}

// RoleOption is a role as offered in the admin role picker.
type RoleOption struct {
	Value Role   `json:"value"`
	Label string `json:"label"`
}

// RoleOptions lists the selectable roles with their labels.
func RoleOptions() []RoleOption {
	roles := Roles()
	opts := make([]RoleOption, len(roles))
	for i, r := range roles {
		opts[i] = RoleOption{Value: r, Label: r.String()}
	}
	return opts
}

// User is the authenticated actor as reported by the backend profile endpoint.
type User struct {
	ID             int64  `json:"userId"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	Fullname       string `json:"fullname"`
	Bio            string `json:"bio"`
	ProfilePicture string `json:"profilePicture"`
	Role           Role   `json:"role"`
}

// HasRole reports whether user holds at least the required level.
//
// It only decides what gets rendered (nav links, screen availability). It is
// not an access control check: the backend authorizes every protected call on
// its own.
func HasRole(user *User, required Role) bool {
	if user == nil {
		return false
	}
	return user.Role >= required
}
