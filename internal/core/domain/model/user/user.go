// Package user holds the read-only identity view the marketplace needs:
// who is calling and in which role. Rows are owned by the identity service.
package user

import (
	"fmt"
	"strings"

	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/pkg/errs"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleDriver   Role = "driver"
	RoleOperator Role = "operator"
	RoleAdmin    Role = "admin"
)

// ParseRole accepts the persisted role names.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	switch r {
	case RoleCustomer, RoleDriver, RoleOperator, RoleAdmin:
		return r, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a valid role", s))
	}
}

func (r Role) String() string { return string(r) }

// User is a caller identity.
type User struct {
	id    kernel.UUID
	role  Role
	name  string
	email string
	phone string
}

func RestoreUser(id kernel.UUID, role Role, name, email, phone string) (*User, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if _, err := ParseRole(string(role)); err != nil {
		return nil, err
	}
	return &User{id: id, role: role, name: name, email: email, phone: phone}, nil
}

func (u *User) ID() kernel.UUID { return u.id }
func (u *User) Role() Role      { return u.role }
func (u *User) Name() string    { return u.name }
func (u *User) Email() string   { return u.email }
func (u *User) Phone() string   { return u.phone }

func (u *User) IsAdmin() bool { return u.role == RoleAdmin }
