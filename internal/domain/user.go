package domain

import "time"

type UserRole string

const (
	UserRoleCustomer UserRole = "customer"
	UserRolePartner  UserRole = "partner"
	UserRoleAdmin    UserRole = "admin"
)

type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      UserRole  `json:"role"`
	CreatedOn time.Time `json:"created_on"`
}
