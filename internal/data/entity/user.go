package entity

type UserRole string

const (
	UserRoleCustomer UserRole = "customer"
	UserRoleAdmin    UserRole = "admin"
)

type User struct {
	Base
	Email        string   `db:"email"`
	PasswordHash string   `db:"password_hash"`
	Name         string   `db:"name"`
	Phone        string   `db:"phone"`
	Role         UserRole `db:"role"`
}
