package domain

// Role distinguishes buyers from sellers. Stored uppercase in the users table.
type Role string

const (
	RoleBuyer  Role = "BUYER"
	RoleSeller Role = "SELLER"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleBuyer:
		return RoleBuyer, true
	case RoleSeller:
		return RoleSeller, true
	}
	return "", false
}

type User struct {
	ID       string `db:"id"`
	Email    string `db:"email"`
	Name     string `db:"name"`
	Hash     string `db:"password_hash"`
	Phone    string `db:"phone"`
	Role     Role   `db:"role"`
	Verified bool   `db:"verified"`
}
