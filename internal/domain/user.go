package domain

// Staff roles. Owners may additionally correct stock by hand, delete
// clients and products, and remove revenue records.
const (
	RoleOwner = "OWNER"
	RoleStaff = "STAFF"
)

// User is a salon staff account.
type User struct {
	ID    string `db:"id"`
	Email string `db:"email"`
	Name  string `db:"name"`
	Hash  string `db:"password_hash"`
	Role  string `db:"role"`
}

func (u *User) IsOwner() bool { return u != nil && u.Role == RoleOwner }
