package domain

// User is the slice of the account record the reminder engine needs for
// message personalization. Account management lives elsewhere.
type User struct {
	DocumentNumber string
	FirstName      string
	LastName       string
	Email          string
}

// FullName joins the name parts for email greetings.
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
