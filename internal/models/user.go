package models

import "time"

// User represents a user in the system
type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	PasswordHash string     `json:"-"` // Not serialized
	LastLogin    *time.Time `json:"last_login"`
	DateJoined   time.Time  `json:"date_joined"`
}

// UserCounts summarizes how much a user owns, returned on login.
type UserCounts struct {
	Accounts      int `json:"accounts"`
	Categories    int `json:"categories"`
	Transactions  int `json:"transactions"`
	ActiveBudgets int `json:"active_budgets"`
}
