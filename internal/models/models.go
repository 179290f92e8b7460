// Package models holds the persisted entities of the API together with their
// typed statuses and transition tables.
package models

// Ownable is implemented by every entity scoped to a single user.
type Ownable interface {
	GetUserID() uint
}

// All returns one zero value of every persisted model, in dependency order.
func All() []any {
	return []any{
		&User{},
		&Client{},
		&Invoice{},
		&Payment{},
		&Contract{},
		&Proposal{},
		&Meeting{},
		&Activity{},
	}
}
