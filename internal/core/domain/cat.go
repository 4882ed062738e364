package domain

import (
	"errors"
	"time"
)

var ErrCatNotFound = errors.New("cat not found")

// Owner is the user reference embedded in a cat. UserName and Email are
// populated on read and may be empty when the owning account is gone.
type Owner struct {
	ID       string
	UserName string
	Email    string
}

// Cat is the geotagged entity record.
type Cat struct {
	ID        string
	Name      string
	Weight    float64
	Filename  string
	Birthdate time.Time
	Location  Point
	Owner     Owner
}

// CatPatch carries the fields a caller asked to change. Nil means untouched.
// Filename is deliberately absent: it never changes after creation.
type CatPatch struct {
	Name      *string
	Weight    *float64
	Birthdate *time.Time
	Location  *Point
	// OwnerID reassigns the cat. Only the admin update path sets it.
	OwnerID *string
}

// Empty reports whether the patch changes nothing.
func (p CatPatch) Empty() bool {
	return p.Name == nil && p.Weight == nil && p.Birthdate == nil && p.Location == nil && p.OwnerID == nil
}
