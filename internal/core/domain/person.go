package domain

import (
	"errors"
	"time"
)

var ErrPersonNotFound = errors.New("person not found")
var ErrInvalidRole = errors.New("invalid role")

// Person is the employment record owned by the people service. Its email
// and role are mirrored into a Credential on the auth service by the
// orchestration in service.PeopleService; the two stores share no
// transaction, so agreement is eventual, not strict.
type Person struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	FirstName string    `json:"first_name" bson:"first_name"`
	LastName  string    `json:"last_name" bson:"last_name"`
	Email     string    `json:"email" bson:"email"`
	Role      Role      `json:"role" bson:"role"`
	HireDate  time.Time `json:"hire_date" bson:"hire_date"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// FullName is the display name propagated to the companion credential.
func (p *Person) FullName() string {
	return p.FirstName + " " + p.LastName
}
