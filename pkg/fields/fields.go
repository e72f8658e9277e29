// Package fields holds the descriptor registry for user records.
package fields

import (
	"github.com/goliatone/go-userform/pkg/model"
	"github.com/goliatone/go-userform/pkg/validation"
)

// Field names of the user registry.
const (
	FirstName = "firstName"
	LastName  = "lastName"
	Email     = "email"
	Phone     = "phone"
	DOB       = "dob"
	Address   = "address"
)

// PhoneDigits is the exact length of a phone number.
const PhoneDigits = 10

var users = model.MustRegistry(
	model.FieldDescriptor{
		Name:      FirstName,
		Label:     "First Name",
		Kind:      model.KindText,
		Required:  true,
		Validator: validation.PersonName("First name"),
	},
	model.FieldDescriptor{
		Name:      LastName,
		Label:     "Last Name",
		Kind:      model.KindText,
		Required:  true,
		Validator: validation.PersonName("Last name"),
	},
	model.FieldDescriptor{
		Name:      Email,
		Label:     "Email Address",
		Kind:      model.KindEmail,
		Required:  true,
		Validator: validation.Email,
	},
	model.FieldDescriptor{
		Name:      Phone,
		Label:     "Phone Number",
		Kind:      model.KindTel,
		Required:  true,
		Validator: validation.Phone(PhoneDigits),
		MaxDigits: PhoneDigits,
	},
	model.FieldDescriptor{
		Name:     DOB,
		Label:    "Date of Birth",
		Kind:     model.KindDate,
		Required: true,
	},
	model.FieldDescriptor{
		Name:      Address,
		Label:     "Address",
		Kind:      model.KindText,
		FullWidth: true,
	},
)

// Users returns the user registry. The registry is shared and read-only.
func Users() *model.Registry {
	return users
}
