package dto

import "github.com/Payphone-Digital/addressbook/internal/model"

type ContactRequest struct {
	FirstName string `json:"first_name" binding:"required,max=100"`
	LastName  string `json:"last_name" binding:"required,max=100"`
	Email     string `json:"email" binding:"required,email,max=255"`
	Phone     string `json:"phone" binding:"required,phone10"`
	Address   string `json:"address" binding:"required,max=500"`
}

// ToModel builds a contact without an id; the store assigns it
func (r ContactRequest) ToModel() model.Contact {
	return model.Contact{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Phone:     r.Phone,
		Address:   r.Address,
	}
}

type ContactResponse struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

func NewContactResponse(c model.Contact) ContactResponse {
	return ContactResponse{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		FullName:  c.FullName(),
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
	}
}

func NewContactResponses(contacts []model.Contact) []ContactResponse {
	out := make([]ContactResponse, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, NewContactResponse(c))
	}
	return out
}
