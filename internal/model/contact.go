package model

// Contact is an address book entry. Deletes are hard deletes.
type Contact struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	FirstName string `gorm:"column:first_name;size:100;not null" json:"first_name"`
	LastName  string `gorm:"column:last_name;size:100;not null" json:"last_name"`
	Email     string `gorm:"column:email;size:255;not null" json:"email"`
	Phone     string `gorm:"column:phone;size:10;not null" json:"phone"`
	Address   string `gorm:"column:address;size:500;not null" json:"address"`
}

func (Contact) TableName() string {
	return "contacts"
}

func (c Contact) FullName() string {
	return c.FirstName + " " + c.LastName
}
