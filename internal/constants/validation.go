package constants

// Validation Patterns
const (
	PhonePattern = `^[0-9]{10}$`
)

// Custom validator tags
const (
	TagPhone = "phone10"
)
