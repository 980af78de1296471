package constants

// Auth messages
const (
	MsgUserRegistered     = "User registered successfully"
	MsgInvalidCredentials = "Invalid credentials"
	MsgResetEmailSent     = "Password reset email sent."
	MsgPasswordReset      = "Password reset successfully."
	MsgProtectedData      = "This is a secure API!"
)

// Contact messages
const (
	MsgDataFromCache      = "Data from cache"
	MsgDataFromDatabase   = "Data from database"
	MsgContactNotFound    = "Contact not found"
	MsgInvalidContactData = "Invalid contact data"
	MsgAddContactFailed   = "Failed to add contact"
	MsgContactAdded       = "Contact added successfully"
	MsgContactUpdated     = "Contact updated successfully"
	MsgContactDeleted     = "Contact deleted successfully"
)

// Password reset email
const (
	ResetEmailSubject     = "Password Reset Request"
	ResetEmailBodyPattern = "Use this token to reset your password: %s"
)
