package validation

// CustomMessage returns per-field overrides keyed by validation tag. Field
// names are the JSON names.
func CustomMessage(field string) map[string]string {
	var customValidationMessages = map[string]map[string]string{
		"email": {
			"required": "email is required",
			"email":    "email must be a valid email address",
		},
		"phone": {
			"required": "phone is required",
			"phone10":  "phone must be exactly 10 digits",
		},
		"password": {
			"required": "password is required",
			"max":      "password must be at most 72 characters",
		},
		"newPassword": {
			"required": "newPassword is required",
			"max":      "newPassword must be at most 72 characters",
		},
		"first_name": {
			"required": "first_name is required",
		},
		"last_name": {
			"required": "last_name is required",
		},
		"token": {
			"required": "token is required",
		},
	}
	return customValidationMessages[field]
}
