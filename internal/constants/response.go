package constants

// Standard Response Field Keys
const (
	ResponseFieldMessage  = "message"
	ResponseFieldDetails  = "details"
	ResponseFieldSuccess  = "success"
	ResponseFieldData     = "data"
	ResponseFieldToken    = "token"
	ResponseFieldContacts = "contacts"
	ResponseFieldContact  = "contact"
)

func BuildErrorResponse(message string, details any) map[string]any {
	response := map[string]any{
		ResponseFieldMessage: message,
	}

	if details != nil {
		response[ResponseFieldDetails] = details
	}

	return response
}

func BuildSuccessResponse(message string) map[string]any {
	return map[string]any{
		ResponseFieldMessage: message,
	}
}

func BuildTokenResponse(token string) map[string]any {
	return map[string]any{
		ResponseFieldToken: token,
	}
}

// BuildContactsResponse shapes the list read; message tells whether the
// payload came from the cache or the store.
func BuildContactsResponse(message string, contacts any) map[string]any {
	return map[string]any{
		ResponseFieldMessage:  message,
		ResponseFieldContacts: contacts,
	}
}

func BuildContactResponse(message string, contact any) map[string]any {
	return map[string]any{
		ResponseFieldMessage: message,
		ResponseFieldContact: contact,
	}
}

// BuildResultResponse is the {success, message, data} envelope used by the
// contact mutations. A nil data is rendered as JSON null.
func BuildResultResponse(success bool, message string, data any) map[string]any {
	return map[string]any{
		ResponseFieldSuccess: success,
		ResponseFieldMessage: message,
		ResponseFieldData:    data,
	}
}
