package httpServices

// SendMessageRequest is the provider payload for one outbound WhatsApp
// message.
type SendMessageRequest struct {
	MessageID string `json:"message_id"`
	Phone     string `json:"phone"`
	Message   string `json:"message"`
}

// SendMessageResponse is the provider acknowledgement.
type SendMessageResponse struct {
	Status    string `json:"status"`
	MessageID string `json:"message_id"`
	Error     string `json:"error,omitempty"`
}
