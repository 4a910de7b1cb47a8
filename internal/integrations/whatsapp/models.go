package whatsapp

// textMessageRequest тело запроса на отправку текстового сообщения
type textMessageRequest struct {
	MessagingProduct string      `json:"messaging_product"`
	RecipientType    string      `json:"recipient_type"`
	To               string      `json:"to"`
	Type             string      `json:"type"`
	Text             textPayload `json:"text"`
}

type textPayload struct {
	PreviewURL bool   `json:"preview_url"`
	Body       string `json:"body"`
}

// SendResponse ответ API на отправку сообщения
type SendResponse struct {
	Contacts []Contact `json:"contacts"`
	Messages []Message `json:"messages"`
}

// Contact получатель, как его распознал WhatsApp
type Contact struct {
	Input string `json:"input"`
	WaID  string `json:"wa_id"`
}

// Message идентификатор отправленного сообщения
type Message struct {
	ID string `json:"id"`
}

// ErrorResponse модель ошибки Graph API
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// APIError описание ошибки Graph API
type APIError struct {
	Message   string `json:"message"`
	Type      string `json:"type"`
	Code      int    `json:"code"`
	Subcode   int    `json:"error_subcode"`
	FBTraceID string `json:"fbtrace_id"`
}
