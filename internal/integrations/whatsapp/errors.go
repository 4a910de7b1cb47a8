package whatsapp

import "errors"

var (
	// ErrNotConfigured не заданы номер отправителя или токен доступа
	ErrNotConfigured = errors.New("whatsapp client: credentials are not configured")

	// ErrRecipientRejected получатель не может принять сообщение (номер не зарегистрирован в WhatsApp)
	// Для таких ошибок имеет смысл попробовать альтернативный формат номера
	ErrRecipientRejected = errors.New("whatsapp client: recipient rejected")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("whatsapp client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от API
	ErrInvalidResponse = errors.New("whatsapp client: invalid response")
)
