package send_reminders

import "errors"

var (
	// ErrSweepFailed цикл рассылки прерван, отметки не сохранены
	ErrSweepFailed = errors.New("send_reminders: sweep failed")
)
