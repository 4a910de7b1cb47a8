package create_appointment

import (
	"time"

	"github.com/orkestre/agenda-service/internal/domain"
)

// Request модель запроса на создание записи
type Request struct {
	EstablishmentID int64
	ServiceID       int64
	StartTime       time.Time // Момент начала с часовым поясом; время окончания вычисляется по длительности услуги

	CustomerName    string
	CustomerPhone   string
	CustomerEmail   *string
	NotesByCustomer *string
}

// Response модель ответа с созданной записью
type Response struct {
	Appointment *domain.Appointment
	ServiceName string
	Timezone    string
}
