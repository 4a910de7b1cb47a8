package get_available_slots

import (
	"time"

	"github.com/orkestre/agenda-service/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	EstablishmentID int64     // ID заведения
	ServiceID       int64     // ID услуги
	Date            time.Time // Календарная дата в часовом поясе заведения (используются только год, месяц, день)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date            time.Time
	EstablishmentID int64
	ServiceID       int64
	Timezone        string
	Slots           []types.TimeString // Локальное время начала слотов по возрастанию
}
