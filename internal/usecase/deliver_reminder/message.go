package deliver_reminder

import (
	"fmt"
	"strings"
	"time"

	"github.com/orkestre/agenda-service/internal/domain"
)

// buildMessage формирует текст напоминания на португальском
func buildMessage(appt *domain.Appointment, service *domain.Service, establishment *domain.Establishment) string {
	loc, err := establishment.Location()
	if err != nil {
		loc = time.UTC
	}
	start := appt.StartTime.In(loc)

	return fmt.Sprintf(
		"Lembrete Orkestre Agenda: Olá, %s! Seu agendamento de '%s' em %s está confirmado para %s às %s.",
		firstName(appt.CustomerName),
		service.Name,
		establishment.Name,
		start.Format("02/01/2006"),
		start.Format(domain.TimeFormat),
	)
}

func firstName(fullName string) string {
	fields := strings.Fields(fullName)
	if len(fields) == 0 {
		return fullName
	}
	return fields[0]
}
