package deliver_reminder

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orkestre/agenda-service/internal/domain"
	appointmentRepo "github.com/orkestre/agenda-service/internal/infra/storage/appointment"
	"github.com/orkestre/agenda-service/internal/integrations/whatsapp"
	"github.com/orkestre/agenda-service/pkg/logger"
)

type fakeAppointments struct {
	items map[int64]*domain.Appointment
}

func (f *fakeAppointments) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	appt, ok := f.items[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	return appt, nil
}

type fakeEstablishments struct {
	est *domain.Establishment
}

func (f *fakeEstablishments) GetByID(context.Context, int64) (*domain.Establishment, error) {
	return f.est, nil
}

type fakeServices struct {
	svc *domain.Service
}

func (f *fakeServices) GetByID(context.Context, int64) (*domain.Service, error) {
	return f.svc, nil
}

type sentMessage struct {
	to   string
	body string
}

type fakeSender struct {
	rejected map[string]bool
	err      error
	sent     []sentMessage
}

func (f *fakeSender) SendText(_ context.Context, to, body string) (string, error) {
	f.sent = append(f.sent, sentMessage{to: to, body: body})
	if f.rejected[to] {
		return "", fmt.Errorf("%w: code 131026", whatsapp.ErrRecipientRejected)
	}
	if f.err != nil {
		return "", f.err
	}
	return "wamid.1", nil
}

func newTestUseCase(appt *domain.Appointment, sender *fakeSender) *UseCase {
	return NewUseCase(
		&fakeAppointments{items: map[int64]*domain.Appointment{appt.ID: appt}},
		&fakeEstablishments{est: &domain.Establishment{ID: 7, Name: "Studio Bela", Timezone: "America/Sao_Paulo"}},
		&fakeServices{svc: &domain.Service{ID: 11, EstablishmentID: 7, Name: "Corte Feminino", DurationMinutes: 60, IsActive: true}},
		sender,
		"55",
		logger.NewNop(),
	)
}

func confirmed(phone string) *domain.Appointment {
	start := time.Date(2026, 1, 6, 13, 30, 0, 0, time.UTC)
	return &domain.Appointment{
		ID: 1, EstablishmentID: 7, ServiceID: 11,
		CustomerName: "Maria Aparecida Silva", CustomerPhone: phone,
		StartTime: start, EndTime: start.Add(time.Hour), Status: domain.StatusConfirmed,
	}
}

func TestExecute_SendsLocalizedMessage(t *testing.T) {
	sender := &fakeSender{}

	err := newTestUseCase(confirmed("(11) 91234-5678"), sender).Execute(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "5511912345678", sender.sent[0].to)
	assert.Equal(t,
		"Lembrete Orkestre Agenda: Olá, Maria! Seu agendamento de 'Corte Feminino' em Studio Bela está confirmado para 06/01/2026 às 10:30.",
		sender.sent[0].body)
}

func TestExecute_FallsBackToNumberWithoutNinthDigit(t *testing.T) {
	sender := &fakeSender{rejected: map[string]bool{"5511912345678": true}}

	err := newTestUseCase(confirmed("+55 11 91234-5678"), sender).Notify(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, sender.sent, 2)
	assert.Equal(t, "551112345678", sender.sent[1].to)
}

func TestExecute_NoFallbackForOtherErrors(t *testing.T) {
	sender := &fakeSender{err: errors.New("timeout")}

	err := newTestUseCase(confirmed("11912345678"), sender).Execute(context.Background(), 1)
	assert.ErrorIs(t, err, ErrDeliveryFailed)
	assert.Len(t, sender.sent, 1)
}

func TestExecute_SkipsUnconfirmed(t *testing.T) {
	appt := confirmed("11912345678")
	appt.Status = domain.StatusCancelledByClient
	sender := &fakeSender{}

	err := newTestUseCase(appt, sender).Execute(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNotConfirmed)
	assert.Empty(t, sender.sent)
}

func TestExecute_NotFound(t *testing.T) {
	err := newTestUseCase(confirmed("11912345678"), &fakeSender{}).Execute(context.Background(), 42)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		raw          string
		wantPrimary  string
		wantFallback string
		wantErr      bool
	}{
		{raw: "(11) 91234-5678", wantPrimary: "5511912345678", wantFallback: "551112345678"},
		{raw: "+55 11 91234-5678", wantPrimary: "5511912345678", wantFallback: "551112345678"},
		{raw: "11 3456-7890", wantPrimary: "551134567890"},
		{raw: "--", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			primary, fallback, err := normalizePhone(tt.raw, "55")
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPhone)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPrimary, primary)
			assert.Equal(t, tt.wantFallback, fallback)
		})
	}
}
