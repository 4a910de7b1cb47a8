package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Результаты обработки напоминаний
// sent и failed считает цикл рассылки, delivered, undelivered и skipped считает обработчик очереди
const (
	ReminderResultSent        = "sent"
	ReminderResultFailed      = "failed"
	ReminderResultDelivered   = "delivered"
	ReminderResultUndelivered = "undelivered"
	ReminderResultSkipped     = "skipped"
)

// Metrics набор метрик сервиса
// Все методы безопасны для nil-получателя, чтобы метрики можно было отключить конфигом
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbQueryDuration *prometheus.HistogramVec
	dbOpenConns     *prometheus.GaugeVec
	dbInUseConns    *prometheus.GaugeVec
	dbIdleConns     *prometheus.GaugeVec
	dbWaitCount     *prometheus.GaugeVec

	appointmentsCreated *prometheus.CounterVec
	bookingConflicts    *prometheus.CounterVec
	remindersDispatched *prometheus.CounterVec
}

// New создает и регистрирует метрики в реестре prometheus по умолчанию
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer создает метрики в указанном реестре (используется в тестах)
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		httpRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		httpRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		dbQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation", "status"}),
		dbOpenConns: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of established connections",
			ConstLabels: constLabels,
		}, []string{"db"}),
		dbInUseConns: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: constLabels,
		}, []string{"db"}),
		dbIdleConns: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle connections",
			ConstLabels: constLabels,
		}, []string{"db"}),
		dbWaitCount: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: constLabels,
		}, []string{"db"}),
		appointmentsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "appointments_created_total",
			Help:        "Total number of created appointments",
			ConstLabels: constLabels,
		}, []string{"establishment_id"}),
		bookingConflicts: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_conflicts_total",
			Help:        "Booking attempts rejected because the slot was taken",
			ConstLabels: constLabels,
		}, []string{"establishment_id"}),
		remindersDispatched: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "reminders_dispatched_total",
			Help:        "Reminder dispatch attempts by result",
			ConstLabels: constLabels,
		}, []string{"result"}),
	}
}

// ObserveHTTPRequest фиксирует HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveDBQuery фиксирует длительность запроса к БД
func (m *Metrics) ObserveDBQuery(operation string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.dbQueryDuration.WithLabelValues(operation, status).Observe(duration.Seconds())
}

// SetDBPoolStats обновляет метрики пула соединений
func (m *Metrics) SetDBPoolStats(db string, open, inUse, idle int, waitCount int64) {
	if m == nil {
		return
	}
	m.dbOpenConns.WithLabelValues(db).Set(float64(open))
	m.dbInUseConns.WithLabelValues(db).Set(float64(inUse))
	m.dbIdleConns.WithLabelValues(db).Set(float64(idle))
	m.dbWaitCount.WithLabelValues(db).Set(float64(waitCount))
}

// IncAppointmentCreated увеличивает счетчик созданных записей
func (m *Metrics) IncAppointmentCreated(establishmentID int64) {
	if m == nil {
		return
	}
	m.appointmentsCreated.WithLabelValues(strconv.FormatInt(establishmentID, 10)).Inc()
}

// IncBookingConflict увеличивает счетчик отказов из-за занятого слота
func (m *Metrics) IncBookingConflict(establishmentID int64) {
	if m == nil {
		return
	}
	m.bookingConflicts.WithLabelValues(strconv.FormatInt(establishmentID, 10)).Inc()
}

// IncReminder увеличивает счетчик напоминаний с указанным результатом
func (m *Metrics) IncReminder(result string) {
	if m == nil {
		return
	}
	m.remindersDispatched.WithLabelValues(result).Inc()
}
