package dbmetrics

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/orkestre/agenda-service/pkg/metrics"
)

const poolStatsInterval = 15 * time.Second

// DB обёртка над *sql.DB, собирающая длительность запросов
type DB struct {
	db      *sql.DB
	metrics *metrics.Metrics
}

// Wrap оборачивает соединение. m может быть nil - тогда метрики не пишутся
func Wrap(db *sql.DB, m *metrics.Metrics) *DB {
	return &DB{db: db, metrics: m}
}

// WrapWithDefault оборачивает соединение и запускает периодический сбор статистики пула.
// Сбор останавливается при закрытии stopCh
func WrapWithDefault(db *sql.DB, m *metrics.Metrics, dbName string, stopCh <-chan struct{}) *DB {
	wrapped := Wrap(db, m)
	if m != nil {
		go wrapped.collectPoolStats(dbName, stopCh)
	}
	return wrapped
}

func (d *DB) collectPoolStats(dbName string, stopCh <-chan struct{}) {
	ticker := time.NewTicker(poolStatsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			stats := d.db.Stats()
			d.metrics.SetDBPoolStats(dbName, stats.OpenConnections, stats.InUse, stats.Idle, stats.WaitCount)
		}
	}
}

func (d *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	res, err := d.db.ExecContext(ctx, query, args...)
	d.metrics.ObserveDBQuery(operation(query), err, time.Since(start))
	return res, err
}

func (d *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := d.db.QueryContext(ctx, query, args...)
	d.metrics.ObserveDBQuery(operation(query), err, time.Since(start))
	return rows, err
}

func (d *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := d.db.QueryRowContext(ctx, query, args...)
	d.metrics.ObserveDBQuery(operation(query), row.Err(), time.Since(start))
	return row
}

// BeginTx начинает транзакцию, запросы которой тоже попадают в метрики
func (d *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (TxExecutor, error) {
	tx, err := d.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &SqlTxWrapper{tx: tx, metrics: d.metrics}, nil
}

// SqlTxWrapper обёртка над *sql.Tx, реализующая TxExecutor
type SqlTxWrapper struct {
	tx      *sql.Tx
	metrics *metrics.Metrics
}

// NewSqlTxWrapper оборачивает транзакцию без метрик
func NewSqlTxWrapper(tx *sql.Tx) *SqlTxWrapper {
	return &SqlTxWrapper{tx: tx}
}

func (w *SqlTxWrapper) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	res, err := w.tx.ExecContext(ctx, query, args...)
	w.metrics.ObserveDBQuery(operation(query), err, time.Since(start))
	return res, err
}

func (w *SqlTxWrapper) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := w.tx.QueryContext(ctx, query, args...)
	w.metrics.ObserveDBQuery(operation(query), err, time.Since(start))
	return rows, err
}

func (w *SqlTxWrapper) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := w.tx.QueryRowContext(ctx, query, args...)
	w.metrics.ObserveDBQuery(operation(query), row.Err(), time.Since(start))
	return row
}

func (w *SqlTxWrapper) Commit() error {
	return w.tx.Commit()
}

func (w *SqlTxWrapper) Rollback() error {
	return w.tx.Rollback()
}

// operation первое ключевое слово запроса в нижнем регистре (select, insert, ...)
func operation(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return "unknown"
	}
	return strings.ToLower(fields[0])
}
