package reminders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Queue очередь напоминаний на списке Redis (LPUSH / BRPOP)
type Queue struct {
	client RedisClient
	key    string
}

// NewQueue создает очередь поверх списка key
func NewQueue(client RedisClient, key string) *Queue {
	return &Queue{client: client, key: key}
}

// Notify ставит задачу на доставку напоминания и сразу возвращается
func (q *Queue) Notify(ctx context.Context, appointmentID int64) error {
	_, err := q.Enqueue(ctx, appointmentID)
	return err
}

// Enqueue ставит задачу в очередь и возвращает ее
func (q *Queue) Enqueue(ctx context.Context, appointmentID int64) (*Job, error) {
	job := &Job{
		ID:            uuid.NewString(),
		AppointmentID: appointmentID,
		EnqueuedAt:    time.Now().UTC(),
	}

	payload, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal: %v", ErrEnqueue, err)
	}

	if err := q.client.LPush(ctx, q.key, payload).Err(); err != nil {
		return nil, fmt.Errorf("%w: appointment %d: %v", ErrEnqueue, appointmentID, err)
	}

	return job, nil
}

// Dequeue ждет задачу не дольше timeout; при пустой очереди возвращает nil, nil
func (q *Queue) Dequeue(ctx context.Context, timeout time.Duration) (*Job, error) {
	result, err := q.client.BRPop(ctx, timeout, q.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrDequeue, err)
	}

	// BRPOP возвращает пару [ключ, значение]
	if len(result) != 2 {
		return nil, fmt.Errorf("%w: unexpected reply length %d", ErrMalformedJob, len(result))
	}

	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJob, err)
	}
	if job.AppointmentID <= 0 {
		return nil, fmt.Errorf("%w: missing appointment id in job %s", ErrMalformedJob, job.ID)
	}

	return &job, nil
}

// Len возвращает количество задач, ожидающих доставки
func (q *Queue) Len(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.key).Result()
}
