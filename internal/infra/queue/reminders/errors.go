package reminders

import "errors"

var (
	// ErrEnqueue не удалось поставить задачу в очередь
	ErrEnqueue = errors.New("reminders.queue: failed to enqueue job")

	// ErrDequeue не удалось получить задачу из очереди
	ErrDequeue = errors.New("reminders.queue: failed to dequeue job")

	// ErrMalformedJob задача в очереди не разбирается
	ErrMalformedJob = errors.New("reminders.queue: malformed job")
)
