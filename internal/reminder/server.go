package reminder

import (
	"photobook/internal/logger"

	"github.com/hibiken/asynq"
)

func NewServer(opt asynq.RedisConnOpt) *asynq.Server {
	return asynq.NewServer(opt, asynq.Config{
		Concurrency: 10,
		Queues:      map[string]int{Queue: 1},
		Logger:      logger.L(),
	})
}

func NewMux(h *Handler) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.Handle(TypeBookingReminder, h)
	return mux
}
