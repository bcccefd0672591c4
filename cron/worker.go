package cron

import (
	"context"
	"log"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"gymflow/config"
	bookingRepo "gymflow/database/repository/booking"
	"gymflow/models"
	"gymflow/utils"
)

const TypeBookingExpire = "booking:expire"

// InitExpiryWorker runs the async worker that flips past-dated session
// bookings to expired. Expiry is only a status flip: reads filter on status
// anyway, the sweep just keeps the active set small.
func InitExpiryWorker(repo bookingRepo.BookingRepository) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 2,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeBookingExpire, handleExpireTask(repo))

	go func() {
		log.Println("[ExpiryWorker] starting async worker...")
		const maxAttempts = 5
		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ExpiryWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)
				if attempts == maxAttempts {
					log.Fatal("[ExpiryWorker] max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()

	go runExpiryScheduler(redisOpts)
}

func handleExpireTask(repo bookingRepo.BookingRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		logger := utils.GetLogger()
		cutoff := time.Now().Format(models.DateLayout)

		n, err := repo.ExpirePast(ctx, cutoff)
		if err != nil {
			logger.Error("booking expiry sweep failed", zap.Error(err))
			return err
		}
		if n > 0 {
			logger.Info("expired past bookings", zap.Int64("count", n), zap.String("cutoff", cutoff))
		}
		return nil
	}
}

// runExpiryScheduler enqueues the sweep once an hour.
func runExpiryScheduler(redisOpts asynq.RedisClientOpt) {
	scheduler := asynq.NewScheduler(redisOpts, nil)
	task := asynq.NewTask(TypeBookingExpire, nil)

	if _, err := scheduler.Register("@every 1h", task); err != nil {
		log.Printf("[ExpiryWorker] failed to register expiry task: %v", err)
		return
	}
	if err := scheduler.Run(); err != nil {
		log.Printf("[ExpiryWorker] scheduler stopped: %v", err)
	}
}
