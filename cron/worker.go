package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"trimly/config"
	"trimly/models"
	"trimly/services/notification"
	"trimly/services/tasks"

	"github.com/hibiken/asynq"
)

// InitReminderWorker runs the reminder queue worker in the background.
func InitReminderWorker(notifSvc notification.Service) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSendReminder, handleReminderTask(notifSvc))

	go func() {
		log.Println("[ReminderWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ReminderWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ReminderWorker] max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleReminderTask(notifSvc notification.Service) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ReminderHandler] invalid payload: %v", err)
			return err
		}

		message := fmt.Sprintf("Reminder: your %s is today at %s. Reply to reschedule.", p.ServiceName, p.Time)
		if err := notifSvc.SendSMS(ctx, p.Phone, message); err != nil {
			log.Printf("[ReminderHandler] failed to send reminder for booking %s: %v", p.BookingID, err)
			return err
		}
		return nil
	}
}
