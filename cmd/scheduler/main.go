package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"

	"github.com/repayflow/plan-engine/internal/config"
	"github.com/repayflow/plan-engine/internal/repository"
)

func main() {
	log.Println("Starting plan installment scheduler...")

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	planRepo := repository.NewPlanRepository(db)

	c := cron.New(cron.WithSeconds())
	setupCronJobs(c, planRepo)

	c.Start()
	log.Println("Scheduler started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down scheduler...")
	c.Stop()
	log.Println("Scheduler stopped")
}

func setupCronJobs(c *cron.Cron, planRepo repository.PlanRepository) {
	// Daily job to flip pending installments past due date to overdue
	_, err := c.AddFunc("0 0 0 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		changed, err := planRepo.MarkInstallmentsOverdue(ctx, time.Now())
		if err != nil {
			log.Printf("Overdue marking job failed: %v", err)
			return
		}
		log.Printf("Marked %d installment(s) overdue", changed)
	})
	if err != nil {
		log.Printf("Error scheduling overdue marking job: %v", err)
	}

	// Daily job to surface installments coming due in the next 3 days.
	// Delivery of reminders belongs to the messaging layer; this job only
	// walks the due window and logs what it finds.
	_, err = c.AddFunc("0 0 9 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		now := time.Now()
		upcoming, err := planRepo.GetInstallmentsDueBetween(ctx, now, now.AddDate(0, 0, 3))
		if err != nil {
			log.Printf("Reminder job failed: %v", err)
			return
		}
		for _, installment := range upcoming {
			log.Printf("Reminder due: plan %s installment %d for %s on %s",
				installment.PlanID, installment.Sequence, installment.Amount, installment.DueDate.Format("2006-01-02"))
		}
	})
	if err != nil {
		log.Printf("Error scheduling reminder job: %v", err)
	}

	log.Println("Cron jobs scheduled successfully")
}
