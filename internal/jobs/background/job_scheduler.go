package background

import (
	"context"
	"log"
	"sync"
	"time"

	"vendortrack/internal/analytics"
	"vendortrack/internal/services"

	"github.com/go-co-op/gocron/v2"
)

// JobScheduler manages the recurring background jobs: the daily reminder
// sweeps and the dashboard snapshot refresh.
type JobScheduler struct {
	scheduler    gocron.Scheduler
	reminderSvc  services.ReminderService
	dashboardSvc *analytics.DashboardService
	jobs         map[string]gocron.Job
	mu           sync.RWMutex
}

func NewJobScheduler(reminderSvc services.ReminderService, dashboardSvc *analytics.DashboardService) *JobScheduler {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	js := &JobScheduler{
		scheduler:    scheduler,
		reminderSvc:  reminderSvc,
		dashboardSvc: dashboardSvc,
		jobs:         make(map[string]gocron.Job),
	}

	js.registerJobs()

	return js
}

// Start starts the job scheduler
func (js *JobScheduler) Start() error {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
	return nil
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

// registerJobs registers all background jobs
func (js *JobScheduler) registerJobs() {
	// Reminder sweeps run once a day, shortly after midnight UTC. Singleton
	// mode stops a slow run from overlapping the next one; the reminder
	// table dedup makes an accidental rerun harmless anyway.
	sweepJob, err := js.scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(0, 15, 0))),
		gocron.NewTask(js.runReminderSweeps),
		gocron.WithName("reminder-sweeps"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create reminder sweep job: %v", err)
	} else {
		js.jobs["reminder-sweeps"] = sweepJob
	}

	// Dashboard refresh keeps the cached snapshot warm between requests
	dashboardJob, err := js.scheduler.NewJob(
		gocron.DurationJob(5*time.Minute),
		gocron.NewTask(js.refreshDashboard),
		gocron.WithName("dashboard-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create dashboard refresh job: %v", err)
	} else {
		js.jobs["dashboard-refresh"] = dashboardJob
	}

	log.Printf("Registered %d background jobs", len(js.jobs))
}

func (js *JobScheduler) runReminderSweeps() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if _, err := js.reminderSvc.RunSweeps(ctx, time.Now()); err != nil {
		log.Printf("Reminder sweeps failed: %v", err)
	}
}

func (js *JobScheduler) refreshDashboard() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if _, err := js.dashboardSvc.Stats(ctx, time.Now()); err != nil {
		log.Printf("Dashboard refresh failed: %v", err)
	}
}

// JobNames reports the registered job names, used by the health endpoint.
func (js *JobScheduler) JobNames() []string {
	js.mu.RLock()
	defer js.mu.RUnlock()

	names := make([]string, 0, len(js.jobs))
	for name := range js.jobs {
		names = append(names, name)
	}
	return names
}
