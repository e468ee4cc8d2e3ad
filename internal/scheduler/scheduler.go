package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/HMB-research/open-accounting/internal/models"
	"github.com/HMB-research/open-accounting/internal/payroll"
)

// Config holds scheduler configuration.
type Config struct {
	// PayRunSchedule is a 5-field cron expression (e.g. "0 6 1 * *" for
	// 6:00 AM on the 1st of every month).
	PayRunSchedule string
	// AttendanceSweepSchedule is a 5-field cron expression for the nightly
	// missing-attendance sweep. Empty disables the job.
	AttendanceSweepSchedule string
	// LeaveCarryoverSchedule is a 5-field cron expression for the daily
	// leave-balance carryover job. Empty disables the job.
	LeaveCarryoverSchedule string
	Enabled                bool
}

// DefaultConfig returns the default scheduler configuration: generate the
// previous month's pay-run at 6:00 AM on the 1st of each month, sweep
// attendance nightly at 11 PM, and check for a leave-balance year rollover
// daily at 1 AM.
func DefaultConfig() Config {
	return Config{
		PayRunSchedule:          "0 6 1 * *",
		AttendanceSweepSchedule: "0 23 * * *",
		LeaveCarryoverSchedule:  "0 1 * * *",
		Enabled:                 true,
	}
}

// EmployeeRoster is the active employee roster the nightly attendance sweep
// walks. Satisfied by internal/employee without this package importing it.
type EmployeeRoster interface {
	ListActive(ctx context.Context) ([]models.Employee, error)
}

// AttendanceChecker exposes the attendance already on file for a period, so
// the sweep can flag employees still missing one ahead of pay-run day.
type AttendanceChecker interface {
	ListByPeriod(ctx context.Context, period models.Period) ([]models.AttendanceRecord, error)
}

// LeaveCarryoverRunner rolls a leave-balance ledger year forward; satisfied
// by leave.Service.CarryOverYear.
type LeaveCarryoverRunner interface {
	CarryOverYear(ctx context.Context, fromYear int) (int, error)
}

// Scheduler runs the background jobs: monthly pay-run generation, a nightly
// missing-attendance sweep, and a daily leave-balance carryover check.
type Scheduler struct {
	cron       *cron.Cron
	payRuns    *payroll.Generator
	employees  EmployeeRoster
	attendance AttendanceChecker
	leaves     LeaveCarryoverRunner
	config     Config
	running    bool
	mu         sync.Mutex
}

// NewScheduler creates a new scheduler instance. employees/attendance/leaves
// may be nil, which disables the sweep/carryover jobs that depend on them
// even if their schedules are configured.
func NewScheduler(payRuns *payroll.Generator, employees EmployeeRoster, attendance AttendanceChecker, leaves LeaveCarryoverRunner, config Config) *Scheduler {
	return &Scheduler{
		cron:       cron.New(cron.WithSeconds()),
		payRuns:    payRuns,
		employees:  employees,
		attendance: attendance,
		leaves:     leaves,
		config:     config,
	}
}

// Start starts the scheduler.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler is already running")
	}

	if !s.config.Enabled {
		log.Info().Msg("Scheduler is disabled")
		return nil
	}

	// Convert the standard 5-field cron expression to cron/v3's 6-field
	// form by prepending "0" for seconds.
	schedule := "0 " + s.config.PayRunSchedule
	if _, err := s.cron.AddFunc(schedule, s.generatePreviousMonthPayRun); err != nil {
		return fmt.Errorf("failed to add pay-run job: %w", err)
	}

	if s.employees != nil && s.attendance != nil && s.config.AttendanceSweepSchedule != "" {
		sweepSchedule := "0 " + s.config.AttendanceSweepSchedule
		if _, err := s.cron.AddFunc(sweepSchedule, s.sweepMissingAttendance); err != nil {
			return fmt.Errorf("failed to add attendance sweep job: %w", err)
		}
	}

	if s.leaves != nil && s.config.LeaveCarryoverSchedule != "" {
		carryoverSchedule := "0 " + s.config.LeaveCarryoverSchedule
		if _, err := s.cron.AddFunc(carryoverSchedule, s.runLeaveCarryover); err != nil {
			return fmt.Errorf("failed to add leave carryover job: %w", err)
		}
	}

	s.cron.Start()
	s.running = true

	log.Info().
		Str("schedule", s.config.PayRunSchedule).
		Msg("Scheduler started - monthly pay-run generation scheduled")

	return nil
}

// Stop stops the scheduler gracefully, returning a context that is done once
// any in-flight job has finished.
func (s *Scheduler) Stop() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		return ctx
	}

	ctx := s.cron.Stop()
	s.running = false
	log.Info().Msg("Scheduler stopped")
	return ctx
}

// generatePreviousMonthPayRun generates the pay-run for the calendar month
// that just ended, matching the job's 1st-of-month trigger.
func (s *Scheduler) generatePreviousMonthPayRun() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	now := time.Now()
	period := models.Period{Month: int(now.Month()), Year: now.Year()}
	// The job fires on the 1st, so the period that just closed is last month.
	if period.Month == 1 {
		period = models.Period{Month: 12, Year: period.Year - 1}
	} else {
		period = models.Period{Month: period.Month - 1, Year: period.Year}
	}

	log.Info().Str("period", period.String()).Msg("Starting scheduled pay-run generation")

	run, err := s.payRuns.Generate(ctx, period, "system")
	if err != nil {
		log.Error().Err(err).Str("period", period.String()).Msg("Failed to generate scheduled pay-run")
		return
	}

	log.Info().
		Str("period", period.String()).
		Str("pay_run_id", run.ID).
		Int("line_items", len(run.LineItems)).
		Msg("Completed scheduled pay-run generation")
}

// RunNow manually triggers pay-run generation for the previous month.
func (s *Scheduler) RunNow() {
	s.generatePreviousMonthPayRun()
}

// sweepMissingAttendance is a read-only, advisory nightly check: it logs
// every active employee who still has no attendance record for the current
// period, giving HR a chance to fix it before the month-end pay-run runs.
func (s *Scheduler) sweepMissingAttendance() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	now := time.Now()
	period := models.Period{Month: int(now.Month()), Year: now.Year()}

	employees, err := s.employees.ListActive(ctx)
	if err != nil {
		log.Error().Err(err).Msg("attendance sweep: failed to list active employees")
		return
	}
	recorded, err := s.attendance.ListByPeriod(ctx, period)
	if err != nil {
		log.Error().Err(err).Str("period", period.String()).Msg("attendance sweep: failed to list attendance records")
		return
	}
	have := make(map[string]bool, len(recorded))
	for _, a := range recorded {
		have[a.EmployeeID] = true
	}

	missing := 0
	for _, emp := range employees {
		if !have[emp.ID] {
			missing++
			log.Warn().Str("employee_id", emp.PublicID).Str("period", period.String()).
				Msg("attendance sweep: employee has no attendance record yet")
		}
	}
	log.Info().Str("period", period.String()).Int("missing", missing).Int("total", len(employees)).
		Msg("Completed nightly attendance sweep")
}

// runLeaveCarryover is idempotent, so firing it daily is safe: it only
// creates work on the one day a year a balance's year boundary actually
// needs rolling forward, and CarryOverYear skips rows that already exist.
func (s *Scheduler) runLeaveCarryover() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	fromYear := time.Now().Year() - 1
	carried, err := s.leaves.CarryOverYear(ctx, fromYear)
	if err != nil {
		log.Error().Err(err).Int("from_year", fromYear).Msg("Failed to run leave-balance carryover")
		return
	}
	log.Info().Int("from_year", fromYear).Int("carried", carried).Msg("Completed leave-balance carryover check")
}

// IsRunning reports whether the scheduler is currently running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
