package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/lord-einar/megasys/internal/models"
	"github.com/lord-einar/megasys/internal/repository"
	"github.com/lord-einar/megasys/internal/service"
)

// Scheduler drives the recurring maintenance work: session cleanup, loan due
// reminders, and visit notices. Tasks that notify go through the aviso stream;
// a separate consumer delivers them.
type Scheduler struct {
	cron     *cron.Cron
	sessions *repository.SessionRepository
	remitos  *repository.RemitoRepository
	visitas  *repository.VisitaRepository
	avisos   *service.AvisoPublisher
	log      zerolog.Logger
}

func NewScheduler(
	sessions *repository.SessionRepository,
	remitos *repository.RemitoRepository,
	visitas *repository.VisitaRepository,
	avisos *service.AvisoPublisher,
	log zerolog.Logger,
) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		sessions: sessions,
		remitos:  remitos,
		visitas:  visitas,
		avisos:   avisos,
		log:      log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 0 3 * * *", s.purgeExpiredSessions); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("0 0 * * * *", s.scanDueLoans); err != nil { // hourly
		return err
	}
	if _, err := s.cron.AddFunc("0 30 8 * * *", s.notifyUpcomingVisitas); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

func (s *Scheduler) Stop() context.CancelFunc {
	_, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	go func() {
		s.cron.Stop()
		cancel()
	}()
	return cancel
}

func (s *Scheduler) purgeExpiredSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	removed, err := s.sessions.DeleteExpired(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("purge expired sessions failed")
		return
	}
	if removed > 0 {
		s.log.Info().Int64("removed", removed).Msg("expired sessions purged")
	}
}

// scanDueLoans enqueues a reminder for every loan inside the warning window
// or already overdue.
func (s *Scheduler) scanDueLoans() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	now := time.Now()
	horizon := now.Add(models.DueWarningWindow)

	loans, err := s.remitos.ListDueLoans(ctx, horizon)
	if err != nil {
		s.log.Error().Err(err).Msg("scan due loans failed")
		return
	}

	for _, remito := range loans {
		days, ok := remito.DaysUntilDue(now)
		if !ok {
			continue
		}
		if err := s.avisos.RemitoVencimiento(ctx, remito.ID, days); err != nil {
			s.log.Error().Err(err).Str("remito_id", remito.ID).Msg("enqueue due reminder failed")
		}
	}
}

func (s *Scheduler) notifyUpcomingVisitas() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	now := time.Now()
	visitas, err := s.visitas.ListUpcoming(ctx, now, now.Add(48*time.Hour))
	if err != nil {
		s.log.Error().Err(err).Msg("list upcoming visitas failed")
		return
	}

	for _, visita := range visitas {
		if err := s.avisos.VisitaAviso(ctx, visita.ID, visita.SedeID); err != nil {
			s.log.Error().Err(err).Str("visita_id", visita.ID).Msg("enqueue visita aviso failed")
			continue
		}
		if err := s.visitas.MarkAvisoEnviado(ctx, visita.ID); err != nil {
			s.log.Error().Err(err).Str("visita_id", visita.ID).Msg("mark aviso enviado failed")
		}
	}
}
