package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/tnwnrrl/schedule/internal/calendar"
	"github.com/tnwnrrl/schedule/internal/config"
	"github.com/tnwnrrl/schedule/internal/domain/actor"
	"github.com/tnwnrrl/schedule/internal/domain/auth"
	"github.com/tnwnrrl/schedule/internal/domain/availability"
	"github.com/tnwnrrl/schedule/internal/domain/casting"
	"github.com/tnwnrrl/schedule/internal/domain/fullsync"
	"github.com/tnwnrrl/schedule/internal/domain/reservation"
	"github.com/tnwnrrl/schedule/internal/domain/schedule"
	"github.com/tnwnrrl/schedule/internal/middleware"
	"github.com/tnwnrrl/schedule/internal/pkg/crawler"
	"github.com/tnwnrrl/schedule/internal/pkg/database"
	"github.com/tnwnrrl/schedule/internal/pkg/gcal"
	"github.com/tnwnrrl/schedule/internal/pkg/jwt"
	"github.com/tnwnrrl/schedule/internal/pkg/kst"
	"github.com/tnwnrrl/schedule/internal/pkg/logger"
	"github.com/tnwnrrl/schedule/internal/pkg/response"
)

func main() {
	cfg := config.Load()
	logger.Setup(cfg.LogLevel, cfg.IsDevelopment())

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting schedule API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	redis, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redis)

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)

	// ---------- Calendar provider ----------
	var calendarClient calendar.Client
	if cfg.GCalServiceAccountKey != "" {
		client, err := gcal.NewClient(gcal.Config{
			BaseURL:             cfg.GCalBaseURL,
			TokenURL:            cfg.GCalTokenURL,
			ServiceAccountEmail: cfg.GCalServiceAccountEmail,
			ServiceAccountKey:   cfg.GCalServiceAccountKey,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create calendar client")
		}
		calendarClient = client
	} else {
		// rows stay unsynced until a provider key is configured
		log.Warn().Msg("Calendar provider is not configured, mirror is disabled")
		calendarClient = disabledCalendarClient{}
	}

	mirror := calendar.NewMirror(calendarClient, calendar.Config{
		MaleLeadCalendarID:   cfg.CalendarMaleLead,
		FemaleLeadCalendarID: cfg.CalendarFemaleLead,
		AllCalendarID:        cfg.CalendarAll,
	})

	// ---------- Repositories ----------
	userRepo := auth.NewUserRepository(db)
	actorRepo := actor.NewRepository(db)
	scheduleRepo := schedule.NewRepository(db)
	castingRepo := casting.NewRepository(db)
	availabilityRepo := availability.NewRepository(db)
	overrideRepo := availability.NewOverrideRepository(db)
	reservationRepo := reservation.NewRepository(db)

	// ---------- Services ----------
	authService := auth.NewService(userRepo, jwtService, redis)

	scheduleService := schedule.NewService(
		scheduleRepo,
		&actorRosterSource{repo: actorRepo},
		&slotCastingSource{repo: castingRepo},
		&slotAvailabilitySource{repo: availabilityRepo, overrides: overrideRepo},
		&slotReservationSource{repo: reservationRepo},
	)

	castingService := casting.NewService(castingRepo, actorRepo, scheduleRepo,
		reservationRepo, availabilityRepo, mirror)

	availabilityService := availability.NewService(availabilityRepo, overrideRepo,
		actorRepo, scheduleRepo, castingRepo, castingService, mirror)

	actorService := actor.NewService(actorRepo, userRepo, mirror,
		&actorEventCleanup{castings: castingService, availability: availabilityService})

	var crawlTrigger reservation.CrawlTrigger
	if cfg.CrawlerWebhookURL != "" {
		crawlTrigger = crawler.NewClient(cfg.CrawlerWebhookURL,
			time.Duration(cfg.CrawlerTimeoutSeconds)*time.Second)
	}
	reservationService := reservation.NewService(reservationRepo, scheduleRepo,
		scheduleService, castingService, crawlTrigger)

	fullsyncService := fullsync.NewService(castingService, availabilityService)

	// ---------- Handlers ----------
	authHandler := auth.NewHandler(authService)
	actorHandler := actor.NewHandler(actorService)
	scheduleHandler := schedule.NewHandler(scheduleService, &castingFeedSource{repo: castingRepo}, cfg.CronSecret)
	castingHandler := casting.NewHandler(castingService)
	availabilityHandler := availability.NewHandler(availabilityService)
	reservationHandler := reservation.NewHandler(reservationService)
	fullsyncHandler := fullsync.NewHandler(fullsyncService)

	authMiddleware := middleware.Auth(jwtService)
	apiKeyMiddleware := middleware.RequireSecret(cfg.ReservationAPIKey)
	cronMiddleware := middleware.RequireSecret(cfg.CronSecret)

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		response.OK(w, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/auth", authHandler.Routes(authMiddleware))

		actor.RegisterRoutes(r, actorHandler, authMiddleware)
		schedule.RegisterRoutes(r, scheduleHandler, authMiddleware)
		casting.RegisterRoutes(r, castingHandler, authMiddleware)
		availability.RegisterRoutes(r, availabilityHandler, authMiddleware)
		reservation.RegisterRoutes(r, reservationHandler, authMiddleware, apiKeyMiddleware, cronMiddleware)
		fullsync.RegisterRoutes(r, fullsyncHandler, authMiddleware)
	})

	// ---------- Scheduled cleanup ----------
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.MemoCleanupSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		if _, err := reservationService.CleanupPastMemos(ctx); err != nil {
			log.Error().Err(err).Msg("scheduled memo cleanup failed")
		}
		if _, err := reservationService.CleanupFutureDescriptions(ctx); err != nil {
			log.Error().Err(err).Msg("scheduled description cleanup failed")
		}
	}); err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.MemoCleanupSchedule).Msg("Invalid cleanup schedule")
	}
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

// Adapter implementations to bridge interface mismatches

// actorRosterSource adapts actor.Repository to schedule.ActorSource
type actorRosterSource struct {
	repo actor.Repository
}

func (a *actorRosterSource) ListRoster(ctx context.Context) ([]schedule.ActorView, error) {
	actors, err := a.repo.Roster(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]schedule.ActorView, 0, len(actors))
	for _, act := range actors {
		views = append(views, schedule.ActorView{
			ID:       act.ID,
			Name:     act.Name,
			RoleType: string(act.RoleType),
		})
	}
	return views, nil
}

// actorEventCleanup combines the casting and availability cleanups into
// actor.EventCleanup
type actorEventCleanup struct {
	castings     *casting.Service
	availability *availability.Service
}

func (a *actorEventCleanup) RemoveActorEvents(ctx context.Context, actorID uuid.UUID) error {
	if err := a.castings.RemoveActorEvents(ctx, actorID); err != nil {
		return err
	}
	return a.availability.RemoveActorEvents(ctx, actorID)
}

// slotCastingSource adapts casting.Repository to schedule.CastingSource
type slotCastingSource struct {
	repo casting.Repository
}

func (a *slotCastingSource) ListSlotCastings(ctx context.Context, performanceDateIDs []uuid.UUID) (map[uuid.UUID][]schedule.SlotCasting, error) {
	castings, err := a.repo.ListByPerformanceDates(ctx, performanceDateIDs)
	if err != nil {
		return nil, err
	}

	bySlot := make(map[uuid.UUID][]schedule.SlotCasting, len(castings))
	for _, c := range castings {
		bySlot[c.PerformanceDateID] = append(bySlot[c.PerformanceDateID], schedule.SlotCasting{
			RoleType:  string(c.RoleType),
			ActorID:   c.ActorID,
			ActorName: c.ActorName,
		})
	}
	return bySlot, nil
}

// slotAvailabilitySource adapts the availability repositories to
// schedule.AvailabilitySource
type slotAvailabilitySource struct {
	repo      availability.Repository
	overrides availability.OverrideRepository
}

func (a *slotAvailabilitySource) ListUnavailableInRange(ctx context.Context, from, to time.Time) ([]schedule.UnavailableView, error) {
	rows, err := a.repo.ListInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	views := make([]schedule.UnavailableView, 0, len(rows))
	for _, u := range rows {
		views = append(views, schedule.UnavailableView{
			ActorID:           u.ActorID,
			PerformanceDateID: u.PerformanceDateID,
		})
	}
	return views, nil
}

func (a *slotAvailabilitySource) ListMonthOverrides(ctx context.Context, month string) ([]schedule.OverrideView, error) {
	rows, err := a.overrides.ListByMonth(ctx, month)
	if err != nil {
		return nil, err
	}

	views := make([]schedule.OverrideView, 0, len(rows))
	for _, o := range rows {
		views = append(views, schedule.OverrideView{ActorID: o.ActorID, Month: o.Month})
	}
	return views, nil
}

// slotReservationSource adapts reservation.Repository to
// schedule.ReservationSource
type slotReservationSource struct {
	repo reservation.Repository
}

func (a *slotReservationSource) ListSlotReservations(ctx context.Context, performanceDateIDs []uuid.UUID) ([]schedule.ReservationView, error) {
	statuses, err := a.repo.ListByPerformanceDates(ctx, performanceDateIDs)
	if err != nil {
		return nil, err
	}

	views := make([]schedule.ReservationView, 0, len(statuses))
	for _, s := range statuses {
		views = append(views, schedule.ReservationView{
			PerformanceDateID: s.PerformanceDateID,
			HasReservation:    s.HasReservation,
			Name:              s.ReservationName.String,
			Contact:           s.ReservationContact.String,
		})
	}
	return views, nil
}

// castingFeedSource adapts casting.Repository to schedule.FeedSource
type castingFeedSource struct {
	repo casting.Repository
}

func (a *castingFeedSource) ListFeedEntries(ctx context.Context) ([]schedule.FeedEntry, error) {
	castings, err := a.repo.ListFromDate(ctx, kst.TodayUTCMidnight())
	if err != nil {
		return nil, err
	}

	entries := make([]schedule.FeedEntry, 0, len(castings))
	for _, c := range castings {
		label := c.SlotLabel.String
		if label == "" {
			label = casting.RoleLabel(c.RoleType)
		}
		entries = append(entries, schedule.FeedEntry{
			PerformanceDateID: c.PerformanceDateID.String(),
			RoleType:          string(c.RoleType),
			Date:              c.Date,
			ShowTime:          c.ShowTime,
			EndTime:           c.EndTime.String,
			ActorName:         c.ActorName,
			Label:             label,
		})
	}
	return entries, nil
}

// disabledCalendarClient satisfies calendar.Client when no provider key
// is configured. Every call fails, which leaves rows unsynced.
type disabledCalendarClient struct{}

var errCalendarDisabled = errors.New("calendar provider is not configured")

func (disabledCalendarClient) InsertEvent(context.Context, string, *gcal.Event, string) (string, error) {
	return "", errCalendarDisabled
}

func (disabledCalendarClient) PatchEvent(context.Context, string, string, map[string]interface{}, string) error {
	return errCalendarDisabled
}

func (disabledCalendarClient) DeleteEvent(context.Context, string, string, string) error {
	return errCalendarDisabled
}

func (disabledCalendarClient) InsertCalendar(context.Context, string, string) (string, error) {
	return "", errCalendarDisabled
}

func (disabledCalendarClient) ShareCalendar(context.Context, string, string, string) error {
	return errCalendarDisabled
}
