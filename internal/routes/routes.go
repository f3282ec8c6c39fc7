package routes

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barberbook/internal/audit"
	"github.com/BruksfildServices01/barberbook/internal/config"
	dbpkg "github.com/BruksfildServices01/barberbook/internal/db"
	domain "github.com/BruksfildServices01/barberbook/internal/domain/appointment"
	"github.com/BruksfildServices01/barberbook/internal/handlers"
	"github.com/BruksfildServices01/barberbook/internal/middleware"
	"github.com/BruksfildServices01/barberbook/internal/realtime"
	"github.com/BruksfildServices01/barberbook/internal/session"
	ucAppointment "github.com/BruksfildServices01/barberbook/internal/usecase/appointment"
)

// Deps are the singletons built in main. DB and Redis are optional and
// only feed the readiness checks.
type Deps struct {
	Config   *config.Config
	Log      *zap.Logger
	DB       *gorm.DB
	Redis    *redis.Client
	Repo     domain.Repository
	Schedule ucAppointment.Schedule
	Notifier realtime.Notifier
	Audit    *audit.Dispatcher
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(
		middleware.RequestID(),
		middleware.AccessLog(d.Log),
		middleware.Recovery(d.Log),
		middleware.CORSMiddleware(),
	)

	// ======================================================
	// USE CASES
	// ======================================================
	servicesUC := ucAppointment.NewListBarberServices(d.Repo, d.Schedule)
	availabilityUC := ucAppointment.NewGetAvailability(d.Repo, d.Schedule, d.Log)
	watchAvailabilityUC := ucAppointment.NewWatchAvailability(availabilityUC, d.Notifier, d.Log)

	bookUC := ucAppointment.NewBookAppointment(d.Repo, d.Schedule, d.Notifier, d.Audit, d.Log)
	manualUC := ucAppointment.NewCreateManualAppointment(d.Repo, d.Schedule, d.Notifier, d.Audit, d.Log)

	confirmUC := ucAppointment.NewConfirmAppointment(d.Repo, d.Schedule, d.Notifier, d.Audit, d.Log)
	cancelUC := ucAppointment.NewCancelAppointment(d.Repo, d.Schedule, d.Notifier, d.Audit, d.Log)
	completeUC := ucAppointment.NewCompleteAppointment(d.Repo, d.Schedule, d.Notifier, d.Audit, d.Log)

	listByDateUC := ucAppointment.NewListAppointmentsByDate(d.Repo, d.Schedule)
	listByMonthUC := ucAppointment.NewListAppointmentsByMonth(d.Repo, d.Schedule)
	listClientUC := ucAppointment.NewListClientAppointments(d.Repo, d.Schedule)
	watchCalendarUC := ucAppointment.NewWatchCalendar(d.Repo, d.Schedule, d.Notifier)

	listHoursUC := ucAppointment.NewListWorkingHours(d.Repo, d.Schedule)
	updateHoursUC := ucAppointment.NewUpdateWorkingHours(d.Repo, d.Schedule, d.Notifier, d.Audit, d.Log)

	// ======================================================
	// HANDLERS
	// ======================================================
	healthHandler := handlers.NewHealthHandler(readinessChecks(d))

	publicHandler := handlers.NewPublicHandler(
		servicesUC,
		availabilityUC,
		watchAvailabilityUC,
		d.Schedule.Clock,
		d.Log,
	)

	clientHandler := handlers.NewClientHandler(bookUC, listClientUC, cancelUC, d.Log)

	appointmentHandler := handlers.NewAppointmentHandler(handlers.AppointmentUseCases{
		ByDate:       listByDateUC,
		ByMonth:      listByMonthUC,
		Watch:        watchCalendarUC,
		Services:     servicesUC,
		Availability: availabilityUC,
		Manual:       manualUC,
		Confirm:      confirmUC,
		Cancel:       cancelUC,
		Complete:     completeUC,
	}, d.Schedule.Clock, d.Log)

	workingHoursHandler := handlers.NewWorkingHoursHandler(listHoursUC, updateHoursUC, d.Log)

	// ======================================================
	// ROUTES
	// ======================================================
	r.GET("/health", healthHandler.Health)
	r.GET("/ready", healthHandler.Ready)

	api := r.Group("/api")
	{
		publicAPI := api.Group("/public/barbers/:barberID")
		{
			publicAPI.GET("/services", publicHandler.ListServices)
			publicAPI.GET("/availability", publicHandler.Availability)
			publicAPI.GET("/availability/stream", publicHandler.AvailabilityStream)
		}

		auth := middleware.AuthMiddleware([]byte(d.Config.JWTSecret))

		client := api.Group("/client", auth, middleware.RequireRole(session.RoleClient))
		{
			client.POST("/appointments", clientHandler.Book)
			client.GET("/appointments", clientHandler.List)
			client.PATCH("/appointments/:id/cancel", clientHandler.Cancel)
		}

		staff := api.Group("/me", auth, middleware.RequireRole(session.RoleBarber, session.RoleOwner))
		{
			staff.GET("/appointments", appointmentHandler.List)
			staff.GET("/appointments/stream", appointmentHandler.Stream)
			staff.PATCH("/appointments/:id/confirm", appointmentHandler.Confirm)
			staff.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
			staff.PATCH("/appointments/:id/complete", appointmentHandler.Complete)

			barber := staff.Group("", middleware.RequireRole(session.RoleBarber))
			{
				barber.GET("/availability", appointmentHandler.Availability)
				barber.POST("/appointments/manual", appointmentHandler.CreateManual)
				barber.GET("/working-hours", workingHoursHandler.Get)
				barber.PUT("/working-hours", workingHoursHandler.Put)
			}
		}
	}
}

func readinessChecks(d Deps) map[string]handlers.Check {
	checks := map[string]handlers.Check{}
	if d.DB != nil {
		checks["database"] = func(ctx context.Context) error {
			return dbpkg.Ping(ctx, d.DB)
		}
	}
	if d.Redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return d.Redis.Ping(ctx).Err()
		}
	}
	return checks
}
