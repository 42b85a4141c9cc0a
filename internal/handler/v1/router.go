package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/clinica-io/clinica-api/pkg/metrics"
)

type RouterConfig struct {
	Doctors      *DoctorHandler
	Patients     *PatientHandler
	Appointments *AppointmentHandler
	DB           *gorm.DB
	Log          *zap.Logger
	Metrics      *metrics.Collector
	Env          string
	Version      string
}

// NewRouter wires the v1 API. Document lookups live under /documents so the
// id-keyed routes keep a single wildcard shape.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(Logging(cfg.Log))
	r.Use(Metrics(cfg.Metrics))

	r.GET("/health/live", livenessHandler(cfg.Version))
	r.GET("/health/ready", readinessHandler(cfg.DB))
	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	api := r.Group("/api/v1")

	doctors := api.Group("/doctors")
	doctors.POST("", cfg.Doctors.Create)
	doctors.GET("", cfg.Doctors.List)
	doctors.GET("/:doctor-id", cfg.Doctors.Get)
	doctors.PUT("/:doctor-id", cfg.Doctors.Update)
	doctors.PATCH("/:doctor-id", cfg.Doctors.Patch)
	doctors.DELETE("/:doctor-id", cfg.Doctors.Delete)

	patients := api.Group("/patients")
	patients.POST("", cfg.Patients.Create)
	patients.GET("", cfg.Patients.List)
	patients.GET("/:patient-id", cfg.Patients.Get)
	patients.PUT("/:patient-id", cfg.Patients.Update)
	patients.PATCH("/:patient-id", cfg.Patients.Patch)
	patients.DELETE("/:patient-id", cfg.Patients.Delete)

	appointments := api.Group("/appointments")
	appointments.POST("", cfg.Appointments.Create)
	appointments.GET("", cfg.Appointments.List)
	appointments.GET("/:appointment-id", cfg.Appointments.Get)
	appointments.PUT("/:appointment-id", cfg.Appointments.Replace)
	appointments.PATCH("/:appointment-id", cfg.Appointments.Update)
	appointments.DELETE("/:appointment-id", cfg.Appointments.Delete)

	documents := api.Group("/documents")
	documents.GET("/doctors/:document", cfg.Doctors.GetByDocument)
	documents.GET("/doctors/:document/appointments", cfg.Appointments.ListByDoctorDocument)
	documents.GET("/patients/:document", cfg.Patients.GetByDocument)
	documents.GET("/patients/:document/appointments", cfg.Appointments.ListByPatientDocument)

	return r
}

func livenessHandler(version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": version})
	}
}

func readinessHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			sqlDB, err := db.DB()
			if err == nil {
				if pingErr := sqlDB.PingContext(c.Request.Context()); pingErr != nil {
					c.JSON(http.StatusServiceUnavailable, gin.H{
						"status": "unavailable",
						"error":  "database unreachable",
						"time":   time.Now().UTC(),
					})
					return
				}
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "time": time.Now().UTC()})
	}
}
