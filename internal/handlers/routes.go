package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// multipartOverhead leaves room for form boundaries and the text fields
// around an upload of the maximum file size.
const multipartOverhead = 1 << 20

type AppConfig struct {
	Name           string
	MaxFileSize    int64
	AllowedOrigins []string
	AccessLog      bool
}

// NewApp builds the fiber application with the shared middleware stack.
func NewApp(cfg AppConfig, log *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
		BodyLimit:    int(cfg.MaxFileSize) + multipartOverhead,
		ErrorHandler: ErrorHandler(log),
	})

	app.Use(recover.New())
	if cfg.AccessLog {
		app.Use(logger.New(logger.Config{
			Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
			TimeFormat: "2006-01-02 15:04:05",
		}))
	}

	origins := strings.Join(cfg.AllowedOrigins, ",")
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: origins != "*",
	}))

	return app
}

type Handlers struct {
	Auth         *AuthHandler
	Users        *UserHandler
	Upload       *UploadHandler
	Jobs         *JobHandler
	JobSources   *JobSourceHandler
	CoverLetters *CoverLetterHandler
}

func RegisterRoutes(app *fiber.App, h Handlers) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api := app.Group("/api")

	api.Post("/register", h.Auth.HandleRegister)
	api.Post("/login", h.Auth.HandleLogin)

	api.Get("/users/:email", h.Users.HandleGetUser)
	api.Put("/users/:email", h.Users.HandleUpdateUser)
	api.Put("/users/:email/resume", h.Users.HandleUpdateResume)
	api.Get("/users/:email/filters", h.Users.HandleGetFilters)
	api.Put("/users/:email/filters", h.Users.HandleUpdateFilters)
	api.Post("/users/:email/resume/upload-analyze", h.Upload.HandleUploadAnalyze)

	api.Get("/users/:email/job-offers", h.Jobs.HandleListJobOffers)
	api.Post("/job-offers/load-new", h.Jobs.HandleLoadNewJobs)
	api.Post("/webhook/job-offers", h.Jobs.HandleIngestJobOffers)

	api.Get("/users/:email/job-sources", h.JobSources.HandleListUserSources)
	api.Get("/job-sources", h.JobSources.HandleListAll)
	api.Post("/job-sources", h.JobSources.HandleCreate)
	api.Delete("/job-sources/:id", h.JobSources.HandleDelete)

	api.Post("/cover-letter/generate", h.CoverLetters.HandleGenerate)
}
