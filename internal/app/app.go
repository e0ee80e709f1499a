package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "taskmanager/docs"
	"taskmanager/internal/config"
	"taskmanager/internal/handlers"
	"taskmanager/internal/models"
	"taskmanager/internal/pdf"
	"taskmanager/internal/repositories"
	"taskmanager/internal/routes"
	"taskmanager/internal/scheduler"
	"taskmanager/internal/services"
	"taskmanager/internal/storage"
)

const uploadsPrefix = "/uploads"

// App owns the database pool, the services and the HTTP router.
type App struct {
	cfg     *config.Config
	db      *sql.DB
	Router  *gin.Engine
	Overdue *services.OverdueService
}

// Services is everything the HTTP layer and the sweep need.
type Services struct {
	Tasks       services.TaskService
	Subtasks    services.SubtaskService
	Comments    services.CommentService
	Attachments services.AttachmentService
	History     services.HistoryService
	Overdue     *services.OverdueService
}

// NewServices wires the service layer over one store.
func NewServices(store *repositories.Store, blobs services.BlobStore, report services.ReportRenderer, notifiers ...services.OverdueNotifier) Services {
	ledger := services.NewHistoryLedger()
	engine := services.NewStatusEngine(ledger)
	cache := services.NewTaskCache()

	return Services{
		Tasks:       services.NewTaskService(store, ledger, cache, blobs),
		Subtasks:    services.NewSubtaskService(store, ledger, engine, cache),
		Comments:    services.NewCommentService(store, ledger, cache),
		Attachments: services.NewAttachmentService(store, blobs, ledger, cache),
		History:     services.NewHistoryService(store, report),
		Overdue:     services.NewOverdueService(store, engine, cache, notifiers...),
	}
}

// NewRouter builds the gin engine. filesRoot is served under /uploads.
func NewRouter(svc Services, filesRoot string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(cors.Default())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	if filesRoot != "" {
		router.Static(uploadsPrefix, filesRoot)
	}

	routes.SetupRoutes(router, routes.Handlers{
		Tasks:       handlers.NewTaskHandler(svc.Tasks),
		Subtasks:    handlers.NewSubtaskHandler(svc.Subtasks),
		Comments:    handlers.NewCommentHandler(svc.Comments),
		Attachments: handlers.NewAttachmentHandler(svc.Attachments),
		History:     handlers.NewHistoryHandler(svc.History),
	})
	return router
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := repositories.Open(ctx, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	blobs, err := storage.NewFileStore(cfg.Files.RootDir, uploadsPrefix)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	svc := NewServices(repositories.NewStore(db), blobs, pdf.NewHistoryReport(cfg.Files.FontPath), notifiers(cfg)...)
	return &App{
		cfg:     cfg,
		db:      db,
		Router:  NewRouter(svc, blobs.RootDir),
		Overdue: svc.Overdue,
	}, nil
}

func notifiers(cfg *config.Config) []services.OverdueNotifier {
	var out []services.OverdueNotifier
	tg, err := services.NewTelegramNotifier(cfg.Telegram.Token, cfg.Telegram.ChatID)
	if err != nil {
		log.Printf("[app][warn] telegram notifier disabled: %v", err)
	} else if tg != nil {
		out = append(out, tg)
	}
	if mail := services.NewEmailNotifier(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
		cfg.Email.To,
	); mail != nil {
		out = append(out, mail)
	}
	return out
}

// Run serves HTTP and, when enabled, the overdue schedule until ctx is done.
func (a *App) Run(ctx context.Context) error {
	var sched *scheduler.Scheduler
	if a.cfg.SchedulerEnabled() {
		s, err := scheduler.New(a.cfg.Scheduler.OverdueCron, a.Overdue)
		if err != nil {
			return err
		}
		sched = s
		sched.Start()
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Printf("[app] listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[app][warn] shutdown: %v", err)
	}
	if sched != nil {
		sched.Stop(shutdownCtx)
	}
	return runErr
}

// Sweep runs the overdue sweep once, outside the schedule.
func (a *App) Sweep(ctx context.Context, today models.Date) (services.SweepResult, error) {
	return a.Overdue.Run(ctx, today)
}

func (a *App) Close() error {
	if err := a.db.Close(); err != nil {
		log.Printf("[app][warn] close db: %v", err)
		return err
	}
	return nil
}
