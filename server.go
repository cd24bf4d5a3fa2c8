// server.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"founders-fest/blob"
	"founders-fest/config"
	"founders-fest/controllers"
	"founders-fest/logger"
	"founders-fest/mailer"
	"founders-fest/metrics"
	"founders-fest/services"
	"founders-fest/store"
	"founders-fest/templates"
	"founders-fest/websocket"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const (
	sessionCookieName = "ffsession"
	shutdownTimeout   = 10 * time.Second
	workerInterval    = 30 * time.Second
)

// app is a fully wired server. Background loops are started by start.
type app struct {
	handler  http.Handler
	hub      *websocket.Hub
	notifier *services.TicketNotifier
	worker   *services.DeliveryWorker
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := logger.InitLogger(cfg.LogDir); err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			logger.SetLogLevel(cfg.Env)

			db, err := store.Open(cfg)
			if err != nil {
				return err
			}
			if err := store.Migrate(db); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, db)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	a, err := newApp(cfg, db)
	if err != nil {
		return err
	}
	a.start(ctx)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info.Printf("[serve] Listening on %s (%s)", srv.Addr, cfg.ApplicationURL)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info.Println("[serve] Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn.Printf("[serve] Graceful shutdown failed: %v", err)
	}
	a.notifier.Wait()
	return nil
}

// start runs the hub and retry worker until ctx is cancelled.
func (a *app) start(ctx context.Context) {
	go a.hub.Run(ctx)
	go a.worker.Start(ctx)
}

// newApp builds the router and every dependency it serves.
func newApp(cfg *config.Config, db *gorm.DB) (*app, error) {
	tmpl, err := templates.Load()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Info.Writer()), gin.Recovery())
	router.SetHTMLTemplate(tmpl)

	cookieStore := cookie.NewStore(cfg.SessionKey())
	cookieStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions(sessionCookieName, cookieStore))

	var awsSess *session.Session
	awsSession := func() (*session.Session, error) {
		if awsSess != nil {
			return awsSess, nil
		}
		s, err := session.NewSession(&aws.Config{Region: aws.String(cfg.S3Region)})
		if err != nil {
			return nil, fmt.Errorf("aws session: %w", err)
		}
		if cfg.XRayEnabled {
			s = xray.AWSSession(s)
		}
		awsSess = s
		return s, nil
	}

	var blobs blob.Store
	switch cfg.UploadBackend {
	case "s3":
		s, err := awsSession()
		if err != nil {
			return nil, err
		}
		blobs = blob.NewS3Store(s, cfg.S3Bucket, cfg.S3PublicBaseURL)
	default:
		local := blob.NewLocalStore(cfg.UploadDir, cfg.ApplicationURL)
		router.Static(local.URLPrefix, cfg.UploadDir)
		blobs = local
	}

	var recorder metrics.Recorder = metrics.Nop{}
	switch cfg.MetricsBackend {
	case "prometheus":
		p := metrics.NewPrometheus()
		router.GET("/metrics", gin.WrapH(p.Handler()))
		recorder = p
	case "cloudwatch":
		s, err := awsSession()
		if err != nil {
			return nil, err
		}
		recorder = metrics.NewCloudWatch(s)
	}

	transport, err := mailer.NewTransport(cfg)
	if err != nil {
		logger.Warn.Printf("[newApp] Email disabled: %v", err)
		transport = mailer.Unavailable{Err: err}
	}

	hub := websocket.NewHub(cfg.CORSOrigins)
	identity := store.NewIdentity(db)
	queues := store.NewQueues(db)
	collections := store.NewCollections(db)
	settings := store.NewSettings(db)
	deliveries := store.NewDeliveries(db)
	contact := store.NewContactQueries(db)

	notifier := services.NewTicketNotifier(settings, deliveries, transport, recorder, hub, services.NotifierOptions{
		BaseURL:       cfg.ApplicationURL,
		MaxAttempts:   cfg.MailMaxAttempts,
		RetryInterval: cfg.MailRetryInterval,
	})
	queues.Attendees.OnStatusChange(notifier.OnAttendeeStatus)

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{cfg.ApplicationURL}
	}
	publicCORS := cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	})

	controllers.RegisterRoutes(router, controllers.Routes{
		Auth:    controllers.NewAuthController(identity),
		Content: controllers.NewContentController(collections, recorder, hub),
		Submissions: controllers.NewSubmissionController(controllers.SubmissionDeps{
			Queues:     queues,
			Attendees:  queues.Attendees,
			Tickets:    notifier,
			Deliveries: deliveries,
			Contact:    contact,
			Recorder:   recorder,
			Messenger:  hub,
		}),
		Intake: controllers.NewIntakeController(controllers.IntakeDeps{
			Attendees:   queues.Attendees,
			Stalls:      queues.StallBookings,
			Nominations: queues.AwardNominations,
			Contact:     contact,
			Blob:        blobs,
			Buckets: controllers.Buckets{
				StallBookings:    cfg.StallBucket,
				AwardNominations: cfg.NominationBucket,
			},
			Recorder:  recorder,
			Messenger: hub,
		}),
		Settings:   controllers.NewSettingsController(settings, hub),
		Uploads:    controllers.NewUploadController(blobs),
		Mail:       controllers.NewMailController(transport),
		Pages:      controllers.NewPageController(collections, websocketURL(cfg.ApplicationURL)),
		Access:     services.NewAccessGuard(identity),
		PublicCORS: publicCORS,
		Feed:       hub.ServeWs,
	})

	var handler http.Handler = router
	if cfg.XRayEnabled {
		handler = xray.Handler(xray.NewFixedSegmentNamer("founders-fest"), router)
	}

	return &app{
		handler:  handler,
		hub:      hub,
		notifier: notifier,
		worker:   services.NewDeliveryWorker(deliveries, notifier, workerInterval),
	}, nil
}

// websocketURL maps the public application URL to the dashboard feed endpoint.
func websocketURL(applicationURL string) string {
	switch {
	case strings.HasPrefix(applicationURL, "https://"):
		applicationURL = "wss://" + strings.TrimPrefix(applicationURL, "https://")
	case strings.HasPrefix(applicationURL, "http://"):
		applicationURL = "ws://" + strings.TrimPrefix(applicationURL, "http://")
	}
	return strings.TrimRight(applicationURL, "/") + "/admin/ws"
}
