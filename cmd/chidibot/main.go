package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Adeoluwa12/chidibot/internal/api"
	"github.com/Adeoluwa12/chidibot/internal/config"
	"github.com/Adeoluwa12/chidibot/internal/notify"
	"github.com/Adeoluwa12/chidibot/internal/session"
	"github.com/Adeoluwa12/chidibot/internal/store"
	"github.com/Adeoluwa12/chidibot/internal/watch"
)

func mask(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return s[:2] + "…" + s[len(s)-2:]
}

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if cfg.UserID == "" || cfg.Password == "" {
		log.Fatal("AVAILITY_USER_ID and AVAILITY_PASSWORD must be set in your environment (.env)")
	}

	log.Println("=== Care Central Bot Startup ===")
	log.Println("Availity user (masked):  ", mask(cfg.UserID))
	log.Println("Poll interval:           ", cfg.PollInterval)
	log.Println("SQLite file:             ", cfg.SQLitePath)
	log.Println("Cookie file:             ", cfg.CookieFile)
	log.Println("2FA marker file:         ", cfg.MarkerFile)
	log.Println("HTTP port:               ", cfg.Port)
	log.Println("================================")

	// SQLite
	db, err := store.OpenSQLite(cfg.SQLitePath)
	if err != nil {
		log.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()

	st := store.New(db)
	if err := st.Migrate(context.Background()); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	log.Println("SQLite ready at:", cfg.SQLitePath)

	// Notification channels
	var channels []notify.Dispatcher
	if cfg.SMTPUser != "" && cfg.NotifyEmail != "" {
		channels = append(channels, notify.NewEmail(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.NotifyEmail))
		log.Println("Email channel enabled →", cfg.NotifyEmail)
	}
	if cfg.TwilioSID != "" && cfg.NotifyPhone != "" {
		channels = append(channels, notify.NewSMS(cfg.TwilioSID, cfg.TwilioToken, cfg.TwilioPhone, cfg.NotifyPhone))
		log.Println("SMS channel enabled →", cfg.NotifyPhone)
	}
	var notionCh *notify.Notion
	if cfg.NotionToken != "" && cfg.NotionDBID != "" {
		notionCh = notify.NewNotion(cfg.NotionToken, cfg.NotionDBID)
		channels = append(channels, notionCh)
		log.Println("Notion channel enabled, DB:", cfg.NotionDBID)
	}
	if len(channels) == 0 {
		log.Println("WARNING: no notification channels configured; alerts go to the log only")
	}
	dispatcher := notify.NewMulti(channels...)

	// Session manager
	marker := session.Marker{Path: cfg.MarkerFile}
	mgr := session.NewManager(session.Options{
		LoginURL:   cfg.LoginURL,
		UserID:     cfg.UserID,
		Password:   cfg.Password,
		CookieFile: cfg.CookieFile,
		Marker:     marker,
	}, dispatcher)

	// Poll loop
	client := watch.NewClient(cfg.APIURL, watch.Payload{
		Brand:     cfg.Brand,
		NPI:       cfg.NPI,
		State:     cfg.State,
		TabStatus: cfg.TabStatus,
		TaxID:     cfg.TaxID,
	})
	engine := watch.NewEngine(st, dispatcher)
	watcher := watch.NewWatcher(mgr, client, engine, cfg.PollInterval)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	// HTTP dashboard must be up before the login flow starts, or the
	// operator has nowhere to click "I'm Done".
	srv := api.New(st, marker, notionCh)
	httpServer := &http.Server{Addr: ":" + cfg.Port, Handler: srv.Handler()}
	go func() {
		log.Println("HTTP listening on", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server: %v", err)
		}
	}()

	go func() {
		if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("watcher stopped: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown: %v", err)
	}
}
