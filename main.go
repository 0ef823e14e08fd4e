package main

import (
	"log"

	"github.com/fasthttp/router"
	"github.com/joho/godotenv"
	"github.com/valyala/fasthttp"

	"aethellocker/internal/config"
	"aethellocker/internal/http/handlers"
	appmw "aethellocker/internal/http/middleware"
	"aethellocker/internal/locker"
	ui "aethellocker/web"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	backend, err := openBackend(cfg)
	if err != nil {
		log.Fatalf("failed to open store backend: %v", err)
	}

	st := locker.Open(backend, cfg.MasterKey)
	defer st.Close()

	if cfg.Backup && cfg.DatabaseURL == "" && cfg.SQLitePath == "" {
		locker.StartBackupWorker(cfg.DataFile)
	}

	handlers.InitPrometheusMetrics()

	r := router.New()
	adminAuth := appmw.AdminAuth(cfg)

	r.GET("/healthz", func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusOK)
		ctx.SetBodyString("ok")
	})

	r.ServeFS("/static/{filepath:*}", ui.StaticFS())

	r.POST("/api/admin/generate-key", adminAuth(handlers.GenerateKey(st)))
	r.POST("/api/admin/expire-key", adminAuth(handlers.ExpireKey(st)))
	r.POST("/api/admin/extend-key", adminAuth(handlers.ExtendKey(st)))
	r.GET("/api/admin/keys", adminAuth(handlers.ListKeys(st)))
	r.GET("/api/admin/registrations", adminAuth(handlers.ListRegistrations(st)))

	r.POST("/api/auth/key-login", handlers.KeyLogin(st))

	r.GET("/api/user/search", handlers.SearchUsers(st))
	r.GET("/api/user/data", handlers.GetUserData(st))
	r.POST("/api/user/data", handlers.PutUserData(st))

	r.GET("/raw/{pid}/{fid}", handlers.RawFile(st))

	r.GET("/metrics", handlers.MetricsHandler())

	// The SPA owns / and every unmatched path, including /raw/... page reloads.
	r.GET("/", handlers.AppShell())
	r.NotFound = handlers.AppShell()

	handler := handlers.RequestLogger(r.Handler)

	log.Printf("aethel locker listening on %s", cfg.ListenAddr)
	if err := fasthttp.ListenAndServe(cfg.ListenAddr, handler); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func openBackend(cfg *config.Config) (locker.Backend, error) {
	switch {
	case cfg.DatabaseURL != "":
		return locker.OpenPostgres(cfg.DatabaseURL)
	case cfg.SQLitePath != "":
		return locker.OpenSQLite(cfg.SQLitePath)
	default:
		return locker.NewFileBackend(cfg.DataFile), nil
	}
}
