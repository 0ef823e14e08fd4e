package middleware

import (
	"log"

	"github.com/valyala/fasthttp"
	"golang.org/x/crypto/bcrypt"

	"aethellocker/internal/config"
)

// AdminAuth guards the admin routes with the configured admin password,
// presented via the X-Admin-Password header. The plaintext from config is
// hashed once at startup and only the hash is kept. With no password
// configured the routes are left open; the service's stated auth model is
// the access-key string alone.
func AdminAuth(cfg *config.Config) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	var hash []byte
	if cfg.AdminPassword != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("failed to hash admin password: %v", err)
		}
		hash = h
	}

	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			if hash == nil {
				next(ctx)
				return
			}

			presented := ctx.Request.Header.Peek("X-Admin-Password")
			if len(presented) == 0 || bcrypt.CompareHashAndPassword(hash, presented) != nil {
				ctx.SetStatusCode(fasthttp.StatusUnauthorized)
				ctx.SetContentType("application/json")
				ctx.SetBodyString(`{"success":false,"error":"admin authorization required"}`)
				return
			}
			next(ctx)
		}
	}
}
