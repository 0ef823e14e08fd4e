package handlers

import (
	"encoding/json"

	"github.com/valyala/fasthttp"

	"aethellocker/internal/locker"
)

// KeyLogin resolves a presented key+email pair to a claim. An unclaimed key
// binds to the email; the master key succeeds for any email.
func KeyLogin(st *locker.Store) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		var req struct {
			Key   string `json:"key"`
			Email string `json:"email"`
		}
		if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
			errResponse(ctx, fasthttp.StatusBadRequest, "invalid JSON body")
			return
		}

		role, err := st.ValidateLogin(req.Key, req.Email)
		if err != nil {
			domainError(ctx, err)
			return
		}
		jsonResponse(ctx, map[string]any{
			"success": true,
			"role":    role,
		})
	}
}
