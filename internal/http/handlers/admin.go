package handlers

import (
	"encoding/json"

	"github.com/valyala/fasthttp"

	"aethellocker/internal/locker"
)

// GenerateKey creates a new unclaimed access key valid for the requested
// number of days and returns it together with the full key list.
func GenerateKey(st *locker.Store) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		var req struct {
			Duration int `json:"duration"`
		}
		if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
			errResponse(ctx, fasthttp.StatusBadRequest, "invalid JSON body")
			return
		}

		key, keys, err := st.GenerateKey(req.Duration)
		if err != nil {
			domainError(ctx, err)
			return
		}
		jsonResponse(ctx, map[string]any{
			"success": true,
			"key":     key.Key,
			"keys":    keys,
		})
	}
}

// ExpireKey invalidates a key immediately.
func ExpireKey(st *locker.Store) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		var req struct {
			Key string `json:"key"`
		}
		if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
			errResponse(ctx, fasthttp.StatusBadRequest, "invalid JSON body")
			return
		}

		if err := st.ExpireKey(req.Key); err != nil {
			domainError(ctx, err)
			return
		}
		jsonResponse(ctx, map[string]any{"success": true})
	}
}

// ExtendKey recomputes a key's expiry from now.
func ExtendKey(st *locker.Store) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		var req struct {
			Key      string `json:"key"`
			Duration int    `json:"duration"`
		}
		if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
			errResponse(ctx, fasthttp.StatusBadRequest, "invalid JSON body")
			return
		}

		if err := st.ExtendKey(req.Key, req.Duration); err != nil {
			domainError(ctx, err)
			return
		}
		jsonResponse(ctx, map[string]any{"success": true})
	}
}

func ListKeys(st *locker.Store) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		jsonResponse(ctx, st.Keys())
	}
}

func ListRegistrations(st *locker.Store) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		jsonResponse(ctx, st.Registrations())
	}
}
