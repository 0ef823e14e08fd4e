package handlers

import (
	"encoding/json"
	"errors"

	"github.com/valyala/fasthttp"

	"aethellocker/internal/locker"
)

func jsonResponse(ctx *fasthttp.RequestCtx, data any) {
	ctx.SetContentType("application/json")
	body, _ := json.Marshal(data)
	ctx.SetBody(body)
}

func errResponse(ctx *fasthttp.RequestCtx, code int, msg string) {
	ctx.SetStatusCode(code)
	ctx.SetContentType("application/json")
	body, _ := json.Marshal(map[string]any{"success": false, "error": msg})
	ctx.SetBody(body)
}

// domainError maps locker sentinel errors onto HTTP statuses.
func domainError(ctx *fasthttp.RequestCtx, err error) {
	switch {
	case errors.Is(err, locker.ErrNotFound):
		errResponse(ctx, fasthttp.StatusNotFound, err.Error())
	case errors.Is(err, locker.ErrInvalidKey),
		errors.Is(err, locker.ErrKeyExpired),
		errors.Is(err, locker.ErrKeyMismatch):
		errResponse(ctx, fasthttp.StatusUnauthorized, err.Error())
	case errors.Is(err, locker.ErrBadRequest):
		errResponse(ctx, fasthttp.StatusBadRequest, err.Error())
	default:
		errResponse(ctx, fasthttp.StatusInternalServerError, err.Error())
	}
}
