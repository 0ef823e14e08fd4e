package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"

	"aethellocker/internal/config"
)

func TestAdminAuthOpenWithoutPassword(t *testing.T) {
	mw := AdminAuth(&config.Config{})

	called := false
	handler := mw(func(ctx *fasthttp.RequestCtx) { called = true })

	ctx := &fasthttp.RequestCtx{}
	handler(ctx)
	assert.True(t, called)
}

func TestAdminAuthRejectsMissingOrWrongPassword(t *testing.T) {
	mw := AdminAuth(&config.Config{AdminPassword: "hunter2"})

	called := false
	handler := mw(func(ctx *fasthttp.RequestCtx) { called = true })

	ctx := &fasthttp.RequestCtx{}
	handler(ctx)
	assert.False(t, called)
	assert.Equal(t, fasthttp.StatusUnauthorized, ctx.Response.StatusCode())

	ctx = &fasthttp.RequestCtx{}
	ctx.Request.Header.Set("X-Admin-Password", "wrong")
	handler(ctx)
	assert.False(t, called)
	assert.Equal(t, fasthttp.StatusUnauthorized, ctx.Response.StatusCode())
}

func TestAdminAuthAcceptsCorrectPassword(t *testing.T) {
	mw := AdminAuth(&config.Config{AdminPassword: "hunter2"})

	called := false
	handler := mw(func(ctx *fasthttp.RequestCtx) { called = true })

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.Set("X-Admin-Password", "hunter2")
	handler(ctx)
	assert.True(t, called)
}
