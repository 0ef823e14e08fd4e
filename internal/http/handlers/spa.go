package handlers

import (
	"github.com/valyala/fasthttp"

	ui "aethellocker/web"
)

// AppShell serves the embedded single-page client. It backs both / and
// every unmatched route, so a page reload on a client-side path such as
// /raw/... still loads the application.
func AppShell() fasthttp.RequestHandler {
	index := ui.Index()
	return func(ctx *fasthttp.RequestCtx) {
		ctx.SetContentType("text/html; charset=utf-8")
		ctx.SetBody(index)
	}
}
