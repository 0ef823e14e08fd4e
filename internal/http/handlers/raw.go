package handlers

import (
	"github.com/valyala/fasthttp"

	"aethellocker/internal/locker"
)

// RawFile serves the stored content of a file addressed by its
// (project publicId, file publicId) pair as plain text.
func RawFile(st *locker.Store) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		pid, _ := ctx.UserValue("pid").(string)
		fid, _ := ctx.UserValue("fid").(string)

		content, ok := st.ResolveRawFile(pid, fid)
		if !ok {
			ctx.SetStatusCode(fasthttp.StatusNotFound)
			ctx.SetContentType("text/plain; charset=utf-8")
			ctx.SetBodyString("file not found")
			return
		}
		ctx.SetContentType("text/plain; charset=utf-8")
		ctx.SetBodyString(content)
	}
}
