package handlers

import (
	"encoding/json"

	"github.com/valyala/fasthttp"

	"aethellocker/internal/locker"
)

func SearchUsers(st *locker.Store) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		q := string(ctx.QueryArgs().Peek("q"))
		jsonResponse(ctx, st.SearchUsers(q))
	}
}

// GetUserData returns the caller's merged view: own projects, shared
// projects tagged with their true owner, and settings. Without an email the
// result is simply empty.
func GetUserData(st *locker.Store) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		email := string(ctx.QueryArgs().Peek("email"))
		jsonResponse(ctx, st.UserData(email))
	}
}

// PutUserData pushes a merged local view back. The reconciliation engine
// splits it across owners; see locker.SaveUserData.
func PutUserData(st *locker.Store) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		var req struct {
			Email    string           `json:"email"`
			Projects []locker.Project `json:"projects"`
			Settings locker.Settings  `json:"settings"`
		}
		if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
			errResponse(ctx, fasthttp.StatusBadRequest, "invalid JSON body")
			return
		}

		if err := st.SaveUserData(req.Email, req.Projects, req.Settings); err != nil {
			domainError(ctx, err)
			return
		}
		jsonResponse(ctx, map[string]any{"success": true})
	}
}
