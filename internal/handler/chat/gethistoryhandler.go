package chat

import (
	"net/http"

	"topcoach/internal/handler"
	"topcoach/internal/httputil"
	"topcoach/internal/logic/chat"
	"topcoach/internal/svc"
	"topcoach/internal/types"
)

// Get conversation history, optionally bounded by ?limit=N
func GetHistoryHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.ChatHistoryRequest
		if err := httputil.Parse(r, &req); err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}

		l := chat.NewGetHistoryLogic(r.Context(), svcCtx)
		resp, err := l.GetHistory(&req)
		if err != nil {
			handler.RespondError(w, err)
		} else {
			httputil.OkJSON(w, resp)
		}
	}
}
