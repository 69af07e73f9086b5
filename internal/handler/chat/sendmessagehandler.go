package chat

import (
	"net/http"

	"topcoach/internal/handler"
	"topcoach/internal/httputil"
	"topcoach/internal/logic/chat"
	"topcoach/internal/svc"
	"topcoach/internal/types"
)

// Send one chat message and get the coach's reply
func SendMessageHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.ChatRequest
		if err := httputil.Parse(r, &req); err != nil {
			httputil.BadRequest(w, "Message is required")
			return
		}

		l := chat.NewSendMessageLogic(r.Context(), svcCtx)
		resp, err := l.SendMessage(&req)
		if err != nil {
			handler.RespondError(w, err)
		} else {
			httputil.OkJSON(w, resp)
		}
	}
}
