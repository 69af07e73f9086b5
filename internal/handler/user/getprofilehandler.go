package user

import (
	"net/http"

	"topcoach/internal/handler"
	"topcoach/internal/httputil"
	"topcoach/internal/logic/user"
	"topcoach/internal/svc"
)

// Get the authenticated user's profile
func GetProfileHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := user.NewGetProfileLogic(r.Context(), svcCtx)
		resp, err := l.GetProfile()
		if err != nil {
			handler.RespondError(w, err)
		} else {
			httputil.OkJSON(w, resp)
		}
	}
}
