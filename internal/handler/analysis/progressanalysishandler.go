package analysis

import (
	"net/http"

	"topcoach/internal/handler"
	"topcoach/internal/httputil"
	"topcoach/internal/logic/analysis"
	"topcoach/internal/svc"
)

// Run the on-demand progress/calorie/streak analysis
func ProgressAnalysisHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := analysis.NewProgressAnalysisLogic(r.Context(), svcCtx)
		resp, err := l.ProgressAnalysis()
		if err != nil {
			handler.RespondError(w, err)
		} else {
			httputil.OkJSON(w, resp)
		}
	}
}
