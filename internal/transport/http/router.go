package http

import (
	"net/http"

	"arith-quiz-service/internal/app"
	"github.com/rs/cors"
)

// NewRouter mounts the game and operational endpoints behind CORS.
func NewRouter(service *app.GameService, live LiveCounter, allowedOrigins []string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", NewWSHandler(service).ServeWS)
	mux.Handle("/stats", NewStatsHandler(service, live))

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
		},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(mux)
}
