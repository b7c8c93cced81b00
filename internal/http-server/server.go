package httpserver

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/justinas/alice"
	"github.com/rs/cors"

	"finnparser/internal/http-server/handlers/adverts"
	"finnparser/internal/http-server/handlers/search"
	"finnparser/internal/http-server/middleware"
	"finnparser/internal/http-server/respond"
)

type Server struct {
	log    *slog.Logger
	router *mux.Router
	cors   *cors.Cors
}

func New(log *slog.Logger, allowedOrigins []string) *Server {
	if log == nil {
		log = slog.Default()
	}
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		respond.WriteError(w, http.StatusNotFound, "not_found", "no such route")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		respond.WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed", "GET only")
	})

	return &Server{
		log:    log,
		router: r,
		cors: cors.New(cors.Options{
			AllowedOrigins: allowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", middleware.RequestIDHeader},
			ExposedHeaders: []string{middleware.RequestIDHeader},
		}),
	}
}

func (s *Server) Handler() http.Handler {
	chain := alice.New(
		middleware.AccessLog(s.log),
		middleware.RecoverPanic(s.log),
		middleware.WithRequestID,
		s.cors.Handler,
	)
	return chain.Then(s.router)
}

type Deps struct {
	Adverts adverts.Getter
	Search  search.Searcher
	Pages   search.PagesCollector
	Timeout time.Duration
}

func (s *Server) RegisterRoutes(dep Deps) {
	s.router.HandleFunc("/adverts/{id}", adverts.NewGetHandler(adverts.Options{
		Log:     s.log,
		Getter:  dep.Adverts,
		Timeout: dep.Timeout,
	})).Methods(http.MethodGet)

	s.router.HandleFunc("/search", search.NewGetHandler(search.Options{
		Log:      s.log,
		Searcher: dep.Search,
		Pages:    dep.Pages,
		Timeout:  dep.Timeout,
	})).Methods(http.MethodGet)

	s.router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respond.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
}
