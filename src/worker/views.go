package worker

import (
	"net/http"
	"time"

	handlers "pipeline/src/worker/handlers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Server struct {
	Router  *chi.Mux
	Handler *handlers.Handler
}

func NewServer(handler *handlers.Handler) *Server {
	server := &Server{
		Router:  chi.NewRouter(),
		Handler: handler,
	}
	server.InitRoutes()
	return server
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

func (s *Server) InitRoutes() {
	s.Router.Use(middleware.Recoverer)
	s.Router.Get("/alive", s.Handler.Healthcheck)
	s.Router.Route("/api", func(r chi.Router) {
		r.Post("/pipeline/run", s.Handler.RunPipeline)
		r.Get("/valuations", s.Handler.GetValuations)
	})
}

func NewHTTPServer(server *Server, port string) *http.Server {
	if port == "" {
		port = "8000"
	}
	httpServer := &http.Server{
		Addr:         ":" + port,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 6 * time.Minute,
		Handler:      server,
	}
	return httpServer
}
