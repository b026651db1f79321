package offering

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fortytwo-ai/horizon/pkg/cerr"
	"github.com/fortytwo-ai/horizon/pkg/clog"
)

type Server struct {
	catalog *Catalog
}

func NewServer(catalog *Catalog) *Server {
	return &Server{catalog: catalog}
}

func (s *Server) Mount(r chi.Router) {
	r.Get("/services", s.ListServices)
	r.Get("/services/{id}", s.GetService)
}

func (s *Server) ListServices(w http.ResponseWriter, r *http.Request) {
	cerr.SetJSONData(r.Context(), s.catalog.List(r.Context()))
}

func (s *Server) GetService(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	clog.AddAttribute(r.Context(), "service_id", id)

	svc, err := s.catalog.Get(r.Context(), id)
	if err != nil {
		cerr.SetJSONError(r.Context(), err)
		return
	}
	cerr.SetJSONData(r.Context(), svc)
}
