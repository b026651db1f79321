package project

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

// Mount registers the project routes on r. r is expected to carry the cerr
// JSON response middleware.
func (s *Server) Mount(r chi.Router) {
	r.Get("/projects", s.ListProjects)
	r.Get("/projects/featured", s.ListFeaturedProjects)
	r.Get("/projects/{id}", s.GetProject)
}

func (s *Server) ListProjects(w http.ResponseWriter, r *http.Request) {
	res := s.catalog.List(r.Context())
	clog.AddAttributes(r.Context(), map[string]any{
		"catalog_source": res.Source,
		"catalog_size":   len(res.Projects),
	})
	if res.FellBack() {
		clog.AddAttribute(r.Context(), "catalog_fallback", res.Fallback.Error())
	}
	cerr.SetJSONData(r.Context(), res.Projects)
}

func (s *Server) ListFeaturedProjects(w http.ResponseWriter, r *http.Request) {
	cerr.SetJSONData(r.Context(), s.catalog.Featured(r.Context()))
}

func (s *Server) GetProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	clog.AddAttribute(r.Context(), "project_id", id)

	p, err := s.catalog.Get(r.Context(), id)
	if err != nil {
		if cerr.IsCode(err, cerr.NotFound) {
			cerr.SetNewJSONError(r.Context(), cerr.NotFound, "Project not found", err)
			return
		}
		cerr.SetNewJSONError(r.Context(), cerr.Unavailable, "Failed to fetch project", err)
		return
	}
	cerr.SetJSONData(r.Context(), p)
}
