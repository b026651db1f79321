package inquiry

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fortytwo-ai/horizon/pkg/cerr"
)

const maxBodyBytes = 64 << 10

type Server struct {
	relay *Relay
}

func NewServer(relay *Relay) *Server {
	return &Server{relay: relay}
}

// Mount registers the public form endpoints.
func (s *Server) Mount(r chi.Router) {
	r.Post("/service-inquiry", s.SubmitInquiry)
	r.Post("/contact", s.SubmitContact)
}

// MountAdmin registers the archive listing. r must be behind the API key.
func (s *Server) MountAdmin(r chi.Router) {
	r.Get("/inquiries", s.ListInquiries)
	r.Get("/contacts", s.ListContacts)
}

func (s *Server) SubmitInquiry(w http.ResponseWriter, r *http.Request) {
	var i Inquiry
	if err := decode(r, &i, func(get func(string) string) {
		i = Inquiry{
			Name:        get("name"),
			Email:       get("email"),
			Phone:       get("phone"),
			ServiceType: get("serviceType"),
			Message:     get("message"),
			Budget:      get("budget"),
			Timeline:    get("timeline"),
		}
	}); err != nil {
		cerr.SetJSONError(r.Context(), err)
		return
	}

	if err := s.relay.SubmitInquiry(r.Context(), &i); err != nil {
		respondSubmitError(r, err, "Failed to submit inquiry")
		return
	}
	cerr.SetJSONMessage(r.Context(), "Inquiry submitted successfully")
}

func (s *Server) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var c Contact
	if err := decode(r, &c, func(get func(string) string) {
		c = Contact{
			Name:    get("name"),
			Email:   get("email"),
			Subject: get("subject"),
			Message: get("message"),
		}
	}); err != nil {
		cerr.SetJSONError(r.Context(), err)
		return
	}

	if err := s.relay.SubmitContact(r.Context(), &c); err != nil {
		respondSubmitError(r, err, "Failed to submit contact form")
		return
	}
	cerr.SetJSONMessage(r.Context(), "Contact form submitted successfully")
}

func (s *Server) ListInquiries(w http.ResponseWriter, r *http.Request) {
	list, err := s.relay.ListInquiries(r.Context())
	if err != nil {
		cerr.SetJSONError(r.Context(), err)
		return
	}
	cerr.SetJSONData(r.Context(), list)
}

func (s *Server) ListContacts(w http.ResponseWriter, r *http.Request) {
	list, err := s.relay.ListContacts(r.Context())
	if err != nil {
		cerr.SetJSONError(r.Context(), err)
		return
	}
	cerr.SetJSONData(r.Context(), list)
}

// respondSubmitError passes validation errors through and hides everything
// else behind msg.
func respondSubmitError(r *http.Request, err error, msg string) {
	if cerr.IsCode(err, cerr.InvalidArgument) {
		cerr.SetJSONError(r.Context(), err)
		return
	}
	cerr.SetNewJSONError(r.Context(), cerr.Internal, msg, err)
}

// decode reads a JSON body into v, or calls fromForm for urlencoded and
// multipart bodies.
func decode(r *http.Request, v any, fromForm func(get func(string) string)) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		r.Body = io.NopCloser(io.LimitReader(r.Body, maxBodyBytes))
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return cerr.NewError(cerr.InvalidArgument, "Invalid request body", err)
		}
		fromForm(r.PostFormValue)
		return nil
	default:
		dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
		if err := dec.Decode(v); err != nil {
			if errors.Is(err, io.EOF) {
				return cerr.NewError(cerr.InvalidArgument, MsgMissingFields, err)
			}
			return cerr.NewError(cerr.InvalidArgument, "Invalid request body", err)
		}
		return nil
	}
}
