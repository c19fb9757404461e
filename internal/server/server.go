package server

import (
	"context"
	"net/http"

	goahttp "goa.design/goa/v3/http"
	goa "goa.design/goa/v3/pkg"
)

// Server lists the HTTP handlers of the inquiry desk API.
type Server struct {
	Mounts  []*MountPoint
	Submit  http.Handler
	List    http.Handler
	Show    http.Handler
	Respond http.Handler
	Login   http.Handler
	Logout  http.Handler
	Me      http.Handler
	Health  http.Handler
}

// MountPoint holds information about the mounted endpoints.
type MountPoint struct {
	// Method is the name of the service method served by the mounted HTTP handler.
	Method string
	// Verb is the HTTP method used to match requests to the mounted handler.
	Verb string
	// Pattern is the HTTP request path pattern used to match requests to the
	// mounted handler.
	Pattern string
}

// New instantiates HTTP handlers for all the API endpoints using the
// provided encoder and decoder. errhandler is called whenever a response
// fails to be encoded or an endpoint fails with an internal error.
func New(
	e *Endpoints,
	mux goahttp.Muxer,
	decoder func(*http.Request) goahttp.Decoder,
	encoder func(context.Context, http.ResponseWriter) goahttp.Encoder,
	errhandler func(context.Context, http.ResponseWriter, error),
) *Server {
	encodeError := EncodeError(encoder, errhandler)
	handler := func(service, method string, endpoint goa.Endpoint, decode func(*http.Request) (any, error), status int) http.Handler {
		return newHandler(service, method, endpoint, decode, EncodeResponse(encoder, status), encodeError, errhandler)
	}
	return &Server{
		Mounts: []*MountPoint{
			{"Submit", "POST", "/api/inquiries"},
			{"List", "GET", "/api/manager/inquiries"},
			{"Show", "GET", "/api/inquiries/{id}"},
			{"Respond", "POST", "/api/inquiries/{id}/respond"},
			{"Login", "POST", "/api/auth/login"},
			{"Logout", "POST", "/api/auth/logout"},
			{"Me", "GET", "/api/auth/me"},
			{"Health", "GET", "/api/health"},
		},
		Submit:  handler("inquiry", "submit", e.Submit, DecodeSubmitRequest(mux, decoder), http.StatusCreated),
		List:    handler("inquiry", "list", e.List, DecodeListRequest(mux, decoder), http.StatusOK),
		Show:    handler("inquiry", "show", e.Show, DecodeShowRequest(mux, decoder), http.StatusOK),
		Respond: handler("inquiry", "respond", e.Respond, DecodeRespondRequest(mux, decoder), http.StatusOK),
		Login:   handler("auth", "login", e.Login, DecodeLoginRequest(mux, decoder), http.StatusOK),
		Logout:  handler("auth", "logout", e.Logout, DecodeTokenRequest(mux, decoder), http.StatusOK),
		Me:      handler("auth", "me", e.Me, DecodeTokenRequest(mux, decoder), http.StatusOK),
		Health:  handler("health", "check", e.Health, DecodeEmptyRequest(mux, decoder), http.StatusOK),
	}
}

// Use wraps the server handlers with the given middleware.
func (s *Server) Use(m func(http.Handler) http.Handler) {
	s.Submit = m(s.Submit)
	s.List = m(s.List)
	s.Show = m(s.Show)
	s.Respond = m(s.Respond)
	s.Login = m(s.Login)
	s.Logout = m(s.Logout)
	s.Me = m(s.Me)
	s.Health = m(s.Health)
}

// Mount configures the mux to serve the API endpoints.
func (s *Server) Mount(mux goahttp.Muxer) {
	handlers := map[string]http.Handler{
		"Submit":  s.Submit,
		"List":    s.List,
		"Show":    s.Show,
		"Respond": s.Respond,
		"Login":   s.Login,
		"Logout":  s.Logout,
		"Me":      s.Me,
		"Health":  s.Health,
	}
	for _, m := range s.Mounts {
		mux.Handle(m.Verb, m.Pattern, handlers[m.Method].ServeHTTP)
	}
}

func newHandler(
	service, method string,
	endpoint goa.Endpoint,
	decodeRequest func(*http.Request) (any, error),
	encodeResponse func(context.Context, http.ResponseWriter, any) error,
	encodeError func(context.Context, http.ResponseWriter, error) error,
	errhandler func(context.Context, http.ResponseWriter, error),
) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), goahttp.AcceptTypeKey, r.Header.Get("Accept"))
		ctx = context.WithValue(ctx, goa.MethodKey, method)
		ctx = context.WithValue(ctx, goa.ServiceKey, service)

		payload, err := decodeRequest(r)
		if err != nil {
			if err := encodeError(ctx, w, err); err != nil && errhandler != nil {
				errhandler(ctx, w, err)
			}
			return
		}
		res, err := endpoint(ctx, payload)
		if err != nil {
			if err := encodeError(ctx, w, err); err != nil && errhandler != nil {
				errhandler(ctx, w, err)
			}
			return
		}
		if err := encodeResponse(ctx, w, res); err != nil && errhandler != nil {
			errhandler(ctx, w, err)
		}
	})
}
