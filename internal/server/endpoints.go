package server

import (
	"context"

	goa "goa.design/goa/v3/pkg"
	"goa.design/goa/v3/security"

	"inquirydesk/internal/services"
)

// Endpoints wraps the service methods in transport independent endpoints.
type Endpoints struct {
	Submit  goa.Endpoint
	List    goa.Endpoint
	Show    goa.Endpoint
	Respond goa.Endpoint
	Login   goa.Endpoint
	Logout  goa.Endpoint
	Me      goa.Endpoint
	Health  goa.Endpoint
}

// Request types carry the bearer token next to the service payload.
type (
	listRequest struct {
		Token string
		services.ListPayload
	}
	showRequest struct {
		Token string
		services.GetPayload
	}
	respondRequest struct {
		Token string
		services.RespondPayload
	}
	tokenRequest struct {
		Token string
	}
)

// managerScheme guards every manager route.
var managerScheme = security.JWTScheme{
	Name:           "jwt",
	Scopes:         []string{services.ScopeStaff, services.ScopeAdmin},
	RequiredScopes: []string{services.ScopeStaff},
}

// sessionScheme only requires a valid, unrevoked token.
var sessionScheme = security.JWTScheme{
	Name:   "jwt",
	Scopes: []string{services.ScopeStaff, services.ScopeAdmin},
}

// NewEndpoints wraps the services' methods with endpoints.
func NewEndpoints(inquiry *services.InquiryService, auth *services.AuthService, health *services.HealthService) *Endpoints {
	authJWTFn := auth.JWTAuth
	return &Endpoints{
		Submit:  NewSubmitEndpoint(inquiry),
		List:    NewListEndpoint(inquiry, authJWTFn),
		Show:    NewShowEndpoint(inquiry, authJWTFn),
		Respond: NewRespondEndpoint(inquiry, authJWTFn),
		Login:   NewLoginEndpoint(auth),
		Logout:  NewLogoutEndpoint(auth, authJWTFn),
		Me:      NewMeEndpoint(auth, authJWTFn),
		Health:  NewHealthEndpoint(health),
	}
}

// Use applies the given middleware to all the endpoints.
func (e *Endpoints) Use(m func(goa.Endpoint) goa.Endpoint) {
	e.Submit = m(e.Submit)
	e.List = m(e.List)
	e.Show = m(e.Show)
	e.Respond = m(e.Respond)
	e.Login = m(e.Login)
	e.Logout = m(e.Logout)
	e.Me = m(e.Me)
	e.Health = m(e.Health)
}

func authorize(ctx context.Context, authJWTFn security.AuthJWTFunc, token string, scheme security.JWTScheme) (context.Context, error) {
	if token == "" {
		return ctx, services.Unauthorized("Not authenticated")
	}
	sc := scheme
	return authJWTFn(ctx, token, &sc)
}

// NewSubmitEndpoint returns an endpoint function that calls the method
// "submit" of service "inquiry".
func NewSubmitEndpoint(s *services.InquiryService) goa.Endpoint {
	return func(ctx context.Context, req any) (any, error) {
		p := req.(*services.SubmitPayload)
		return s.Submit(ctx, p)
	}
}

// NewListEndpoint returns an endpoint function that calls the method
// "list" of service "inquiry".
func NewListEndpoint(s *services.InquiryService, authJWTFn security.AuthJWTFunc) goa.Endpoint {
	return func(ctx context.Context, req any) (any, error) {
		p := req.(*listRequest)
		ctx, err := authorize(ctx, authJWTFn, p.Token, managerScheme)
		if err != nil {
			return nil, err
		}
		return s.List(ctx, &p.ListPayload)
	}
}

// NewShowEndpoint returns an endpoint function that calls the method
// "show" of service "inquiry".
func NewShowEndpoint(s *services.InquiryService, authJWTFn security.AuthJWTFunc) goa.Endpoint {
	return func(ctx context.Context, req any) (any, error) {
		p := req.(*showRequest)
		ctx, err := authorize(ctx, authJWTFn, p.Token, managerScheme)
		if err != nil {
			return nil, err
		}
		return s.Get(ctx, &p.GetPayload)
	}
}

// NewRespondEndpoint returns an endpoint function that calls the method
// "respond" of service "inquiry".
func NewRespondEndpoint(s *services.InquiryService, authJWTFn security.AuthJWTFunc) goa.Endpoint {
	return func(ctx context.Context, req any) (any, error) {
		p := req.(*respondRequest)
		ctx, err := authorize(ctx, authJWTFn, p.Token, managerScheme)
		if err != nil {
			return nil, err
		}
		return s.Respond(ctx, &p.RespondPayload)
	}
}

// NewLoginEndpoint returns an endpoint function that calls the method
// "login" of service "auth".
func NewLoginEndpoint(s *services.AuthService) goa.Endpoint {
	return func(ctx context.Context, req any) (any, error) {
		p := req.(*services.LoginPayload)
		return s.Login(ctx, p)
	}
}

// NewLogoutEndpoint returns an endpoint function that calls the method
// "logout" of service "auth".
func NewLogoutEndpoint(s *services.AuthService, authJWTFn security.AuthJWTFunc) goa.Endpoint {
	return func(ctx context.Context, req any) (any, error) {
		p := req.(*tokenRequest)
		ctx, err := authorize(ctx, authJWTFn, p.Token, sessionScheme)
		if err != nil {
			return nil, err
		}
		return s.Logout(ctx)
	}
}

// NewMeEndpoint returns an endpoint function that calls the method "me" of
// service "auth".
func NewMeEndpoint(s *services.AuthService, authJWTFn security.AuthJWTFunc) goa.Endpoint {
	return func(ctx context.Context, req any) (any, error) {
		p := req.(*tokenRequest)
		ctx, err := authorize(ctx, authJWTFn, p.Token, sessionScheme)
		if err != nil {
			return nil, err
		}
		return s.Me(ctx)
	}
}

// NewHealthEndpoint returns an endpoint function that calls the method
// "check" of service "health".
func NewHealthEndpoint(s *services.HealthService) goa.Endpoint {
	return func(ctx context.Context, _ any) (any, error) {
		return s.Check(ctx)
	}
}
