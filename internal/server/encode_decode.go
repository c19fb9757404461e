package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	goahttp "goa.design/goa/v3/http"
	goa "goa.design/goa/v3/pkg"

	"inquirydesk/internal/services"
	"inquirydesk/internal/view"
)

// ErrorBody is the body of every error response.
type ErrorBody struct {
	Detail string `json:"detail"`
}

// DecodeSubmitRequest returns a decoder for requests sent to the inquiry
// submit endpoint.
func DecodeSubmitRequest(mux goahttp.Muxer, decoder func(*http.Request) goahttp.Decoder) func(*http.Request) (any, error) {
	return func(r *http.Request) (any, error) {
		var body services.SubmitPayload
		if err := decodeBody(r, decoder, &body); err != nil {
			return nil, err
		}
		return &body, nil
	}
}

// DecodeListRequest returns a decoder for requests sent to the manager list
// endpoint.
func DecodeListRequest(mux goahttp.Muxer, decoder func(*http.Request) goahttp.Decoder) func(*http.Request) (any, error) {
	return func(r *http.Request) (any, error) {
		params, err := view.ParseParams(r.URL.Query())
		if err != nil {
			return nil, services.MakeBadRequest(err)
		}
		return &listRequest{
			Token:       bearerToken(r),
			ListPayload: services.ListPayload{View: params},
		}, nil
	}
}

// DecodeShowRequest returns a decoder for requests sent to the inquiry show
// endpoint.
func DecodeShowRequest(mux goahttp.Muxer, decoder func(*http.Request) goahttp.Decoder) func(*http.Request) (any, error) {
	return func(r *http.Request) (any, error) {
		id, err := pathID(mux, r)
		if err != nil {
			return nil, err
		}
		return &showRequest{Token: bearerToken(r), GetPayload: services.GetPayload{ID: id}}, nil
	}
}

// DecodeRespondRequest returns a decoder for requests sent to the inquiry
// respond endpoint.
func DecodeRespondRequest(mux goahttp.Muxer, decoder func(*http.Request) goahttp.Decoder) func(*http.Request) (any, error) {
	return func(r *http.Request) (any, error) {
		id, err := pathID(mux, r)
		if err != nil {
			return nil, err
		}
		var body services.RespondPayload
		if err := decodeBody(r, decoder, &body); err != nil {
			return nil, err
		}
		body.ID = id
		return &respondRequest{Token: bearerToken(r), RespondPayload: body}, nil
	}
}

// DecodeLoginRequest returns a decoder for requests sent to the auth login
// endpoint.
func DecodeLoginRequest(mux goahttp.Muxer, decoder func(*http.Request) goahttp.Decoder) func(*http.Request) (any, error) {
	return func(r *http.Request) (any, error) {
		var body services.LoginPayload
		if err := decodeBody(r, decoder, &body); err != nil {
			return nil, err
		}
		return &body, nil
	}
}

// DecodeTokenRequest returns a decoder for endpoints that only need the
// bearer token.
func DecodeTokenRequest(mux goahttp.Muxer, decoder func(*http.Request) goahttp.Decoder) func(*http.Request) (any, error) {
	return func(r *http.Request) (any, error) {
		return &tokenRequest{Token: bearerToken(r)}, nil
	}
}

// DecodeEmptyRequest returns a decoder for endpoints without a payload.
func DecodeEmptyRequest(mux goahttp.Muxer, decoder func(*http.Request) goahttp.Decoder) func(*http.Request) (any, error) {
	return func(*http.Request) (any, error) {
		return nil, nil
	}
}

// EncodeResponse returns an encoder for endpoint results, written with the
// given status code.
func EncodeResponse(encoder func(context.Context, http.ResponseWriter) goahttp.Encoder, status int) func(context.Context, http.ResponseWriter, any) error {
	return func(ctx context.Context, w http.ResponseWriter, v any) error {
		enc := encoder(ctx, w)
		w.WriteHeader(status)
		return enc.Encode(v)
	}
}

// EncodeError returns an encoder for errors returned by the endpoints.
// Service errors keep their message in the detail field; anything else is
// reported as an internal error and handed to errhandler for logging.
func EncodeError(encoder func(context.Context, http.ResponseWriter) goahttp.Encoder, errhandler func(context.Context, http.ResponseWriter, error)) func(context.Context, http.ResponseWriter, error) error {
	return func(ctx context.Context, w http.ResponseWriter, v error) error {
		status, detail := StatusOf(v)
		if status == http.StatusInternalServerError && errhandler != nil {
			errhandler(ctx, w, v)
		}
		if status == http.StatusUnauthorized {
			w.Header().Set("WWW-Authenticate", "Bearer")
		}
		enc := encoder(ctx, w)
		w.WriteHeader(status)
		return enc.Encode(&ErrorBody{Detail: detail})
	}
}

// StatusOf maps an endpoint error onto its HTTP status and the detail shown
// to the caller.
func StatusOf(err error) (int, string) {
	var serr *goa.ServiceError
	if !errors.As(err, &serr) || serr.Fault {
		return http.StatusInternalServerError, "Internal server error"
	}
	switch serr.Name {
	case services.ErrNameUnauthorized:
		return http.StatusUnauthorized, serr.Message
	case services.ErrNameNotFound:
		return http.StatusNotFound, serr.Message
	default:
		// bad_request plus goa's own decode and validation errors
		return http.StatusBadRequest, serr.Message
	}
}

func decodeBody(r *http.Request, decoder func(*http.Request) goahttp.Decoder, v any) error {
	if err := decoder(r).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return goa.MissingPayloadError()
		}
		return goa.DecodePayloadError(err.Error())
	}
	return nil
}

func pathID(mux goahttp.Muxer, r *http.Request) (uint, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseUint(raw, 10, 0)
	if err != nil || id == 0 {
		return 0, goa.InvalidFieldTypeError("id", raw, "positive integer")
	}
	return uint(id), nil
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
