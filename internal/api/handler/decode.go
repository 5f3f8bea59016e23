package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/grabble/internal/api/apierr"
	"github.com/mcoot/grabble/internal/model"
)

// decodeBody reads a required JSON body into v
func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apierr.NewInvalidRequestError("invalid request body")
	}
	return nil
}

// decodeOptionalBody is decodeBody for endpoints where every field is
// optional and an empty body is fine
func decodeOptionalBody(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return apierr.NewInvalidRequestError("invalid request body")
}

func roomCode(r *http.Request) model.RoomCode {
	return model.RoomCode(mux.Vars(r)["code"])
}
