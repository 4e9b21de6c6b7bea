// Package respond writes the JSON envelope every API endpoint returns:
//
//	{ "status": true|false, "message": "...", "payload": {...} }
package respond

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// MaxBodyBytes caps request bodies decoded by Decode.
const MaxBodyBytes = 1 << 20

// ErrEmptyBody is returned by Decode when the body is empty.
var ErrEmptyBody = errors.New("request body is empty")

// Envelope is the response wrapper.
type Envelope struct {
	Status  bool   `json:"status"`
	Message string `json:"message,omitempty"`
	Payload any    `json:"payload,omitempty"`
}

// JSON writes env with the given status code.
func JSON(w http.ResponseWriter, code int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(env)
}

// OK writes a 200 success envelope.
func OK(w http.ResponseWriter, message string, payload any) {
	JSON(w, http.StatusOK, Envelope{Status: true, Message: message, Payload: payload})
}

// Created writes a 201 success envelope.
func Created(w http.ResponseWriter, message string, payload any) {
	JSON(w, http.StatusCreated, Envelope{Status: true, Message: message, Payload: payload})
}

// Fail writes a failure envelope with message.
func Fail(w http.ResponseWriter, code int, message string) {
	JSON(w, code, Envelope{Status: false, Message: message})
}

// Decode reads a JSON body into dst.
func Decode(r *http.Request, dst any) error {
	if r.Body == nil {
		return ErrEmptyBody
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return err
	}
	return nil
}
