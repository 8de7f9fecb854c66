// Package httpjson writes the API's response envelope. Every JSON
// endpoint replies with {"success": bool} plus either "data" on
// success or "message" on failure.
package httpjson

import (
	"encoding/json"
	"net/http"
)

// Envelope is the wire shape of every JSON response.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

func write(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

// OK writes a 200 with the given payload.
func OK(w http.ResponseWriter, data interface{}) {
	write(w, http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes a 201 with the given payload.
func Created(w http.ResponseWriter, data interface{}) {
	write(w, http.StatusCreated, Envelope{Success: true, Data: data})
}

// OKMessage writes a 200 with a human-readable message and no data.
func OKMessage(w http.ResponseWriter, msg string) {
	write(w, http.StatusOK, Envelope{Success: true, Message: msg})
}

// Fail writes an error status with a human-readable message.
func Fail(w http.ResponseWriter, status int, msg string) {
	write(w, status, Envelope{Success: false, Message: msg})
}
