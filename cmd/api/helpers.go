package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"moviehub/proj/internal/lib/validator"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func (app *Application) extractIDParam(w http.ResponseWriter, r *http.Request, param string) (id int, extracted bool) {
	raw := chi.URLParam(r, param)
	if raw == "" {
		app.Http.BadRequest(w, r, "Missing parameters")
		return 0, false
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		app.Http.BadRequest(w, r, "invalid movie ID")
		return 0, false
	}
	if id < 1 {
		app.Http.BadRequest(w, r, "id must be greater than zero")
		return 0, false
	}
	return id, true
}

// readAndValidate decodes the body into dst and runs struct validation.
// It writes the 400 itself and reports whether the handler may continue.
func (app *Application) readAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := app.readJSON(w, r, dst); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return false
	}
	if errs := validator.ValidateStruct(app.validator, dst); errs != nil {
		app.Http.ValidationFailed(w, r, errs)
		return false
	}
	return true
}

func (app *Application) readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576 // 1MB
	src := http.MaxBytesReader(w, r.Body, int64(maxBytes))
	defer io.Copy(io.Discard, src)
	dec := json.NewDecoder(src)
	err := dec.Decode(dst)
	if err != nil {
		return handleJsonErr(err)
	}
	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

func handleJsonErr(err error) error {
	var syntaxError *json.SyntaxError
	var unmarshalTypeError *json.UnmarshalTypeError
	var invalidUnmarshalError *json.InvalidUnmarshalError
	var maxBytesError *http.MaxBytesError
	switch {
	case errors.As(err, &syntaxError):
		return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)

	case errors.Is(err, io.ErrUnexpectedEOF):
		return errors.New("body contains badly-formed JSON")

	case errors.As(err, &unmarshalTypeError):
		if unmarshalTypeError.Field != "" {
			return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
		}
		return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)

	case errors.Is(err, io.EOF):
		return errors.New("body must not be empty")

	case errors.As(err, &maxBytesError):
		return fmt.Errorf("body must not be larger than %d bytes", maxBytesError.Limit)

	case errors.As(err, &invalidUnmarshalError):
		panic(err)
	default:
		return err
	}
}
