package main

import (
	"errors"
	"moviehub/proj/internal/metrics"
	"moviehub/proj/internal/services/comments"
	"moviehub/proj/internal/services/ratings"
	"net/http"
)

func (app *Application) listMovies(w http.ResponseWriter, r *http.Request) {
	var query struct {
		Category string `schema:"category"`
	}
	if err := app.decoder.Decode(&query, r.URL.Query()); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if query.Category != "" {
		movies, err := app.services.Movies.ByCategory(r.Context(), query.Category)
		if err != nil {
			app.Http.ServerError(w, r, err, "Exception occured while fetching movies")
			return
		}
		app.Http.Ok(w, r, envelop{"movies": movies}, "")
		return
	}
	grouped, err := app.services.Movies.Grouped(r.Context())
	if err != nil {
		app.Http.ServerError(w, r, err, "Exception occured while fetching movies")
		return
	}
	app.Http.Ok(w, r, envelop{"movies": grouped}, "")
}

func (app *Application) topRatedMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := app.services.Movies.TopRated(r.Context())
	if err != nil {
		app.Http.ServerError(w, r, err, "Exception occured while fetching top rated movies")
		return
	}
	app.Http.Ok(w, r, envelop{"movies": movies}, "")
}

func (app *Application) seenMovies(w http.ResponseWriter, r *http.Request) {
	identity := identityFromCtx(r)
	movies, err := app.services.Movies.SeenBy(r.Context(), identity.Email)
	if err != nil {
		app.Http.ServerError(w, r, err, "Exception occured while fetching seen movies")
		return
	}
	app.Http.Ok(w, r, envelop{"movies": movies}, "")
}

func (app *Application) addRating(w http.ResponseWriter, r *http.Request) {
	movieID, ok := app.extractIDParam(w, r, "movieId")
	if !ok {
		metrics.RecordRatingSubmission("invalid")
		return
	}
	var input struct {
		Rating int `json:"rating" validate:"required,gte=1,lte=5"`
	}
	if !app.readAndValidate(w, r, &input) {
		metrics.RecordRatingSubmission("invalid")
		return
	}
	average, err := app.services.Ratings.Submit(r.Context(), identityFromCtx(r), movieID, input.Rating)
	if err != nil {
		switch {
		case errors.Is(err, ratings.ErrInvalidInput):
			metrics.RecordRatingSubmission("invalid")
			app.Http.BadRequest(w, r, "Missing parameters")
		case errors.Is(err, ratings.ErrMovieNotFound):
			metrics.RecordRatingSubmission("not_found")
			app.Http.NotFound(w, r, "Movie not found")
		default:
			metrics.RecordRatingSubmission("error")
			app.Http.ServerError(w, r, err, "Exception occurred while adding rating")
		}
		return
	}
	metrics.RecordRatingSubmission("accepted")
	app.Http.Ok(w, r, envelop{"rating": average}, "Rating added")
}

func (app *Application) listComments(w http.ResponseWriter, r *http.Request) {
	movieID, ok := app.extractIDParam(w, r, "movie_id")
	if !ok {
		return
	}
	list, err := app.services.Comments.ForMovie(r.Context(), movieID)
	if err != nil {
		app.Http.ServerError(w, r, err, "Exception occurred while fetching comments")
		return
	}
	app.Http.Ok(w, r, envelop{"comments": list}, "")
}

func (app *Application) addComment(w http.ResponseWriter, r *http.Request) {
	movieID, ok := app.extractIDParam(w, r, "movie_id")
	if !ok {
		return
	}
	var input struct {
		Rating   int    `json:"rating" validate:"required,gte=1,lte=5"`
		Username string `json:"username" validate:"required,notblank"`
		Comment  string `json:"comment" validate:"required,notblank"`
		Title    string `json:"title" validate:"required,notblank"`
	}
	if !app.readAndValidate(w, r, &input) {
		return
	}
	comment, err := app.services.Comments.Add(r.Context(), comments.AddParams{
		MovieID:  movieID,
		Username: input.Username,
		Comment:  input.Comment,
		Title:    input.Title,
		Rating:   input.Rating,
	})
	if err != nil {
		if errors.Is(err, comments.ErrInvalidComment) {
			app.Http.BadRequest(w, r, "Missing parameters")
			return
		}
		app.Http.ServerError(w, r, err, "Exception occurred while adding comment")
		return
	}
	app.Http.Ok(w, r, envelop{"comment": comment}, "Comment added")
}
