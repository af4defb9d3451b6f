package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type User struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	PasswordHash []byte `json:"-"`
	CreationDate string `json:"creation_date"` // YYYY-MM-DD
}

// Address is created together with its User and never on its own.
type Address struct {
	Email   string `json:"email"`
	Country string `json:"country"`
	City    string `json:"city"`
	Street  string `json:"street"`
}

type Movie struct {
	MovieID     int     `json:"movie_id" db:"movie_id"`
	Title       string  `json:"title" db:"title"`
	Type        string  `json:"type" db:"type"`
	ReleaseDate *string `json:"release_date" db:"release_date"`
	Rating      float64 `json:"rating" db:"rating"` // mean of all ratings for the movie
}

type Comment struct {
	ID        bson.ObjectID `json:"id" bson:"_id,omitempty"`
	MovieID   int           `json:"movie_id" bson:"movie_id"`
	Username  string        `json:"username" bson:"username"`
	Comment   string        `json:"comment" bson:"comment"`
	Title     string        `json:"title" bson:"title"`
	Rating    int           `json:"rating" bson:"rating"`
	Upvotes   int           `json:"upvotes" bson:"upvotes"`
	Downvotes int           `json:"downvotes" bson:"downvotes"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at"`
}

type Message struct {
	ID        bson.ObjectID `json:"id" bson:"_id,omitempty"`
	Name      string        `json:"name" bson:"name"`
	User      *int64        `json:"user,omitempty" bson:"user,omitempty"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" bson:"updated_at"`
}

// Identity is the claim carried by a bearer token.
type Identity struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// SessionUser is the snapshot kept server-side for the lifetime of a session.
type SessionUser struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}
