package models

import "moviehub/proj/internal/storage/postgres"

type Models struct {
	Users   *UserModel
	Movies  *MovieModel
	Ratings *RatingModel
}

// New binds the models to q, which is either the pool or an open transaction.
func New(q postgres.DBTX) *Models {
	return &Models{
		Users:   &UserModel{DB: q},
		Movies:  &MovieModel{DB: q},
		Ratings: &RatingModel{DB: q},
	}
}
