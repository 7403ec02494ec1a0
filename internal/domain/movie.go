package domain

import (
	"fmt"
	"strings"
)

// SearchResult is a catalog hit as returned by search, trending and similar-titles.
type SearchResult struct {
	ID           int     `json:"id" yaml:"id"`
	Title        string  `json:"title" yaml:"title"`
	Overview     string  `json:"overview" yaml:"overview"`
	PosterPath   *string `json:"poster_path" yaml:"poster_path"`
	BackdropPath *string `json:"backdrop_path" yaml:"backdrop_path"`
	ReleaseDate  string  `json:"release_date" yaml:"release_date"`
	VoteAverage  float64 `json:"vote_average" yaml:"vote_average"`
	VoteCount    int     `json:"vote_count" yaml:"vote_count"`
	GenreIDs     []int   `json:"genre_ids" yaml:"genre_ids"`
}

// Year returns the leading year of the release date, or "" when unknown.
func (r SearchResult) Year() string {
	return YearOf(r.ReleaseDate)
}

// YearOf extracts the year component from a YYYY-MM-DD date.
func YearOf(releaseDate string) string {
	year, _, _ := strings.Cut(releaseDate, "-")
	return year
}

// Ratings holds the critic-ratings enrichment. A nil field means the source
// did not supply it or reported it as unknown.
type Ratings struct {
	IMDbRating          *string `json:"imdbRating" yaml:"imdb_rating"`
	RottenTomatoesScore *string `json:"rottenTomatoesScore" yaml:"rotten_tomatoes_score"`
	MetacriticScore     *string `json:"metacriticScore" yaml:"metacritic_score"`
	Awards              *string `json:"awards" yaml:"awards"`
}

// MovieDetails is the canonical per-movie aggregate.
type MovieDetails struct {
	ID            int      `json:"id" yaml:"id"`
	Title         string   `json:"title" yaml:"title"`
	Overview      string   `json:"overview" yaml:"overview"`
	PosterURL     *string  `json:"posterUrl" yaml:"poster_url"`
	BackdropURL   *string  `json:"backdropUrl" yaml:"backdrop_url"`
	ReleaseDate   string   `json:"releaseDate" yaml:"release_date"`
	Year          string   `json:"year" yaml:"year"`
	TMDBRating    float64  `json:"tmdbRating" yaml:"tmdb_rating"`
	TMDBVoteCount int      `json:"tmdbVoteCount" yaml:"tmdb_vote_count"`
	Runtime       *int     `json:"runtime" yaml:"runtime"`
	Genres        []string `json:"genres" yaml:"genres"`
	IMDbID        *string  `json:"imdbId" yaml:"imdb_id"`

	IMDbRating          *string `json:"imdbRating,omitempty" yaml:"imdb_rating,omitempty"`
	RottenTomatoesScore *string `json:"rottenTomatoesScore,omitempty" yaml:"rotten_tomatoes_score,omitempty"`
	MetacriticScore     *string `json:"metacriticScore,omitempty" yaml:"metacritic_score,omitempty"`
	Awards              *string `json:"awards,omitempty" yaml:"awards,omitempty"`
}

// ApplyRatings copies the enrichment fields onto the details.
func (m *MovieDetails) ApplyRatings(r Ratings) {
	m.IMDbRating = r.IMDbRating
	m.RottenTomatoesScore = r.RottenTomatoesScore
	m.MetacriticScore = r.MetacriticScore
	m.Awards = r.Awards
}

// PrimaryRating returns the headline rating. IMDb wins when known, otherwise
// the catalog average is used.
func (m *MovieDetails) PrimaryRating() (label, value string) {
	if m.IMDbRating != nil {
		return "IMDb", *m.IMDbRating
	}
	return "TMDB", fmt.Sprintf("%.1f", m.TMDBRating)
}

// MovieView is everything the detail card renders.
type MovieView struct {
	Details    *MovieDetails     `json:"details" yaml:"details"`
	Streaming  []StreamingOption `json:"streaming" yaml:"streaming"`
	Offers     OfferGroups       `json:"offers" yaml:"offers"`
	Similar    []SearchResult    `json:"similar" yaml:"similar"`
	TrailerURL *string           `json:"trailerUrl" yaml:"trailer_url"`
}
