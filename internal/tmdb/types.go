package tmdb

import "github.com/varoOP/fliq/internal/domain"

type listResponse struct {
	Page         int                   `json:"page"`
	Results      []domain.SearchResult `json:"results"`
	TotalPages   int                   `json:"total_pages"`
	TotalResults int                   `json:"total_results"`
}

// results returns at most limit hits; limit 0 means all.
func (l listResponse) results(limit int) []domain.SearchResult {
	out := l.Results
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	if out == nil {
		return []domain.SearchResult{}
	}
	return out
}

type detailsResponse struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	PosterPath   *string `json:"poster_path"`
	BackdropPath *string `json:"backdrop_path"`
	ReleaseDate  string  `json:"release_date"`
	VoteAverage  float64 `json:"vote_average"`
	VoteCount    int     `json:"vote_count"`
	Runtime      *int    `json:"runtime"`
	Genres       []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"genres"`
	ImdbID *string `json:"imdb_id"`
}

type video struct {
	Key      string `json:"key"`
	Site     string `json:"site"`
	Type     string `json:"type"`
	Official bool   `json:"official"`
}

type videosResponse struct {
	Results []video `json:"results"`
}

// pickTrailer prefers an official YouTube trailer, then any YouTube trailer,
// then any YouTube video.
func pickTrailer(videos []video) *video {
	matchers := []func(v video) bool{
		func(v video) bool { return v.Site == "YouTube" && v.Type == "Trailer" && v.Official },
		func(v video) bool { return v.Site == "YouTube" && v.Type == "Trailer" },
		func(v video) bool { return v.Site == "YouTube" },
	}

	for _, match := range matchers {
		for i := range videos {
			if match(videos[i]) {
				return &videos[i]
			}
		}
	}

	return nil
}
