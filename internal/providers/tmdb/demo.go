package tmdb

import (
	"strings"

	"github.com/dosyammh/critic/internal/providers"
)

// Demo catalog served when no TMDB_API_KEY is configured, mirroring what the
// mobile app ships for keyless development builds.
var demoMovies = []providers.Item{
	{
		ID:          "movie-1",
		Title:       "The Shawshank Redemption",
		Description: "Two imprisoned men bond over a number of years, finding solace and eventual redemption through acts of common decency.",
		ImageURL:    "https://images.pexels.com/photos/2050718/pexels-photo-2050718.jpeg",
		Category:    providers.CategoryMovies,
		Source:      providers.SourceTMDB,
		Extra:       map[string]interface{}{"releaseDate": "1994-09-23", "voteAverage": 9.3},
	},
	{
		ID:          "movie-2",
		Title:       "The Godfather",
		Description: "The aging patriarch of an organized crime dynasty transfers control of his clandestine empire to his reluctant son.",
		ImageURL:    "https://images.pexels.com/photos/2050718/pexels-photo-2050718.jpeg",
		Category:    providers.CategoryMovies,
		Source:      providers.SourceTMDB,
		Extra:       map[string]interface{}{"releaseDate": "1972-03-24", "voteAverage": 9.2},
	},
	{
		ID:          "movie-3",
		Title:       "Pulp Fiction",
		Description: "The lives of two mob hitmen, a boxer, a gangster and his wife intertwine in four tales of violence and redemption.",
		ImageURL:    "https://images.pexels.com/photos/2050718/pexels-photo-2050718.jpeg",
		Category:    providers.CategoryMovies,
		Source:      providers.SourceTMDB,
		Extra:       map[string]interface{}{"releaseDate": "1994-10-14", "voteAverage": 8.9},
	},
}

var demoTVShows = []providers.Item{
	{
		ID:          "tv-1",
		Title:       "Breaking Bad",
		Description: "A high school chemistry teacher diagnosed with inoperable lung cancer turns to manufacturing and selling methamphetamine.",
		ImageURL:    "https://images.pexels.com/photos/2050718/pexels-photo-2050718.jpeg",
		Category:    providers.CategoryTVShows,
		Source:      providers.SourceTMDB,
		Extra:       map[string]interface{}{"firstAirDate": "2008-01-20", "voteAverage": 9.5},
	},
	{
		ID:          "tv-2",
		Title:       "The Bear",
		Description: "A young chef from the fine dining world returns to Chicago to run his family's Italian beef sandwich shop.",
		ImageURL:    "https://images.pexels.com/photos/2050718/pexels-photo-2050718.jpeg",
		Category:    providers.CategoryTVShows,
		Source:      providers.SourceTMDB,
		Extra:       map[string]interface{}{"firstAirDate": "2022-06-23", "voteAverage": 8.7},
	},
}

func filterDemoItems(catalog []providers.Item, query string) []providers.Item {
	needle := strings.ToLower(query)
	var matched []providers.Item
	for _, item := range catalog {
		if strings.Contains(strings.ToLower(item.Title), needle) ||
			strings.Contains(strings.ToLower(item.Description), needle) {
			matched = append(matched, item)
		}
	}
	return matched
}
