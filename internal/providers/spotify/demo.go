package spotify

import (
	"strings"

	"github.com/dosyammh/critic/internal/providers"
)

var demoTracks = []providers.Item{
	{
		ID:          "music-1",
		Title:       "Bohemian Rhapsody - Queen",
		Description: "Album: A Night at the Opera (1975)",
		ImageURL:    "https://images.pexels.com/photos/1105666/pexels-photo-1105666.jpeg",
		Category:    providers.CategoryMusic,
		Source:      providers.SourceSpotify,
		Extra:       map[string]interface{}{"artists": []string{"Queen"}, "album": "A Night at the Opera"},
	},
	{
		ID:          "music-2",
		Title:       "Hotel California - Eagles",
		Description: "Album: Hotel California (1976)",
		ImageURL:    "https://images.pexels.com/photos/1105666/pexels-photo-1105666.jpeg",
		Category:    providers.CategoryMusic,
		Source:      providers.SourceSpotify,
		Extra:       map[string]interface{}{"artists": []string{"Eagles"}, "album": "Hotel California"},
	},
}

func filterDemoTracks(query string) []providers.Item {
	needle := strings.ToLower(query)
	var matched []providers.Item
	for _, item := range demoTracks {
		if strings.Contains(strings.ToLower(item.Title), needle) {
			matched = append(matched, item)
		}
	}
	return matched
}
