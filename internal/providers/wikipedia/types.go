// Package wikipedia provides the encyclopedia content source, backed by the
// Wikipedia REST summary API with an opensearch fallback.
package wikipedia

type summaryResponse struct {
	PageID    int    `json:"pageid"`
	Title     string `json:"title"`
	Extract   string `json:"extract"`
	Lang      string `json:"lang"`
	Thumbnail *struct {
		Source string `json:"source"`
	} `json:"thumbnail"`
	ContentURLs *struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}
