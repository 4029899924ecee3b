package delivery

import (
	"github.com/sargassum-watch/sargassum-dataset/internal/properties"
	"github.com/sargassum-watch/sargassum-dataset/internal/sentinel"
)

// NewSentinelClient builds the Sentinel Hub backend from the run
// configuration.
func NewSentinelClient(cfg *properties.Config) (*sentinel.Client, error) {
	creds, err := cfg.Credentials()
	if err != nil {
		return nil, err
	}
	return sentinel.NewClient(sentinel.ClientConfig{
		Credentials: creds,
		TokenURL:    cfg.TokenURL,
		ProcessURL:  cfg.ProcessURL,
		CatalogURL:  cfg.CatalogURL,
		Collection:  cfg.Collection,
		CacheDir:    cfg.CachePath,
		Resolution:  cfg.Resolution,
	})
}
