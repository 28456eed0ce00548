package provider

import (
	"ima-data/internal/provider/anbima"
)

// AnbimaProvider is a DataProvider backed by the ANBIMA IMA download endpoint.
// It embeds *anbima.Crawler to expose FetchDay with minimal boilerplate.
type AnbimaProvider struct {
	*anbima.Crawler
}

// NewAnbimaProvider creates a new ANBIMA-backed DataProvider.
func NewAnbimaProvider(opts anbima.Options) (*AnbimaProvider, error) {
	crawler, err := anbima.NewCrawler(opts)
	if err != nil {
		return nil, err
	}
	return &AnbimaProvider{Crawler: crawler}, nil
}

// GetName returns provider name
func (p *AnbimaProvider) GetName() string {
	return "ANBIMA"
}
