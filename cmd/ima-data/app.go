package main

import (
	"ima-data/internal/app"
	"ima-data/internal/crawl"
	"ima-data/internal/provider"
)

// App holds application dependencies built by Wire.
type App struct {
	Config *app.Config
	DP     provider.DataProvider
	Runner *crawl.Runner
}
