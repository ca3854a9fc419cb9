// Package gamedata provides the embedded card, tile and hero catalogs and utilities for loading them.
package gamedata

import "embed"

// dataFS embeds all catalog files from this directory at build time.
//
//go:embed *.json *.yaml
var dataFS embed.FS
