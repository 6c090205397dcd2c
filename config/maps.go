package config

import _ "embed"

// DefaultMap is the map used when world.map_path is empty.
//
//go:embed maps/default.txt
var DefaultMap string
