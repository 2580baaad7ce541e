package assetcache

import "encoding/json"

// Manifest describes the installed app, the same fields a web app manifest
// carries.
type Manifest struct {
	Name        string `json:"name"`
	ShortName   string `json:"short_name"`
	StartURL    string `json:"start_url"`
	Display     string `json:"display"`
	Description string `json:"description"`
}

// ManifestJSON renders the manifest served at /manifest.json.
func ManifestJSON(title, description string) []byte {
	b, _ := json.MarshalIndent(Manifest{
		Name:        title,
		ShortName:   "Love Story",
		StartURL:    "/",
		Display:     "standalone",
		Description: description,
	}, "", "  ")
	return b
}
