package seedfile

// SeedConfig is the top-level structure of the seed catalog file.
type SeedConfig struct {
	Items []SeedItem `yaml:"items"`
}

// SeedItem is one entry in the seed catalog. Fields mirror the create
// payload; validation happens when the item is created.
type SeedItem struct {
	Type     string   `yaml:"type"`
	Title    string   `yaml:"title"`
	Platform string   `yaml:"platform,omitempty"`
	CoverURL string   `yaml:"coverUrl,omitempty"`
	Tags     []string `yaml:"tags,omitempty"`
}
