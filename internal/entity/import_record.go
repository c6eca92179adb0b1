package entity

// ImportRecord is the canonical inbound record produced by a source adapter.
// Fields are populated once by the adapter and treated as read-only by the
// import pipeline.
type ImportRecord struct {
	SourceID     string            `json:"source_id"`
	SourceType   string            `json:"source_type"`
	Title        string            `json:"title"`
	ArtistName   string            `json:"artist_name,omitempty"`
	YearCreated  *int              `json:"year_created,omitempty"`
	Medium       string            `json:"medium,omitempty"`
	Dimensions   string            `json:"dimensions,omitempty"`
	Description  string            `json:"description,omitempty"`
	Lat          float64           `json:"lat"`
	Lon          float64           `json:"lon"`
	Address      string            `json:"address,omitempty"`
	Neighborhood string            `json:"neighborhood,omitempty"`
	City         string            `json:"city,omitempty"`
	Region       string            `json:"region,omitempty"`
	Country      string            `json:"country,omitempty"`
	Photos       []string          `json:"photos,omitempty"`
	Tags         map[string]string `json:"tags,omitempty"`
	Metadata     map[string]any    `json:"metadata,omitempty"`
}
