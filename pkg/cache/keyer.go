package cache

// ArtifactKeyOpts holds the render options that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	Scale      float64 `json:"scale,omitempty"`
	CellWidth  int     `json:"cell_width,omitempty"`
	CellHeight int     `json:"cell_height,omitempty"`
	Color      bool    `json:"color,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// ArtifactKey identifies one rendered artifact of a request.
	ArtifactKey(requestHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces unscoped keys of the form "kind:sha256".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(requestHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", requestHash, opts)
}
