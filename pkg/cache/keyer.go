package cache

// Keyer derives cache keys for the two cached stages: loaded input tables
// and rendered drawing artifacts. Centralizing derivation keeps the CLI and
// the render service hitting the same entries for the same work.
type Keyer interface {
	// TableKey identifies a loaded input table by its source file identity.
	TableKey(path string, opts TableKeyOpts) string

	// ArtifactKey identifies rendered output bytes by the sanitized layer
	// data and everything else that changes them.
	ArtifactKey(layersHash string, opts ArtifactKeyOpts) string
}

// TableKeyOpts captures the parts of a file's identity that invalidate a
// loaded table when they change.
type TableKeyOpts struct {
	Sheet   string `json:"sheet"`
	ModTime int64  `json:"mod_time"` // unix nanoseconds
	Size    int64  `json:"size"`
}

// ArtifactKeyOpts captures every drawing option besides the layer data that
// changes rendered bytes.
type ArtifactKeyOpts struct {
	Format     string            `json:"format"`
	Thickness  float64           `json:"thickness"`
	Spacing    float64           `json:"spacing"`
	Legend     bool              `json:"legend"`
	Names      bool              `json:"names"`
	Dimensions bool              `json:"dimensions"`
	Elevation  bool              `json:"elevation"`
	DrawOnZero bool              `json:"draw_on_zero"`
	Scale      string            `json:"scale"`  // palette name
	Colors     map[string]string `json:"colors"` // resolved hex by material
	PNGScale   float64           `json:"png_scale"`
}

// DefaultKeyer is the standard key derivation.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// TableKey generates a key for a loaded input table.
func (k *DefaultKeyer) TableKey(path string, opts TableKeyOpts) string {
	return hashKey("table", path, opts)
}

// ArtifactKey generates a key for rendered output bytes.
func (k *DefaultKeyer) ArtifactKey(layersHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layersHash, opts)
}
