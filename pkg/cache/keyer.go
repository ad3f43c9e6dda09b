package cache

// Keyer builds cache keys for the cached stages of the export pipeline.
type Keyer interface {
	// LayoutKey keys a layout snapshot of a document under given metrics.
	LayoutKey(docHash string, opts LayoutKeyOpts) string

	// ArtifactKey keys an artifact rendered from a DOT graph or snapshot.
	ArtifactKey(sourceHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the inputs besides the document that change a layout.
type LayoutKeyOpts struct {
	Offset      float64 `json:"offset"`
	SpaceWidth  float64 `json:"space_width"`
	CharWidth   float64 `json:"char_width"`
	LineHeight  float64 `json:"line_height"`
	TextMargin  float64 `json:"text_margin"`
	ControlSize float64 `json:"control_size"`
	StyleHash   string  `json:"style_hash,omitempty"`
	Folded      []int   `json:"folded,omitempty"`
}

// ArtifactKeyOpts are the inputs besides the source that change an artifact.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Detailed bool   `json:"detailed,omitempty"`
}

// DefaultKeyer hashes the key inputs with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) LayoutKey(docHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", docHash, opts)
}

func (DefaultKeyer) ArtifactKey(sourceHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", sourceHash, opts)
}
