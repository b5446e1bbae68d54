package cache

// LayoutVersion is mixed into layout keys. Bump it when the generator's
// output changes so stale entries stop matching.
const LayoutVersion = 1

// Keyer derives cache keys. Implementations must be deterministic.
type Keyer interface {
	// LayoutKey returns the key for the structure generated from source.
	LayoutKey(source string) string

	// ArtifactKey returns the key for one rendered output of the structure
	// with the given content hash.
	ArtifactKey(structureHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts lists every render option that changes the output bytes.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	VizType  string  `json:"viz_type"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Angle    float64 `json:"angle"`
	Tilt     float64 `json:"tilt"`
	Legend   bool    `json:"legend"`
	Frames   int     `json:"frames"`
	Detailed bool    `json:"detailed"`
	Title    string  `json:"title"`
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey implements [Keyer].
func (DefaultKeyer) LayoutKey(source string) string {
	return hashKey("layout", LayoutVersion, source)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(structureHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", structureHash, opts)
}
