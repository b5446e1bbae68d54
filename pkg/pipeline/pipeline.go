// Package pipeline provides the layout → render pipeline for molview.
//
// This package implements the complete pipeline that is shared by the CLI
// and the HTTP API. By centralizing this logic, both entry points agree on
// defaults, validation, cache keys and output bytes.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Layout: Resolve a reference molecule or generate a structure from the
//     input string with [layout.Generate]
//  2. Render: Produce one artifact per requested format (SVG, PNG, GIF, PDF,
//     JSON, XYZ, PDB, DOT)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Source:  "CC(=O)Oc1ccccc1C(=O)O",
//	    Formats: []string{"svg", "gif"},
//	    Legend:  true,
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	st, err := runner.Layout(ctx, opts)
//	artifacts, err := runner.Render(ctx, st, opts)
package pipeline

import (
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/molview/pkg/cache"
	"github.com/matzehuels/molview/pkg/errors"
	"github.com/matzehuels/molview/pkg/molecule"
	"github.com/matzehuels/molview/pkg/reference"
	"github.com/matzehuels/molview/pkg/render/scene"
	"github.com/matzehuels/molview/pkg/render/sink"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the default viewport width in pixels.
	DefaultWidth = scene.DefaultWidth

	// DefaultHeight is the default viewport height in pixels.
	DefaultHeight = scene.DefaultHeight

	// DefaultFrames is the default number of GIF frames per rotation.
	DefaultFrames = sink.DefaultFrames

	// DefaultTilt matches the resting pose of the rotating display.
	DefaultTilt = 0.35

	// MaxDimension bounds Width and Height.
	MaxDimension = 4096
)

// Visualization types.
const (
	VizTypeBall     = "ball"
	VizTypeNodelink = "nodelink"
)

// DefaultVizType is the default visualization type.
const DefaultVizType = VizTypeBall

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatGIF  = "gif"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatXYZ  = "xyz"
	FormatPDB  = "pdb"
	FormatDOT  = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatGIF:  true,
	FormatPDF:  true,
	FormatJSON: true,
	FormatXYZ:  true,
	FormatPDB:  true,
	FormatDOT:  true,
}

// ValidVizTypes is the set of supported visualization types.
var ValidVizTypes = map[string]bool{
	VizTypeBall:     true,
	VizTypeNodelink: true,
}

// vizFormats lists the formats each visualization type can produce.
var vizFormats = map[string]map[string]bool{
	VizTypeBall: {
		FormatSVG: true, FormatPNG: true, FormatGIF: true, FormatPDF: true,
		FormatJSON: true, FormatXYZ: true, FormatPDB: true,
	},
	VizTypeNodelink: {
		FormatSVG: true, FormatPNG: true, FormatPDF: true, FormatJSON: true, FormatDOT: true,
	},
}

// ContentTypes maps each format to its MIME type.
var ContentTypes = map[string]string{
	FormatSVG:  "image/svg+xml",
	FormatPNG:  "image/png",
	FormatGIF:  "image/gif",
	FormatPDF:  "application/pdf",
	FormatJSON: "application/json",
	FormatXYZ:  "chemical/x-xyz",
	FormatPDB:  "chemical/x-pdb",
	FormatDOT:  "text/vnd.graphviz",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options. Reference takes precedence over Source.
	Source    string `json:"smiles,omitempty"`
	Reference string `json:"reference,omitempty"`
	Refresh   bool   `json:"refresh,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	VizType  string   `json:"viz_type,omitempty"`
	Width    int      `json:"width,omitempty"`
	Height   int      `json:"height,omitempty"`
	Angle    float64  `json:"angle,omitempty"`
	Tilt     *float64 `json:"tilt,omitempty"`
	Legend   bool     `json:"legend,omitempty"`
	Title    string   `json:"title,omitempty"`
	Frames   int      `json:"frames,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Structure is the generated or reference structure.
	Structure molecule.Structure

	// StructureHash is the content hash of the serialized structure.
	StructureHash string

	// Topology summarizes the bond graph.
	Topology molecule.Topology

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	AtomCount  int
	BondCount  int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the structure came from cache
	RenderHit bool // Whether all artifacts came from cache
	Reference bool // Whether the structure is built-in data that needs no cache
}

// Cached reports whether the result was served without computing anything.
// Reference layouts count as cached since they are static data.
func (c CacheInfo) Cached() bool {
	return c.RenderHit && (c.LayoutHit || c.Reference)
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: %s)", format, strings.Join(sortedKeys(ValidFormats), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateVizType checks that a visualization type is valid.
func ValidateVizType(vizType string) error {
	if !ValidVizTypes[vizType] {
		return errors.New(errors.ErrCodeInvalidVizType,
			"invalid viz_type: %q (must be one of: ball, nodelink)", vizType)
	}
	return nil
}

// SupportsFormat reports whether vizType can produce format.
func SupportsFormat(vizType, format string) bool {
	return vizFormats[vizType][format]
}

// ParseFormats splits a comma-separated list such as "svg, png" and
// validates every entry. Duplicates are dropped.
func ParseFormats(s string) ([]string, error) {
	var out []string
	seen := map[string]bool{}
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		if err := ValidateFormat(f); err != nil {
			return nil, err
		}
		seen[f] = true
		out = append(out, f)
	}
	return out, nil
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLayout checks the input fields. Any Source is valid: the
// generator skips what it does not recognize, and an empty string lays
// out the fallback structure.
func (o *Options) ValidateForLayout() error {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.Reference == "" {
		return nil
	}
	if _, ok := reference.Lookup(o.Reference); !ok {
		return errors.New(errors.ErrCodeReferenceNotFound,
			"unknown reference molecule: %q (available: %s)", o.Reference, strings.Join(reference.Names(), ", "))
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.VizType == "" {
		o.VizType = DefaultVizType
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Tilt == nil {
		tilt := DefaultTilt
		o.Tilt = &tilt
	}
	if o.Frames == 0 {
		o.Frames = DefaultFrames
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateVizType(o.VizType); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	for _, f := range o.Formats {
		if !SupportsFormat(o.VizType, f) {
			return errors.New(errors.ErrCodeUnsupported, "format %s is not available for %s view", f, o.VizType)
		}
	}
	if o.Width < 0 || o.Height < 0 || o.Width > MaxDimension || o.Height > MaxDimension {
		return errors.New(errors.ErrCodeInvalidInput, "size must be between 1 and %d pixels", MaxDimension)
	}
	if o.Frames < 1 || o.Frames > sink.MaxFrames {
		return errors.New(errors.ErrCodeInvalidInput, "frames must be between 1 and %d", sink.MaxFrames)
	}
	return nil
}

// IsNodelink returns true if this is a nodelink visualization.
func (o *Options) IsNodelink() bool {
	return o.VizType == VizTypeNodelink
}

// TiltValue returns the tilt, or DefaultTilt when unset.
func (o *Options) TiltValue() float64 {
	if o.Tilt == nil {
		return DefaultTilt
	}
	return *o.Tilt
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
// Only options that change the output bytes of format are included.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format, VizType: o.VizType}
	switch {
	case o.IsNodelink():
		k.Detailed = o.Detailed
	case format == FormatJSON:
		k.Legend = o.Legend
	case format == FormatXYZ || format == FormatPDB:
	default:
		k.Width, k.Height = o.Width, o.Height
		k.Angle, k.Tilt = o.Angle, o.TiltValue()
		k.Legend, k.Title = o.Legend, o.Title
		if format == FormatGIF {
			k.Frames = o.Frames
		}
	}
	return k
}
