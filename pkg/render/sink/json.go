package sink

import (
	"encoding/json"

	"github.com/matzehuels/molview/pkg/molecule"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	legend bool
	meta   map[string]string
}

// WithJSONLegend includes the element legend in the output.
func WithJSONLegend() JSONOption { return func(r *jsonRenderer) { r.legend = true } }

// WithJSONMeta records an extra string field, such as a formula or a
// description, under "meta".
func WithJSONMeta(key, value string) JSONOption {
	return func(r *jsonRenderer) {
		if r.meta == nil {
			r.meta = map[string]string{}
		}
		r.meta[key] = value
	}
}

type jsonOutput struct {
	molecule.Document
	Topology molecule.Topology `json:"topology"`
	Legend   []LegendEntry     `json:"legend,omitempty"`
	Meta     map[string]string `json:"meta,omitempty"`
}

// RenderJSON serializes st in the wire format, extended with a topology
// summary and optionally the legend and metadata. The output still parses
// with [molecule.UnmarshalStructure].
func RenderJSON(st molecule.Structure, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	out := jsonOutput{
		Document: molecule.ToDocument(st),
		Topology: molecule.Analyze(st),
		Meta:     r.meta,
	}
	if r.legend {
		out.Legend = Legend(st)
	}
	return json.MarshalIndent(out, "", "  ")
}
