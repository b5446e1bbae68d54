package molecule

import (
	"encoding/json"
	"fmt"
	"os"

	"gonum.org/v1/gonum/spatial/r3"
)

// =============================================================================
// Document - Wire Format
// =============================================================================

// Document is the canonical serialization format for structures.
// Used for API responses, storage, caching, and file output.
//
// Positions are encoded as [x, y, z] arrays.
type Document struct {
	Name   string       `json:"name,omitempty" bson:"name,omitempty"`
	Source string       `json:"source,omitempty" bson:"source,omitempty"`
	Atoms  []AtomRecord `json:"atoms" bson:"atoms"`
	Bonds  []BondRecord `json:"bonds" bson:"bonds"`
}

// AtomRecord is the serialized form of an [Atom].
type AtomRecord struct {
	Element  string     `json:"element" bson:"element"`
	Position [3]float64 `json:"position" bson:"position"`
	Color    string     `json:"color" bson:"color"`
	Size     float64    `json:"size" bson:"size"`
}

// BondRecord is the serialized form of a [Bond].
type BondRecord struct {
	From  int        `json:"from" bson:"from"`
	To    int        `json:"to" bson:"to"`
	Start [3]float64 `json:"start" bson:"start"`
	End   [3]float64 `json:"end" bson:"end"`
}

// ToDocument converts s to its serialization format.
func ToDocument(s Structure) Document {
	doc := Document{
		Name:   s.Name,
		Source: s.Source,
		Atoms:  make([]AtomRecord, len(s.Atoms)),
		Bonds:  make([]BondRecord, len(s.Bonds)),
	}
	for i, a := range s.Atoms {
		doc.Atoms[i] = AtomRecord{
			Element:  a.Element.Symbol(),
			Position: vecArray(a.Position),
			Color:    string(a.Color),
			Size:     a.Size,
		}
	}
	for i, b := range s.Bonds {
		doc.Bonds[i] = BondRecord{
			From:  b.From,
			To:    b.To,
			Start: vecArray(b.Start),
			End:   vecArray(b.End),
		}
	}
	return doc
}

// FromDocument converts a Document back to a Structure.
// Returns an error if the document has no atoms or a bond references an
// atom that does not exist. Bond endpoints are taken from the referenced
// atoms, so stale start/end values in the document are ignored.
func FromDocument(doc Document) (Structure, error) {
	if len(doc.Atoms) == 0 {
		return Structure{}, fmt.Errorf("structure has no atoms")
	}

	s := Structure{
		Name:   doc.Name,
		Source: doc.Source,
		Atoms:  make([]Atom, len(doc.Atoms)),
		Bonds:  make([]Bond, 0, len(doc.Bonds)),
	}
	for i, ar := range doc.Atoms {
		e := ParseElement(ar.Element)
		a := NewAtom(e, arrayVec(ar.Position))
		if ar.Color != "" {
			a.Color = Color(ar.Color)
		}
		if ar.Size > 0 {
			a.Size = ar.Size
		}
		s.Atoms[i] = a
	}
	for i, br := range doc.Bonds {
		if br.From < 0 || br.From >= len(s.Atoms) || br.To < 0 || br.To >= len(s.Atoms) {
			return Structure{}, fmt.Errorf("bond %d: index out of range (%d-%d, %d atoms)", i, br.From, br.To, len(s.Atoms))
		}
		s.Bonds = append(s.Bonds, s.Connect(br.From, br.To))
	}
	return s, nil
}

// MarshalStructure serializes s to indented JSON.
func MarshalStructure(s Structure) ([]byte, error) {
	return json.MarshalIndent(ToDocument(s), "", "  ")
}

// UnmarshalStructure deserializes and validates JSON bytes.
func UnmarshalStructure(data []byte) (Structure, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Structure{}, err
	}
	return FromDocument(doc)
}

// WriteFile writes s to path as indented JSON.
func WriteFile(s Structure, path string) error {
	data, err := MarshalStructure(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadFile reads and validates a structure written by [WriteFile].
func ReadFile(path string) (Structure, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Structure{}, err
	}
	s, err := UnmarshalStructure(data)
	if err != nil {
		return Structure{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func vecArray(v r3.Vec) [3]float64 { return [3]float64{v.X, v.Y, v.Z} }

func arrayVec(a [3]float64) r3.Vec { return r3.Vec{X: a[0], Y: a[1], Z: a[2]} }
