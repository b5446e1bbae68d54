package reference

import "github.com/matzehuels/molview/pkg/molecule"

// Radii used by the hand-authored tables. They are slightly larger than
// the generator's so the sparser reference structures read well.
const (
	sizeCarbon   = 0.35
	sizeMethyl   = 0.32
	sizeOxygen   = 0.4
	sizeNitrogen = 0.38
	sizeSulfur   = 0.42
)

type atomSpec struct {
	elem    molecule.Element
	x, y, z float64
	size    float64
}

type entry struct {
	name           string
	formula        string
	description    string
	cameraDistance float64
	offset         [3]float64
	atoms          []atomSpec
	bonds          [][2]int
}

func c(x, y, z float64) atomSpec  { return atomSpec{molecule.C, x, y, z, sizeCarbon} }
func me(x, y, z float64) atomSpec { return atomSpec{molecule.C, x, y, z, sizeMethyl} }
func o(x, y, z float64) atomSpec  { return atomSpec{molecule.O, x, y, z, sizeOxygen} }
func n(x, y, z float64) atomSpec  { return atomSpec{molecule.N, x, y, z, sizeNitrogen} }
func s(x, y, z float64) atomSpec  { return atomSpec{molecule.S, x, y, z, sizeSulfur} }

// Simplified skeletal structures, heavy atoms only.
var entries = []entry{
	{
		name:           "Aspirin",
		formula:        "C₉H₈O₄",
		description:    "Common pain reliever and anti-inflammatory",
		cameraDistance: 8,
		offset:         [3]float64{-1.5, -1, 0},
		atoms: []atomSpec{
			// benzene ring
			c(0, 0, 0), c(1.2, 0, 0), c(1.8, 1.0, 0), c(1.2, 2.0, 0), c(0, 2.0, 0), c(-0.6, 1.0, 0),
			// carboxylic acid
			c(2.4, -0.8, 0), o(3.6, -0.4, 0), o(2.2, -2.0, 0),
			// acetyl
			o(-1.8, 1.0, 0), c(-2.8, 0, 0), o(-3.8, 0.6, 0),
		},
		bonds: [][2]int{
			{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 5}, {5, 0},
			{1, 6}, {6, 7}, {6, 8},
			{5, 9}, {9, 10}, {10, 11},
		},
	},
	{
		name:           "Caffeine",
		formula:        "C₈H₁₀N₄O₂",
		description:    "Central nervous system stimulant",
		cameraDistance: 9,
		offset:         [3]float64{-1, -1, 0},
		atoms: []atomSpec{
			// purine ring system
			n(0, 0, 0), c(1.2, 0.5, 0), n(1.2, 1.8, 0), c(0, 2.3, 0), n(-1, 1.5, 0), c(-1, 0.3, 0),
			// second ring
			c(2.4, 0, 0), n(3.2, 1.2, 0), c(2.4, 2.2, 0),
			// carbonyl oxygens
			o(-2.2, 0, 0), o(2.6, 3.4, 0),
			// methyls
			me(-0.5, -1.2, 0), me(4.5, 1.4, 0), me(-2.2, 1.8, 0),
		},
		bonds: [][2]int{
			{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 5}, {5, 0},
			{1, 6}, {6, 7}, {7, 8}, {8, 2},
			{5, 9}, {8, 10},
			{0, 11}, {7, 12}, {4, 13},
		},
	},
	{
		name:           "Ibuprofen",
		formula:        "C₁₃H₁₈O₂",
		description:    "Nonsteroidal anti-inflammatory drug (NSAID)",
		cameraDistance: 10,
		offset:         [3]float64{-2, -0.5, 0},
		atoms: []atomSpec{
			// benzene ring
			c(0, 0, 0), c(1.2, 0.6, 0), c(1.2, 2.0, 0), c(0, 2.6, 0), c(-1.2, 2.0, 0), c(-1.2, 0.6, 0),
			// isobutyl
			c(2.4, 0, 0), c(3.6, 0.8, 0), me(4.8, 0, 0.5), me(4.8, 1.6, -0.5),
			// propionic acid
			c(-2.4, 0, 0), c(-3.6, 0.8, 0), o(-4.8, 0.2, 0), o(-3.8, 2.2, 0),
		},
		bonds: [][2]int{
			{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 5}, {5, 0},
			{1, 6}, {6, 7}, {7, 8}, {7, 9},
			{5, 10}, {10, 11}, {11, 12}, {11, 13},
		},
	},
	{
		name:           "Paracetamol",
		formula:        "C₈H₉NO₂",
		description:    "Pain reliever and fever reducer",
		cameraDistance: 8,
		offset:         [3]float64{-1, -1, 0},
		atoms: []atomSpec{
			// benzene ring
			c(0, 0, 0), c(1.2, 0.6, 0), c(1.2, 2.0, 0), c(0, 2.6, 0), c(-1.2, 2.0, 0), c(-1.2, 0.6, 0),
			// para hydroxyl
			o(0, 4.0, 0),
			// amide
			n(0, -1.4, 0), c(0, -2.8, 0), o(-1.2, -3.4, 0), me(1.2, -3.8, 0),
		},
		bonds: [][2]int{
			{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 5}, {5, 0},
			{3, 6},
			{0, 7}, {7, 8}, {8, 9}, {8, 10},
		},
	},
	{
		name:           "Penicillin G",
		formula:        "C₁₆H₁₈N₂O₄S",
		description:    "Beta-lactam antibiotic",
		cameraDistance: 10,
		offset:         [3]float64{-1.5, -1.5, 0},
		atoms: []atomSpec{
			// beta-lactam ring
			n(0, 0, 0), c(1.0, 0.8, 0), c(1.0, 2.0, 0), c(-0.2, 1.8, 0),
			// thiazolidine ring
			s(-1.4, 2.6, 0), c(-2.2, 1.4, 0), c(-1.4, 0.4, 0),
			// lactam carbonyl
			o(2.2, 2.6, 0),
			// carboxylic acid
			c(-3.4, 1.0, 0), o(-4.4, 2.0, 0), o(-4.0, -0.2, 0),
			// benzyl side chain
			c(0.2, -1.4, 0), c(1.4, -2.2, 0), c(2.6, -1.6, 0), c(2.6, -0.2, 0),
			// gem-dimethyl
			me(-2.8, 3.4, 0.8), me(-2.8, 3.4, -0.8),
		},
		bonds: [][2]int{
			{0, 1}, {1, 2}, {2, 3}, {3, 0},
			{3, 4}, {4, 5}, {5, 6}, {6, 0},
			{2, 7},
			{5, 8}, {8, 9}, {8, 10},
			{0, 11}, {11, 12}, {12, 13}, {13, 14},
			{4, 15}, {4, 16},
		},
	},
}
