package metrics

import (
	"math"
	"sort"
)

// PlacedBox is one placed box with integer coordinates, used by the
// cushion-volume export.
type PlacedBox struct {
	ULDID     string `json:"uld_id"`
	PackageID string `json:"package_id"`
	X1        int    `json:"x1"`
	Y1        int    `json:"y1"`
	Z1        int    `json:"z1"`
	X2        int    `json:"x2"`
	Y2        int    `json:"y2"`
	Z2        int    `json:"z2"`
}

// CushionRow reports the cushion volume of one ULD: for every placed box,
// for each of its four side faces, the per-lattice-point distance to the
// nearest opposing face of another box, summed and halved (each gap is
// seen from both sides).
type CushionRow struct {
	ULDID         string  `json:"uld_id"`
	CushionVolume float64 `json:"cushion_volume"`
	PackVolume    float64 `json:"pack_volume"`
	Ratio         float64 `json:"ratio"`
}

// Cushion computes cushion volumes grouped by ULD. Rows are sorted by ULD
// id for deterministic output.
func Cushion(boxes []PlacedBox) []CushionRow {
	grouped := make(map[string][]PlacedBox)
	for _, b := range boxes {
		grouped[b.ULDID] = append(grouped[b.ULDID], b)
	}

	ids := make([]string, 0, len(grouped))
	for id := range grouped {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	rows := make([]CushionRow, 0, len(ids))
	for _, id := range ids {
		group := grouped[id]
		var totVolume, totPackVolume float64

		for _, row := range group {
			totPackVolume += float64(row.X2-row.X1) * float64(row.Y2-row.Y1) * float64(row.Z2-row.Z1)
			totVolume += faceGaps(row, group)
		}

		totVolume /= 2
		r := CushionRow{ULDID: id, CushionVolume: totVolume, PackVolume: totPackVolume}
		if totPackVolume != 0 {
			r.Ratio = totVolume / totPackVolume
		}
		rows = append(rows, r)
	}
	return rows
}

// faceGaps sums, over the lattice points of the four side faces of row,
// the minimum distance to the nearest opposing face of any other box in
// the group. Lattice points with no opposing box contribute nothing.
func faceGaps(row PlacedBox, group []PlacedBox) float64 {
	inf := math.Inf(1)

	nearLowX := grid(row.Z2-row.Z1+1, row.Y2-row.Y1+1, inf)
	nearHighX := grid(row.Z2-row.Z1+1, row.Y2-row.Y1+1, inf)
	nearLowY := grid(row.Z2-row.Z1+1, row.X2-row.X1+1, inf)
	nearHighY := grid(row.Z2-row.Z1+1, row.X2-row.X1+1, inf)

	for _, other := range group {
		if other.PackageID == row.PackageID {
			continue
		}

		minX := max(row.X1, other.X1)
		maxX := min(row.X2, other.X2)
		minY := max(row.Y1, other.Y1)
		maxY := min(row.Y2, other.Y2)
		minZ := max(row.Z1, other.Z1)
		maxZ := min(row.Z2, other.Z2)

		for y := minY; y <= maxY; y++ {
			for z := minZ; z <= maxZ; z++ {
				zi, yi := z-row.Z1, y-row.Y1
				if other.X2 <= row.X1 {
					nearLowX[zi][yi] = math.Min(nearLowX[zi][yi], float64(row.X1-other.X2))
				} else if other.X1 >= row.X2 {
					nearHighX[zi][yi] = math.Min(nearHighX[zi][yi], float64(other.X1-row.X2))
				}
			}
		}

		for x := minX; x <= maxX; x++ {
			for z := minZ; z <= maxZ; z++ {
				zi, xi := z-row.Z1, x-row.X1
				if other.Y2 <= row.Y1 {
					nearLowY[zi][xi] = math.Min(nearLowY[zi][xi], float64(row.Y1-other.Y2))
				} else if other.Y1 >= row.Y2 {
					nearHighY[zi][xi] = math.Min(nearHighY[zi][xi], float64(other.Y1-row.Y2))
				}
			}
		}
	}

	var total float64
	for _, g := range [][][]float64{nearLowX, nearHighX} {
		for z := range g {
			for y := range g[z] {
				if !math.IsInf(g[z][y], 1) {
					total += g[z][y]
				}
			}
		}
	}
	for _, g := range [][][]float64{nearLowY, nearHighY} {
		for z := range g {
			for x := range g[z] {
				if !math.IsInf(g[z][x], 1) {
					total += g[z][x]
				}
			}
		}
	}
	return total
}

func grid(rows, cols int, fill float64) [][]float64 {
	g := make([][]float64, rows)
	for i := range g {
		g[i] = make([]float64, cols)
		for j := range g[i] {
			g[i][j] = fill
		}
	}
	return g
}
