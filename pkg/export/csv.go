package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/dd0wney/cluso-flowcore/pkg/visualization"
)

var (
	nodesHeader = []string{"id", "label", "category", "k_core", "degree"}
	edgesHeader = []string{"source", "target", "count"}
)

// WriteNodes writes one row per host: id, host key, flow label, core number
// and degree.
func WriteNodes(w io.Writer, ds Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(nodesHeader); err != nil {
		return fmt.Errorf("failed to write nodes header: %w", err)
	}

	g := ds.Graph
	record := make([]string, len(nodesHeader))
	for v := 0; v < g.NumVertices(); v++ {
		record[0] = strconv.Itoa(v)
		record[1] = g.Key(v)
		record[2] = g.Label(v)
		record[3] = strconv.Itoa(ds.Coreness[v])
		record[4] = strconv.Itoa(g.Degree(v))
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write node %d: %w", v, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteEdges writes one row per distinct host pair with the number of flows
// between them. Self-loops are written with source == target.
func WriteEdges(w io.Writer, ds Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(edgesHeader); err != nil {
		return fmt.Errorf("failed to write edges header: %w", err)
	}

	g := ds.Graph
	record := make([]string, len(edgesHeader))
	write := func(e visualization.EdgeView) error {
		record[0] = strconv.Itoa(e.Source)
		record[1] = strconv.Itoa(e.Target)
		record[2] = strconv.Itoa(e.Count)
		return cw.Write(record)
	}

	for _, e := range visualization.PairCounts(g, func(int) bool { return true }) {
		if err := write(e); err != nil {
			return fmt.Errorf("failed to write edge %d-%d: %w", e.Source, e.Target, err)
		}
	}

	// a self-loop appears twice in its own list
	for v := 0; v < g.NumVertices(); v++ {
		loops := 0
		g.ForEachNeighbor(v, func(u int) {
			if u == v {
				loops++
			}
		})
		if loops > 0 {
			if err := write(visualization.EdgeView{Source: v, Target: v, Count: loops / 2}); err != nil {
				return fmt.Errorf("failed to write edge %d-%d: %w", v, v, err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
