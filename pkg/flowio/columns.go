package flowio

import (
	"errors"
	"fmt"
)

// ErrColumnConfig is returned when a column layout cannot select its fields.
var ErrColumnConfig = errors.New("invalid column configuration")

// Columns selects the fields of a flow record. Indices are 0-based.
type Columns struct {
	Source       int    `yaml:"source" validate:"gte=0"`
	Destination  int    `yaml:"destination" validate:"gte=0"`
	Label        int    `yaml:"label" validate:"gte=0"`
	MinColumns   int    `yaml:"min_columns" validate:"gte=1"`
	HeaderPrefix string `yaml:"header_prefix"`
}

// CTU13Columns is the layout of CTU-13 bidirectional NetFlow files:
// StartTime,Dur,Proto,SrcAddr,Sport,Dir,DstAddr,Dport,State,sTos,dTos,TotPkts,TotBytes,SrcBytes,Label
func CTU13Columns() Columns {
	return Columns{
		Source:       3,
		Destination:  6,
		Label:        14,
		MinColumns:   15,
		HeaderPrefix: "StartTime",
	}
}

// Validate checks that every selected index lies inside MinColumns.
func (c Columns) Validate() error {
	for name, idx := range map[string]int{"source": c.Source, "destination": c.Destination, "label": c.Label} {
		if idx < 0 {
			return fmt.Errorf("%w: %s column %d is negative", ErrColumnConfig, name, idx)
		}
		if idx >= c.MinColumns {
			return fmt.Errorf("%w: %s column %d outside min_columns %d", ErrColumnConfig, name, idx, c.MinColumns)
		}
	}
	return nil
}
