package journal

import (
	"fmt"
	"math/big"
	"os"

	"github.com/michaelpento.lv/arbwatch/types"
	"github.com/michaelpento.lv/arbwatch/utils/units"
)

// Journal appends detected opportunities to a plain-text log file. The file
// is opened per write so a rotated or deleted file is simply recreated; a
// single process instance is assumed, so no locking.
type Journal struct {
	path                 string
	baseDecimals         int
	intermediateDecimals int
}

// New creates a journal writing to path. Amount formatting uses the given
// asset precisions.
func New(path string, baseDecimals, intermediateDecimals int) *Journal {
	return &Journal{
		path:                 path,
		baseDecimals:         baseDecimals,
		intermediateDecimals: intermediateDecimals,
	}
}

// Append writes one human-readable line for an opportunity. The caller
// treats a failure as a warning; the in-memory decision already stands.
func (j *Journal) Append(o *types.PathOutcome, gas *big.Int) error {
	line := fmt.Sprintf(
		"ARB (%s): net=%s | start=%s | bought=%s | back=%s | gas=%s\n",
		o.Label,
		units.Format(o.Net, j.baseDecimals),
		units.Format(o.Start, j.baseDecimals),
		units.Format(o.Intermediate, j.intermediateDecimals),
		units.Format(o.Back, j.baseDecimals),
		units.Format(gas, j.baseDecimals),
	)

	f, err := os.OpenFile(j.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open journal %s: %w", j.path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("failed to write journal %s: %w", j.path, err)
	}
	return nil
}
