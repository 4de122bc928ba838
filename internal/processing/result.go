package processing

import (
	"time"

	"github.com/five82/video2gif/internal/config"
	"github.com/five82/video2gif/internal/outputparse"
)

// VideoDescriptor describes the source video. Width and Height are 0 when
// probing failed.
type VideoDescriptor struct {
	Path   string `json:"path"`
	Size   uint64 `json:"size"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// TierResult is the outcome of one tier. A tier whose GIF was not produced
// has Produced=false and zero Size and SizeReduction.
type TierResult struct {
	Tier          config.Tier `json:"tier"`
	OutputPath    string      `json:"outputPath"`
	Size          uint64      `json:"size"`
	Width         int         `json:"width"`
	Height        int         `json:"height"`
	Dimensions    string      `json:"dimensions"`
	SizeReduction float64     `json:"sizeReduction"`
	Produced      bool        `json:"produced"`
	Error         string      `json:"error,omitempty"`
}

// Result is the terminal outcome of a conversion. Success is true when the
// tier pipeline ran, even if some tiers produced nothing.
type Result struct {
	Success  bool                 `json:"success"`
	Canceled bool                 `json:"canceled,omitempty"`
	Error    string               `json:"error,omitempty"`
	Original VideoDescriptor      `json:"original"`
	Tiers    []TierResult         `json:"tiers"`
	Metadata outputparse.Metadata `json:"metadata"`
	Elapsed  time.Duration        `json:"-"`
}

// Tier returns the result for t, if it was attempted.
func (r *Result) Tier(t config.Tier) (TierResult, bool) {
	for _, tr := range r.Tiers {
		if tr.Tier == t {
			return tr, true
		}
	}
	return TierResult{}, false
}

// ProducedCount returns how many tiers produced a GIF.
func (r *Result) ProducedCount() int {
	n := 0
	for _, tr := range r.Tiers {
		if tr.Produced {
			n++
		}
	}
	return n
}
