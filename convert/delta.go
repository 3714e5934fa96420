package convert

import (
	"github.com/motamman/signalk-units-preference-sub000/types"
)

// ConvertDelta runs every path value of a delta through the streaming entry
// point. It never fails; individual bad values degrade to pass-through.
func (e *Engine) ConvertDelta(delta *types.Delta) *types.ConvertedDelta {
	if delta == nil {
		return nil
	}

	out := &types.ConvertedDelta{
		Context: delta.Context,
		Updates: make([]types.ConvertedDeltaUpdate, 0, len(delta.Updates)),
	}
	for _, update := range delta.Updates {
		converted := types.ConvertedDeltaUpdate{
			Timestamp: update.Timestamp,
			Source:    update.Source,
			Values:    make([]types.ConvertedPathValue, 0, len(update.Values)),
		}
		for _, pv := range update.Values {
			result := e.SelectAndConvert(pv.Path, pv.Value)
			converted.Values = append(converted.Values, types.ConvertedPathValue{
				Path:   pv.Path,
				Result: *result,
			})
			if e.metrics != nil {
				e.metrics.DeltasStreamed.Inc()
			}
		}
		out.Updates = append(out.Updates, converted)
	}
	return out
}
