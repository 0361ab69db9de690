package sustainability

import (
	"github.com/openfreight/ecoscore/internal/errors"
)

// FeatureNames is the fixed feature order of the learned model. Importances
// are reported under these names.
var FeatureNames = []string{
	"distance",
	"weight",
	"volume",
	"is_recyclable",
	"transport_mode_encoded",
	"material_type_encoded",
}

// NumFeatures is the encoded vector width.
const NumFeatures = 6

var transportModeOrdinals = map[string]float64{
	"truck": 0,
	"train": 1,
	"ship":  2,
	"air":   3,
}

var materialOrdinals = map[string]float64{
	"cardboard": 0,
	"paper":     1,
	"plastic":   2,
	"metal":     3,
	"glass":     4,
	"wood":      5,
}

// Encoder maps a shipment onto the fixed numeric feature vector.
type Encoder struct{}

// Encode returns the feature vector for a shipment, ordered per
// FeatureNames. is_recyclable is 1 only when every package is recyclable;
// the material ordinal comes from the first package only, regardless of the
// materials of later packages. Unknown modes and materials encode as 0.
func (Encoder) Encode(shipment *Shipment) ([]float64, error) {
	if len(shipment.Packages) == 0 {
		return nil, errors.NewValidationError("cannot encode features for a shipment with no packages")
	}

	allRecyclable := 1.0
	for _, p := range shipment.Packages {
		if !p.Recyclable {
			allRecyclable = 0
			break
		}
	}

	return []float64{
		Distance(shipment.Origin, shipment.Destination),
		shipment.TotalWeight(),
		shipment.TotalVolume(),
		allRecyclable,
		lookup(transportModeOrdinals, shipment.TransportMode, 0),
		lookup(materialOrdinals, shipment.Packages[0].MaterialType, 0),
	}, nil
}
