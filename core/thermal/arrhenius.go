// Package thermal rescales degradation coefficients for ambient
// temperature using the Arrhenius doubling heuristic.
package thermal

import (
	"fmt"
	"math"

	"github.com/CalKK/calvin-kinyanjui-BEE5202-144859/core/model"
)

// BaselineTempC is the reference cell temperature at which the
// calibrated degradation coefficient applies unchanged.
const BaselineTempC = 25.0

// Adjust rescales kBase for the ambient temperature: the degradation
// rate roughly doubles for every 10 degrees above the baseline and
// halves for every 10 degrees below it. It is called once per run; the
// temperature is assumed constant across the horizon, a documented
// simplification.
func Adjust(kBase, envTempC float64) (float64, error) {
	return AdjustFrom(kBase, envTempC, BaselineTempC)
}

// AdjustFrom is Adjust with an explicit baseline temperature.
func AdjustFrom(kBase, envTempC, baselineTempC float64) (float64, error) {
	if math.IsNaN(envTempC) || math.IsInf(envTempC, 0) {
		return 0, fmt.Errorf("%w: temperature %v", model.ErrInvalidParameter, envTempC)
	}
	if math.IsNaN(baselineTempC) || math.IsInf(baselineTempC, 0) {
		return 0, fmt.Errorf("%w: baseline temperature %v", model.ErrInvalidParameter, baselineTempC)
	}
	if math.IsNaN(kBase) || math.IsInf(kBase, 0) || kBase < 0 {
		return 0, fmt.Errorf("%w: degradation coefficient %v", model.ErrInvalidParameter, kBase)
	}
	return kBase * math.Pow(2, (envTempC-baselineTempC)/10.0), nil
}
