package svm

import "math"

// scaleInto writes the centred and scaled input into dst:
// dst[j] = (x[j] - featureBias[j]) * featureScale[j].
func (p *ModelParameters) scaleInto(dst, x []float64) {
	for j, v := range x {
		dst[j] = (v - p.featureBias[j]) * p.featureScale[j]
	}
}

// squaredDistance is Σ (sv[j] - s[j])².
func squaredDistance(sv, s []float64) float64 {
	var sum float64
	for j, v := range sv {
		d := v - s[j]
		sum += d * d
	}
	return sum
}

// kernelTerm is the weighted Gaussian response of support vector i.
func (p *ModelParameters) kernelTerm(i int, scaled []float64) float64 {
	sq := squaredDistance(p.supportVectors.RawRowView(i), scaled)
	return p.dualCoefficients[i] * math.Exp(-sq*p.gamma)
}

// decision evaluates the model on an already scaled input. Support vectors
// are accumulated in index order so results are reproducible bit for bit.
func (p *ModelParameters) decision(scaled []float64) float64 {
	total := 0.0
	for i := 0; i < p.nSV; i++ {
		total += p.kernelTerm(i, scaled)
	}
	total -= p.rho
	return total*p.outputScale + p.outputBias
}
