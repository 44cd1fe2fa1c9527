// Package analysis derives aerodynamic quantities from a sampled run.
//
//   - [ForceHistory]: unsteady force from the wake impulse rate
//   - [LiftDrag]: force projected onto the effective freestream
//   - [SheddingSpectrum]: power spectrum of the lift trace
//   - [DominantFrequency]: shedding frequency from the spectrum peak
package analysis
