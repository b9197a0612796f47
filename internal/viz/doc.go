// Package viz renders experiment results in the terminal.
//
//   - [RenderSummary]: channel table with probabilities and cross sections
//   - [ImpactHistogram], [RateConvergence], [EnergyErrors]: asciigraph plots
//   - [RenderTrajectory]: Braille projection of a tracked round
//   - [Progress]: Bubble Tea model driven by finished rounds
//
// Colours come from the current [Theme].
package viz
