// Package analysis derives time series and chaos indicators from runs.
//
//   - [Summarize]: per-snapshot body count, kinetic energy and mean orbit
//   - [DominantPeriod]: strongest periodic component of a sampled signal
//   - [Divergence]: largest Lyapunov exponent via twin-world separation
//
// # Chaos Detection
//
// A positive exponent means nearby starting layouts separate exponentially:
//
//	lambda, err := analysis.Divergence(build, 0, 1e-6, dt, frames)
//	if err == nil && lambda > 0 {
//	    // scene is chaotic
//	}
package analysis
