// Package analysis extracts motion characteristics from attitude runs.
//
//   - [PowerSpectrum], [DominantFrequency]: spectral content of one state
//     component, e.g. the nutation frequency of a spinning body
//   - [UniformSeries]: resamples variable-step runs onto a fixed grid
//   - [Polhode]: ω_i against ω_j, the body-frame trace of the rate vector
//   - [LyapunovExponent]: divergence rate of two nearby torque-free
//     trajectories, positive for spins near the intermediate axis
package analysis
