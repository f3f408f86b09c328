// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.5.0"

// Milestones:
// 0.5.0 - Rise/transit/set planner, orrery view
// 0.4.0 - Calibration tool (Horizons + meeus sources), Prometheus metrics, TOML config
// 0.3.0 - Stereographic projection, Moon phase, headless export and mini sky
// 0.2.0 - Observer entry state machine, time warp and pause
// 0.1.0 - Initial release: circular-orbit engine, dome view, frozen calibration
