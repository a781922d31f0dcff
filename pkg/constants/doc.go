// Package constants provides centralized configuration constants for the tilefill project.
//
// This package consolidates all hard-coded values, defaults, limits, and magic numbers
// from across the codebase into a single, well-documented source of truth.
//
// Organization:
//   - generation.go: generation defaults (worker count, width/height ranges, levels)
//   - storage.go: storage constants (size units, file permissions)
//   - validation.go: validation constraints (AWS limits, config boundaries)
//   - output.go: CLI output formatting constants
//
// Modifying Constants:
// Most defaults mirror the historical behaviour of the generator. Before modifying:
//  1. Check the documentation comment for rationale
//  2. Test thoroughly with the new value
//  3. Update related constants if needed
//
// See each file for detailed documentation on specific constant groups.
package constants
