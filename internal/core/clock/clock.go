// Package clock holds the pure time helpers shared by the timer and its
// renderers: display formatting, progress fraction and bound checks.
package clock

import (
	"fmt"
	"time"
)

// Format returns totalSeconds as MM:SS with both fields zero-padded.
// Negative input is treated as zero.
func Format(totalSeconds int) string {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	return fmt.Sprintf("%02d:%02d", totalSeconds/60, totalSeconds%60)
}

// ProgressFraction returns remaining/total clamped to [0, 1].
// A non-positive total yields 0.
func ProgressFraction(remaining, total int) float64 {
	if total <= 0 {
		return 0
	}
	fraction := float64(remaining) / float64(total)
	if fraction < 0 {
		return 0
	}
	if fraction > 1 {
		return 1
	}
	return fraction
}

// Clamp bounds value to [low, high].
func Clamp(value, low, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}

// Seconds converts a duration to whole seconds, dropping any fraction.
func Seconds(value time.Duration) int {
	return int(value / time.Second)
}
