// Package progress provides a step-wise progress reporter for long batch
// stages, logging once per threshold instead of once per item.
package progress

import "log"

// StepLogger returns a progress callback that logs the given label each
// time completion crosses another step-percent boundary. A step of 0
// defaults to 10 percent.
func StepLogger(label string, step int) func(done, total int) {
	if step <= 0 {
		step = 10
	}
	next := step
	return func(done, total int) {
		if total <= 0 {
			return
		}
		pct := done * 100 / total
		for pct >= next && next <= 100 {
			log.Printf("%s: %d%% (%d/%d)", label, next, done, total)
			next += step
		}
	}
}
