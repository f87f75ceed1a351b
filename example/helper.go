package main

import "time"

// DoWithDelay executes the given steps and waits for the given duration between steps
func DoWithDelay(d time.Duration, steps ...func()) {
	for _, f := range steps {
		f()
		time.Sleep(d)
	}
}
