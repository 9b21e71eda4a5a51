package httpx

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// Pinger is any dependency with a connectivity probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Check is one probed dependency of the health endpoint. A nil Pinger is
// reported as "disabled". Failures of an Optional check are reported
// without degrading the overall status.
type Check struct {
	Name     string
	Pinger   Pinger
	Optional bool
}

const (
	statusOK          = "ok"
	statusDegraded    = "degraded"
	statusUnreachable = "unreachable"
	statusDisabled    = "disabled"

	healthTimeout = 2 * time.Second
)

// HealthHandler probes every check concurrently and answers 200 with
// {"status":"ok", <name>: <state>...}, or 503 when a required check fails.
func HealthHandler(checks ...Check) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		states := make([]string, len(checks))
		var wg sync.WaitGroup
		for i, c := range checks {
			if c.Pinger == nil {
				states[i] = statusDisabled
				continue
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				states[i] = statusOK
				if err := c.Pinger.Ping(ctx); err != nil {
					states[i] = statusUnreachable
				}
			}()
		}
		wg.Wait()

		resp := map[string]string{"status": statusOK}
		code := http.StatusOK
		for i, c := range checks {
			resp[c.Name] = states[i]
			if states[i] == statusUnreachable && !c.Optional {
				resp["status"] = statusDegraded
				code = http.StatusServiceUnavailable
			}
		}
		JSON(w, code, resp)
	}
}
