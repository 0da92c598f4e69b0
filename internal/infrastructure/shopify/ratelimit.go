package shopify

import (
	"sync"
	"time"
)

// throttle serializa las llamadas al API de la tienda garantizando un
// intervalo mínimo entre ellas. El proveedor corta con 429 las ráfagas; aquí
// no hay reintento, así que el espaciado es la única protección.
type throttle struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time

	// inyectables en tests
	now   func() time.Time
	sleep func(time.Duration)
}

func newThrottle(interval time.Duration) *throttle {
	return &throttle{
		interval: interval,
		now:      time.Now,
		sleep:    time.Sleep,
	}
}

// wait bloquea hasta que haya pasado el intervalo mínimo desde la última llamada.
func (t *throttle) wait() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.interval <= 0 {
		return
	}
	now := t.now()
	if !t.last.IsZero() {
		if elapsed := now.Sub(t.last); elapsed < t.interval {
			t.sleep(t.interval - elapsed)
			now = now.Add(t.interval - elapsed)
		}
	}
	t.last = now
}
