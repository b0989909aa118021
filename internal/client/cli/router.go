package cli

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/tasklist/internal/client/guard"
)

// maxHops bounds how many redirects one command may follow.
const maxHops = 4

// Router records the redirect a guard or page asks for. The REPL takes it
// after the current page returns and opens the destination.
type Router struct {
	mu      sync.Mutex
	pending string
}

// Navigate implements guard.Navigator. A later call replaces an earlier one.
func (r *Router) Navigate(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = path
}

// Take returns and clears the pending redirect.
func (r *Router) Take() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.pending
	r.pending = ""
	return p, p != ""
}

// page is one screen of the client.
type page struct {
	title  string
	policy guard.Policy
	render func(ctx context.Context, m *guard.Mount, args []string) error
}
