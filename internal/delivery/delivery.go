// Package delivery holds the entry points that drive the use cases.
package delivery

import "context"

// Delivery is a long or short running entry point started by the application.
type Delivery interface {
	Serve(ctx context.Context) error
}
