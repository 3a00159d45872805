package contracts

import "github.com/julienschmidt/httprouter"

// Handler mounts a component's routes on the shared router. Health and every
// domain handler implement it so pkg/app can assemble them uniformly.
type Handler interface {
	RegisterRoutes(*httprouter.Router)
}
