package contracts

import "github.com/julienschmidt/httprouter"

// Handler is implemented by each HTTP surface (flight inventory, the
// carrier/airport directory) so the application can mount them all on one
// router.
type Handler interface {
	RegisterRoutes(*httprouter.Router)
}
