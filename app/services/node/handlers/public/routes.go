package public

import (
	"net/http"

	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/events"
	"github.com/ardanlabs/ledger/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log   *zap.SugaredLogger
	State *state.State
	Evts  *events.Events
}

// Routes binds all the public routes. The ledger routes carry no version
// so every node answers peers on the same paths.
func Routes(app *web.App, cfg Config) {
	pbl := Handlers{
		Log:   cfg.Log,
		State: cfg.State,
		WS:    websocket.Upgrader{},
		Evts:  cfg.Evts,
	}

	app.Handle(http.MethodGet, "", "/mine", pbl.Mine)
	app.Handle(http.MethodPost, "", "/transactions/new", pbl.NewTransaction)
	app.Handle(http.MethodGet, "", "/transactions/pending", pbl.Mempool)
	app.Handle(http.MethodGet, "", "/chain", pbl.Chain)
	app.Handle(http.MethodPost, "", "/nodes/register", pbl.RegisterNodes)
	app.Handle(http.MethodGet, "", "/nodes/resolve", pbl.Resolve)

	const version = "v1"

	app.Handle(http.MethodGet, version, "/events", pbl.Events)
	app.Handle(http.MethodGet, version, "/genesis/list", pbl.Genesis)
	app.Handle(http.MethodGet, version, "/node/status", pbl.Status)
	app.Handle(http.MethodGet, version, "/balances/list", pbl.Balances)
	app.Handle(http.MethodGet, version, "/balances/list/:address", pbl.Balances)
	app.Handle(http.MethodGet, version, "/blocks/list", pbl.BlocksByAddress)
	app.Handle(http.MethodGet, version, "/blocks/list/:address", pbl.BlocksByAddress)
	app.Handle(http.MethodGet, version, "/blocks/range/:from/:to", pbl.BlocksByNumber)
}
