package server

import (
	"github.com/ValentinKolb/sybd/lib/store"
)

// IRPCServerAdapter is the interface for all RPC server adapters.
// It translates one received command line into a call on the store.
type IRPCServerAdapter interface {
	// Handle executes query against st and returns the reply.
	// If an error occurs it is returned instead of a reply and sent to the client as error line.
	Handle(query string, st store.IStore) (reply string, err error)
}

// ISnapshotStore is implemented by stores that can write themselves to their snapshot file
type ISnapshotStore interface {
	store.IStore
	SaveSnapshot() error
}
