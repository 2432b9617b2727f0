package server

import (
	"errors"
	"strings"

	"github.com/ValentinKolb/sybd/lib/db"
	"github.com/ValentinKolb/sybd/lib/store"
	"github.com/ValentinKolb/sybd/lib/store/lstore"
)

// CmdSave is the server command that writes the snapshot file.
// It is handled by the server, the database does not know it.
const CmdSave = "SAVE"

// NewIStoreServerAdapter creates the adapter that forwards command lines to a store
func NewIStoreServerAdapter() IRPCServerAdapter {
	return &iStoreServerAdapterImpl{}
}

type iStoreServerAdapterImpl struct{}

func (adapter *iStoreServerAdapterImpl) Handle(query string, st store.IStore) (string, error) {
	// Check for nil store
	if st == nil {
		return "", store.NewError(store.RetCInternalError, "handler: store is nil")
	}

	if verbOf(query) == CmdSave {
		return adapter.save(st)
	}

	return st.Execute(query)
}

func (adapter *iStoreServerAdapterImpl) save(st store.IStore) (string, error) {
	snapshotter, ok := st.(ISnapshotStore)
	if !ok {
		return "", store.NewError(store.RetCNoSnapshot, "store does not support snapshots")
	}

	if err := snapshotter.SaveSnapshot(); err != nil {
		if errors.Is(err, lstore.ErrNoSnapshot) {
			return "", store.WrapError(store.RetCNoSnapshot, err)
		}
		Logger.Errorf("SAVE failed: %v", err)
		return "", store.WrapError(store.RetCInternalError, err)
	}
	return db.ReplyOK, nil
}

// verbOf returns the first token of a command line
func verbOf(query string) string {
	query = strings.TrimSpace(query)
	if i := strings.IndexAny(query, " \t\r\n"); i >= 0 {
		return query[:i]
	}
	return query
}
