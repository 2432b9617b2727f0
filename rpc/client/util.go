package client

import (
	"strings"

	"github.com/ValentinKolb/sybd/lib/db"
	"github.com/ValentinKolb/sybd/lib/store"
	"github.com/ValentinKolb/sybd/rpc/common"
	"github.com/ValentinKolb/sybd/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
)

var (
	Logger = logger.GetLogger("client")
)

// invokeRPCRequest sends one encoded command line and decodes the reply.
// Transport failures are returned as RetCInternalError, error lines as RetCProtocolError.
func invokeRPCRequest(req []byte, transport transport.IRPCClientTransport) (string, error) {
	respBytes, err := transport.Send(req)
	if err != nil {
		Logger.Debugf("request failed: %v", err)
		return "", store.WrapError(store.RetCInternalError, err)
	}
	return common.DecodeReply(respBytes)
}

// IsMiss reports whether a reply reports a missing table, key or value
func IsMiss(reply string) bool {
	return strings.HasPrefix(reply, db.MissPrefix)
}

// validToken reports whether s can be sent as a single argument
func validToken(s string) bool {
	return s != "" && !strings.ContainsAny(s, " \t\r\n\v\f")
}
