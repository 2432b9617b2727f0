package common

import (
	"bytes"
	"errors"
	"strings"

	"github.com/ValentinKolb/sybd/lib/store"
)

// --------------------------------------------------------------------------
// Wire Format
// --------------------------------------------------------------------------
//
// request:  <VERB> <arg>...\n      (one command per socket read)
// reply:    <text>\n               (text may contain inner newlines)
// error:    ERR <message>\n

const (
	// ErrPrefix starts every reply that carries a protocol error
	ErrPrefix = "ERR "
	// Terminator ends every request and reply
	Terminator = '\n'
)

// EncodeRequest returns the wire form of a command line.
// Surrounding whitespace is trimmed, the server tokenizes the line anyway.
func EncodeRequest(query string) []byte {
	query = strings.TrimSpace(query)
	buf := make([]byte, 0, len(query)+1)
	buf = append(buf, query...)
	return append(buf, Terminator)
}

// EncodeReply returns the wire form of a store reply.
// If err is set, the reply is replaced by an error line.
func EncodeReply(reply string, err error) []byte {
	if err != nil {
		msg := err.Error()
		var storeErr *store.Error
		if errors.As(err, &storeErr) {
			msg = storeErr.Msg
		}
		// the message must stay on one line
		reply = ErrPrefix + strings.ReplaceAll(msg, "\n", " ")
	}

	buf := make([]byte, 0, len(reply)+1)
	buf = append(buf, reply...)
	return append(buf, Terminator)
}

// DecodeReply reverses EncodeReply. Exactly one trailing terminator is removed,
// error lines are returned as *store.Error with RetCProtocolError.
func DecodeReply(raw []byte) (string, error) {
	raw = bytes.TrimSuffix(raw, []byte{Terminator})
	reply := string(raw)

	if msg, ok := strings.CutPrefix(reply, ErrPrefix); ok {
		return "", store.NewError(store.RetCProtocolError, msg)
	}
	return reply, nil
}

// IsComplete reports whether raw holds a whole reply
func IsComplete(raw []byte) bool {
	return len(raw) > 0 && raw[len(raw)-1] == Terminator
}
