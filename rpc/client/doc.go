// Package client implements the remote sybd client.
//
// RPCStore implements store.IStore over a client transport, so the same
// code (and the same conformance suite) works against a local and a remote
// store. Replies are returned unchanged. Error lines sent by the server are
// returned as *store.Error with RetCProtocolError, transport failures with
// RetCInternalError.
//
// Next to Execute the store offers typed helpers for every command (HSet,
// HGet, HDel, HLen, SPush, SPop, QPush, QPop, SAdd, SRem, SMembers, Ping,
// Save) which turn miss replies into found=false results. IsMiss checks a raw
// reply for the miss prefix.
//
// Usage Example:
//
//	config := common.DefaultClientConfig()
//	config.Endpoints = []string{"127.0.0.1:6379"}
//
//	c, err := client.NewRPCStore(config, tcp.NewTCPClientTransport())
//	if err != nil {
//	    // handle error
//	}
//	defer c.Close()
//
//	if _, err := c.HSet("links", "abc", "https://example.com"); err != nil {
//	    // handle error
//	}
//	url, found, err := c.HGet("links", "abc")
package client
