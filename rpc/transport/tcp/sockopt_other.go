//go:build !unix

package tcp

import "syscall"

// reuseAddrControl is a no-op on platforms without SO_REUSEADDR support in x/sys/unix
func reuseAddrControl(_, _ string, _ syscall.RawConn) error {
	return nil
}
