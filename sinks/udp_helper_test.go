package sinks

import (
	"net"
	"testing"
	"time"
)

// startUDPEcho starts a local UDP listener that discards whatever it
// receives, so UDPSink tests have a live destination to dial without
// depending on an external network.
func startUDPEcho(t *testing.T) (addr string, stop func()) {
	t.Helper()

	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0})
	if err != nil {
		t.Fatalf("listen udp: %v", err)
	}

	done := make(chan struct{})
	go func() {
		buf := make([]byte, 1500)
		for {
			select {
			case <-done:
				return
			default:
			}
			conn.SetReadDeadline(time.Now().Add(50 * time.Millisecond))
			_, _, _ = conn.ReadFromUDP(buf)
		}
	}()

	return conn.LocalAddr().String(), func() {
		close(done)
		conn.Close()
	}
}
