package statsd

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newListener(t *testing.T) (*net.UDPConn, string) {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn, conn.LocalAddr().String()
}

func readLine(t *testing.T, conn *net.UDPConn) string {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	buf := make([]byte, 1024)
	n, _, err := conn.ReadFromUDP(buf)
	require.NoError(t, err)
	return string(buf[:n])
}

func TestClientCount(t *testing.T) {
	listener, addr := newListener(t)

	client, err := NewClient(Config{Enabled: true, Address: addr, Prefix: "bridge."})
	require.NoError(t, err)
	defer client.Close()

	client.Count("jobs.transition", 1, map[string]string{"status": "polling", "result": "success"})

	assert.Equal(t, "bridge.jobs.transition:1|c|#result:success,status:polling", readLine(t, listener))
}

func TestClientTiming(t *testing.T) {
	listener, addr := newListener(t)

	client, err := NewClient(Config{Enabled: true, Address: addr})
	require.NoError(t, err)
	defer client.Close()

	client.Timing("jobs.phase_duration", 1500*time.Millisecond, nil)

	assert.Equal(t, "jobs.phase_duration:1500|ms", readLine(t, listener))
}

func TestClientDisabledIsNoop(t *testing.T) {
	client, err := NewClient(Config{Enabled: false, Address: "127.0.0.1:1"})
	require.NoError(t, err)

	// Must not panic or dial anything.
	client.Count("jobs.transition", 1, nil)
	require.NoError(t, client.Close())
}

func TestFormatTagsDeterministic(t *testing.T) {
	tags := map[string]string{"b": "2", "a": "1", "c": "3"}
	assert.Equal(t, "|#a:1,b:2,c:3", formatTags(tags))
	assert.Empty(t, formatTags(nil))
}
