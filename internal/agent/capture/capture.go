// Package capture wraps live packet capture behind a small source interface
// so the agent loop can also run against synthetic traffic.
package capture

import (
	"errors"
	"fmt"
	"net/netip"
	"time"

	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"
)

// ErrTimeout reports that no frame arrived within the poll window. The
// capture loop uses it as a cue to re-check its flush timer.
var ErrTimeout = errors.New("capture: read timed out")

// pollTimeout bounds a single blocking read so the loop regains control
// often enough for interval-based flushing.
const pollTimeout = 100 * time.Millisecond

// Frame is one captured link-layer frame. Length is the wire length, which
// can exceed len(Data) when the snapshot truncates the packet.
type Frame struct {
	Data   []byte
	Length int
}

// Source yields frames one at a time. ReadFrame returns ErrTimeout when the
// poll window elapses, io.EOF when the source is exhausted, and any other
// error for a transient read failure.
type Source interface {
	ReadFrame() (Frame, error)
	LinkType() layers.LinkType
	Close()
}

// Options configures a live capture handle.
type Options struct {
	Device      string
	Snapshot    int
	Promiscuous bool
	// ControlPort is excluded from capture so the agent's own uplink
	// traffic is never reported.
	ControlPort int
}

// Live reads frames from a pcap handle.
type Live struct {
	handle *pcap.Handle
}

// OpenLive opens the device and installs the control-plane exclusion filter.
// Both failure modes are fatal to capture; the caller decides whether to
// fall back to mock traffic.
func OpenLive(opts Options) (*Live, error) {
	handle, err := pcap.OpenLive(opts.Device, int32(opts.Snapshot), opts.Promiscuous, pollTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to open device %s: %w", opts.Device, err)
	}
	filter := fmt.Sprintf("not port %d", opts.ControlPort)
	if err := handle.SetBPFFilter(filter); err != nil {
		handle.Close()
		return nil, fmt.Errorf("failed to install filter %q: %w", filter, err)
	}
	return &Live{handle: handle}, nil
}

func (l *Live) ReadFrame() (Frame, error) {
	data, ci, err := l.handle.ReadPacketData()
	if err != nil {
		if errors.Is(err, pcap.NextErrorTimeoutExpired) {
			return Frame{}, ErrTimeout
		}
		return Frame{}, err
	}
	return Frame{Data: data, Length: ci.Length}, nil
}

func (l *Live) LinkType() layers.LinkType { return l.handle.LinkType() }

func (l *Live) Close() { l.handle.Close() }

// OpenFile opens a recorded capture for replay. The source reads frames
// back to back and ends with io.EOF, at which point the agent switches to
// mock traffic. No exclusion filter is installed; the recording cannot
// contain the agent's own uplink.
func OpenFile(path string) (*Live, error) {
	handle, err := pcap.OpenOffline(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture file %s: %w", path, err)
	}
	return &Live{handle: handle}, nil
}

// Device describes one capturable interface.
type Device struct {
	Name        string
	Description string
	Addrs       []netip.Addr
}

// ListDevices enumerates the interfaces the capture library can open.
func ListDevices() ([]Device, error) {
	ifaces, err := pcap.FindAllDevs()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate devices: %w", err)
	}
	devices := make([]Device, 0, len(ifaces))
	for _, iface := range ifaces {
		dev := Device{Name: iface.Name, Description: iface.Description}
		for _, addr := range iface.Addresses {
			if ip, ok := netip.AddrFromSlice(addr.IP); ok {
				dev.Addrs = append(dev.Addrs, ip.Unmap())
			}
		}
		devices = append(devices, dev)
	}
	return devices, nil
}
