// Generates a synthetic capture whose flows all touch the loopback address,
// so replaying it through the agent with -pcap_file produces reportable
// traffic on any machine.
package main

import (
	"flag"
	"log"
	"math/rand"
	"net"
	"os"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
)

var peers = []net.IP{
	{192, 168, 1, 10},
	{192, 168, 1, 20},
	{10, 0, 0, 5},
	{172, 16, 0, 3},
}

func main() {
	outputFile := flag.String("o", "demo.pcap", "Output pcap file path")
	packetCount := flag.Int("c", 1000, "Number of packets to generate")
	flag.Parse()

	f, err := os.Create(*outputFile)
	if err != nil {
		log.Fatalf("Failed to create output file: %v", err)
	}
	defer f.Close()

	w := pcapgo.NewWriter(f)
	if err := w.WriteFileHeader(65536, layers.LinkTypeEthernet); err != nil {
		log.Fatalf("Failed to write pcap header: %v", err)
	}

	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	log.Printf("Generating %d packets into %s...", *packetCount, *outputFile)

	ts := time.Now()
	for i := 0; i < *packetCount; i++ {
		data, err := buildFrame(rnd)
		if err != nil {
			log.Fatalf("Failed to serialize packet: %v", err)
		}
		ci := gopacket.CaptureInfo{
			Timestamp:     ts,
			CaptureLength: len(data),
			Length:        len(data),
		}
		if err := w.WritePacket(ci, data); err != nil {
			log.Fatalf("Failed to write packet: %v", err)
		}
		ts = ts.Add(time.Duration(rnd.Intn(5)+1) * time.Millisecond)
	}

	log.Printf("Done: %d packets written to %s.", *packetCount, *outputFile)
}

func buildFrame(rnd *rand.Rand) ([]byte, error) {
	local := net.IP{127, 0, 0, 1}
	peer := peers[rnd.Intn(len(peers))]
	src, dst := local, peer
	if rnd.Intn(2) == 0 {
		src, dst = peer, local
	}

	eth := &layers.Ethernet{
		SrcMAC:       net.HardwareAddr{0x00, 0x11, 0x22, 0x33, 0x44, 0x55},
		DstMAC:       net.HardwareAddr{0x00, 0x66, 0x77, 0x88, 0x99, 0xaa},
		EthernetType: layers.EthernetTypeIPv4,
	}
	ip := &layers.IPv4{
		Version: 4,
		TTL:     64,
		SrcIP:   src,
		DstIP:   dst,
	}

	payload := make([]byte, rnd.Intn(900)+60)
	rnd.Read(payload)

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{ComputeChecksums: true, FixLengths: true}

	switch rnd.Intn(10) {
	case 0:
		// A little ICMP so the replay exercises the portless path.
		ip.Protocol = layers.IPProtocolICMPv4
		icmp := &layers.ICMPv4{TypeCode: layers.CreateICMPv4TypeCode(layers.ICMPv4TypeEchoRequest, 0)}
		err := gopacket.SerializeLayers(buf, opts, eth, ip, icmp, gopacket.Payload(payload))
		return buf.Bytes(), err
	case 1, 2, 3:
		ip.Protocol = layers.IPProtocolUDP
		udp := &layers.UDP{SrcPort: layers.UDPPort(rnd.Intn(64511) + 1024), DstPort: 53}
		udp.SetNetworkLayerForChecksum(ip)
		err := gopacket.SerializeLayers(buf, opts, eth, ip, udp, gopacket.Payload(payload))
		return buf.Bytes(), err
	default:
		ip.Protocol = layers.IPProtocolTCP
		tcp := &layers.TCP{
			SrcPort: layers.TCPPort(rnd.Intn(64511) + 1024),
			DstPort: 443,
			Seq:     rnd.Uint32(),
			ACK:     true,
			Window:  14600,
		}
		tcp.SetNetworkLayerForChecksum(ip)
		err := gopacket.SerializeLayers(buf, opts, eth, ip, tcp, gopacket.Payload(payload))
		return buf.Bytes(), err
	}
}
