// mika-tap subscribes to the NATS mirror and prints every record, which is
// handy for checking what a server ingests without opening the dashboard.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/netip"
	"os"
	"os/signal"
	"syscall"

	"github.com/nats-io/nats.go"
	"google.golang.org/protobuf/proto"

	v1 "github.com/arianpg/mikaboshi/api/gen/v1"
	"github.com/arianpg/mikaboshi/internal/model"
	"github.com/arianpg/mikaboshi/internal/server"
)

func main() {
	natsURL := flag.String("nats_url", nats.DefaultURL, "NATS server the mirror publishes to.")
	subject := flag.String("subject", server.MirrorSubject, "Subject to subscribe to.")
	flag.Parse()

	nc, err := nats.Connect(*natsURL)
	if err != nil {
		log.Fatalf("Failed to connect to NATS at %s: %v", *natsURL, err)
	}
	defer nc.Close()

	sub, err := nc.Subscribe(*subject, func(msg *nats.Msg) {
		var pb v1.CompactedRecord
		if err := proto.Unmarshal(msg.Data, &pb); err != nil {
			log.Printf("Failed to unmarshal record: %v", err)
			return
		}
		rec, err := model.FromWire(&pb)
		if err != nil {
			log.Printf("Failed to decode record: %v", err)
			return
		}
		fmt.Println(formatRecord(rec))
	})
	if err != nil {
		log.Fatalf("Failed to subscribe to %s: %v", *subject, err)
	}
	defer sub.Unsubscribe()

	log.Printf("Subscribed to '%s'. Waiting for records...", *subject)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	log.Println("Shutdown signal received, cleaning up...")
}

// formatRecord renders one line per record. The asterisk marks the side the
// reporting agent owns.
func formatRecord(r model.RawRecord) string {
	return fmt.Sprintf("%-22s -> %-22s %6d B  %s",
		endpoint(r.SrcIP, r.SrcPort, r.SrcLocal),
		endpoint(r.DstIP, r.DstPort, r.DstLocal),
		r.Size, r.Proto)
}

func endpoint(addr netip.Addr, port uint16, agentSide bool) string {
	s := addr.String()
	if port != 0 {
		s = fmt.Sprintf("%s:%d", s, port)
	}
	if agentSide {
		s += "*"
	}
	return s
}
