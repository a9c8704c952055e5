package main

import (
	"log/slog"
	"net"

	"github.com/spf13/cobra"

	"github.com/ssungk/wirebuf/pkg/buf"
)

var (
	sendAddr          string
	sendCommand       string
	sendApp           string
	sendTransactionID float64
)

func init() {
	cmd := newSendCmd()
	cmd.Flags().StringVar(&sendAddr, "addr", "127.0.0.1:1935", "address to connect to")
	cmd.Flags().StringVar(&sendCommand, "command", "connect", "AMF0 command name")
	cmd.Flags().StringVar(&sendApp, "app", "live", "application name passed in the command object")
	cmd.Flags().Float64Var(&sendTransactionID, "txid", 1, "AMF0 transaction id")
	rootCmd.AddCommand(cmd)
}

func newSendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send",
		Short: "Connect to addr and send one marshaled command, vectored",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSend()
		},
	}
}

func runSend() error {
	opts := buf.DefaultOptions()
	b, err := MarshalCommand(opts, sendCommand, sendTransactionID, map[string]any{
		"app": sendApp,
	})
	if err != nil {
		return err
	}
	defer b.Close()

	conn, err := net.Dial("tcp", sendAddr)
	if err != nil {
		slog.Error("dial failed", "addr", sendAddr, "error", err)
		return err
	}
	defer conn.Close()

	sent, err := writeVectored(conn, b)
	if err != nil {
		slog.Error("write failed", "addr", sendAddr, "error", err)
		return err
	}

	slog.Info("command sent", "command", sendCommand, "bytes", sent, "addr", sendAddr)
	return nil
}

// writeVectored writes every byte of b to conn using GetIOVTail (b itself is
// left unchanged), so the bytes reach the
// socket via a single writev-style syscall per batch instead of a copy into
// an intermediate []byte.
func writeVectored(conn net.Conn, b *buf.Buffer) (int, error) {
	begin := b.Begin()
	defer begin.Close()

	vecs := make([]buf.IOVec, 8)
	sent := 0
	for {
		n := b.GetIOVTail(begin, vecs)

		netBufs := make(net.Buffers, n)
		total := 0
		for i := 0; i < n; i++ {
			netBufs[i] = vecs[i].Bytes()
			total += vecs[i].Len
		}
		if total == 0 {
			return sent, nil
		}

		written, err := netBufs.WriteTo(conn)
		if err != nil {
			return sent, err
		}
		sent += int(written)
		begin.Advance(total)
	}
}
