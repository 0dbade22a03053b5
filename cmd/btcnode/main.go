// Command btcnode runs a Bitcoin testnet node: header sync, block download,
// UTXO indexing, wallet, and the live listener/server pair (spec §2). It
// also exposes a "wallet" subcommand for offline account management.
package main

import (
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/btcnode/node/blockpool"
	"github.com/btcnode/node/blockstore"
	"github.com/btcnode/node/config"
	"github.com/btcnode/node/headerchain"
	"github.com/btcnode/node/headerfile"
	"github.com/btcnode/node/listener"
	"github.com/btcnode/node/logsink"
	"github.com/btcnode/node/nodeerr"
	"github.com/btcnode/node/p2p"
	"github.com/btcnode/node/server"
	"github.com/btcnode/node/txmodel"
	"github.com/btcnode/node/utxo"
	"github.com/btcnode/node/wallet"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: btcnode <run|wallet> [flags]")
		os.Exit(2)
	}
	switch os.Args[1] {
	case "run":
		os.Exit(runNode(os.Args[2:], os.Stdout, os.Stderr))
	case "wallet":
		os.Exit(runWallet(os.Args[2:], os.Stdout, os.Stderr))
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand %q\n", os.Args[1])
		os.Exit(2)
	}
}

func runNode(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 2
	}

	sink, err := logsink.Open(cfg.PathLog)
	if err != nil {
		fmt.Fprintf(stderr, "logsink: %v\n", err)
		return 2
	}
	defer sink.Close()

	if err := os.MkdirAll(cfg.PathBlocks, 0o750); err != nil {
		fmt.Fprintf(stderr, "blocks dir: %v\n", err)
		return 2
	}
	store := blockstore.New(cfg.PathBlocks)

	idx, err := utxo.Open(cfg.PathBlocks + "/utxo.db")
	if err != nil {
		fmt.Fprintf(stderr, "utxo index: %v\n", err)
		return 2
	}
	defer idx.Close()

	hcfg := p2p.HandshakeConfig{
		ProtocolVersion: cfg.Version,
		LocalIP:         net.ParseIP(cfg.LocalIP),
		LocalPort:       cfg.Port,
		StartHeight:     0,
	}

	candidates := dnsSeedCandidates(cfg)
	file := headerfile.Open(cfg.PathBlocks + "/headers.dat")
	downloader := headerchain.New(file, cfg.StartingDate)

	// extraSyncPeers is how many spare peer sessions to keep alongside the
	// one used for header sync, so the block download pool has peers left
	// to retry against once one of them exceeds its failure budget.
	const extraSyncPeers = 3

	peer, spares, err := downloader.DownloadOrRetry(candidates, hcfg, extraSyncPeers)
	if err != nil {
		sink.Error("header sync failed", zap.Error(err))
		fmt.Fprintf(stderr, "header sync: %v\n", err)
		return 2
	}
	sink.Info("header sync complete", zap.Int("spare_peers", len(spares)))

	peer, err = downloadHistoricalBlocks(append([]*p2p.Peer{peer}, spares...), file, store, idx, sink)
	if err != nil {
		sink.Error("historical block download failed", zap.Error(err))
		fmt.Fprintf(stderr, "block download: %v\n", err)
		return 2
	}
	sink.Info("historical block download complete")

	w := wallet.New(idx)
	if accounts, err := wallet.LoadAccounts(cfg.AccountsPath()); err == nil {
		w.Accounts = accounts
	}
	go w.Run()

	srv := server.New(file, store, hcfg)
	ln, err := net.Listen("tcp4", net.JoinHostPort(cfg.LocalIP, strconv.Itoa(int(cfg.Port))))
	if err != nil {
		sink.Error("listen failed", zap.Error(err))
		fmt.Fprintf(stderr, "listen: %v\n", err)
		return 2
	}
	go func() {
		if err := srv.Serve(ln); err != nil {
			sink.Error("server stopped", zap.Error(err))
		}
	}()

	lw := listener.New(peer, idx, store, w.In)
	if err := lw.Run(); err != nil {
		sink.Error("listener stopped", zap.Error(err))
	}

	fmt.Fprintln(stdout, "btcnode stopped")
	return 0
}

// downloadHistoricalBlocks drives the block download pipeline (spec section
// 4.4) over every header stored so far except the genesis header, which has
// no peer-fetchable block body. peers is downloaded across concurrently, so
// blocks land in the store in whatever order their workers finish; once
// downloading settles, blocks are applied to idx strictly in header order
// (required since later blocks spend earlier ones' outputs). It returns one
// surviving peer for the caller to hand to the live listener, closing the
// rest.
func downloadHistoricalBlocks(peers []*p2p.Peer, file headerfile.File, store blockstore.Store, idx *utxo.Index, sink *logsink.Sink) (*p2p.Peer, error) {
	headers, err := file.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(headers) <= 1 {
		for _, spare := range peers[1:] {
			_ = spare.Close()
		}
		return peers[0], nil
	}

	hashes := make([][32]byte, 0, len(headers)-1)
	for _, h := range headers[1:] {
		hashes = append(hashes, h.Hash())
	}

	survivors, failed := blockpool.Download(peers, store, hashes)
	if len(survivors) == 0 {
		return nil, nodeerr.New(nodeerr.KindFailedToConnect, "block download: no surviving peers")
	}
	if len(failed) > 0 {
		sink.Warn("some historical blocks were never downloaded", zap.Int("failed", len(failed)))
	}

	for _, h := range headers[1:] {
		hash := h.Hash()
		raw, err := store.Read(hash)
		if err != nil {
			continue // never downloaded; already reported above
		}
		block, err := txmodel.DecodeBlock(raw)
		if err != nil {
			sink.Warn("decode downloaded block failed", zap.Binary("hash", hash[:]), zap.Error(err))
			continue
		}
		if err := idx.Apply(block, store.Path(hash)); err != nil {
			return nil, err
		}
	}

	live := survivors[0]
	for _, spare := range survivors[1:] {
		_ = spare.Close()
	}
	return live, nil
}

func dnsSeedCandidates(cfg config.Config) []string {
	var seeds []string
	ips, err := net.LookupHost(cfg.DNS)
	if err == nil {
		for _, ip := range ips {
			seeds = append(seeds, net.JoinHostPort(ip, strconv.Itoa(int(cfg.Port))))
		}
	}
	return cfg.PeerCandidates(seeds)
}

func runWallet(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("wallet", flag.ContinueOnError)
	fs.SetOutput(stderr)
	accountsPath := fs.String("accounts", "accounts.dat", "saved accounts file path")
	newName := fs.String("new", "", "create a new account with this display name")
	sendTarget := fs.String("send-to", "", "address to send to")
	sendAmount := fs.Int64("amount", 0, "amount in satoshis")
	sendFee := fs.Int64("fee", 0, "fee in satoshis")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	accounts, err := wallet.LoadAccounts(*accountsPath)
	if err != nil {
		fmt.Fprintf(stderr, "load accounts: %v\n", err)
		return 2
	}

	idx, err := utxo.Open(strings.TrimSuffix(*accountsPath, "accounts.dat") + "utxo.db")
	if err != nil {
		fmt.Fprintf(stderr, "open utxo index: %v\n", err)
		return 2
	}
	defer idx.Close()

	w := wallet.New(idx)
	w.Accounts = accounts

	if *newName != "" {
		w.In <- wallet.Message{CreateNewAccount: &wallet.CreateAccountRequest{DisplayName: *newName}}
		close(w.In)
		w.Run()
	}

	if *sendTarget != "" {
		tx, err := w.CreateTransaction(*sendTarget, *sendAmount, *sendFee)
		if err != nil {
			fmt.Fprintf(stderr, "create transaction: %v\n", err)
			return 2
		}
		txID := tx.TxID()
		fmt.Fprintf(stdout, "created transaction %x\n", txID)
	}

	for i, acc := range w.Accounts {
		balance, err := acc.Balance(idx)
		if err != nil {
			continue
		}
		marker := " "
		if i == 0 {
			marker = "*"
		}
		fmt.Fprintf(stdout, "%s %s balance=%d\n", marker, acc.String(), balance)
	}

	if err := wallet.SaveAccounts(*accountsPath, w.Accounts); err != nil {
		fmt.Fprintf(stderr, "save accounts: %v\n", err)
		return 2
	}
	return 0
}
