package wallet

import (
	"bufio"
	"os"
	"strings"

	"github.com/btcnode/node/nodeerr"
	"github.com/btcnode/node/walletaddr"
)

// LoadAccounts reads the saved-accounts file at path: one line per account
// of the form "<bitcoin_address>;<private_key_wif>;<display_name>\n" (spec
// §6 "Saved accounts file"). A missing file yields an empty, not erroneous,
// account list.
func LoadAccounts(path string) ([]Account, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, nodeerr.Wrap(nodeerr.KindFailedToOpen, "open accounts file", err)
	}
	defer f.Close()

	var accounts []Account
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, ";", 3)
		if len(parts) != 3 {
			return nil, nodeerr.New(nodeerr.KindMalformedEnv, "accounts file: malformed line")
		}
		priv, err := walletaddr.DecodeWIF(parts[1])
		if err != nil {
			return nil, err
		}
		acc := NewAccount(priv, parts[2])
		if acc.BitcoinAddress != parts[0] {
			return nil, nodeerr.New(nodeerr.KindInvalidFormat, "accounts file: address does not match key")
		}
		accounts = append(accounts, acc)
	}
	if err := scanner.Err(); err != nil {
		return nil, nodeerr.Wrap(nodeerr.KindFailedToRead, "read accounts file", err)
	}
	return accounts, nil
}

// SaveAccounts overwrites path with the wallet's current account list in the
// saved-accounts file format (spec §6).
func SaveAccounts(path string, accounts []Account) error {
	f, err := os.Create(path)
	if err != nil {
		return nodeerr.Wrap(nodeerr.KindFailedToCreate, "create accounts file", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, a := range accounts {
		if _, err := w.WriteString(a.BitcoinAddress + ";" + a.PrivateKeyWIF + ";" + a.DisplayName + "\n"); err != nil {
			return nodeerr.Wrap(nodeerr.KindFailedToWrite, "write accounts file", err)
		}
	}
	if err := w.Flush(); err != nil {
		return nodeerr.Wrap(nodeerr.KindFailedToWriteAll, "flush accounts file", err)
	}
	return nil
}
