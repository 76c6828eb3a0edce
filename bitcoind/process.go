package bitcoind

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"lnbridge.dev/node/wire"
)

// processEstimateFee implements spec.md §4.2's estimatesmartfee rule:
// extract the top-level "feerate" number (BTC/kvB); if absent, log and
// report 0 sat/kw rather than failing. Present, it converts to
// satoshi-per-kw as round(feerate * 10^8 / 4).
func processEstimateFee(logger *slog.Logger, target uint32, mode string, raw []byte) (int64, error) {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return 0, fmt.Errorf("bitcoind: estimatesmartfee: %w", &FatalError{Code: ErrProtocol, Err: err})
	}
	v, ok := doc["feerate"]
	if !ok {
		logger.Warn("bitcoind: estimatesmartfee missing feerate", "target", target, "mode", mode)
		return 0, nil
	}
	feerate, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("bitcoind: estimatesmartfee: %w", &FatalError{Code: ErrProtocol, Err: fmt.Errorf("feerate field is not a number")})
	}
	return int64(math.Round(feerate * 1e8 / 4)), nil
}

// processGetBlockCount parses bitcoin-cli's plain-text integer response.
func processGetBlockCount(raw []byte) (uint32, error) {
	s := strings.TrimSpace(string(raw))
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("bitcoind: getblockcount: %w", &FatalError{Code: ErrProtocol, Err: err})
	}
	return uint32(n), nil
}

// processGetBlockHash parses bitcoin-cli's plain-text block-hash response
// into a BlockID. The "missing" case (height doesn't exist) is signalled
// exclusively by nonzero exit, handled by the caller before this runs.
func processGetBlockHash(raw []byte) (wire.BlockID, error) {
	s := strings.TrimSpace(string(raw))
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != 32 {
		return wire.BlockID{}, fmt.Errorf("bitcoind: getblockhash: %w", &FatalError{Code: ErrProtocol, Err: fmt.Errorf("not a 32-byte hex hash: %q", s)})
	}
	reverseInPlace(b) // bitcoind prints block hashes byte-reversed from internal order
	var id wire.BlockID
	copy(id.Inner[:], b)
	return id, nil
}

// processGetRawBlock hex-decodes bitcoin-cli's raw-block response
// ("getblock <hash> false"). Full block parsing is chain-topology's job
// (spec.md §1, out of scope); this returns the decoded canonical bytes.
func processGetRawBlock(raw []byte) ([]byte, error) {
	s := strings.TrimSpace(string(raw))
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("bitcoind: getblock: %w", &FatalError{Code: ErrProtocol, Err: err})
	}
	return b, nil
}

// blockTxidAtIndex extracts tx[idx] (a txid string) from the full-form
// "getblock <hash>" JSON response. An out-of-range idx reports "missing";
// malformed hex in-range is fatal (spec.md §4.2).
func blockTxidAtIndex(raw []byte, idx uint32) (txid string, missing bool, err error) {
	var doc struct {
		Tx []string `json:"tx"`
	}
	if jsonErr := json.Unmarshal(raw, &doc); jsonErr != nil {
		return "", false, &FatalError{Code: ErrProtocol, Err: jsonErr}
	}
	if int(idx) >= len(doc.Tx) {
		return "", true, nil
	}
	t := doc.Tx[idx]
	if _, hexErr := hex.DecodeString(t); hexErr != nil || len(t) != 64 {
		return "", false, &FatalError{Code: ErrProtocol, Err: fmt.Errorf("malformed txid %q at index %d", t, idx)}
	}
	return t, false, nil
}

// Output is the result of GetOutput: an amount in satoshi and the output
// script, or Missing=true if the output does not exist.
type Output struct {
	Missing bool
	Amount  uint64
	Script  []byte
}

// processGetTxOut implements spec.md §4.2's gettxout rule: "value" and
// "scriptPubKey.hex" are mandatory fields once the call succeeds — their
// absence is a protocol error, not a "missing output" (that is signalled
// exclusively by nonzero exit, handled by the caller before this runs).
func processGetTxOut(raw []byte) (Output, error) {
	var doc struct {
		Value        *float64 `json:"value"`
		ScriptPubKey *struct {
			Hex string `json:"hex"`
		} `json:"scriptPubKey"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Output{}, &FatalError{Code: ErrProtocol, Err: err}
	}
	if doc.Value == nil || doc.ScriptPubKey == nil || doc.ScriptPubKey.Hex == "" {
		return Output{}, &FatalError{Code: ErrProtocol, Err: fmt.Errorf("gettxout: missing value or scriptPubKey.hex")}
	}
	script, err := hex.DecodeString(doc.ScriptPubKey.Hex)
	if err != nil {
		return Output{}, &FatalError{Code: ErrProtocol, Err: fmt.Errorf("gettxout: malformed scriptPubKey.hex: %w", err)}
	}
	amount := uint64(math.Round(*doc.Value * 1e8))
	return Output{Amount: amount, Script: script}, nil
}

func reverseInPlace(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}
