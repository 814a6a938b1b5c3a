package ledger

import (
	"encoding/json"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/viper"

	"winnertool/config"
	"winnertool/logger"
	"winnertool/types"
	"winnertool/utils"
)

var SolanaRpcURL string

func GetSolanaRpcURL() string {
	if SolanaRpcURL != "" {
		return SolanaRpcURL
	}
	return viper.GetString("sol.rpc")
}

type SolanaRpcRequest struct {
	Jsonrpc string        `json:"jsonrpc"`
	ID      string        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type SolanaRpcResponse struct {
	Jsonrpc string          `json:"jsonrpc"`
	ID      string          `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// CallRpc performs one JSON-RPC call and unmarshals the result field into result.
func CallRpc(method string, params []interface{}, result any) error {
	url := GetSolanaRpcURL()

	req := SolanaRpcRequest{
		Jsonrpc: "2.0",
		ID:      "1",
		Method:  method,
		Params:  params,
	}

	var resp SolanaRpcResponse
	err := utils.PostUrlResponseWithRetry(url, req, &resp, config.DefaultRetryTimes, logger.ReplayLogger)
	if err != nil {
		return fmt.Errorf("RPC %s failed: %w", method, err)
	}

	if resp.Error != nil {
		return fmt.Errorf("RPC %s returned error: %d %s", method, resp.Error.Code, resp.Error.Message)
	}

	if result == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Result, result); err != nil {
		return fmt.Errorf("RPC %s: unexpected result: %w", method, err)
	}
	return nil
}

func GetCurrentSlot() (uint64, error) {
	var slot uint64
	err := CallRpc("getSlot", []interface{}{map[string]string{"commitment": "finalized"}}, &slot)
	if err != nil {
		return 0, err
	}
	return slot, nil
}

func GetFirstAvailableBlock() (uint64, error) {
	var slot uint64
	err := CallRpc("getFirstAvailableBlock", []interface{}{}, &slot)
	if err != nil {
		return 0, err
	}
	return slot, nil
}

func GetSlotLeaders(start, limit uint64) (types.SlotLeaders, error) {
	var leaders []string
	if err := CallRpc("getSlotLeaders", []interface{}{start, limit}, &leaders); err != nil {
		return nil, err
	}

	res := make(types.SlotLeaders, 0, len(leaders))
	for i, leader := range leaders {
		res = append(res, &types.SlotLeader{
			Slot:   start + uint64(i),
			Leader: leader,
		})
	}
	return res, nil
}

// GetBlocks returns the slots in [start, end] for which a block was produced.
func GetBlocks(start, end uint64) ([]uint64, error) {
	var slots []uint64
	if err := CallRpc("getBlocks", []interface{}{start, end, map[string]string{"commitment": "finalized"}}, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

func GetBalance(id solana.PublicKey) (uint64, error) {
	var result struct {
		Value uint64 `json:"value"`
	}
	err := CallRpc("getBalance", []interface{}{id.String(), map[string]string{"commitment": "finalized"}}, &result)
	if err != nil {
		return 0, err
	}
	return result.Value, nil
}

// Subset of the jsonParsed block layout carrying vote instructions.
type rpcBlock struct {
	ParentSlot   uint64 `json:"parentSlot"`
	Transactions []struct {
		Meta struct {
			Err interface{} `json:"err"`
		} `json:"meta"`
		Transaction struct {
			Message struct {
				Instructions []struct {
					Program string `json:"program"`
					Parsed  struct {
						Type string `json:"type"`
						Info struct {
							VoteAuthority string `json:"voteAuthority"`
							Vote          struct {
								Slots []uint64 `json:"slots"`
							} `json:"vote"`
							VoteStateUpdate struct {
								Lockouts []struct {
									Slot uint64 `json:"slot"`
								} `json:"lockouts"`
							} `json:"voteStateUpdate"`
							TowerSync struct {
								Lockouts []struct {
									Slot uint64 `json:"slot"`
								} `json:"lockouts"`
							} `json:"towerSync"`
						} `json:"info"`
					} `json:"parsed"`
				} `json:"instructions"`
			} `json:"message"`
		} `json:"transaction"`
	} `json:"transactions"`
}

// GetBlockEntries fetches a block and extracts its landed votes, one entry
// per successful vote transaction, in block order.
func GetBlockEntries(slot uint64) ([]types.Entry, error) {
	opts := map[string]interface{}{
		"encoding":                       "jsonParsed",
		"transactionDetails":             "full",
		"rewards":                        false,
		"maxSupportedTransactionVersion": 0,
	}

	var block rpcBlock
	if err := CallRpc("getBlock", []interface{}{slot, opts}, &block); err != nil {
		return nil, err
	}

	entries := make([]types.Entry, 0, len(block.Transactions))
	for _, tx := range block.Transactions {
		if tx.Meta.Err != nil {
			continue
		}
		var votes []types.Vote
		for _, inst := range tx.Transaction.Message.Instructions {
			if inst.Program != "vote" {
				continue
			}
			confirmed := uint64(0)
			switch inst.Parsed.Type {
			case "vote", "voteswitch":
				for _, s := range inst.Parsed.Info.Vote.Slots {
					confirmed = max(confirmed, s)
				}
			case "updatevotestate", "updatevotestateswitch", "compactupdatevotestate", "compactupdatevotestateswitch":
				for _, l := range inst.Parsed.Info.VoteStateUpdate.Lockouts {
					confirmed = max(confirmed, l.Slot)
				}
			case "towersync", "towersyncswitch":
				for _, l := range inst.Parsed.Info.TowerSync.Lockouts {
					confirmed = max(confirmed, l.Slot)
				}
			default:
				continue
			}
			if confirmed == 0 || inst.Parsed.Info.VoteAuthority == "" {
				continue
			}
			voter, err := solana.PublicKeyFromBase58(inst.Parsed.Info.VoteAuthority)
			if err != nil {
				logger.ReplayLogger.Warn("Skipping vote with invalid authority", "slot", slot, "authority", inst.Parsed.Info.VoteAuthority, "err", err)
				continue
			}
			votes = append(votes, types.Vote{Voter: voter, SlotConfirmed: confirmed})
		}
		if len(votes) > 0 {
			entries = append(entries, types.Entry{Votes: votes})
		}
	}
	return entries, nil
}
