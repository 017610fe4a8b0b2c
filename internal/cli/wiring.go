package cli

import (
	"fmt"
	"time"

	"github.com/soyeahso/pocketfi/internal/chain"
	"github.com/soyeahso/pocketfi/internal/config"
	"github.com/soyeahso/pocketfi/internal/engine"
	"github.com/soyeahso/pocketfi/internal/llm"
	"github.com/soyeahso/pocketfi/internal/router"
	"github.com/soyeahso/pocketfi/internal/store"
	"github.com/soyeahso/pocketfi/internal/tool"
	"github.com/soyeahso/pocketfi/internal/txpayload"
)

// buildEngine wires the full conversational stack from config. The returned
// cleanup closes the thread database.
func buildEngine(cfg config.Config, storePath string) (*engine.Engine, func(), error) {
	net, err := cfg.ActiveNetwork()
	if err != nil {
		return nil, nil, err
	}

	if storePath == "" {
		storePath = cfg.Store.Path
	}
	if storePath == "" {
		if err := paths.EnsureDirs(); err != nil {
			return nil, nil, fmt.Errorf("creating data directories: %w", err)
		}
		storePath = paths.DefaultStorePath()
	}

	db, err := store.Open(storePath, log)
	if err != nil {
		return nil, nil, fmt.Errorf("opening thread store: %w", err)
	}

	var reader chain.Reader
	if net.RPCURL != "" {
		reader = chain.NewRPCReader(net.RPCURL)
	} else {
		log.Warn().Str("network", net.NetworkName).Msg("no RPC endpoint configured, chain reads will return stub data")
		reader = &chain.MockReader{ChainIDValue: net.ChainID}
	}

	builder := txpayload.NewBuilder(net, cfg.Engine.MaxTransfer)
	registry := tool.DefaultRegistry(tool.Deps{
		Reader:  reader,
		Builder: builder,
		Network: net,
	})

	model, err := llm.NewRegistryFromConfig(cfg.LLM, log).Resolve(cfg.LLM.Provider)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("resolving model provider: %w", err)
	}

	eng := engine.New(engine.Options{
		Engine:  cfg.Engine,
		LLM:     cfg.LLM,
		Network: net,
	},
		store.NewThreadStore(db),
		router.New(net),
		tool.NewExecutor(registry, time.Duration(cfg.Engine.ToolTimeoutSec)*time.Second, log),
		model,
		log,
	)

	return eng, func() { db.Close() }, nil
}
