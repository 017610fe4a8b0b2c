// Package router decides how a classified message is answered: a canned
// direct response, one or more tool calls plus a model turn, or a bare
// model turn.
package router

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/soyeahso/pocketfi/internal/domain"
	"github.com/soyeahso/pocketfi/internal/tool"
)

// Route is the router's verdict for one message.
type Route struct {
	// Direct, when non-empty, is the full response; tools and the model
	// are bypassed.
	Direct string

	// ToolCalls are executed before the model turn, in order.
	ToolCalls []domain.ToolCall
}

// IsDirect reports whether the message short-circuits to a canned answer.
func (r Route) IsDirect() bool { return r.Direct != "" }

// Router maps classifications to direct answers or tool invocations.
type Router struct {
	network domain.NetworkConfig
}

// New creates a router for the given network.
func New(network domain.NetworkConfig) *Router {
	return &Router{network: network}
}

const helpText = `Available commands:
/help - this message
/balance [address] - USDC and ETH balances
/transfer <amount> <address> - build a USDC transfer
/gas [type] - gas cost estimate
/status - network health
/yields [minApy] [risk] - yield opportunities
/protocols [name] - protocol details
/validate <address> - check an address

Or just ask in plain language.`

// HelpText returns the static command reference. The engine reuses it in its
// model-failure fallback message.
func HelpText() string { return helpText }

// help is the command reference plus the network this router acts on.
func (r *Router) help() string {
	return helpText + fmt.Sprintf("\n\nNetwork: %s (chain %d)", r.network.NetworkName, r.network.ChainID)
}

// Route inspects a classified message. text is the raw message, used for
// natural-language tool triggering.
func (r *Router) Route(c domain.Classification, text string) Route {
	if c.MessageKind == domain.MessageKindCommand {
		return r.routeCommand(c)
	}
	return Route{ToolCalls: r.inferToolCalls(text)}
}

func (r *Router) routeCommand(c domain.Classification) Route {
	params := strings.Fields(c.Parameters)

	switch c.Command {
	case "/help", "/start", "/commands":
		return Route{Direct: r.help()}

	case "/balance":
		args := map[string]any{}
		if len(params) > 0 {
			args["address"] = params[0]
		}
		return Route{ToolCalls: []domain.ToolCall{newCall(tool.NameGetBalance, args)}}

	case "/transfer", "/tx", "/send":
		// Malformed parameters fall through to help rather than crashing.
		if len(params) < 2 {
			return Route{Direct: "Usage: /transfer <amount> <address>\n\n" + r.help()}
		}
		return Route{ToolCalls: []domain.ToolCall{newCall(tool.NameCreateTransfer, map[string]any{
			"amount":    params[0],
			"toAddress": params[1],
		})}}

	case "/gas":
		args := map[string]any{"transactionType": "transfer"}
		if len(params) > 0 {
			args["transactionType"] = params[0]
		}
		return Route{ToolCalls: []domain.ToolCall{newCall(tool.NameEstimateGas, args)}}

	case "/status", "/network":
		return Route{ToolCalls: []domain.ToolCall{newCall(tool.NameNetworkStatus, nil)}}

	case "/yields", "/yield":
		args := map[string]any{}
		if len(params) > 0 {
			minApy, err := strconv.ParseFloat(params[0], 64)
			if err != nil {
				return Route{Direct: "Usage: /yields [minApy] [riskLevel]\n\n" + r.help()}
			}
			args["minApy"] = minApy
		}
		if len(params) > 1 {
			args["riskLevel"] = params[1]
		}
		return Route{ToolCalls: []domain.ToolCall{newCall(tool.NameYields, args)}}

	case "/protocols", "/protocol":
		args := map[string]any{}
		if len(params) > 0 {
			args["protocolName"] = params[0]
		}
		return Route{ToolCalls: []domain.ToolCall{newCall(tool.NameProtocolInfo, args)}}

	case "/validate":
		if len(params) < 1 {
			return Route{Direct: "Usage: /validate <address>\n\n" + r.help()}
		}
		return Route{ToolCalls: []domain.ToolCall{newCall(tool.NameValidateAddr, map[string]any{
			"address": params[0],
		})}}

	default:
		return Route{Direct: fmt.Sprintf("Unknown command %s.\n\n%s", c.Command, r.help())}
	}
}

// trigger maps substring hints to a tool. Best-effort: a missed trigger
// only reduces context for the model, never errors.
type trigger struct {
	hints []string
	tool  string
}

var nlTriggers = []trigger{
	{hints: []string{"balance", "how much"}, tool: tool.NameGetBalance},
	{hints: []string{"gas price", "gas fee", "transaction cost", "network status"}, tool: tool.NameNetworkStatus},
	{hints: []string{"yield", "farming", "apy"}, tool: tool.NameYields},
}

// inferToolCalls opportunistically attaches tools to natural-language
// messages. Duplicate tool names are collapsed.
func (r *Router) inferToolCalls(text string) []domain.ToolCall {
	lower := strings.ToLower(text)

	var calls []domain.ToolCall
	seen := make(map[string]bool)
	for _, tr := range nlTriggers {
		if seen[tr.tool] {
			continue
		}
		for _, hint := range tr.hints {
			if strings.Contains(lower, hint) {
				calls = append(calls, newCall(tr.tool, nil))
				seen[tr.tool] = true
				break
			}
		}
	}
	return calls
}

func newCall(name string, args map[string]any) domain.ToolCall {
	return domain.ToolCall{
		ID:        uuid.New().String(),
		Name:      name,
		Arguments: args,
	}
}
