// Package atlas implements the valuation and accounting core of a
// multi-asset portfolio tracker. It turns a ledger of buy/sell/snapshot
// transactions and per-asset price histories into holdings, cost basis,
// realized and unrealized profit-and-loss, and time-aligned portfolio
// value and return series.
//
// The core functionalities include:
//   - Ledger Management: a validated, chronological record of transactions
//     per asset, with soft deletion and per-transaction locking.
//   - Price Series Indexing: per-asset sorted price points with fast
//     "last known close at or before T" lookup, the forward-fill primitive
//     used by every chart-shaped output.
//   - Holding Accounting: average-cost holdings, realized and unrealized
//     P&L, including short positions.
//   - Portfolio Valuation: multiple assets aligned onto a common,
//     forward-filled timestamp grid producing a portfolio value series, a
//     capital-normalized return series, and allocation percentages.
//
// The core is pure and stateless: every output is a deterministic function
// of its inputs plus an injected clock value. Fetching prices and storing
// ledgers are the concern of collaborators (see the pricefeed package and
// the JSONL helpers in encode.go); the core is invoked only after those
// results are materialized in memory.
//
// This package serves as the foundational logic for the `atl` command-line
// tool, so that no call site re-derives cost-basis arithmetic on its own.
package atlas
