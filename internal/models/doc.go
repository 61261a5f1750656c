// Package models defines the core domain models for Enveloppe.
//
// # Models
//
//   - Container: a named money holder (a bank account or a pocket)
//   - Debt: an informal IOU between two containers
//   - FixedCharge: a named monthly charge line item
//   - AllocationTable: pocket name -> percentage share of paycheck excess
//   - Snapshot: the full application state handed to and returned from the
//     ledger functions
//
// # Design Principles
//
//  1. **Plain data**: models carry no behavior beyond shape helpers; all
//     computation lives in the ledger package.
//  2. **Value semantics**: snapshots are passed by value into the ledger
//     functions; the functions never mutate their inputs and callers replace
//     state with returned results.
//  3. **Name-based references**: debts reference containers by name, not by
//     ID, for backward data compatibility. Renaming a container would orphan
//     debts referencing the old name, so no rename operation is exposed.
//  4. **Money as decimal**: balances and amounts are shopspring decimals,
//     rounded to 2 places after every mutation that produces a stored value.
package models
