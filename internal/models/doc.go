// Package models defines the core domain models for the roommate expense
// tracker.
//
// # Models
//
//   - Member: A roommate in the household roster
//   - Expense: A shared expense with a resolved per-member share map
//   - Absence: A date range during which a member is away
//   - SettlementInstruction: A derived "who pays whom" transfer
//
// Balances are never stored; they are recomputed from the expense log on
// demand. Settlement instructions are derived the same way and only become
// durable when the household records one, which materializes it as a regular
// expense in the "Settlement" category.
//
// # Design Principles
//
//  1. Single household: there is exactly one roster, no user accounts or
//     cross-household scoping.
//  2. Avoid circular references: relationships use ID strings, not pointers.
//  3. Value semantics: derived maps (shares, balances) are fresh copies so
//     callers can never mutate stored state through an alias.
//  4. Amounts are float64 rounded to two decimals; comparisons use a 0.01
//     tolerance throughout.
package models
