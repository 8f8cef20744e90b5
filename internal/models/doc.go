// Package models defines the core domain models for Groupfund.
//
// # Models
//
//   - User: a registered account; Username doubles as the display name
//   - Friendship: a directed friend-request edge with a status
//   - Group: a pool of members contributing money together
//   - LedgerEntry: one confirmed, settled contribution to a group
//   - Contribution: a per-user aggregate derived from ledger entries
//
// # Design Principles
//
// 1. **Opaque IDs**: relationships reference UUID strings, not pointers
// 2. **Integer money**: ledger amounts are integer cents; conversion to
// decimal dollars happens only at the API edge
// 3. **Append-only ledger**: LedgerEntry rows are never mutated or deleted;
// refunds and disputes are out of scope
// 4. **Unix timestamps**: all creation times are Unix seconds
package models
