// Package pools provides object pooling for reducing GC pressure.
//
//   - WordPool: size-class pooling of zeroed []uint64 bitset words, used for
//     per-walk scratch sets
package pools
