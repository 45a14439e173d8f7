// Package persistence provides users.Repository implementations.
//
// Backends:
//   - memory: process-local map, lost on restart
//   - file: memory map mirrored to a JSON file after every mutation
//   - dynamodb: one item per user in a DynamoDB table, ids allocated from
//     an atomic counter item
//
// Open selects a backend from configuration and puts remote backends behind
// a circuit breaker (GuardedRepository).
package persistence
