// Package endpoint elaborates a structural layout into the address space a
// bus sees.
//
// Elaboration runs once, synchronously, when an Endpoint is created:
//
//  1. the layout is turned into a decoded interface tree (BuildDecoded),
//  2. the oracle's flattened fields are walked in lock-step with the leaves
//     of that tree (ParseTemplate), binding every field to its interface and
//     producing an immutable AddressMap,
//  3. an optional region table is set up in front of the decode.
//
// Every check is final. New either returns a consistent Endpoint or the first
// failure; nothing is retried and no partial result is kept. Once created, an
// Endpoint is read-only and safe for concurrent use, apart from the one-shot
// ConnectByInterfaceMap.
//
// Addresses handed to and returned from an Endpoint are in raw bus units:
// one increment moves Config.Bus.AddrStep bits.
package endpoint
