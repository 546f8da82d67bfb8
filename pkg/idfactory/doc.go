// Package idfactory provides ID generators behind two small interfaces,
// IntFactory and StringFactory.
//
//   - Memory: an atomic in-process counter, starting at DefaultStartID by default.
//   - Redis: an INCR counter shared by every process using the same key.
//   - UUID: random v4 or time-ordered v7 UUID strings.
//   - Prefixed: prefix + decimal ID on top of any IntFactory.
//
// There is no package-level generator. Construct the factory once and pass
// it to the code that needs IDs:
//
//	ids := idfactory.NewDefaultMemory()
//	orders := idfactory.NewPrefixed("ord-", ids)
//	id, _ := orders.NewStringID(ctx) // "ord-10000"
package idfactory
