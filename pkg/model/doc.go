// Package model defines the entities produced by a generation run: users,
// products, orders and their line items. Entities are immutable once created
// and are held in dense arenas indexed by id-1, since ids always run
// contiguously from 1. Monetary amounts are decimal values rounded to two
// places at creation time.
package model
