// Package store persists family data and moves it in and out of JSON files.
//
// # Backends
//
// All backends implement [Store] and hold exactly one family document:
//
//   - [MemoryStore]: process memory, for tests and throwaway servers
//   - [FileStore]: a single JSON file, written atomically
//   - [SQLiteStore]: an embedded SQLite database (modernc.org/sqlite)
//   - [RedisStore]: one JSON value in Redis
//   - [MongoStore]: one document in a MongoDB collection
//
// [Open] picks a backend from a [Config]. Load returns nil data and no
// error when nothing has been saved yet; [LoadOrEmpty] turns that, and a
// saved family with no people, into an empty family.
//
// # JSON format
//
// The interchange format is an object with "people", "parentChildEdges",
// and "spouseEdges" arrays. [ReadJSON] requires "people" and treats a
// missing or malformed edge collection as empty; [WriteJSON] always emits
// all three, indented by two spaces.
package store
