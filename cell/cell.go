// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cell

import (
	"encoding/binary"
	"math/big"

	"github.com/johnbendi/convex/utils/formatting"
)

// Cell is the common interface every lattice value satisfies. A Cell
// is immutable once constructed: all fields are set at construction
// time and the canonical hash is derived once and cached.
type Cell interface {
	Kind() Kind
	// Hash returns the content address of this cell's canonical
	// encoding, computing and caching it on first call.
	Hash() Hash
}

// parented is satisfied by container kinds that hold child Refs. Walk
// uses it to discover the reachable set without a type switch over
// every concrete kind.
type parented interface {
	children() []*Ref
}

type hashCache struct {
	hash Hash
	have bool
}

func (c *hashCache) cachedHash(self Cell) Hash {
	if c.have {
		return c.hash
	}
	enc, err := Encode(self)
	if err != nil {
		// Encode only fails on inputs that violate a constructor's own
		// invariants; a cell built through this package's constructors
		// never reaches this path.
		panic(err)
	}
	c.hash = HashOf(enc)
	c.have = true
	return c.hash
}

// Null is the unique empty value.
type Null struct{ hashCache }

func NewNull() *Null                { return &Null{} }
func (n *Null) Kind() Kind          { return KindNull }
func (n *Null) Hash() Hash          { return n.cachedHash(n) }

// Bool is a boolean leaf.
type Bool struct {
	hashCache
	Value bool
}

func NewBool(v bool) *Bool { return &Bool{Value: v} }
func (b *Bool) Kind() Kind { return KindBool }
func (b *Bool) Hash() Hash { return b.cachedHash(b) }

// ByteFlag is a 4-bit tag value, used for small closed enumerations
// (e.g. record discriminators) that don't warrant a full Long.
type ByteFlag struct {
	hashCache
	Value uint8 // 0..15
}

func NewByteFlag(v uint8) (*ByteFlag, error) {
	if v > 0x0f {
		return nil, badFormat("byte flag out of range: %d", v)
	}
	return &ByteFlag{Value: v}, nil
}
func (b *ByteFlag) Kind() Kind { return KindByteFlag }
func (b *ByteFlag) Hash() Hash { return b.cachedHash(b) }

// Long is a signed 64-bit integer.
type Long struct {
	hashCache
	Value int64
}

func NewLong(v int64) *Long { return &Long{Value: v} }
func (l *Long) Kind() Kind  { return KindLong }
func (l *Long) Hash() Hash  { return l.cachedHash(l) }

// Double is an IEEE 754 binary64 value. NaN is canonicalized to a
// single bit pattern at construction so that all NaNs hash equal.
type Double struct {
	hashCache
	Value float64
}

func NewDouble(v float64) *Double {
	if v != v { // NaN
		v = canonicalNaN()
	}
	return &Double{Value: v}
}
func (d *Double) Kind() Kind { return KindDouble }
func (d *Double) Hash() Hash { return d.cachedHash(d) }

// BigInteger is an arbitrary-precision signed integer, used once a
// value no longer fits in the 8 bytes a Long allows.
type BigInteger struct {
	hashCache
	Value *big.Int
}

func NewBigInteger(v *big.Int) (*BigInteger, error) {
	if v.IsInt64() {
		return nil, badFormat("value %s fits in a Long; use NewLong instead", v)
	}
	return &BigInteger{Value: new(big.Int).Set(v)}, nil
}
func (b *BigInteger) Kind() Kind { return KindBigInteger }
func (b *BigInteger) Hash() Hash { return b.cachedHash(b) }

// StringLeaf is a UTF-8 string short enough to encode directly.
type StringLeaf struct {
	hashCache
	Value string
}

func NewStringLeaf(s string) *StringLeaf { return &StringLeaf{Value: s} }
func (s *StringLeaf) Kind() Kind         { return KindStringLeaf }
func (s *StringLeaf) Hash() Hash         { return s.cachedHash(s) }

// StringTree is a string split into CHUNK_LENGTH-byte pieces, each
// held behind a Ref, for strings too long to leaf-encode.
type StringTree struct {
	hashCache
	Length int64 // total byte length across all chunks
	Chunks []*Ref
}

func NewStringTree(length int64, chunks []*Ref) *StringTree {
	return &StringTree{Length: length, Chunks: chunks}
}
func (s *StringTree) Kind() Kind        { return KindStringTree }
func (s *StringTree) Hash() Hash        { return s.cachedHash(s) }
func (s *StringTree) children() []*Ref  { return s.Chunks }

// BlobLeaf is an opaque byte string short enough to encode directly.
type BlobLeaf struct {
	hashCache
	Value []byte
}

func NewBlobLeaf(b []byte) *BlobLeaf {
	v := make([]byte, len(b))
	copy(v, b)
	return &BlobLeaf{Value: v}
}
func (b *BlobLeaf) Kind() Kind { return KindBlobLeaf }
func (b *BlobLeaf) Hash() Hash { return b.cachedHash(b) }

// BlobTree is a byte string split into CHUNK_LENGTH-byte pieces.
type BlobTree struct {
	hashCache
	Length int64
	Chunks []*Ref
}

func NewBlobTree(length int64, chunks []*Ref) *BlobTree {
	return &BlobTree{Length: length, Chunks: chunks}
}
func (b *BlobTree) Kind() Kind       { return KindBlobTree }
func (b *BlobTree) Hash() Hash       { return b.cachedHash(b) }
func (b *BlobTree) children() []*Ref { return b.Chunks }

// VectorLeaf holds up to vectorFanout elements directly.
type VectorLeaf struct {
	hashCache
	Items []*Ref
}

const vectorFanout = 16

func NewVectorLeaf(items []*Ref) (*VectorLeaf, error) {
	if len(items) > vectorFanout {
		return nil, badFormat("vector leaf holds at most %d items, got %d", vectorFanout, len(items))
	}
	return &VectorLeaf{Items: items}, nil
}
func (v *VectorLeaf) Kind() Kind       { return KindVectorLeaf }
func (v *VectorLeaf) Hash() Hash       { return v.cachedHash(v) }
func (v *VectorLeaf) children() []*Ref { return v.Items }

// VectorTree is an internal node of a 16-way RRB-style vector trie.
// Count is the total number of leaf elements reachable beneath this
// node, used to compute index-to-child routing without decoding
// every child.
type VectorTree struct {
	hashCache
	Count    int64
	Children []*Ref
}

func NewVectorTree(count int64, children []*Ref) (*VectorTree, error) {
	if len(children) > vectorFanout {
		return nil, badFormat("vector tree holds at most %d children, got %d", vectorFanout, len(children))
	}
	return &VectorTree{Count: count, Children: children}, nil
}
func (v *VectorTree) Kind() Kind       { return KindVectorTree }
func (v *VectorTree) Hash() Hash       { return v.cachedHash(v) }
func (v *VectorTree) children() []*Ref { return v.Children }

// MapEntry is a single key/value pair in a MapLeaf.
type MapEntry struct {
	Key   *Ref
	Value *Ref
}

// MapLeaf holds up to mapFanout key/value pairs directly, sorted by
// key hash so that two maps with the same contents always leaf-encode
// identically regardless of insertion order.
type MapLeaf struct {
	hashCache
	Entries []MapEntry
}

const mapFanout = 8

func NewMapLeaf(entries []MapEntry) (*MapLeaf, error) {
	if len(entries) > mapFanout {
		return nil, badFormat("map leaf holds at most %d entries, got %d", mapFanout, len(entries))
	}
	return &MapLeaf{Entries: sortMapEntries(entries)}, nil
}
func (m *MapLeaf) Kind() Kind { return KindMapLeaf }
func (m *MapLeaf) Hash() Hash { return m.cachedHash(m) }
func (m *MapLeaf) children() []*Ref {
	refs := make([]*Ref, 0, 2*len(m.Entries))
	for _, e := range m.Entries {
		refs = append(refs, e.Key, e.Value)
	}
	return refs
}

// MapTree is a hash-array-mapped-trie internal node: Bitmap marks
// which of the 16 possible child slots (selected by 4 bits of the
// key's hash at this depth) are populated, and Children holds exactly
// popcount(Bitmap) refs in slot order.
type MapTree struct {
	hashCache
	Bitmap   uint16
	Children []*Ref
}

func NewMapTree(bitmap uint16, children []*Ref) *MapTree {
	return &MapTree{Bitmap: bitmap, Children: children}
}
func (m *MapTree) Kind() Kind       { return KindMapTree }
func (m *MapTree) Hash() Hash       { return m.cachedHash(m) }
func (m *MapTree) children() []*Ref { return m.Children }

// Index is a node of a byte-wise compressed (Patricia) trie mapping
// arbitrary byte-string keys to value Refs, used for the lattice's
// sparse ordered key space. Prefix holds the bytes this node
// consumes beyond its parent; Value is set when the path to this node
// is itself a complete key; Entries holds the branching children,
// sorted by their discriminating byte.
type Index struct {
	hashCache
	Prefix  []byte
	Value   *Ref // nil if Prefix alone is not a stored key
	Entries []IndexEntry
}

// IndexEntry is one outgoing branch of an Index node, discriminated
// by the first byte of the child's remaining key suffix.
type IndexEntry struct {
	Byte  byte
	Child *Ref
}

func NewIndex(prefix []byte, value *Ref, entries []IndexEntry) *Index {
	p := make([]byte, len(prefix))
	copy(p, prefix)
	return &Index{Prefix: p, Value: value, Entries: sortIndexEntries(entries)}
}
func (x *Index) Kind() Kind { return KindIndex }
func (x *Index) Hash() Hash { return x.cachedHash(x) }
func (x *Index) children() []*Ref {
	refs := make([]*Ref, 0, len(x.Entries)+1)
	if x.Value != nil {
		refs = append(refs, x.Value)
	}
	for _, e := range x.Entries {
		refs = append(refs, e.Child)
	}
	return refs
}

// Address identifies an account by its number, encoded on the wire as
// a VLQ-Count payload rather than a fixed-width identity (per §3/§4.C:
// "Address | VLQ-Count of account number").
type Address struct {
	hashCache
	Account uint64
}

func NewAddress(account uint64) *Address { return &Address{Account: account} }
func (a *Address) Kind() Kind            { return KindAddress }
func (a *Address) Hash() Hash            { return a.cachedHash(a) }

// String renders the account number as "0x"-prefixed hex.
func (a *Address) String() string {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], a.Account)
	s, _ := formatting.Encode(formatting.HexC, buf[:])
	return s
}

// Keyword is an interned short identifier, distinct from Symbol in
// that keywords self-evaluate and are used as map keys and record
// field names.
type Keyword struct {
	hashCache
	Name string
}

func NewKeyword(name string) *Keyword { return &Keyword{Name: name} }
func (k *Keyword) Kind() Kind         { return KindKeyword }
func (k *Keyword) Hash() Hash         { return k.cachedHash(k) }

// Symbol is an interned identifier that, unlike Keyword, is meant to
// resolve against an environment rather than self-evaluate.
type Symbol struct {
	hashCache
	Name string
}

func NewSymbol(name string) *Symbol { return &Symbol{Name: name} }
func (s *Symbol) Kind() Kind        { return KindSymbol }
func (s *Symbol) Hash() Hash        { return s.cachedHash(s) }

// RecordKind discriminates the fixed set of structured record shapes
// the lattice defines (transactions, peer beliefs, and so on). The
// discriminator is embedded directly in the wire tag, so it is
// bounded to 4 bits.
type RecordKind uint8

// Record is a fixed-shape, named-field aggregate: the cell analogue
// of a struct, as opposed to a Map's open-ended key set.
type Record struct {
	hashCache
	RecordKind RecordKind
	Fields     []*Ref
}

func NewRecord(kind RecordKind, fields []*Ref) (*Record, error) {
	if kind > 0x0f {
		return nil, badFormat("record kind out of range: %d", kind)
	}
	return &Record{RecordKind: kind, Fields: fields}, nil
}
func (r *Record) Kind() Kind       { return KindRecord }
func (r *Record) Hash() Hash       { return r.cachedHash(r) }
func (r *Record) children() []*Ref { return r.Fields }

// Signed wraps a payload cell together with the address that signed
// it and the signature bytes, without interpreting the signature
// scheme itself.
type Signed struct {
	hashCache
	Value     *Ref
	Signer    [32]byte
	Signature []byte
}

func NewSigned(value *Ref, signer [32]byte, signature []byte) *Signed {
	sig := make([]byte, len(signature))
	copy(sig, signature)
	return &Signed{Value: value, Signer: signer, Signature: sig}
}
func (s *Signed) Kind() Kind       { return KindSigned }
func (s *Signed) Hash() Hash       { return s.cachedHash(s) }
func (s *Signed) children() []*Ref { return []*Ref{s.Value} }
