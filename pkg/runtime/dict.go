package runtime

import (
	"encoding/binary"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// DictEntry is one key/value pair of a Dict, in insertion order.
type DictEntry struct {
	Key   Value
	Value Value
	Hash  uint64
}

// Dict is the insertion-ordered mapping behind GenericDict values. Keys may
// be None, Bool, Int, Double, String (compared by content) or Tensor
// (compared by identity). The dict owns every key and value stored in it.
type Dict struct {
	Header
	entries []DictEntry
	index   map[uint64][]int
}

func NewDict() *Dict {
	return &Dict{index: make(map[uint64][]int)}
}

func (d *Dict) Len() int { return len(d.entries) }

// Insert adds key→val unless key is already present. It adopts both
// references either way and reports whether the pair was stored.
func (d *Dict) Insert(key, val Value) bool {
	h := hashDictKey("Dict.Insert", key)
	if d.find(h, key) >= 0 {
		key.Release()
		val.Release()
		return false
	}
	d.push(h, key, val)
	return true
}

// InsertOrAssign stores key→val, replacing (and releasing) any previous value.
// It reports whether a new entry was created.
func (d *Dict) InsertOrAssign(key, val Value) bool {
	h := hashDictKey("Dict.InsertOrAssign", key)
	if idx := d.find(h, key); idx >= 0 {
		key.Release()
		d.entries[idx].Value.Release()
		d.entries[idx].Value = val
		return false
	}
	d.push(h, key, val)
	return true
}

// Get looks key up without consuming it. The returned Value is borrowed.
func (d *Dict) Get(key Value) (Value, bool) {
	idx := d.find(hashDictKey("Dict.Get", key), key)
	if idx < 0 {
		return Value{}, false
	}
	return d.entries[idx].Value, true
}

func (d *Dict) Contains(key Value) bool {
	return d.find(hashDictKey("Dict.Contains", key), key) >= 0
}

// Erase removes key, releasing the stored pair. It reports whether key was present.
func (d *Dict) Erase(key Value) bool {
	idx := d.find(hashDictKey("Dict.Erase", key), key)
	if idx < 0 {
		return false
	}
	d.entries[idx].Key.Release()
	d.entries[idx].Value.Release()
	d.entries = append(d.entries[:idx], d.entries[idx+1:]...)
	d.reindex()
	return true
}

// Entries returns the pairs in insertion order. The slice aliases the dict.
func (d *Dict) Entries() []DictEntry { return d.entries }

// Clear releases every pair.
func (d *Dict) Clear() {
	for i := range d.entries {
		d.entries[i].Key.Release()
		d.entries[i].Value.Release()
	}
	d.entries = d.entries[:0]
	clear(d.index)
}

func (d *Dict) Release() { Release(d) }

func (d *Dict) dispose() {
	d.Clear()
	d.entries = nil
}

func (d *Dict) push(h uint64, key, val Value) {
	if d.index == nil {
		d.index = make(map[uint64][]int)
	}
	d.index[h] = append(d.index[h], len(d.entries))
	d.entries = append(d.entries, DictEntry{Key: key, Value: val, Hash: h})
}

func (d *Dict) find(h uint64, key Value) int {
	for _, idx := range d.index[h] {
		if dictKeyEqual(d.entries[idx].Key, key) {
			return idx
		}
	}
	return -1
}

func (d *Dict) reindex() {
	clear(d.index)
	for i, e := range d.entries {
		d.index[e.Hash] = append(d.index[e.Hash], i)
	}
}

func (d *Dict) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, e := range d.entries {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%v: %v", e.Key, e.Value)
	}
	b.WriteByte('}')
	return b.String()
}

// IsHashableKind reports whether values of kind k may key a Dict.
func IsHashableKind(k Kind) bool {
	switch k {
	case KindNone, KindBool, KindInt, KindDouble, KindString, KindTensor:
		return true
	default:
		return false
	}
}

func hashDictKey(op string, key Value) uint64 {
	var buf [9]byte
	buf[0] = byte(key.kind)
	switch key.kind {
	case KindNone:
	case KindBool, KindInt:
		binary.LittleEndian.PutUint64(buf[1:], key.bits)
	case KindDouble:
		f := math.Float64frombits(key.bits)
		if f == 0 {
			f = 0 // fold -0 onto +0 so equal keys share a bucket
		}
		binary.LittleEndian.PutUint64(buf[1:], math.Float64bits(f))
	case KindString:
		d := xxhash.New()
		_, _ = d.Write(buf[:1])
		_, _ = d.WriteString(key.heap.(*ConstantString).str)
		return d.Sum64()
	case KindTensor:
		binary.LittleEndian.PutUint64(buf[1:], uint64(heapAddr(key.heap)))
	default:
		panic(&ContractViolation{
			Kind:    ViolationTypeMismatch,
			Op:      op,
			Actual:  key.kind,
			Message: fmt.Sprintf("unhashable dict key kind %s", key.kind),
		})
	}
	return xxhash.Sum64(buf[:])
}

func dictKeyEqual(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNone:
		return true
	case KindBool, KindInt:
		return a.bits == b.bits
	case KindDouble:
		return math.Float64frombits(a.bits) == math.Float64frombits(b.bits)
	case KindString:
		return a.heap.(*ConstantString).str == b.heap.(*ConstantString).str
	case KindTensor:
		return a.heap == b.heap
	default:
		return false
	}
}

func heapAddr(h HeapObject) uintptr {
	if h == nil {
		return 0
	}
	rv := reflect.ValueOf(h)
	if rv.Kind() != reflect.Pointer {
		return 0
	}
	return rv.Pointer()
}
