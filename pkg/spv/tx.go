package spv

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// Guards against a hostile witness declaring absurd counts before the
// bounds checks on the remaining bytes kick in.
const (
	maxTxInputs    = 10_000
	maxTxOutputs   = 10_000
	maxScriptBytes = 10_000
)

// TxIn is a transaction input. Witness items are kept so segwit
// transactions round-trip byte-exactly, but they are excluded from the txid
// preimage.
type TxIn struct {
	PrevTxID        chainhash.Hash
	PrevIndex       uint32
	SignatureScript []byte
	Sequence        uint32
	Witness         [][]byte
}

// TxOut is a transaction output: a satoshi value and the locking script.
type TxOut struct {
	Value    int64
	PkScript []byte
}

// Transaction is a fully decoded Bitcoin transaction.
type Transaction struct {
	Version  int32
	Inputs   []TxIn
	Outputs  []TxOut
	LockTime uint32
}

// HasWitness reports whether any input carries witness data, which decides
// whether Serialize emits the segwit marker and flag.
func (t *Transaction) HasWitness() bool {
	for i := range t.Inputs {
		if len(t.Inputs[i].Witness) > 0 {
			return true
		}
	}
	return false
}

// txReader walks a byte slice with explicit bounds checks. Every read that
// would run past the end fails instead of panicking.
type txReader struct {
	buf []byte
	off int
}

func (r *txReader) remaining() int { return len(r.buf) - r.off }

func (r *txReader) readBytes(n int) ([]byte, error) {
	if n < 0 || r.remaining() < n {
		return nil, fmt.Errorf("need %d bytes at offset %d, have %d: %w", n, r.off, r.remaining(), ErrMalformed)
	}
	out := r.buf[r.off : r.off+n]
	r.off += n
	return out, nil
}

func (r *txReader) readUint32() (uint32, error) {
	b, err := r.readBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *txReader) readUint64() (uint64, error) {
	b, err := r.readBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (r *txReader) readHash() (chainhash.Hash, error) {
	var h chainhash.Hash
	b, err := r.readBytes(chainhash.HashSize)
	if err != nil {
		return h, err
	}
	copy(h[:], b)
	return h, nil
}

// readVarInt decodes the Bitcoin variable-length integer encoding and
// rejects non-minimal forms, which is required for the serialize/parse
// round-trip to be byte-exact.
func (r *txReader) readVarInt() (uint64, error) {
	if r.remaining() < 1 {
		return 0, fmt.Errorf("at offset %d: %w", r.off, ErrTruncatedVarint)
	}
	d := r.buf[r.off]
	r.off++
	switch d {
	case 0xfd:
		b, err := r.readBytes(2)
		if err != nil {
			return 0, fmt.Errorf("%v: %w", err, ErrTruncatedVarint)
		}
		v := uint64(binary.LittleEndian.Uint16(b))
		if v < 0xfd {
			return 0, fmt.Errorf("non-minimal varint %d: %w", v, ErrMalformed)
		}
		return v, nil
	case 0xfe:
		b, err := r.readBytes(4)
		if err != nil {
			return 0, fmt.Errorf("%v: %w", err, ErrTruncatedVarint)
		}
		v := uint64(binary.LittleEndian.Uint32(b))
		if v <= 0xffff {
			return 0, fmt.Errorf("non-minimal varint %d: %w", v, ErrMalformed)
		}
		return v, nil
	case 0xff:
		b, err := r.readBytes(8)
		if err != nil {
			return 0, fmt.Errorf("%v: %w", err, ErrTruncatedVarint)
		}
		v := binary.LittleEndian.Uint64(b)
		if v <= 0xffffffff {
			return 0, fmt.Errorf("non-minimal varint %d: %w", v, ErrMalformed)
		}
		return v, nil
	default:
		return uint64(d), nil
	}
}

func (r *txReader) readVarBytes(limit int, what string) ([]byte, error) {
	n, err := r.readVarInt()
	if err != nil {
		return nil, fmt.Errorf("%s length: %w", what, err)
	}
	if n > uint64(limit) || n > uint64(r.remaining()) {
		return nil, fmt.Errorf("%s declares %d bytes, %d remain: %w", what, n, r.remaining(), ErrMalformed)
	}
	out := make([]byte, n)
	copy(out, r.buf[r.off:r.off+int(n)])
	r.off += int(n)
	return out, nil
}

// ParseTransaction decodes a serialized Bitcoin transaction, legacy or
// segwit. Trailing bytes after the locktime are rejected.
func ParseTransaction(raw []byte) (*Transaction, error) {
	r := &txReader{buf: raw}
	tx := &Transaction{}

	ver, err := r.readUint32()
	if err != nil {
		return nil, fmt.Errorf("version: %w", err)
	}
	tx.Version = int32(ver)

	inCount, err := r.readVarInt()
	if err != nil {
		return nil, fmt.Errorf("input count: %w", err)
	}
	segwit := false
	if inCount == 0 && r.remaining() > 0 && r.buf[r.off] == 0x01 {
		// BIP-144 marker 0x00 followed by flag 0x01.
		segwit = true
		r.off++
		if inCount, err = r.readVarInt(); err != nil {
			return nil, fmt.Errorf("input count: %w", err)
		}
	}
	if inCount == 0 || inCount > maxTxInputs {
		return nil, fmt.Errorf("input count %d: %w", inCount, ErrMalformed)
	}

	tx.Inputs = make([]TxIn, inCount)
	for i := range tx.Inputs {
		in := &tx.Inputs[i]
		if in.PrevTxID, err = r.readHash(); err != nil {
			return nil, fmt.Errorf("input %d outpoint: %w", i, err)
		}
		if in.PrevIndex, err = r.readUint32(); err != nil {
			return nil, fmt.Errorf("input %d outpoint index: %w", i, err)
		}
		if in.SignatureScript, err = r.readVarBytes(maxScriptBytes, "signature script"); err != nil {
			return nil, fmt.Errorf("input %d: %w", i, err)
		}
		if in.Sequence, err = r.readUint32(); err != nil {
			return nil, fmt.Errorf("input %d sequence: %w", i, err)
		}
	}

	outCount, err := r.readVarInt()
	if err != nil {
		return nil, fmt.Errorf("output count: %w", err)
	}
	if outCount > maxTxOutputs {
		return nil, fmt.Errorf("output count %d: %w", outCount, ErrMalformed)
	}
	tx.Outputs = make([]TxOut, outCount)
	for i := range tx.Outputs {
		out := &tx.Outputs[i]
		v, err := r.readUint64()
		if err != nil {
			return nil, fmt.Errorf("output %d value: %w", i, err)
		}
		out.Value = int64(v)
		if out.PkScript, err = r.readVarBytes(maxScriptBytes, "pk script"); err != nil {
			return nil, fmt.Errorf("output %d: %w", i, err)
		}
	}

	if segwit {
		sawWitness := false
		for i := range tx.Inputs {
			itemCount, err := r.readVarInt()
			if err != nil {
				return nil, fmt.Errorf("input %d witness count: %w", i, err)
			}
			if itemCount > maxTxInputs {
				return nil, fmt.Errorf("input %d witness count %d: %w", i, itemCount, ErrMalformed)
			}
			if itemCount > 0 {
				sawWitness = true
				tx.Inputs[i].Witness = make([][]byte, itemCount)
				for j := range tx.Inputs[i].Witness {
					if tx.Inputs[i].Witness[j], err = r.readVarBytes(maxScriptBytes, "witness item"); err != nil {
						return nil, fmt.Errorf("input %d witness %d: %w", i, j, err)
					}
				}
			}
		}
		if !sawWitness {
			// Marker present but every stack empty is the non-canonical
			// encoding of a legacy transaction.
			return nil, fmt.Errorf("segwit marker without witness data: %w", ErrMalformed)
		}
	}

	if tx.LockTime, err = r.readUint32(); err != nil {
		return nil, fmt.Errorf("locktime: %w", err)
	}
	if r.remaining() != 0 {
		return nil, fmt.Errorf("%d trailing bytes: %w", r.remaining(), ErrMalformed)
	}
	return tx, nil
}

func writeVarInt(buf *bytes.Buffer, v uint64) {
	switch {
	case v < 0xfd:
		buf.WriteByte(byte(v))
	case v <= 0xffff:
		buf.WriteByte(0xfd)
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], uint16(v))
		buf.Write(b[:])
	case v <= 0xffffffff:
		buf.WriteByte(0xfe)
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], uint32(v))
		buf.Write(b[:])
	default:
		buf.WriteByte(0xff)
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], v)
		buf.Write(b[:])
	}
}

func writeVarBytes(buf *bytes.Buffer, b []byte) {
	writeVarInt(buf, uint64(len(b)))
	buf.Write(b)
}

func (t *Transaction) encode(buf *bytes.Buffer, withWitness bool) {
	var u32 [4]byte
	binary.LittleEndian.PutUint32(u32[:], uint32(t.Version))
	buf.Write(u32[:])

	if withWitness {
		buf.WriteByte(0x00)
		buf.WriteByte(0x01)
	}

	writeVarInt(buf, uint64(len(t.Inputs)))
	for i := range t.Inputs {
		in := &t.Inputs[i]
		buf.Write(in.PrevTxID[:])
		binary.LittleEndian.PutUint32(u32[:], in.PrevIndex)
		buf.Write(u32[:])
		writeVarBytes(buf, in.SignatureScript)
		binary.LittleEndian.PutUint32(u32[:], in.Sequence)
		buf.Write(u32[:])
	}

	writeVarInt(buf, uint64(len(t.Outputs)))
	var u64 [8]byte
	for i := range t.Outputs {
		out := &t.Outputs[i]
		binary.LittleEndian.PutUint64(u64[:], uint64(out.Value))
		buf.Write(u64[:])
		writeVarBytes(buf, out.PkScript)
	}

	if withWitness {
		for i := range t.Inputs {
			writeVarInt(buf, uint64(len(t.Inputs[i].Witness)))
			for _, item := range t.Inputs[i].Witness {
				writeVarBytes(buf, item)
			}
		}
	}

	binary.LittleEndian.PutUint32(u32[:], t.LockTime)
	buf.Write(u32[:])
}

// Serialize re-encodes the transaction. For any transaction accepted by
// ParseTransaction the output equals the original input byte for byte.
func (t *Transaction) Serialize() []byte {
	var buf bytes.Buffer
	t.encode(&buf, t.HasWitness())
	return buf.Bytes()
}

// TxID is the double-SHA256 of the transaction serialized without witness
// data, per the BIP-144 txid rule.
func (t *Transaction) TxID() chainhash.Hash {
	var buf bytes.Buffer
	t.encode(&buf, false)
	return chainhash.DoubleHashH(buf.Bytes())
}
