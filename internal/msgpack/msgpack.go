// Package msgpack is a thin wrapper around vmihailenco/msgpack/v5 that
// mirrors the small, self-registering encode/decode protocol used
// throughout this module: a type registers a numeric ID via Register, and
// its values implement EncodeTo/DecodeFrom instead of the library's own
// Marshaler/Unmarshaler interfaces directly. The ID lets a polymorphic field
// (e.g. a treeNode or a SplitCondition) be decoded back into the right
// concrete type without the caller knowing it in advance.
package msgpack

import (
	"context"
	"fmt"
	"io"
	"reflect"

	mp "github.com/vmihailenco/msgpack/v5"
)

// Encodable is implemented by types that know how to serialize themselves.
type Encodable interface {
	EncodeTo(enc *Encoder) error
}

// Decodable is implemented by types that know how to populate themselves
// from a Decoder.
type Decodable interface {
	DecodeFrom(dec *Decoder) error
}

var byID = map[uint32]reflect.Type{}
var byType = map[reflect.Type]uint32{}

// Register associates a stable numeric ID with a prototype value's type.
// Call it from an init() func, passing a nil pointer of the concrete type,
// e.g. msgpack.Register(7750, (*Tree)(nil)).
func Register(id uint32, proto interface{}) {
	t := reflect.TypeOf(proto)
	if t == nil || t.Kind() != reflect.Ptr {
		panic("msgpack: Register requires a nil pointer of the concrete type")
	}
	t = t.Elem()
	byID[id] = t
	byType[t] = id
}

// Encoder writes values using the registered encode protocol.
type Encoder struct {
	enc *mp.Encoder
	ctx context.Context
}

// NewEncoder returns an Encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{enc: mp.NewEncoder(w), ctx: context.Background()}
}

// WithContext attaches a context (e.g. carrying a *core.Model) to the
// encoder, retrievable from nested EncodeTo calls via Context().
func (e *Encoder) WithContext(ctx context.Context) *Encoder {
	e.ctx = ctx
	return e
}

// Context returns the encoder's context.
func (e *Encoder) Context() context.Context { return e.ctx }

// Close is a no-op, kept for API parity with encoders that buffer output.
func (e *Encoder) Close() error { return nil }

// Encode writes one or more values in sequence. Registered Encodable values
// are prefixed with their type ID so Decode can reconstruct the concrete
// type behind an interface-typed field.
func (e *Encoder) Encode(vs ...interface{}) error {
	for _, v := range vs {
		if err := e.encodeOne(v); err != nil {
			return err
		}
	}
	return nil
}

// encodeOne writes a value preceded by a bool "tagged" marker so Decode
// always knows whether a registered-type ID follows, regardless of whether
// the destination turns out to be a plain value or an interface-typed
// field. Only registered Encodable values are tagged; everything else goes
// straight through to the underlying msgpack encoder.
func (e *Encoder) encodeOne(v interface{}) error {
	if isNil(v) {
		if err := e.enc.EncodeBool(false); err != nil {
			return err
		}
		return e.enc.EncodeNil()
	}

	if enc, ok := v.(Encodable); ok {
		t := concreteType(v)
		id, tagged := byType[t]
		if err := e.enc.EncodeBool(tagged); err != nil {
			return err
		}
		if tagged {
			if err := e.enc.EncodeUint32(id); err != nil {
				return err
			}
		}
		return enc.EncodeTo(e)
	}

	if err := e.enc.EncodeBool(false); err != nil {
		return err
	}
	return e.enc.Encode(v)
}

func isNil(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	}
	return false
}

func concreteType(v interface{}) reflect.Type {
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Ptr {
		return t.Elem()
	}
	return t
}

// Decoder reads values using the registered decode protocol.
type Decoder struct {
	dec *mp.Decoder
	ctx context.Context
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{dec: mp.NewDecoder(r), ctx: context.Background()}
}

// WithContext attaches a context retrievable from nested DecodeFrom calls.
func (d *Decoder) WithContext(ctx context.Context) *Decoder {
	d.ctx = ctx
	return d
}

// Context returns the decoder's context.
func (d *Decoder) Context() context.Context { return d.ctx }

// Decode populates one or more destinations in sequence. dst must be a
// pointer; if it points to an interface or a nil pointer of a registered
// type, Decode instantiates the right concrete type from the wire ID.
func (d *Decoder) Decode(dsts ...interface{}) error {
	for _, dst := range dsts {
		if err := d.decodeOne(dst); err != nil {
			return err
		}
	}
	return nil
}

func (d *Decoder) decodeOne(dst interface{}) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Ptr {
		return fmt.Errorf("msgpack: decode destination must be a pointer, got %T", dst)
	}

	tagged, err := d.dec.DecodeBool()
	if err != nil {
		return err
	}

	elem := rv.Elem()

	if tagged {
		id, err := d.dec.DecodeUint32()
		if err != nil {
			return err
		}
		t, ok := byID[id]
		if !ok {
			return fmt.Errorf("msgpack: unknown registered type id %d", id)
		}
		nv := reflect.New(t)
		dec, ok := nv.Interface().(Decodable)
		if !ok {
			return fmt.Errorf("msgpack: type %s does not implement Decodable", t)
		}
		if err := dec.DecodeFrom(d); err != nil {
			return err
		}
		assignDecoded(elem, nv)
		return nil
	}

	if dec, ok := dst.(Decodable); ok {
		return dec.DecodeFrom(d)
	}
	return d.dec.Decode(dst)
}

// assignDecoded stores a freshly decoded *T into either a *T destination or
// an interface destination expecting something implementing that interface.
func assignDecoded(elem reflect.Value, nv reflect.Value) {
	switch elem.Kind() {
	case reflect.Ptr:
		elem.Set(nv)
	case reflect.Interface:
		elem.Set(nv)
	default:
		elem.Set(nv.Elem())
	}
}
