package blob

import (
	"errors"
	"fmt"

	"github.com/chazu/jscore/vm"
	"github.com/chazu/jscore/vm/buffer"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("jscore.blob")

// Magic opens every blob.
const Magic int32 = 0x736a756d

// HeaderSize is the size of the magic and flags words.
const HeaderSize = 8

// Flags select encoding options. They are stored in the header so the
// decoder reads the same layout the encoder wrote.
type Flags int32

// StripDebug omits function names, file names and line numbers.
const StripDebug Flags = 1 << 0

// Record tags.
const (
	tagDecl uint8 = 1 + iota
	tagMeta
	tagNums
	tagStrs
	tagVars
	tagCode
	tagFuns
)

const (
	inlineString = 0xFFFF // string index escape: u32-length-prefixed bytes follow
	maxStrings   = 0xFFFE // distinct non-empty strings per blob
	wideInstr    = 0xFFFF // instruction escape: i32 follows
)

// Meta bit field.
const (
	metaScript uint8 = 1 << iota
	metaLightweight
	metaStrict
	metaArguments
)

var (
	ErrInvalidMagic       = errors.New("blob: invalid magic")
	ErrUnknownRecord      = errors.New("blob: unknown record")
	ErrTruncated          = errors.New("blob: truncated")
	ErrInvalidStringIndex = errors.New("blob: invalid string index")
	ErrTooManyStrings     = errors.New("blob: too many distinct strings")
	ErrTooShort           = errors.New("blob: shorter than header")
)

// ---------------------------------------------------------------------------
// Encoding
// ---------------------------------------------------------------------------

type encoder struct {
	buf     *buffer.ByteBuffer
	strings map[string]uint16
	flags   Flags
}

// Encode serializes fn and its nested functions.
func Encode(s *vm.State, fn *vm.Function, flags Flags) ([]byte, error) {
	e := &encoder{
		buf:     buffer.NewByteBuffer(256),
		strings: make(map[string]uint16),
		flags:   flags,
	}
	e.buf.PutI32(Magic)
	e.buf.PutI32(int32(flags))
	if err := e.function(fn); err != nil {
		return nil, err
	}
	commonlog.NewKeyValueLogger(log, "state", s.ID()).
		Debugf("encoded %q: %d bytes, %d strings", fn.Name, e.buf.Len(), len(e.strings))
	return e.buf.Bytes(), nil
}

func (e *encoder) putString(str string) error {
	if str == "" {
		e.buf.PutU16(0)
		return nil
	}
	if id, ok := e.strings[str]; ok {
		e.buf.PutU16(id)
		return nil
	}
	if len(e.strings) >= maxStrings {
		return ErrTooManyStrings
	}
	e.strings[str] = uint16(len(e.strings) + 1)
	e.buf.PutU16(inlineString)
	e.buf.PutLS(str)
	return nil
}

func (e *encoder) putStrings(list []string) error {
	e.buf.PutI32(int32(len(list)))
	for _, str := range list {
		if err := e.putString(str); err != nil {
			return err
		}
	}
	return nil
}

func (e *encoder) function(fn *vm.Function) error {
	strip := e.flags&StripDebug != 0
	e.buf.PutU8(tagDecl)

	e.buf.PutU8(tagMeta)
	if !strip {
		if err := e.putString(fn.Name); err != nil {
			return err
		}
	}
	var bits uint8
	if fn.Script {
		bits |= metaScript
	}
	if fn.Lightweight {
		bits |= metaLightweight
	}
	if fn.Strict {
		bits |= metaStrict
	}
	if fn.Arguments {
		bits |= metaArguments
	}
	e.buf.PutU8(bits)
	e.buf.PutU16(uint16(fn.NumParams))
	if !strip {
		if err := e.putString(fn.Filename); err != nil {
			return err
		}
		e.buf.PutI32(int32(fn.Line))
		e.buf.PutI32(int32(fn.LastLine))
	}

	e.buf.PutU8(tagNums)
	e.buf.PutI32(int32(len(fn.Nums)))
	for _, n := range fn.Nums {
		e.buf.PutF64(n)
	}

	e.buf.PutU8(tagStrs)
	if err := e.putStrings(fn.Strs); err != nil {
		return err
	}
	e.buf.PutU8(tagVars)
	if err := e.putStrings(fn.Vars); err != nil {
		return err
	}

	e.buf.PutU8(tagCode)
	e.buf.PutI32(int32(len(fn.Code)))
	for _, ins := range fn.Code {
		if ins >= 0 && ins < wideInstr {
			e.buf.PutU16(uint16(ins))
		} else {
			e.buf.PutU16(wideInstr)
			e.buf.PutI32(ins)
		}
	}

	// Nested functions close the record list of their parent.
	e.buf.PutU8(tagFuns)
	e.buf.PutI32(int32(len(fn.Funs)))
	for _, child := range fn.Funs {
		if err := e.function(child); err != nil {
			return err
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Decoding
// ---------------------------------------------------------------------------

type decoder struct {
	state   *vm.State
	buf     *buffer.ByteBuffer
	strings []string
	flags   Flags
	count   int
}

// Decode rebuilds a function tree from a blob. Inline strings are interned
// in s and every decoded function is registered with its heap.
func Decode(s *vm.State, data []byte) (*vm.Function, error) {
	if len(data) < HeaderSize {
		return nil, ErrTooShort
	}
	d := &decoder{state: s, buf: buffer.FromBytes(data)}
	if d.buf.GetI32() != Magic {
		return nil, ErrInvalidMagic
	}
	d.flags = Flags(d.buf.GetI32())

	fn, err := d.function()
	if err != nil {
		return nil, err
	}
	l := commonlog.NewKeyValueLogger(log, "state", s.ID())
	if rest := d.buf.Remaining(); rest > 0 {
		l.Warningf("ignoring %d bytes after the top-level function", rest)
	}
	l.Debugf("decoded %q: %d functions, %d strings", fn.Name, d.count, len(d.strings))
	return fn, nil
}

func (d *decoder) truncated() error {
	if d.buf.Err() != nil {
		return fmt.Errorf("%w at offset %d", ErrTruncated, d.buf.Pos())
	}
	return nil
}

func (d *decoder) getString() (string, error) {
	id := d.buf.GetU16()
	if err := d.truncated(); err != nil {
		return "", err
	}
	switch {
	case id == 0:
		return "", nil
	case id == inlineString:
		str := d.buf.GetLS()
		if err := d.truncated(); err != nil {
			return "", err
		}
		if len(d.strings) >= maxStrings {
			return "", ErrTooManyStrings
		}
		str = d.state.Intern(str).String()
		d.strings = append(d.strings, str)
		return str, nil
	case int(id) > len(d.strings):
		return "", fmt.Errorf("%w: %d of %d", ErrInvalidStringIndex, id, len(d.strings))
	}
	return d.strings[id-1], nil
}

// length reads a record element count. Each element takes at least size
// bytes, so a count the remaining data cannot hold is a truncation.
func (d *decoder) length(size int) (int, error) {
	n := d.buf.GetI32()
	if err := d.truncated(); err != nil {
		return 0, err
	}
	if n < 0 || int(n) > d.buf.Remaining()/size {
		return 0, fmt.Errorf("%w: record of %d elements at offset %d", ErrTruncated, n, d.buf.Pos())
	}
	return int(n), nil
}

func (d *decoder) stringList() ([]string, error) {
	n, err := d.length(2)
	if err != nil {
		return nil, err
	}
	list := make([]string, n)
	for i := range list {
		if list[i], err = d.getString(); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (d *decoder) function() (*vm.Function, error) {
	if t := d.buf.GetU8(); t != tagDecl {
		if err := d.truncated(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: expected function declaration, got tag %d", ErrUnknownRecord, t)
	}
	fn := &vm.Function{}
	d.state.Heap().AddFunction(fn)
	d.count++
	strip := d.flags&StripDebug != 0

	for d.buf.Remaining() > 0 {
		pos := d.buf.Pos()
		var err error
		switch t := d.buf.GetU8(); t {
		case tagDecl:
			// The next sibling starts here.
			d.buf.Seek(pos)
			return fn, nil

		case tagMeta:
			if !strip {
				if fn.Name, err = d.getString(); err != nil {
					return nil, err
				}
			}
			bits := d.buf.GetU8()
			fn.Script = bits&metaScript != 0
			fn.Lightweight = bits&metaLightweight != 0
			fn.Strict = bits&metaStrict != 0
			fn.Arguments = bits&metaArguments != 0
			fn.NumParams = int(d.buf.GetU16())
			if !strip {
				if fn.Filename, err = d.getString(); err != nil {
					return nil, err
				}
				fn.Line = int(d.buf.GetI32())
				fn.LastLine = int(d.buf.GetI32())
			}

		case tagNums:
			n, err := d.length(8)
			if err != nil {
				return nil, err
			}
			fn.Nums = make([]float64, n)
			for i := range fn.Nums {
				fn.Nums[i] = d.buf.GetF64()
			}

		case tagStrs:
			if fn.Strs, err = d.stringList(); err != nil {
				return nil, err
			}

		case tagVars:
			if fn.Vars, err = d.stringList(); err != nil {
				return nil, err
			}

		case tagCode:
			n, err := d.length(2)
			if err != nil {
				return nil, err
			}
			fn.Code = make([]int32, n)
			for i := range fn.Code {
				if ins := d.buf.GetU16(); ins == wideInstr {
					fn.Code[i] = d.buf.GetI32()
				} else {
					fn.Code[i] = int32(ins)
				}
			}

		case tagFuns:
			n, err := d.length(1)
			if err != nil {
				return nil, err
			}
			fn.Funs = make([]*vm.Function, n)
			for i := range fn.Funs {
				if fn.Funs[i], err = d.function(); err != nil {
					return nil, err
				}
			}
			return fn, nil

		default:
			if err := d.truncated(); err != nil {
				return nil, err
			}
			return nil, fmt.Errorf("%w: tag %d at offset %d", ErrUnknownRecord, t, pos)
		}
		if err := d.truncated(); err != nil {
			return nil, err
		}
	}
	return fn, nil
}
