package wirebin

// Hand-written fixtures in the exact shape wirebingen emits, so the
// runtime support and the generator's output contract are tested
// together.

type wirePoint struct {
	X     int32
	Y     int32
	Label string

	// In-memory only, reconstructed as the zero value on decode.
	cachedArea int64 `wire:"-"`
}

func (v *wirePoint) EncodeWire(w *Writer) error {
	w.WriteInt32(v.X)
	w.WriteInt32(v.Y)
	w.WriteString(v.Label)
	return w.Err()
}

func (v *wirePoint) DecodeWire(r *Reader) error {
	v.X = r.ReadInt32()
	v.Y = r.ReadInt32()
	v.Label = r.ReadString()
	v.cachedArea = 0
	return r.Err()
}

type command interface{ isCommand() }

type cmdPing struct {
	Seq uint32
}

func (cmdPing) isCommand() {}

type cmdQuit struct{}

func (cmdQuit) isCommand() {}

func (v *cmdPing) EncodeWire(w *Writer) error {
	w.WriteUint32(v.Seq)
	return w.Err()
}

func (v *cmdPing) DecodeWire(r *Reader) error {
	v.Seq = r.ReadUint32()
	return r.Err()
}

func (v *cmdQuit) EncodeWire(w *Writer) error { return w.Err() }

func (v *cmdQuit) DecodeWire(r *Reader) error { return r.Err() }

func encodeCommand(w *Writer, v command) error {
	switch x := v.(type) {
	case cmdPing:
		w.WriteDiscrim(0)
		return x.EncodeWire(w)
	case cmdQuit:
		w.WriteDiscrim(1)
		return x.EncodeWire(w)
	default:
		err := Errorf("cannot encode %T as command", v)
		w.Fail(err)
		return err
	}
}

func decodeCommand(r *Reader) (command, error) {
	switch r.ReadDiscrim(2) {
	case 0:
		if r.Err() != nil {
			return nil, r.Err()
		}
		var x cmdPing
		if err := x.DecodeWire(r); err != nil {
			return nil, err
		}
		return x, nil
	case 1:
		if r.Err() != nil {
			return nil, r.Err()
		}
		var x cmdQuit
		if err := x.DecodeWire(r); err != nil {
			return nil, err
		}
		return x, nil
	}
	return nil, r.Err()
}

type listNode struct {
	Value uint32
	Next  *listNode
}

func (v *listNode) EncodeWire(w *Writer) error {
	w.WriteUint32(v.Value)
	if v.Next == nil {
		w.WriteBool(false)
	} else {
		w.WriteBool(true)
		if err := v.Next.EncodeWire(w); err != nil {
			return err
		}
	}
	return w.Err()
}

func (v *listNode) DecodeWire(r *Reader) error {
	v.Value = r.ReadUint32()
	if r.ReadBool() {
		if err := r.EnterNested(); err != nil {
			return err
		}
		v.Next = new(listNode)
		if err := v.Next.DecodeWire(r); err != nil {
			return err
		}
		r.LeaveNested()
	} else {
		v.Next = nil
	}
	return r.Err()
}
