package piano

type (
	Bool struct {
		BoolValue
	}

	BoolValue interface {
		Value() bool
		SetValue(bool)
	}
)

func MakeBool(value BoolValue) Bool {
	return Bool{value}
}

func (v Bool) Toggle() {
	v.SetValue(!v.Value())
}

func (v Bool) Set(value bool) {
	if v.Enabled() && v.Value() != value {
		v.SetValue(value)
	}
}

func (v Bool) Enabled() bool {
	if v.BoolValue == nil {
		return false
	}
	e, ok := v.BoolValue.(Enabler)
	if !ok {
		return true
	}
	return e.Enabled()
}
