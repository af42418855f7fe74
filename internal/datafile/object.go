package datafile

import (
	sonic "github.com/bytedance/sonic"
	"github.com/valyala/bytebufferpool"
)

// Member is one key/value pair of an Object.
type Member struct {
	Key   string
	Value any
}

// Object is a JSON object whose members encode in declaration order.
// Plain maps would marshal in randomized key order and break the
// byte-stable output the published files require.
type Object []Member

func (o Object) MarshalJSON() ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_ = buf.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			_ = buf.WriteByte(',')
		}
		key, err := sonic.Marshal(m.Key)
		if err != nil {
			return nil, err
		}
		_, _ = buf.Write(key)
		_ = buf.WriteByte(':')

		value, err := sonic.Marshal(m.Value)
		if err != nil {
			return nil, err
		}
		_, _ = buf.Write(value)
	}
	_ = buf.WriteByte('}')

	return append([]byte(nil), buf.B...), nil
}

// Set appends or replaces the member with the given key, preserving
// the position of an existing key.
func (o Object) Set(key string, value any) Object {
	for i := range o {
		if o[i].Key == key {
			o[i].Value = value
			return o
		}
	}
	return append(o, Member{Key: key, Value: value})
}
