package datafile

import (
	"fmt"

	sonic "github.com/bytedance/sonic"
	"github.com/valyala/bytebufferpool"
)

// Decl is one "const NAME=<json>;" declaration of a published file.
type Decl struct {
	Name  string
	Value any
}

// Render encodes a whole data file: each declaration on the published
// compact form, terminated by a semicolon and newline.
func Render(header string, decls ...Decl) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if header != "" {
		_, _ = buf.WriteString(header)
	}
	for _, d := range decls {
		if d.Name == "" {
			return nil, fmt.Errorf("declaration name is required")
		}
		encoded, err := sonic.Marshal(d.Value)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", d.Name, err)
		}
		_, _ = buf.WriteString("const ")
		_, _ = buf.WriteString(d.Name)
		_ = buf.WriteByte('=')
		_, _ = buf.Write(encoded)
		_, _ = buf.WriteString(";\n")
	}

	return append([]byte(nil), buf.B...), nil
}
