package trigger

import (
	"io"

	"github.com/fxamacker/cbor/v2"
)

const (
	ActionRotate = "rotate"
	ActionPing   = "ping"
)

// Request is the single message a relay client sends per connection.
type Request struct {
	Action    string `cbor:"action"`
	Interface string `cbor:"interface,omitempty"`
}

type Response struct {
	OK    bool   `cbor:"ok"`
	Error string `cbor:"error,omitempty"`
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("trigger: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("trigger: CBOR decoder initialization failed: " + err.Error())
	}
}

func encode(w io.Writer, v any) error {
	return encMode.NewEncoder(w).Encode(v)
}

func decode(r io.Reader, v any) error {
	return decMode.NewDecoder(r).Decode(v)
}
