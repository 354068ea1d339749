// pkg/inspect/codec.go
package inspect

import "github.com/fxamacker/cbor/v2"

// encMode uses Core Deterministic Encoding: the same listing always
// produces identical bytes.
var encMode cbor.EncMode

func init() {
	opts := cbor.CoreDetEncOptions()
	opts.Time = cbor.TimeRFC3339Nano
	var err error
	if encMode, err = opts.EncMode(); err != nil {
		panic("inspect: CBOR encoder initialization failed: " + err.Error())
	}
}
